package transport

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/ionview/internal/artifact"
	"github.com/rpggio/ionview/internal/domain/viewer"
	"github.com/rpggio/ionview/internal/metrics"
)

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !artifact.IsName(name) {
		metrics.RecordDownload("invalid")
		http.Error(w, fmt.Sprintf("invalid artifact name: %s", name), http.StatusBadRequest)
		return
	}

	ticket, err := s.viewer.Ticket(viewer.DownloadRequested{
		ArtifactName: name,
		Label:        r.URL.Query().Get("label"),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if s.artifacts == nil {
		metrics.RecordDownload("missing")
		http.Error(w, downloadErrorMessage(ticket), http.StatusNotFound)
		return
	}

	body, err := s.artifacts.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			metrics.RecordDownload("missing")
			http.Error(w, downloadErrorMessage(ticket), http.StatusNotFound)
			return
		}
		metrics.RecordDownload("error")
		s.logger.Error("artifact open failed", "artifact", name, "error", err)
		http.Error(w, "artifact store unavailable", http.StatusBadGateway)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "chemical/x-pdb")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": ticket.FileName}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		s.logger.Warn("artifact copy interrupted", "artifact", name, "error", err)
		return
	}
	metrics.RecordDownload("served")
}

// downloadErrorMessage is the user-facing text for a structure file that
// could not be served.
func downloadErrorMessage(t viewer.DownloadTicket) string {
	url := t.URL
	if url == "" {
		url = artifact.ResolveURL("", t.ArtifactName)
	}
	return fmt.Sprintf("Unable to download PDB file: %s\nURL: %s\n\n"+
		"Please check:\n"+
		"1. The file exists in the %s/ directory\n"+
		"2. The artifact store is reachable\n"+
		"3. File permissions are correct", t.FileName, url, artifact.DefaultDir)
}
