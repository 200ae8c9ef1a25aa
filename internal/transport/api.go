package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rpggio/ionview/internal/domain/variant"
	"github.com/rpggio/ionview/internal/domain/viewer"
)

// eventRequest is the POST /api/events body. Type selects which fields apply.
type eventRequest struct {
	Type         string `json:"type"`
	Column       string `json:"column,omitempty"`
	Direction    string `json:"direction,omitempty"`
	Text         string `json:"text"`
	ArtifactName string `json:"artifact_name,omitempty"`
	Label        string `json:"label,omitempty"`
}

type apiError struct {
	Error string       `json:"error"`
	Code  string       `json:"code"`
	View  *viewer.View `json:"view,omitempty"`
}

var errUnknownEventType = errors.New("unknown event type")

func (e eventRequest) event() (viewer.Event, error) {
	switch e.Type {
	case viewer.SortRequested{}.Kind():
		ev := viewer.SortRequested{Column: e.Column}
		if e.Direction != "" {
			dir, err := variant.ParseDirection(e.Direction)
			if err != nil {
				return nil, err
			}
			ev.Direction = dir
		}
		return ev, nil
	case viewer.QueryChanged{}.Kind():
		return viewer.QueryChanged{Text: e.Text}, nil
	case viewer.DownloadRequested{}.Kind():
		if e.ArtifactName == "" {
			return nil, fmt.Errorf("%w: artifact_name is required", errInvalidRequest)
		}
		return viewer.DownloadRequested{ArtifactName: e.ArtifactName, Label: e.Label}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownEventType, e.Type)
	}
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.viewer.Session(sessionID(r)).View())
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var body eventRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error(), Code: "INVALID_BODY"})
		return
	}

	ev, err := body.event()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error(), Code: errorCode(err)})
		return
	}

	out, err := s.viewer.Session(sessionID(r)).Handle(ev)
	if err != nil {
		s.logger.Debug("event rejected", "type", body.Type, "error", err)
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error(), Code: errorCode(err), View: &out.View})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.viewer.Reload(r.Context()))
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, variant.ErrUnknownColumn):
		return "UNKNOWN_COLUMN"
	case errors.Is(err, variant.ErrInvalidDirection):
		return "INVALID_DIRECTION"
	case errors.Is(err, errUnknownEventType), errors.Is(err, viewer.ErrUnknownEvent):
		return "UNKNOWN_EVENT"
	default:
		return "INVALID_REQUEST"
	}
}
