package transport

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/rpggio/ionview/internal/domain/variant"
	"github.com/rpggio/ionview/internal/domain/viewer"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageHeader struct {
	viewer.Column
	Href string
}

type pageData struct {
	View    viewer.View
	Headers []pageHeader
	Error   string
}

// handlePage applies the q, sort and dir query parameters as events and
// renders the table. A sort without dir toggles.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	st := s.viewer.Session(sessionID(r))
	params := r.URL.Query()

	status := http.StatusOK
	var errText string
	if params.Has("q") {
		_, _ = st.Handle(viewer.QueryChanged{Text: params.Get("q")})
	}
	if col := params.Get("sort"); col != "" {
		ev := viewer.SortRequested{Column: col}
		dir, err := variant.ParseDirection(params.Get("dir"))
		if err == nil && params.Get("dir") != "" {
			ev.Direction = dir
		}
		if err == nil {
			_, err = st.Handle(ev)
		}
		if err != nil {
			status = http.StatusBadRequest
			errText = err.Error()
		}
	}

	view := st.View()
	data := pageData{View: view, Error: errText}
	for _, c := range view.Columns {
		data.Headers = append(data.Headers, pageHeader{Column: c, Href: headerHref(c, view.Sort, view.Query)})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("render page failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// headerHref links a column header to the sort it would produce if clicked.
func headerHref(c viewer.Column, spec variant.SortSpec, query string) string {
	next := spec.Toggle(c.Name)
	v := url.Values{}
	v.Set("sort", next.Column)
	v.Set("dir", string(next.Direction))
	if query != "" {
		v.Set("q", query)
	}
	return "/?" + v.Encode()
}
