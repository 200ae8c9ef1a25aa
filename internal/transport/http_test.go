package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/ionview/internal/artifact"
	"github.com/rpggio/ionview/internal/domain/viewer"
	"github.com/rpggio/ionview/internal/mcp"
	"github.com/rpggio/ionview/internal/source"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := viewer.NewRegistry(viewer.Options{
		Fallback: source.Embedded(),
		Catalog:  artifact.NewCatalog([]string{"design5_n0.pdb", "design7_n1.pdb"}),
		Links:    artifact.Linker(""),
	}, nil)
	reg.Load(context.Background())

	store := artifact.NewFSStore(fstest.MapFS{
		"design5_n0.pdb": &fstest.MapFile{Data: []byte("ATOM      1  N   SER A   1\n")},
	})

	server := httptest.NewServer(NewServer(Options{
		RPC:       mcp.NewHandler(reg),
		Viewer:    reg,
		Artifacts: store,
		Metrics:   http.NotFoundHandler(),
	}))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, session string, body string) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(SessionHeader, session)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHTTPServer_Health(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_RPC(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/rpc", "sess1",
		`{"jsonrpc":"2.0","method":"sort_variants","params":{"column":"rmsd"},"id":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "sess1", resp.Header.Get(SessionHeader))

	var out struct {
		Result mcp.ViewResponse `json:"result"`
		Error  *Error           `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Nil(t, out.Error)
	require.Equal(t, "BK", out.Result.Rows[0].Channel)
	require.Equal(t, "3.397523403", out.Result.Rows[0].Values["rmsd"])
}

func TestHTTPServer_RPCErrors(t *testing.T) {
	server := newTestServer(t)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"parse", `{not json`, ErrParseCode},
		{"invalid", `{"jsonrpc":"1.0","method":"get_view","id":1}`, ErrInvalidReq},
		{"unknown method", `{"jsonrpc":"2.0","method":"nope","id":1}`, ErrMethodNotFound},
		{"unknown column", `{"jsonrpc":"2.0","method":"sort_variants","params":{"column":"bogus"},"id":1}`, ErrInvalidParams},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, server.URL+"/rpc", "s", tc.body)
			var out Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			require.NotNil(t, out.Error)
			require.Equal(t, tc.code, out.Error.Code)
		})
	}
}

func TestHTTPServer_ViewAndEvents(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/events", "s1", `{"type":"query_changed","text":"kcnq"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/events", "s1", `{"type":"sort_requested","column":"rmsd","direction":"desc"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/view", "s1", "")
	var view viewer.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	require.Equal(t, 5, view.MatchedCount)
	require.Equal(t, "Showing 5 / 16 results", view.ResultCount)
	require.Equal(t, "KCNQ", view.Rows[0].Identity.Channel)
	require.Equal(t, "32.23592377", view.Rows[0].Record["rmsd"])
	require.Equal(t, viewer.FallbackNotice, view.Notice)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/view", "s2", "")
	view = viewer.View{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	require.Len(t, view.Rows, 16)
	require.Empty(t, view.ResultCount)
}

func TestHTTPServer_EventErrors(t *testing.T) {
	server := newTestServer(t)

	cases := []struct {
		body string
		code string
	}{
		{`{"type":"sort_requested","column":"bogus"}`, "UNKNOWN_COLUMN"},
		{`{"type":"sort_requested","column":"rmsd","direction":"sideways"}`, "INVALID_DIRECTION"},
		{`{"type":"zoom"}`, "UNKNOWN_EVENT"},
		{`{"type":"download_requested"}`, "INVALID_REQUEST"},
	}
	for _, tc := range cases {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/events", "s1", tc.body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, tc.body)
		var out apiError
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		require.Equal(t, tc.code, out.Code, tc.body)
	}
}

func TestHTTPServer_DownloadEvent(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/events", "s1",
		`{"type":"download_requested","artifact_name":"design5_n0.pdb","label":"BK_design5_n0"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out viewer.Outcome
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotNil(t, out.Download)
	require.True(t, out.Download.Available)
	require.Equal(t, "BK_design5_n0.pdb", out.Download.FileName)
}

func TestHTTPServer_Artifacts(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/artifacts/design5_n0.pdb?label=BK_design5_n0", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "attachment; filename=BK_design5_n0.pdb", resp.Header.Get("Content-Disposition"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "ATOM"))

	resp = doJSON(t, http.MethodGet, server.URL+"/artifacts/design5_n0.pdb?label="+url.QueryEscape("Nav1.2 β_design5_n0"), "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	require.NoError(t, err)
	require.Equal(t, "Nav1.2 β_design5_n0.pdb", params["filename"])
	require.NotContains(t, resp.Header.Get("Content-Disposition"), `\u`)

	resp = doJSON(t, http.MethodGet, server.URL+"/artifacts/design7_n1.pdb?label=KCNQ_design7_n1", "", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	data, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(data), "Unable to download PDB file: KCNQ_design7_n1.pdb")
	require.Contains(t, string(data), "URL: all_pdb/design7_n1.pdb")

	resp = doJSON(t, http.MethodGet, server.URL+"/artifacts/passwd", "", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPServer_Page(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/?q=BK&sort=rmsd", "page", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	html := string(data)
	require.Contains(t, html, "Showing 5 / 16 results")
	require.Contains(t, html, "RMSD ↑")
	require.Contains(t, html, `class="score-good">3.397523403`)
	require.Contains(t, html, `href="/artifacts/design5_n0.pdb?label=BK_design5_n0"`)
	require.Contains(t, html, "Currently using embedded data.")
	for _, class := range []string{".score-good", ".score-medium", ".score-poor", ".score-unscored"} {
		require.Contains(t, html, class)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/?sort=bogus", "page", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPServer_RouteWithoutViewer(t *testing.T) {
	server := httptest.NewServer(NewServer(Options{}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/api/view")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPServer_AnonymousSessionsAreBounded(t *testing.T) {
	reg := viewer.NewRegistry(viewer.Options{
		Fallback:    source.Embedded(),
		MaxSessions: 50,
	}, nil)
	reg.Load(context.Background())

	server := httptest.NewServer(NewServer(Options{Viewer: reg}))
	t.Cleanup(server.Close)

	for i := 0; i < 200; i++ {
		resp, err := http.Get(server.URL + "/api/view")
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	require.Equal(t, 50, reg.SessionCount())
}

func TestRequestLogging_UnmatchedRoutesShareLabel(t *testing.T) {
	server := newTestServer(t)

	for i := 0; i < 20; i++ {
		resp, err := http.Get(fmt.Sprintf("%s/nope/x%d", server.URL, i))
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	routes := make(map[string]bool)
	for _, mf := range families {
		if mf.GetName() != "ionview_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "route" {
					routes[lp.GetValue()] = true
				}
			}
		}
	}
	require.True(t, routes[unmatchedRoute])
	for route := range routes {
		require.False(t, strings.HasPrefix(route, "/nope"), "raw path leaked into route label: %s", route)
	}
}
