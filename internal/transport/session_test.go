package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func echoSession() http.Handler {
	return SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sessionID(r)))
	}))
}

func TestSessionMiddleware_Header(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "abc")
	req.Header.Set("Mcp-Session-Id", "ignored")
	rec := httptest.NewRecorder()

	echoSession().ServeHTTP(rec, req)

	require.Equal(t, "abc", rec.Body.String())
	require.Equal(t, "abc", rec.Header().Get(SessionHeader))
	require.Empty(t, rec.Result().Cookies())
}

func TestSessionMiddleware_MCPHeaderAndCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Mcp-Session-Id", "mcp1")
	rec := httptest.NewRecorder()
	echoSession().ServeHTTP(rec, req)
	require.Equal(t, "mcp1", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "browser"})
	rec = httptest.NewRecorder()
	echoSession().ServeHTTP(rec, req)
	require.Equal(t, "browser", rec.Body.String())
}

func TestSessionMiddleware_Mint(t *testing.T) {
	rec := httptest.NewRecorder()
	echoSession().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	minted := rec.Body.String()
	require.Len(t, minted, 36)
	require.Equal(t, minted, rec.Header().Get(SessionHeader))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, SessionCookie, cookies[0].Name)
	require.Equal(t, minted, cookies[0].Value)
}

func TestSessionMiddleware_RejectsMalformedIDs(t *testing.T) {
	for _, id := range []string{strings.Repeat("a", maxSessionIDLen+1), "has space", "semi;colon"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(SessionHeader, id)
		rec := httptest.NewRecorder()

		echoSession().ServeHTTP(rec, req)

		require.NotEqual(t, id, rec.Body.String())
		require.Len(t, rec.Body.String(), 36)
		require.Len(t, rec.Result().Cookies(), 1)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, strings.Repeat("a", maxSessionIDLen))
	rec := httptest.NewRecorder()
	echoSession().ServeHTTP(rec, req)
	require.Equal(t, strings.Repeat("a", maxSessionIDLen), rec.Body.String())
}
