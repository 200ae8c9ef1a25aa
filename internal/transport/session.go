package transport

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	// SessionHeader carries the viewer session ID on requests and responses.
	SessionHeader = "Viewer-Session-Id"
	// SessionCookie carries the viewer session ID for browsers.
	SessionCookie = "ionview_session"

	maxSessionIDLen = 128
)

type sessionKey struct{}

// SessionIDFromContext returns the session ID from context, if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionKey{}).(string)
	return sessionID, ok
}

// WithSessionID stores sessionID in ctx.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionMiddleware resolves the viewer session from the Viewer-Session-Id
// header, the Mcp-Session-Id header, or the session cookie, in that order.
// A new ID is minted when none is present, or the supplied one is not a
// short token, and returned in both the response header and the cookie.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(SessionHeader)
		if sessionID == "" {
			sessionID = r.Header.Get("Mcp-Session-Id")
		}
		if sessionID == "" {
			if c, err := r.Cookie(SessionCookie); err == nil {
				sessionID = c.Value
			}
		}
		if !validSessionID(sessionID) {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(SessionHeader, sessionID)
		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
	})
}

func sessionID(r *http.Request) string {
	id, _ := SessionIDFromContext(r.Context())
	return id
}

// validSessionID accepts IDs of up to maxSessionIDLen characters drawn from
// [A-Za-z0-9._-].
func validSessionID(id string) bool {
	if id == "" || len(id) > maxSessionIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
