package middleware

import (
	"context"
	"net/http"
)

const SessionIDKey contextKey = "session_id"

// DefaultSessionID is used when a client does not identify its conversation.
const DefaultSessionID = "default"

// SessionID resolves the conversation a request belongs to from the
// X-Session-ID header. Requests without one share the default session, which
// matches clients that hold a single conversation per deployment.
func SessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get("X-Session-ID")
		if sessionID == "" {
			sessionID = DefaultSessionID
		}

		ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
		w.Header().Set("X-Session-ID", sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID returns the session ID from context.
func GetSessionID(ctx context.Context) string {
	sessionID, _ := ctx.Value(SessionIDKey).(string)
	return sessionID
}
