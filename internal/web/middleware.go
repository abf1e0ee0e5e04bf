package web

import (
	"context"
	"net/http"
	"time"

	"github.com/teamawesome/wikistore/internal/logging"
)

type contextKey string

const usernameKey contextKey = "username"

// usernameFrom returns the signed-in username stored in ctx, if any.
func usernameFrom(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}

// responseRecorder wraps http.ResponseWriter to capture the status code for
// the access log entry.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLog emits one structured access log line per completed request.
func requestLog(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info(r.Context(), "http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// withSession resolves the session cookie, if present, and stores the
// username in the request context. Requests with no or invalid cookies pass
// through anonymously.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err == nil {
			username, err := usernameFromSessionToken(cookie.Value, []byte(h.cfg.SessionSecret))
			if err == nil {
				r = r.WithContext(context.WithValue(r.Context(), usernameKey, username))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireSession rejects anonymous requests.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := usernameFrom(r.Context()); !ok {
			h.respondError(w, http.StatusUnauthorized, "Please log in to continue.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
