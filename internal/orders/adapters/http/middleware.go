package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dvukovic/bookstore/internal/auth"
)

type contextKey string

const userContextKey contextKey = "bookstore.user"

// UserFrom extracts the authenticated user set by RequireAuth.
func UserFrom(ctx context.Context) (auth.UserRef, bool) {
	user, ok := ctx.Value(userContextKey).(auth.UserRef)
	return user, ok
}

// WithUser returns a context carrying the given user. Exposed for tests.
func WithUser(ctx context.Context, user auth.UserRef) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// RequireAuth resolves the bearer credential on every request. Expired,
// malformed, or unsigned tokens are rejected with 401; a valid token whose
// subject no longer exists yields 404.
func RequireAuth(next http.Handler, verifier auth.Verifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		user, err := verifier.Verify(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidCredential):
				writeError(w, http.StatusUnauthorized, "invalid or expired credential")
			case errors.Is(err, auth.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "user not found")
			default:
				writeError(w, http.StatusInternalServerError, "authentication failed")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), *user)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// WithMetrics records request duration and status for every handled request.
func WithMetrics(next http.Handler, metrics *Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		metrics.RecordRequest(r.Context(), r.Method, r.URL.Path, rw.statusCode, duration)
	})
}
