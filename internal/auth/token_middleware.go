package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/joestump/joe-bookmarks/internal/metrics"
)

// StaticTokenMiddleware authenticates requests against a single shared
// bearer token configured for the process.
type StaticTokenMiddleware struct {
	token []byte
	log   *zap.Logger
}

// NewStaticTokenMiddleware creates a new StaticTokenMiddleware. An empty
// token rejects every request.
func NewStaticTokenMiddleware(token string, log *zap.Logger) *StaticTokenMiddleware {
	if log == nil {
		log = zap.NewNop()
	}
	return &StaticTokenMiddleware{token: []byte(token), log: log}
}

// Authenticate is an http.Handler middleware that checks the Authorization
// header. WHEN the header is exactly "Bearer <token>" with the configured token:
// the request continues. Otherwise it returns 401 with
// {"error": "Unauthorized request"} and the next handler never runs.
func (m *StaticTokenMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.valid(r.Header.Get("Authorization")) {
			metrics.UnauthorizedTotal.Inc()
			m.log.Warn("unauthorized request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// valid reports whether header is exactly "Bearer " followed by the
// configured token. The scheme is case-sensitive and no whitespace is
// trimmed.
func (m *StaticTokenMiddleware) valid(header string) bool {
	if len(m.token) == 0 || !strings.HasPrefix(header, "Bearer ") {
		return false
	}
	presented := []byte(strings.TrimPrefix(header, "Bearer "))
	return subtle.ConstantTimeCompare(presented, m.token) == 1
}

// writeUnauthorized writes a 401 JSON response with {"error": "Unauthorized request"}.
// This shape differs from the {"error": {"message": ...}} envelope used
// elsewhere; existing clients depend on it.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized request"})
}
