package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/joestump/joe-bookmarks/internal/metrics"
	"github.com/joestump/joe-bookmarks/internal/store"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	BookmarkStore store.BookmarkStoreIface
	Logger        *zap.Logger
}

// NewAPIRouter creates the chi sub-router serving /bookmarks.
// Authentication happens before this router is reached.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	// All API responses are JSON.
	r.Use(jsonContentType)
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	registerBookmarkRoutes(r, deps.BookmarkStore, log)

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// instrument counts requests for op by final response status.
func instrument(op string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			metrics.RequestsTotal.WithLabelValues(op, strconv.Itoa(status)).Inc()
		})
	}
}
