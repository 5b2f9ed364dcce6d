package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/joestump/joe-bookmarks/docs/swagger"
	"github.com/joestump/joe-bookmarks/internal/api"
	"github.com/joestump/joe-bookmarks/internal/auth"
	"github.com/joestump/joe-bookmarks/internal/store"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	Auth           *auth.StaticTokenMiddleware
	BookmarkStore  store.BookmarkStoreIface
	Logger         *zap.Logger
	Production     bool
	AllowedOrigins []string
}

// NewRouter assembles the full chi router with all middleware and routes.
// The token check runs before routing, so unknown paths answer 401 too.
// Bookmark routes are served both at the root and under /api.
func NewRouter(deps Deps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log, deps.Production))
	r.Use(middleware.Recoverer)
	r.Use(secureHeaders)

	// Preflight requests carry no credentials; answer them before the token check.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Location"},
		MaxAge:         300,
	}))

	r.Use(deps.Auth.Authenticate)
	r.Use(middleware.StripSlashes)

	r.Get("/", landing)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)

	apiRouter := api.NewAPIRouter(api.Deps{
		BookmarkStore: deps.BookmarkStore,
		Logger:        log,
	})
	r.Mount("/api", apiRouter)
	r.Mount("/", apiRouter)

	return r
}

// secureHeaders sets the usual hardening headers on every response.
func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("X-DNS-Prefetch-Control", "off")
		h.Set("X-Download-Options", "noopen")
		h.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
