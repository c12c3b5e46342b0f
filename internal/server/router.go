package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mapadoacolhimento/iana/internal/api"
	"github.com/mapadoacolhimento/iana/internal/api/handlers"
	"github.com/mapadoacolhimento/iana/internal/api/middleware"
)

type RouterConfig struct {
	QueryHandler   *handlers.QueryHandler
	ContentHandler *handlers.ContentHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.SessionID)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/query", cfg.QueryHandler.Ask)
		if cfg.ContentHandler != nil {
			r.Post("/content", cfg.ContentHandler.Rebuild)
		}
	})

	return r
}
