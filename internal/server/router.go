package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pemkomedan/rag-layanan/internal/api/handlers"
	"github.com/pemkomedan/rag-layanan/internal/api/middleware"
)

type RouterConfig struct {
	HealthHandler   *handlers.HealthHandler
	SearchHandler   *handlers.SearchHandler
	SyncHandler     *handlers.SyncHandler
	UsulanHandler   *handlers.UsulanHandler
	DocumentHandler *handlers.DocumentHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", cfg.HealthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", cfg.SearchHandler.Search)
		r.Post("/sync", cfg.SyncHandler.Sync)
		r.Post("/search-usulan", cfg.UsulanHandler.Search)
		r.Post("/sync-usulan", cfg.UsulanHandler.Sync)
		r.Post("/doc-search", cfg.DocumentHandler.Search)
		r.Post("/doc-sync", cfg.DocumentHandler.Sync)
	})

	return r
}
