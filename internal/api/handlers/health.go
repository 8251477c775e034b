package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/pemkomedan/rag-layanan/internal/api"
)

// IndexPinger checks vector-index reachability.
type IndexPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingProber checks the embedding service by encoding a short probe.
type EmbeddingProber interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// HealthHandler serves GET /health with per-component status.
type HealthHandler struct {
	index IndexPinger
	embed EmbeddingProber
}

func NewHealthHandler(index IndexPinger, embed EmbeddingProber) *HealthHandler {
	return &HealthHandler{index: index, embed: embed}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	embedOK := true
	if h.embed != nil {
		if _, err := h.embed.EmbedQuery(ctx, "health check"); err != nil {
			log.Printf("[HEALTH] embedding error: %v", err)
			embedOK = false
		}
	}

	indexOK := true
	if h.index != nil {
		if err := h.index.Ping(ctx); err != nil {
			log.Printf("[HEALTH] qdrant error: %v", err)
			indexOK = false
		}
	}

	status := "healthy"
	code := http.StatusOK
	if !embedOK || !indexOK {
		status = "unhealthy"
		code = http.StatusInternalServerError
	}

	api.JSON(w, code, map[string]any{
		"status": status,
		"components": map[string]bool{
			"server":          true,
			"embedding_model": embedOK,
			"qdrant":          indexOK,
		},
	})
}
