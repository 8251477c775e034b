package service

import (
	"context"
	"log"
	"time"

	"github.com/pemkomedan/rag-layanan/internal/domain"
)

const defaultFallbackTimeout = 12 * time.Second

// DocumentSearcher queries the document-chunk corpus.
type DocumentSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]domain.DocumentHit, error)
}

// FallbackCoordinator runs the document-corpus escalation: one bounded
// query, then the relevance judge against the excerpt. It never returns an
// error; any failure means "no document answer".
type FallbackCoordinator struct {
	docs    DocumentSearcher
	judge   RelevanceJudge
	timeout time.Duration
}

func NewFallbackCoordinator(docs DocumentSearcher, judge RelevanceJudge, timeout time.Duration) *FallbackCoordinator {
	if timeout == 0 {
		timeout = defaultFallbackTimeout
	}
	return &FallbackCoordinator{docs: docs, judge: judge, timeout: timeout}
}

// TryDocument returns the top document hit when the corpus has one and the
// judge confirms it. ok=false covers every other case: empty corpus, index
// failure, timeout, or a negative verdict.
func (f *FallbackCoordinator) TryDocument(ctx context.Context, question string) (*domain.DocumentHit, *domain.JudgeResult, bool) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	hits, err := f.docs.Search(ctx, question, 3)
	if err != nil {
		log.Printf("[FALLBACK] document search failed: %v", err)
		return nil, nil, false
	}
	if len(hits) == 0 {
		log.Printf("[FALLBACK] document corpus empty for question")
		return nil, nil, false
	}

	top := hits[0]
	excerpt := top.Chunk.SummaryText
	if excerpt == "" {
		excerpt = top.Chunk.BodyText
	}
	judge := f.judge.CheckRelevance(ctx, question, excerpt)
	if !judge.Relevant {
		log.Printf("[FALLBACK] document excerpt judged not relevant: %s", judge.Reason)
		return nil, &judge, false
	}
	return &top, &judge, true
}
