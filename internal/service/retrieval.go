package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pemkomedan/rag-layanan/internal/domain"
	"github.com/pemkomedan/rag-layanan/internal/index"
	"github.com/pemkomedan/rag-layanan/internal/text"
)

const (
	searchTopK = 5
	// minFilteredCandidates triggers graceful widening: when a
	// category-filtered search returns fewer hits than this, the query is
	// re-run without the filter.
	minFilteredCandidates = 3
)

// QueryEmbedder embeds a user question for search.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorSearcher is the slice of the index client the engine reads through.
type VectorSearcher interface {
	Search(ctx context.Context, collection string, vector []float32, limit int, filter map[string]string) ([]index.SearchHit, error)
}

// QuestionPreFilter is the advisory LLM gate behind the hard filter.
type QuestionPreFilter interface {
	Check(ctx context.Context, question string) domain.PreFilterResult
}

// RelevanceJudge evaluates the top candidate against the user question.
type RelevanceJudge interface {
	CheckRelevance(ctx context.Context, userQuestion, retrievedText string) domain.JudgeResult
}

// RetrievalService drives a question through the full state machine: hard
// filter, advisory filter, embed, search, judge, score, and the document
// fallback when the text bank has no confident answer.
type RetrievalService struct {
	preFilter  QuestionPreFilter
	judge      RelevanceJudge
	embedder   QueryEmbedder
	searcher   VectorSearcher
	fallback   *FallbackCoordinator
	collection string
	summary    *SummaryLog
}

// SetSummaryLog attaches the condensed outcome log. Optional; a nil log
// disables summary lines.
func (s *RetrievalService) SetSummaryLog(sl *SummaryLog) {
	s.summary = sl
}

func NewRetrievalService(
	preFilter QuestionPreFilter,
	judge RelevanceJudge,
	embedder QueryEmbedder,
	searcher VectorSearcher,
	fallback *FallbackCoordinator,
	collection string,
) *RetrievalService {
	return &RetrievalService{
		preFilter:  preFilter,
		judge:      judge,
		embedder:   embedder,
		searcher:   searcher,
		fallback:   fallback,
		collection: collection,
	}
}

// Search answers one user question. The returned error is reserved for
// embedding and index failures; every judged or filtered outcome comes back
// as a RetrievalOutcome with the appropriate status.
func (s *RetrievalService) Search(ctx context.Context, question, requesterTag string) (domain.RetrievalOutcome, error) {
	t0 := time.Now()
	outcome := domain.RetrievalOutcome{
		Status:     domain.StatusLowConfidence,
		Provenance: domain.ProvenanceNone,
		Query: domain.Query{
			RawText:      question,
			RequesterTag: requesterTag,
		},
	}

	log.Printf("[USER-QUESTION] %q", question)

	// Deterministic local gate first: no external spend on obvious
	// out-of-domain input.
	tStage := time.Now()
	pre := text.HardFilter(question)
	if pre.Valid && s.preFilter != nil {
		pre = s.preFilter.Check(ctx, question)
	}
	outcome.Timings.PreFilterSec = stageSeconds(tStage)
	if !pre.Valid {
		outcome.Message = pre.Reason
		outcome.Judge = &domain.JudgeResult{Relevant: false, Reason: pre.Reason}
		outcome.Timings.TotalSec = stageSeconds(t0)
		log.Printf("[AI-FILTER] question rejected: %s", pre.Reason)
		return outcome, nil
	}

	normalized := text.Normalize(text.CleanLocationTerms(pre.CleanQuestion))
	outcome.Query.NormalizedText = normalized
	if cat, ok := text.DetectCategory(normalized); ok {
		outcome.Query.CategoryID = cat.ID
		outcome.Query.CategoryName = cat.Name
	} else {
		outcome.Query.CategoryName = "Global"
	}

	tStage = time.Now()
	vector, err := s.embedder.EmbedQuery(ctx, normalized)
	outcome.Timings.EmbeddingSec = stageSeconds(tStage)
	if err != nil {
		return outcome, fmt.Errorf("embed query: %w", err)
	}

	tStage = time.Now()
	hits, err := s.searchWithWidening(ctx, vector, outcome.Query.CategoryID)
	outcome.Timings.SearchSec = stageSeconds(tStage)
	if err != nil {
		return outcome, err
	}

	var judge domain.JudgeResult
	if len(hits) > 0 {
		tStage = time.Now()
		judge = s.judge.CheckRelevance(ctx, question, payloadString(hits[0].Payload, "question_rag_name"))
		outcome.Timings.RelevanceSec = stageSeconds(tStage)
		outcome.Judge = &judge
	}

	accepted, rejected := scoreHits(normalized, hits, judge.Relevant)

	// A negative judge verdict clears every accepted candidate; the scores
	// alone are not allowed to override it.
	if outcome.Judge != nil && !judge.Relevant {
		log.Printf("[AI-POST] top candidate judged not relevant: %s", judge.Reason)
		accepted = nil
	}

	outcome.Accepted = accepted
	outcome.Rejected = rejected
	if len(accepted) > 0 {
		outcome.Status = domain.StatusSuccess
		outcome.Provenance = domain.ProvenanceText
		outcome.Message = "Hasil ditemukan"
	} else {
		outcome.Message = "Tidak ada hasil cukup relevan"
	}

	if s.shouldFallback(outcome) {
		outcome.Status = domain.StatusDocumentFallback
		s.applyFallback(ctx, question, &outcome)
	}

	outcome.Timings.TotalSec = stageSeconds(t0)
	s.logSummary(question, outcome)
	return outcome, nil
}

func (s *RetrievalService) logSummary(question string, outcome domain.RetrievalOutcome) {
	switch {
	case outcome.Document != nil:
		s.summary.DocumentAnswer(question, outcome.Document.Chunk.Filename, outcome.Document.Score)
	case len(outcome.Accepted) > 0:
		top := outcome.Accepted[0]
		s.summary.TextAnswer(question, top.Entry.RAGText, top.FinalScore)
	default:
		s.summary.NoAnswer(question, outcome.Message)
	}
}

// searchWithWidening queries with the category filter and re-queries
// unfiltered when the filtered result set is too thin.
func (s *RetrievalService) searchWithWidening(ctx context.Context, vector []float32, categoryID string) ([]index.SearchHit, error) {
	var filter map[string]string
	if categoryID != "" {
		filter = map[string]string{"category_id": categoryID}
	}
	hits, err := s.searcher.Search(ctx, s.collection, vector, searchTopK, filter)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.collection, err)
	}
	if filter != nil && len(hits) < minFilteredCandidates {
		log.Printf("[RAG-SEARCH] filtered search returned %d hits, widening to all categories", len(hits))
		hits, err = s.searcher.Search(ctx, s.collection, vector, searchTopK, nil)
		if err != nil {
			return nil, fmt.Errorf("search %s unfiltered: %w", s.collection, err)
		}
	}
	return hits, nil
}

func (s *RetrievalService) shouldFallback(outcome domain.RetrievalOutcome) bool {
	if s.fallback == nil {
		return false
	}
	if len(outcome.Accepted) == 0 {
		return true
	}
	return outcome.Accepted[0].FinalScore < fallbackScoreFloor
}

// applyFallback consults the document corpus and rewrites the outcome on a
// relevant hit. Fallback failure degrades: the outcome keeps its text-bank
// shape and status low_confidence.
func (s *RetrievalService) applyFallback(ctx context.Context, question string, outcome *domain.RetrievalOutcome) {
	hit, judge, ok := s.fallback.TryDocument(ctx, question)
	if !ok {
		if len(outcome.Accepted) > 0 {
			// Low-scoring accepted results survive a failed fallback.
			outcome.Status = domain.StatusSuccess
			outcome.Provenance = domain.ProvenanceText
			return
		}
		outcome.Status = domain.StatusLowConfidence
		outcome.Provenance = domain.ProvenanceNone
		outcome.Message = "Tidak ada hasil cukup relevan"
		return
	}

	log.Printf("[FALLBACK] answer found in document corpus: %s (score=%.3f)", hit.Chunk.Filename, hit.Score)
	outcome.Status = domain.StatusSuccess
	outcome.Provenance = domain.ProvenanceDocument
	outcome.Message = "Hasil ditemukan dari dokumen"
	outcome.Document = hit
	if judge != nil {
		outcome.Judge = judge
	}
}

func stageSeconds(since time.Time) float64 {
	return Round3(time.Since(since).Seconds())
}
