package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/pemkomedan/rag-layanan/internal/domain"
)

// DocumentService searches the ingested document corpus. It backs both the
// public doc-search endpoint and the retrieval fallback.
type DocumentService struct {
	embedder        QueryEmbedder
	searcher        VectorSearcher
	summarizer      AnswerSummarizer
	collection      string
	usePostSummary  bool
	postSummaryTopK int
}

// AnswerSummarizer condenses the top document excerpts into one answer.
type AnswerSummarizer interface {
	Summarize(ctx context.Context, text string) string
}

func NewDocumentService(
	embedder QueryEmbedder,
	searcher VectorSearcher,
	summarizer AnswerSummarizer,
	collection string,
	usePostSummary bool,
	postSummaryTopK int,
) *DocumentService {
	if postSummaryTopK <= 0 {
		postSummaryTopK = 2
	}
	return &DocumentService{
		embedder:        embedder,
		searcher:        searcher,
		summarizer:      summarizer,
		collection:      collection,
		usePostSummary:  usePostSummary,
		postSummaryTopK: postSummaryTopK,
	}
}

// Search embeds the query and returns document hits ordered by score.
func (s *DocumentService) Search(ctx context.Context, query string, limit int) ([]domain.DocumentHit, error) {
	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed document query: %w", err)
	}
	raw, err := s.searcher.Search(ctx, s.collection, vector, limit, nil)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.collection, err)
	}

	hits := make([]domain.DocumentHit, 0, len(raw))
	for _, h := range raw {
		hits = append(hits, domain.DocumentHit{
			Score: Round3(h.Score),
			Chunk: domain.DocumentChunk{
				ChunkID:      h.ID,
				SourceDocID:  payloadString(h.Payload, "doc_id"),
				OrgTag:       payloadString(h.Payload, "opd"),
				Filename:     payloadString(h.Payload, "filename"),
				PageStart:    payloadInt(h.Payload, "page_start"),
				PageEnd:      payloadInt(h.Payload, "page_end"),
				SectionLabel: payloadString(h.Payload, "section"),
				SummaryText:  payloadString(h.Payload, "summary"),
				BodyText:     payloadString(h.Payload, "text"),
			},
		})
	}
	return hits, nil
}

// DocSearchResult is the doc-search endpoint's payload.
type DocSearchResult struct {
	Status   string
	Mode     string
	Query    string
	Summary  string
	Hits     []domain.DocumentHit
	Duration float64
}

// SearchWithSummary runs Search and, when post-summary mode is enabled,
// condenses the top hits into a single answer paragraph.
func (s *DocumentService) SearchWithSummary(ctx context.Context, query string, limit int) (DocSearchResult, error) {
	t0 := time.Now()
	hits, err := s.Search(ctx, query, limit)
	if err != nil {
		return DocSearchResult{}, err
	}
	res := DocSearchResult{Status: "success", Mode: "direct", Query: query, Hits: hits}
	if len(hits) == 0 {
		res.Status = "empty"
		res.Duration = stageSeconds(t0)
		return res, nil
	}

	if s.usePostSummary && s.summarizer != nil {
		top := append([]domain.DocumentHit(nil), hits...)
		sort.SliceStable(top, func(i, j int) bool { return top[i].Score > top[j].Score })
		if len(top) > s.postSummaryTopK {
			top = top[:s.postSummaryTopK]
		}

		var parts []string
		for _, h := range top {
			if h.Chunk.BodyText != "" {
				parts = append(parts, h.Chunk.BodyText)
			}
		}
		combined := strings.Join(parts, "\n\n")
		log.Printf("[POST-SUM] summarizing top %d document hits", len(top))
		res.Mode = "post-summary"
		res.Summary = s.summarizer.Summarize(ctx,
			"Berdasarkan potongan dokumen berikut, jawab pertanyaan pengguna dengan ringkas dan informatif:\n\n"+combined)
		res.Hits = top
	}

	res.Duration = stageSeconds(t0)
	return res, nil
}

func payloadInt(payload map[string]any, key string) int {
	if v, ok := payload[key].(float64); ok {
		return int(v)
	}
	return 0
}
