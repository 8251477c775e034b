// Package service contains the retrieval engine: scoring, orchestration,
// fallback, proposal search and index synchronization.
package service

import (
	"math"
	"sort"
	"strconv"

	"github.com/pemkomedan/rag-layanan/internal/domain"
	"github.com/pemkomedan/rag-layanan/internal/index"
	"github.com/pemkomedan/rag-layanan/internal/text"
)

const (
	denseWeight   = 0.65
	overlapWeight = 0.35

	autoAcceptDense    = 0.90
	overlapTierLow     = 0.86
	overlapTierHigh    = 0.89
	overlapTierMin     = 0.25
	judgeTierDense     = 0.83
	judgeTierOverlap   = 0.15
	proposalAcceptMin  = 0.85
	fallbackScoreFloor = 0.85
)

// Round3 rounds to 3 decimals, the precision used for every reported score.
func Round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

// FinalScore blends the dense and lexical scores.
func FinalScore(dense, overlap float64) float64 {
	return Round3(denseWeight*dense + overlapWeight*overlap)
}

// Classify applies the acceptance tiers in precedence order. judgeRelevant
// reflects the relevance judge's verdict for this request; it only unlocks
// the third tier, the first two are purely score-based.
func Classify(dense, overlap float64, judgeRelevant bool) (string, bool) {
	switch {
	case dense >= autoAcceptDense:
		return domain.NoteAutoAcceptedByDense, true
	case dense >= overlapTierLow && dense <= overlapTierHigh && overlap >= overlapTierMin:
		return domain.NoteAcceptedByOverlap, true
	case dense >= judgeTierDense && overlap >= judgeTierOverlap && judgeRelevant:
		return domain.NoteAcceptedByAIRelevance, true
	default:
		return domain.NoteRejected, false
	}
}

// scoreHits converts raw index hits into scored candidates partitioned by
// acceptance, each side sorted by final score descending.
func scoreHits(normalizedQuery string, hits []index.SearchHit, judgeRelevant bool) (accepted, rejected []domain.ScoredCandidate) {
	for _, h := range hits {
		entry := knowledgeEntryFromPayload(h)
		dense := h.Score
		overlap := text.KeywordOverlap(normalizedQuery, entry.RAGText)

		note, ok := Classify(dense, overlap, judgeRelevant)
		cand := domain.ScoredCandidate{
			Entry:        entry,
			DenseScore:   Round3(dense),
			OverlapScore: Round3(overlap),
			FinalScore:   FinalScore(dense, overlap),
			Note:         note,
			Accepted:     ok,
		}
		if ok {
			accepted = append(accepted, cand)
		} else {
			rejected = append(rejected, cand)
		}
	}
	sortByFinalScore(accepted)
	sortByFinalScore(rejected)
	return accepted, rejected
}

func sortByFinalScore(cands []domain.ScoredCandidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].FinalScore > cands[j].FinalScore
	})
}

func knowledgeEntryFromPayload(h index.SearchHit) domain.KnowledgeEntry {
	return domain.KnowledgeEntry{
		ID:           h.ID,
		QuestionID:   payloadString(h.Payload, "question_id"),
		QuestionText: payloadString(h.Payload, "question"),
		RAGText:      payloadString(h.Payload, "question_rag_name"),
		AnswerID:     payloadString(h.Payload, "answer_id"),
		CategoryID:   payloadString(h.Payload, "category_id"),
	}
}

// payloadString tolerates JSON numbers for id-like fields, which some sync
// producers send unquoted.
func payloadString(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case string:
		return v
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return ""
	default:
		return ""
	}
}
