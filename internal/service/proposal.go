package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/pemkomedan/rag-layanan/internal/domain"
)

// RequestReformulator rewrites a raw citizen request into a search phrase.
type RequestReformulator interface {
	Reformulate(ctx context.Context, request string) string
}

// TopicJudge checks whether the top proposal hit shares the user's topic.
type TopicJudge interface {
	CheckTopic(ctx context.Context, userRequest, retrievedText string) domain.JudgeResult
}

// ProposalService searches the proposal ("usulan") bank. Scoring is a flat
// dense threshold with no lexical blend; a negative topic verdict empties
// the result list entirely.
type ProposalService struct {
	reformulator RequestReformulator
	judge        TopicJudge
	embedder     QueryEmbedder
	searcher     VectorSearcher
	collection   string
	summary      *SummaryLog
}

// SetSummaryLog attaches the condensed outcome log. Optional.
func (s *ProposalService) SetSummaryLog(sl *SummaryLog) {
	s.summary = sl
}

func NewProposalService(
	reformulator RequestReformulator,
	judge TopicJudge,
	embedder QueryEmbedder,
	searcher VectorSearcher,
	collection string,
) *ProposalService {
	return &ProposalService{
		reformulator: reformulator,
		judge:        judge,
		embedder:     embedder,
		searcher:     searcher,
		collection:   collection,
	}
}

// Search runs the proposal pipeline: reformulate, embed, search, threshold,
// topic check.
func (s *ProposalService) Search(ctx context.Context, request string) (domain.ProposalOutcome, error) {
	t0 := time.Now()
	outcome := domain.ProposalOutcome{Status: domain.StatusLowConfidence}

	log.Printf("[USER-REQUEST] %q", request)

	tStage := time.Now()
	clean := s.reformulator.Reformulate(ctx, request)
	outcome.CleanRequest = clean
	outcome.Timings.ReformSec = stageSeconds(tStage)

	tStage = time.Now()
	vector, err := s.embedder.EmbedQuery(ctx, clean)
	outcome.Timings.EmbeddingSec = stageSeconds(tStage)
	if err != nil {
		return outcome, fmt.Errorf("embed request: %w", err)
	}

	tStage = time.Now()
	hits, err := s.searcher.Search(ctx, s.collection, vector, searchTopK, nil)
	outcome.Timings.SearchSec = stageSeconds(tStage)
	if err != nil {
		return outcome, fmt.Errorf("search %s: %w", s.collection, err)
	}

	var accepted, rejected []domain.ProposalCandidate
	for _, h := range hits {
		cand := domain.ProposalCandidate{
			Entry: domain.ProposalEntry{
				ID:             h.ID,
				RequestID:      payloadString(h.Payload, "request_id"),
				OrganizationID: payloadString(h.Payload, "organization_id"),
				RequestName:    payloadString(h.Payload, "request_name"),
				RAGText:        payloadString(h.Payload, "request_rag_name"),
			},
			DenseScore: Round3(h.Score),
			FinalScore: Round3(h.Score),
			Note:       domain.NoteRejected,
		}
		if h.Score >= proposalAcceptMin {
			cand.Accepted = true
			cand.Note = domain.NoteProposalMatch
			accepted = append(accepted, cand)
		} else {
			rejected = append(rejected, cand)
		}
	}
	sortProposals(accepted)
	sortProposals(rejected)

	if len(hits) > 0 {
		judge := s.judge.CheckTopic(ctx, request, payloadString(hits[0].Payload, "request_rag_name"))
		outcome.Judge = &judge
		if !judge.Relevant {
			log.Printf("[AI-TOPIC-USULAN] topic not relevant: %s", judge.Reason)
			outcome.Message = "Topik tidak relevan dengan pertanyaan pengguna"
			outcome.Timings.TotalSec = stageSeconds(t0)
			return outcome, nil
		}
	}

	outcome.Accepted = accepted
	outcome.Rejected = rejected
	if len(accepted) > 0 {
		outcome.Status = domain.StatusSuccess
		outcome.Message = "Hasil ditemukan"
		s.summary.ProposalAnswer(request, accepted[0].Entry.RAGText, accepted[0].FinalScore)
	} else {
		outcome.Message = "Tidak ada hasil cukup relevan"
	}
	outcome.Timings.TotalSec = stageSeconds(t0)
	return outcome, nil
}

func sortProposals(cands []domain.ProposalCandidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].FinalScore > cands[j].FinalScore
	})
}
