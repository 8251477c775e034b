package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pemkomedan/rag-layanan/internal/api"
	"github.com/pemkomedan/rag-layanan/internal/domain"
)

// RetrievalSearcher is the slice of the retrieval service the handler needs.
type RetrievalSearcher interface {
	Search(ctx context.Context, question, requesterTag string) (domain.RetrievalOutcome, error)
}

// SearchHandler serves POST /api/search.
type SearchHandler struct {
	svc RetrievalSearcher
}

func NewSearchHandler(svc RetrievalSearcher) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// SearchRequest is the inbound question payload.
type SearchRequest struct {
	Question string `json:"question"`
	WANumber string `json:"wa_number"`
}

// SearchCandidate is one candidate in the similar_questions list.
type SearchCandidate struct {
	Question        string  `json:"question"`
	QuestionRAGName string  `json:"question_rag_name"`
	AnswerID        any     `json:"answer_id"`
	CategoryID      any     `json:"category_id"`
	DenseScore      float64 `json:"dense_score"`
	OverlapScore    float64 `json:"overlap_score"`
	FinalScore      float64 `json:"final_score"`
	Note            string  `json:"note"`
}

// SearchMetadata mirrors the metadata block consumers key on.
type SearchMetadata struct {
	WANumber         string `json:"wa_number"`
	OriginalQuestion string `json:"original_question"`
	FinalQuestion    string `json:"final_question"`
	Category         string `json:"category"`
	AIReason         string `json:"ai_reason"`
	AIReformulated   string `json:"ai_reformulated"`
	FinalScoreTop    any    `json:"final_score_top"`
}

// SearchData groups the candidate list with its metadata.
type SearchData struct {
	SimilarQuestions []SearchCandidate `json:"similar_questions"`
	Metadata         SearchMetadata    `json:"metadata"`
}

// SearchResponse is the full search envelope.
type SearchResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    SearchData     `json:"data"`
	Timing  domain.Timings `json:"timing"`
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "ValidationError", "invalid request body")
		return
	}
	if req.Question == "" {
		api.Error(w, http.StatusBadRequest, "ValidationError", "Field 'question' wajib diisi")
		return
	}
	if req.WANumber == "" {
		req.WANumber = "unknown"
	}

	outcome, err := h.svc.Search(r.Context(), req.Question, req.WANumber)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, buildSearchResponse(outcome))
}

func buildSearchResponse(outcome domain.RetrievalOutcome) SearchResponse {
	resp := SearchResponse{
		Status:  outcome.Status,
		Message: outcome.Message,
		Timing:  outcome.Timings,
	}

	meta := SearchMetadata{
		WANumber:         outcome.Query.RequesterTag,
		OriginalQuestion: outcome.Query.RawText,
		FinalQuestion:    outcome.Query.NormalizedText,
		Category:         outcome.Query.CategoryName,
		AIReason:         "-",
		AIReformulated:   "-",
		FinalScoreTop:    "-",
	}
	if meta.FinalQuestion == "" {
		meta.FinalQuestion = "-"
	}
	if meta.Category == "" {
		meta.Category = "-"
	}
	if outcome.Judge != nil {
		if outcome.Judge.Reason != "" {
			meta.AIReason = outcome.Judge.Reason
		}
		if outcome.Judge.Reformulated != "" {
			meta.AIReformulated = outcome.Judge.Reformulated
		}
	}

	if outcome.Provenance == domain.ProvenanceDocument && outcome.Document != nil {
		hit := outcome.Document
		score := hit.Score
		resp.Data.SimilarQuestions = []SearchCandidate{{
			Question: fmt.Sprintf("[Dokumen] %s - Halaman %d",
				valueOrUnknown(hit.Chunk.Filename), hit.Chunk.PageStart),
			QuestionRAGName: valueOrDash(hit.Chunk.BodyText),
			DenseScore:      score,
			OverlapScore:    0.0,
			FinalScore:      score,
			Note:            domain.NoteFromDocument,
		}}
		meta.Category = "Dokumen"
		meta.AIReason = "Fallback ke RAG dokumen"
		meta.AIReformulated = "-"
		meta.FinalScoreTop = score
		resp.Data.Metadata = meta
		return resp
	}

	candidates := outcome.Accepted
	if len(candidates) == 0 {
		candidates = outcome.Rejected
	}
	resp.Data.SimilarQuestions = make([]SearchCandidate, 0, len(candidates))
	for _, c := range candidates {
		resp.Data.SimilarQuestions = append(resp.Data.SimilarQuestions, SearchCandidate{
			Question:        c.Entry.QuestionText,
			QuestionRAGName: c.Entry.RAGText,
			AnswerID:        nullableString(c.Entry.AnswerID),
			CategoryID:      nullableString(c.Entry.CategoryID),
			DenseScore:      c.DenseScore,
			OverlapScore:    c.OverlapScore,
			FinalScore:      c.FinalScore,
			Note:            c.Note,
		})
	}
	if len(outcome.Accepted) > 0 {
		meta.FinalScoreTop = outcome.Accepted[0].FinalScore
	}
	resp.Data.Metadata = meta
	return resp
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
