package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pemkomedan/rag-layanan/internal/domain"
)

type mockRetrieval struct {
	outcome  domain.RetrievalOutcome
	err      error
	question string
	tag      string
}

func (m *mockRetrieval) Search(_ context.Context, question, requesterTag string) (domain.RetrievalOutcome, error) {
	m.question = question
	m.tag = requesterTag
	return m.outcome, m.err
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func acceptedCandidate() domain.ScoredCandidate {
	return domain.ScoredCandidate{
		Entry: domain.KnowledgeEntry{
			ID:           "k1",
			QuestionText: "Bagaimana cara membuat KTP?",
			RAGText:      "cara membuat kartu tanda penduduk",
			AnswerID:     "42",
			CategoryID:   "cat-1",
		},
		DenseScore:   0.93,
		OverlapScore: 0.5,
		FinalScore:   0.78,
		Note:         domain.NoteAutoAcceptedByDense,
		Accepted:     true,
	}
}

func TestSearchHandler_Success(t *testing.T) {
	svc := &mockRetrieval{outcome: domain.RetrievalOutcome{
		Status:     domain.StatusSuccess,
		Message:    "Hasil ditemukan",
		Provenance: domain.ProvenanceText,
		Query: domain.Query{
			RawText:        "bagaimana cara membuat ktp?",
			NormalizedText: "kartu tanda penduduk",
			CategoryName:   "Kependudukan",
			RequesterTag:   "628123",
		},
		Accepted: []domain.ScoredCandidate{acceptedCandidate()},
		Judge:    &domain.JudgeResult{Relevant: true, Reason: "topik sama"},
	}}
	h := NewSearchHandler(svc)

	rec := postJSON(t, h.Search, `{"question":"bagaimana cara membuat ktp?","wa_number":"628123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Data.SimilarQuestions, 1)
	got := resp.Data.SimilarQuestions[0]
	assert.Equal(t, "Bagaimana cara membuat KTP?", got.Question)
	assert.Equal(t, "cara membuat kartu tanda penduduk", got.QuestionRAGName)
	assert.Equal(t, "42", got.AnswerID)
	assert.Equal(t, "auto_accepted_by_dense", got.Note)

	meta := resp.Data.Metadata
	assert.Equal(t, "628123", meta.WANumber)
	assert.Equal(t, "Kependudukan", meta.Category)
	assert.Equal(t, "topik sama", meta.AIReason)
	assert.Equal(t, 0.78, meta.FinalScoreTop)
	assert.Equal(t, "628123", svc.tag)
}

func TestSearchHandler_MissingQuestion(t *testing.T) {
	h := NewSearchHandler(&mockRetrieval{})

	rec := postJSON(t, h.Search, `{"wa_number":"628123"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
	errBody := resp["error"].(map[string]any)
	assert.Equal(t, "ValidationError", errBody["type"])
}

func TestSearchHandler_DefaultWANumber(t *testing.T) {
	svc := &mockRetrieval{outcome: domain.RetrievalOutcome{Status: domain.StatusLowConfidence}}
	h := NewSearchHandler(svc)

	postJSON(t, h.Search, `{"question":"cara membuat ktp"}`)
	assert.Equal(t, "unknown", svc.tag)
}

func TestSearchHandler_DocumentFallbackShape(t *testing.T) {
	svc := &mockRetrieval{outcome: domain.RetrievalOutcome{
		Status:     domain.StatusSuccess,
		Message:    "Hasil ditemukan dari dokumen",
		Provenance: domain.ProvenanceDocument,
		Query: domain.Query{
			RawText:        "tarif retribusi sampah",
			NormalizedText: "tarif retribusi sampah",
			RequesterTag:   "628999",
		},
		Document: &domain.DocumentHit{
			Score: 0.812,
			Chunk: domain.DocumentChunk{
				Filename:  "perda-retribusi.pdf",
				PageStart: 7,
				BodyText:  "tarif retribusi diatur dalam pasal 12",
			},
		},
	}}
	h := NewSearchHandler(svc)

	rec := postJSON(t, h.Search, `{"question":"tarif retribusi sampah","wa_number":"628999"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.SimilarQuestions, 1)
	got := resp.Data.SimilarQuestions[0]
	assert.Equal(t, "[Dokumen] perda-retribusi.pdf - Halaman 7", got.Question)
	assert.Equal(t, "tarif retribusi diatur dalam pasal 12", got.QuestionRAGName)
	assert.Nil(t, got.AnswerID)
	assert.Equal(t, "from_document_rag", got.Note)
	assert.Equal(t, 0.812, got.FinalScore)

	meta := resp.Data.Metadata
	assert.Equal(t, "Dokumen", meta.Category)
	assert.Equal(t, "Fallback ke RAG dokumen", meta.AIReason)
	assert.Equal(t, 0.812, meta.FinalScoreTop)
}

func TestSearchHandler_RejectedOnlyListAndDashScore(t *testing.T) {
	rejected := acceptedCandidate()
	rejected.Note = domain.NoteRejected
	rejected.Accepted = false
	svc := &mockRetrieval{outcome: domain.RetrievalOutcome{
		Status:   domain.StatusLowConfidence,
		Message:  "Tidak ada hasil cukup relevan",
		Rejected: []domain.ScoredCandidate{rejected},
	}}
	h := NewSearchHandler(svc)

	rec := postJSON(t, h.Search, `{"question":"cara membuat sim"}`)
	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.SimilarQuestions, 1)
	assert.Equal(t, "-", resp.Data.SimilarQuestions[0].Note)
	assert.Equal(t, "-", resp.Data.Metadata.FinalScoreTop)
}

func TestSearchHandler_ServiceError(t *testing.T) {
	svc := &mockRetrieval{err: errors.New("qdrant down")}
	h := NewSearchHandler(svc)

	rec := postJSON(t, h.Search, `{"question":"cara membuat ktp"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
}
