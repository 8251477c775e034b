package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pemkomedan/rag-layanan/internal/domain"
	"github.com/pemkomedan/rag-layanan/internal/ingest"
	"github.com/pemkomedan/rag-layanan/internal/service"
)

type mockDocSearch struct {
	result service.DocSearchResult
	err    error
	query  string
	limit  int
}

func (m *mockDocSearch) SearchWithSummary(_ context.Context, query string, limit int) (service.DocSearchResult, error) {
	m.query = query
	m.limit = limit
	return m.result, m.err
}

type mockIngester struct {
	result ingest.Result
	docID  string
	orgTag string
	url    string
}

func (m *mockIngester) Process(_ context.Context, docID, orgTag, fileURL string) ingest.Result {
	m.docID = docID
	m.orgTag = orgTag
	m.url = fileURL
	return m.result
}

func TestDocSearch_Direct(t *testing.T) {
	svc := &mockDocSearch{result: service.DocSearchResult{
		Status: "success",
		Mode:   "direct",
		Query:  "tarif retribusi",
		Hits: []domain.DocumentHit{{
			Score: 0.88,
			Chunk: domain.DocumentChunk{
				SourceDocID:  "doc-1",
				OrgTag:       "bagian-hukum",
				Filename:     "perda.pdf",
				PageStart:    3,
				PageEnd:      4,
				SectionLabel: "BAB II",
				SummaryText:  "ringkasan pasal",
				BodyText:     "isi pasal retribusi",
			},
		}},
	}}
	h := NewDocumentHandler(svc, &mockIngester{})

	rec := postJSON(t, h.Search, `{"query":"tarif retribusi","limit":3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DocSearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "direct", resp.Mode)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "perda.pdf", resp.Results[0].Filename)
	assert.Equal(t, 3, resp.Results[0].PageStart)
	assert.Equal(t, 0.88, resp.Results[0].Score)
	assert.Equal(t, 3, svc.limit)
}

func TestDocSearch_PostSummary(t *testing.T) {
	svc := &mockDocSearch{result: service.DocSearchResult{
		Status:  "success",
		Mode:    "post-summary",
		Query:   "tarif retribusi",
		Summary: "ringkasan jawaban",
		Hits:    []domain.DocumentHit{{Score: 0.9}},
	}}
	h := NewDocumentHandler(svc, &mockIngester{})

	rec := postJSON(t, h.Search, `{"query":"tarif retribusi"}`)
	var resp DocSearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "post-summary", resp.Mode)
	assert.Equal(t, "ringkasan jawaban", resp.Summary)
	// limit defaults when omitted
	assert.Equal(t, 5, svc.limit)
}

func TestDocSearch_Empty(t *testing.T) {
	svc := &mockDocSearch{result: service.DocSearchResult{Status: "empty"}}
	h := NewDocumentHandler(svc, &mockIngester{})

	rec := postJSON(t, h.Search, `{"query":"tidak ada"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"empty","results":[]}`, rec.Body.String())
}

func TestDocSearch_MissingQuery(t *testing.T) {
	h := NewDocumentHandler(&mockDocSearch{}, &mockIngester{})

	rec := postJSON(t, h.Search, `{"limit":3}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocSync_Success(t *testing.T) {
	ing := &mockIngester{result: ingest.Result{
		Status:      "ok",
		DocID:       "doc-1",
		Filename:    "perda.pdf",
		TotalPages:  10,
		TotalChunks: 4,
	}}
	h := NewDocumentHandler(&mockDocSearch{}, ing)

	rec := postJSON(t, h.Sync, `{"doc_id":"doc-1","opd_name":"bagian-hukum","file_url":"https://cdn.example.go.id/perda.pdf"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ingest.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 4, resp.TotalChunks)
	assert.Equal(t, "bagian-hukum", ing.orgTag)
	assert.Equal(t, "https://cdn.example.go.id/perda.pdf", ing.url)
}

func TestDocSync_PipelineFailure(t *testing.T) {
	ing := &mockIngester{result: ingest.Result{
		Status:  "error",
		Message: "ocr unreachable",
		DocID:   "doc-1",
	}}
	h := NewDocumentHandler(&mockDocSearch{}, ing)

	rec := postJSON(t, h.Sync, `{"doc_id":"doc-1","file_url":"https://cdn.example.go.id/perda.pdf"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "ocr unreachable")
}

func TestDocSync_MissingFields(t *testing.T) {
	h := NewDocumentHandler(&mockDocSearch{}, &mockIngester{})

	rec := postJSON(t, h.Sync, `{"file_url":"https://cdn.example.go.id/perda.pdf"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h.Sync, `{"doc_id":"doc-1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
