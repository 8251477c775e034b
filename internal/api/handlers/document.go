package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/pemkomedan/rag-layanan/internal/api"
	"github.com/pemkomedan/rag-layanan/internal/domain"
	"github.com/pemkomedan/rag-layanan/internal/ingest"
	"github.com/pemkomedan/rag-layanan/internal/service"
)

// DocumentSearcher answers direct document-corpus queries.
type DocumentSearcher interface {
	SearchWithSummary(ctx context.Context, query string, limit int) (service.DocSearchResult, error)
}

// DocumentIngester runs the ingestion pipeline for one document.
type DocumentIngester interface {
	Process(ctx context.Context, docID, orgTag, fileURL string) ingest.Result
}

// DocumentHandler serves POST /api/doc-search and POST /api/doc-sync.
type DocumentHandler struct {
	search DocumentSearcher
	ingest DocumentIngester
}

func NewDocumentHandler(search DocumentSearcher, ingest DocumentIngester) *DocumentHandler {
	return &DocumentHandler{search: search, ingest: ingest}
}

// DocSearchRequest is the inbound document query.
type DocSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// DocResultItem is one document hit on the wire.
type DocResultItem struct {
	DocID     string  `json:"doc_id"`
	OPD       string  `json:"opd"`
	Filename  string  `json:"filename"`
	PageStart int     `json:"page_start"`
	PageEnd   int     `json:"page_end"`
	Section   string  `json:"section"`
	Summary   string  `json:"summary"`
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
}

// DocSearchResponse is the doc-search envelope. Mode and Summary are omitted
// on empty results.
type DocSearchResponse struct {
	Status  string          `json:"status"`
	Mode    string          `json:"mode,omitempty"`
	Query   string          `json:"query,omitempty"`
	Summary string          `json:"summary,omitempty"`
	Results []DocResultItem `json:"results"`
}

func (h *DocumentHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req DocSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "ValidationError", "invalid request body")
		return
	}
	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "ValidationError", "Field 'query' wajib diisi")
		return
	}
	if req.Limit <= 0 {
		req.Limit = 5
	}

	source := r.Header.Get("X-RAG-Source")
	if source == "" {
		source = "unknown"
	}
	log.Printf("[DOC-SEARCH] query=%q limit=%d source=%s", req.Query, req.Limit, source)

	res, err := h.search.SearchWithSummary(r.Context(), req.Query, req.Limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	if res.Status == "empty" {
		api.JSON(w, http.StatusOK, DocSearchResponse{Status: "empty", Results: []DocResultItem{}})
		return
	}

	resp := DocSearchResponse{
		Status:  res.Status,
		Mode:    res.Mode,
		Query:   res.Query,
		Summary: res.Summary,
		Results: make([]DocResultItem, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		resp.Results = append(resp.Results, docResultItem(hit))
	}
	api.JSON(w, http.StatusOK, resp)
}

func docResultItem(hit domain.DocumentHit) DocResultItem {
	return DocResultItem{
		DocID:     hit.Chunk.SourceDocID,
		OPD:       hit.Chunk.OrgTag,
		Filename:  hit.Chunk.Filename,
		PageStart: hit.Chunk.PageStart,
		PageEnd:   hit.Chunk.PageEnd,
		Section:   hit.Chunk.SectionLabel,
		Summary:   hit.Chunk.SummaryText,
		Text:      hit.Chunk.BodyText,
		Score:     hit.Score,
	}
}

// DocSyncRequest identifies one document to ingest.
type DocSyncRequest struct {
	DocID   string `json:"doc_id"`
	OPDName string `json:"opd_name"`
	FileURL string `json:"file_url"`
}

func (h *DocumentHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req DocSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "ValidationError", "invalid request body")
		return
	}
	if req.DocID == "" {
		api.Error(w, http.StatusBadRequest, "ValidationError", "Field 'doc_id' wajib diisi")
		return
	}
	if req.FileURL == "" {
		api.Error(w, http.StatusBadRequest, "ValidationError", "Field 'file_url' wajib diisi")
		return
	}

	result := h.ingest.Process(r.Context(), req.DocID, req.OPDName, req.FileURL)
	if result.Status != "ok" {
		api.JSON(w, http.StatusInternalServerError, result)
		return
	}
	api.JSON(w, http.StatusOK, result)
}
