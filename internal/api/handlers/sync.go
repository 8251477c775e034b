package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pemkomedan/rag-layanan/internal/api"
	"github.com/pemkomedan/rag-layanan/internal/domain"
)

// KnowledgeSyncer mirrors CMS records into the knowledge collection.
type KnowledgeSyncer interface {
	BulkSyncKnowledge(ctx context.Context, entries []domain.KnowledgeEntry) (int, error)
	UpsertKnowledge(ctx context.Context, entry domain.KnowledgeEntry) error
	DeleteKnowledge(ctx context.Context, id string) error
}

// SyncHandler serves POST /api/sync.
type SyncHandler struct {
	svc KnowledgeSyncer
}

func NewSyncHandler(svc KnowledgeSyncer) *SyncHandler {
	return &SyncHandler{svc: svc}
}

// FlexString accepts JSON strings, numbers, and null. Upstream CMS payloads
// send ids inconsistently typed.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("value is neither string nor number: %s", data)
	}
	*f = FlexString(strconv.FormatInt(int64(n), 10))
	return nil
}

// SyncRequest carries one sync action; content shape depends on the action.
type SyncRequest struct {
	Action  string          `json:"action"`
	Content json.RawMessage `json:"content"`
}

type knowledgeItem struct {
	QuestionRAGID   FlexString `json:"question_rag_id"`
	QuestionID      FlexString `json:"question_id"`
	AnswerID        FlexString `json:"answer_id"`
	CategoryID      FlexString `json:"category_id"`
	Question        string     `json:"question"`
	QuestionRAGName string     `json:"question_rag_name"`
}

func (i knowledgeItem) toEntry() domain.KnowledgeEntry {
	return domain.KnowledgeEntry{
		ID:           string(i.QuestionRAGID),
		QuestionID:   string(i.QuestionID),
		QuestionText: i.Question,
		RAGText:      i.QuestionRAGName,
		AnswerID:     string(i.AnswerID),
		CategoryID:   string(i.CategoryID),
	}
}

func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "ValidationError", "invalid request body")
		return
	}
	if req.Action == "" {
		api.Error(w, http.StatusBadRequest, "ValidationError", "Field 'action' wajib diisi")
		return
	}

	switch req.Action {
	case "bulk_sync":
		var items []knowledgeItem
		if err := json.Unmarshal(req.Content, &items); err != nil {
			api.Error(w, http.StatusBadRequest, "ValidationError", "Content harus berupa list")
			return
		}
		entries := make([]domain.KnowledgeEntry, len(items))
		for i, item := range items {
			entries[i] = item.toEntry()
		}
		n, err := h.svc.BulkSyncKnowledge(r.Context(), entries)
		if err != nil {
			handleSyncError(w, err)
			return
		}
		api.JSON(w, http.StatusOK, map[string]any{
			"status":       "success",
			"message":      fmt.Sprintf("Sinkronisasi %d data berhasil", n),
			"total_synced": n,
		})

	case "add", "update":
		var item knowledgeItem
		if err := json.Unmarshal(req.Content, &item); err != nil {
			api.Error(w, http.StatusBadRequest, "ValidationError", "invalid content")
			return
		}
		if err := h.svc.UpsertKnowledge(r.Context(), item.toEntry()); err != nil {
			handleSyncError(w, err)
			return
		}
		if req.Action == "add" {
			api.JSON(w, http.StatusOK, map[string]any{
				"status":  "success",
				"message": "Data berhasil ditambahkan",
				"id":      string(item.QuestionRAGID),
			})
			return
		}
		api.JSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "Data berhasil diperbarui",
		})

	case "delete":
		var item knowledgeItem
		if err := json.Unmarshal(req.Content, &item); err != nil {
			api.Error(w, http.StatusBadRequest, "ValidationError", "invalid content")
			return
		}
		if err := h.svc.DeleteKnowledge(r.Context(), string(item.QuestionRAGID)); err != nil {
			handleSyncError(w, err)
			return
		}
		api.JSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "Data berhasil dihapus",
		})

	default:
		api.Error(w, http.StatusBadRequest, "ValidationError",
			fmt.Sprintf("Action '%s' tidak dikenali", req.Action))
	}
}

// handleSyncError keeps entry validation failures as 400s; everything else is
// an upstream problem.
func handleSyncError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrMissingEntryID) || errors.Is(err, domain.ErrMissingEntryText) {
		api.Error(w, http.StatusBadRequest, "ValidationError", err.Error())
		return
	}
	api.HandleError(w, err)
}
