package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pemkomedan/rag-layanan/internal/api"
	"github.com/pemkomedan/rag-layanan/internal/domain"
)

// ProposalSearcher runs a request through the proposal bank.
type ProposalSearcher interface {
	Search(ctx context.Context, request string) (domain.ProposalOutcome, error)
}

// ProposalSyncer mirrors CMS records into the proposal collection.
type ProposalSyncer interface {
	BulkSyncProposals(ctx context.Context, entries []domain.ProposalEntry) (int, error)
	UpsertProposal(ctx context.Context, entry domain.ProposalEntry) error
	DeleteProposal(ctx context.Context, id string) error
}

// UsulanHandler serves POST /api/search-usulan and POST /api/sync-usulan.
type UsulanHandler struct {
	search ProposalSearcher
	sync   ProposalSyncer
}

func NewUsulanHandler(search ProposalSearcher, sync ProposalSyncer) *UsulanHandler {
	return &UsulanHandler{search: search, sync: sync}
}

// ProposalCandidate is one candidate in the usulan similar_questions list.
type ProposalCandidate struct {
	RequestID      any     `json:"request_id"`
	OrganizationID any     `json:"organization_id"`
	RequestName    string  `json:"request_name"`
	RequestRAGName string  `json:"request_rag_name"`
	DenseScore     float64 `json:"dense_score"`
	FinalScore     float64 `json:"final_score"`
	Note           string  `json:"note"`
}

// ProposalMetadata mirrors the usulan metadata block.
type ProposalMetadata struct {
	WANumber      string `json:"wa_number"`
	UserQuestion  string `json:"user_question"`
	FinalScoreTop any    `json:"final_score_top"`
}

// ProposalData groups the candidate list with its metadata.
type ProposalData struct {
	SimilarQuestions []ProposalCandidate `json:"similar_questions"`
	Metadata         *ProposalMetadata   `json:"metadata,omitempty"`
}

// ProposalResponse is the usulan search envelope. Reason is only set on a
// negative topic verdict.
type ProposalResponse struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Reason  string                 `json:"reason,omitempty"`
	Data    ProposalData           `json:"data"`
	Timing  domain.ProposalTimings `json:"timing"`
}

func (h *UsulanHandler) Search(w http.ResponseWriter, r *http.Request) {
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

	outcome, err := h.search.Search(r.Context(), req.Question)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, buildProposalResponse(req, outcome))
}

func buildProposalResponse(req SearchRequest, outcome domain.ProposalOutcome) ProposalResponse {
	resp := ProposalResponse{
		Status:  outcome.Status,
		Message: outcome.Message,
		Timing:  outcome.Timings,
	}
	resp.Data.SimilarQuestions = []ProposalCandidate{}

	// A negative topic verdict returns an empty list with the reason only.
	if outcome.Judge != nil && !outcome.Judge.Relevant {
		resp.Reason = valueOrDash(outcome.Judge.Reason)
		return resp
	}

	candidates := outcome.Accepted
	if len(candidates) == 0 {
		candidates = outcome.Rejected
	}
	for _, c := range candidates {
		resp.Data.SimilarQuestions = append(resp.Data.SimilarQuestions, ProposalCandidate{
			RequestID:      nullableString(c.Entry.RequestID),
			OrganizationID: nullableString(c.Entry.OrganizationID),
			RequestName:    c.Entry.RequestName,
			RequestRAGName: c.Entry.RAGText,
			DenseScore:     c.DenseScore,
			FinalScore:     c.FinalScore,
			Note:           c.Note,
		})
	}

	meta := &ProposalMetadata{
		WANumber:      req.WANumber,
		UserQuestion:  req.Question,
		FinalScoreTop: "-",
	}
	if len(outcome.Accepted) > 0 {
		meta.FinalScoreTop = outcome.Accepted[0].FinalScore
	}
	resp.Data.Metadata = meta
	return resp
}

type proposalItem struct {
	RequestRAGID   FlexString `json:"request_rag_id"`
	RequestID      FlexString `json:"request_id"`
	OrganizationID FlexString `json:"organization_id"`
	RequestName    string     `json:"request_name"`
	RequestRAGName string     `json:"request_rag_name"`
}

func (i proposalItem) toEntry() domain.ProposalEntry {
	return domain.ProposalEntry{
		ID:             string(i.RequestRAGID),
		RequestID:      string(i.RequestID),
		OrganizationID: string(i.OrganizationID),
		RequestName:    i.RequestName,
		RAGText:        i.RequestRAGName,
	}
}

func (h *UsulanHandler) Sync(w http.ResponseWriter, r *http.Request) {
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
		var items []proposalItem
		if err := json.Unmarshal(req.Content, &items); err != nil {
			api.Error(w, http.StatusBadRequest, "ValidationError", "Content harus berupa list")
			return
		}
		entries := make([]domain.ProposalEntry, len(items))
		for i, item := range items {
			entries[i] = item.toEntry()
		}
		n, err := h.sync.BulkSyncProposals(r.Context(), entries)
		if err != nil {
			handleSyncError(w, err)
			return
		}
		api.JSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": fmt.Sprintf("%d data berhasil disinkronkan ke usulan_bank", n),
		})

	case "add", "update":
		var item proposalItem
		if err := json.Unmarshal(req.Content, &item); err != nil {
			api.Error(w, http.StatusBadRequest, "ValidationError", "invalid content")
			return
		}
		if err := h.sync.UpsertProposal(r.Context(), item.toEntry()); err != nil {
			handleSyncError(w, err)
			return
		}
		api.JSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": fmt.Sprintf("Data %s berhasil", req.Action),
		})

	case "delete":
		var item proposalItem
		if err := json.Unmarshal(req.Content, &item); err != nil {
			api.Error(w, http.StatusBadRequest, "ValidationError", "invalid content")
			return
		}
		if err := h.sync.DeleteProposal(r.Context(), string(item.RequestRAGID)); err != nil {
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
