package service

import (
	"context"
	"fmt"
	"log"

	"github.com/pemkomedan/rag-layanan/internal/domain"
	"github.com/pemkomedan/rag-layanan/internal/index"
)

// PassageEmbedder embeds stored texts for indexing.
type PassageEmbedder interface {
	EmbedPassage(ctx context.Context, text string) ([]float32, error)
	EmbedPassages(ctx context.Context, texts []string) ([][]float32, error)
}

// IndexWriter is the mutating slice of the index client.
type IndexWriter interface {
	EnsureCollection(ctx context.Context, name string, dim int) error
	Upsert(ctx context.Context, collection string, points []index.Point) error
	DeletePoints(ctx context.Context, collection string, ids []string) error
}

// SyncService mirrors the upstream CMS into the knowledge and proposal
// collections. Entry ids double as point ids, so add and update are the same
// idempotent upsert.
type SyncService struct {
	embedder            PassageEmbedder
	writer              IndexWriter
	knowledgeCollection string
	proposalCollection  string
}

func NewSyncService(embedder PassageEmbedder, writer IndexWriter, knowledgeCollection, proposalCollection string) *SyncService {
	return &SyncService{
		embedder:            embedder,
		writer:              writer,
		knowledgeCollection: knowledgeCollection,
		proposalCollection:  proposalCollection,
	}
}

// BulkSyncKnowledge replaces or creates every given entry and returns the
// number of points written.
func (s *SyncService) BulkSyncKnowledge(ctx context.Context, entries []domain.KnowledgeEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	texts := make([]string, len(entries))
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}
		texts[i] = e.RAGText
	}

	vectors, err := s.embedder.EmbedPassages(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed knowledge entries: %w", err)
	}
	if err := s.writer.EnsureCollection(ctx, s.knowledgeCollection, len(vectors[0])); err != nil {
		return 0, err
	}

	points := make([]index.Point, len(entries))
	for i, e := range entries {
		points[i] = index.Point{ID: e.ID, Vector: vectors[i], Payload: knowledgePayload(e)}
	}
	if err := s.writer.Upsert(ctx, s.knowledgeCollection, points); err != nil {
		return 0, err
	}
	log.Printf("[SYNC] %d knowledge entries written to %s", len(points), s.knowledgeCollection)
	return len(points), nil
}

// UpsertKnowledge writes one entry; add and update are identical.
func (s *SyncService) UpsertKnowledge(ctx context.Context, entry domain.KnowledgeEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	vector, err := s.embedder.EmbedPassage(ctx, entry.RAGText)
	if err != nil {
		return fmt.Errorf("embed knowledge entry: %w", err)
	}
	if err := s.writer.EnsureCollection(ctx, s.knowledgeCollection, len(vector)); err != nil {
		return err
	}
	return s.writer.Upsert(ctx, s.knowledgeCollection, []index.Point{
		{ID: entry.ID, Vector: vector, Payload: knowledgePayload(entry)},
	})
}

// DeleteKnowledge removes one entry by id.
func (s *SyncService) DeleteKnowledge(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrMissingEntryID
	}
	return s.writer.DeletePoints(ctx, s.knowledgeCollection, []string{id})
}

// BulkSyncProposals replaces or creates every given proposal entry.
func (s *SyncService) BulkSyncProposals(ctx context.Context, entries []domain.ProposalEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	texts := make([]string, len(entries))
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}
		texts[i] = e.RAGText
	}

	vectors, err := s.embedder.EmbedPassages(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed proposal entries: %w", err)
	}
	if err := s.writer.EnsureCollection(ctx, s.proposalCollection, len(vectors[0])); err != nil {
		return 0, err
	}

	points := make([]index.Point, len(entries))
	for i, e := range entries {
		points[i] = index.Point{ID: e.ID, Vector: vectors[i], Payload: proposalPayload(e)}
	}
	if err := s.writer.Upsert(ctx, s.proposalCollection, points); err != nil {
		return 0, err
	}
	log.Printf("[SYNC-USULAN] %d proposal entries written to %s", len(points), s.proposalCollection)
	return len(points), nil
}

// UpsertProposal writes one proposal entry.
func (s *SyncService) UpsertProposal(ctx context.Context, entry domain.ProposalEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	vector, err := s.embedder.EmbedPassage(ctx, entry.RAGText)
	if err != nil {
		return fmt.Errorf("embed proposal entry: %w", err)
	}
	if err := s.writer.EnsureCollection(ctx, s.proposalCollection, len(vector)); err != nil {
		return err
	}
	return s.writer.Upsert(ctx, s.proposalCollection, []index.Point{
		{ID: entry.ID, Vector: vector, Payload: proposalPayload(entry)},
	})
}

// DeleteProposal removes one proposal entry by id.
func (s *SyncService) DeleteProposal(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrMissingEntryID
	}
	return s.writer.DeletePoints(ctx, s.proposalCollection, []string{id})
}

func knowledgePayload(e domain.KnowledgeEntry) map[string]any {
	return map[string]any{
		"question_id":       e.QuestionID,
		"answer_id":         e.AnswerID,
		"category_id":       e.CategoryID,
		"question":          e.QuestionText,
		"question_rag_name": e.RAGText,
	}
}

func proposalPayload(e domain.ProposalEntry) map[string]any {
	return map[string]any{
		"request_id":       e.RequestID,
		"organization_id":  e.OrganizationID,
		"request_name":     e.RequestName,
		"request_rag_name": e.RAGText,
	}
}
