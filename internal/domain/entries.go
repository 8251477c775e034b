package domain

import "strings"

// KnowledgeEntry is one curated Q&A bank record. ID doubles as the
// vector-index point id, so re-syncing the same entry overwrites its point.
type KnowledgeEntry struct {
	ID           string
	QuestionID   string
	QuestionText string
	RAGText      string
	AnswerID     string
	CategoryID   string
}

// Validate checks the fields required for indexing.
func (e *KnowledgeEntry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrMissingEntryID
	}
	if strings.TrimSpace(e.RAGText) == "" {
		return ErrMissingEntryText
	}
	return nil
}

// ProposalEntry is one proposal ("usulan") bank record, indexed in its own
// collection with the same id-as-point-id lifecycle as KnowledgeEntry.
type ProposalEntry struct {
	ID             string
	RequestID      string
	OrganizationID string
	RequestName    string
	RAGText        string
}

// Validate checks the fields required for indexing.
func (e *ProposalEntry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrMissingEntryID
	}
	if strings.TrimSpace(e.RAGText) == "" {
		return ErrMissingEntryText
	}
	return nil
}

// DocumentChunk is one merged, page-spanning chunk of an ingested document.
// Chunks are immutable once indexed; re-ingesting a source supersedes them.
type DocumentChunk struct {
	ChunkID      string
	SourceDocID  string
	OrgTag       string
	Filename     string
	PageStart    int
	PageEnd      int
	SectionLabel string
	SummaryText  string
	BodyText     string
}
