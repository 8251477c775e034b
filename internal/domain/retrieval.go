package domain

// Status values reported by the retrieval engine. StatusDocumentFallback is
// the orchestrator's escalation state; an answer actually served from the
// document corpus is reported as StatusSuccess with ProvenanceDocument.
const (
	StatusSuccess          = "success"
	StatusLowConfidence    = "low_confidence"
	StatusDocumentFallback = "document_fallback"
	StatusNone             = "none"
	StatusError            = "error"
)

// Provenance identifies which retrieval source produced the answer.
const (
	ProvenanceText     = "text"
	ProvenanceDocument = "document"
	ProvenanceNone     = "none"
)

// Acceptance notes attached to scored candidates. The text bank uses the
// three tiered notes; the proposal bank only ever emits NoteProposalMatch.
const (
	NoteAutoAcceptedByDense   = "auto_accepted_by_dense"
	NoteAcceptedByOverlap     = "accepted_by_overlap"
	NoteAcceptedByAIRelevance = "accepted_by_ai_relevance"
	NoteProposalMatch         = "relevant_match_found"
	NoteFromDocument          = "from_document_rag"
	NoteRejected              = "-"
)

// Query is the per-request view of a user question after cleaning.
type Query struct {
	RawText        string
	NormalizedText string
	CategoryID     string
	CategoryName   string
	RequesterTag   string
}

// ScoredCandidate is one text-bank hit after blending and classification.
// FinalScore = 0.65*Dense + 0.35*Overlap, rounded to 3 decimals.
type ScoredCandidate struct {
	Entry        KnowledgeEntry
	DenseScore   float64
	OverlapScore float64
	FinalScore   float64
	Note         string
	Accepted     bool
}

// DocumentHit is a document-corpus candidate surfaced by the fallback layer
// or the direct document search.
type DocumentHit struct {
	Chunk DocumentChunk
	Score float64
}

// JudgeResult is the typed outcome of the advisory relevance judge. Degraded
// is set when the judge itself failed and the safe default (Relevant=true)
// was substituted.
type JudgeResult struct {
	Relevant     bool
	Reason       string
	Reformulated string
	Degraded     bool
}

// PreFilterResult is the outcome of the pre-retrieval query filter, either
// the deterministic hard filter or the advisory LLM filter.
type PreFilterResult struct {
	Valid         bool
	Reason        string
	CleanQuestion string
	Degraded      bool
}

// Timings carries per-stage durations in seconds, rounded to 3 decimals.
type Timings struct {
	PreFilterSec float64 `json:"ai_domain_sec"`
	RelevanceSec float64 `json:"ai_relevance_sec"`
	EmbeddingSec float64 `json:"embedding_sec"`
	SearchSec    float64 `json:"qdrant_sec"`
	TotalSec     float64 `json:"total_sec"`
}

// RetrievalOutcome is the externally visible contract of the engine.
// Accepted and Rejected are each ordered by FinalScore descending.
type RetrievalOutcome struct {
	Status     string
	Message    string
	Provenance string
	Query      Query
	Accepted   []ScoredCandidate
	Rejected   []ScoredCandidate
	Document   *DocumentHit
	Judge      *JudgeResult
	Timings    Timings
}

// PrimaryAnswer returns the top accepted candidate, or nil.
func (o *RetrievalOutcome) PrimaryAnswer() *ScoredCandidate {
	if len(o.Accepted) == 0 {
		return nil
	}
	return &o.Accepted[0]
}

// ProposalCandidate is one proposal-bank ("usulan") hit. No lexical blend:
// FinalScore equals DenseScore rounded to 3 decimals.
type ProposalCandidate struct {
	Entry      ProposalEntry
	DenseScore float64
	FinalScore float64
	Note       string
	Accepted   bool
}

// ProposalOutcome is the proposal-bank analogue of RetrievalOutcome.
type ProposalOutcome struct {
	Status       string
	Message      string
	CleanRequest string
	Accepted     []ProposalCandidate
	Rejected     []ProposalCandidate
	Judge        *JudgeResult
	Timings      ProposalTimings
}

// ProposalTimings carries the proposal pipeline's stage durations.
type ProposalTimings struct {
	ReformSec    float64 `json:"reform_sec"`
	EmbeddingSec float64 `json:"embedding_sec"`
	SearchSec    float64 `json:"qdrant_sec"`
	TotalSec     float64 `json:"total_sec"`
}
