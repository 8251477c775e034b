package service

import (
	"io"
	"log"
)

// SummaryLog is a second, condensed log stream that records only retrieval
// outcomes: which question was asked and what answered it. Operators tail it
// instead of the full request log. A nil SummaryLog discards everything.
type SummaryLog struct {
	logger *log.Logger
}

// NewSummaryLog writes summary lines to w with a timestamp prefix.
func NewSummaryLog(w io.Writer) *SummaryLog {
	return &SummaryLog{logger: log.New(w, "", log.LstdFlags)}
}

func (s *SummaryLog) printf(format string, args ...any) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf("[INFO]: "+format, args...)
}

// TextAnswer records a question answered from the text bank.
func (s *SummaryLog) TextAnswer(question, ragName string, score float64) {
	s.printf("[RAG] %s -> %s (score=%.3f)", question, ragName, score)
}

// DocumentAnswer records a question answered through the document fallback.
func (s *SummaryLog) DocumentAnswer(question, filename string, score float64) {
	s.printf("[RAG FALLBACK] %s -> Dokumen: %s (score=%.3f)", question, filename, score)
}

// NoAnswer records a question that produced no confident answer.
func (s *SummaryLog) NoAnswer(question, reason string) {
	s.printf("[RAG MISS] %s (%s)", question, reason)
}

// ProposalAnswer records a citizen request matched in the proposal bank.
func (s *SummaryLog) ProposalAnswer(request, ragName string, score float64) {
	s.printf("[USULAN] %s -> %s (score=%.3f)", request, ragName, score)
}
