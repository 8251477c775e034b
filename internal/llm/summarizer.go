package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

const (
	summaryMaxInputChars    = 4000
	summaryFallbackChars    = 350
	summaryMaxOutputTokens  = 400
	defaultSummarySentences = 3
)

// Summarizer condenses a merged document chunk into a few sentences for the
// embedded summary text. On any failure it falls back to a truncated slice
// of the input, so ingestion never stalls on the model.
type Summarizer struct {
	api     ChatAPI
	timeout time.Duration
}

func NewSummarizer(api ChatAPI, timeout time.Duration) *Summarizer {
	return &Summarizer{api: api, timeout: timeout}
}

// Summarize returns a short Indonesian summary of text.
func (s *Summarizer) Summarize(ctx context.Context, text string) string {
	snippet := strings.TrimSpace(text)
	if len(snippet) > summaryMaxInputChars {
		snippet = snippet[:summaryMaxInputChars]
	}

	user := fmt.Sprintf(
		"Ringkas teks berikut menjadi maksimal %d kalimat yang padat, jelas, dan tetap mempertahankan konteks penting.\n\nTeks:\n%s",
		defaultSummarySentences, snippet,
	)

	content, err := callWithTimeout(ctx, s.timeout, func(ctx context.Context) (string, error) {
		return s.api.ChatCompletion(ctx, defaultSummarizerPrompt, user, 0.4, 0.7, summaryMaxOutputTokens)
	})
	if err != nil || strings.TrimSpace(content) == "" {
		log.Printf("[SUMMARIZER] model unavailable, using truncation fallback: %v", err)
		return truncateChars(snippet, summaryFallbackChars)
	}
	return strings.TrimSpace(content)
}

func truncateChars(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
