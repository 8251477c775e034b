package llm

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/pemkomedan/rag-layanan/internal/domain"
)

// PreFilter is the advisory LLM gate that runs after the local hard filter.
// It can reject off-topic questions and clean up spelling, but any upstream
// failure passes the question through unchanged.
type PreFilter struct {
	api     ChatAPI
	prompts PromptStore
	timeout time.Duration
}

func NewPreFilter(api ChatAPI, prompts PromptStore, timeout time.Duration) *PreFilter {
	return &PreFilter{api: api, prompts: prompts, timeout: timeout}
}

// Check asks the model whether the question belongs to the public-services
// domain and returns a cleaned version of it.
func (p *PreFilter) Check(ctx context.Context, question string) domain.PreFilterResult {
	system := resolvePrompt(ctx, p.prompts, VarPreFilterRAG, defaultPreFilterPrompt)

	content, err := callWithTimeout(ctx, p.timeout, func(ctx context.Context) (string, error) {
		return p.api.ChatCompletion(ctx, system, strings.TrimSpace(question), 0.0, 0.6, 0)
	})
	if err != nil {
		log.Printf("[AI-FILTER] pre-filter failed, passing through: %v", err)
		return domain.PreFilterResult{Valid: true, Reason: "AI filter unavailable", CleanQuestion: question, Degraded: true}
	}

	var parsed struct {
		Valid         bool   `json:"valid"`
		Reason        string `json:"reason"`
		CleanQuestion string `json:"clean_question"`
	}
	if err := ExtractFirstJSON(content, &parsed); err != nil {
		log.Printf("[AI-FILTER] no JSON in completion, passing through: %v", err)
		return domain.PreFilterResult{Valid: true, Reason: "AI tidak mengembalikan JSON", CleanQuestion: question, Degraded: true}
	}

	clean := strings.TrimSpace(parsed.CleanQuestion)
	if clean == "" {
		clean = question
	}
	return domain.PreFilterResult{Valid: parsed.Valid, Reason: parsed.Reason, CleanQuestion: clean}
}

// Reformulator rewrites a free-form citizen request into a short searchable
// phrase for the proposal bank. Failure returns the original text.
type Reformulator struct {
	api     ChatAPI
	prompts PromptStore
	timeout time.Duration
}

func NewReformulator(api ChatAPI, prompts PromptStore, timeout time.Duration) *Reformulator {
	return &Reformulator{api: api, prompts: prompts, timeout: timeout}
}

// Reformulate returns the cleaned request phrase.
func (r *Reformulator) Reformulate(ctx context.Context, request string) string {
	system := resolvePrompt(ctx, r.prompts, VarPreFilterUsulan, defaultReformulatorPrompt)

	content, err := callWithTimeout(ctx, r.timeout, func(ctx context.Context) (string, error) {
		return r.api.ChatCompletion(ctx, system, strings.TrimSpace(request), 0.0, 0.6, 0)
	})
	if err != nil {
		log.Printf("[AI-REFORM] reformulation failed, using raw request: %v", err)
		return request
	}

	var parsed struct {
		CleanRequest string `json:"clean_request"`
	}
	if err := ExtractFirstJSON(content, &parsed); err != nil {
		log.Printf("[AI-REFORM] no JSON in completion, using raw request: %v", err)
		return request
	}
	if clean := strings.TrimSpace(parsed.CleanRequest); clean != "" {
		return clean
	}
	return request
}
