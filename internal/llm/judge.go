package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pemkomedan/rag-layanan/internal/domain"
)

const maxReformulationWords = 12

// Judge evaluates whether a retrieved text matches the intent of the user
// question. It is advisory: any failure yields relevant=true so an LLM
// outage can only widen results, never suppress them.
type Judge struct {
	api     ChatAPI
	prompts PromptStore
	timeout time.Duration
}

func NewJudge(api ChatAPI, prompts PromptStore, timeout time.Duration) *Judge {
	return &Judge{api: api, prompts: prompts, timeout: timeout}
}

// CheckRelevance compares the user question against a retrieved text and
// returns the verdict with an optional reformulated question.
func (j *Judge) CheckRelevance(ctx context.Context, userQuestion, retrievedText string) domain.JudgeResult {
	system := resolvePrompt(ctx, j.prompts, VarRelevanceRAG, defaultRelevancePrompt)
	user := fmt.Sprintf("User: %s\nRAG Result: %s", strings.TrimSpace(userQuestion), strings.TrimSpace(retrievedText))

	content, err := callWithTimeout(ctx, j.timeout, func(ctx context.Context) (string, error) {
		return j.api.ChatCompletion(ctx, system, user, 0.1, 0.5, 0)
	})
	if err != nil {
		log.Printf("[AI-POST] relevance check failed, defaulting to relevant: %v", err)
		return domain.JudgeResult{Relevant: true, Reason: "AI relevance check failed", Degraded: true}
	}

	var parsed struct {
		Relevant     bool   `json:"relevant"`
		Reason       string `json:"reason"`
		Reformulated string `json:"reformulated_question"`
	}
	if err := ExtractFirstJSON(content, &parsed); err != nil {
		log.Printf("[AI-POST] no JSON in completion, defaulting to relevant: %v", err)
		return domain.JudgeResult{Relevant: true, Reason: "-", Degraded: true}
	}

	return domain.JudgeResult{
		Relevant:     parsed.Relevant,
		Reason:       parsed.Reason,
		Reformulated: truncateWords(parsed.Reformulated, maxReformulationWords),
	}
}

// CheckTopic is the proposal-bank variant: same verdict shape without a
// reformulation, judged on topic identity only.
func (j *Judge) CheckTopic(ctx context.Context, userRequest, retrievedText string) domain.JudgeResult {
	system := resolvePrompt(ctx, j.prompts, VarRelevanceUsulan, defaultTopicRelevancePrompt)
	user := fmt.Sprintf("User: %s\nRAG Result: %s", strings.TrimSpace(userRequest), strings.TrimSpace(retrievedText))

	content, err := callWithTimeout(ctx, j.timeout, func(ctx context.Context) (string, error) {
		return j.api.ChatCompletion(ctx, system, user, 0.1, 0.5, 0)
	})
	if err != nil {
		log.Printf("[AI-POST-USULAN] topic check failed, defaulting to relevant: %v", err)
		return domain.JudgeResult{Relevant: true, Reason: "AI relevance check failed", Degraded: true}
	}

	var parsed struct {
		Relevant bool   `json:"relevant"`
		Reason   string `json:"reason"`
	}
	if err := ExtractFirstJSON(content, &parsed); err != nil {
		log.Printf("[AI-POST-USULAN] no JSON in completion, defaulting to relevant: %v", err)
		return domain.JudgeResult{Relevant: true, Reason: "-", Degraded: true}
	}

	return domain.JudgeResult{Relevant: parsed.Relevant, Reason: parsed.Reason}
}

func truncateWords(s string, max int) string {
	words := strings.Fields(strings.TrimSpace(s))
	if len(words) <= max {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:max], " ") + "..."
}
