// Package llm holds the chat-completions adapters: the advisory pre-filter,
// the relevance judge, the proposal reformulator and the chunk summarizer.
// Every caller degrades to a safe default when the upstream misbehaves, so
// nothing in this package lets an LLM outage turn into a request error.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ChatAPI defines the interface for chat completions.
type ChatAPI interface {
	ChatCompletion(ctx context.Context, system, user string, temperature, topP float32, maxTokens int) (string, error)
}

type OpenAIAdapter struct {
	client *openai.Client
	model  string
}

func NewOpenAIAdapter(apiKey, baseURL, model string) *OpenAIAdapter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIAdapter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// ChatCompletion sends one system+user exchange and returns the raw content.
func (a *OpenAIAdapter) ChatCompletion(ctx context.Context, system, user string, temperature, topP float32, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		TopP:        topP,
	}
	if maxTokens > 0 {
		req.MaxTokens = maxTokens
	}
	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// firstJSONRe grabs the outermost {...} span so prose or code fences around
// the JSON do not break parsing.
var firstJSONRe = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractFirstJSON unmarshals the first JSON object found in text into out.
func ExtractFirstJSON(text string, out any) error {
	m := firstJSONRe.FindString(text)
	if m == "" {
		return errors.New("no JSON object in completion")
	}
	return json.Unmarshal([]byte(m), out)
}

func callWithTimeout(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (string, error)) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return fn(ctx)
}
