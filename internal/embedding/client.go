// Package embedding wraps the OpenAI-compatible embedding endpoint behind a
// small client. Queries and passages are embedded with different role
// prefixes because the model is asymmetric.
package embedding

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel matches the multilingual-e5 family served by the local
	// inference gateway.
	DefaultModel = "intfloat/multilingual-e5-base"
	// DefaultDimensions is the vector size of the default model.
	DefaultDimensions = 768

	queryPrefix   = "query: "
	passagePrefix = "passage: "
)

var (
	// ErrEmptyText is returned when text is empty.
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when the endpoint answers with a vector
	// of unexpected size.
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
)

// EmbeddingAPI defines the interface for embedding generation.
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Client embeds texts and enforces the configured dimensionality.
type Client struct {
	api        EmbeddingAPI
	dimensions int
}

type OpenAIAdapter struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIAdapter(apiKey, baseURL string, model openai.EmbeddingModel) *OpenAIAdapter {
	if model == "" {
		model = DefaultModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIAdapter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// CreateEmbeddings calls the embedding endpoint for a batch of texts.
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: a.model,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}
	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

type Config struct {
	APIKey     string
	BaseURL    string
	Model      openai.EmbeddingModel
	Dimensions int
}

// NewClient creates an embedding client against the configured endpoint.
func NewClient(cfg Config) *Client {
	dimensions := cfg.Dimensions
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Client{
		api:        NewOpenAIAdapter(cfg.APIKey, cfg.BaseURL, cfg.Model),
		dimensions: dimensions,
	}
}

// NewClientWithAPI creates a client over an existing API implementation.
func NewClientWithAPI(api EmbeddingAPI, dimensions int) *Client {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Client{api: api, dimensions: dimensions}
}

// Dimensions reports the expected vector size.
func (c *Client) Dimensions() int {
	return c.dimensions
}

// EmbedQuery embeds a user question with the query role prefix.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return c.embedOne(ctx, queryPrefix, text)
}

// EmbedPassage embeds stored content with the passage role prefix.
func (c *Client) EmbedPassage(ctx context.Context, text string) ([]float32, error) {
	return c.embedOne(ctx, passagePrefix, text)
}

// EmbedPassages embeds a batch of stored texts in one request, preserving
// input order.
func (c *Client) EmbedPassages(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyText
	}
	prefixed := make([]string, len(texts))
	for i, t := range texts {
		if t == "" {
			return nil, fmt.Errorf("%w: batch element %d", ErrEmptyText, i)
		}
		prefixed[i] = passagePrefix + t
	}
	vectors, err := c.api.CreateEmbeddings(ctx, prefixed)
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	for i, v := range vectors {
		if len(v) != c.dimensions {
			return nil, fmt.Errorf("%w: element %d has %d dims, expected %d", ErrWrongDimensions, i, len(v), c.dimensions)
		}
	}
	return vectors, nil
}

func (c *Client) embedOne(ctx context.Context, prefix, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	vectors, err := c.api.CreateEmbeddings(ctx, []string{prefix + text})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(vectors) == 0 {
		return nil, errors.New("no embedding data returned")
	}
	if len(vectors[0]) != c.dimensions {
		return nil, fmt.Errorf("%w: got %d dims, expected %d", ErrWrongDimensions, len(vectors[0]), c.dimensions)
	}
	return vectors[0], nil
}
