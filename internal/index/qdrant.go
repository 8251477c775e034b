// Package index is a minimal REST client to Qdrant. It speaks the collection,
// upsert, delete and search endpoints the retrieval and ingestion services
// need, nothing more.
package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pemkomedan/rag-layanan/internal/domain"
)

// Client assumes cosine distance for every collection it manages.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Point is one vector with its payload, ready for upsert.
type Point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// SearchHit is one scored result. Payload keys depend on the collection.
type SearchHit struct {
	ID      string
	Score   float64
	Payload map[string]any
}

// EnsureCollection creates the collection with the given dimension if it does
// not exist yet. The existence check is retried once because a cold Qdrant
// node can refuse the first request right after startup.
func (c *Client) EnsureCollection(ctx context.Context, name string, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("%w: invalid vector dimension %d", domain.ErrIndexUnavailable, dim)
	}

	exists, err := c.collectionExists(ctx, name)
	if err != nil {
		exists, err = c.collectionExists(ctx, name)
	}
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dim,
			"distance": "Cosine",
		},
	}
	return c.putJSON(ctx, fmt.Sprintf("%s/collections/%s", c.baseURL, name), body)
}

// Ping checks that the index answers the collections listing.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/collections", nil)
	if err != nil {
		return err
	}
	c.auth(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET collections: %s", domain.ErrIndexUnavailable, resp.Status)
	}
	return nil
}

func (c *Client) collectionExists(ctx context.Context, name string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/collections/%s", c.baseURL, name), nil)
	if err != nil {
		return false, err
	}
	c.auth(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%w: GET collection %s: %s", domain.ErrIndexUnavailable, name, resp.Status)
	}
}

// Upsert writes the points and waits for them to be indexed so a sync call
// that returns OK is immediately searchable.
func (c *Client) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	body := map[string]any{"points": points}
	return c.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", c.baseURL, collection), body)
}

// DeletePoints removes points by id, waiting for the delete to apply.
func (c *Client) DeletePoints(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	body := map[string]any{"points": ids}
	return c.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/delete?wait=true", c.baseURL, collection), body, nil)
}

// Search runs a cosine top-k query. A non-empty filter becomes a Qdrant
// must/match condition per key; pass nil to search the whole collection.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, limit int, filter map[string]string) ([]SearchHit, error) {
	if limit <= 0 {
		limit = 5
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	if len(filter) > 0 {
		must := make([]map[string]any, 0, len(filter))
		for key, value := range filter {
			must = append(must, map[string]any{
				"key":   key,
				"match": map[string]any{"value": value},
			})
		}
		body["filter"] = map[string]any{"must": must}
	}

	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := c.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, collection), body, &resp); err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, SearchHit{
			ID:      fmt.Sprintf("%v", r.ID),
			Score:   r.Score,
			Payload: r.Payload,
		})
	}
	return hits, nil
}

func (c *Client) auth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
}

func (c *Client) putJSON(ctx context.Context, url string, body any) error {
	return c.send(ctx, http.MethodPut, url, body, nil)
}

func (c *Client) postJSON(ctx context.Context, url string, body any, out any) error {
	return c.send(ctx, http.MethodPost, url, body, out)
}

func (c *Client) send(ctx context.Context, method, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.auth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s: %s", domain.ErrIndexUnavailable, method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
