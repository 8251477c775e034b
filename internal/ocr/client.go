// Package ocr talks to the OCR sidecar that renders document pages to text.
// The sidecar exposes a page count probe and a per-page extraction endpoint,
// which lets the extractor fan pages out over a worker pool.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PageReader is the per-page OCR surface the extractor runs against.
type PageReader interface {
	PageCount(ctx context.Context, filePath string) (int, error)
	ExtractPage(ctx context.Context, filePath string, page int) (string, error)
}

// Client is the HTTP implementation of PageReader.
type Client struct {
	baseURL string
	lang    string
	http    *http.Client
}

type Config struct {
	URL     string
	Lang    string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	lang := cfg.Lang
	if lang == "" {
		lang = "id"
	}
	return &Client{
		baseURL: cfg.URL,
		lang:    lang,
		http:    &http.Client{Timeout: timeout},
	}
}

// PageCount probes the document and returns its number of pages.
func (c *Client) PageCount(ctx context.Context, filePath string) (int, error) {
	var resp struct {
		Pages int `json:"pages"`
	}
	err := c.post(ctx, "/v1/pages", map[string]any{"file": filePath}, &resp)
	if err != nil {
		return 0, fmt.Errorf("ocr page count: %w", err)
	}
	if resp.Pages <= 0 {
		return 0, fmt.Errorf("ocr page count: document reports %d pages", resp.Pages)
	}
	return resp.Pages, nil
}

// ExtractPage runs OCR on a single page, 1-based.
func (c *Client) ExtractPage(ctx context.Context, filePath string, page int) (string, error) {
	var resp struct {
		Text string `json:"text"`
	}
	err := c.post(ctx, "/v1/extract", map[string]any{
		"file": filePath,
		"page": page,
		"lang": c.lang,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("ocr extract page %d: %w", page, err)
	}
	return resp.Text, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("POST %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
