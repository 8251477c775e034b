// Package ingest turns a source document into indexed chunks: resolve the
// file, OCR it per page, merge seed chunks semantically, summarize, embed
// and upsert.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/pemkomedan/rag-layanan/internal/domain"
)

// ObjectDownloader fetches an object-store key into a local file.
type ObjectDownloader interface {
	DownloadToFile(ctx context.Context, bucket, key, destPath string) error
}

// SourceResolver materializes a document reference as a local file path.
// Supported forms: plain local path, file://, http(s):// and s3://.
type SourceResolver struct {
	http    *http.Client
	objects ObjectDownloader
}

func NewSourceResolver(objects ObjectDownloader, timeout time.Duration) *SourceResolver {
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &SourceResolver{
		http:    &http.Client{Timeout: timeout},
		objects: objects,
	}
}

// Resolve returns a local path for fileURL and a cleanup func that removes
// any temp file this call created. cleanup is non-nil on every success path
// and must be called exactly once.
func (r *SourceResolver) Resolve(ctx context.Context, fileURL string) (string, func(), error) {
	noop := func() {}

	switch {
	case strings.HasPrefix(fileURL, "http://"), strings.HasPrefix(fileURL, "https://"):
		return r.download(ctx, fileURL)

	case strings.HasPrefix(fileURL, "s3://"):
		return r.fetchObject(ctx, fileURL)

	case strings.HasPrefix(fileURL, "file://"):
		local := strings.TrimPrefix(fileURL, "file://")
		if _, err := os.Stat(local); err != nil {
			return "", nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, local)
		}
		return local, noop, nil

	default:
		if _, err := os.Stat(fileURL); err != nil {
			return "", nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, fileURL)
		}
		return fileURL, noop, nil
	}
}

func (r *SourceResolver) download(ctx context.Context, fileURL string) (string, func(), error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", nil, err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("%w: GET %s: %s", domain.ErrDownloadFailed, fileURL, resp.Status)
	}

	tmp, err := os.CreateTemp("", "ingest-*"+suffixOf(fileURL))
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.Remove(tmp.Name()) }

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return tmp.Name(), cleanup, nil
}

func (r *SourceResolver) fetchObject(ctx context.Context, fileURL string) (string, func(), error) {
	if r.objects == nil {
		return "", nil, fmt.Errorf("%w: object storage not configured", domain.ErrDownloadFailed)
	}
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", nil, err
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", nil, fmt.Errorf("%w: malformed s3 url %q", domain.ErrDownloadFailed, fileURL)
	}

	tmp, err := os.CreateTemp("", "ingest-*"+suffixOf(key))
	if err != nil {
		return "", nil, err
	}
	tmp.Close()
	cleanup := func() { os.Remove(tmp.Name()) }

	if err := r.objects.DownloadToFile(ctx, bucket, key, tmp.Name()); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	return tmp.Name(), cleanup, nil
}

func suffixOf(ref string) string {
	ext := path.Ext(ref)
	if ext == "" {
		return ".bin"
	}
	return ext
}
