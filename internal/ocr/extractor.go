package ocr

import (
	"context"
	"log"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/pemkomedan/rag-layanan/internal/domain"
)

// Extractor fans document pages out over a bounded worker pool and
// reassembles the results in page order. A failed page becomes an empty
// string rather than failing the document, so every page number is always
// present in the result.
type Extractor struct {
	reader PageReader
	pool   *ants.Pool
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithPoolSize sets the worker pool size for per-page extraction.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Extractor) error {
		if size < 1 {
			size = 1
		}
		if e.pool != nil {
			e.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

func NewExtractor(reader PageReader, opts ...Option) (*Extractor, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Extractor{reader: reader, pool: pool}
	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}
	return e, nil
}

// ExtractPages OCRs every page of the file concurrently and returns the
// texts keyed by 1-based page number. The map always holds one entry per
// page; pages whose extraction failed map to "".
func (e *Extractor) ExtractPages(ctx context.Context, filePath string) (map[int]string, error) {
	total, err := e.reader.PageCount(ctx, filePath)
	if err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		pages = make(map[int]string, total)
	)

	for page := 1; page <= total; page++ {
		page := page
		wg.Add(1)
		submitErr := e.pool.Submit(func() {
			defer wg.Done()
			text, pageErr := e.reader.ExtractPage(ctx, filePath, page)
			if pageErr != nil {
				log.Printf("[OCR] page %d failed, keeping empty: %v", page, pageErr)
				text = ""
			}
			mu.Lock()
			pages[page] = strings.TrimSpace(text)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			pages[page] = ""
			mu.Unlock()
		}
	}
	wg.Wait()

	return pages, nil
}

// ExtractText is the single-string convenience over ExtractPages, joining
// non-empty pages in order.
func (e *Extractor) ExtractText(ctx context.Context, filePath string) (string, int, error) {
	pages, err := e.ExtractPages(ctx, filePath)
	if err != nil {
		return "", 0, err
	}

	nums := make([]int, 0, len(pages))
	for n := range pages {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	parts := make([]string, 0, len(nums))
	for _, n := range nums {
		if pages[n] != "" {
			parts = append(parts, pages[n])
		}
	}
	full := strings.TrimSpace(strings.Join(parts, "\n\n"))
	if full == "" {
		return "", len(pages), domain.ErrExtractionFailed
	}
	return full, len(pages), nil
}

// Release frees the worker pool. The extractor must not be used after.
func (e *Extractor) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}
