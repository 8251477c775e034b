package ingest

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pemkomedan/rag-layanan/internal/domain"
	"github.com/pemkomedan/rag-layanan/internal/index"
)

const upsertBatchSize = 128

// PageExtractor turns a local file into per-page text.
type PageExtractor interface {
	ExtractPages(ctx context.Context, filePath string) (map[int]string, error)
}

// ChunkSummarizer condenses a merged chunk; implementations never fail, they
// fall back to truncation.
type ChunkSummarizer interface {
	Summarize(ctx context.Context, text string) string
}

// BatchEmbedder embeds passages in bulk, preserving order.
type BatchEmbedder interface {
	EmbedPassages(ctx context.Context, texts []string) ([][]float32, error)
}

// Indexer is the vector-index surface the pipeline writes to.
type Indexer interface {
	EnsureCollection(ctx context.Context, name string, dim int) error
	Upsert(ctx context.Context, collection string, points []index.Point) error
}

// Result reports one ingestion run. Status is "ok" or "error"; an error run
// never leaves partially indexed state unreported.
type Result struct {
	Status      string             `json:"status"`
	Message     string             `json:"message,omitempty"`
	DocID       string             `json:"doc_id"`
	Filename    string             `json:"filename,omitempty"`
	TotalPages  int                `json:"total_pages"`
	TotalChunks int                `json:"total_chunks"`
	Stages      map[string]float64 `json:"stages"`
}

// Pipeline runs the full ingestion flow for one document.
type Pipeline struct {
	sources    *SourceResolver
	extractor  PageExtractor
	merger     *Merger
	summarizer ChunkSummarizer
	embedder   BatchEmbedder
	indexer    Indexer
	collection string
	seedCfg    SeedConfig
}

func NewPipeline(
	sources *SourceResolver,
	extractor PageExtractor,
	merger *Merger,
	summarizer ChunkSummarizer,
	embedder BatchEmbedder,
	indexer Indexer,
	collection string,
) *Pipeline {
	return &Pipeline{
		sources:    sources,
		extractor:  extractor,
		merger:     merger,
		summarizer: summarizer,
		embedder:   embedder,
		indexer:    indexer,
		collection: collection,
		seedCfg:    DefaultSeedConfig(),
	}
}

// Process ingests one document end to end. All failures are absorbed into
// the returned Result rather than an error, so callers always get the stage
// timings collected up to the failure.
func (p *Pipeline) Process(ctx context.Context, docID, orgTag, fileURL string) Result {
	t0 := time.Now()
	res := Result{Status: "ok", DocID: docID, Stages: map[string]float64{}}

	fail := func(stage string, err error) Result {
		log.Printf("[DOC] doc_id=%s stage=%s failed: %v", docID, stage, err)
		res.Status = "error"
		res.Message = err.Error()
		res.Stages["total_sec"] = seconds(t0)
		return res
	}

	// (a) resolve source
	tStage := time.Now()
	localPath, cleanup, err := p.sources.Resolve(ctx, fileURL)
	if err != nil {
		return fail("resolve", err)
	}
	defer cleanup()
	res.Filename = filepath.Base(localPath)
	res.Stages["download_sec"] = seconds(tStage)

	// (b) per-page OCR
	tStage = time.Now()
	pages, err := p.extractor.ExtractPages(ctx, localPath)
	if err != nil {
		return fail("ocr", err)
	}
	res.TotalPages = len(pages)
	res.Stages["ocr_sec"] = seconds(tStage)

	// (c) seed split + semantic merge
	tStage = time.Now()
	seeds := SplitPages(pages, p.seedCfg)
	if len(seeds) == 0 {
		return fail("split", domain.ErrEmptyDocument)
	}
	merged, err := p.merger.Merge(ctx, seeds)
	if err != nil {
		return fail("merge", err)
	}
	res.Stages["merge_sec"] = seconds(tStage)

	// (d) summarize each merged chunk
	tStage = time.Now()
	summaries := make([]string, len(merged))
	for i, chunk := range merged {
		summaries[i] = p.summarizer.Summarize(ctx, chunk.Text)
	}
	res.Stages["summarize_sec"] = seconds(tStage)

	// (e) batch-embed chunk texts
	tStage = time.Now()
	texts := make([]string, len(merged))
	for i, chunk := range merged {
		texts[i] = chunk.Text
	}
	vectors, err := p.embedder.EmbedPassages(ctx, texts)
	if err != nil {
		return fail("embed", err)
	}
	res.Stages["embed_sec"] = seconds(tStage)

	// (f) ensure collection with the dimensionality of the first vector
	tStage = time.Now()
	if err := p.indexer.EnsureCollection(ctx, p.collection, len(vectors[0])); err != nil {
		return fail("ensure_collection", err)
	}
	res.Stages["ensure_collection_sec"] = seconds(tStage)

	// (g) upsert in bounded batches
	tStage = time.Now()
	points := make([]index.Point, len(merged))
	now := time.Now().UTC().Format(time.RFC3339)
	for i, chunk := range merged {
		points[i] = index.Point{
			ID:     uuid.NewString(),
			Vector: vectors[i],
			Payload: map[string]any{
				"doc_id":     docID,
				"opd":        orgTag,
				"filename":   res.Filename,
				"page_start": chunk.PageStart,
				"page_end":   chunk.PageEnd,
				"section":    chunk.SectionLabel,
				"summary":    summaries[i],
				"text":       chunk.Text,
				"created_at": now,
			},
		}
	}
	for start := 0; start < len(points); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(points) {
			end = len(points)
		}
		if err := p.indexer.Upsert(ctx, p.collection, points[start:end]); err != nil {
			return fail("upsert", err)
		}
	}
	res.Stages["upsert_sec"] = seconds(tStage)

	res.TotalChunks = len(points)
	res.Stages["total_sec"] = seconds(t0)
	log.Printf("[DOC] doc_id=%s indexed %d chunks from %d pages in %.3fs",
		docID, res.TotalChunks, res.TotalPages, res.Stages["total_sec"])
	return res
}

func seconds(since time.Time) float64 {
	return float64(time.Since(since).Milliseconds()) / 1000
}
