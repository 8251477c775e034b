package ingest

import (
	"context"
	"math"
	"regexp"
	"strings"
)

// mergeThreshold is inclusive: similarity of exactly 0.80 still merges.
const mergeThreshold = 0.80

// sectionRe matches Indonesian legal-document headings used as section
// labels (BAB IV, PASAL 12, BAGIAN KEDUA).
var sectionRe = regexp.MustCompile(`(?i)\b(BAB\s+[IVXLCDM\d]+|PASAL\s+\d+|BAGIAN\s+\p{L}+)`)

// PassageEmbedder embeds stored content for similarity comparison.
type PassageEmbedder interface {
	EmbedPassage(ctx context.Context, text string) ([]float32, error)
}

// MergedChunk is one semantically coherent, possibly page-spanning chunk.
type MergedChunk struct {
	Text         string
	PageStart    int
	PageEnd      int
	SectionLabel string
}

// Merger folds seed chunks into variable-length semantic chunks. It runs
// strictly sequentially: each merge decision compares against the embedding
// of the most recently appended seed chunk, not a buffer average, so input
// order determines the chunk boundaries.
type Merger struct {
	embedder PassageEmbedder
}

func NewMerger(embedder PassageEmbedder) *Merger {
	return &Merger{embedder: embedder}
}

// Merge consumes the seeds in order and returns the merged chunks. An
// embedding failure aborts the run; partial merges are never returned.
func (m *Merger) Merge(ctx context.Context, seeds []SeedChunk) ([]MergedChunk, error) {
	if len(seeds) == 0 {
		return nil, nil
	}

	first := seeds[0]
	lastVec, err := m.embedder.EmbedPassage(ctx, first.Text)
	if err != nil {
		return nil, err
	}

	var (
		merged []MergedChunk
		buffer = MergedChunk{
			Text:         first.Text,
			PageStart:    first.Page,
			PageEnd:      first.Page,
			SectionLabel: detectSection(first.Text),
		}
	)

	for _, seed := range seeds[1:] {
		vec, err := m.embedder.EmbedPassage(ctx, seed.Text)
		if err != nil {
			return nil, err
		}

		if cosineSimilarity(lastVec, vec) >= mergeThreshold {
			buffer.Text = buffer.Text + "\n" + seed.Text
			if seed.Page > buffer.PageEnd {
				buffer.PageEnd = seed.Page
			}
			if buffer.SectionLabel == "" {
				buffer.SectionLabel = detectSection(seed.Text)
			}
		} else {
			merged = append(merged, buffer)
			buffer = MergedChunk{
				Text:         seed.Text,
				PageStart:    seed.Page,
				PageEnd:      seed.Page,
				SectionLabel: detectSection(seed.Text),
			}
		}
		lastVec = vec
	}

	merged = append(merged, buffer)
	return merged, nil
}

func detectSection(text string) string {
	m := sectionRe.FindString(text)
	return strings.ToUpper(strings.Join(strings.Fields(m), " "))
}

// cosineSimilarity accumulates in float64 for stable boundary comparisons.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
