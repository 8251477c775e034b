package ingest

import (
	"sort"
	"strings"
	"unicode"
)

// SeedChunk is one fixed-size slice of a single page, the unit the merger
// folds into semantic chunks.
type SeedChunk struct {
	Page int
	Text string
}

// SeedConfig controls the per-page seed split.
type SeedConfig struct {
	MaxChars int
	MinChars int
	Overlap  int
}

// DefaultSeedConfig provides sane defaults for seed splitting.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		MaxChars: 1000,
		MinChars: 300,
		Overlap:  100,
	}
}

// SplitPages splits each page into seed chunks and returns them in strict
// page order, which the merger depends on. Empty pages yield no chunks.
func SplitPages(pages map[int]string, cfg SeedConfig) []SeedChunk {
	if cfg.MaxChars <= 0 {
		cfg = DefaultSeedConfig()
	}

	nums := make([]int, 0, len(pages))
	for n := range pages {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	var seeds []SeedChunk
	for _, n := range nums {
		for _, part := range splitText(pages[n], cfg) {
			seeds = append(seeds, SeedChunk{Page: n, Text: part})
		}
	}
	return seeds
}

// splitText cuts text into rune-bounded windows with overlap, preferring to
// break on whitespace past the minimum size.
func splitText(text string, cfg SeedConfig) []string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil
	}
	runes := []rune(clean)
	if len(runes) <= cfg.MaxChars {
		return []string{clean}
	}

	chunks := make([]string, 0, 8)
	start := 0
	for start < len(runes) {
		end := start + cfg.MaxChars
		if end > len(runes) {
			end = len(runes)
		}

		if end < len(runes) {
			cut := end
			minCut := start + cfg.MinChars
			if minCut > end {
				minCut = start
			}
			for i := end; i > minCut; i-- {
				if unicode.IsSpace(runes[i-1]) {
					cut = i
					break
				}
			}
			end = cut
		}

		if end <= start {
			break
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(runes) {
			break
		}

		nextStart := end
		if cfg.Overlap > 0 && end-start > cfg.Overlap {
			nextStart = end - cfg.Overlap
		}
		if nextStart <= start {
			nextStart = end
		}
		start = nextStart
	}

	return chunks
}
