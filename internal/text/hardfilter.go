package text

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pemkomedan/rag-layanan/internal/domain"
)

const minQuestionTokens = 3

var wordBoundaryRes = map[string]*regexp.Regexp{}

func init() {
	for _, term := range nonServiceAreas {
		wordBoundaryRes[term] = boundaryRe(term)
	}
	for _, term := range opinionWords {
		wordBoundaryRes[term] = boundaryRe(term)
	}
}

func boundaryRe(term string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
}

// HardFilter is the deterministic local pre-filter: it rejects questions
// that name an area outside the service region, read as opinion/personal
// questions, or are too short to retrieve against. It runs before any
// embedding, index, or judge call and never consults the network.
func HardFilter(question string) domain.PreFilterResult {
	norm := Normalize(question)

	for _, area := range nonServiceAreas {
		if wordBoundaryRes[area].MatchString(norm) {
			return domain.PreFilterResult{
				Valid:         false,
				Reason:        fmt.Sprintf("Pertanyaan menyebut daerah di luar Medan (%s)", titleCase(area)),
				CleanQuestion: question,
			}
		}
	}

	for _, w := range opinionWords {
		if wordBoundaryRes[w].MatchString(norm) {
			return domain.PreFilterResult{
				Valid:         false,
				Reason:        "Pertanyaan bersifat opini/personal, bukan layanan publik",
				CleanQuestion: question,
			}
		}
	}

	if len(strings.Fields(norm)) < minQuestionTokens {
		return domain.PreFilterResult{
			Valid:         false,
			Reason:        "Pertanyaan terlalu pendek atau tidak jelas",
			CleanQuestion: question,
		}
	}

	return domain.PreFilterResult{
		Valid:         true,
		Reason:        "Lolos hard filter",
		CleanQuestion: question,
	}
}

func titleCase(s string) string {
	parts := strings.Fields(s)
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
