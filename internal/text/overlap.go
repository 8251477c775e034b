package text

// KeywordOverlap computes Jaccard token-set similarity between two strings
// after synonym expansion and stopword removal. Returns 0.0 when either
// token set is empty. Pure and deterministic: identical inputs always yield
// identical output, and the measure is symmetric.
func KeywordOverlap(a, b string) float64 {
	setA := tokenSet(ExpandTerms(a))
	setB := tokenSet(ExpandTerms(b))
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range TokenizeAndFilter(s) {
		set[tok] = struct{}{}
	}
	return set
}
