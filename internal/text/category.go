package text

import "strings"

// DetectCategory scans the ordered category table and returns the first
// category with a substring keyword match against the lower-cased query.
// Ties break on table order, not on match count: an earlier row with one
// hit beats a later row with several. Returns ok=false when nothing
// matches, which callers treat as "search without a category filter".
func DetectCategory(query string) (Category, bool) {
	q := strings.ToLower(query)
	for _, cat := range categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(q, kw) {
				return cat, true
			}
		}
	}
	return Category{}, false
}

// CategoryName resolves a category id to its display name, or "Global" for
// the unfiltered case.
func CategoryName(id string) string {
	for _, cat := range categories {
		if cat.ID == id {
			return cat.Name
		}
	}
	return "Global"
}
