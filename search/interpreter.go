package search

import (
	"strings"
	"time"

	"synapse/store"
	"synapse/types"
)

// categoryKeywords are the plural tokens whose presence in the raw query
// authorizes a category filter. Without one of these the parsed category is
// advisory only, so general keyword searches are not over-filtered.
var categoryKeywords = []string{
	"articles", "videos", "images", "notes", "products",
	"todos", "books", "papers", "quotes", "ideas",
}

// BuildFilter translates the parsed query plus the raw query string into a
// store filter. Search always excludes archived items.
func BuildFilter(ownerID, rawQuery string, parsed types.ParsedQuery) store.Filter {
	archived := false
	f := store.Filter{OwnerID: ownerID, Archived: &archived}

	cat := strings.ToLower(strings.TrimSpace(parsed.Filters.Category))
	if cat != "" && cat != "all" && cat != "unknown" && mentionsCategory(rawQuery) {
		f.Category = types.NormalizeCategory(cat)
	}

	if from := parsed.Filters.TimeRange.From; from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			f.CreatedFrom = &t
		}
	}
	if to := parsed.Filters.TimeRange.To; to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			f.CreatedTo = &end
		}
	}

	f.PriceMin = parsed.Filters.PriceRange.Min
	f.PriceMax = parsed.Filters.PriceRange.Max
	f.Topics = parsed.Filters.Topics

	// Keyword predicate: every raw term longer than 2 characters must match
	// at least one searchable field.
	for _, w := range strings.Fields(rawQuery) {
		if len(w) > 2 {
			f.Terms = append(f.Terms, w)
		}
	}
	return f
}

func mentionsCategory(rawQuery string) bool {
	lower := strings.ToLower(rawQuery)
	for _, kw := range categoryKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
