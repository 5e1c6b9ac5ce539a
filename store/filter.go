package store

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"synapse/types"
)

// Matches evaluates the filter predicate against a single item.
func (f Filter) Matches(item *types.Item) bool {
	if f.OwnerID != "" && item.OwnerID != f.OwnerID {
		return false
	}
	if f.Archived != nil && item.IsArchived != *f.Archived {
		return false
	}
	if f.Favorite != nil && item.IsFavorite != *f.Favorite {
		return false
	}
	if f.Category != "" && item.Category != f.Category {
		return false
	}
	if len(f.TagsAny) > 0 && !hasAnyTag(item.Tags, f.TagsAny) {
		return false
	}
	if f.TagPattern != "" && !tagContains(item.Tags, f.TagPattern) {
		return false
	}
	if f.TitlePattern != "" && !containsFold(item.Title, f.TitlePattern) {
		return false
	}
	if f.CreatedFrom != nil && item.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && item.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	if f.PriceMin != nil || f.PriceMax != nil {
		price, ok := parsePrice(item.Metadata.Price)
		if !ok {
			return false
		}
		if f.PriceMin != nil && price < *f.PriceMin {
			return false
		}
		if f.PriceMax != nil && price > *f.PriceMax {
			return false
		}
	}
	if len(f.Topics) > 0 && !matchesAnyTopic(item, f.Topics) {
		return false
	}
	// AND across terms, OR across searchable fields.
	for _, term := range f.Terms {
		if !matchesTerm(item, term) {
			return false
		}
	}
	return true
}

// matchesTerm checks one search term against the fixed searchable field set.
func matchesTerm(item *types.Item, term string) bool {
	if containsFold(item.Title, term) ||
		containsFold(item.Summary, term) ||
		containsFold(item.Content, term) ||
		containsFold(item.Caption, term) ||
		containsFold(item.Metadata.FileName, term) {
		return true
	}
	for _, tag := range item.Tags {
		if containsFold(tag, term) {
			return true
		}
	}
	for _, kp := range item.KeyPoints {
		if containsFold(kp, term) {
			return true
		}
	}
	return false
}

func matchesAnyTopic(item *types.Item, topics []string) bool {
	for _, topic := range topics {
		lower := strings.ToLower(topic)
		for _, tag := range item.Tags {
			if tag == lower {
				return true
			}
		}
		if containsFold(item.Title, topic) || containsFold(item.Summary, topic) {
			return true
		}
	}
	return false
}

func hasAnyTag(tags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range tags {
			if t == strings.ToLower(strings.TrimSpace(w)) {
				return true
			}
		}
	}
	return false
}

func tagContains(tags []string, pattern string) bool {
	for _, t := range tags {
		if containsFold(t, pattern) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

var priceRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// parsePrice pulls the first decimal number out of a string-typed price.
// Prices are stored as strings (with optional currency text mixed in); range
// filtering is numeric, not lexical.
func parsePrice(price string) (float64, bool) {
	m := priceRe.FindString(strings.ReplaceAll(price, ",", ""))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// filterItems applies the predicate to a loaded item set.
func filterItems(items []*types.Item, f Filter) []*types.Item {
	out := make([]*types.Item, 0, len(items))
	for _, item := range items {
		if f.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

// sortItems orders items in place by the requested field.
func sortItems(items []*types.Item, s Sort) {
	less := func(a, b *types.Item) bool {
		switch s.Field {
		case "updatedAt":
			return a.UpdatedAt.Before(b.UpdatedAt)
		case "accessedAt":
			return a.AccessedAt.Before(b.AccessedAt)
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if s.Desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// paginate slices items by skip/limit. A non-positive limit means no cap.
func paginate(items []*types.Item, limit, skip int) []*types.Item {
	if skip > 0 {
		if skip >= len(items) {
			return []*types.Item{}
		}
		items = items[skip:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// projectItems copies items for return, stripping embeddings unless the
// filter asked for them.
func projectItems(items []*types.Item, includeEmbedding bool) []*types.Item {
	out := make([]*types.Item, len(items))
	for i, item := range items {
		cp := *item
		if !includeEmbedding {
			cp.Embedding = nil
		}
		out[i] = &cp
	}
	return out
}

// aggregate helpers shared by both store implementations.

func categoryCounts(items []*types.Item) []CategoryCount {
	counts := make(map[types.Category]int)
	for _, item := range items {
		counts[item.Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func tagCounts(items []*types.Item, limit int) []TagCount {
	counts := make(map[string]int)
	for _, item := range items {
		for _, tag := range item.Tags {
			counts[tag]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TagCount{Tag: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func distinctTags(items []*types.Item, f Filter) []string {
	seen := make(map[string]bool)
	for _, item := range items {
		if !f.Matches(item) {
			continue
		}
		for _, tag := range item.Tags {
			if f.TagPattern != "" && !containsFold(tag, f.TagPattern) {
				continue
			}
			seen[tag] = true
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func dateWindowFilter(ownerID string, from, to time.Time) Filter {
	f := Filter{OwnerID: ownerID}
	if !from.IsZero() {
		f.CreatedFrom = &from
	}
	if !to.IsZero() {
		f.CreatedTo = &to
	}
	return f
}

// applyPatch writes non-nil patch fields onto the item. Tags are normalized
// on the way in so the lowercase/trim/dedupe invariant holds for every write
// path.
func applyPatch(item *types.Item, p Patch) {
	if p.Title != nil {
		item.Title = strings.TrimSpace(*p.Title)
	}
	if p.Caption != nil {
		item.Caption = *p.Caption
	}
	if p.Summary != nil {
		item.Summary = *p.Summary
	}
	if p.Content != nil {
		item.Content = *p.Content
	}
	if p.Tags != nil {
		item.Tags = types.NormalizeTags(*p.Tags)
	}
	if p.Category != nil {
		item.Category = types.NormalizeCategory(string(*p.Category))
	}
	if p.IsPinned != nil {
		item.IsPinned = *p.IsPinned
	}
	if p.IsFavorite != nil {
		item.IsFavorite = *p.IsFavorite
	}
	if p.IsArchived != nil {
		item.IsArchived = *p.IsArchived
	}
	if p.Metadata != nil {
		item.Metadata = *p.Metadata
	}
	if p.Embedding != nil {
		item.Embedding = *p.Embedding
	}
}
