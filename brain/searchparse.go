package brain

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"synapse/types"
)

// ParseSearchQuery runs search mode: turn a natural-language query into
// structured filters. Failures fall back to naive keyword splitting; this
// method never returns an error.
func (b *Brain) ParseSearchQuery(ctx context.Context, query string) types.ParsedQuery {
	if b.chat == nil {
		return FallbackParsedQuery(query)
	}

	raw, err := b.chat.Chat(ctx, ChatRequest{
		System:    systemPrompt,
		Message:   buildSearchMessage(query, b.now()),
		MaxTokens: 1000,
	})
	if err != nil {
		log.Printf("brain: search parse failed: %v", err)
		return FallbackParsedQuery(query)
	}

	var parsed types.ParsedQuery
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		log.Printf("brain: unparseable search response: %v", err)
		return FallbackParsedQuery(query)
	}
	parsed.Mode = "search"
	if parsed.QueryIntent == "" {
		parsed.QueryIntent = "retrieve_saved_items"
	}
	if parsed.Sort == "" {
		parsed.Sort = "recent"
	}
	return parsed
}

// FallbackParsedQuery splits the query on whitespace: tokens longer than 2
// characters become topics and semantic keywords, category is "all", ranges
// empty, sort recent.
func FallbackParsedQuery(query string) types.ParsedQuery {
	topics := []string{}
	for _, w := range strings.Fields(query) {
		if len(w) > 2 {
			topics = append(topics, w)
		}
	}
	return types.ParsedQuery{
		Mode:        "search",
		QueryIntent: "retrieve_saved_items",
		Filters: types.QueryFilters{
			Category: "all",
			Topics:   topics,
		},
		SemanticKeywords: topics,
		Sort:             "recent",
	}
}

// SearchInsights asks the model to describe a result set. On failure it
// returns a minimal deterministic insights object carrying only the result
// count.
func (b *Brain) SearchInsights(ctx context.Context, query string, items []*types.Item, parsed types.ParsedQuery) types.Insights {
	fallback := FallbackInsights(len(items))
	if b.chat == nil {
		return fallback
	}

	raw, err := b.chat.Chat(ctx, ChatRequest{
		Message:   buildInsightsMessage(query, items, parsed),
		MaxTokens: 1500,
	})
	if err != nil {
		log.Printf("brain: insights request failed: %v", err)
		return fallback
	}

	var insights types.Insights
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &insights); err != nil {
		log.Printf("brain: unparseable insights response: %v", err)
		return fallback
	}
	if insights.Themes == nil {
		insights.Themes = []string{}
	}
	if insights.Suggestions == nil {
		insights.Suggestions = []string{}
	}
	if insights.RelatedSearches == nil {
		insights.RelatedSearches = []string{}
	}
	return insights
}

// FallbackInsights is the deterministic insights object used when the AI
// capability fails.
func FallbackInsights(count int) types.Insights {
	return types.Insights{
		Interpretation:  "Unable to generate AI insights",
		Themes:          []string{},
		KeyFindings:     formatFoundCount(count),
		Suggestions:     []string{},
		RelatedSearches: []string{},
	}
}

func formatFoundCount(count int) string {
	if count == 1 {
		return "Found 1 matching item"
	}
	return fmt.Sprintf("Found %d matching items", count)
}
