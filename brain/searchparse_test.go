package brain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synapse/types"
)

func TestParseSearchQueryParsesResponse(t *testing.T) {
	chat := &scriptedChat{response: `{"query_intent":"find_products","filters":{"category":"product","topics":["desk"],"time_range":{},"price_range":{"max":300}},"semantic_keywords":["standing desk"],"sort":"relevance"}`}
	b := New(chat)

	parsed := b.ParseSearchQuery(context.Background(), "standing desks under 300")

	assert.Equal(t, "search", parsed.Mode)
	assert.Equal(t, "find_products", parsed.QueryIntent)
	assert.Equal(t, "product", parsed.Filters.Category)
	require.NotNil(t, parsed.Filters.PriceRange.Max)
	assert.Equal(t, 300.0, *parsed.Filters.PriceRange.Max)
	assert.Equal(t, "relevance", parsed.Sort)
}

func TestParseSearchQueryFailureFallsBack(t *testing.T) {
	chat := &scriptedChat{err: errors.New("timeout")}
	b := New(chat)

	parsed := b.ParseSearchQuery(context.Background(), "my go notes on ai")

	assert.Equal(t, "all", parsed.Filters.Category)
	assert.Equal(t, []string{"notes"}, parsed.Filters.Topics)
	assert.Equal(t, "recent", parsed.Sort)
}

func TestFallbackParsedQuery(t *testing.T) {
	parsed := FallbackParsedQuery("a blue whale in it")

	assert.Equal(t, "search", parsed.Mode)
	assert.Equal(t, "retrieve_saved_items", parsed.QueryIntent)
	assert.Equal(t, []string{"blue", "whale"}, parsed.Filters.Topics)
	assert.Equal(t, []string{"blue", "whale"}, parsed.SemanticKeywords)
	assert.Equal(t, "all", parsed.Filters.Category)
	assert.Equal(t, "recent", parsed.Sort)
}

func TestSearchInsightsFallback(t *testing.T) {
	b := New(nil)
	insights := b.SearchInsights(context.Background(), "q", nil, types.ParsedQuery{})

	assert.Equal(t, "Unable to generate AI insights", insights.Interpretation)
	assert.Equal(t, "Found 0 matching items", insights.KeyFindings)
	assert.Equal(t, []string{}, insights.Themes)
}

func TestFallbackInsightsSingular(t *testing.T) {
	assert.Equal(t, "Found 1 matching item", FallbackInsights(1).KeyFindings)
	assert.Equal(t, "Found 2 matching items", FallbackInsights(2).KeyFindings)
}
