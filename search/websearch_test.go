package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldSearchWebZeroResults(t *testing.T) {
	assert.True(t, ShouldSearchWeb("anything at all", 0))
}

func TestShouldSearchWebShoppingIntent(t *testing.T) {
	assert.True(t, ShouldSearchWeb("buy running shoes", 10))
	assert.True(t, ShouldSearchWeb("best price for headphones", 10))
	assert.True(t, ShouldSearchWeb("headphones under 500 rupees", 10))
	assert.True(t, ShouldSearchWeb("laptop for 1200 dollars", 10))
}

func TestShouldSearchWebNewsIntent(t *testing.T) {
	assert.True(t, ShouldSearchWeb("latest golang release", 10))
	assert.True(t, ShouldSearchWeb("news about rust", 10))
}

func TestShouldSearchWebQuestionsNeedThinCoverage(t *testing.T) {
	assert.True(t, ShouldSearchWeb("what is raft consensus", 2))
	assert.False(t, ShouldSearchWeb("what is raft consensus", 3))
	assert.True(t, ShouldSearchWeb("is raft hard?", 1))
}

func TestShouldSearchWebSkipsPlainQueries(t *testing.T) {
	assert.False(t, ShouldSearchWeb("golang concurrency notes", 5))
}

func TestClassifySearchType(t *testing.T) {
	assert.Equal(t, "products", ClassifySearchType("buy a standing desk"))
	assert.Equal(t, "products", ClassifySearchType("desk for 300 dollars"))
	assert.Equal(t, "general", ClassifySearchType("golang concurrency notes"))
}

func TestFilterProductResults(t *testing.T) {
	results := []WebResult{
		{Title: "Desk review", URL: "https://www.amazon.com/desk"},
		{Title: "Best Price Standing Desks", URL: "https://blog.example.com/desks"},
		{Title: "Desk history", URL: "https://en.wikipedia.org/wiki/Desk"},
	}
	got := filterProductResults(results)
	assert.Len(t, got, 2)
	assert.Equal(t, "https://www.amazon.com/desk", got[0].URL)
}

func TestResolveRedirect(t *testing.T) {
	assert.Equal(t, "https://example.com/page",
		resolveRedirect("//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fpage&rut=abc"))
	assert.Equal(t, "https://direct.example/x", resolveRedirect("https://direct.example/x"))
	assert.Equal(t, "", resolveRedirect(""))
}

func TestFaviconURL(t *testing.T) {
	assert.Equal(t, "https://www.google.com/s2/favicons?domain=example.com&sz=64",
		faviconURL("https://example.com/path"))
	assert.Equal(t, "", faviconURL("not a url"))
}
