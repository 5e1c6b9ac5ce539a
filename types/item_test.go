package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, CategoryArticle, NormalizeCategory("Article"))
	assert.Equal(t, CategoryNote, NormalizeCategory(" note "))
	assert.Equal(t, CategoryUnknown, NormalizeCategory("recipe"))
	assert.Equal(t, CategoryUnknown, NormalizeCategory(""))
}

func TestIsValidCategory(t *testing.T) {
	assert.True(t, IsValidCategory("video"))
	assert.True(t, IsValidCategory("BOOK"))
	assert.False(t, IsValidCategory("recipe"))
	assert.False(t, IsValidCategory(""))
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Go ", "redis", "GO", "", "Redis", "ai"})
	assert.Equal(t, []string{"go", "redis", "ai"}, got)
}

func TestMergeTagsUserFirst(t *testing.T) {
	got := MergeTags([]string{"Work", "golang"}, []string{"AI", "golang", "notes"})
	assert.Equal(t, []string{"work", "golang", "ai", "notes"}, got)
}

func TestMetadataMergeLaterWins(t *testing.T) {
	earlier := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	base := Metadata{URL: "https://a.example", Author: "alice", Price: "10"}
	over := Metadata{URL: "https://b.example", DateDetected: &earlier}

	got := base.Merge(over)
	assert.Equal(t, "https://b.example", got.URL)
	assert.Equal(t, "alice", got.Author)
	assert.Equal(t, "10", got.Price)
	assert.Equal(t, &earlier, got.DateDetected)
}

func TestMetadataMergeExtra(t *testing.T) {
	got := Metadata{}.Merge(Metadata{Extra: map[string]string{"isbn": "123"}})
	assert.Equal(t, "123", got.Extra["isbn"])
}
