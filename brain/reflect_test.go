package brain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"synapse/types"
)

func digestItems() []*types.Item {
	return []*types.Item{
		{Category: types.CategoryArticle, Tags: []string{"go", "infra"}},
		{Category: types.CategoryNote, Tags: []string{"go", "ideas"}},
	}
}

func TestReflectParsesDigest(t *testing.T) {
	chat := &scriptedChat{response: `{"title":"Weekly Brain Digest","summary":"Busy week.","themes":["go"],"insights":["lots of go"],"suggested_actions":["read more"]}`}
	b := New(chat)

	digest := b.Reflect(context.Background(), digestItems(), "week")
	assert.Equal(t, "Weekly Brain Digest", digest.Title)
	assert.Equal(t, "summary", digest.Category)
	assert.Equal(t, []string{"go"}, digest.Themes)
}

func TestReflectFailureFallsBack(t *testing.T) {
	chat := &scriptedChat{err: errors.New("unavailable")}
	b := New(chat)

	digest := b.Reflect(context.Background(), digestItems(), "week")

	assert.Equal(t, "Weekly Brain Digest", digest.Title)
	assert.Contains(t, digest.Summary, "You saved 2 items this week")
	assert.Contains(t, digest.Summary, "article, note")
	assert.Len(t, digest.SuggestedActions, 3)
}

func TestFallbackDigestTagCap(t *testing.T) {
	items := []*types.Item{{
		Category: types.CategoryNote,
		Tags:     []string{"a", "b", "c", "d", "e", "f", "g"},
	}}
	digest := FallbackDigest(items, "month")
	assert.Len(t, digest.Themes, 5)
	assert.Equal(t, "Monthly Brain Digest", digest.Title)
}

func TestDigestTitle(t *testing.T) {
	assert.Equal(t, "Daily Brain Digest", DigestTitle("day"))
	assert.Equal(t, "Weekly Brain Digest", DigestTitle("week"))
	assert.Equal(t, "Monthly Brain Digest", DigestTitle("month"))
	assert.Equal(t, "Yearly Brain Digest", DigestTitle("year"))
	assert.Equal(t, "Quarter Brain Digest", DigestTitle("quarter"))
}
