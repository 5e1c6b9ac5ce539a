package reflection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synapse/brain"
	"synapse/store"
	"synapse/types"
)

func TestDateRange(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	from, to, tf := DateRange("day", now)
	assert.Equal(t, now.AddDate(0, 0, -1), from)
	assert.Equal(t, now, to)
	assert.Equal(t, "day", tf)

	from, _, tf = DateRange("month", now)
	assert.Equal(t, now.AddDate(0, -1, 0), from)
	assert.Equal(t, "month", tf)

	from, _, tf = DateRange("year", now)
	assert.Equal(t, now.AddDate(-1, 0, 0), from)
	assert.Equal(t, "year", tf)

	// Unknown tokens default to a week.
	from, _, tf = DateRange("fortnight", now)
	assert.Equal(t, now.AddDate(0, 0, -7), from)
	assert.Equal(t, "week", tf)
}

func TestDigestEmptyState(t *testing.T) {
	e := New(store.NewMemoryStore(), brain.New(nil))

	result, err := e.Digest(context.Background(), "u", "week")
	require.NoError(t, err)

	assert.Equal(t, 0, result.ItemCount)
	assert.Equal(t, "Weekly Brain Digest", result.Digest.Title)
	assert.Contains(t, result.Digest.Summary, "haven't saved anything in the past week")
	assert.Equal(t, []string{}, result.Digest.Themes)
	assert.Equal(t, []string{}, result.Digest.Insights)
	require.Len(t, result.Digest.SuggestedActions, 1)
}

func TestDigestAggregatesWindowItems(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	now := time.Now().UTC()

	insert := func(title string, age time.Duration, mut ...func(*types.Item)) {
		item := &types.Item{
			ID:        types.NewID(),
			OwnerID:   "u",
			Category:  types.CategoryArticle,
			Title:     title,
			Summary:   "s",
			Tags:      []string{"go"},
			CreatedAt: now.Add(-age),
		}
		for _, m := range mut {
			m(item)
		}
		require.NoError(t, st.Insert(ctx, item))
	}
	insert("in window", 24*time.Hour)
	insert("out of window", 10*24*time.Hour)
	insert("archived", time.Hour, func(i *types.Item) { i.IsArchived = true })

	e := New(st, brain.New(nil))
	result, err := e.Digest(ctx, "u", "week")
	require.NoError(t, err)

	assert.Equal(t, 1, result.ItemCount)
	assert.Contains(t, result.Digest.Summary, "You saved 1 items this week")
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	now := time.Now().UTC()
	for i := 0; i < 7; i++ {
		cat := types.CategoryNote
		if i < 4 {
			cat = types.CategoryArticle
		}
		require.NoError(t, st.Insert(ctx, &types.Item{
			ID:        types.NewID(),
			OwnerID:   "u",
			Category:  cat,
			Title:     "t",
			Summary:   "s",
			Tags:      []string{"go"},
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		}))
	}

	e := New(st, brain.New(nil))
	stats, err := e.Stats(ctx, "u")
	require.NoError(t, err)

	assert.Equal(t, 7, stats.TotalItems)
	require.Len(t, stats.CategoryBreakdown, 2)
	assert.Equal(t, types.CategoryArticle, stats.CategoryBreakdown[0].Category)
	assert.Equal(t, 4, stats.CategoryBreakdown[0].Count)
	require.Len(t, stats.TopTags, 1)
	assert.Equal(t, 7, stats.TopTags[0].Count)
	assert.Len(t, stats.RecentItems, 5)
}
