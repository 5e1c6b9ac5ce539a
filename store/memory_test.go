package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synapse/types"
)

func newItem(owner, title string, mut ...func(*types.Item)) *types.Item {
	now := time.Now().UTC()
	item := &types.Item{
		ID:          types.NewID(),
		OwnerID:     owner,
		Category:    types.CategoryNote,
		Title:       title,
		Summary:     "summary",
		Tags:        []string{},
		VisualStyle: "card",
		CreatedAt:   now,
		UpdatedAt:   now,
		AccessedAt:  now,
	}
	for _, m := range mut {
		m(item)
	}
	return item
}

func TestFindOneScopesByOwner(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	item := newItem("alice", "mine")
	require.NoError(t, s.Insert(ctx, item))

	got, err := s.FindOne(ctx, item.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)

	_, err = s.FindOne(ctx, item.ID, "bob")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.FindOne(ctx, "no-such-id", "alice")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTermsAndAcrossFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Insert(ctx, newItem("u", "Blue sky", func(i *types.Item) {
		i.Content = "a whale surfaced"
	})))
	require.NoError(t, s.Insert(ctx, newItem("u", "Blue door")))

	items, err := s.Find(ctx, Filter{OwnerID: "u", Terms: []string{"blue", "whale"}}, Sort{}, 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Blue sky", items[0].Title)
}

func TestTermMatchesTagsKeyPointsFileName(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Insert(ctx, newItem("u", "a", func(i *types.Item) {
		i.Tags = []string{"golang"}
	})))
	require.NoError(t, s.Insert(ctx, newItem("u", "b", func(i *types.Item) {
		i.KeyPoints = []string{"channels beat mutexes"}
	})))
	require.NoError(t, s.Insert(ctx, newItem("u", "c", func(i *types.Item) {
		i.Metadata.FileName = "report-q3.pdf"
	})))

	for term, want := range map[string]string{"golang": "a", "channels": "b", "report-q3": "c"} {
		items, err := s.Find(ctx, Filter{OwnerID: "u", Terms: []string{term}}, Sort{}, 0, 0)
		require.NoError(t, err)
		require.Len(t, items, 1, term)
		assert.Equal(t, want, items[0].Title)
	}
}

func TestArchivedHiddenFromDefaultAndFavorites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Insert(ctx, newItem("u", "kept", func(i *types.Item) {
		i.IsFavorite = true
	})))
	require.NoError(t, s.Insert(ctx, newItem("u", "archived fav", func(i *types.Item) {
		i.IsFavorite = true
		i.IsArchived = true
	})))

	archived := false
	favorite := true

	items, err := s.Find(ctx, Filter{OwnerID: "u", Archived: &archived}, Sort{}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = s.Find(ctx, Filter{OwnerID: "u", Archived: &archived, Favorite: &favorite}, Sort{}, 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "kept", items[0].Title)
}

func TestTouchBumpsAccessedAtOnly(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	item := newItem("u", "t", func(i *types.Item) {
		old := time.Now().UTC().Add(-time.Hour)
		i.CreatedAt, i.UpdatedAt, i.AccessedAt = old, old, old
	})
	require.NoError(t, s.Insert(ctx, item))

	require.NoError(t, s.Touch(ctx, item.ID, "u"))
	first, err := s.FindOne(ctx, item.ID, "u")
	require.NoError(t, err)

	require.NoError(t, s.Touch(ctx, item.ID, "u"))
	second, err := s.FindOne(ctx, item.ID, "u")
	require.NoError(t, err)

	assert.True(t, second.AccessedAt.After(first.AccessedAt) || second.AccessedAt.Equal(first.AccessedAt))
	assert.True(t, first.AccessedAt.After(item.CreatedAt))
	assert.Equal(t, item.UpdatedAt.Unix(), second.UpdatedAt.Unix())
}

func TestUpdateAppliesAllowListedFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	item := newItem("u", "before")
	require.NoError(t, s.Insert(ctx, item))

	title := "  After  "
	tags := []string{"Work", "work", "AI"}
	archived := true
	got, err := s.Update(ctx, item.ID, "u", Patch{Title: &title, Tags: &tags, IsArchived: &archived})
	require.NoError(t, err)

	assert.Equal(t, "After", got.Title)
	assert.Equal(t, []string{"work", "ai"}, got.Tags)
	assert.True(t, got.IsArchived)
	assert.True(t, got.UpdatedAt.After(item.CreatedAt))
}

func TestDeleteScopesByOwner(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	item := newItem("u", "x")
	require.NoError(t, s.Insert(ctx, item))

	assert.ErrorIs(t, s.Delete(ctx, item.ID, "intruder"), ErrNotFound)
	require.NoError(t, s.Delete(ctx, item.ID, "u"))
	_, err := s.FindOne(ctx, item.ID, "u")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryAndTagAggregates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Insert(ctx, newItem("u", "a", func(it *types.Item) {
			it.Category = types.CategoryArticle
			it.Tags = []string{"go", "infra"}
		})))
	}
	require.NoError(t, s.Insert(ctx, newItem("u", "n", func(it *types.Item) {
		it.Tags = []string{"go"}
	})))

	cats, err := s.CategoryCounts(ctx, "u", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, types.CategoryArticle, cats[0].Category)
	assert.Equal(t, 3, cats[0].Count)

	tags, err := s.TagCounts(ctx, "u", time.Time{}, time.Time{}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, tags)
	assert.Equal(t, TagCount{Tag: "go", Count: 4}, tags[0])
}

func TestDistinctTagsSortedAndFiltered(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Insert(ctx, newItem("u", "a", func(i *types.Item) {
		i.Tags = []string{"zeta", "alpha"}
	})))
	require.NoError(t, s.Insert(ctx, newItem("u", "b", func(i *types.Item) {
		i.Tags = []string{"alpha", "beta"}
		i.IsArchived = true
	})))

	archived := false
	tags, err := s.DistinctTags(ctx, "u", Filter{Archived: &archived})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, tags)
}

func TestFindStripsEmbeddingsByDefault(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Insert(ctx, newItem("u", "a", func(i *types.Item) {
		i.Embedding = []float32{1, 2, 3}
	})))

	items, err := s.Find(ctx, Filter{OwnerID: "u"}, Sort{}, 0, 0)
	require.NoError(t, err)
	assert.Nil(t, items[0].Embedding)

	items, err = s.Find(ctx, Filter{OwnerID: "u", IncludeEmbedding: true}, Sort{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, items[0].Embedding)
}
