package search

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

type fixedEmbedder struct {
	vec []float32
}

func (f *fixedEmbedder) EmbedDocument(context.Context, string) ([]float32, error) {
	return f.vec, nil
}
func (f *fixedEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return f.vec, nil
}
func (f *fixedEmbedder) ModelName() string { return "fixed" }

func seedItem(t *testing.T, st store.Store, title, content string, mut ...func(*types.Item)) *types.Item {
	t.Helper()
	now := time.Now().UTC()
	item := &types.Item{
		ID:         types.NewID(),
		OwnerID:    "u",
		Category:   types.CategoryNote,
		Title:      title,
		Summary:    "summary",
		Content:    content,
		Tags:       []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
		AccessedAt: now,
	}
	for _, m := range mut {
		m(item)
	}
	require.NoError(t, st.Insert(context.Background(), item))
	return item
}

func TestSearchKeywordAndSemantics(t *testing.T) {
	st := store.NewMemoryStore()
	seedItem(t, st, "Blue sky", "a whale surfaced")
	seedItem(t, st, "Blue door", "nothing else")

	e := New(st, brain.New(nil), nil, nil)
	resp, err := e.Search(context.Background(), "u", "blue whale")
	require.NoError(t, err)

	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Blue sky", resp.Results[0].Title)
	assert.Equal(t, "Unable to generate AI insights", resp.AIInsights.Interpretation)
	assert.Equal(t, "Found 1 matching item", resp.AIInsights.KeyFindings)
	assert.False(t, resp.SearchedWeb)
}

func TestSearchScopesToOwner(t *testing.T) {
	st := store.NewMemoryStore()
	seedItem(t, st, "whale notes", "")

	e := New(st, brain.New(nil), nil, nil)
	resp, err := e.Search(context.Background(), "intruder", "whale")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count)
}

func TestSearchExcludesArchived(t *testing.T) {
	st := store.NewMemoryStore()
	seedItem(t, st, "whale watching", "", func(i *types.Item) { i.IsArchived = true })

	e := New(st, brain.New(nil), nil, nil)
	resp, err := e.Search(context.Background(), "u", "whale")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count)
}

func TestSearchRerankPrefersSimilarEmbedding(t *testing.T) {
	st := store.NewMemoryStore()
	// Older item aligned with the query vector, newer one orthogonal.
	seedItem(t, st, "whale biology", "", func(i *types.Item) {
		i.Embedding = []float32{1, 0}
		i.CreatedAt = i.CreatedAt.Add(-time.Hour)
	})
	seedItem(t, st, "whale shipping", "", func(i *types.Item) {
		i.Embedding = []float32{0, 1}
	})

	e := New(st, brain.New(nil), &fixedEmbedder{vec: []float32{1, 0}}, nil)
	resp, err := e.Search(context.Background(), "u", "whale")
	require.NoError(t, err)

	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "whale biology", resp.Results[0].Title)
	// Embeddings never leave the engine.
	assert.Nil(t, resp.Results[0].Embedding)
}

func TestSearchWithoutEmbedderKeepsRecency(t *testing.T) {
	st := store.NewMemoryStore()
	seedItem(t, st, "whale old", "", func(i *types.Item) {
		i.CreatedAt = i.CreatedAt.Add(-time.Hour)
	})
	seedItem(t, st, "whale new", "")

	e := New(st, brain.New(nil), nil, nil)
	resp, err := e.Search(context.Background(), "u", "whale")
	require.NoError(t, err)

	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "whale new", resp.Results[0].Title)
}
