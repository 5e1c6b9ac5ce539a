package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synapse/brain"
	"synapse/types"
)

func TestCategoryUserWinsOverVideoAndAI(t *testing.T) {
	item := Assemble("u1",
		UserInput{Category: "book"},
		Extracted{IsVideo: true},
		types.Annotation{Category: "video", Summary: "s"})
	assert.Equal(t, types.CategoryBook, item.Category)
}

func TestCategoryVideoDetectionBeatsAI(t *testing.T) {
	item := Assemble("u1",
		UserInput{},
		Extracted{IsVideo: true},
		types.Annotation{Category: "article", Summary: "s"})
	assert.Equal(t, types.CategoryVideo, item.Category)
}

func TestCategoryAINormalized(t *testing.T) {
	item := Assemble("u1", UserInput{}, Extracted{},
		types.Annotation{Category: "recipe", Summary: "s"})
	assert.Equal(t, types.CategoryUnknown, item.Category)
}

func TestCategoryDefaultsToNote(t *testing.T) {
	item := Assemble("u1", UserInput{}, Extracted{}, types.Annotation{Summary: "s"})
	assert.Equal(t, types.CategoryNote, item.Category)
}

func TestTitlePrecedence(t *testing.T) {
	item := Assemble("u1", UserInput{},
		Extracted{Title: "Page Title"},
		types.Annotation{Title: "AI Title", Summary: "s"})
	assert.Equal(t, "Page Title", item.Title)

	item = Assemble("u1", UserInput{}, Extracted{},
		types.Annotation{Title: "AI Title", Summary: "s"})
	assert.Equal(t, "AI Title", item.Title)

	item = Assemble("u1", UserInput{}, Extracted{}, types.Annotation{Summary: "s"})
	assert.Equal(t, "Untitled", item.Title)
}

func TestTagsUnionUserFirst(t *testing.T) {
	item := Assemble("u1",
		UserInput{Tags: []string{"Work", "golang"}},
		Extracted{},
		types.Annotation{Tags: []string{"AI", "golang"}, Summary: "s"})
	assert.Equal(t, []string{"work", "golang", "ai"}, item.Tags)
}

func TestMetadataMergeOrderAndURLOverride(t *testing.T) {
	item := Assemble("u1",
		UserInput{
			URL:      "https://override.example",
			Metadata: types.Metadata{Author: "user author"},
		},
		Extracted{Metadata: types.Metadata{Author: "scraped author", SourceName: "Site"}},
		types.Annotation{
			Metadata: types.AnnotationMetadata{URL: "https://ai.example", Author: "ai author", Price: "42"},
			Summary:  "s",
		})

	assert.Equal(t, "https://override.example", item.Metadata.URL)
	assert.Equal(t, "user author", item.Metadata.Author)
	assert.Equal(t, "Site", item.Metadata.SourceName)
	assert.Equal(t, "42", item.Metadata.Price)
}

func TestPlainTextNote(t *testing.T) {
	item := Assemble("u1",
		UserInput{Content: "Remember to buy milk"},
		Extracted{},
		brain.FallbackAnnotation("Remember to buy milk", "note", brain.Context{}))

	assert.Equal(t, types.CategoryNote, item.Category)
	assert.Equal(t, "Remember to buy milk", item.Content)
	assert.Equal(t, "card", item.VisualStyle)
	assert.NotEmpty(t, item.Summary)
}

func TestUploadContentConcatenation(t *testing.T) {
	item := Assemble("u1",
		UserInput{Caption: "my caption"},
		Extracted{Text: "extracted text", IsUpload: true},
		types.Annotation{Summary: "Real AI summary"})
	assert.Equal(t, "my caption\nextracted text\nReal AI summary", item.Content)
}

func TestUploadContentSkipsFallbackSummary(t *testing.T) {
	item := Assemble("u1",
		UserInput{},
		Extracted{Text: "extracted text", IsUpload: true},
		types.Annotation{Summary: brain.FallbackSummary})
	assert.Equal(t, "extracted text", item.Content)
}

func TestSummaryNeverEmpty(t *testing.T) {
	item := Assemble("u1", UserInput{}, Extracted{}, types.Annotation{})
	assert.Equal(t, brain.FallbackSummary, item.Summary)
}

func TestAssembleSetsIdentityAndTimestamps(t *testing.T) {
	item := Assemble("owner-7", UserInput{}, Extracted{}, types.Annotation{Summary: "s"})
	require.NotEmpty(t, item.ID)
	assert.Equal(t, "owner-7", item.OwnerID)
	assert.False(t, item.CreatedAt.IsZero())
	assert.Equal(t, item.CreatedAt, item.UpdatedAt)
	assert.Equal(t, item.CreatedAt, item.AccessedAt)
	assert.Equal(t, []string{}, item.KeyPoints)
	assert.Equal(t, []string{}, item.ActionableItems)
}
