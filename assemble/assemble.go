// Package assemble merges extractor output, the AI annotation and
// user-supplied overrides into one canonical item. Assemble is a pure
// function; all I/O happens before it in the pipeline.
package assemble

import (
	"strings"
	"time"

	"synapse/brain"
	"synapse/types"
)

// UserInput carries the fields a caller may supply alongside the source.
type UserInput struct {
	Category string
	Caption  string
	Content  string
	Tags     []string
	// URL overrides the metadata URL when set.
	URL      string
	Metadata types.Metadata
}

// Extracted is the extractor's contribution to assembly.
type Extracted struct {
	Text  string
	Title string
	// IsVideo marks video-hosting sources; it outranks the AI category.
	IsVideo bool
	// IsUpload switches content assembly to the file-upload concatenation.
	IsUpload bool
	Metadata types.Metadata
}

// Assemble builds the item. Precedence per field, highest first:
// category user > video detection > AI > "note"; title extractor > AI >
// "Untitled"; tags user-then-AI union; metadata AI then extractor then user
// then URL override.
func Assemble(ownerID string, user UserInput, ext Extracted, ann types.Annotation) *types.Item {
	now := time.Now().UTC()

	item := &types.Item{
		ID:              types.NewID(),
		OwnerID:         ownerID,
		Category:        pickCategory(user, ext, ann),
		Title:           pickTitle(ext, ann),
		Caption:         strings.TrimSpace(user.Caption),
		Summary:         ann.Summary,
		Content:         pickContent(user, ext, ann),
		KeyPoints:       orEmpty(ann.KeyPoints),
		ActionableItems: orEmpty(ann.ActionableItems),
		RelatedContext:  orEmpty(ann.RelatedContext),
		Metadata:        mergeMetadata(user, ext, ann),
		Tags:            types.MergeTags(user.Tags, ann.Tags),
		VisualStyle:     ann.VisualStyle,
		CreatedAt:       now,
		UpdatedAt:       now,
		AccessedAt:      now,
	}

	if item.Summary == "" {
		item.Summary = brain.FallbackSummary
	}
	if item.VisualStyle == "" {
		item.VisualStyle = types.DefaultVisualStyle
	}
	return item
}

func pickCategory(user UserInput, ext Extracted, ann types.Annotation) types.Category {
	if types.IsValidCategory(user.Category) {
		return types.NormalizeCategory(user.Category)
	}
	if ext.IsVideo {
		return types.CategoryVideo
	}
	if strings.TrimSpace(ann.Category) != "" {
		return types.NormalizeCategory(ann.Category)
	}
	return types.CategoryNote
}

func pickTitle(ext Extracted, ann types.Annotation) string {
	if t := strings.TrimSpace(ext.Title); t != "" {
		return t
	}
	if t := strings.TrimSpace(ann.Title); t != "" {
		return t
	}
	return "Untitled"
}

// pickContent prefers user-provided content, then extracted text. Uploads
// instead concatenate caption, extracted text and any real AI summary so the
// stored body carries every searchable fragment the pipeline produced.
func pickContent(user UserInput, ext Extracted, ann types.Annotation) string {
	if ext.IsUpload {
		parts := []string{}
		if c := strings.TrimSpace(user.Caption); c != "" {
			parts = append(parts, c)
		}
		if t := strings.TrimSpace(ext.Text); t != "" {
			parts = append(parts, t)
		}
		if ann.Summary != "" && !brain.IsFallbackSummary(ann.Summary) {
			parts = append(parts, ann.Summary)
		}
		if len(parts) == 0 {
			return ext.Text
		}
		return strings.Join(parts, "\n")
	}
	if user.Content != "" {
		return user.Content
	}
	return ext.Text
}

// mergeMetadata overlays in order AI, extractor, user; an explicit URL
// override wins over everything.
func mergeMetadata(user UserInput, ext Extracted, ann types.Annotation) types.Metadata {
	m := ann.Metadata.ToMetadata().Merge(ext.Metadata).Merge(user.Metadata)
	if user.URL != "" {
		m.URL = user.URL
	}
	return m
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
