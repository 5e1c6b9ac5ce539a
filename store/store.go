// Package store persists items and exposes owner-scoped retrieval,
// filtering and aggregation. Items live as JSON documents in Redis with a
// per-owner index set; filter predicates are evaluated in-process so both
// backends share identical matching semantics.
package store

import (
	"context"
	"errors"
	"time"

	"synapse/types"
)

// ErrNotFound is returned for missing items and for ownership mismatches.
// The two cases are deliberately indistinguishable so existence never leaks
// across owners.
var ErrNotFound = errors.New("item not found")

// Filter is the predicate a store evaluates against items. All fields are
// AND-combined; zero values mean "no constraint". OwnerID is mandatory.
type Filter struct {
	OwnerID  string
	Archived *bool
	Favorite *bool
	Category types.Category
	// TagsAny matches items carrying at least one of these tags.
	TagsAny []string
	// Terms are keyword search terms: every term must match at least one
	// searchable field (title, summary, content, caption, tags, key points,
	// file name), case-insensitive substring.
	Terms []string
	// Topics are OR-combined: tag equality or title/summary contains.
	Topics []string
	// TagPattern / TitlePattern are substring matches used by suggestions.
	TagPattern   string
	TitlePattern string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	// Price bounds compare the numeric value parsed out of the string-typed
	// price field; items with no parseable price never match a bounded filter.
	PriceMin *float64
	PriceMax *float64
	// IncludeEmbedding keeps embedding vectors on returned items. Off by
	// default to keep payloads small.
	IncludeEmbedding bool
}

// Sort orders results by a single field.
type Sort struct {
	Field string // "createdAt", "updatedAt", "accessedAt", "title"
	Desc  bool
}

// ParseSort interprets a mongo-style sort token such as "-createdAt".
func ParseSort(s string) Sort {
	if s == "" {
		return Sort{Field: "createdAt", Desc: true}
	}
	desc := false
	if s[0] == '-' {
		desc = true
		s = s[1:]
	}
	switch s {
	case "createdAt", "updatedAt", "accessedAt", "title":
		return Sort{Field: s, Desc: desc}
	default:
		return Sort{Field: "createdAt", Desc: true}
	}
}

// Patch is a partial update restricted to the user-editable field set.
// Nil fields are left untouched.
type Patch struct {
	Title      *string
	Caption    *string
	Summary    *string
	Content    *string
	Tags       *[]string
	Category   *types.Category
	IsPinned   *bool
	IsFavorite *bool
	IsArchived *bool
	Metadata   *types.Metadata
	Embedding  *[]float32
}

// CategoryCount is one bucket of a category breakdown.
type CategoryCount struct {
	Category types.Category `json:"category"`
	Count    int            `json:"count"`
}

// TagCount is one bucket of a tag frequency breakdown.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Store is the document-store contract the core consumes. Every operation
// scopes by owner; no operation may return another owner's data.
type Store interface {
	Insert(ctx context.Context, item *types.Item) error
	FindOne(ctx context.Context, id, ownerID string) (*types.Item, error)
	Find(ctx context.Context, f Filter, sort Sort, limit, skip int) ([]*types.Item, error)
	Count(ctx context.Context, f Filter) (int, error)
	Update(ctx context.Context, id, ownerID string, p Patch) (*types.Item, error)
	// Touch bumps accessedAt without touching updatedAt.
	Touch(ctx context.Context, id, ownerID string) error
	Delete(ctx context.Context, id, ownerID string) error
	DistinctTags(ctx context.Context, ownerID string, f Filter) ([]string, error)
	CategoryCounts(ctx context.Context, ownerID string, from, to time.Time) ([]CategoryCount, error)
	TagCounts(ctx context.Context, ownerID string, from, to time.Time, limit int) ([]TagCount, error)
	Close() error
}
