// Package reflection produces periodic digests over a user's saved items and
// the AI-free statistics view.
package reflection

import (
	"context"
	"fmt"
	"time"

	"synapse/brain"
	"synapse/store"
	"synapse/types"
)

// digestItemLimit caps how many items feed one digest request.
const digestItemLimit = 100

// Engine runs reflection over the item store.
type Engine struct {
	store store.Store
	brain *brain.Brain
}

// New builds a reflection engine.
func New(st store.Store, br *brain.Brain) *Engine {
	return &Engine{store: st, brain: br}
}

// DateRange computes the window for a timeframe token ending at now.
// Unknown tokens default to a week. The normalized token is returned so
// templated prose uses the effective timeframe, not the raw input.
func DateRange(timeframe string, now time.Time) (time.Time, time.Time, string) {
	switch timeframe {
	case "day":
		return now.AddDate(0, 0, -1), now, "day"
	case "month":
		return now.AddDate(0, -1, 0), now, "month"
	case "year":
		return now.AddDate(-1, 0, 0), now, "year"
	default:
		return now.AddDate(0, 0, -7), now, "week"
	}
}

// DigestResult wraps the digest with the window it covers.
type DigestResult struct {
	Digest    types.Digest `json:"digest"`
	ItemCount int          `json:"itemCount"`
	Timeframe string       `json:"-"`
	From      time.Time    `json:"from"`
	To        time.Time    `json:"to"`
}

// Digest builds the digest for one owner and timeframe. With nothing saved
// in the window it returns a deterministic empty-state digest; otherwise the
// saved items go through the batch summarization path, which carries its own
// fallback.
func (e *Engine) Digest(ctx context.Context, ownerID, timeframe string) (*DigestResult, error) {
	from, to, tf := DateRange(timeframe, time.Now().UTC())

	archived := false
	filter := store.Filter{
		OwnerID:     ownerID,
		Archived:    &archived,
		CreatedFrom: &from,
		CreatedTo:   &to,
	}
	items, err := e.store.Find(ctx, filter, store.Sort{Field: "createdAt", Desc: true}, digestItemLimit, 0)
	if err != nil {
		return nil, err
	}

	result := &DigestResult{ItemCount: len(items), Timeframe: tf, From: from, To: to}
	if len(items) == 0 {
		result.Digest = EmptyDigest(tf)
		return result, nil
	}
	result.Digest = e.brain.Reflect(ctx, items, tf)
	return result, nil
}

// EmptyDigest is the deterministic digest returned when nothing was saved in
// the window.
func EmptyDigest(timeframe string) types.Digest {
	return types.Digest{
		Category: "summary",
		Title:    brain.DigestTitle(timeframe),
		Summary: fmt.Sprintf(
			"You haven't saved anything in the past %s yet. Start capturing your thoughts and ideas!",
			timeframe),
		Themes:   []string{},
		Insights: []string{},
		SuggestedActions: []string{
			"Start saving articles, notes, or ideas that interest you",
		},
	}
}

// Stats is the aggregate view of an owner's collection.
type Stats struct {
	TotalItems        int                   `json:"totalItems"`
	CategoryBreakdown []store.CategoryCount `json:"categoryBreakdown"`
	TopTags           []store.TagCount      `json:"topTags"`
	RecentItems       []*types.Item         `json:"recentItems"`
}

// Stats aggregates entirely in the store. It involves no AI call and must
// stay available when the AI capability is down.
func (e *Engine) Stats(ctx context.Context, ownerID string) (*Stats, error) {
	total, err := e.store.Count(ctx, store.Filter{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}
	categories, err := e.store.CategoryCounts(ctx, ownerID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	tags, err := e.store.TagCounts(ctx, ownerID, time.Time{}, time.Time{}, 10)
	if err != nil {
		return nil, err
	}
	recent, err := e.store.Find(ctx, store.Filter{OwnerID: ownerID}, store.Sort{Field: "createdAt", Desc: true}, 5, 0)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalItems:        total,
		CategoryBreakdown: categories,
		TopTags:           tags,
		RecentItems:       recent,
	}, nil
}
