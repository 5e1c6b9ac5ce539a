package brain

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"synapse/types"
)

// Reflect runs the batch summarization path over items saved in a window.
// On any failure it synthesizes a digest from local aggregation instead.
func (b *Brain) Reflect(ctx context.Context, items []*types.Item, timeframe string) types.Digest {
	if b.chat == nil {
		return FallbackDigest(items, timeframe)
	}

	raw, err := b.chat.Chat(ctx, ChatRequest{
		Message:   buildReflectionMessage(items, timeframe),
		MaxTokens: 1500,
	})
	if err != nil {
		log.Printf("brain: reflection request failed: %v", err)
		return FallbackDigest(items, timeframe)
	}

	var digest types.Digest
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &digest); err != nil {
		log.Printf("brain: unparseable reflection response: %v", err)
		return FallbackDigest(items, timeframe)
	}
	if digest.Category == "" {
		digest.Category = "summary"
	}
	if digest.Themes == nil {
		digest.Themes = []string{}
	}
	if digest.Insights == nil {
		digest.Insights = []string{}
	}
	if digest.SuggestedActions == nil {
		digest.SuggestedActions = []string{}
	}
	return digest
}

// FallbackDigest aggregates locally: distinct categories, first five
// distinct tags, item count, templated prose.
func FallbackDigest(items []*types.Item, timeframe string) types.Digest {
	categories := []string{}
	seenCat := map[types.Category]bool{}
	tags := []string{}
	seenTag := map[string]bool{}
	for _, item := range items {
		if !seenCat[item.Category] {
			seenCat[item.Category] = true
			categories = append(categories, string(item.Category))
		}
		for _, t := range item.Tags {
			if len(tags) == 5 {
				break
			}
			if !seenTag[t] {
				seenTag[t] = true
				tags = append(tags, t)
			}
		}
	}

	topCategories := categories
	if len(topCategories) > 3 {
		topCategories = topCategories[:3]
	}

	return types.Digest{
		Category: "summary",
		Title:    DigestTitle(timeframe),
		Summary: fmt.Sprintf("You saved %d items this %s, focusing on %s. Your interests span %s.",
			len(items), timeframe, strings.Join(categories, ", "), strings.Join(tags, ", ")),
		Themes: tags,
		Insights: []string{
			fmt.Sprintf("You saved %d items this %s", len(items), timeframe),
			fmt.Sprintf("Most common categories: %s", strings.Join(topCategories, ", ")),
		},
		SuggestedActions: []string{
			"Review your saved items",
			"Organize by tags",
			"Take action on saved to-dos",
		},
	}
}

// DigestTitle templates the digest title from a timeframe token, e.g.
// "Weekly Brain Digest".
func DigestTitle(timeframe string) string {
	switch timeframe {
	case "day":
		return "Daily Brain Digest"
	case "week":
		return "Weekly Brain Digest"
	case "month":
		return "Monthly Brain Digest"
	case "year":
		return "Yearly Brain Digest"
	default:
		return capitalizeFirst(timeframe) + " Brain Digest"
	}
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
