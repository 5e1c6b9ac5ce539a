package scraper

import (
	"bytes"
	"strings"

	"github.com/mmcdole/gofeed"
)

// looksLikeFeed detects RSS/Atom responses by content type or by the
// leading markup.
func looksLikeFeed(contentType string, body []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "rss") || strings.Contains(ct, "atom") || strings.Contains(ct, "xml") {
		head := body
		if len(head) > 512 {
			head = head[:512]
		}
		return bytes.Contains(head, []byte("<rss")) || bytes.Contains(head, []byte("<feed"))
	}
	return false
}

// parseFeed extracts a saved feed URL as an article-style result built from
// the feed's own metadata and its most recent entries.
func parseFeed(rawURL string, body []byte) (Result, bool) {
	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return Result{}, false
	}

	var b strings.Builder
	if feed.Description != "" {
		b.WriteString(feed.Description)
		b.WriteString("\n\n")
	}
	for i, entry := range feed.Items {
		if i == 10 {
			break
		}
		b.WriteString(entry.Title)
		if entry.Description != "" {
			b.WriteString(" - ")
			b.WriteString(entry.Description)
		}
		b.WriteString("\n")
	}

	meta := Meta{
		URL:      rawURL,
		Title:    feed.Title,
		SiteName: feed.Title,
		Type:     "article",
	}
	if feed.Image != nil {
		meta.ImageURL = feed.Image.URL
	}
	if feed.PublishedParsed != nil {
		meta.PublishedAt = feed.PublishedParsed
	}
	return Result{Text: truncate(strings.TrimSpace(b.String()), maxContentLength), Metadata: meta}, true
}
