package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"
)

const videoLookupTimeout = 5 * time.Second

// youtubeIDRe captures the 11-character video identifier from the known URL
// shapes (watch, shorts-style paths, embeds, youtu.be).
var youtubeIDRe = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

// IsVideoURL reports whether the URL points at a known video host.
func IsVideoURL(rawURL string) bool {
	return containsAny(rawURL, "youtube.com", "youtu.be")
}

// ExtractYouTubeID pulls the 11-character video ID out of a YouTube URL.
func ExtractYouTubeID(rawURL string) (string, bool) {
	m := youtubeIDRe.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// EmbedURL derives the stable embeddable player URL for a video ID.
func EmbedURL(videoID string) string {
	return "https://www.youtube.com/embed/" + videoID
}

// ThumbnailURL derives the max-resolution thumbnail URL for a video ID.
func ThumbnailURL(videoID string) string {
	return "https://img.youtube.com/vi/" + videoID + "/maxresdefault.jpg"
}

// scrapeVideo resolves video metadata: Data API when a key is configured,
// oEmbed otherwise, with a regex-derived fallback carrying only the embed
// and thumbnail URLs when both lookups fail.
func (s *Scraper) scrapeVideo(ctx context.Context, rawURL string) Result {
	videoID, ok := ExtractYouTubeID(rawURL)
	if !ok {
		return failedResult(rawURL, fmt.Errorf("unrecognized video URL"))
	}

	base := Meta{
		URL:        rawURL,
		Title:      "YouTube Video",
		SiteName:   "YouTube",
		ImageURL:   ThumbnailURL(videoID),
		VideoEmbed: EmbedURL(videoID),
		Type:       "video",
	}

	lookupCtx, cancel := context.WithTimeout(ctx, videoLookupTimeout)
	defer cancel()

	if s.youtubeAPIKey != "" {
		if meta, ok := s.lookupDataAPI(lookupCtx, videoID, base); ok {
			return Result{Text: meta.Title + " by " + meta.Author, Metadata: meta}
		}
	}

	if meta, ok := s.lookupOEmbed(lookupCtx, rawURL, base); ok {
		return Result{Text: meta.Title + " by " + meta.Author, Metadata: meta}
	}

	// Both lookups failed; the regex-derived URLs are still useful.
	return Result{Text: "YouTube video", Metadata: base}
}

func (s *Scraper) lookupDataAPI(ctx context.Context, videoID string, base Meta) (Meta, bool) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(s.youtubeAPIKey))
	if err != nil {
		log.Printf("scraper: youtube service init failed: %v", err)
		return Meta{}, false
	}
	resp, err := svc.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil || len(resp.Items) == 0 {
		log.Printf("scraper: youtube lookup failed for %s: %v", videoID, err)
		return Meta{}, false
	}

	snippet := resp.Items[0].Snippet
	meta := base
	if snippet.Title != "" {
		meta.Title = snippet.Title
	}
	meta.Author = snippet.ChannelTitle
	if snippet.Thumbnails != nil && snippet.Thumbnails.Maxres != nil {
		meta.ImageURL = snippet.Thumbnails.Maxres.Url
	}
	if snippet.PublishedAt != "" {
		if t, err := time.Parse(time.RFC3339, snippet.PublishedAt); err == nil {
			meta.PublishedAt = &t
		}
	}
	return meta, true
}

func (s *Scraper) lookupOEmbed(ctx context.Context, rawURL string, base Meta) (Meta, bool) {
	oembedURL := "https://www.youtube.com/oembed?url=" + url.QueryEscape(rawURL) + "&format=json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, oembedURL, nil)
	if err != nil {
		return Meta{}, false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("scraper: oembed lookup failed: %v", err)
		return Meta{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Meta{}, false
	}

	var payload struct {
		Title      string `json:"title"`
		AuthorName string `json:"author_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Meta{}, false
	}

	meta := base
	if payload.Title != "" {
		meta.Title = payload.Title
	}
	if payload.AuthorName != "" {
		meta.Author = payload.AuthorName
	} else {
		meta.Author = "Unknown"
	}
	return meta, true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
