// Package scraper turns a raw URL into extracted text plus source metadata.
// It never returns an error to callers: every failure path degrades to an
// empty-text result carrying an explanatory metadata error, so downstream
// stages always receive a well-formed value.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	scrapeTimeout = 10 * time.Second
	// Some sites refuse unidentified clients; present a browser UA.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	// maxContentLength caps extracted text to bound AI payload size.
	maxContentLength = 5000
	// maxBodyBytes caps how much markup we pull down per page.
	maxBodyBytes = 4 << 20
)

// Meta is the metadata the extractor derives from a source.
type Meta struct {
	URL         string     `json:"url"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Author      string     `json:"author,omitempty"`
	SiteName    string     `json:"siteName,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	VideoEmbed  string     `json:"videoEmbed,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	// Type is the structural classification: video, image, product,
	// article or web.
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
}

// Result is the extractor output: text plus metadata, and the raw markup
// when available (a bounded snippet is forwarded to the AI adapter).
type Result struct {
	Text     string
	Metadata Meta
	HTML     string
}

// Scraper fetches and extracts web sources.
type Scraper struct {
	client        *http.Client
	youtubeAPIKey string
}

// New builds a scraper. The YouTube API key is optional; without it the
// video path uses the public oEmbed endpoint.
func New(youtubeAPIKey string) *Scraper {
	return &Scraper{
		client:        &http.Client{Timeout: scrapeTimeout},
		youtubeAPIKey: youtubeAPIKey,
	}
}

// Scrape extracts a URL. Video-hosting URLs route to the video-metadata
// path; feed URLs parse as feeds; everything else is fetched and stripped.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) Result {
	if IsVideoURL(rawURL) {
		return s.scrapeVideo(ctx, rawURL)
	}

	body, contentType, err := s.fetch(ctx, rawURL)
	if err != nil {
		log.Printf("scraper: fetch %s failed: %v", rawURL, err)
		return failedResult(rawURL, err)
	}

	if looksLikeFeed(contentType, body) {
		if res, ok := parseFeed(rawURL, body); ok {
			return res
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Printf("scraper: parse %s failed: %v", rawURL, err)
		return failedResult(rawURL, err)
	}

	// Strip chrome and noise before any text extraction.
	doc.Find("script, style, nav, footer, iframe, ads").Remove()

	pageURL, _ := url.Parse(rawURL)
	meta := extractMeta(doc, rawURL, pageURL)
	text := extractMainContent(doc, body, pageURL)

	html, _ := doc.Html()
	return Result{Text: text, Metadata: meta, HTML: html}
}

func (s *Scraper) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", err
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func failedResult(rawURL string, err error) Result {
	return Result{
		Text: "",
		Metadata: Meta{
			URL:   rawURL,
			Title: rawURL,
			Type:  "web",
			Error: err.Error(),
		},
	}
}

// extractMeta pulls metadata from known tag patterns with a fixed fallback
// order: open-graph, then twitter-card, then standard HTML tags, then a
// first-element heuristic.
func extractMeta(doc *goquery.Document, rawURL string, pageURL *url.URL) Meta {
	meta := Meta{URL: rawURL}

	meta.Title = firstNonEmpty(
		metaContent(doc, `meta[property="og:title"]`),
		metaContent(doc, `meta[name="twitter:title"]`),
		strings.TrimSpace(doc.Find("title").First().Text()),
		strings.TrimSpace(doc.Find("h1").First().Text()),
	)
	meta.Description = firstNonEmpty(
		metaContent(doc, `meta[property="og:description"]`),
		metaContent(doc, `meta[name="description"]`),
		metaContent(doc, `meta[name="twitter:description"]`),
	)
	meta.Author = firstNonEmpty(
		metaContent(doc, `meta[name="author"]`),
		metaContent(doc, `meta[property="article:author"]`),
		strings.TrimSpace(doc.Find(`[rel="author"]`).First().Text()),
		strings.TrimSpace(doc.Find(".author").First().Text()),
	)
	meta.SiteName = metaContent(doc, `meta[property="og:site_name"]`)
	meta.PublishedAt = extractDate(doc)
	meta.ImageURL = extractImage(doc, pageURL)
	meta.Type = detectContentType(doc, rawURL)
	return meta
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

func extractDate(doc *goquery.Document) *time.Time {
	dateStr := firstNonEmpty(
		metaContent(doc, `meta[property="article:published_time"]`),
		metaContent(doc, `meta[name="publish-date"]`),
		strings.TrimSpace(doc.Find("time").First().AttrOr("datetime", "")),
	)
	if dateStr == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return &t
		}
	}
	return nil
}

// extractImage resolves relative image URLs against the page origin.
func extractImage(doc *goquery.Document, pageURL *url.URL) string {
	imageURL := firstNonEmpty(
		metaContent(doc, `meta[property="og:image"]`),
		metaContent(doc, `meta[name="twitter:image"]`),
		strings.TrimSpace(doc.Find("img").First().AttrOr("src", "")),
	)
	if imageURL == "" || strings.HasPrefix(imageURL, "http") || pageURL == nil {
		return imageURL
	}
	ref, err := url.Parse(imageURL)
	if err != nil {
		return ""
	}
	return pageURL.ResolveReference(ref).String()
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// detectContentType classifies the page via simple structural heuristics:
// price markup means product, article markers mean article, image file
// extensions mean image.
func detectContentType(doc *goquery.Document, rawURL string) string {
	if IsVideoURL(rawURL) {
		return "video"
	}
	lower := strings.ToLower(rawURL)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return "image"
		}
	}
	if doc != nil {
		if doc.Find(`meta[property="product:price"]`).Length() > 0 ||
			doc.Find(".price").Length() > 0 ||
			doc.Find(`[itemprop="price"]`).Length() > 0 {
			return "product"
		}
		if doc.Find("article").Length() > 0 ||
			doc.Find(`meta[property="article:published_time"]`).Length() > 0 {
			return "article"
		}
	}
	return "web"
}

// contentSelectors is the fixed ordered list of main-content containers.
var contentSelectors = []string{
	"article",
	"main",
	`[role="main"]`,
	".content",
	".main-content",
	"#content",
	".post-content",
	".entry-content",
}

// extractMainContent tries the selector list first, then readability over
// the raw markup, then the full body text. Output is truncated to the
// bounded length.
func extractMainContent(doc *goquery.Document, raw []byte, pageURL *url.URL) string {
	for _, selector := range contentSelectors {
		sel := doc.Find(selector)
		if sel.Length() > 0 {
			return truncate(strings.TrimSpace(sel.First().Text()), maxContentLength)
		}
	}

	if article, err := readability.FromReader(bytes.NewReader(raw), pageURL); err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return truncate(text, maxContentLength)
		}
	}

	return truncate(strings.TrimSpace(doc.Find("body").Text()), maxContentLength)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
