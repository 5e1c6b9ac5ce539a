package search

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	webSearchTimeout = 10 * time.Second
	maxWebResults    = 5
	webUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var (
	shoppingKeywords = []string{"buy", "shop", "price", "purchase", "order"}
	newsKeywords     = []string{"news", "latest", "today", "current", "recent", "update"}
	questionStarters = []string{"what", "how", "why", "where", "when"}

	// currencyAmountRe matches amounts like "500 rupees" or "20 dollars".
	currencyAmountRe = regexp.MustCompile(`(?i)\d+\s*(rupees|rs|inr|dollars|\$)`)

	// Marketplace indicators used to post-filter product-mode results.
	productURLIndicators   = []string{"amazon", "flipkart", "shop", "buy", "product"}
	productTitleIndicators = []string{"price", "buy", "shop"}
)

// WebResult is one external search hit returned alongside local results.
type WebResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Favicon string `json:"favicon"`
	Source  string `json:"source"`
}

// ShouldSearchWeb decides whether a query warrants external augmentation:
// always when nothing was found locally, always for shopping or news intent,
// and for questions only when local coverage is thin.
func ShouldSearchWeb(query string, localCount int) bool {
	if localCount == 0 {
		return true
	}
	lower := strings.ToLower(query)
	if containsAnyKeyword(lower, shoppingKeywords) || currencyAmountRe.MatchString(query) {
		return true
	}
	if containsAnyKeyword(lower, newsKeywords) {
		return true
	}
	if isQuestion(lower) {
		return localCount < 3
	}
	return false
}

// ClassifySearchType picks the web-search sub-mode: "products" for
// shopping-intent queries, "general" otherwise.
func ClassifySearchType(query string) string {
	lower := strings.ToLower(query)
	if containsAnyKeyword(lower, shoppingKeywords) || currencyAmountRe.MatchString(query) {
		return "products"
	}
	return "general"
}

func isQuestion(lowerQuery string) bool {
	if strings.Contains(lowerQuery, "?") {
		return true
	}
	for _, starter := range questionStarters {
		if strings.HasPrefix(lowerQuery, starter) {
			return true
		}
	}
	return false
}

func containsAnyKeyword(lowerQuery string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowerQuery, kw) {
			return true
		}
	}
	return false
}

// WebSearcher scrapes DuckDuckGo's HTML endpoint. No API key needed; any
// failure degrades to an empty result list.
type WebSearcher struct {
	client *http.Client
}

// NewWebSearcher builds the external search client.
func NewWebSearcher() *WebSearcher {
	return &WebSearcher{client: &http.Client{Timeout: webSearchTimeout}}
}

// Search runs the query, applying the product sub-mode transformations when
// the query carries shopping intent.
func (w *WebSearcher) Search(ctx context.Context, query string) []WebResult {
	searchType := ClassifySearchType(query)
	effective := query
	if searchType == "products" {
		effective = query + " buy online shop"
	}

	results := w.fetchResults(ctx, effective)
	if searchType == "products" {
		results = filterProductResults(results)
	}
	if len(results) > maxWebResults {
		results = results[:maxWebResults]
	}
	return results
}

func (w *WebSearcher) fetchResults(ctx context.Context, query string) []WebResult {
	searchURL := "https://html.duckduckgo.com/html/?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", webUserAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		log.Printf("search: web search failed: %v", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("search: web search status %d", resp.StatusCode)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil
	}

	var results []WebResult
	doc.Find(".result").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find(".result__a").First()
		title := strings.TrimSpace(link.Text())
		href := resolveRedirect(link.AttrOr("href", ""))
		if title == "" || href == "" {
			return
		}
		results = append(results, WebResult{
			Title:   title,
			URL:     href,
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
			Favicon: faviconURL(href),
			Source:  "web",
		})
	})
	return results
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links to the real
// destination URL.
func resolveRedirect(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if uddg := u.Query().Get("uddg"); uddg != "" {
		return uddg
	}
	return href
}

func faviconURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return "https://www.google.com/s2/favicons?domain=" + u.Host + "&sz=64"
}

// filterProductResults keeps hits whose URL or title carries a marketplace
// indicator.
func filterProductResults(results []WebResult) []WebResult {
	out := make([]WebResult, 0, len(results))
	for _, r := range results {
		lowerURL := strings.ToLower(r.URL)
		lowerTitle := strings.ToLower(r.Title)
		if containsAnyKeyword(lowerURL, productURLIndicators) ||
			containsAnyKeyword(lowerTitle, productTitleIndicators) {
			out = append(out, r)
		}
	}
	return out
}
