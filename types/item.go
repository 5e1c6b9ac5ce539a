package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category classifies what kind of thing was saved.
type Category string

const (
	CategoryArticle  Category = "article"
	CategoryProduct  Category = "product"
	CategoryTodo     Category = "todo"
	CategoryQuote    Category = "quote"
	CategoryPaper    Category = "paper"
	CategoryBook     Category = "book"
	CategoryNote     Category = "note"
	CategoryIdea     Category = "idea"
	CategoryVideo    Category = "video"
	CategoryImage    Category = "image"
	CategoryResearch Category = "research"
	CategoryCode     Category = "code"
	CategoryDesign   Category = "design"
	CategoryOthers   Category = "others"
	CategoryUnknown  Category = "unknown"
)

var validCategories = map[Category]bool{
	CategoryArticle: true, CategoryProduct: true, CategoryTodo: true,
	CategoryQuote: true, CategoryPaper: true, CategoryBook: true,
	CategoryNote: true, CategoryIdea: true, CategoryVideo: true,
	CategoryImage: true, CategoryResearch: true, CategoryCode: true,
	CategoryDesign: true, CategoryOthers: true, CategoryUnknown: true,
}

// NormalizeCategory coerces arbitrary input to a valid category.
// Anything outside the enum becomes "unknown" rather than being rejected,
// so sloppy model output can never fail an ingestion.
func NormalizeCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if validCategories[c] {
		return c
	}
	return CategoryUnknown
}

// IsValidCategory reports whether s is one of the enumerated categories.
func IsValidCategory(s string) bool {
	return validCategories[Category(strings.ToLower(strings.TrimSpace(s)))]
}

// SourceType records where an item's content came from.
type SourceType string

const (
	SourceWeb         SourceType = "web"
	SourcePDF         SourceType = "pdf"
	SourceImage       SourceType = "image"
	SourceNote        SourceType = "note"
	SourceHandwritten SourceType = "handwritten"
	SourceCapture     SourceType = "capture"
	SourceManual      SourceType = "manual"
)

// DefaultVisualStyle is used when the annotation does not pick a style.
const DefaultVisualStyle = "card"

// Metadata is the free-form sub-record attached to an item. Known fields are
// typed; provider-specific extras go into Extra so unbounded AI output never
// leaks into the typed surface unvalidated.
type Metadata struct {
	URL          string            `json:"url,omitempty"`
	Author       string            `json:"author,omitempty"`
	SourceName   string            `json:"sourceName,omitempty"`
	DateDetected *time.Time        `json:"dateDetected,omitempty"`
	Price        string            `json:"price,omitempty"`
	Currency     string            `json:"currency,omitempty"`
	ImageURL     string            `json:"imageUrl,omitempty"`
	VideoEmbed   string            `json:"videoEmbed,omitempty"`
	SourceType   SourceType        `json:"sourceType,omitempty"`
	FileName     string            `json:"fileName,omitempty"`
	FileSize     int64             `json:"fileSize,omitempty"`
	FilePath     string            `json:"filePath,omitempty"`
	PageCount    int               `json:"pageCount,omitempty"`
	Error        string            `json:"error,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// Merge overlays non-zero fields of other onto m, returning the result.
// Later sources win on collision, matching the assembler's precedence order.
func (m Metadata) Merge(other Metadata) Metadata {
	out := m
	if other.URL != "" {
		out.URL = other.URL
	}
	if other.Author != "" {
		out.Author = other.Author
	}
	if other.SourceName != "" {
		out.SourceName = other.SourceName
	}
	if other.DateDetected != nil {
		out.DateDetected = other.DateDetected
	}
	if other.Price != "" {
		out.Price = other.Price
	}
	if other.Currency != "" {
		out.Currency = other.Currency
	}
	if other.ImageURL != "" {
		out.ImageURL = other.ImageURL
	}
	if other.VideoEmbed != "" {
		out.VideoEmbed = other.VideoEmbed
	}
	if other.SourceType != "" {
		out.SourceType = other.SourceType
	}
	if other.FileName != "" {
		out.FileName = other.FileName
	}
	if other.FileSize != 0 {
		out.FileSize = other.FileSize
	}
	if other.FilePath != "" {
		out.FilePath = other.FilePath
	}
	if other.PageCount != 0 {
		out.PageCount = other.PageCount
	}
	if other.Error != "" {
		out.Error = other.Error
	}
	for k, v := range other.Extra {
		if out.Extra == nil {
			out.Extra = make(map[string]string, len(other.Extra))
		}
		out.Extra[k] = v
	}
	return out
}

// Item is one saved knowledge unit. Every query against the store is scoped
// by OwnerID; the embedding is excluded from default projections.
type Item struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"ownerId"`
	Category        Category   `json:"category"`
	Title           string     `json:"title"`
	Caption         string     `json:"caption,omitempty"`
	Summary         string     `json:"summary"`
	Content         string     `json:"content,omitempty"`
	KeyPoints       []string   `json:"keyPoints"`
	ActionableItems []string   `json:"actionableItems"`
	RelatedContext  []string   `json:"relatedContext"`
	Metadata        Metadata   `json:"metadata"`
	Tags            []string   `json:"tags"`
	VisualStyle     string     `json:"visualStyle"`
	IsPinned        bool       `json:"isPinned"`
	IsFavorite      bool       `json:"isFavorite"`
	IsArchived      bool       `json:"isArchived"`
	Embedding       []float32  `json:"embedding,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	AccessedAt      time.Time  `json:"accessedAt"`
}

// NewID returns a store-assigned opaque item identifier.
func NewID() string {
	return uuid.NewString()
}

// NormalizeTags lowercases, trims and deduplicates tags while preserving
// first-seen order. Empty tags are dropped.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// MergeTags unions user tags with AI tags, user tags first, each set
// normalized, duplicates removed.
func MergeTags(userTags, aiTags []string) []string {
	return NormalizeTags(append(append([]string{}, userTags...), aiTags...))
}
