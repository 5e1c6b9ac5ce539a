package types

import "time"

// Confidence is the model's self-reported certainty about an annotation.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Annotation is the structured object the AI returns in ingest mode.
// Field names mirror the wire contract (snake_case, nullable strings map to
// empty strings on decode).
type Annotation struct {
	Mode            string             `json:"mode"`
	Category        string             `json:"category"`
	Title           string             `json:"title"`
	Summary         string             `json:"summary"`
	KeyPoints       []string           `json:"key_points"`
	Metadata        AnnotationMetadata `json:"metadata"`
	Tags            []string           `json:"tags"`
	VisualStyle     string             `json:"visual_style"`
	ActionableItems []string           `json:"actionable_items"`
	RelatedContext  []string           `json:"related_context"`
	Confidence      Confidence         `json:"confidence"`
	Error           string             `json:"error,omitempty"`
}

// AnnotationMetadata is the metadata sub-object of an ingest annotation.
type AnnotationMetadata struct {
	URL          string `json:"url"`
	Author       string `json:"author"`
	SourceName   string `json:"source_name"`
	DateDetected string `json:"date_detected"`
	Price        string `json:"price"`
	Currency     string `json:"currency"`
	ImageURL     string `json:"image_url"`
	VideoEmbed   string `json:"video_embed"`
	SourceType   string `json:"source_type"`
}

// ToMetadata converts the wire metadata into the item's typed metadata.
// Unparseable detected dates are dropped.
func (a AnnotationMetadata) ToMetadata() Metadata {
	m := Metadata{
		URL:        a.URL,
		Author:     a.Author,
		SourceName: a.SourceName,
		Price:      a.Price,
		Currency:   a.Currency,
		ImageURL:   a.ImageURL,
		VideoEmbed: a.VideoEmbed,
		SourceType: SourceType(a.SourceType),
	}
	if a.DateDetected != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, a.DateDetected); err == nil {
				m.DateDetected = &t
				break
			}
		}
	}
	return m
}

// ParsedQuery is the structured object the AI returns in search-parse mode.
type ParsedQuery struct {
	Mode             string       `json:"mode"`
	QueryIntent      string       `json:"query_intent"`
	Filters          QueryFilters `json:"filters"`
	SemanticKeywords []string     `json:"semantic_keywords"`
	Sort             string       `json:"sort"`
}

// QueryFilters carries the filters extracted from a natural-language query.
type QueryFilters struct {
	Category   string     `json:"category"`
	Topics     []string   `json:"topics"`
	TimeRange  TimeRange  `json:"time_range"`
	PriceRange PriceRange `json:"price_range"`
}

// TimeRange bounds are ISO dates (YYYY-MM-DD); empty means unbounded.
type TimeRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// PriceRange bounds are nullable numbers.
type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Insights describes a search result set for the user.
type Insights struct {
	Interpretation  string   `json:"interpretation"`
	Themes          []string `json:"themes"`
	KeyFindings     string   `json:"keyFindings"`
	Suggestions     []string `json:"suggestions"`
	RelatedSearches []string `json:"relatedSearches"`
}

// Digest is the periodic reflection over items saved in a time window.
type Digest struct {
	Category         string   `json:"category"`
	Title            string   `json:"title"`
	Summary          string   `json:"summary"`
	Themes           []string `json:"themes"`
	Insights         []string `json:"insights"`
	SuggestedActions []string `json:"suggested_actions"`
}
