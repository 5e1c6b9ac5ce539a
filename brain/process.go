package brain

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"
	"time"

	"synapse/types"
)

// Fallback summary sentences. Enhancement and assembly detect the generic
// wording via the shared "temporarily unavailable" marker.
const (
	FallbackSummary      = "Content saved for later review. AI analysis is temporarily unavailable."
	FallbackImageSummary = "Image uploaded successfully. AI analysis is temporarily unavailable, but the image has been saved and can be viewed above."
	fallbackMarker       = "temporarily unavailable"
)

// Brain wraps the chat capability with the ingest/search/insights/reflection
// prompt contracts and their deterministic fallbacks.
type Brain struct {
	chat ChatClient
	now  func() time.Time
}

// New builds the adapter. A nil chat client is valid and routes every call
// straight to its fallback, so the service degrades rather than failing when
// no API key is configured.
func New(chat ChatClient) *Brain {
	return &Brain{chat: chat, now: time.Now}
}

// Context carries per-request context alongside the extracted content.
type Context struct {
	URL        string
	SourceHTML string
	FileName   string
	SourceType types.SourceType
	ImageURL   string
	ImageData  string // base64, for vision-capable providers
	ImageMIME  string
	PageCount  int
}

// ProcessContent runs ingest mode: structure the extracted content into an
// annotation. Transport failures, timeouts and parse failures all yield the
// deterministic fallback; this method never returns an error.
func (b *Brain) ProcessContent(ctx context.Context, content, contentType string, actx Context) types.Annotation {
	if b.chat == nil {
		return FallbackAnnotation(content, contentType, actx)
	}

	raw, err := b.chat.Chat(ctx, ChatRequest{
		System:    systemPrompt,
		Message:   buildContentMessage(content, contentType, actx),
		MaxTokens: 2000,
		ImageData: actx.ImageData,
		ImageMIME: actx.ImageMIME,
	})
	if err != nil {
		log.Printf("brain: ingest request failed: %v", err)
		ann := FallbackAnnotation(content, contentType, actx)
		ann.Error = err.Error()
		return ann
	}

	var ann types.Annotation
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &ann); err != nil {
		log.Printf("brain: unparseable ingest response: %v", err)
		ann = FallbackAnnotation(content, contentType, actx)
		ann.Error = err.Error()
		return ann
	}
	ann.Mode = "ingest"
	if ann.Confidence == "" {
		ann.Confidence = types.ConfidenceMedium
	}
	return ann
}

// FallbackAnnotation is the deterministic substitute used when the AI
// capability fails. Its exact shape is part of the adapter contract.
func FallbackAnnotation(content, contentType string, actx Context) types.Annotation {
	category := "note"
	switch contentType {
	case "image":
		category = "image"
	case "pdf":
		category = "paper"
	case "video":
		category = "video"
	}

	title := actx.FileName
	if title == "" {
		title = firstN(content, 100)
	}
	if title == "" {
		title = "Untitled Item"
	}

	summary := FallbackSummary
	visualStyle := types.DefaultVisualStyle
	tags := []string{}
	if contentType == "image" {
		summary = FallbackImageSummary
		visualStyle = "gallery"
		tags = []string{"image", "visual"}
	}

	sourceType := string(actx.SourceType)
	if sourceType == "" {
		sourceType = contentType
	}

	return types.Annotation{
		Mode:     "ingest",
		Category: category,
		Title:    title,
		Summary:  summary,
		KeyPoints: []string{},
		Metadata: types.AnnotationMetadata{
			URL:        actx.URL,
			SourceType: sourceType,
			ImageURL:   actx.ImageURL,
		},
		Tags:            tags,
		VisualStyle:     visualStyle,
		ActionableItems: []string{},
		RelatedContext:  []string{},
		Confidence:      types.ConfidenceLow,
	}
}

// IsFallbackSummary reports whether a summary is one of the generic
// fallback sentences.
func IsFallbackSummary(summary string) bool {
	return strings.Contains(summary, fallbackMarker)
}

var ocrStopwords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "have": true,
	"been": true, "were": true, "their": true, "there": true,
}

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// OCRKeywords derives up to max candidate keywords from OCR text:
// lowercase, punctuation stripped, whitespace split, tokens longer than 3
// characters, common stopwords removed.
func OCRKeywords(ocrText string, max int) []string {
	cleaned := nonWordRe.ReplaceAllString(strings.ToLower(ocrText), " ")
	words := strings.Fields(cleaned)
	out := make([]string, 0, max)
	for _, w := range words {
		if len(w) <= 3 || ocrStopwords[w] {
			continue
		}
		out = append(out, w)
		if len(out) == max {
			break
		}
	}
	return out
}

// EnhanceLowConfidence enriches a low-confidence annotation from OCR text so
// the item stays searchable even when the model gave up: merge OCR keywords
// into sparse tag sets, swap the generic fallback summary for one carrying an
// OCR snippet, and synthesize a title when it still equals the raw filename.
// No-op unless confidence is low and the OCR text is non-trivial (>10 chars).
func EnhanceLowConfidence(ann *types.Annotation, ocrText, fileName string) {
	if ann.Confidence != types.ConfidenceLow || len(ocrText) <= 10 {
		return
	}

	keywords := OCRKeywords(ocrText, 10)

	if len(ann.Tags) < 3 {
		add := keywords
		if len(add) > 5 {
			add = add[:5]
		}
		ann.Tags = types.MergeTags(ann.Tags, add)
	}

	if IsFallbackSummary(ann.Summary) {
		snippet := strings.TrimSpace(firstN(ocrText, 200))
		if snippet != "" {
			ellipsis := ""
			if len(ocrText) > 200 {
				ellipsis = "..."
			}
			ann.Summary = "Image with text content. Extracted text: \"" + snippet + ellipsis + "\""
		}
	}

	if ann.Title == fileName && len(keywords) > 0 {
		n := len(keywords)
		if n > 3 {
			n = 3
		}
		ann.Title = "Image: " + strings.Join(keywords[:n], " ")
	}
}

var codeFenceOpenRe = regexp.MustCompile("(?i)^```(?:json)?\\s*")
var codeFenceCloseRe = regexp.MustCompile("\\s*```$")

// stripCodeFence removes a leading/trailing markdown code fence. Models are
// told not to wrap JSON, but some do anyway.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = codeFenceOpenRe.ReplaceAllString(s, "")
	s = codeFenceCloseRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func firstN(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
