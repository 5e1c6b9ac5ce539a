package brain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"synapse/types"
)

// systemPrompt defines the JSON contract for both ingest and search-parse
// modes. The model must answer in pure JSON with no markdown or prose.
const systemPrompt = `You are Synapse, an intelligent personal Second Brain integrated into a web application.

Each user has a private brain where they save anything: text, URLs, PDFs, images, handwritten notes, research papers, videos and more. Your role is to understand, structure and retrieve that saved information.

You never chat conversationally. You always respond in pure, valid JSON with double quotes, no markdown and no extra text.

### INGEST MODE (analyze and structure content)
When given content to analyze, return this JSON schema:

{
  "mode": "ingest",
  "category": "article | product | todo | quote | paper | book | note | idea | video | image | research | code | design | others | unknown",
  "title": "string",
  "summary": "2-3 sentence summary of what this content is or means",
  "key_points": ["point1", "point2", "point3"],
  "metadata": {
    "url": "string or null",
    "author": "string or null",
    "source_name": "string or null",
    "date_detected": "ISO date or null",
    "price": "string or null",
    "currency": "string or null",
    "image_url": "string or null",
    "video_embed": "string or null",
    "source_type": "web | pdf | image | note | handwritten | capture"
  },
  "tags": ["topic1", "topic2", "topic3"],
  "visual_style": "card | list | quote | gallery | video | idea-card | paper-card | product-card | todo-list | book-card | code-block | design-card",
  "actionable_items": ["optional next steps"],
  "related_context": ["related themes or saved items"],
  "confidence": "high | medium | low"
}

Rules:
- Identify what kind of thing was saved and label it correctly
- Fill in metadata automatically (price, author, source, etc.)
- Always generate 3-8 relevant tags
- Extract key points and actionable items
- Choose the most appropriate visual style for display

### SEARCH MODE (parse natural language queries)
When given a search query, return this JSON schema:

{
  "mode": "search",
  "query_intent": "retrieve_saved_items",
  "filters": {
    "category": "article | quote | todo | product | all",
    "topics": ["keyword1", "keyword2"],
    "time_range": {"from": "YYYY-MM-DD", "to": "YYYY-MM-DD"},
    "price_range": {"min": number or null, "max": number or null}
  },
  "semantic_keywords": ["keyword1", "keyword2"],
  "sort": "recent | relevance | priority"
}

Rules:
- Detect category and time from the query
- Convert phrases like "yesterday", "last week", "this month" to ISO date ranges
- Extract topics for semantic search
- Identify price constraints if mentioned

Output must always be valid JSON. Use null for missing fields. No markdown, no prose.`

// buildContentMessage assembles the ingest-mode user message.
func buildContentMessage(content, contentType string, actx Context) string {
	var b strings.Builder
	b.WriteString("Analyze and structure this content for storage in a Second Brain:\n\n")
	fmt.Fprintf(&b, "Content Type: %s\n", contentType)

	if actx.URL != "" {
		fmt.Fprintf(&b, "URL: %s\n", actx.URL)
	}
	if actx.SourceHTML != "" {
		fmt.Fprintf(&b, "\nHTML Content:\n%s\n", actx.SourceHTML)
	}

	if contentType == "image" && actx.ImageData != "" {
		fmt.Fprintf(&b, `
An image has been uploaded. Analyze it and provide:
- A detailed summary of what is in the image (objects, people, scene, text, diagrams)
- The main subject or purpose of the image
- Any text visible in the image (OCR text provided: %q)
- Key visual elements or important details
- Relevant tags based on the image content
- A suggested title based on what is shown
`, content)
	} else {
		fmt.Fprintf(&b, "\nContent:\n%s\n", content)
	}

	if contentType == "web" || contentType == "video" {
		fmt.Fprintf(&b, `
For this %s content, provide:
- A comprehensive summary that captures the main topic and key insights
- All available metadata (author, source name, publish date)
- 3-8 highly relevant tags
- 3-5 key takeaways or main points
- Actionable items if applicable
`, contentType)
	}

	b.WriteString("\nProvide structured JSON analysis using INGEST MODE.")
	return b.String()
}

// buildSearchMessage assembles the search-parse user message.
func buildSearchMessage(query string, now time.Time) string {
	return fmt.Sprintf("Parse this search query and extract filters:\n\n%q\n\nToday's date is %s",
		query, now.Format("2006-01-02"))
}

// buildInsightsMessage assembles the search-insights prompt from the result
// set. Only a bounded preview of each item is sent.
func buildInsightsMessage(query string, items []*types.Item, parsed types.ParsedQuery) string {
	type preview struct {
		Title    string         `json:"title"`
		Category types.Category `json:"category"`
		Summary  string         `json:"summary"`
		Tags     []string       `json:"tags"`
	}
	previews := make([]preview, 0, 10)
	for _, item := range items {
		if len(previews) == 10 {
			break
		}
		p := preview{Title: item.Title, Category: item.Category, Summary: item.Summary, Tags: item.Tags}
		if len(p.Summary) > 200 {
			p.Summary = p.Summary[:200]
		}
		if len(p.Tags) > 5 {
			p.Tags = p.Tags[:5]
		}
		previews = append(previews, p)
	}
	previewJSON, _ := json.MarshalIndent(previews, "", "  ")
	parsedJSON, _ := json.MarshalIndent(parsed, "", "  ")

	return fmt.Sprintf(`User searched for: %q

Found %d results in their knowledge base.

Top results:
%s

Parsed query understanding:
%s

Provide:
1. A brief explanation of what the user is looking for
2. Key themes or topics in the results found
3. Suggestions for related searches or topics they might be interested in
4. If no results were found, why, and what they could try instead

Format the response as JSON:
{
  "interpretation": "What the user is searching for",
  "themes": ["theme1", "theme2"],
  "keyFindings": "Brief summary of what was found",
  "suggestions": ["suggestion1", "suggestion2"],
  "relatedSearches": ["related search 1", "related search 2"]
}`, query, len(items), previewJSON, parsedJSON)
}

// buildReflectionMessage assembles the batch summarization prompt.
func buildReflectionMessage(items []*types.Item, timeframe string) string {
	type preview struct {
		Title    string         `json:"title"`
		Category types.Category `json:"category"`
		Tags     []string       `json:"tags"`
		Summary  string         `json:"summary"`
	}
	previews := make([]preview, len(items))
	for i, item := range items {
		previews[i] = preview{Title: item.Title, Category: item.Category, Tags: item.Tags, Summary: item.Summary}
	}
	previewJSON, _ := json.MarshalIndent(previews, "", "  ")

	return fmt.Sprintf(`Analyze these %d items saved in the past %s and provide insights:

%s

Generate a reflection in this JSON format:
{
  "category": "summary",
  "title": "Weekly Brain Digest" (or appropriate timeframe),
  "summary": "3-4 sentence summary of main topics and patterns",
  "themes": ["main topic 1", "main topic 2", "main topic 3"],
  "insights": ["insight 1", "insight 2", "insight 3"],
  "suggested_actions": ["actionable next step 1", "actionable next step 2"]
}

Focus on:
- What topics the user is most interested in
- Patterns in their saving behavior
- Connections between different items
- Actionable next steps based on what they saved`, len(items), timeframe, previewJSON)
}
