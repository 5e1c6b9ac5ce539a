// Package embeddings generates the vectors used for semantic reranking.
// Cohere is preferred when configured, with an OpenAI fallback; when neither
// key is present the provider is nil and search preserves recency order.
package embeddings

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"synapse/types"
)

// Provider abstracts a text->embedding generator. Documents and queries are
// embedded separately because retrieval models distinguish the two roles.
type Provider interface {
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

// NewProvider picks a provider from the available credentials: Cohere first,
// OpenAI second, nil when neither is configured.
func NewProvider(cohereKey, openaiKey string) Provider {
	if cohereKey != "" {
		return NewCohereProvider(cohereKey, "")
	}
	if openaiKey != "" {
		return &OpenAIProvider{apiKey: openaiKey, model: "text-embedding-3-small"}
	}
	return nil
}

// CohereProvider implements Provider over the Cohere Embed API.
// SDK: github.com/cohere-ai/cohere-go/v2
type CohereProvider struct {
	client *cohereclient.Client
	model  string
}

// NewCohereProvider builds a Cohere-backed provider. The HTTP client forces
// HTTP/1.1 to avoid HTTP/2 protocol errors against the Cohere edge.
func NewCohereProvider(apiKey, model string) *CohereProvider {
	if model == "" || !strings.HasPrefix(model, "embed-") {
		model = "embed-english-v3.0"
	}
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereProvider{client: client, model: model}
}

func (c *CohereProvider) ModelName() string { return c.model }

func (c *CohereProvider) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text, cohere.EmbedInputTypeSearchDocument)
}

func (c *CohereProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text, cohere.EmbedInputTypeSearchQuery)
}

func (c *CohereProvider) embed(ctx context.Context, text string, inputType cohere.EmbedInputType) ([]float32, error) {
	resp, err := c.client.V2.Embed(
		ctx,
		&cohere.V2EmbedRequest{
			Texts:          []string{text},
			Model:          c.model,
			InputType:      inputType,
			EmbeddingTypes: []cohere.EmbeddingType{cohere.EmbeddingTypeFloat},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("cohere embed error: %w", err)
	}
	if resp == nil || resp.Embeddings == nil || len(resp.Embeddings.Float) == 0 {
		return nil, errors.New("cohere embed returned no float embeddings")
	}

	vec := resp.Embeddings.Float[0]
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out, nil
}

// OpenAIProvider implements Provider using the OpenAI Embeddings API.
// Endpoint: POST https://api.openai.com/v1/embeddings
// Request: {"input": ["text"], "model": "text-embedding-3-small"}
type OpenAIProvider struct {
	apiKey   string
	model    string
	endpoint string
}

func (o *OpenAIProvider) ModelName() string { return o.model }

func (o *OpenAIProvider) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return o.embed(ctx, text)
}

func (o *OpenAIProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return o.embed(ctx, text)
}

func (o *OpenAIProvider) embed(ctx context.Context, text string) ([]float32, error) {
	endpoint := o.endpoint
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/embeddings"
	}

	payload := map[string]interface{}{
		"input": []string{text},
		"model": o.model,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, fmt.Errorf("openai embeddings error: status %d: %v", resp.StatusCode, body)
	}

	var parsed struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) == 0 {
		return nil, errors.New("openai embeddings returned no data")
	}

	vec := make([]float32, len(parsed.Data[0].Embedding))
	for i, v := range parsed.Data[0].Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

// BuildText composes the embedded representation of an item: title, summary,
// key points, tags and a bounded content prefix.
func BuildText(item *types.Item) string {
	parts := []string{item.Title, item.Summary}
	parts = append(parts, item.KeyPoints...)
	parts = append(parts, strings.Join(item.Tags, " "))
	if item.Content != "" {
		content := item.Content
		if len(content) > 500 {
			content = content[:500]
		}
		parts = append(parts, content)
	}

	nonEmpty := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}
