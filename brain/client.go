// Package brain is the AI structuring adapter. It sends content to an LLM
// under a fixed JSON schema contract and parses the structured annotation,
// supplying deterministic fallbacks whenever the capability is unavailable,
// times out, or returns something unparseable. No failure inside this
// package ever propagates to a caller.
package brain

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// ChatClient is the minimal content-understanding capability the adapter
// needs. Implementations send one prompt and return raw response text.
type ChatClient interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// ChatRequest carries one completion request. Image bytes ride along for
// vision-capable providers; text-only providers may ignore them.
type ChatRequest struct {
	System    string
	Message   string
	MaxTokens int
	ImageData string // base64
	ImageMIME string
}

const defaultModel = "command-r-plus-08-2024"

// CohereClient implements ChatClient on the Cohere Chat API.
type CohereClient struct {
	client *cohereclient.Client
	model  string
}

// NewCohereClient builds a chat client. The HTTP client forces HTTP/1.1 to
// avoid intermittent HTTP/2 protocol errors against the Cohere endpoint.
func NewCohereClient(apiKey, model string) *CohereClient {
	if model == "" {
		model = defaultModel
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
	return &CohereClient{client: client, model: model}
}

func (c *CohereClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	chatReq := &cohere.ChatRequest{
		Message: req.Message,
		Model:   cohere.String(c.model),
	}
	if req.System != "" {
		chatReq.Preamble = cohere.String(req.System)
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = cohere.Int(req.MaxTokens)
	}
	resp, err := c.client.Chat(ctx, chatReq)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errors.New("chat returned empty response")
	}
	return resp.Text, nil
}
