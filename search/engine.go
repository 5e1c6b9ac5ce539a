// Package search turns a natural-language query into ranked local results
// plus optional web augmentation: AI parse, structured filter, bounded
// candidate query, cosine rerank when embeddings exist, insights.
package search

import (
	"context"
	"log"
	"sort"

	"synapse/brain"
	"synapse/embeddings"
	"synapse/store"
	"synapse/types"
)

const (
	// candidateLimit caps the store query feeding the rerank stage.
	candidateLimit = 100
	// rerankLimit caps results after cosine reranking.
	rerankLimit = 50
)

// Engine wires the search pipeline together.
type Engine struct {
	store    store.Store
	brain    *brain.Brain
	embedder embeddings.Provider
	web      *WebSearcher
}

// New builds an engine. The embedder may be nil (recency order is kept) and
// the web searcher may be nil (no augmentation).
func New(st store.Store, br *brain.Brain, embedder embeddings.Provider, web *WebSearcher) *Engine {
	return &Engine{store: st, brain: br, embedder: embedder, web: web}
}

// Response is the full search result payload.
type Response struct {
	Parsed      types.ParsedQuery `json:"parsed"`
	Results     []*types.Item     `json:"results"`
	Count       int               `json:"count"`
	AIInsights  types.Insights    `json:"aiInsights"`
	SearchedWeb bool              `json:"searchedWeb"`
	WebResults  []WebResult       `json:"webResults"`
}

// Search runs the pipeline for one owner-scoped query.
func (e *Engine) Search(ctx context.Context, ownerID, query string) (*Response, error) {
	parsed := e.brain.ParseSearchQuery(ctx, query)

	filter := BuildFilter(ownerID, query, parsed)
	filter.IncludeEmbedding = true

	items, err := e.store.Find(ctx, filter, store.Sort{Field: "createdAt", Desc: true}, candidateLimit, 0)
	if err != nil {
		return nil, err
	}

	items = e.rank(ctx, query, parsed, items)

	resp := &Response{
		Parsed:     parsed,
		Results:    items,
		Count:      len(items),
		AIInsights: e.brain.SearchInsights(ctx, query, items, parsed),
		WebResults: []WebResult{},
	}

	if e.web != nil && ShouldSearchWeb(query, len(items)) {
		resp.SearchedWeb = true
		if webResults := e.web.Search(ctx, query); webResults != nil {
			resp.WebResults = webResults
		}
	}
	return resp, nil
}

// rank reorders candidates by cosine similarity against the query embedding
// when semantic keywords and an embedder are available; otherwise recency
// order is preserved. Embeddings are stripped before results leave the
// engine either way.
func (e *Engine) rank(ctx context.Context, query string, parsed types.ParsedQuery, items []*types.Item) []*types.Item {
	if e.embedder == nil || len(parsed.SemanticKeywords) == 0 {
		return stripEmbeddings(items)
	}

	queryVec, err := e.embedder.EmbedQuery(ctx, query)
	if err != nil {
		log.Printf("search: query embedding failed: %v", err)
		return stripEmbeddings(items)
	}

	type scored struct {
		item  *types.Item
		score float64
	}
	ranked := make([]scored, len(items))
	for i, item := range items {
		ranked[i] = scored{item: item, score: Cosine(queryVec, item.Embedding)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	n := len(ranked)
	if n > rerankLimit {
		n = rerankLimit
	}
	out := make([]*types.Item, n)
	for i := 0; i < n; i++ {
		out[i] = ranked[i].item
	}
	return stripEmbeddings(out)
}

func stripEmbeddings(items []*types.Item) []*types.Item {
	for _, item := range items {
		item.Embedding = nil
	}
	return items
}
