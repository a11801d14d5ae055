package rag

import (
	"context"

	chaterrors "github.com/neurosphere-lab/lumi/internal/errors"
	"github.com/neurosphere-lab/lumi/plugin/ai"
	"github.com/neurosphere-lab/lumi/store"
)

// DefaultTopK is how many FAQ entries ground a single answer.
const DefaultTopK = 3

// FAQSearcher is the store subset the retriever needs.
type FAQSearcher interface {
	SearchFAQsByVector(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.FAQWithScore, error)
}

// Retriever finds the FAQ entries most similar to a user query.
type Retriever struct {
	embedder ai.EmbeddingService
	searcher FAQSearcher
	topK     int
}

// NewRetriever creates a new retriever.
func NewRetriever(embedder ai.EmbeddingService, searcher FAQSearcher) *Retriever {
	return &Retriever{
		embedder: embedder,
		searcher: searcher,
		topK:     DefaultTopK,
	}
}

// Retrieve embeds the query and returns the closest FAQ entries by cosine
// similarity, best first. An empty corpus yields an empty result.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]*store.FAQWithScore, error) {
	embedding, err := r.embedder.Embedding(ctx, query)
	if err != nil {
		// Structured errors from the provider keep their code.
		if chatErr, ok := chaterrors.AsChatError(err); ok {
			return nil, chatErr
		}
		return nil, chaterrors.LLMUnavailable("failed to embed query", err)
	}
	results, err := r.searcher.SearchFAQsByVector(ctx, &store.VectorSearchOptions{
		Embedding: embedding,
		Limit:     r.topK,
	})
	if err != nil {
		return nil, chaterrors.StoreUnavailable("failed to search faq corpus", err)
	}
	return results, nil
}
