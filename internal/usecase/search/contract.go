package search

import (
	"context"

	"github.com/atlant-labs/prodex/internal/corpus"
	"github.com/atlant-labs/prodex/internal/domain"
)

// CorpusReader reads the immutable product corpus.
type CorpusReader interface {
	Filter(f corpus.Filter) []domain.Item
	Dimensions() int
}

// Embedder vectorizes query text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
