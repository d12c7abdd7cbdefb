// Package search implements the semantic product search pipeline:
// embed the query, score the filtered corpus by cosine similarity, rank,
// and truncate to top-K.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/atlant-labs/prodex/internal/corpus"
	"github.com/atlant-labs/prodex/internal/domain"
)

// Request is a single search query.
type Request struct {
	Query    string
	Category string
	MinPrice float64
	MaxPrice float64
	K        int     // 0 = service default
	MinScore float64 // post-filter on similarity score
}

// Service handles semantic product search over the in-memory corpus.
type Service struct {
	corpus   CorpusReader
	embed    Embedder
	defaultK int
	maxK     int
}

// New creates a search service.
func New(corpus CorpusReader, embed Embedder) *Service {
	return &Service{corpus: corpus, embed: embed, defaultK: 3, maxK: 50}
}

// WithLimits overrides the default and maximum result counts.
func (s *Service) WithLimits(defaultK, maxK int) *Service {
	if defaultK > 0 {
		s.defaultK = defaultK
	}
	if maxK > 0 {
		s.maxK = maxK
	}
	return s
}

// Search executes the search pipeline. An empty query or an empty (possibly
// filtered-out) corpus degrades to an empty result list rather than an error.
// External embedding failures surface to the caller; there is no retry.
func (s *Service) Search(ctx context.Context, req Request) ([]domain.ScoredResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return []domain.ScoredResult{}, nil
	}

	k := req.K
	if k <= 0 {
		k = s.defaultK
	}
	if k > s.maxK {
		k = s.maxK
	}

	items := s.corpus.Filter(corpus.Filter{
		Category: req.Category,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
	})
	if len(items) == 0 {
		return []domain.ScoredResult{}, nil
	}

	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	if dim := s.corpus.Dimensions(); len(embResult.Embedding) != dim {
		return nil, fmt.Errorf("query embedding has dimension %d, corpus has %d: %w",
			len(embResult.Embedding), dim, domain.ErrVectorDimMismatch)
	}

	results, err := Rank(embResult.Embedding, items, k)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}

	if req.MinScore > 0 {
		filtered := results[:0]
		for _, r := range results {
			if r.Score >= req.MinScore {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	return results, nil
}
