package recommend

import (
	"context"

	"github.com/atlant-labs/prodex/internal/domain"
	"github.com/atlant-labs/prodex/internal/usecase/search"
)

// Searcher retrieves the most relevant items for a query.
type Searcher interface {
	Search(ctx context.Context, req search.Request) ([]domain.ScoredResult, error)
}

// Generator produces the assistant reply.
type Generator interface {
	Generate(ctx context.Context, system string, turns []domain.Turn) (domain.GenerationResult, error)
}

// SessionStore persists conversation turns per session. Load returns an empty
// slice for unknown sessions: sessions are created implicitly on first use.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) ([]domain.Turn, error)
	Save(ctx context.Context, sessionID string, turns []domain.Turn) error
	Delete(ctx context.Context, sessionID string) error
}
