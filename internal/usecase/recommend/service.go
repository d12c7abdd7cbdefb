// Package recommend implements the memory-augmented recommendation chat:
// retrieve the top items for a query, generate a reply with the conversation
// history as context, and append the exchange to the bounded session buffer.
package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/atlant-labs/prodex/internal/domain"
	"github.com/atlant-labs/prodex/internal/domain/conversation"
	"github.com/atlant-labs/prodex/internal/usecase/search"
)

// Response carries the assistant reply together with the retrieval results
// it was grounded on.
type Response struct {
	Reply      string
	Results    []domain.ScoredResult
	HistoryLen int
}

// Service handles recommendation chat sessions.
type Service struct {
	search     Searcher
	gen        Generator
	sessions   SessionStore
	historyCap int
	topK       int
}

// New creates a recommendation service.
func New(searcher Searcher, gen Generator, sessions SessionStore) *Service {
	return &Service{
		search:     searcher,
		gen:        gen,
		sessions:   sessions,
		historyCap: conversation.DefaultCap,
		topK:       3,
	}
}

// WithHistoryCap overrides the conversation buffer capacity.
func (s *Service) WithHistoryCap(cap int) *Service {
	if cap > 0 {
		s.historyCap = cap
	}
	return s
}

// WithTopK overrides the number of items retrieved per turn.
func (s *Service) WithTopK(k int) *Service {
	if k > 0 {
		s.topK = k
	}
	return s
}

// Recommend runs one chat turn: retrieve, generate, remember.
// The history is persisted only after a successful generation, so a failed
// external call leaves the session unchanged.
func (s *Service) Recommend(ctx context.Context, sessionID, query string) (Response, error) {
	sessionID = strings.TrimSpace(sessionID)
	query = strings.TrimSpace(query)
	if sessionID == "" {
		return Response{}, fmt.Errorf("session_id is required: %w", domain.ErrValidation)
	}
	if query == "" {
		return Response{}, fmt.Errorf("query is required: %w", domain.ErrValidation)
	}

	stored, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return Response{}, fmt.Errorf("load session: %w", err)
	}
	history := conversation.Restore(s.historyCap, stored)

	results, err := s.search.Search(ctx, search.Request{Query: query, K: s.topK})
	if err != nil {
		return Response{}, fmt.Errorf("retrieve context: %w", err)
	}

	// Prior turns first, then the new user turn carrying the retrieval context.
	turns := append(history.Turns(), domain.Turn{
		Role:    domain.RoleUser,
		Content: buildUserPrompt(query, buildContext(results)),
	})

	genResult, err := s.gen.Generate(ctx, systemPrompt, turns)
	if err != nil {
		return Response{}, fmt.Errorf("generate reply: %w", err)
	}

	// The stored user turn is the raw query, not the context-inflated prompt:
	// context is rebuilt from fresh retrieval on every turn.
	history.Append(domain.Turn{Role: domain.RoleUser, Content: query})
	history.Append(domain.Turn{Role: domain.RoleAssistant, Content: genResult.Reply})

	if err := s.sessions.Save(ctx, sessionID, history.Turns()); err != nil {
		return Response{}, fmt.Errorf("save session: %w", err)
	}

	return Response{
		Reply:      genResult.Reply,
		Results:    results,
		HistoryLen: history.Len(),
	}, nil
}

// History returns the session buffer in chronological order. Unknown sessions
// yield an empty slice.
func (s *Service) History(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	stored, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return conversation.Restore(s.historyCap, stored).Turns(), nil
}

// Reset clears the session buffer. Resetting an unknown session is a no-op.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
