package search

import (
	"context"
	"errors"
	"testing"

	"github.com/atlant-labs/prodex/internal/corpus"
	"github.com/atlant-labs/prodex/internal/domain"
)

// --- Mocks ---

type mockCorpus struct {
	items      []domain.Item
	dim        int
	lastFilter corpus.Filter
}

func (m *mockCorpus) Filter(f corpus.Filter) []domain.Item {
	m.lastFilter = f
	if f.Category == "" && f.MinPrice == 0 && f.MaxPrice == 0 {
		return m.items
	}
	out := make([]domain.Item, 0, len(m.items))
	for _, it := range m.items {
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (m *mockCorpus) Dimensions() int { return m.dim }

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 5}, nil
}

func twoItemCorpus() *mockCorpus {
	return &mockCorpus{
		dim: 2,
		items: []domain.Item{
			{ID: "p1", Category: "shirts", Vector: []float32{1, 0}},
			{ID: "p2", Category: "pants", Vector: []float32{0, 1}},
		},
	}
}

// --- Tests ---

func TestSearch_ReturnsRankedResults(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{1, 0}}
	svc := New(twoItemCorpus(), embed)

	results, err := svc.Search(context.Background(), Request{Query: "warm shirt", K: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !embed.called {
		t.Error("expected Embed to be called")
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Item.ID != "p1" {
		t.Errorf("top result = %q, want p1", results[0].Item.ID)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{1, 0}}
	svc := New(twoItemCorpus(), embed)

	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := svc.Search(context.Background(), Request{Query: q})
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if len(results) != 0 {
			t.Errorf("Search(%q) = %d results, want 0", q, len(results))
		}
	}
	if embed.called {
		t.Error("Embed should not be called for empty queries")
	}
}

func TestSearch_EmptyCorpus(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{1, 0}}
	svc := New(&mockCorpus{dim: 0}, embed)

	results, err := svc.Search(context.Background(), Request{Query: "anything", K: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results from empty corpus, want 0", len(results))
	}
	if embed.called {
		t.Error("Embed should not be called when nothing can match")
	}
}

func TestSearch_EmbedderFailureSurfaces(t *testing.T) {
	wantErr := errors.New("network down")
	svc := New(twoItemCorpus(), &mockEmbedder{err: wantErr})

	_, err := svc.Search(context.Background(), Request{Query: "query"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected embedder error to surface, got %v", err)
	}
}

func TestSearch_DimensionMismatchFailsLoudly(t *testing.T) {
	svc := New(twoItemCorpus(), &mockEmbedder{vec: []float32{1, 0, 0}})

	_, err := svc.Search(context.Background(), Request{Query: "query"})
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestSearch_DefaultAndMaxK(t *testing.T) {
	items := make([]domain.Item, 10)
	for i := range items {
		items[i] = domain.Item{ID: string(rune('a' + i)), Vector: []float32{1, float32(i)}}
	}
	c := &mockCorpus{items: items, dim: 2}
	embed := &mockEmbedder{vec: []float32{1, 0}}
	svc := New(c, embed).WithLimits(3, 5)

	results, err := svc.Search(context.Background(), Request{Query: "q"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Errorf("default K: got %d results, want 3", len(results))
	}

	results, err = svc.Search(context.Background(), Request{Query: "q", K: 100})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 5 {
		t.Errorf("max K cap: got %d results, want 5", len(results))
	}
}

func TestSearch_CategoryFilterForwarded(t *testing.T) {
	c := twoItemCorpus()
	embed := &mockEmbedder{vec: []float32{1, 0}}
	svc := New(c, embed)

	results, err := svc.Search(context.Background(), Request{Query: "q", Category: "shirts", K: 5})
	if err != nil {
		t.Fatal(err)
	}
	if c.lastFilter.Category != "shirts" {
		t.Errorf("filter category = %q, want shirts", c.lastFilter.Category)
	}
	if len(results) != 1 || results[0].Item.ID != "p1" {
		t.Errorf("results = %+v, want only p1", results)
	}
}

func TestSearch_MinScorePostFilter(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{1, 0}}
	svc := New(twoItemCorpus(), embed)

	results, err := svc.Search(context.Background(), Request{Query: "q", K: 2, MinScore: 0.9})
	if err != nil {
		t.Fatal(err)
	}
	// p2 is orthogonal (score 0) and must be dropped.
	if len(results) != 1 || results[0].Item.ID != "p1" {
		t.Errorf("results = %+v, want only p1 above 0.9", results)
	}
}
