package corpus

import (
	"fmt"
	"sort"

	"github.com/atlant-labs/prodex/internal/domain"
)

// Store is the read-only product corpus. All items share one vector
// dimensionality, validated at construction. Safe for concurrent reads.
type Store struct {
	items []domain.Item
	dim   int
}

// NewStore builds a corpus store, validating that every item carries a vector
// of the same non-zero dimensionality. An empty corpus is valid (dim 0).
func NewStore(items []domain.Item) (*Store, error) {
	s := &Store{items: items}
	for i := range items {
		d := len(items[i].Vector)
		if d == 0 {
			return nil, fmt.Errorf("corpus item %q has no vector", items[i].ID)
		}
		if s.dim == 0 {
			s.dim = d
			continue
		}
		if d != s.dim {
			return nil, fmt.Errorf("corpus item %q has dimension %d, corpus has %d: %w",
				items[i].ID, d, s.dim, domain.ErrVectorDimMismatch)
		}
	}
	return s, nil
}

// Items returns all items in corpus order. The slice is shared; callers must
// not modify it.
func (s *Store) Items() []domain.Item { return s.items }

// Len returns the number of items.
func (s *Store) Len() int { return len(s.items) }

// Dimensions returns the vector dimensionality, 0 for an empty corpus.
func (s *Store) Dimensions() int { return s.dim }

// Filter describes a metadata pre-filter over the corpus.
// Zero values disable the corresponding condition.
type Filter struct {
	Category string
	MinPrice float64
	MaxPrice float64
}

// Filter returns items matching f, preserving corpus order.
func (s *Store) Filter(f Filter) []domain.Item {
	if f == (Filter{}) {
		return s.items
	}
	out := make([]domain.Item, 0, len(s.items))
	for _, it := range s.items {
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.MinPrice > 0 && it.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && it.Price > f.MaxPrice {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Stats summarizes the corpus for the stats endpoint.
type Stats struct {
	Count      int
	Dimensions int
	Categories []string
	MinPrice   float64
	MaxPrice   float64
}

// Stats computes corpus statistics. Categories are sorted and deduplicated.
func (s *Store) Stats() Stats {
	st := Stats{Count: len(s.items), Dimensions: s.dim}

	catSet := make(map[string]struct{})
	for i, it := range s.items {
		catSet[it.Category] = struct{}{}
		if i == 0 || it.Price < st.MinPrice {
			st.MinPrice = it.Price
		}
		if it.Price > st.MaxPrice {
			st.MaxPrice = it.Price
		}
	}
	for c := range catSet {
		if c != "" {
			st.Categories = append(st.Categories, c)
		}
	}
	sort.Strings(st.Categories)
	return st
}
