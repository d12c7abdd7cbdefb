// Package conversation holds the bounded conversational memory buffer.
package conversation

import "github.com/atlant-labs/prodex/internal/domain"

// DefaultCap is the default history capacity in turns.
const DefaultCap = 10

// History is a bounded FIFO buffer of conversation turns. Appending beyond
// capacity evicts the oldest turn. Not safe for concurrent use; callers own
// synchronization (one logical request touches one session at a time).
type History struct {
	cap   int
	turns []domain.Turn
}

// New creates an empty history. cap <= 0 falls back to DefaultCap.
func New(cap int) *History {
	if cap <= 0 {
		cap = DefaultCap
	}
	return &History{cap: cap, turns: make([]domain.Turn, 0, cap)}
}

// Restore builds a history from previously persisted turns, evicting from the
// head if the stored sequence exceeds cap (e.g. after a cap decrease).
func Restore(cap int, turns []domain.Turn) *History {
	h := New(cap)
	for _, t := range turns {
		h.Append(t)
	}
	return h
}

// Append adds a turn at the tail, evicting the oldest turn when full.
func (h *History) Append(t domain.Turn) {
	if len(h.turns) >= h.cap {
		evict := len(h.turns) - h.cap + 1
		h.turns = append(h.turns[:0], h.turns[evict:]...)
	}
	h.turns = append(h.turns, t)
}

// Turns returns a copy of the buffer in chronological order.
func (h *History) Turns() []domain.Turn {
	out := make([]domain.Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the current number of turns.
func (h *History) Len() int { return len(h.turns) }

// Cap returns the configured capacity.
func (h *History) Cap() int { return h.cap }
