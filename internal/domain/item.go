package domain

// KeyPrefix namespaces all keys written to the KV store.
const KeyPrefix = "prodex:"

// Item is a single product in the searchable corpus.
// Items are immutable once loaded; the corpus is read-only at query time.
type Item struct {
	ID          string
	Title       string
	Description string
	Category    string
	Price       float64
	Vector      []float32
}

// ScoredResult is a single ranked search hit. Produced fresh per query.
type ScoredResult struct {
	Item  Item
	Score float64
	Rank  int // 1-based position in the ranked list
}
