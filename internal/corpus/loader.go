// Package corpus loads the product dataset and serves it as an immutable
// in-memory store.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atlant-labs/prodex/internal/domain"
)

// itemJSON mirrors one entry of the products file.
type itemJSON struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

// Load reads a JSON products file into items. Vectors may be absent;
// call Vectorize before building a Store from items without embeddings.
func Load(path string) ([]domain.Item, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read corpus file %s: %w", path, err)
	}

	var raw []itemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse corpus file %s: %w", path, err)
	}

	items := make([]domain.Item, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, r := range raw {
		if r.ID == "" {
			return nil, fmt.Errorf("corpus item %d: missing id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("corpus item %d: duplicate id %q", i, r.ID)
		}
		seen[r.ID] = struct{}{}

		items = append(items, domain.Item{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Category:    r.Category,
			Price:       r.Price,
			Vector:      r.Embedding,
		})
	}

	return items, nil
}

// Vectorize fills missing item vectors through the document embedder.
// Items that already carry a vector are left untouched.
func Vectorize(ctx context.Context, items []domain.Item, embedder domain.Embedder) error {
	var missing []int
	for i := range items {
		if len(items[i].Vector) == 0 {
			missing = append(missing, i)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	texts := make([]string, len(missing))
	for j, i := range missing {
		texts[j] = embeddingText(items[i])
	}

	var vectors [][]float32
	if be, ok := embedder.(domain.BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return fmt.Errorf("vectorize corpus: %w", err)
		}
		vectors = res.Embeddings
	} else {
		res, err := domain.BatchFallback(ctx, embedder, texts)
		if err != nil {
			return fmt.Errorf("vectorize corpus: %w", err)
		}
		vectors = res.Embeddings
	}

	if len(vectors) != len(missing) {
		return fmt.Errorf("vectorize corpus: got %d vectors for %d items: %w",
			len(vectors), len(missing), domain.ErrEmbeddingProviderError)
	}

	for j, i := range missing {
		items[i].Vector = vectors[j]
	}
	return nil
}

// embeddingText builds the text an item is embedded from: title, category and
// description combined give the model more signal than the description alone.
func embeddingText(it domain.Item) string {
	return it.Title + " " + it.Category + " " + it.Description
}
