package health

import "context"

// KVPinger checks key-value store availability.
type KVPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// CorpusInfo exposes the loaded product corpus size.
type CorpusInfo interface {
	Len() int
}
