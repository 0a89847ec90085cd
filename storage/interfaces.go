package storage

import (
	"context"

	"github.com/sushilduseja/divine-vision/core"
)

// EmbeddingRepository stores precomputed verse embeddings keyed by verse ID.
// Implementations must be thread-safe and support concurrent access.
type EmbeddingRepository interface {
	// PutEmbeddings stores one or more embedding records, overwriting any
	// existing record for the same verse.
	PutEmbeddings(ctx context.Context, records ...*core.EmbeddingRecord) error

	// GetEmbedding retrieves the embedding for a single verse.
	// Returns ErrNotFound if no embedding is stored. Callers treat a
	// missing record as a degraded signal, never a fatal one.
	GetEmbedding(ctx context.Context, id core.ID) (*core.EmbeddingRecord, error)

	// GetEmbeddings retrieves embeddings for multiple verses.
	// Missing records are skipped; no error is returned for them.
	GetEmbeddings(ctx context.Context, ids ...core.ID) (map[core.ID]*core.EmbeddingRecord, error)

	// All retrieves every stored embedding record.
	All(ctx context.Context) ([]*core.EmbeddingRecord, error)

	// Count reports the number of stored embeddings.
	Count(ctx context.Context) (int, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
