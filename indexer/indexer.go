package indexer

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sushilduseja/divine-vision/ai"
	"github.com/sushilduseja/divine-vision/core"
	"github.com/sushilduseja/divine-vision/storage"
)

// defaultBatchSize is how many verse documents go to the embedder per call.
const defaultBatchSize = 16

// Indexer embeds verse documents in batches over a worker pool and
// persists the resulting vectors. Verses that already carry an embedding
// from the same model are skipped, so re-running after a partial failure
// only fills the gaps.
type Indexer struct {
	embeddings storage.EmbeddingRepository
	embedder   ai.Embedder
	model      string
	pool       *ants.Pool
	batchSize  int
	logger     *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithPoolSize sets the worker pool size for concurrent embedding calls.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(ix *Indexer) error {
		if size < 1 {
			size = 1
		}
		if ix.pool != nil {
			ix.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		ix.pool = pool
		return nil
	}
}

// WithBatchSize sets how many documents are embedded per provider call.
func WithBatchSize(size int) Option {
	return func(ix *Indexer) error {
		if size > 0 {
			ix.batchSize = size
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndexer creates an indexer writing vectors tagged with the given
// model identifier.
func NewIndexer(embeddings storage.EmbeddingRepository, embedder ai.Embedder, model string, opts ...Option) (*Indexer, error) {
	if embeddings == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	ix := &Indexer{
		embeddings: embeddings,
		embedder:   embedder,
		model:      model,
		pool:       pool,
		batchSize:  defaultBatchSize,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(ix); err != nil {
			ix.Release()
			return nil, err
		}
	}

	return ix, nil
}

// Stats summarizes one indexing run.
type Stats struct {
	Indexed int
	Skipped int
	Failed  int
}

// Index embeds and stores vectors for every verse not already indexed
// with the current model. Batch failures are logged and counted, not
// fatal; the first context cancellation aborts the run.
func (ix *Indexer) Index(ctx context.Context, verses []*core.Verse) (Stats, error) {
	var stats Stats
	if len(verses) == 0 {
		return stats, nil
	}

	pending, skipped, err := ix.filterIndexed(ctx, verses)
	if err != nil {
		return stats, err
	}
	stats.Skipped = skipped
	if len(pending) == 0 {
		ix.logger.Info("index up to date", "verses", len(verses))
		return stats, nil
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for start := 0; start < len(pending); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		wg.Add(1)
		submitErr := ix.pool.Submit(func() {
			defer wg.Done()
			indexed, failed := ix.indexBatch(ctx, batch)
			mu.Lock()
			stats.Indexed += indexed
			stats.Failed += failed
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			stats.Failed += len(batch)
			mu.Unlock()
			ix.logger.Error("failed to submit batch", "err", submitErr)
		}
	}
	wg.Wait()

	if ctx.Err() != nil {
		return stats, ctx.Err()
	}

	ix.logger.Info("indexing finished",
		"indexed", stats.Indexed, "skipped", stats.Skipped, "failed", stats.Failed)
	return stats, nil
}

// filterIndexed drops verses that already have a current-model embedding.
func (ix *Indexer) filterIndexed(ctx context.Context, verses []*core.Verse) ([]*core.Verse, int, error) {
	ids := make([]core.ID, len(verses))
	for i, v := range verses {
		ids[i] = v.Id()
	}
	existing, err := ix.embeddings.GetEmbeddings(ctx, ids...)
	if err != nil {
		return nil, 0, err
	}

	pending := make([]*core.Verse, 0, len(verses))
	skipped := 0
	for _, v := range verses {
		if rec, ok := existing[v.Id()]; ok && rec.Model == ix.model {
			skipped++
			continue
		}
		pending = append(pending, v)
	}
	return pending, skipped, nil
}

// indexBatch embeds one batch and stores the records.
// Returns counts of stored and failed verses.
func (ix *Indexer) indexBatch(ctx context.Context, batch []*core.Verse) (int, int) {
	if ctx.Err() != nil {
		return 0, len(batch)
	}

	texts := make([]string, len(batch))
	for i, v := range batch {
		texts[i] = v.Document()
	}

	vectors, err := ix.embedder.EmbedTexts(ctx, texts)
	if err != nil || len(vectors) != len(batch) {
		ix.logger.Error("batch embedding failed", "size", len(batch), "err", err)
		return 0, len(batch)
	}

	now := time.Now().UTC()
	records := make([]*core.EmbeddingRecord, len(batch))
	for i, v := range batch {
		records[i] = &core.EmbeddingRecord{
			VerseID:   v.Id(),
			Model:     ix.model,
			Vector:    vectors[i],
			UpdatedAt: now,
		}
	}

	if err := ix.embeddings.PutEmbeddings(ctx, records...); err != nil {
		ix.logger.Error("batch store failed", "size", len(batch), "err", err)
		return 0, len(batch)
	}
	return len(batch), 0
}

// Release releases the worker pool.
// The indexer should not be used after calling Release.
func (ix *Indexer) Release() {
	if ix.pool != nil {
		ix.pool.Release()
	}
}
