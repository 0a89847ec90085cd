package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sushilduseja/divine-vision/core"
	"github.com/sushilduseja/divine-vision/storage"
)

// EmbeddingRepository implements storage.EmbeddingRepository for BadgerDB.
type EmbeddingRepository struct {
	backend *Backend
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// NewEmbeddingRepository creates a new EmbeddingRepository.
func NewEmbeddingRepository(backend *Backend) (*EmbeddingRepository, error) {
	return &EmbeddingRepository{
		backend: backend,
	}, nil
}

// Close releases resources. EmbeddingRepository has no resources to release;
// the backend is closed by its owner.
func (r *EmbeddingRepository) Close() error {
	return nil
}

// PutEmbeddings stores one or more embedding records.
func (r *EmbeddingRepository) PutEmbeddings(ctx context.Context, records ...*core.EmbeddingRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if record.UpdatedAt.IsZero() {
				record.UpdatedAt = time.Now().UTC()
			}
			key := makeEmbeddingKey(record.VerseID)
			if err := tx.Set(key, storage.MarshalEmbeddingRecord(record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEmbedding retrieves the embedding for a single verse.
func (r *EmbeddingRepository) GetEmbedding(ctx context.Context, id core.ID) (*core.EmbeddingRecord, error) {
	var result *core.EmbeddingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readEmbedding(tx, makeEmbeddingKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetEmbeddings retrieves embeddings for multiple verses.
// Missing records are skipped without error.
func (r *EmbeddingRepository) GetEmbeddings(ctx context.Context, ids ...core.ID) (map[core.ID]*core.EmbeddingRecord, error) {
	result := make(map[core.ID]*core.EmbeddingRecord, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := readEmbedding(tx, makeEmbeddingKey(id))
			if err != nil {
				return err
			}
			if record != nil {
				result[id] = record
			}
		}
		return nil
	}, false)
	return result, err
}

// All retrieves every stored embedding record.
func (r *EmbeddingRepository) All(ctx context.Context) ([]*core.EmbeddingRecord, error) {
	var results []*core.EmbeddingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(embeddingPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.EmbeddingRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalEmbeddingRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	return results, err
}

// Count reports the number of stored embeddings.
func (r *EmbeddingRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(embeddingPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readEmbedding reads an embedding record from the transaction.
// Returns nil without error when the key does not exist.
func readEmbedding(tx *badger.Txn, key []byte) (*core.EmbeddingRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.EmbeddingRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalEmbeddingRecord(val)
		return err
	})
	return record, err
}
