package badger

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vidqa/core"
	"github.com/poiesic/vidqa/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend     *Backend
	ownsBackend bool

	mu     sync.RWMutex
	closed bool
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a ChunkRepository on a shared backend.
// The caller keeps ownership of the backend.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is nil", storage.ErrInvalidQuery)
	}
	return &ChunkRepository{backend: backend}, nil
}

// NewMemoryIndex opens a private in-memory index. Closing the returned
// repository releases the underlying database.
func NewMemoryIndex() (storage.ChunkRepository, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return &ChunkRepository{backend: backend, ownsBackend: true}, nil
}

// Close releases the index. Closing twice is a no-op.
func (r *ChunkRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.ownsBackend {
		return r.backend.Close()
	}
	return nil
}

func (r *ChunkRepository) checkOpen() error {
	if r.closed || r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return nil
}

// AddChunks stores chunks keyed by index. Large indexes are written in
// several commits.
func (r *ChunkRepository) AddChunks(ctx context.Context, chunks ...*core.Chunk) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.checkOpen(); err != nil {
		return err
	}

	return r.backend.WithBatch(func(wb *badger.WriteBatch) error {
		for _, chunk := range chunks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := wb.Set(makeChunkKey(chunk.Index), storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetChunks returns every chunk in index order.
func (r *ChunkRepository) GetChunks(ctx context.Context) ([]*core.Chunk, error) {
	var chunks []*core.Chunk
	err := r.scan(ctx, func(chunk *core.Chunk) {
		chunks = append(chunks, chunk)
	})
	return chunks, err
}

// Count returns the number of stored chunks.
func (r *ChunkRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.checkOpen(); err != nil {
		return 0, err
	}

	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkPrefix)
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

// FindSimilar ranks every chunk by dot product with vector and returns the
// best limit of them. Vectors are expected to be unit length, which makes
// the score a cosine similarity.
func (r *ChunkRepository) FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.SearchResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", storage.ErrInvalidQuery, limit)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", storage.ErrInvalidQuery)
	}

	var results []*core.SearchResult
	err := r.scan(ctx, func(chunk *core.Chunk) {
		if len(chunk.Vector) == 0 {
			return
		}
		results = append(results, &core.SearchResult{
			Chunk: chunk,
			Score: core.DotProduct(vector, chunk.Vector),
		})
	})
	if err != nil {
		return nil, err
	}

	// Scan order is index order, so a stable sort breaks ties by index
	slices.SortStableFunc(results, func(a, b *core.SearchResult) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// scan visits every chunk in index order.
func (r *ChunkRepository) scan(ctx context.Context, visit func(*core.Chunk)) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.checkOpen(); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			visit(chunk)
		}
		return nil
	}, false)
}
