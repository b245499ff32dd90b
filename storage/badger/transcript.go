package badger

import (
	"context"
	"errors"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vidqa/core"
	"github.com/poiesic/vidqa/storage"
)

// TranscriptRepository implements storage.TranscriptRepository for BadgerDB.
type TranscriptRepository struct {
	backend     *Backend
	ownsBackend bool
	closeOnce   sync.Once
}

var _ storage.TranscriptRepository = (*TranscriptRepository)(nil)

// NewTranscriptRepository creates a TranscriptRepository on a shared backend.
// The caller keeps ownership of the backend.
func NewTranscriptRepository(backend *Backend) *TranscriptRepository {
	return &TranscriptRepository{backend: backend}
}

// OpenTranscriptCache opens an on-disk transcript cache in dir.
func OpenTranscriptCache(dir string) (storage.TranscriptRepository, error) {
	backend, err := OpenBackend(dir, false)
	if err != nil {
		return nil, err
	}
	return &TranscriptRepository{backend: backend, ownsBackend: true}, nil
}

// NewMemoryTranscriptRepository opens an in-memory transcript cache for testing.
func NewMemoryTranscriptRepository() (storage.TranscriptRepository, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return &TranscriptRepository{backend: backend, ownsBackend: true}, nil
}

// Close closes the backend if this repository opened it.
func (r *TranscriptRepository) Close() error {
	var err error
	r.closeOnce.Do(func() {
		if r.ownsBackend {
			err = r.backend.Close()
		}
	})
	return err
}

// SaveTranscript stores a transcript, replacing any previous copy.
func (r *TranscriptRepository) SaveTranscript(ctx context.Context, transcript *core.Transcript) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTranscriptKey(transcript.VideoID, transcript.Language)
		if err := tx.Set(key, storage.MarshalTranscript(transcript)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetTranscript loads a cached transcript.
func (r *TranscriptRepository) GetTranscript(ctx context.Context, id core.VideoID, language string) (*core.Transcript, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var transcript *core.Transcript
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTranscriptKey(id, language))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			transcript, err = storage.UnmarshalTranscript(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return transcript, nil
}
