package storage

import (
	"context"

	"github.com/poiesic/vidqa/core"
)

// ChunkRepository is the similarity index over one transcript's chunks.
// Implementations must be thread-safe and support concurrent access.
type ChunkRepository interface {
	// AddChunks stores chunks with their vectors.
	// Chunks are keyed by Index; re-adding an index overwrites it.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) error

	// GetChunks returns all stored chunks ordered by Index.
	GetChunks(ctx context.Context) ([]*core.Chunk, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// FindSimilar returns up to limit chunks ranked by dot product with vector,
	// highest first. Ties keep Index order. A limit at or above Count returns
	// every chunk.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.SearchResult, error)

	// Close releases the index. Subsequent calls return ErrStorageClosed.
	Close() error
}

// TranscriptRepository caches fetched transcripts.
// Implementations must be thread-safe and support concurrent access.
type TranscriptRepository interface {
	// SaveTranscript stores a transcript keyed by video ID and language.
	SaveTranscript(ctx context.Context, transcript *core.Transcript) error

	// GetTranscript loads a cached transcript.
	// Returns ErrNotFound if nothing is cached for the key.
	GetTranscript(ctx context.Context, id core.VideoID, language string) (*core.Transcript, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
