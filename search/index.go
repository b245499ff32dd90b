package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/vidqa/ai"
	"github.com/poiesic/vidqa/core"
	"github.com/poiesic/vidqa/storage"
)

// BuildIndex embeds chunks and stores them in repo.
//
// Every failure wraps core.ErrIndexBuild. On failure repo may hold a partial
// index; the caller is expected to discard it.
func BuildIndex(ctx context.Context, embedder ai.Embedder, repo storage.ChunkRepository, chunks []*core.Chunk) error {
	if embedder == nil {
		return fmt.Errorf("%w: %w", core.ErrIndexBuild, ErrEmbedderRequired)
	}
	if repo == nil {
		return fmt.Errorf("%w: %w", core.ErrIndexBuild, ErrChunkRepositoryRequired)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w: %w", core.ErrIndexBuild, ErrNothingToIndex)
	}

	logger := slog.Default().With("component", "index-builder")

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		logger.Error("error embedding chunks", "count", len(chunks), "err", err)
		return fmt.Errorf("%w: embedding chunks: %w", core.ErrIndexBuild, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: embedder returned %d vectors for %d chunks", core.ErrIndexBuild, len(vectors), len(chunks))
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("%w: empty vector for chunk %d", core.ErrIndexBuild, i)
		}
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has dimension %d, expected %d", core.ErrIndexBuild, i, len(v), dim)
		}
	}

	indexed := make([]*core.Chunk, len(chunks))
	for i, chunk := range chunks {
		c := *chunk
		c.Vector = core.NormalizeVector(vectors[i])
		indexed[i] = &c
	}

	if err := repo.AddChunks(ctx, indexed...); err != nil {
		logger.Error("error storing chunks", "count", len(indexed), "err", err)
		return fmt.Errorf("%w: storing chunks: %w", core.ErrIndexBuild, err)
	}

	logger.Debug("built index", "chunks", len(indexed), "dimensions", dim)
	return nil
}
