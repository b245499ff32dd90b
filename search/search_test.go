package search

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/vidqa/ai/mock"
	"github.com/poiesic/vidqa/core"
	"github.com/poiesic/vidqa/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeChunks(texts ...string) []*core.Chunk {
	chunks := make([]*core.Chunk, len(texts))
	offset := 0
	for i, text := range texts {
		chunks[i] = &core.Chunk{
			Id:    core.IDFromContent(text),
			Index: i,
			Text:  text,
			Start: offset,
			End:   offset + len(text),
		}
		offset += len(text) + 1
	}
	return chunks
}

func newIndex(t *testing.T, texts ...string) (*Retriever, *mock.MockEmbedder) {
	t.Helper()
	repo, err := badger.NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	embedder := mock.NewKeywordEmbedder()
	require.NoError(t, BuildIndex(context.Background(), embedder, repo, makeChunks(texts...)))

	r, err := NewRetriever(repo, embedder)
	require.NoError(t, err)
	return r, embedder
}

func TestBuildIndex_StoresNormalizedVectors(t *testing.T) {
	ctx := context.Background()
	repo, err := badger.NewMemoryIndex()
	require.NoError(t, err)
	defer repo.Close()

	chunks := makeChunks("the cat sat on the mat", "the dog ran in the yard")
	embedder := mock.NewKeywordEmbedder()
	require.NoError(t, BuildIndex(ctx, embedder, repo, chunks))

	// one batched call for all chunks
	assert.Equal(t, 1, embedder.CallCount())

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	stored, err := repo.GetChunks(ctx)
	require.NoError(t, err)
	for _, c := range stored {
		assert.InDelta(t, 1.0, core.DotProduct(c.Vector, c.Vector), 1e-5)
	}
	// input chunks are left untouched
	assert.Nil(t, chunks[0].Vector)
}

func TestBuildIndex_Errors(t *testing.T) {
	ctx := context.Background()
	repo, err := badger.NewMemoryIndex()
	require.NoError(t, err)
	defer repo.Close()

	chunks := makeChunks("one", "two")

	t.Run("no chunks", func(t *testing.T) {
		err := BuildIndex(ctx, mock.NewMockEmbedder(), repo, nil)
		assert.ErrorIs(t, err, core.ErrIndexBuild)
		assert.ErrorIs(t, err, ErrNothingToIndex)
	})

	t.Run("missing embedder", func(t *testing.T) {
		err := BuildIndex(ctx, nil, repo, chunks)
		assert.ErrorIs(t, err, core.ErrIndexBuild)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("embedding service down", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		down := errors.New("connection refused")
		embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
			return nil, down
		}
		err := BuildIndex(ctx, embedder, repo, chunks)
		assert.ErrorIs(t, err, core.ErrIndexBuild)
		assert.ErrorIs(t, err, down)
	})

	t.Run("vector count mismatch", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
			return [][]float32{{1, 0}}, nil
		}
		assert.ErrorIs(t, BuildIndex(ctx, embedder, repo, chunks), core.ErrIndexBuild)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
			return [][]float32{{1, 0}, {1, 0, 0}}, nil
		}
		assert.ErrorIs(t, BuildIndex(ctx, embedder, repo, chunks), core.ErrIndexBuild)
	})
}

func TestRetriever_RanksBySimilarity(t *testing.T) {
	r, _ := newIndex(t,
		"The dog ran in the yard.",
		"The cat sat on the mat.",
		"Stock prices fell sharply on Monday.",
	)

	results, err := r.Retrieve(context.Background(), "Where did the cat sit on the mat?", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "The cat sat on the mat.", results[0].Chunk.Text)
}

func TestRetriever_DefaultTopK(t *testing.T) {
	r, _ := newIndex(t, "alpha", "beta", "gamma", "delta")
	assert.Equal(t, DefaultTopK, r.TopK())

	results, err := r.Retrieve(context.Background(), "alpha", 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultTopK)
}

func TestRetriever_KLargerThanIndex(t *testing.T) {
	r, _ := newIndex(t, "alpha", "beta")

	results, err := r.Retrieve(context.Background(), "alpha", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRetriever_Deterministic(t *testing.T) {
	r, _ := newIndex(t,
		"rivers flow to the sea",
		"mountains rise above the clouds",
		"the sea is deep and cold",
	)

	ctx := context.Background()
	first, err := r.Retrieve(ctx, "how deep is the sea", 2)
	require.NoError(t, err)
	for range 5 {
		again, err := r.Retrieve(ctx, "how deep is the sea", 2)
		require.NoError(t, err)
		require.Len(t, again, len(first))
		for i := range first {
			assert.Equal(t, first[i].Chunk.Index, again[i].Chunk.Index)
			assert.Equal(t, first[i].Score, again[i].Score)
		}
	}
}

func TestRetriever_EmbedError(t *testing.T) {
	r, embedder := newIndex(t, "alpha")
	down := errors.New("timeout")
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return nil, down
	}

	_, err := r.Retrieve(context.Background(), "alpha", 1)
	assert.ErrorIs(t, err, down)
}

type recordingMonitor struct {
	query string
	k     int
	dims  int
	hits  int
}

func (m *recordingMonitor) Start(query string, k int)           { m.query, m.k = query, k }
func (m *recordingMonitor) AfterEmbedding(dimensions int)       { m.dims = dimensions }
func (m *recordingMonitor) Finish(results []*core.SearchResult) { m.hits = len(results) }

func TestRetriever_Monitor(t *testing.T) {
	repo, err := badger.NewPopulatedMemoryIndex(
		&core.Chunk{Id: 1, Index: 0, Text: "a", Vector: []float32{1, 0}},
		&core.Chunk{Id: 2, Index: 1, Text: "b", Vector: []float32{0, 1}},
	)
	require.NoError(t, err)
	defer repo.Close()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return []float32{1, 0}, nil
	}

	monitor := &recordingMonitor{}
	r, err := NewRetriever(repo, embedder, WithMonitor(monitor), WithTopK(1))
	require.NoError(t, err)

	results, err := r.Retrieve(context.Background(), "a?", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Chunk.Text)
	assert.Equal(t, "a?", monitor.query)
	assert.Equal(t, 1, monitor.k)
	assert.Equal(t, 2, monitor.dims)
	assert.Equal(t, 1, monitor.hits)
}

func TestRetriever_GetRelevantDocuments(t *testing.T) {
	r, _ := newIndex(t, "The cat sat on the mat.", "The dog ran in the yard.")

	docs, err := r.GetRelevantDocuments(context.Background(), "cat mat")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "The cat sat on the mat.", docs[0].PageContent)
	assert.Equal(t, 0, docs[0].Metadata["index"])
	assert.GreaterOrEqual(t, docs[0].Score, docs[1].Score)
}

func TestNewRetriever_Validation(t *testing.T) {
	_, err := NewRetriever(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)

	repo, err := badger.NewMemoryIndex()
	require.NoError(t, err)
	defer repo.Close()
	_, err = NewRetriever(repo, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}
