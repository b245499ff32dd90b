package search

import (
	"context"
	"log/slog"

	"github.com/poiesic/vidqa/ai"
	"github.com/poiesic/vidqa/core"
	"github.com/poiesic/vidqa/storage"
	"github.com/tmc/langchaingo/schema"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 2

// Retriever finds the chunks most similar to a question.
type Retriever struct {
	repo     storage.ChunkRepository
	embedder ai.Embedder
	topK     int
	monitor  RetrievalMonitor
	logger   *slog.Logger
}

var _ schema.Retriever = (*Retriever)(nil)

// Option configures a Retriever.
type Option func(*Retriever) error

// WithTopK sets the default number of chunks returned.
// Values below one fall back to DefaultTopK.
func WithTopK(k int) Option {
	return func(r *Retriever) error {
		if k < 1 {
			k = DefaultTopK
		}
		r.topK = k
		return nil
	}
}

// WithMonitor attaches a RetrievalMonitor.
func WithMonitor(monitor RetrievalMonitor) Option {
	return func(r *Retriever) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		r.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a retriever over repo.
func NewRetriever(repo storage.ChunkRepository, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if repo == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		repo:     repo,
		embedder: embedder,
		topK:     DefaultTopK,
		monitor:  &noopMonitor{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// TopK returns the default number of chunks returned.
func (r *Retriever) TopK() int {
	return r.topK
}

// Retrieve returns up to k chunks ranked by similarity to query, best first.
// k <= 0 uses the configured default. When k is at least the number of
// chunks, every chunk is returned.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]*core.SearchResult, error) {
	if k <= 0 {
		k = r.topK
	}
	r.monitor.Start(query, k)

	embedding, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}
	r.monitor.AfterEmbedding(len(embedding))

	results, err := r.repo.FindSimilar(ctx, core.NormalizeVector(embedding), k)
	if err != nil {
		r.logger.Error("error querying for similar chunks", "err", err)
		return nil, err
	}

	r.monitor.Finish(results)
	r.logger.Debug("retrieved chunks", "k", k, "hits", len(results))
	return results, nil
}

// GetRelevantDocuments satisfies schema.Retriever using the default k.
func (r *Retriever) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	results, err := r.Retrieve(ctx, query, r.topK)
	if err != nil {
		return nil, err
	}
	docs := make([]schema.Document, len(results))
	for i, res := range results {
		docs[i] = ToDocument(res)
	}
	return docs, nil
}

// ToDocument converts a search result to a langchaingo document.
func ToDocument(res *core.SearchResult) schema.Document {
	meta := map[string]any{
		"index": res.Chunk.Index,
		"start": res.Chunk.Start,
		"end":   res.Chunk.End,
	}
	if res.Chunk.HasTiming {
		meta["start_time"] = core.FormatTimestamp(res.Chunk.StartTime)
		meta["end_time"] = core.FormatTimestamp(res.Chunk.EndTime)
	}
	return schema.Document{
		PageContent: res.Chunk.Text,
		Metadata:    meta,
		Score:       res.Score,
	}
}
