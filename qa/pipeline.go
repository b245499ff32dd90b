package qa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/vidqa/ai"
	"github.com/poiesic/vidqa/chunking"
	"github.com/poiesic/vidqa/core"
	"github.com/poiesic/vidqa/search"
	"github.com/poiesic/vidqa/storage"
	"github.com/poiesic/vidqa/storage/badger"
	"github.com/poiesic/vidqa/youtube"
)

// IndexOpener returns a fresh, empty chunk index for one pipeline.
type IndexOpener func() (storage.ChunkRepository, error)

// Builder sets up pipelines. A Builder is safe for concurrent use; every
// Setup gets its own index.
type Builder struct {
	fetcher     youtube.Fetcher
	provider    ai.AIProvider
	language    string
	chunkSize   int
	overlap     int
	topK        int
	temperature float64
	timestamps  bool
	openIndex   IndexOpener
	splitter    *chunking.Splitter
	logger      *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithLanguage sets the caption language requested from YouTube.
// Default is "en".
func WithLanguage(language string) Option {
	return func(b *Builder) error {
		if language == "" {
			return errors.New("language must not be empty")
		}
		b.language = language
		return nil
	}
}

// WithChunkSize sets the maximum chunk length in characters.
// Default is chunking.DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(b *Builder) error {
		b.chunkSize = size
		return nil
	}
}

// WithChunkOverlap sets how many characters consecutive chunks may share.
// Default is chunking.DefaultChunkOverlap.
func WithChunkOverlap(overlap int) Option {
	return func(b *Builder) error {
		b.overlap = overlap
		return nil
	}
}

// WithTopK sets how many chunks are retrieved per question.
// Default is search.DefaultTopK.
func WithTopK(k int) Option {
	return func(b *Builder) error {
		if k < 1 {
			return fmt.Errorf("top k must be at least 1, got %d", k)
		}
		b.topK = k
		return nil
	}
}

// WithTemperature sets the answer sampling temperature.
// Default is DefaultTemperature.
func WithTemperature(temperature float64) Option {
	return func(b *Builder) error {
		if temperature < 0 || temperature > 2 {
			return fmt.Errorf("temperature must be between 0 and 2, got %v", temperature)
		}
		b.temperature = temperature
		return nil
	}
}

// WithTimestamps controls whether answers cite [HH:MM:SS] timestamps.
// Default is true.
func WithTimestamps(enabled bool) Option {
	return func(b *Builder) error {
		b.timestamps = enabled
		return nil
	}
}

// WithIndexOpener sets how each pipeline's index is created.
// Default is an in-memory badger index.
func WithIndexOpener(open IndexOpener) Option {
	return func(b *Builder) error {
		if open == nil {
			open = badger.NewMemoryIndex
		}
		b.openIndex = open
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a pipeline builder.
func NewBuilder(fetcher youtube.Fetcher, provider ai.AIProvider, opts ...Option) (*Builder, error) {
	if fetcher == nil {
		return nil, ErrTranscriptFetcherRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	b := &Builder{
		fetcher:     fetcher,
		provider:    provider,
		language:    "en",
		chunkSize:   chunking.DefaultChunkSize,
		overlap:     chunking.DefaultChunkOverlap,
		topK:        search.DefaultTopK,
		temperature: DefaultTemperature,
		timestamps:  true,
		openIndex:   badger.NewMemoryIndex,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	splitter, err := chunking.NewSplitter(
		chunking.WithChunkSize(b.chunkSize),
		chunking.WithChunkOverlap(b.overlap),
	)
	if err != nil {
		return nil, err
	}
	b.splitter = splitter
	return b, nil
}

// Splitter returns the splitter used by Setup.
func (b *Builder) Splitter() *chunking.Splitter {
	return b.splitter
}

// Setup builds a pipeline for the video at videoURL.
//
// Errors wrap core.ErrInvalidURL, core.ErrTranscriptUnavailable,
// core.ErrTranscriptFetch or core.ErrIndexBuild. No pipeline is returned on
// failure and any partial index is released.
func (b *Builder) Setup(ctx context.Context, videoURL string) (*Pipeline, error) {
	id, ok := youtube.ExtractVideoID(videoURL)
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidURL, videoURL)
	}
	logger := b.logger.With("video_id", string(id))

	transcript, err := b.fetcher.FetchTranscript(ctx, id, b.language)
	if err != nil {
		if !errors.Is(err, core.ErrTranscriptUnavailable) && !errors.Is(err, core.ErrTranscriptFetch) {
			err = fmt.Errorf("%w: %w", core.ErrTranscriptFetch, err)
		}
		return nil, err
	}

	chunks := b.splitter.SplitTranscript(transcript)
	logger.Debug("split transcript", "characters", len(transcript.Text), "chunks", len(chunks))

	index, err := b.openIndex()
	if err != nil {
		logger.Error("error opening index", "err", err)
		return nil, fmt.Errorf("%w: open index: %w", core.ErrIndexBuild, err)
	}

	if err := search.BuildIndex(ctx, b.provider.Embedder(), index, chunks); err != nil {
		index.Close()
		return nil, err
	}

	retriever, err := search.NewRetriever(index, b.provider.Embedder(),
		search.WithTopK(b.topK), search.WithLogger(logger))
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("%w: %w", core.ErrIndexBuild, err)
	}

	generator, err := NewGenerator(b.provider.Completer(), b.temperature, b.timestamps, logger)
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("%w: %w", core.ErrIndexBuild, err)
	}

	logger.Info("video ready", "chunks", len(chunks), "segments", len(transcript.Segments))
	return &Pipeline{
		videoID:    id,
		transcript: transcript,
		chunkCount: len(chunks),
		index:      index,
		retriever:  retriever,
		generator:  generator,
		logger:     logger,
	}, nil
}

// Pipeline answers questions about one indexed video.
// Ask is safe for concurrent use.
type Pipeline struct {
	videoID    core.VideoID
	transcript *core.Transcript
	chunkCount int
	index      storage.ChunkRepository
	retriever  *search.Retriever
	generator  *Generator
	logger     *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// VideoID returns the identifier of the indexed video.
func (p *Pipeline) VideoID() core.VideoID {
	return p.videoID
}

// Transcript returns the fetched transcript.
func (p *Pipeline) Transcript() *core.Transcript {
	return p.transcript
}

// ChunkCount returns the number of indexed chunks.
func (p *Pipeline) ChunkCount() int {
	return p.chunkCount
}

// Retrieve returns the k chunks most similar to question.
// k <= 0 uses the configured top k.
func (p *Pipeline) Retrieve(ctx context.Context, question string, k int) ([]*core.SearchResult, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrPipelineClosed
	}
	return p.retriever.Retrieve(ctx, question, k)
}

// Ask answers question from the video's transcript.
//
// Every failure wraps core.ErrAnswerGeneration. A failed Ask leaves the
// pipeline usable.
func (p *Pipeline) Ask(ctx context.Context, question string) (string, error) {
	if err := core.ValidateQuestion(question); err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrAnswerGeneration, err)
	}

	results, err := p.Retrieve(ctx, question, 0)
	if err != nil {
		p.logger.Error("error retrieving context", "err", err)
		return "", fmt.Errorf("%w: retrieve context: %w", core.ErrAnswerGeneration, err)
	}

	answer, err := p.generator.Generate(ctx, question, results)
	if err != nil {
		return "", err
	}
	p.logger.Debug("answered question", "context_chunks", len(results), "answer_length", len(answer))
	return answer, nil
}

// Close releases the pipeline's index. Closing twice is a no-op.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.index.Close()
}
