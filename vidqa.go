// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package vidqa

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/poiesic/vidqa/ai"
	"github.com/poiesic/vidqa/ai/openai"
	"github.com/poiesic/vidqa/chunking"
	"github.com/poiesic/vidqa/qa"
	"github.com/poiesic/vidqa/session"
	"github.com/poiesic/vidqa/storage"
	"github.com/poiesic/vidqa/storage/badger"
	"github.com/poiesic/vidqa/youtube"
)

// App wires the transcript client, AI provider and pipeline builder
// from a Config.
type App struct {
	config   *Config
	provider ai.AIProvider
	fetcher  youtube.Fetcher
	cache    storage.TranscriptRepository
	builder  *qa.Builder
	logger   *slog.Logger
}

// Option configures an App.
type Option func(*appOptions)

type appOptions struct {
	provider   ai.AIProvider
	fetcher    youtube.Fetcher
	httpClient *http.Client
}

// WithProvider replaces the OpenAI-compatible provider.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *appOptions) {
		o.provider = provider
	}
}

// WithFetcher replaces the YouTube transcript client.
func WithFetcher(fetcher youtube.Fetcher) Option {
	return func(o *appOptions) {
		o.fetcher = fetcher
	}
}

// WithHTTPClient sets the HTTP client used for YouTube and the AI services.
func WithHTTPClient(client *http.Client) Option {
	return func(o *appOptions) {
		o.httpClient = client
	}
}

// New creates an App. A nil config means DefaultConfig.
func New(cfg *Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &appOptions{}
	for _, opt := range opts {
		opt(options)
	}
	logger := slog.Default().With("component", "vidqa")

	provider := options.provider
	if provider == nil {
		var providerOpts []openai.ProviderOption
		if options.httpClient != nil {
			providerOpts = append(providerOpts, openai.WithHTTPClient(options.httpClient))
		}
		p, err := openai.NewProvider(cfg.AI, providerOpts...)
		if err != nil {
			return nil, err
		}
		provider = p
	}

	fetcher := options.fetcher
	if fetcher == nil {
		clientOpts := []youtube.Option{youtube.WithRateLimit(cfg.TranscriptRateLimit)}
		if options.httpClient != nil {
			clientOpts = append(clientOpts, youtube.WithHTTPClient(options.httpClient))
		}
		client, err := youtube.NewClient(clientOpts...)
		if err != nil {
			provider.Close()
			return nil, err
		}
		fetcher = client
	}

	var cache storage.TranscriptRepository
	if cfg.CacheDir != "" {
		repo, err := badger.OpenTranscriptCache(cfg.CacheDir)
		if err != nil {
			provider.Close()
			return nil, err
		}
		cache = repo
		fetcher = youtube.NewCachedFetcher(fetcher, cache)
		logger.Debug("transcript cache enabled", "dir", cfg.CacheDir)
	}

	builder, err := qa.NewBuilder(fetcher, provider,
		qa.WithLanguage(cfg.Language),
		qa.WithChunkSize(cfg.ChunkSize),
		qa.WithChunkOverlap(cfg.ChunkOverlap),
		qa.WithTopK(cfg.TopK),
		qa.WithTemperature(cfg.AI.Temperature),
		qa.WithTimestamps(cfg.Timestamps),
	)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		provider.Close()
		return nil, err
	}

	return &App{
		config:   cfg,
		provider: provider,
		fetcher:  fetcher,
		cache:    cache,
		builder:  builder,
		logger:   logger,
	}, nil
}

// Config returns the validated configuration.
func (a *App) Config() *Config {
	return a.config
}

// Fetcher returns the transcript fetcher, cache included.
func (a *App) Fetcher() youtube.Fetcher {
	return a.fetcher
}

// Splitter returns the configured chunker.
func (a *App) Splitter() *chunking.Splitter {
	return a.builder.Splitter()
}

// Setup indexes the video at videoURL.
func (a *App) Setup(ctx context.Context, videoURL string) (*qa.Pipeline, error) {
	return a.builder.Setup(ctx, videoURL)
}

// Ask answers question with pipeline.
func (a *App) Ask(ctx context.Context, pipeline *qa.Pipeline, question string) (string, error) {
	return pipeline.Ask(ctx, question)
}

// NewSessionManager creates a session manager sharing this App's builder.
// The pool size defaults to the configured max_concurrent_setups.
func (a *App) NewSessionManager(opts ...session.Option) (*session.Manager, error) {
	opts = append([]session.Option{
		session.WithPoolSize(a.config.MaxConcurrentSetups),
		session.WithLogger(a.logger),
	}, opts...)
	return session.NewManager(a.builder, opts...)
}

// Close releases the provider and the transcript cache.
func (a *App) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("error closing transcript cache", "err", err)
			return err
		}
	}
	return nil
}
