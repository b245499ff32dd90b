package vidqa

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/vidqa/ai/mock"
	"github.com/poiesic/vidqa/core"
	"github.com/poiesic/vidqa/qa"
	"github.com/poiesic/vidqa/youtube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=30s"

func catFetcher() *youtube.StaticFetcher {
	return youtube.NewStaticFetcher(core.NewTranscript("dQw4w9WgXcQ", "en", []core.Segment{
		{Text: "The cat sat on the mat.", Duration: 2 * time.Second},
		{Text: "The dog ran in the yard.", Start: 2 * time.Second, Duration: 2 * time.Second},
	}))
}

func newTestApp(t *testing.T, cfg *Config, fetcher youtube.Fetcher) (*App, *mock.MockProvider) {
	t.Helper()
	provider := mock.NewMockProviderWithServices(mock.NewKeywordEmbedder(), mock.NewExtractiveCompleter(qa.NotFoundAnswer))
	app, err := New(cfg, WithProvider(provider), WithFetcher(fetcher))
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app, provider
}

func TestApp_EndToEnd(t *testing.T) {
	app, provider := newTestApp(t, nil, catFetcher())
	ctx := context.Background()

	pipeline, err := app.Setup(ctx, catURL)
	require.NoError(t, err)
	defer pipeline.Close()

	answer, err := app.Ask(ctx, pipeline, "Where did the cat sit?")
	require.NoError(t, err)
	assert.Contains(t, answer, "mat")
	assert.InDelta(t, 0.2, provider.GetMockCompleter().LastTemperature(), 1e-9)

	answer, err = app.Ask(ctx, pipeline, "What is the capital of France?")
	require.NoError(t, err)
	assert.Equal(t, "I couldn't find this information in the video", answer)
}

func TestApp_SetupErrors(t *testing.T) {
	app, _ := newTestApp(t, nil, youtube.NewStaticFetcher())
	ctx := context.Background()

	_, err := app.Setup(ctx, "not a url")
	assert.ErrorIs(t, err, core.ErrInvalidURL)

	_, err = app.Setup(ctx, catURL)
	assert.ErrorIs(t, err, core.ErrTranscriptUnavailable)
}

func TestApp_UsesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSize = 300
	cfg.ChunkOverlap = 30
	app, _ := newTestApp(t, cfg, catFetcher())

	assert.Equal(t, 300, app.Splitter().ChunkSize())
	assert.Equal(t, 30, app.Splitter().ChunkOverlap())
	assert.Same(t, cfg, app.Config())
}

func TestApp_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopK = 0
	_, err := New(cfg, WithProvider(mock.NewMockProvider()), WithFetcher(catFetcher()))
	assert.Error(t, err)
}

func TestApp_TranscriptCache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheDir = filepath.Join(t.TempDir(), "cache")
	fetcher := catFetcher()
	app, _ := newTestApp(t, cfg, fetcher)
	ctx := context.Background()

	for range 2 {
		pipeline, err := app.Setup(ctx, catURL)
		require.NoError(t, err)
		require.NoError(t, pipeline.Close())
	}
	assert.Equal(t, 1, fetcher.Calls())

	_, ok := app.Fetcher().(*youtube.CachedFetcher)
	assert.True(t, ok)
}

func TestApp_SessionManager(t *testing.T) {
	app, _ := newTestApp(t, nil, catFetcher())
	ctx := context.Background()

	manager, err := app.NewSessionManager()
	require.NoError(t, err)
	defer manager.Close()

	s, err := manager.Create()
	require.NoError(t, err)
	_, err = manager.Load(ctx, s.ID(), catURL)
	require.NoError(t, err)

	reply, err := manager.Ask(ctx, s.ID(), "Where did the cat sit?")
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "mat")
}

func TestApp_ClosesProvider(t *testing.T) {
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), mock.NewMockCompleter())
	app, err := New(nil, WithProvider(provider), WithFetcher(catFetcher()))
	require.NoError(t, err)

	require.NoError(t, app.Close())
	assert.True(t, provider.Closed())
}
