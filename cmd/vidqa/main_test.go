package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/vidqa"
	"github.com/poiesic/vidqa/ai/mock"
	"github.com/poiesic/vidqa/core"
	"github.com/poiesic/vidqa/qa"
	"github.com/poiesic/vidqa/youtube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const catURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=30s"

// stubApp swaps openApp for an offline App and records the config it was given.
func stubApp(t *testing.T) **vidqa.Config {
	t.Helper()
	var seen *vidqa.Config
	original := openApp
	openApp = func(cfg *vidqa.Config) (*vidqa.App, error) {
		seen = cfg
		fetcher := youtube.NewStaticFetcher(core.NewTranscript("dQw4w9WgXcQ", "en", []core.Segment{
			{Text: "The cat sat on the mat.", Duration: 2 * time.Second},
			{Text: "The dog ran in the yard.", Start: 2 * time.Second, Duration: 2 * time.Second},
		}))
		provider := mock.NewMockProviderWithServices(mock.NewKeywordEmbedder(), mock.NewExtractiveCompleter(qa.NotFoundAnswer))
		return vidqa.New(cfg, vidqa.WithProvider(provider), vidqa.WithFetcher(fetcher))
	}
	t.Cleanup(func() { openApp = original })
	return &seen
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	app := newCLI()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Reader = strings.NewReader(stdin)
	err := app.Run(append([]string{"vidqa"}, args...))
	return out.String(), err
}

func TestAskCommand_Questions(t *testing.T) {
	stubApp(t)

	out, err := run(t, "", "ask", "--url", catURL,
		"-q", "Where did the cat sit?",
		"-q", "What is the capital of France?")
	require.NoError(t, err)

	assert.Contains(t, out, "Q: Where did the cat sit?\nThe cat sat on the mat.\n")
	assert.Contains(t, out, "Q: What is the capital of France?\nI couldn't find this information in the video\n")
}

func TestAskCommand_REPL(t *testing.T) {
	stubApp(t)

	out, err := run(t, "Where did the cat sit?\n\n  \nquit\nWhat is the capital of France?\n", "ask", "--url", catURL)
	require.NoError(t, err)

	assert.Contains(t, out, "The cat sat on the mat.")
	assert.NotContains(t, out, "couldn't find")
}

func TestAskCommand_REPLStopsAtEOF(t *testing.T) {
	stubApp(t)

	out, err := run(t, "What is the capital of France?", "ask", "--url", catURL)
	require.NoError(t, err)
	assert.Contains(t, out, "I couldn't find this information in the video")
}

func TestAskCommand_Errors(t *testing.T) {
	stubApp(t)

	t.Run("url is required", func(t *testing.T) {
		_, err := run(t, "", "ask")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "url")
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := run(t, "", "ask", "--url", "not a url")
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrInvalidURL)
	})

	t.Run("captions unavailable", func(t *testing.T) {
		_, err := run(t, "", "ask", "--url", "https://youtu.be/aaaaaaaaaaa")
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrTranscriptUnavailable)
	})

	t.Run("invalid chunk settings", func(t *testing.T) {
		_, err := run(t, "", "ask", "--url", catURL, "--chunk-size", "10", "--chunk-overlap", "20")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestTranscriptCommand(t *testing.T) {
	stubApp(t)

	out, err := run(t, "", "transcript", "--url", catURL)
	require.NoError(t, err)
	assert.Equal(t, "The cat sat on the mat. The dog ran in the yard.\n", out)

	out, err = run(t, "", "transcript", "--url", catURL, "--segments")
	require.NoError(t, err)
	assert.Equal(t, "[00:00:00] The cat sat on the mat.\n[00:00:02] The dog ran in the yard.\n", out)
}

func TestChunksCommand(t *testing.T) {
	stubApp(t)

	out, err := run(t, "", "chunks", "--url", catURL)
	require.NoError(t, err)
	assert.Equal(t, "#0 [00:00:00 - 00:00:04] 48 chars\n1 chunks\n", out)

	out, err = run(t, "", "chunks", "--url", catURL, "--chunk-size", "30", "--chunk-overlap", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "2 chunks")
}

func TestConfigLayering(t *testing.T) {
	seen := stubApp(t)
	path := filepath.Join(t.TempDir(), "vidqa.toml")
	require.NoError(t, os.WriteFile(path, []byte("top_k = 5\nchunk_size = 800\n\n[ai]\ncompletion_model = \"from-file\"\n"), 0o644))

	_, err := run(t, "", "--config", path, "transcript", "--url", catURL,
		"--top-k", "3", "--no-timestamps", "--api-key", "secret", "--temperature", "0.7")
	require.NoError(t, err)

	cfg := *seen
	require.NotNil(t, cfg)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, 800, cfg.ChunkSize)
	assert.Equal(t, "from-file", cfg.AI.CompletionModel)
	assert.False(t, cfg.Timestamps)
	assert.Equal(t, "secret", cfg.AI.APIKey)
	assert.InDelta(t, 0.7, cfg.AI.Temperature, 1e-9)
}

func TestAPIKeyFromEnvironment(t *testing.T) {
	seen := stubApp(t)
	t.Setenv("GROQ_API_KEY", "from-env")

	_, err := run(t, "", "transcript", "--url", catURL)
	require.NoError(t, err)
	assert.Equal(t, "from-env", (*seen).AI.APIKey)
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"ERROR", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "log-level", Value: "info"},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error { return nil },
				}

				require.NoError(t, app.Run([]string{"test", "--log-level", tc.input}))
				assert.True(t, slog.Default().Enabled(t.Context(), tc.expected))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		_, err := run(t, "", "--log-level", "loud", "transcript", "--url", catURL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := newCLI()
		app.Commands = nil
		app.Action = func(c *cli.Context) error {
			assert.Equal(t, "warn", c.String("log-level"))
			return nil
		}
		require.NoError(t, app.Run([]string{"vidqa", "-l", "warn"}))
	})
}
