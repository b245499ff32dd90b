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


package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/vidqa"
	"github.com/poiesic/vidqa/ai"
	"github.com/poiesic/vidqa/core"
	"github.com/poiesic/vidqa/server"
	"github.com/poiesic/vidqa/youtube"
	"github.com/urfave/cli/v2"
)

// openApp builds the App for a command. Tests replace it.
var openApp = func(cfg *vidqa.Config) (*vidqa.App, error) {
	return vidqa.New(cfg)
}

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  "vidqa",
		Usage: "Ask questions about YouTube videos using their transcripts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ask",
				Usage:  "Answer questions about a video",
				Action: askCommand,
				Flags: append([]cli.Flag{
					urlFlag(),
					&cli.StringSliceFlag{
						Name:    "question",
						Aliases: []string{"q"},
						Usage:   "Question to answer (repeatable); reads questions from stdin when omitted",
					},
				}, pipelineFlags()...),
			},
			{
				Name:   "transcript",
				Usage:  "Print the transcript of a video",
				Action: transcriptCommand,
				Flags: append([]cli.Flag{
					urlFlag(),
					&cli.BoolFlag{
						Name:  "segments",
						Usage: "Print one timestamped caption per line",
					},
				}, pipelineFlags()...),
			},
			{
				Name:   "chunks",
				Usage:  "Print how a video's transcript is chunked",
				Action: chunksCommand,
				Flags:  append([]cli.Flag{urlFlag()}, pipelineFlags()...),
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serveCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8080",
					},
					&cli.IntFlag{
						Name:  "max-concurrent-setups",
						Usage: "Maximum number of videos indexed at once",
					},
				}, pipelineFlags()...),
			},
		},
	}
}

func urlFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "url",
		Aliases:  []string{"u"},
		Usage:    "YouTube video URL",
		Required: true,
	}
}

// pipelineFlags override the configuration file. Unset flags leave it alone.
func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "language",
			Usage: "Caption language (default \"en\")",
		},
		&cli.IntFlag{
			Name:  "chunk-size",
			Usage: "Maximum chunk length in characters (default 1000)",
		},
		&cli.IntFlag{
			Name:  "chunk-overlap",
			Usage: "Characters shared by neighbouring chunks (default 200)",
		},
		&cli.IntFlag{
			Name:  "top-k",
			Usage: "Chunks given to the model per question (default 2)",
		},
		&cli.Float64Flag{
			Name:  "temperature",
			Usage: "Answer sampling temperature (default 0.2)",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
		&cli.StringFlag{
			Name:  "completion-host",
			Usage: "Chat completion service host URL",
		},
		&cli.StringFlag{
			Name:  "completion-model",
			Usage: "Chat completion model name",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Completion service API key",
			EnvVars: ai.APIKeyEnvVars,
		},
		&cli.StringFlag{
			Name:  "cache-dir",
			Usage: "Directory for the on-disk transcript cache",
		},
		&cli.BoolFlag{
			Name:  "no-timestamps",
			Usage: "Do not ask the model for [HH:MM:SS] citations",
		},
	}
}

// loadConfig layers the config file and command flags over the defaults.
func loadConfig(c *cli.Context) (*vidqa.Config, error) {
	cfg := vidqa.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := vidqa.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("language") {
		cfg.Language = c.String("language")
	}
	if c.IsSet("chunk-size") {
		cfg.ChunkSize = c.Int("chunk-size")
	}
	if c.IsSet("chunk-overlap") {
		cfg.ChunkOverlap = c.Int("chunk-overlap")
	}
	if c.IsSet("top-k") {
		cfg.TopK = c.Int("top-k")
	}
	if c.IsSet("temperature") {
		cfg.AI.Temperature = c.Float64("temperature")
	}
	if c.IsSet("embedding-host") {
		cfg.AI.EmbeddingHost = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		cfg.AI.EmbeddingModel = c.String("embedding-model")
	}
	if c.IsSet("completion-host") {
		cfg.AI.CompletionHost = c.String("completion-host")
	}
	if c.IsSet("completion-model") {
		cfg.AI.CompletionModel = c.String("completion-model")
	}
	if key := c.String("api-key"); key != "" {
		cfg.AI.APIKey = key
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	if c.Bool("no-timestamps") {
		cfg.Timestamps = false
	}
	if c.IsSet("max-concurrent-setups") {
		cfg.MaxConcurrentSetups = c.Int("max-concurrent-setups")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func withApp(c *cli.Context, fn func(app *vidqa.App) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	app, err := openApp(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	defer app.Close()
	return fn(app)
}

func askCommand(c *cli.Context) error {
	return withApp(c, func(app *vidqa.App) error {
		ctx := c.Context
		out := c.App.Writer

		fmt.Fprintln(c.App.ErrWriter, "Processing video transcript...")
		pipeline, err := app.Setup(ctx, c.String("url"))
		if err != nil {
			return fmt.Errorf("error processing video: %w", err)
		}
		defer pipeline.Close()
		fmt.Fprintf(c.App.ErrWriter, "Video %s processed (%d chunks). Ask your questions below.\n",
			pipeline.VideoID().URL(), pipeline.ChunkCount())

		answer := func(question string) {
			reply, err := app.Ask(ctx, pipeline, question)
			if err != nil {
				reply = "Error: " + err.Error()
			}
			fmt.Fprintln(out, reply)
		}

		if questions := c.StringSlice("question"); len(questions) > 0 {
			for _, q := range questions {
				fmt.Fprintf(out, "Q: %s\n", q)
				answer(q)
				fmt.Fprintln(out)
			}
			return nil
		}
		return repl(ctx, c.App.Reader, out, answer)
	})
}

// repl reads one question per line until EOF, "exit" or "quit".
func repl(ctx context.Context, in io.Reader, out io.Writer, answer func(string)) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		answer(line)
	}
}

func fetchTranscript(c *cli.Context, app *vidqa.App) (*core.Transcript, error) {
	id, ok := youtube.ExtractVideoID(c.String("url"))
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidURL, c.String("url"))
	}
	return app.Fetcher().FetchTranscript(c.Context, id, app.Config().Language)
}

func transcriptCommand(c *cli.Context) error {
	return withApp(c, func(app *vidqa.App) error {
		transcript, err := fetchTranscript(c, app)
		if err != nil {
			return err
		}
		out := c.App.Writer
		if !c.Bool("segments") {
			fmt.Fprintln(out, transcript.Text)
			return nil
		}
		for _, seg := range transcript.Segments {
			fmt.Fprintf(out, "[%s] %s\n", core.FormatTimestamp(seg.Start), seg.Text)
		}
		return nil
	})
}

func chunksCommand(c *cli.Context) error {
	return withApp(c, func(app *vidqa.App) error {
		transcript, err := fetchTranscript(c, app)
		if err != nil {
			return err
		}
		out := c.App.Writer
		chunks := app.Splitter().SplitTranscript(transcript)
		for _, chunk := range chunks {
			span := "--:--:-- - --:--:--"
			if chunk.HasTiming {
				span = core.FormatTimestamp(chunk.StartTime) + " - " + core.FormatTimestamp(chunk.EndTime)
			}
			fmt.Fprintf(out, "#%d [%s] %d chars\n", chunk.Index, span, len([]rune(chunk.Text)))
		}
		fmt.Fprintf(out, "%d chunks\n", len(chunks))
		return nil
	})
}

func serveCommand(c *cli.Context) error {
	return withApp(c, func(app *vidqa.App) error {
		manager, err := app.NewSessionManager()
		if err != nil {
			return err
		}
		defer manager.Close()

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.New(manager).Run(ctx, c.String("addr"))
	})
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
