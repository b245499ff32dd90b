package youtube

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/vidqa/core"
	"github.com/poiesic/vidqa/storage"
)

// CachedFetcher serves transcripts from a repository and falls back to
// another Fetcher on a miss. Fetched transcripts are written back.
type CachedFetcher struct {
	fetcher Fetcher
	repo    storage.TranscriptRepository
	logger  *slog.Logger
}

var _ Fetcher = (*CachedFetcher)(nil)

// NewCachedFetcher wraps fetcher with repo.
func NewCachedFetcher(fetcher Fetcher, repo storage.TranscriptRepository) *CachedFetcher {
	return &CachedFetcher{
		fetcher: fetcher,
		repo:    repo,
		logger:  slog.Default().With("component", "transcript-cache"),
	}
}

// FetchTranscript returns the cached transcript when present.
// Cache read and write failures are logged and otherwise ignored.
func (f *CachedFetcher) FetchTranscript(ctx context.Context, id core.VideoID, language string) (*core.Transcript, error) {
	if language == "" {
		language = "en"
	}

	cached, err := f.repo.GetTranscript(ctx, id, language)
	switch {
	case err == nil:
		f.logger.Debug("transcript cache hit", "video_id", id, "language", language)
		return cached, nil
	case !errors.Is(err, storage.ErrNotFound):
		f.logger.Warn("error reading transcript cache", "video_id", id, "err", err)
	}

	transcript, err := f.fetcher.FetchTranscript(ctx, id, language)
	if err != nil {
		return nil, err
	}
	if err := f.repo.SaveTranscript(ctx, transcript); err != nil {
		f.logger.Warn("error writing transcript cache", "video_id", id, "err", err)
	}
	return transcript, nil
}
