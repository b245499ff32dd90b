package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/vidqa/core"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the YouTube origin used for player requests.
	DefaultBaseURL = "https://www.youtube.com"

	// DefaultRateLimit is the default number of requests per second sent to YouTube.
	DefaultRateLimit = 2.0

	playerPath       = "/youtubei/v1/player"
	androidVersion   = "20.10.38"
	androidUserAgent = "com.google.android.youtube/" + androidVersion + " (Linux; U; Android 11) gzip"

	maxPlayerBody   = 4 * 1024 * 1024
	maxTimedTextLen = 8 * 1024 * 1024
)

// Fetcher retrieves the transcript of a video in one language.
// Implementations must be safe for concurrent use.
type Fetcher interface {
	FetchTranscript(ctx context.Context, id core.VideoID, language string) (*core.Transcript, error)
}

// Client fetches transcripts through the ANDROID player API.
// Each request is attempted once; failures are not retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL points the client at a different origin.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		u, err := url.Parse(baseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base URL %q", baseURL)
		}
		c.baseURL = strings.TrimSuffix(baseURL, "/")
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for all requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		if client == nil {
			client = http.DefaultClient
		}
		c.httpClient = client
		return nil
	}
}

// WithRateLimit caps outgoing requests per second. Bursts of one are allowed.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) error {
		if perSecond <= 0 {
			return fmt.Errorf("rate limit must be positive, got %v", perSecond)
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "youtube")
		return nil
	}
}

// NewClient creates a transcript client.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		logger:     slog.Default().With("component", "youtube"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

type playerRequest struct {
	VideoID        string        `json:"videoId"`
	Context        playerContext `json:"context"`
	RacyCheckOk    bool          `json:"racyCheckOk"`
	ContentCheckOk bool          `json:"contentCheckOk"`
}

type playerContext struct {
	Client playerClient `json:"client"`
}

type playerClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type playerResponse struct {
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

type timedText struct {
	XMLName xml.Name
	Lines   []timedLine `xml:"text"`
}

type timedLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

// FetchTranscript downloads the captions of a video in the given language.
//
// Errors wrap core.ErrTranscriptUnavailable when the video has no usable
// captions in that language, and core.ErrTranscriptFetch for every other
// failure (network, HTTP status, unplayable video, malformed response).
func (c *Client) FetchTranscript(ctx context.Context, id core.VideoID, language string) (*core.Transcript, error) {
	if err := core.ValidateVideoID(id); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrTranscriptFetch, err)
	}
	if language == "" {
		language = "en"
	}

	player, err := c.fetchPlayer(ctx, id, language)
	if err != nil {
		c.logger.Error("error fetching player response", "video_id", id, "err", err)
		return nil, err
	}

	track, err := pickTrack(player, language)
	if err != nil {
		c.logger.Info("no usable caption track", "video_id", id, "language", language, "err", err)
		return nil, err
	}

	segments, err := c.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		c.logger.Error("error fetching timed text", "video_id", id, "err", err)
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: caption track for %s is empty", core.ErrTranscriptUnavailable, id)
	}

	c.logger.Debug("fetched transcript", "video_id", id, "language", track.LanguageCode,
		"kind", track.Kind, "segments", len(segments))
	return core.NewTranscript(id, language, segments), nil
}

func (c *Client) fetchPlayer(ctx context.Context, id core.VideoID, language string) (*playerResponse, error) {
	body, err := json.Marshal(playerRequest{
		VideoID: string(id),
		Context: playerContext{
			Client: playerClient{
				ClientName:        "ANDROID",
				ClientVersion:     androidVersion,
				AndroidSdkVersion: 30,
				Hl:                language,
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrTranscriptFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+playerPath+"?prettyPrint=false", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrTranscriptFetch, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", androidUserAgent)
	req.Header.Set("X-Youtube-Client-Name", "3")
	req.Header.Set("X-Youtube-Client-Version", androidVersion)

	data, err := c.do(req, maxPlayerBody)
	if err != nil {
		return nil, err
	}

	var resp playerResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode player response: %w", core.ErrTranscriptFetch, err)
	}

	if resp.PlayabilityStatus != nil && resp.PlayabilityStatus.Status != "" && resp.PlayabilityStatus.Status != "OK" {
		reason := resp.PlayabilityStatus.Reason
		if reason == "" {
			reason = strings.ToLower(resp.PlayabilityStatus.Status)
		}
		return nil, fmt.Errorf("%w: video %s is not playable: %s", core.ErrTranscriptFetch, id, reason)
	}
	return &resp, nil
}

// pickTrack chooses a caption track for language, preferring manual captions
// over auto-generated ones and exact language codes over regional variants.
func pickTrack(resp *playerResponse, language string) (captionTrack, error) {
	if resp.Captions == nil || len(resp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks) == 0 {
		return captionTrack{}, fmt.Errorf("%w: no captions available for this video", core.ErrTranscriptUnavailable)
	}
	tracks := resp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks

	matchers := []func(captionTrack) bool{
		func(t captionTrack) bool { return t.LanguageCode == language && t.Kind != "asr" },
		func(t captionTrack) bool { return t.LanguageCode == language },
		func(t captionTrack) bool { return strings.HasPrefix(t.LanguageCode, language+"-") && t.Kind != "asr" },
		func(t captionTrack) bool { return strings.HasPrefix(t.LanguageCode, language+"-") },
	}
	for _, match := range matchers {
		for _, t := range tracks {
			if t.BaseURL != "" && match(t) {
				return t, nil
			}
		}
	}
	return captionTrack{}, fmt.Errorf("%w: no %q captions available for this video", core.ErrTranscriptUnavailable, language)
}

func (c *Client) fetchTimedText(ctx context.Context, baseURL string) ([]core.Segment, error) {
	trackURL, err := c.timedTextURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrTranscriptFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrTranscriptFetch, err)
	}
	req.Header.Set("User-Agent", androidUserAgent)

	data, err := c.do(req, maxTimedTextLen)
	if err != nil {
		return nil, err
	}
	segments, err := parseTimedText(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrTranscriptFetch, err)
	}
	return segments, nil
}

// timedTextURL resolves a caption track URL against the base URL and drops
// the fmt parameter. Formats such as srv3 use a different schema; the
// legacy format carries start/dur attributes.
func (c *Client) timedTextURL(raw string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse caption track url: %w", err)
	}
	u := base.ResolveReference(ref)
	q := u.Query()
	q.Del("fmt")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// do performs a rate limited request and returns the body of a 200 response.
func (c *Client) do(req *http.Request, limit int64) ([]byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrTranscriptFetch, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrTranscriptFetch, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: too many requests", core.ErrTranscriptFetch)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d from %s", core.ErrTranscriptFetch, resp.StatusCode, req.URL.Path)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", core.ErrTranscriptFetch, err)
	}
	return data, nil
}

var markupRe = regexp.MustCompile(`<[^>]+>`)

var (
	errEmptyTimedText        = errors.New("empty timed text document")
	errUnrecognisedTimedText = errors.New("unrecognised timed text format")
)

// parseTimedText decodes the legacy timed text XML into segments.
// Lines that are empty after cleanup are dropped, so a track with no spoken
// lines yields no segments. Any other document shape is an error.
func parseTimedText(data []byte) ([]core.Segment, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmptyTimedText
	}

	var doc timedText
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse timed text: %w", err)
	}
	if doc.XMLName.Local != "transcript" {
		return nil, fmt.Errorf("%w: root element <%s>", errUnrecognisedTimedText, doc.XMLName.Local)
	}

	segments := make([]core.Segment, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		text := cleanCaption(line.Text)
		if text == "" {
			continue
		}
		start, err := parseSeconds(line.Start)
		if err != nil {
			return nil, fmt.Errorf("parse start %q: %w", line.Start, err)
		}
		dur, err := parseSeconds(line.Dur)
		if err != nil {
			return nil, fmt.Errorf("parse dur %q: %w", line.Dur, err)
		}
		segments = append(segments, core.Segment{Text: text, Start: start, Duration: dur})
	}
	return segments, nil
}

// cleanCaption undoes the second level of HTML escaping YouTube applies,
// strips inline formatting and collapses whitespace.
func cleanCaption(s string) string {
	s = html.UnescapeString(s)
	s = markupRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

func parseSeconds(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(f * float64(time.Second)), nil
}
