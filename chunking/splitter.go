package chunking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/vidqa/core"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize is the maximum chunk length in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is the maximum number of characters shared by neighbouring chunks.
	DefaultChunkOverlap = 200
)

// DefaultSeparators are tried in order, coarsest first. The empty
// separator cuts between characters and always applies.
var DefaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", " ", ""}

// Span is one chunk of text with its byte offsets in the input.
type Span struct {
	Start int
	End   int
	Text  string
}

// Splitter is a recursive character text splitter.
// A Splitter is immutable after construction and safe for concurrent use.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

var _ textsplitter.TextSplitter = (*Splitter)(nil)

// Option configures a Splitter.
type Option func(*Splitter) error

// WithChunkSize sets the maximum chunk length in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) error {
		if size <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidChunkSize, size)
		}
		s.chunkSize = size
		return nil
	}
}

// WithChunkOverlap sets the maximum overlap between neighbouring chunks in characters.
func WithChunkOverlap(overlap int) Option {
	return func(s *Splitter) error {
		if overlap < 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidChunkOverlap, overlap)
		}
		s.chunkOverlap = overlap
		return nil
	}
}

// WithSeparators replaces the separator hierarchy.
func WithSeparators(separators ...string) Option {
	return func(s *Splitter) error {
		s.separators = append([]string(nil), separators...)
		return nil
	}
}

// NewSplitter creates a Splitter with DefaultChunkSize and DefaultChunkOverlap
// unless overridden.
func NewSplitter(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		separators:   DefaultSeparators,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.chunkOverlap >= s.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d, size %d", ErrInvalidChunkOverlap, s.chunkOverlap, s.chunkSize)
	}
	return s, nil
}

// ChunkSize returns the configured maximum chunk length.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// ChunkOverlap returns the configured maximum overlap.
func (s *Splitter) ChunkOverlap() int { return s.chunkOverlap }

// piece is an indivisible run of text produced by the recursive cut.
type piece struct {
	start, end int
	runes      int
}

// Split cuts text into ordered, overlapping spans.
// Empty text yields no spans; text that fits in one chunk yields exactly one.
func (s *Splitter) Split(text string) []Span {
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= s.chunkSize {
		return []Span{{Start: 0, End: len(text), Text: text}}
	}
	pieces := s.cut(text, 0, len(text), s.separators, nil)
	return s.merge(text, pieces)
}

// SplitText satisfies textsplitter.TextSplitter.
func (s *Splitter) SplitText(text string) ([]string, error) {
	spans := s.Split(text)
	out := make([]string, len(spans))
	for i, sp := range spans {
		out[i] = sp.Text
	}
	return out, nil
}

// SplitTranscript chunks a transcript and stamps each chunk with its
// index, content ID and playback range.
func (s *Splitter) SplitTranscript(t *core.Transcript) []*core.Chunk {
	spans := s.Split(t.Text)
	chunks := make([]*core.Chunk, len(spans))
	for i, sp := range spans {
		c := &core.Chunk{
			Id:    core.IDFromContent(fmt.Sprintf("%s:%d:%s", t.VideoID, i, sp.Text)),
			Index: i,
			Text:  sp.Text,
			Start: sp.Start,
			End:   sp.End,
		}
		c.StartTime, c.EndTime, c.HasTiming = t.TimeRange(sp.Start, sp.End)
		chunks[i] = c
	}
	return chunks
}

// cut appends to out the pieces of text[start:end], each at most chunkSize runes.
func (s *Splitter) cut(text string, start, end int, separators []string, out []piece) []piece {
	segment := text[start:end]

	sep, rest := "", []string(nil)
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(segment, candidate) {
			sep, rest = candidate, separators[i+1:]
			break
		}
	}

	if sep == "" {
		return s.cutRunes(text, start, end, out)
	}

	pos := start
	for pos < end {
		next := end
		if i := strings.Index(text[pos:end], sep); i >= 0 {
			next = pos + i + len(sep)
		}
		n := utf8.RuneCountInString(text[pos:next])
		if n <= s.chunkSize {
			out = append(out, piece{start: pos, end: next, runes: n})
		} else {
			out = s.cut(text, pos, next, rest, out)
		}
		pos = next
	}
	return out
}

// cutRunes emits single characters; merge packs them back together.
func (s *Splitter) cutRunes(text string, start, end int, out []piece) []piece {
	for pos := start; pos < end; {
		_, w := utf8.DecodeRuneInString(text[pos:end])
		out = append(out, piece{start: pos, end: pos + w, runes: 1})
		pos += w
	}
	return out
}

// merge packs pieces into windows of at most chunkSize runes. When a window
// is emitted, pieces are dropped from its front until the remainder fits in
// chunkOverlap and leaves room for the next piece.
func (s *Splitter) merge(text string, pieces []piece) []Span {
	var spans []Span
	window := make([]piece, 0, len(pieces))
	total := 0

	emit := func() {
		first, last := window[0], window[len(window)-1]
		spans = append(spans, Span{Start: first.start, End: last.end, Text: text[first.start:last.end]})
	}

	for _, p := range pieces {
		if len(window) > 0 && total+p.runes > s.chunkSize {
			emit()
			for len(window) > 0 && (total > s.chunkOverlap || total+p.runes > s.chunkSize) {
				total -= window[0].runes
				window = window[1:]
			}
		}
		window = append(window, p)
		total += p.runes
	}
	if len(window) > 0 {
		emit()
	}
	return spans
}
