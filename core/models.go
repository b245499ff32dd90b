package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"sort"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier for domain entities.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// VideoID is the 11 character identifier of a YouTube video.
type VideoID string

// String returns the raw identifier.
func (v VideoID) String() string {
	return string(v)
}

// URL returns the canonical short link for the video.
func (v VideoID) URL() string {
	return "https://youtu.be/" + string(v)
}

// Segment is one timed caption line as returned by the transcript service.
type Segment struct {
	Text     string
	Start    time.Duration
	Duration time.Duration
}

// End returns the time at which the segment stops being shown.
func (s Segment) End() time.Duration {
	return s.Start + s.Duration
}

// Transcript is the full spoken text of a video.
// Text is the segments joined by single spaces; offsets maps each
// segment to its first byte in Text so text ranges can be timed.
type Transcript struct {
	VideoID  VideoID
	Language string
	Segments []Segment
	Text     string

	offsets []int
}

// NewTranscript joins segments into a transcript.
func NewTranscript(id VideoID, language string, segments []Segment) *Transcript {
	var sb strings.Builder
	offsets := make([]int, len(segments))
	for i, seg := range segments {
		if i > 0 {
			sb.WriteByte(' ')
		}
		offsets[i] = sb.Len()
		sb.WriteString(seg.Text)
	}
	return &Transcript{
		VideoID:  id,
		Language: language,
		Segments: segments,
		Text:     sb.String(),
		offsets:  offsets,
	}
}

// Record returns the stored form of the transcript.
func (t *Transcript) Record() TranscriptRecord {
	return TranscriptRecord{VideoID: t.VideoID, Language: t.Language, Segments: t.Segments}
}

// TranscriptRecord is what a transcript cache persists. The joined text and
// segment offsets are derived and rebuilt on load.
type TranscriptRecord struct {
	VideoID  VideoID
	Language string
	Segments []Segment
}

// Transcript rebuilds the full transcript.
func (r TranscriptRecord) Transcript() *Transcript {
	return NewTranscript(r.VideoID, r.Language, r.Segments)
}

// TimeRange returns the playback interval covering the bytes [start, end) of Text.
// ok is false when the transcript carries no timing.
func (t *Transcript) TimeRange(start, end int) (from, to time.Duration, ok bool) {
	if len(t.Segments) == 0 || len(t.offsets) != len(t.Segments) {
		return 0, 0, false
	}
	if end <= start {
		end = start + 1
	}
	first := t.segmentAt(start)
	last := t.segmentAt(end - 1)
	return t.Segments[first].Start, t.Segments[last].End(), true
}

func (t *Transcript) segmentAt(pos int) int {
	// index of the last segment starting at or before pos
	i := sort.Search(len(t.offsets), func(i int) bool { return t.offsets[i] > pos })
	if i == 0 {
		return 0
	}
	return i - 1
}

// Chunk is a contiguous window of transcript text and the unit of retrieval.
type Chunk struct {
	Id        ID
	Index     int           // position in the transcript, 0-based
	Text      string        // exact substring of the transcript text
	Start     int           // byte offset of Text in the transcript
	End       int           // byte offset one past the end of Text
	StartTime time.Duration // valid only when HasTiming is set
	EndTime   time.Duration
	HasTiming bool
	Vector    []float32 // unit-length embedding (populated by the index builder)
}

// SearchResult is a retrieved chunk and its cosine similarity to the query.
type SearchResult struct {
	Chunk *Chunk
	Score float32
}

// Role identifies the author of a chat message.
type Role string

const (
	// RoleUser is the person asking questions.
	RoleUser Role = "user"
	// RoleAssistant is the question answering pipeline.
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of a session's conversation.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
