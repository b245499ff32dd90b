package badger

import (
	"encoding/binary"

	"github.com/poiesic/vidqa/core"
)

// Key prefixes for different data types
const (
	chunkPrefix      = "chunk:"
	transcriptPrefix = "transcript:"
)

// makeChunkKey generates a key for a chunk by index.
// Format: prefix + big-endian index, so iteration follows transcript order.
func makeChunkKey(index int) []byte {
	buf := make([]byte, len(chunkPrefix)+8)
	offset := copy(buf, chunkPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(index))
	return buf
}

// makeTranscriptKey generates a key for a cached transcript.
// Format: prefix:videoID:language
func makeTranscriptKey(id core.VideoID, language string) []byte {
	return []byte(transcriptPrefix + string(id) + ":" + language)
}
