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


package core

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// VideoIDLength is the fixed length of a YouTube video identifier.
const VideoIDLength = 11

// Upper bounds on decoded collection sizes.
const (
	MaxVectorDims = 1 << 16
	MaxSegments   = 1 << 20
)

// ValidateVectorLength bounds the dimension count of a stored embedding.
func ValidateVectorLength(n int) error {
	if n > MaxVectorDims {
		return fmt.Errorf("%w: %d vector dimensions", ErrLengthLimit, n)
	}
	return nil
}

// ValidateSegmentCount bounds the number of segments in a stored transcript.
func ValidateSegmentCount(n int) error {
	if n > MaxSegments {
		return fmt.Errorf("%w: %d segments", ErrLengthLimit, n)
	}
	return nil
}

// ValidateVideoID checks that id is 11 characters drawn from [0-9A-Za-z_-].
func ValidateVideoID(id VideoID) error {
	if len(id) != VideoIDLength {
		return fmt.Errorf("%w: %q has length %d", ErrInvalidVideoID, string(id), len(id))
	}
	for _, r := range string(id) {
		if !isVideoIDRune(r) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidVideoID, string(id), r)
		}
	}
	return nil
}

func isVideoIDRune(r rune) bool {
	return (r >= '0' && r <= '9') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z') ||
		r == '_' || r == '-'
}

// ValidateChunk validates a Chunk against a chunk size limit.
//
// Validation rules:
//   - Text must not be empty
//   - Text must be at most maxRunes characters (skipped when maxRunes <= 0)
//   - End - Start must equal the byte length of Text
//
// NOT validated (populated by the index builder):
//   - Vector
func ValidateChunk(chunk *Chunk, maxRunes int) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}
	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}
	if maxRunes > 0 {
		if n := utf8.RuneCountInString(chunk.Text); n > maxRunes {
			return fmt.Errorf("%w: %d characters exceeds limit %d", ErrInvalidChunk, n, maxRunes)
		}
	}
	if chunk.End-chunk.Start != len(chunk.Text) {
		return fmt.Errorf("%w: span [%d,%d) does not match text length %d",
			ErrInvalidChunk, chunk.Start, chunk.End, len(chunk.Text))
	}
	return nil
}

// ValidateRole validates that a Role has a known value.
func ValidateRole(role Role) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: value %q", ErrInvalidRole, string(role))
	}
	return nil
}

// ValidateMessage validates a ChatMessage.
func ValidateMessage(msg *ChatMessage) error {
	if msg == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidMessage)
	}
	if err := ValidateRole(msg.Role); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if msg.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyContent)
	}
	if msg.Timestamp.After(time.Now()) {
		return fmt.Errorf("%w: timestamp cannot be in the future", ErrInvalidMessage)
	}
	return nil
}

// ValidateQuestion rejects blank questions.
func ValidateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return ErrEmptyQuestion
	}
	return nil
}
