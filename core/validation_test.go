package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateVideoID(t *testing.T) {
	tests := []struct {
		name    string
		id      VideoID
		wantErr bool
	}{
		{"valid", "dQw4w9WgXcQ", false},
		{"valid with dash and underscore", "a-b_c-d_e-f", false},
		{"too short", "abc", true},
		{"too long", "dQw4w9WgXcQx", true},
		{"bad character", "dQw4w9WgXc!", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVideoID(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidVideoID)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		max     int
		wantErr error
	}{
		{"valid", &Chunk{Text: "hello", Start: 3, End: 8}, 10, nil},
		{"no limit", &Chunk{Text: "hello", Start: 0, End: 5}, 0, nil},
		{"nil", nil, 10, ErrInvalidChunk},
		{"empty", &Chunk{Text: ""}, 10, ErrEmptyContent},
		{"too long", &Chunk{Text: "hello world", Start: 0, End: 11}, 5, ErrInvalidChunk},
		{"span mismatch", &Chunk{Text: "hello", Start: 0, End: 4}, 10, ErrInvalidChunk},
		{"multibyte counted in runes", &Chunk{Text: "héllo", Start: 0, End: 6}, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk, tt.max)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMessage(t *testing.T) {
	past := time.Now().Add(-time.Minute)

	assert.NoError(t, ValidateMessage(&ChatMessage{Role: RoleUser, Content: "hi", Timestamp: past}))
	assert.NoError(t, ValidateMessage(&ChatMessage{Role: RoleAssistant, Content: "hello", Timestamp: past}))
	assert.ErrorIs(t, ValidateMessage(nil), ErrInvalidMessage)
	assert.ErrorIs(t, ValidateMessage(&ChatMessage{Role: "system", Content: "x", Timestamp: past}), ErrInvalidRole)
	assert.ErrorIs(t, ValidateMessage(&ChatMessage{Role: RoleUser, Timestamp: past}), ErrEmptyContent)
	assert.ErrorIs(t, ValidateMessage(&ChatMessage{Role: RoleUser, Content: "x", Timestamp: time.Now().Add(time.Hour)}), ErrInvalidMessage)
}

func TestValidateQuestion(t *testing.T) {
	assert.NoError(t, ValidateQuestion("Where did the cat sit?"))
	assert.ErrorIs(t, ValidateQuestion(""), ErrEmptyQuestion)
	assert.ErrorIs(t, ValidateQuestion("  \n\t"), ErrEmptyQuestion)
}
