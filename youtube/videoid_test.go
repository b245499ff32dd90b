package youtube

import (
	"testing"

	"github.com/poiesic/vidqa/core"
	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   core.VideoID
		wantOK bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch url with timestamp", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=30s", "dQw4w9WgXcQ", true},
		{"watch url with extra params first", "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"mobile watch url", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link with query", "https://youtu.be/dQw4w9WgXcQ?si=abcdef", "dQw4w9WgXcQ", true},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"shorts", "https://www.youtube.com/shorts/aBcDeFgHiJk", "aBcDeFgHiJk", true},
		{"no scheme", "youtube.com/watch?v=a-b_c-d_e-f", "a-b_c-d_e-f", true},
		{"surrounding whitespace", "  https://youtu.be/dQw4w9WgXcQ \n", "dQw4w9WgXcQ", true},
		{"not a url", "not a url", "", false},
		{"empty", "", "", false},
		{"id too short", "https://youtu.be/abc", "", false},
		{"bare id", "dQw4w9WgXcQ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractVideoID(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractVideoID_ResultIsValid(t *testing.T) {
	id, ok := ExtractVideoID("https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=30s")
	assert.True(t, ok)
	assert.NoError(t, core.ValidateVideoID(id))
}
