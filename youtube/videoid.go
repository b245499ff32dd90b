package youtube

import (
	"regexp"
	"strings"

	"github.com/poiesic/vidqa/core"
)

// Tried in order; the first pattern that matches wins.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11}).*`),
	regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`embed/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`shorts/([0-9A-Za-z_-]{11})`),
}

// ExtractVideoID pulls the 11 character video identifier out of a link.
// It reports false when no identifier can be found; it never errors.
func ExtractVideoID(input string) (core.VideoID, bool) {
	input = strings.TrimSpace(input)
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(input); len(m) == 2 {
			return core.VideoID(m[1]), true
		}
	}
	return "", false
}
