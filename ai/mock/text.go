package mock

import "strings"

// Stop words ignored by the keyword helpers
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "did": true, "does": true,
}

// Keywords lowercases text, trims punctuation and drops stop words.
func Keywords(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}
	return filtered
}

// overlap counts the distinct keywords of query that occur in document.
func overlap(document, query string) int {
	docWords := make(map[string]bool)
	for _, w := range Keywords(document) {
		docWords[w] = true
	}
	seen := make(map[string]bool)
	n := 0
	for _, w := range Keywords(query) {
		if docWords[w] && !seen[w] {
			seen[w] = true
			n++
		}
	}
	return n
}
