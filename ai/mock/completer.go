package mock

import (
	"context"
	"regexp"
	"strings"
	"sync"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, Complete returns Answer.
	CompleteFunc func(ctx context.Context, prompt string, temperature float64) (string, error)

	// Answer is the canned reply used when CompleteFunc is nil.
	Answer string

	mu              sync.Mutex
	callCount       int
	lastPrompt      string
	lastTemperature float64
}

// NewMockCompleter creates a mock completer that always replies "mock answer".
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{Answer: "mock answer"}
}

// NewExtractiveCompleter creates a mock completer that behaves like an
// obedient model: it reads the prompt's context and question sections and
// answers with the context sentence sharing the most keywords with the
// question, or with fallback when no sentence shares any.
func NewExtractiveCompleter(fallback string) *MockCompleter {
	m := &MockCompleter{}
	m.CompleteFunc = func(_ context.Context, prompt string, _ float64) (string, error) {
		return extract(prompt, fallback), nil
	}
	return m
}

// Complete records the call and returns the configured reply.
func (m *MockCompleter) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastPrompt = prompt
	m.lastTemperature = temperature
	fn, answer := m.CompleteFunc, m.Answer
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt, temperature)
	}
	return answer, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastPrompt returns the prompt of the most recent call.
func (m *MockCompleter) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}

// LastTemperature returns the temperature of the most recent call.
func (m *MockCompleter) LastTemperature() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastTemperature
}

// Reset clears the call history and custom functions.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastPrompt = ""
	m.lastTemperature = 0
	m.CompleteFunc = nil
}

var (
	contextSectionRe = regexp.MustCompile(`(?s)Context:\s*\n(.*?)\n\s*Question:`)
	questionLineRe   = regexp.MustCompile(`(?m)^Question:\s*(.*)$`)
	sentenceEndRe    = regexp.MustCompile(`[.!?](\s+|$)`)
	timeLabelRe      = regexp.MustCompile(`\[\d{2}:\d{2}:\d{2}(?: - \d{2}:\d{2}:\d{2})?\]`)
)

func extract(prompt, fallback string) string {
	cm := contextSectionRe.FindStringSubmatch(prompt)
	qm := questionLineRe.FindStringSubmatch(prompt)
	if len(cm) < 2 || len(qm) < 2 {
		return fallback
	}
	passage := timeLabelRe.ReplaceAllString(cm[1], " ")
	question := qm[1]

	best, bestScore := "", 0
	for _, sentence := range splitSentences(passage) {
		if score := overlap(sentence, question); score > bestScore {
			best, bestScore = sentence, score
		}
	}
	if bestScore == 0 {
		return fallback
	}
	return best
}

func splitSentences(text string) []string {
	var out []string
	last := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[last:loc[1]]); s != "" {
			out = append(out, s)
		}
		last = loc[1]
	}
	if s := strings.TrimSpace(text[last:]); s != "" {
		out = append(out, s)
	}
	return out
}
