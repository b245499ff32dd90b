package mock

import (
	"context"
	"hash/fnv"
	"sync"
)

// MockEmbedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields.
type MockEmbedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	// If nil, uses default deterministic behavior.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc is called by EmbedTexts if set.
	// If nil, uses default deterministic behavior.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	// Vectorize produces the default vectors when the Func fields are nil.
	// Defaults to HashVector.
	Vectorize func(text string) []float32

	mu        sync.Mutex
	callCount int
}

// NewMockEmbedder creates a mock embedder whose vectors are a pure function
// of the text hash. Equal texts get equal vectors; nothing else is implied.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// NewKeywordEmbedder creates a mock embedder whose vectors are bags of
// hashed keywords, so texts sharing words score higher than texts that don't.
func NewKeywordEmbedder() *MockEmbedder {
	return &MockEmbedder{Vectorize: func(text string) []float32 { return KeywordVector(text, 256) }}
}

// EmbedText embeds a single text.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return m.vector(text), nil
}

// EmbedTexts embeds texts in order.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = m.vector(text)
	}
	return embeddings, nil
}

func (m *MockEmbedder) vector(text string) []float32 {
	if m.Vectorize != nil {
		return m.Vectorize(text)
	}
	return HashVector(text, 384)
}

// CallCount returns the number of times any method was called.
func (m *MockEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockEmbedder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// HashVector creates a deterministic pseudo-random vector from text.
func HashVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000) / 1000.0
	}
	return vector
}

// KeywordVector hashes the non-stop-words of text into dim buckets.
func KeywordVector(text string, dim int) []float32 {
	vector := make([]float32, dim)
	for _, word := range Keywords(text) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vector[h.Sum32()%uint32(dim)]++
	}
	return vector
}
