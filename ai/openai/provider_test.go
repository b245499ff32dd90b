package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/poiesic/vidqa/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms/openai"
)

// fakeServer speaks just enough of the OpenAI wire format for the embeddings
// and chat completion endpoints.
type fakeServer struct {
	mu          sync.Mutex
	chatBodies  []map[string]any
	embedInputs [][]string
	answer      string
	noChoices   bool
	authHeaders []string
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		f.embedInputs = append(f.embedInputs, req.Input)
		f.mu.Unlock()

		data := make([]map[string]any, len(req.Input))
		for i, text := range req.Input {
			data[i] = map[string]any{"object": "embedding", "index": i, "embedding": []float32{float32(len(text)), 1}}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data, "model": req.Model})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		f.chatBodies = append(f.chatBodies, body)
		f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
		f.mu.Unlock()

		choices := []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": f.answer},
			"finish_reason": "stop",
		}}
		if f.noChoices {
			choices = []map[string]any{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": body["model"],
			"choices": choices,
		})
	})
	return mux
}

func newTestProvider(t *testing.T, fake *fakeServer, opts ...ai.ConfigOption) ai.AIProvider {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	cfg := ai.NewConfig(append([]ai.ConfigOption{
		ai.WithHost(srv.URL),
		ai.WithEmbeddingModel("all-minilm"),
		ai.WithCompletionModel("llama-3.3-70b-versatile"),
		ai.WithAPIKey("test-key"),
	}, opts...)...)
	provider, err := NewProvider(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { provider.Close() })
	return provider
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	cfg := ai.NewConfig(ai.WithCompletionModel(""))
	_, err := NewProvider(cfg)
	assert.Error(t, err)
}

func TestEmbedder_EmbedTexts(t *testing.T) {
	fake := &fakeServer{}
	provider := newTestProvider(t, fake, ai.WithEmbeddingBatchSize(2))

	vectors, err := provider.Embedder().EmbedTexts(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, []float32{1, 1}, vectors[0])
	assert.Equal(t, []float32{3, 1}, vectors[2])

	// batch size 2 splits three texts into two requests
	assert.Len(t, fake.embedInputs, 2)
}

func TestEmbedder_EmbedText(t *testing.T) {
	fake := &fakeServer{}
	provider := newTestProvider(t, fake)

	vector, err := provider.Embedder().EmbedText(context.Background(), "four")
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 1}, vector)
}

func TestCompleter_Complete(t *testing.T) {
	fake := &fakeServer{answer: "  The cat sat on the mat [00:00:01].  "}
	provider := newTestProvider(t, fake)

	answer, err := provider.Completer().Complete(context.Background(), "Where did the cat sit?", 0.2)
	require.NoError(t, err)
	assert.Equal(t, "The cat sat on the mat [00:00:01].", answer)

	require.Len(t, fake.chatBodies, 1)
	body := fake.chatBodies[0]
	assert.Equal(t, "llama-3.3-70b-versatile", body["model"])
	assert.InDelta(t, 0.2, body["temperature"], 1e-9)
	assert.Equal(t, "Bearer test-key", fake.authHeaders[0])

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
}

func TestCompleter_EmptyResponse(t *testing.T) {
	t.Run("no choices", func(t *testing.T) {
		provider := newTestProvider(t, &fakeServer{noChoices: true})
		_, err := provider.Completer().Complete(context.Background(), "q", 0.2)
		assert.ErrorIs(t, err, ai.ErrEmptyResponse)
	})

	t.Run("blank content", func(t *testing.T) {
		provider := newTestProvider(t, &fakeServer{answer: "   "})
		_, err := provider.Completer().Complete(context.Background(), "q", 0.2)
		assert.ErrorIs(t, err, ai.ErrEmptyResponse)
	})
}

func TestIsEmptyResponse(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"llm sentinel", openai.ErrEmptyResponse, true},
		{"client sentinel", errors.New("empty response"), true},
		{"wrapped client sentinel", fmt.Errorf("generate: %w", errors.New("empty response")), true},
		{"other error", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isEmptyResponse(tt.err))
		})
	}
}

func TestStandaloneServices(t *testing.T) {
	fake := &fakeServer{answer: "on the mat"}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)
	cfg := ai.NewConfig(
		ai.WithHost(srv.URL),
		ai.WithEmbeddingModel("all-minilm"),
		ai.WithCompletionModel("llama-3.3-70b-versatile"),
	)

	embedder, err := NewEmbedder(cfg)
	require.NoError(t, err)
	vector, err := embedder.EmbedText(context.Background(), "cat")
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 1}, vector)

	completer, err := NewCompleter(cfg)
	require.NoError(t, err)
	answer, err := completer.Complete(context.Background(), "Where did the cat sit?", 0.2)
	require.NoError(t, err)
	assert.Equal(t, "on the mat", answer)

	_, err = NewCompleter(ai.NewConfig(ai.WithCompletionModel("")))
	assert.Error(t, err)
}
