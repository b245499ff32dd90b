package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/vidqa/ai/mock"
	"github.com/poiesic/vidqa/core"
	"github.com/poiesic/vidqa/qa"
	"github.com/poiesic/vidqa/session"
	"github.com/poiesic/vidqa/youtube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=30s"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, *mock.MockProvider) {
	t.Helper()
	fetcher := youtube.NewStaticFetcher(core.NewTranscript("dQw4w9WgXcQ", "en", []core.Segment{
		{Text: "The cat sat on the mat.", Duration: 2 * time.Second},
		{Text: "The dog ran in the yard.", Start: 2 * time.Second, Duration: 2 * time.Second},
	}))
	provider := mock.NewMockProviderWithServices(mock.NewKeywordEmbedder(), mock.NewExtractiveCompleter(qa.NotFoundAnswer))
	builder, err := qa.NewBuilder(fetcher, provider)
	require.NoError(t, err)
	manager, err := session.NewManager(builder, session.WithPoolSize(2))
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return New(manager), provider
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func createSession(t *testing.T, s *Server) session.Info {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/v1/sessions", fmt.Sprintf(`{"url":%q}`, catURL))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[session.Info](t, rec)
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_QuestionAndAnswer(t *testing.T) {
	s, _ := newTestServer(t)
	info := createSession(t, s)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, core.VideoID("dQw4w9WgXcQ"), info.VideoID)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", info.VideoURL)

	rec := do(t, s, http.MethodPost, "/api/v1/sessions/"+info.ID+"/questions", `{"question":"Where did the cat sit?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	answer := decode[answerResponse](t, rec)
	assert.Equal(t, core.RoleAssistant, answer.Role)
	assert.Contains(t, answer.Content, "mat")
	assert.Empty(t, answer.Error)

	rec = do(t, s, http.MethodPost, "/api/v1/sessions/"+info.ID+"/questions", `{"question":"What is the capital of France?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, qa.NotFoundAnswer, decode[answerResponse](t, rec).Content)

	rec = do(t, s, http.MethodGet, "/api/v1/sessions/"+info.ID+"/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	messages := decode[[]core.ChatMessage](t, rec)
	require.Len(t, messages, 4)
	assert.Equal(t, core.RoleUser, messages[0].Role)

	rec = do(t, s, http.MethodGet, "/api/v1/sessions/"+info.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, decode[session.Info](t, rec).Messages)
}

func TestServer_AnswerFailureIsReported(t *testing.T) {
	s, provider := newTestServer(t)
	info := createSession(t, s)

	provider.GetMockCompleter().CompleteFunc = func(context.Context, string, float64) (string, error) {
		return "", errors.New("model overloaded")
	}

	rec := do(t, s, http.MethodPost, "/api/v1/sessions/"+info.ID+"/questions", `{"question":"Where did the cat sit?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	answer := decode[answerResponse](t, rec)
	assert.True(t, strings.HasPrefix(answer.Content, "Error: "))
	assert.Contains(t, answer.Error, "model overloaded")
}

func TestServer_EmptySessionThenLoad(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/sessions", `{}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	info := decode[session.Info](t, rec)
	assert.Empty(t, info.VideoID)

	rec = do(t, s, http.MethodPost, "/api/v1/sessions/"+info.ID+"/questions", `{"question":"anything?"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/sessions/"+info.ID+"/video", fmt.Sprintf(`{"url":%q}`, catURL))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, core.VideoID("dQw4w9WgXcQ"), decode[session.Info](t, rec).VideoID)
}

func TestServer_ErrorStatuses(t *testing.T) {
	s, _ := newTestServer(t)
	info := createSession(t, s)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"invalid url", http.MethodPost, "/api/v1/sessions", `{"url":"not a url"}`, http.StatusBadRequest},
		{"captions unavailable", http.MethodPost, "/api/v1/sessions", `{"url":"https://youtu.be/aaaaaaaaaaa"}`, http.StatusUnprocessableEntity},
		{"malformed body", http.MethodPost, "/api/v1/sessions", `{"url":`, http.StatusBadRequest},
		{"missing question", http.MethodPost, "/api/v1/sessions/" + info.ID + "/questions", `{}`, http.StatusBadRequest},
		{"blank question", http.MethodPost, "/api/v1/sessions/" + info.ID + "/questions", `{"question":"  "}`, http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/api/v1/sessions/nope/messages", "", http.StatusNotFound},
		{"ask unknown session", http.MethodPost, "/api/v1/sessions/nope/questions", `{"question":"q?"}`, http.StatusNotFound},
		{"load invalid url", http.MethodPost, "/api/v1/sessions/" + info.ID + "/video", `{"url":"nope"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestServer_FailedCreateDiscardsSession(t *testing.T) {
	fetcher := youtube.NewStaticFetcher()
	builder, err := qa.NewBuilder(fetcher, mock.NewMockProvider())
	require.NoError(t, err)
	manager, err := session.NewManager(builder)
	require.NoError(t, err)
	defer manager.Close()
	s := New(manager)

	rec := do(t, s, http.MethodPost, "/api/v1/sessions", fmt.Sprintf(`{"url":%q}`, catURL))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, manager.Len())
}

func TestServer_EndSession(t *testing.T) {
	s, _ := newTestServer(t)
	info := createSession(t, s)

	rec := do(t, s, http.MethodDelete, "/api/v1/sessions/"+info.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/v1/sessions/"+info.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: x", core.ErrInvalidURL), http.StatusBadRequest},
		{fmt.Errorf("%w: %w", core.ErrAnswerGeneration, core.ErrEmptyQuestion), http.StatusBadRequest},
		{session.ErrSessionNotFound, http.StatusNotFound},
		{session.ErrNoVideoLoaded, http.StatusConflict},
		{core.ErrTranscriptUnavailable, http.StatusUnprocessableEntity},
		{core.ErrTranscriptFetch, http.StatusBadGateway},
		{core.ErrIndexBuild, http.StatusBadGateway},
		{core.ErrAnswerGeneration, http.StatusBadGateway},
		{session.ErrManagerClosed, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
