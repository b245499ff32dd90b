package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/vidqa/core"
	"github.com/poiesic/vidqa/qa"
	"github.com/poiesic/vidqa/youtube"
)

// Session is one conversation about one video.
type Session struct {
	id      string
	created time.Time

	mu       sync.Mutex
	pipeline *qa.Pipeline
	videoURL string
	history  []core.ChatMessage
	ended    bool
}

// Info is a snapshot of a session.
type Info struct {
	ID        string       `json:"id"`
	VideoID   core.VideoID `json:"video_id,omitempty"`
	VideoURL  string       `json:"video_url,omitempty"`
	Chunks    int          `json:"chunks,omitempty"`
	Messages  int          `json:"messages"`
	CreatedAt time.Time    `json:"created_at"`
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Info returns a snapshot of the session.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.infoLocked()
}

func (s *Session) infoLocked() Info {
	info := Info{
		ID:        s.id,
		Messages:  len(s.history),
		CreatedAt: s.created,
	}
	if s.pipeline != nil {
		info.VideoID = s.pipeline.VideoID()
		info.VideoURL = info.VideoID.URL()
		info.Chunks = s.pipeline.ChunkCount()
	}
	return info
}

// Manager owns all sessions.
type Manager struct {
	builder *qa.Builder
	pool    *ants.Pool
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool
}

// Option configures a Manager.
type Option func(*Manager) error

// WithPoolSize caps how many video setups run at once.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(m *Manager) error {
		if size < 1 {
			size = 1
		}
		if m.pool != nil {
			m.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		m.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewManager creates a session manager that sets up videos with builder.
func NewManager(builder *qa.Builder, opts ...Option) (*Manager, error) {
	if builder == nil {
		return nil, ErrSetupRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		builder:  builder,
		pool:     pool,
		logger:   slog.Default(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			m.pool.Release()
			return nil, err
		}
	}
	return m, nil
}

// Create starts an empty session.
func (m *Manager) Create() (*Session, error) {
	s := &Session{
		id:      uuid.NewString(),
		created: time.Now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrManagerClosed
	}
	m.sessions[s.id] = s
	m.logger.Debug("session created", "session_id", s.id)
	return s, nil
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrManagerClosed
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

type setupResult struct {
	pipeline *qa.Pipeline
	err      error
}

// Load points the session at the video behind videoURL.
//
// Loading the video that is already loaded does nothing. Loading another
// video replaces the pipeline and clears the history. When setup fails the
// session is left as it was.
func (m *Manager) Load(ctx context.Context, id, videoURL string) (Info, error) {
	s, err := m.Get(id)
	if err != nil {
		return Info{}, err
	}
	return m.load(ctx, s, videoURL)
}

func (m *Manager) load(ctx context.Context, s *Session, videoURL string) (Info, error) {
	id := s.id
	s.mu.Lock()
	defer s.mu.Unlock()

	// End may have run between the lookup and the lock
	if s.ended {
		return Info{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	if s.pipeline != nil {
		if vid, ok := youtube.ExtractVideoID(videoURL); ok && vid == s.pipeline.VideoID() {
			return s.infoLocked(), nil
		}
	}

	done := make(chan setupResult, 1)
	if err := m.pool.Submit(func() {
		p, err := m.builder.Setup(ctx, videoURL)
		done <- setupResult{pipeline: p, err: err}
	}); err != nil {
		return Info{}, fmt.Errorf("schedule setup: %w", err)
	}
	res := <-done
	if res.err != nil {
		m.logger.Warn("video setup failed", "session_id", id, "url", videoURL, "err", res.err)
		return Info{}, res.err
	}

	if s.pipeline != nil {
		if err := s.pipeline.Close(); err != nil {
			m.logger.Warn("error closing previous pipeline", "session_id", id, "err", err)
		}
	}
	s.pipeline = res.pipeline
	s.videoURL = videoURL
	s.history = nil

	m.logger.Info("video loaded", "session_id", id, "video_id", res.pipeline.VideoID())
	return s.infoLocked(), nil
}

// Ask answers question in the session and records both turns.
//
// When answering fails, the recorded assistant turn reads "Error: <cause>"
// and the error is returned alongside it.
func (m *Manager) Ask(ctx context.Context, id, question string) (core.ChatMessage, error) {
	s, err := m.Get(id)
	if err != nil {
		return core.ChatMessage{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return core.ChatMessage{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if s.pipeline == nil {
		return core.ChatMessage{}, ErrNoVideoLoaded
	}
	if err := core.ValidateQuestion(question); err != nil {
		return core.ChatMessage{}, fmt.Errorf("%w: %w", core.ErrAnswerGeneration, err)
	}

	if err := s.record(core.ChatMessage{
		Role:      core.RoleUser,
		Content:   question,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		return core.ChatMessage{}, err
	}

	answer, askErr := s.pipeline.Ask(ctx, question)
	reply := core.ChatMessage{
		Role:      core.RoleAssistant,
		Content:   answer,
		Timestamp: time.Now().UTC(),
	}
	if askErr != nil {
		reply.Content = "Error: " + askErr.Error()
		m.logger.Warn("question failed", "session_id", id, "err", askErr)
	}
	if err := s.record(reply); err != nil {
		m.logger.Error("invalid assistant message", "session_id", id, "err", err)
		return core.ChatMessage{}, errors.Join(askErr, err)
	}
	return reply, askErr
}

// record appends a validated message to the history. Callers hold s.mu.
func (s *Session) record(msg core.ChatMessage) error {
	if err := core.ValidateMessage(&msg); err != nil {
		return err
	}
	s.history = append(s.history, msg)
	return nil
}

// History returns a copy of the session's conversation.
func (m *Manager) History(id string) ([]core.ChatMessage, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.ChatMessage, len(s.history))
	copy(out, s.history)
	return out, nil
}

// End closes the session and releases its pipeline.
func (m *Manager) End(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	m.logger.Debug("session ended", "session_id", id)
	return s.release()
}

func (s *Session) release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = true
	if s.pipeline == nil {
		return nil
	}
	err := s.pipeline.Close()
	s.pipeline = nil
	return err
}

// Close ends every session and stops the worker pool.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	var firstErr error
	for id, s := range sessions {
		if err := s.release(); err != nil {
			m.logger.Error("error closing session", "session_id", id, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	m.pool.Release()
	return firstErr
}
