package session

import (
	"errors"
	"sync"
	"time"

	"backend-mapty/internal/observability"
	"backend-mapty/internal/workout"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrForbidden       = errors.New("session belongs to another user")
	ErrOwnerRequired   = errors.New("owner required")
)

// PresenterFactory builds the rendering surfaces for a new session.
type PresenterFactory func(sessionID string) (workout.MapPresenter, workout.ListPresenter)

type Info struct {
	ID        string        `json:"id"`
	Owner     string        `json:"owner"`
	CreatedAt time.Time     `json:"created_at"`
	State     workout.State `json:"state"`
	View      workout.View  `json:"view"`
}

type session struct {
	id        string
	owner     string
	createdAt time.Time

	// mu serializes every call into recorder, which is single-threaded.
	mu       sync.Mutex
	recorder *workout.Recorder
}

// Manager holds the live sessions of this instance. Nothing is persisted;
// ending a session or restarting the process discards its log.
type Manager struct {
	mu         sync.RWMutex
	sessions   map[string]*session
	zoom       int
	presenters PresenterFactory
	onEnd      func(sessionID string)
	now        func() time.Time
}

func NewManager(zoom int, presenters PresenterFactory) *Manager {
	return &Manager{
		sessions:   map[string]*session{},
		zoom:       zoom,
		presenters: presenters,
		now:        time.Now,
	}
}

func (m *Manager) Create(owner string) (Info, error) {
	if owner == "" {
		return Info{}, ErrOwnerRequired
	}

	s := &session{
		id:        uuid.NewString(),
		owner:     owner,
		createdAt: m.now(),
	}
	var (
		mapView workout.MapPresenter
		list    workout.ListPresenter
	)
	if m.presenters != nil {
		mapView, list = m.presenters(s.id)
	}
	s.recorder = workout.NewRecorder(mapView, list, m.zoom, m.now)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	observability.SessionStarted()

	return s.info(), nil
}

func (m *Manager) Exists(id string) bool {
	_, err := m.lookup(id)
	return err == nil
}

func (m *Manager) Info(id string) (Info, error) {
	s, err := m.lookup(id)
	if err != nil {
		return Info{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info(), nil
}

// Read runs fn against the session's recorder. Use it for queries only.
func (m *Manager) Read(id string, fn func(*workout.Recorder) error) error {
	s, err := m.lookup(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.recorder)
}

// Do runs fn against the recorder on behalf of owner. Only the session owner
// may write, and writes to one session never overlap.
func (m *Manager) Do(id, owner string, fn func(*workout.Recorder) error) error {
	s, err := m.lookup(id)
	if err != nil {
		return err
	}
	if s.owner != owner {
		return ErrForbidden
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.recorder)
}

// OnEnd registers fn to run after a session is ended, outside the manager lock.
func (m *Manager) OnEnd(fn func(sessionID string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEnd = fn
}

func (m *Manager) End(id, owner string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	if s.owner != owner {
		m.mu.Unlock()
		return ErrForbidden
	}
	delete(m.sessions, id)
	onEnd := m.onEnd
	m.mu.Unlock()

	observability.SessionEnded()
	if onEnd != nil {
		onEnd(id)
	}
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) lookup(id string) (*session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (s *session) info() Info {
	snap := s.recorder.Snapshot()
	return Info{
		ID:        s.id,
		Owner:     s.owner,
		CreatedAt: s.createdAt,
		State:     snap.State,
		View:      snap.View,
	}
}
