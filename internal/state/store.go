package state

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/five82/flowdo/internal/api"
)

var (
	// ErrNotReady is returned when an operation is attempted without an
	// authenticated, verified session. Nothing is dispatched.
	ErrNotReady = errors.New("session not ready")
	// ErrNotFound is returned when the target record is not in the store.
	ErrNotFound = errors.New("not found in store")
	// ErrEmptyName is returned for a blank task title, project name or
	// context name.
	ErrEmptyName = errors.New("name is required")
)

// Backend is the REST contract the store reconciles against. *api.Client
// implements it.
type Backend interface {
	FetchTasks(ctx context.Context) ([]api.Task, error)
	CreateTask(ctx context.Context, in api.TaskInput) (api.Task, error)
	UpdateTask(ctx context.Context, task api.Task) (api.Task, error)
	DeleteTask(ctx context.Context, id string) error

	FetchProjects(ctx context.Context) ([]api.Project, error)
	CreateProject(ctx context.Context, in api.ProjectInput) (api.Project, error)
	UpdateProject(ctx context.Context, project api.Project) (api.Project, error)
	DeleteProject(ctx context.Context, id string) error

	FetchNextActions(ctx context.Context) ([]api.NextAction, error)
	CreateNextAction(ctx context.Context, in api.NextActionInput) (api.NextAction, error)
	UpdateNextAction(ctx context.Context, na api.NextAction) (api.NextAction, error)
	DeleteNextAction(ctx context.Context, id string) error
}

// Gate reports whether API calls are currently allowed.
// *session.Session implements it.
type Gate interface {
	Ready() bool
}

// Store owns the task, project and context collections. All changes go
// through Dispatch; Get returns an independent copy of the current state.
type Store struct {
	mu    sync.RWMutex
	state State

	backend Backend
	gate    Gate
	logger  *log.Logger

	newID func() string
	now   func() time.Time
}

// NewStore builds an empty store. A nil logger logs to log.Default().
func NewStore(backend Backend, gate Gate, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		backend: backend,
		gate:    gate,
		logger:  logger,
		newID:   NewTempID,
		now:     time.Now,
	}
}

// Dispatch applies a to the current state.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
}

// Get returns a copy of the current state. It always reflects every
// dispatch that happened before the call, including optimistic ones.
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Task returns the task with the given ID.
func (s *Store) Task(id string) (api.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.state.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return api.Task{}, false
}

// Project returns the project with the given ID.
func (s *Store) Project(id string) (api.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.state.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return api.Project{}, false
}

// Context returns the context with the given ID.
func (s *Store) Context(id string) (api.NextAction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.state.Contexts {
		if c.ID == id {
			return c, true
		}
	}
	return api.NextAction{}, false
}

func (s *Store) ready(op string) error {
	if s.gate == nil || !s.gate.Ready() {
		s.logger.Printf("%s skipped: session not ready", op)
		return ErrNotReady
	}
	return nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// detach keeps mutations running to completion when the caller goes away.
// The client's per-request timeout still applies.
func detach(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
