package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/flowdo/internal/api"
)

var errUnexpected = errors.New("unexpected backend call")

// fakeBackend answers through optional hooks. Unset hooks fail the call.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	createTask    func(api.TaskInput) (api.Task, error)
	updateTask    func(api.Task) (api.Task, error)
	deleteTask    func(string) error
	createProject func(api.ProjectInput) (api.Project, error)
	updateProject func(api.Project) (api.Project, error)
	deleteProject func(string) error
	createContext func(api.NextActionInput) (api.NextAction, error)
	updateContext func(api.NextAction) (api.NextAction, error)
	deleteContext func(string) error

	tasks    func() ([]api.Task, error)
	projects func() ([]api.Project, error)
	contexts func() ([]api.NextAction, error)
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) FetchTasks(context.Context) ([]api.Task, error) {
	f.record("FetchTasks")
	if f.tasks == nil {
		return nil, errUnexpected
	}
	return f.tasks()
}

func (f *fakeBackend) CreateTask(_ context.Context, in api.TaskInput) (api.Task, error) {
	f.record("CreateTask")
	if f.createTask == nil {
		return api.Task{}, errUnexpected
	}
	return f.createTask(in)
}

func (f *fakeBackend) UpdateTask(_ context.Context, task api.Task) (api.Task, error) {
	f.record("UpdateTask")
	if f.updateTask == nil {
		return api.Task{}, errUnexpected
	}
	return f.updateTask(task)
}

func (f *fakeBackend) DeleteTask(_ context.Context, id string) error {
	f.record("DeleteTask")
	if f.deleteTask == nil {
		return errUnexpected
	}
	return f.deleteTask(id)
}

func (f *fakeBackend) FetchProjects(context.Context) ([]api.Project, error) {
	f.record("FetchProjects")
	if f.projects == nil {
		return nil, errUnexpected
	}
	return f.projects()
}

func (f *fakeBackend) CreateProject(_ context.Context, in api.ProjectInput) (api.Project, error) {
	f.record("CreateProject")
	if f.createProject == nil {
		return api.Project{}, errUnexpected
	}
	return f.createProject(in)
}

func (f *fakeBackend) UpdateProject(_ context.Context, p api.Project) (api.Project, error) {
	f.record("UpdateProject")
	if f.updateProject == nil {
		return api.Project{}, errUnexpected
	}
	return f.updateProject(p)
}

func (f *fakeBackend) DeleteProject(_ context.Context, id string) error {
	f.record("DeleteProject")
	if f.deleteProject == nil {
		return errUnexpected
	}
	return f.deleteProject(id)
}

func (f *fakeBackend) FetchNextActions(context.Context) ([]api.NextAction, error) {
	f.record("FetchNextActions")
	if f.contexts == nil {
		return nil, errUnexpected
	}
	return f.contexts()
}

func (f *fakeBackend) CreateNextAction(_ context.Context, in api.NextActionInput) (api.NextAction, error) {
	f.record("CreateNextAction")
	if f.createContext == nil {
		return api.NextAction{}, errUnexpected
	}
	return f.createContext(in)
}

func (f *fakeBackend) UpdateNextAction(_ context.Context, na api.NextAction) (api.NextAction, error) {
	f.record("UpdateNextAction")
	if f.updateContext == nil {
		return api.NextAction{}, errUnexpected
	}
	return f.updateContext(na)
}

func (f *fakeBackend) DeleteNextAction(_ context.Context, id string) error {
	f.record("DeleteNextAction")
	if f.deleteContext == nil {
		return errUnexpected
	}
	return f.deleteContext(id)
}

type gate struct{ ready atomic.Bool }

func (g *gate) Ready() bool { return g.ready.Load() }

func readyGate() *gate {
	g := &gate{}
	g.ready.Store(true)
	return g
}

func newTestStore(t *testing.T, backend *fakeBackend, g Gate) *Store {
	t.Helper()
	s := NewStore(backend, g, log.New(io.Discard, "", 0))
	var n atomic.Int64
	s.newID = func() string { return fmt.Sprintf("tmp-test-%d", n.Add(1)) }
	s.now = func() time.Time { return time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC) }
	return s
}

func serverError() error {
	return &api.StatusError{Method: "POST", Path: "/api/tasks", StatusCode: 500}
}

func TestStore_AddTaskOptimisticThenConfirmed(t *testing.T) {
	release := make(chan struct{})
	backend := &fakeBackend{
		createTask: func(in api.TaskInput) (api.Task, error) {
			<-release
			return api.Task{ID: "srv-1", Title: in.Title, DueDate: in.DueDate, Priority: in.Priority, Category: in.Category}, nil
		},
	}
	s := newTestStore(t, backend, readyGate())

	type result struct {
		task api.Task
		err  error
	}
	done := make(chan result, 1)
	go func() {
		task, err := s.AddTask(context.Background(), api.TaskInput{Title: "Buy milk", DueDate: "2025-01-01T00:00:00Z", Priority: 2})
		done <- result{task, err}
	}()

	require.Eventually(t, func() bool { return len(s.Get().Tasks) == 1 }, time.Second, 5*time.Millisecond)
	pending := s.Get().Tasks[0]
	assert.Equal(t, "Buy milk", pending.Title)
	assert.True(t, pending.Optimistic)
	assert.True(t, IsTempID(pending.ID))
	assert.Equal(t, api.DefaultCategory, pending.Category)
	assert.Equal(t, 1, PendingCount(s.Get()))

	close(release)
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "srv-1", res.task.ID)

	tasks := s.Get().Tasks
	require.Len(t, tasks, 1)
	assert.Equal(t, "srv-1", tasks[0].ID)
	assert.False(t, tasks[0].Optimistic)
	assert.Equal(t, 0, PendingCount(s.Get()))
}

func TestStore_AddTaskFailureReverts(t *testing.T) {
	release := make(chan struct{})
	backend := &fakeBackend{
		createTask: func(api.TaskInput) (api.Task, error) {
			<-release
			return api.Task{}, serverError()
		},
	}
	s := newTestStore(t, backend, readyGate())

	done := make(chan error, 1)
	go func() {
		_, err := s.AddTask(context.Background(), api.TaskInput{Title: "Buy milk", DueDate: "2025-01-01T00:00:00Z", Priority: 2})
		done <- err
	}()

	require.Eventually(t, func() bool { return len(s.Get().Tasks) == 1 }, time.Second, 5*time.Millisecond)
	close(release)

	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrServer)
	for _, task := range s.Get().Tasks {
		assert.NotEqual(t, "Buy milk", task.Title)
	}
	assert.Empty(t, s.Get().Tasks)
}

func TestStore_AddTaskIgnoresCallerCancellation(t *testing.T) {
	release := make(chan struct{})
	backend := &fakeBackend{
		createTask: func(in api.TaskInput) (api.Task, error) {
			<-release
			return api.Task{ID: "srv-1", Title: in.Title}, nil
		},
	}
	s := newTestStore(t, backend, readyGate())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.AddTask(ctx, api.TaskInput{Title: "Call bank"})
		done <- err
	}()
	require.Eventually(t, func() bool { return len(s.Get().Tasks) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	close(release)

	require.NoError(t, <-done)
	assert.Equal(t, "srv-1", s.Get().Tasks[0].ID)
}

func TestStore_MoveTaskFailureRestoresReference(t *testing.T) {
	release := make(chan struct{})
	var sent api.Task
	backend := &fakeBackend{
		updateTask: func(task api.Task) (api.Task, error) {
			sent = task
			<-release
			return api.Task{}, serverError()
		},
	}
	s := newTestStore(t, backend, readyGate())
	s.Dispatch(SetTasks{Tasks: []api.Task{{ID: "a", Title: "Plan trip"}}})

	done := make(chan error, 1)
	go func() {
		_, err := s.MoveTask(context.Background(), "a", MoveToProject, "p1")
		done <- err
	}()

	require.Eventually(t, func() bool {
		task, _ := s.Task("a")
		return task.ProjectID == "p1"
	}, time.Second, 5*time.Millisecond)
	task, _ := s.Task("a")
	assert.True(t, task.Optimistic)

	close(release)
	require.Error(t, <-done)

	task, ok := s.Task("a")
	require.True(t, ok)
	assert.False(t, task.ProjectID.IsSet())
	assert.False(t, task.Optimistic)
	assert.Equal(t, api.Ref("p1"), sent.ProjectID)
	assert.Equal(t, "Plan trip", sent.Title)
}

func TestStore_MoveTaskToContext(t *testing.T) {
	backend := &fakeBackend{
		updateTask: func(task api.Task) (api.Task, error) {
			task.UpdatedAt = "2025-01-02T00:00:00Z"
			return task, nil
		},
	}
	s := newTestStore(t, backend, readyGate())
	s.Dispatch(SetTasks{Tasks: []api.Task{{ID: "a", ProjectID: "p1"}}})

	saved, err := s.MoveTask(context.Background(), "a", MoveToNext, "c1")
	require.NoError(t, err)
	assert.Equal(t, api.Ref("c1"), saved.NextActionID)

	task, _ := s.Task("a")
	assert.Equal(t, api.Ref("c1"), task.NextActionID)
	assert.Equal(t, api.Ref("p1"), task.ProjectID)
	assert.Equal(t, "2025-01-02T00:00:00Z", task.UpdatedAt)
	assert.False(t, task.Optimistic)
}

func TestStore_MoveTaskRequiresTarget(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestStore(t, backend, readyGate())
	s.Dispatch(SetTasks{Tasks: []api.Task{{ID: "a"}}})

	_, err := s.MoveTask(context.Background(), "a", MoveToProject, " ")
	require.Error(t, err)
	assert.Empty(t, backend.Calls())
}

func TestStore_ToggleCompleteFailureFlipsBack(t *testing.T) {
	backend := &fakeBackend{
		updateTask: func(task api.Task) (api.Task, error) {
			if !task.Completed {
				return api.Task{}, errors.New("expected completed=true in request")
			}
			return api.Task{}, fmt.Errorf("%w", api.ErrTimeout)
		},
	}
	s := newTestStore(t, backend, readyGate())
	s.Dispatch(SetTasks{Tasks: []api.Task{{ID: "a", Completed: false}}})

	_, err := s.ToggleComplete(context.Background(), "a")
	require.ErrorIs(t, err, api.ErrTimeout)

	task, _ := s.Task("a")
	assert.False(t, task.Completed)
}

func TestStore_ToggleCompleteKeepsServerRecord(t *testing.T) {
	backend := &fakeBackend{
		updateTask: func(task api.Task) (api.Task, error) {
			task.UpdatedAt = "2025-03-01T00:00:00Z"
			return task, nil
		},
	}
	s := newTestStore(t, backend, readyGate())
	s.Dispatch(SetTasks{Tasks: []api.Task{{ID: "a"}}})

	_, err := s.ToggleComplete(context.Background(), "a")
	require.NoError(t, err)

	task, _ := s.Task("a")
	assert.True(t, task.Completed)
	assert.Equal(t, "2025-03-01T00:00:00Z", task.UpdatedAt)
}

func TestStore_UpdateTaskRevertsToSnapshot(t *testing.T) {
	backend := &fakeBackend{
		updateTask: func(api.Task) (api.Task, error) { return api.Task{}, serverError() },
	}
	s := newTestStore(t, backend, readyGate())
	original := api.Task{ID: "a", Title: "Draft", Priority: 3, CreatedAt: "2025-01-01T00:00:00Z"}
	s.Dispatch(SetTasks{Tasks: []api.Task{original}})

	edited := original
	edited.Title = "Final"
	edited.Priority = 1
	_, err := s.UpdateTask(context.Background(), edited)
	require.Error(t, err)

	task, _ := s.Task("a")
	assert.Equal(t, original, task)
}

func TestStore_UpdateMissingTask(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestStore(t, backend, readyGate())

	_, err := s.UpdateTask(context.Background(), api.Task{ID: "ghost"})
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.ToggleComplete(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, backend.Calls())
}

func TestStore_NotReadyIsANoOp(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestStore(t, backend, &gate{})
	s.Dispatch(SetTasks{Tasks: []api.Task{{ID: "a"}}})
	before := s.Get()

	_, err := s.AddTask(context.Background(), api.TaskInput{Title: "x"})
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = s.ToggleComplete(context.Background(), "a")
	assert.ErrorIs(t, err, ErrNotReady)
	_, _, err = s.AddContext(context.Background(), "@home")
	assert.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, s.DeleteProject(context.Background(), "p"), ErrNotReady)
	assert.ErrorIs(t, s.Refresh(context.Background()), ErrNotReady)

	assert.Equal(t, before, s.Get())
	assert.Empty(t, backend.Calls())
}

func TestStore_EmptyTitleRejected(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestStore(t, backend, readyGate())

	_, err := s.AddTask(context.Background(), api.TaskInput{Title: "   "})
	require.ErrorIs(t, err, ErrEmptyName)
	_, err = s.AddProject(context.Background(), "", "")
	require.ErrorIs(t, err, ErrEmptyName)
	assert.Empty(t, s.Get().Tasks)
	assert.Empty(t, backend.Calls())
}

func TestStore_DeleteTaskWaitsForServer(t *testing.T) {
	release := make(chan struct{})
	backend := &fakeBackend{
		deleteTask: func(string) error {
			<-release
			return nil
		},
	}
	s := newTestStore(t, backend, readyGate())
	s.Dispatch(SetTasks{Tasks: []api.Task{{ID: "a"}, {ID: "b"}}})

	done := make(chan error, 1)
	go func() { done <- s.DeleteTask(context.Background(), "a") }()

	require.Eventually(t, func() bool { return len(backend.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Len(t, s.Get().Tasks, 2)

	close(release)
	require.NoError(t, <-done)
	tasks := s.Get().Tasks
	require.Len(t, tasks, 1)
	assert.Equal(t, "b", tasks[0].ID)
}

func TestStore_DeleteFailureKeepsRecords(t *testing.T) {
	backend := &fakeBackend{
		deleteTask:    func(string) error { return serverError() },
		deleteProject: func(string) error { return serverError() },
		deleteContext: func(string) error { return serverError() },
	}
	s := newTestStore(t, backend, readyGate())
	s.Dispatch(SetProjects{Projects: []api.Project{{ID: "p1"}}})
	s.Dispatch(SetContexts{Contexts: []api.NextAction{{ID: "c1"}}})
	s.Dispatch(SetTasks{Tasks: []api.Task{{ID: "a", ProjectID: "p1", NextActionID: "c1"}}})
	before := s.Get()

	assert.Error(t, s.DeleteTask(context.Background(), "a"))
	assert.Error(t, s.DeleteProject(context.Background(), "p1"))
	assert.Error(t, s.DeleteContext(context.Background(), "c1"))
	assert.Equal(t, before, s.Get())
}

func TestStore_DeleteProjectAndContext(t *testing.T) {
	backend := &fakeBackend{
		deleteProject: func(string) error { return nil },
		deleteContext: func(string) error { return nil },
	}
	s := newTestStore(t, backend, readyGate())
	s.Dispatch(SetProjects{Projects: []api.Project{{ID: "p1"}, {ID: "p2"}}})
	s.Dispatch(SetContexts{Contexts: []api.NextAction{{ID: "c1"}}})
	s.Dispatch(SetTasks{Tasks: []api.Task{
		{ID: "a", ProjectID: "p1"},
		{ID: "b", ProjectID: "p2", NextActionID: "c1"},
	}})

	require.NoError(t, s.DeleteProject(context.Background(), "p1"))
	require.NoError(t, s.DeleteContext(context.Background(), "c1"))

	got := s.Get()
	require.Len(t, got.Projects, 1)
	assert.Empty(t, got.Contexts)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "b", got.Tasks[0].ID)
	assert.False(t, got.Tasks[0].NextActionID.IsSet())
}

func TestStore_AddProjectRemapsTasksFiledWhilePending(t *testing.T) {
	release := make(chan struct{})
	backend := &fakeBackend{
		createProject: func(in api.ProjectInput) (api.Project, error) {
			<-release
			return api.Project{ID: "s1", Name: in.Name}, nil
		},
	}
	s := newTestStore(t, backend, readyGate())
	s.Dispatch(SetTasks{Tasks: []api.Task{{ID: "a"}}})

	done := make(chan error, 1)
	go func() {
		_, err := s.AddProject(context.Background(), "Garden", "")
		done <- err
	}()

	require.Eventually(t, func() bool { return len(s.Get().Projects) == 1 }, time.Second, 5*time.Millisecond)
	tempID := s.Get().Projects[0].ID
	require.True(t, IsTempID(tempID))
	s.Dispatch(UpdateTask{Task: api.Task{ID: "a", ProjectID: api.Ref(tempID)}})

	close(release)
	require.NoError(t, <-done)

	task, _ := s.Task("a")
	assert.Equal(t, api.Ref("s1"), task.ProjectID)
	project, ok := s.Project("s1")
	require.True(t, ok)
	assert.False(t, project.Optimistic)
}

func TestStore_AddProjectFailureClearsReferences(t *testing.T) {
	release := make(chan struct{})
	backend := &fakeBackend{
		createProject: func(api.ProjectInput) (api.Project, error) {
			<-release
			return api.Project{}, serverError()
		},
	}
	s := newTestStore(t, backend, readyGate())
	s.Dispatch(SetTasks{Tasks: []api.Task{{ID: "a"}}})

	done := make(chan error, 1)
	go func() {
		_, err := s.AddProject(context.Background(), "Garden", "")
		done <- err
	}()

	require.Eventually(t, func() bool { return len(s.Get().Projects) == 1 }, time.Second, 5*time.Millisecond)
	tempID := s.Get().Projects[0].ID
	s.Dispatch(UpdateTask{Task: api.Task{ID: "a", ProjectID: api.Ref(tempID)}})

	close(release)
	require.Error(t, <-done)

	got := s.Get()
	assert.Empty(t, got.Projects)
	assert.False(t, got.Tasks[0].ProjectID.IsSet())
}

func TestStore_UpdateProjectAndContext(t *testing.T) {
	backend := &fakeBackend{
		updateProject: func(p api.Project) (api.Project, error) { return p, nil },
		updateContext: func(api.NextAction) (api.NextAction, error) { return api.NextAction{}, serverError() },
	}
	s := newTestStore(t, backend, readyGate())
	s.Dispatch(SetProjects{Projects: []api.Project{{ID: "p1", Name: "Old"}}})
	s.Dispatch(SetContexts{Contexts: []api.NextAction{{ID: "c1", ContextName: "@home"}}})

	_, err := s.UpdateProject(context.Background(), api.Project{ID: "p1", Name: "New"})
	require.NoError(t, err)
	p, _ := s.Project("p1")
	assert.Equal(t, "New", p.Name)
	assert.False(t, p.Optimistic)

	_, err = s.UpdateContext(context.Background(), api.NextAction{ID: "c1", ContextName: "@office"})
	require.Error(t, err)
	c, _ := s.Context("c1")
	assert.Equal(t, "@home", c.ContextName)
}

func TestStore_AddContextDuplicateReturnsExisting(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestStore(t, backend, readyGate())
	s.Dispatch(SetContexts{Contexts: []api.NextAction{{ID: "c1", ContextName: "@phone"}}})

	got, created, err := s.AddContext(context.Background(), "  @phone ")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "c1", got.ID)
	assert.Len(t, s.Get().Contexts, 1)
	assert.Empty(t, backend.Calls())
}

func TestStore_AddContextCreates(t *testing.T) {
	backend := &fakeBackend{
		createContext: func(in api.NextActionInput) (api.NextAction, error) {
			return api.NextAction{ID: "n1", ContextName: in.ContextName}, nil
		},
	}
	s := newTestStore(t, backend, readyGate())

	got, created, err := s.AddContext(context.Background(), "@errands")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "n1", got.ID)

	c, ok := s.Context("n1")
	require.True(t, ok)
	assert.Equal(t, "n1", c.ID)
	assert.False(t, c.Optimistic)
}

func TestStore_AddContextFailureReverts(t *testing.T) {
	backend := &fakeBackend{
		createContext: func(api.NextActionInput) (api.NextAction, error) {
			return api.NextAction{}, api.ErrMalformed
		},
	}
	s := newTestStore(t, backend, readyGate())

	_, created, err := s.AddContext(context.Background(), "@errands")
	require.ErrorIs(t, err, api.ErrMalformed)
	assert.False(t, created)
	assert.Empty(t, s.Get().Contexts)
}

func TestStore_RefreshReplacesEverything(t *testing.T) {
	backend := &fakeBackend{
		tasks:    func() ([]api.Task, error) { return []api.Task{{ID: "t1"}, {ID: "t2"}}, nil },
		projects: func() ([]api.Project, error) { return []api.Project{{ID: "p1"}}, nil },
		contexts: func() ([]api.NextAction, error) { return []api.NextAction{{ID: "c1"}}, nil },
	}
	s := newTestStore(t, backend, readyGate())
	s.Dispatch(SetTasks{Tasks: []api.Task{{ID: "stale"}}})

	require.NoError(t, s.Refresh(context.Background()))

	got := s.Get()
	assert.Len(t, got.Tasks, 2)
	assert.Len(t, got.Projects, 1)
	assert.Len(t, got.Contexts, 1)
	assert.False(t, got.Loading)
}

func TestStore_RefreshSetsLoadingWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	backend := &fakeBackend{
		tasks: func() ([]api.Task, error) {
			<-release
			return nil, nil
		},
		projects: func() ([]api.Project, error) { return nil, nil },
		contexts: func() ([]api.NextAction, error) { return nil, nil },
	}
	s := newTestStore(t, backend, readyGate())

	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background()) }()

	require.Eventually(t, func() bool { return s.Get().Loading }, time.Second, 5*time.Millisecond)
	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Get().Loading)
}

func TestStore_RefreshPartialFailureKeepsState(t *testing.T) {
	backend := &fakeBackend{
		tasks:    func() ([]api.Task, error) { return []api.Task{{ID: "new"}}, nil },
		projects: func() ([]api.Project, error) { return nil, serverError() },
		contexts: func() ([]api.NextAction, error) { return nil, nil },
	}
	s := newTestStore(t, backend, readyGate())
	s.Dispatch(SetTasks{Tasks: []api.Task{{ID: "old"}}})

	err := s.Refresh(context.Background())
	require.ErrorIs(t, err, api.ErrServer)

	got := s.Get()
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "old", got.Tasks[0].ID)
	assert.False(t, got.Loading)
}

func TestStore_RefreshDiscardedAfterSignOut(t *testing.T) {
	g := readyGate()
	backend := &fakeBackend{
		tasks: func() ([]api.Task, error) {
			g.ready.Store(false)
			return []api.Task{{ID: "t1"}}, nil
		},
		projects: func() ([]api.Project, error) { return nil, nil },
		contexts: func() ([]api.NextAction, error) { return nil, nil },
	}
	s := newTestStore(t, backend, g)

	require.ErrorIs(t, s.Refresh(context.Background()), ErrNotReady)
	assert.Empty(t, s.Get().Tasks)
}

func TestStore_ClearEmptiesWithoutNetwork(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestStore(t, backend, readyGate())
	s.Dispatch(SetTasks{Tasks: []api.Task{{ID: "a"}}})
	s.Dispatch(SetLoading{Loading: true})

	s.Clear()

	got := s.Get()
	assert.Empty(t, got.Tasks)
	assert.False(t, got.Loading)
	assert.Empty(t, backend.Calls())
}

func TestStore_GetReturnsIndependentCopy(t *testing.T) {
	s := newTestStore(t, &fakeBackend{}, readyGate())
	s.Dispatch(SetTasks{Tasks: []api.Task{{ID: "a", Title: "one"}}})

	snap := s.Get()
	snap.Tasks[0].Title = "changed"

	task, _ := s.Task("a")
	assert.Equal(t, "one", task.Title)
}

func TestNewTempID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewTempID()
		require.True(t, IsTempID(id), id)
		require.False(t, seen[id], "duplicate temp id %s", id)
		seen[id] = true
	}
	assert.False(t, IsTempID("srv-1"))
}
