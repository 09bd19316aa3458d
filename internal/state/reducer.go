package state

import (
	"fmt"

	"github.com/five82/flowdo/internal/api"
)

// State is the cached view of the backend for one session.
type State struct {
	Tasks    []api.Task
	Projects []api.Project
	Contexts []api.NextAction
	Loading  bool
}

// Clone returns a deep copy whose slices can be modified freely.
func (s State) Clone() State {
	return State{
		Tasks:    cloneSlice(s.Tasks),
		Projects: cloneSlice(s.Projects),
		Contexts: cloneSlice(s.Contexts),
		Loading:  s.Loading,
	}
}

// Reduce returns the state that results from applying a to s. It never
// modifies s; unchanged collections are shared with the result.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetTasks:
		s.Tasks = cloneSlice(a.Tasks)
	case SetProjects:
		s.Projects = cloneSlice(a.Projects)
	case SetContexts:
		s.Contexts = cloneSlice(a.Contexts)
	case SetLoading:
		s.Loading = a.Loading
	case Reset:
		return State{}

	case AddTaskOptimistic:
		s.Tasks = appendCopy(s.Tasks, a.Task)
	case AddProjectOptimistic:
		s.Projects = appendCopy(s.Projects, a.Project)
	case AddContextOptimistic:
		if _, exists := findContextByName(s.Contexts, a.Context.ContextName); exists {
			return s
		}
		s.Contexts = appendCopy(s.Contexts, a.Context)

	case ReplaceTask:
		s.Tasks = mapSlice(s.Tasks, func(t api.Task) api.Task {
			if t.ID == a.TempID {
				return a.Task
			}
			return t
		})
	case ReplaceProject:
		s.Projects = mapSlice(s.Projects, func(p api.Project) api.Project {
			if p.ID == a.TempID {
				return a.Project
			}
			return p
		})
		s.Tasks = repointProject(s.Tasks, a.TempID, api.Ref(a.Project.ID))
	case ReplaceContext:
		s.Contexts = mapSlice(s.Contexts, func(c api.NextAction) api.NextAction {
			if c.ID == a.TempID {
				return a.Context
			}
			return c
		})
		s.Tasks = repointContext(s.Tasks, a.TempID, api.Ref(a.Context.ID))

	case RevertTask:
		s.Tasks = filterSlice(s.Tasks, func(t api.Task) bool { return t.ID != a.TempID })
	case RevertProject:
		s.Projects = filterSlice(s.Projects, func(p api.Project) bool { return p.ID != a.TempID })
		s.Tasks = repointProject(s.Tasks, a.TempID, "")
	case RevertContext:
		s.Contexts = filterSlice(s.Contexts, func(c api.NextAction) bool { return c.ID != a.TempID })
		s.Tasks = repointContext(s.Tasks, a.TempID, "")

	case UpdateTask:
		s.Tasks = mapSlice(s.Tasks, func(t api.Task) api.Task {
			if t.ID != a.Task.ID {
				return t
			}
			next := a.Task
			if next.CreatedAt == "" {
				next.CreatedAt = t.CreatedAt
			}
			return next
		})
	case UpdateProject:
		s.Projects = mapSlice(s.Projects, func(p api.Project) api.Project {
			if p.ID != a.Project.ID {
				return p
			}
			next := a.Project
			if next.CreatedAt == "" {
				next.CreatedAt = p.CreatedAt
			}
			return next
		})
	case UpdateContext:
		s.Contexts = mapSlice(s.Contexts, func(c api.NextAction) api.NextAction {
			if c.ID != a.Context.ID {
				return c
			}
			next := a.Context
			if next.CreatedAt == "" {
				next.CreatedAt = c.CreatedAt
			}
			return next
		})

	case DeleteTask:
		s.Tasks = filterSlice(s.Tasks, func(t api.Task) bool { return t.ID != a.ID })
	case DeleteProjectAndTasks:
		s.Projects = filterSlice(s.Projects, func(p api.Project) bool { return p.ID != a.ID })
		s.Tasks = filterSlice(s.Tasks, func(t api.Task) bool { return string(t.ProjectID) != a.ID })
	case DeleteContext:
		s.Contexts = filterSlice(s.Contexts, func(c api.NextAction) bool { return c.ID != a.ID })
		s.Tasks = repointContext(s.Tasks, a.ID, "")

	case ToggleTask:
		s.Tasks = mapSlice(s.Tasks, func(t api.Task) api.Task {
			if t.ID == a.ID {
				t.Completed = !t.Completed
			}
			return t
		})

	default:
		panic(fmt.Sprintf("state: unhandled action %T", a))
	}
	return s
}

func repointProject(tasks []api.Task, from string, to api.Ref) []api.Task {
	return mapSlice(tasks, func(t api.Task) api.Task {
		if string(t.ProjectID) == from {
			t.ProjectID = to
		}
		return t
	})
}

func repointContext(tasks []api.Task, from string, to api.Ref) []api.Task {
	return mapSlice(tasks, func(t api.Task) api.Task {
		if string(t.NextActionID) == from {
			t.NextActionID = to
		}
		return t
	})
}

func findContextByName(contexts []api.NextAction, name string) (api.NextAction, bool) {
	for _, c := range contexts {
		if c.ContextName == name {
			return c, true
		}
	}
	return api.NextAction{}, false
}

func cloneSlice[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}

func appendCopy[T any](items []T, item T) []T {
	dup := make([]T, len(items), len(items)+1)
	copy(dup, items)
	return append(dup, item)
}

func mapSlice[T any](items []T, fn func(T) T) []T {
	if len(items) == 0 {
		return items
	}
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}

func filterSlice[T any](items []T, keep func(T) bool) []T {
	if len(items) == 0 {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
