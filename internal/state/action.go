package state

import "github.com/five82/flowdo/internal/api"

// Action is a state transition understood by Reduce. The set of actions is
// closed: only types in this package implement it.
type Action interface {
	action()
}

// Bulk replace, used by Refresh.
type (
	SetTasks    struct{ Tasks []api.Task }
	SetProjects struct{ Projects []api.Project }
	SetContexts struct{ Contexts []api.NextAction }
)

// SetLoading toggles the loading flag.
type SetLoading struct{ Loading bool }

// Reset empties every collection and clears loading. Dispatched on sign-out.
type Reset struct{}

// Optimistic inserts. The record carries a temporary ID.
type (
	AddTaskOptimistic    struct{ Task api.Task }
	AddProjectOptimistic struct{ Project api.Project }
	// AddContextOptimistic is dropped when a context with the same name exists.
	AddContextOptimistic struct{ Context api.NextAction }
)

// Replace-on-confirm: swap the temporary record for the server's.
type (
	ReplaceTask struct {
		TempID string
		Task   api.Task
	}
	// ReplaceProject also repoints tasks that referenced TempID.
	ReplaceProject struct {
		TempID  string
		Project api.Project
	}
	// ReplaceContext also repoints tasks that referenced TempID.
	ReplaceContext struct {
		TempID  string
		Context api.NextAction
	}
)

// Revert-on-failure: drop the temporary record and any reference to it.
type (
	RevertTask    struct{ TempID string }
	RevertProject struct{ TempID string }
	RevertContext struct{ TempID string }
)

// In-place updates merged into the record with the same ID.
type (
	UpdateTask    struct{ Task api.Task }
	UpdateProject struct{ Project api.Project }
	UpdateContext struct{ Context api.NextAction }
)

// Deletes.
type (
	DeleteTask struct{ ID string }
	// DeleteProjectAndTasks removes the project and every task filed under it.
	DeleteProjectAndTasks struct{ ID string }
	// DeleteContext removes the context and clears it from tasks, which survive.
	DeleteContext struct{ ID string }
)

// ToggleTask flips a task's completed flag. Applying it twice is a no-op.
type ToggleTask struct{ ID string }

func (SetTasks) action()              {}
func (SetProjects) action()           {}
func (SetContexts) action()           {}
func (SetLoading) action()            {}
func (Reset) action()                 {}
func (AddTaskOptimistic) action()     {}
func (AddProjectOptimistic) action()  {}
func (AddContextOptimistic) action()  {}
func (ReplaceTask) action()           {}
func (ReplaceProject) action()        {}
func (ReplaceContext) action()        {}
func (RevertTask) action()            {}
func (RevertProject) action()         {}
func (RevertContext) action()         {}
func (UpdateTask) action()            {}
func (UpdateProject) action()         {}
func (UpdateContext) action()         {}
func (DeleteTask) action()            {}
func (DeleteProjectAndTasks) action() {}
func (DeleteContext) action()         {}
func (ToggleTask) action()            {}
