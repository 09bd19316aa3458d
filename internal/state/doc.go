// Package state holds flowdo's local copy of the user's tasks, projects and
// contexts and keeps it in sync with the backend.
//
// # Reducer
//
// Every change is an [Action] applied by [Reduce]. The action set is closed
// (the interface has an unexported method), and Reduce builds new slices
// instead of modifying the ones it was given, so a [State] returned by
// [Store.Get] is never changed behind the caller's back.
//
// # Store
//
// [Store] serializes dispatches behind a sync.RWMutex. [Store.Get] returns
// a copy that reflects every dispatch made so far, optimistic ones included.
// Undo handlers and other multi-step callers read through it rather than
// holding on to an older copy.
//
// # Optimistic operations
//
// Network-bound operations follow one of three shapes:
//
//   - Create (AddTask, AddProject, AddContext): insert a record with a
//     temporary ID (see [NewTempID]), call the backend, then swap in the
//     server record or remove the temporary one. Confirming a project or
//     context repoints tasks that referenced the temporary ID. Reverting
//     clears those references.
//   - Update (UpdateTask, ToggleComplete, MoveTask, UpdateProject,
//     UpdateContext): remember the current record, apply the change, call
//     the backend, then keep the server's record or put the remembered one
//     back. A failed toggle is undone by toggling again.
//   - Delete (DeleteTask, DeleteProject, DeleteContext): call the backend
//     first and remove locally only after it succeeds. Deleting a project
//     removes its tasks. Deleting a context only clears the reference.
//
// Operations block until the backend answers, but the optimistic change is
// visible to other goroutines as soon as it is dispatched. Requests are
// detached from the caller's context, so once started they always reach
// the confirm or revert step; the client's request timeout bounds them.
//
// When the [Gate] reports the session is not ready, operations log, return
// [ErrNotReady] and leave the state untouched.
//
// Two updates to the same record in flight at once are not serialized. The
// response that arrives last decides the final record.
//
// # Refresh
//
// [Store.Refresh] fetches the three collections concurrently and replaces
// them together. [Store.Clear] empties everything on sign-out.
//
// # Selectors
//
// Functions such as [TasksByProject], [InboxTasks] and [GroupByDueDate] are
// pure reads over a State. Within any group tasks are sorted by priority,
// then by due date.
package state
