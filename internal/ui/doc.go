// Package ui implements the flowdo terminal interface with Bubble Tea.
//
// The model never mutates task data itself. Every edit is issued as a tea.Cmd
// that calls the optimistic operations on state.Store off the UI goroutine;
// the store applies the optimistic change immediately, and the model picks it
// up on its next tick by copying store.Get() into its snapshot. Operation
// results come back as messages that only update the status line.
//
// Views:
//
//   - Inbox: active tasks with no project and no context, grouped by due date
//   - Today: tasks due today or overdue
//   - Projects: project list; enter narrows to one project's tasks
//   - Contexts: next-action list; enter narrows to one context's tasks
//   - Assistant: a chat with the backend assistant; each reply triggers a
//     store refresh because the assistant may edit tasks server-side
//
// Press C in any list view to see completed tasks, and u right after
// completing a task to reopen it.
package ui
