package ui

import (
	"time"

	"github.com/five82/flowdo/internal/api"
	"github.com/five82/flowdo/internal/state"
)

type view int

const (
	viewInbox view = iota
	viewToday
	viewProjects
	viewContexts
	viewChat
)

var viewTitles = []string{"Inbox", "Today", "Projects", "Contexts", "Assistant"}

func (v view) String() string {
	if int(v) >= 0 && int(v) < len(viewTitles) {
		return viewTitles[v]
	}
	return "?"
}

// viewFromName maps a start_view preference to a view. Unknown names fall
// back to the inbox.
func viewFromName(name string) view {
	switch name {
	case "today":
		return viewToday
	case "projects":
		return viewProjects
	case "contexts":
		return viewContexts
	case "chat", "assistant":
		return viewChat
	default:
		return viewInbox
	}
}

type rowKind int

const (
	rowHeader rowKind = iota
	rowTask
	rowProject
	rowContext
)

type row struct {
	kind    rowKind
	label   string
	task    api.Task
	project api.Project
	context api.NextAction
	count   int
}

func (r row) selectable() bool {
	return r.kind != rowHeader
}

// scope narrows the projects and contexts views to one entry's tasks.
type scope struct {
	projectID string
	contextID string
}

func buildRows(s state.State, v view, sc scope, showCompleted bool, now time.Time) []row {
	if showCompleted && v != viewChat {
		return taskRows(state.CompletedTasks(s), "Completed")
	}

	switch v {
	case viewInbox:
		return groupedRows(state.InboxTasks(s), now)
	case viewToday:
		return groupedRows(state.TodayTasks(s, now), now)
	case viewProjects:
		if sc.projectID != "" {
			return groupedRows(state.TasksByProject(s, sc.projectID), now)
		}
		rows := make([]row, 0, len(s.Projects))
		for _, p := range s.Projects {
			rows = append(rows, row{kind: rowProject, label: p.Name, project: p, count: len(state.TasksByProject(s, p.ID))})
		}
		return rows
	case viewContexts:
		if sc.contextID != "" {
			return groupedRows(state.TasksByContext(s, sc.contextID), now)
		}
		rows := make([]row, 0, len(s.Contexts))
		for _, c := range s.Contexts {
			rows = append(rows, row{kind: rowContext, label: c.ContextName, context: c, count: len(state.TasksByContext(s, c.ID))})
		}
		return rows
	default:
		return nil
	}
}

func groupedRows(tasks []api.Task, now time.Time) []row {
	var rows []row
	for _, g := range state.GroupByDueDate(tasks, now) {
		rows = append(rows, taskRows(g.Tasks, g.Label)...)
	}
	return rows
}

func taskRows(tasks []api.Task, header string) []row {
	if len(tasks) == 0 {
		return nil
	}
	rows := make([]row, 0, len(tasks)+1)
	rows = append(rows, row{kind: rowHeader, label: header, count: len(tasks)})
	for _, t := range tasks {
		rows = append(rows, row{kind: rowTask, label: t.Title, task: t})
	}
	return rows
}

// selectableIndexes returns the positions in rows the cursor may land on.
func selectableIndexes(rows []row) []int {
	var idx []int
	for i, r := range rows {
		if r.selectable() {
			idx = append(idx, i)
		}
	}
	return idx
}
