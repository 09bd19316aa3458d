package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/flowdo/internal/api"
	"github.com/five82/flowdo/internal/state"
)

// Messages

type tickMsg time.Time

// opDoneMsg reports the outcome of a store operation.
type opDoneMsg struct {
	label string
	err   error
}

// toggledMsg reports a completed toggle so it can be undone.
type toggledMsg struct {
	taskID    string
	title     string
	completed bool
	err       error
}

// assistReplyMsg carries the answer to chat request seq.
type assistReplyMsg struct {
	seq   int
	reply string
	err   error
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// opCmd runs fn off the UI goroutine and reports label on success.
func opCmd(ctx context.Context, label string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{label: label, err: fn(ctx)}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	return opCmd(m.ctx, "Synced", m.store.Refresh)
}

func (m Model) toggleCmd(task api.Task) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		saved, err := store.ToggleComplete(ctx, task.ID)
		return toggledMsg{taskID: task.ID, title: task.Title, completed: saved.Completed, err: err}
	}
}

// undoCmd reverses the last completion, reading the task as it is now rather
// than as it was when the toggle was issued.
func (m Model) undoCmd(taskID string) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		current, ok := store.Task(taskID)
		if !ok || !current.Completed {
			return opDoneMsg{label: "Nothing to undo"}
		}
		_, err := store.ToggleComplete(ctx, taskID)
		return opDoneMsg{label: "Restored " + quote(current.Title), err: err}
	}
}

// addTaskCmd files the new task according to where the user is looking.
func (m Model) addTaskCmd(title string) tea.Cmd {
	in := api.TaskInput{Title: title, Priority: 3, Category: api.DefaultCategory}
	switch m.view {
	case viewToday:
		in.DueDate = m.now().Format("2006-01-02")
	case viewProjects:
		in.ProjectID = api.Ref(m.scope.projectID)
	case viewContexts:
		in.NextActionID = api.Ref(m.scope.contextID)
	}
	store := m.store
	return opCmd(m.ctx, "Added "+quote(title), func(ctx context.Context) error {
		_, err := store.AddTask(ctx, in)
		return err
	})
}

func (m Model) addProjectCmd(name string) tea.Cmd {
	store := m.store
	return opCmd(m.ctx, "Created project "+quote(name), func(ctx context.Context) error {
		_, err := store.AddProject(ctx, name, "")
		return err
	})
}

func (m Model) addContextCmd(name string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		_, created, err := store.AddContext(m.ctx, name)
		label := "Created context " + quote(name)
		if err == nil && !created {
			label = "Context " + quote(name) + " already exists"
		}
		return opDoneMsg{label: label, err: err}
	}
}

func (m Model) renameTaskCmd(task api.Task, title string) tea.Cmd {
	store := m.store
	task.Title = title
	return opCmd(m.ctx, "Renamed to "+quote(title), func(ctx context.Context) error {
		_, err := store.UpdateTask(ctx, task)
		return err
	})
}

func (m Model) cyclePriorityCmd(task api.Task) tea.Cmd {
	store := m.store
	task.Priority = nextPriority(task.Priority)
	return opCmd(m.ctx, fmt.Sprintf("Priority P%d", task.Priority), func(ctx context.Context) error {
		_, err := store.UpdateTask(ctx, task)
		return err
	})
}

func (m Model) renameProjectCmd(p api.Project, name string) tea.Cmd {
	store := m.store
	p.Name = name
	return opCmd(m.ctx, "Renamed project to "+quote(name), func(ctx context.Context) error {
		_, err := store.UpdateProject(ctx, p)
		return err
	})
}

func (m Model) renameContextCmd(c api.NextAction, name string) tea.Cmd {
	store := m.store
	c.ContextName = name
	return opCmd(m.ctx, "Renamed context to "+quote(name), func(ctx context.Context) error {
		_, err := store.UpdateContext(ctx, c)
		return err
	})
}

// moveToProjectCmd files the task under the project with that name,
// creating the project first when none matches.
func (m Model) moveToProjectCmd(task api.Task, name string) tea.Cmd {
	store := m.store
	return opCmd(m.ctx, "Moved to "+quote(name), func(ctx context.Context) error {
		projectID := ""
		for _, p := range store.Get().Projects {
			if strings.EqualFold(p.Name, name) {
				projectID = p.ID
				break
			}
		}
		if projectID == "" {
			created, err := store.AddProject(ctx, name, "")
			if err != nil {
				return err
			}
			projectID = created.ID
		}
		_, err := store.MoveTask(ctx, task.ID, state.MoveToProject, projectID)
		return err
	})
}

// moveToContextCmd files the task under the named context, reusing an
// existing one when the name is already taken.
func (m Model) moveToContextCmd(task api.Task, name string) tea.Cmd {
	store := m.store
	return opCmd(m.ctx, "Moved to "+quote(name), func(ctx context.Context) error {
		c, _, err := store.AddContext(ctx, name)
		if err != nil {
			return err
		}
		_, err = store.MoveTask(ctx, task.ID, state.MoveToNext, c.ID)
		return err
	})
}

func (m Model) deleteCmd(r row) tea.Cmd {
	store := m.store
	switch r.kind {
	case rowTask:
		return opCmd(m.ctx, "Deleted "+quote(r.task.Title), func(ctx context.Context) error {
			return store.DeleteTask(ctx, r.task.ID)
		})
	case rowProject:
		return opCmd(m.ctx, "Deleted project "+quote(r.project.Name), func(ctx context.Context) error {
			return store.DeleteProject(ctx, r.project.ID)
		})
	case rowContext:
		return opCmd(m.ctx, "Deleted context "+quote(r.context.ContextName), func(ctx context.Context) error {
			return store.DeleteContext(ctx, r.context.ID)
		})
	}
	return nil
}

func assistCmd(ctx context.Context, assistant Assistant, seq int, prompt string) tea.Cmd {
	return func() tea.Msg {
		reply, err := assistant.Assist(ctx, prompt)
		return assistReplyMsg{seq: seq, reply: reply, err: err}
	}
}

// nextPriority cycles 1 → 2 → 3 → 4 → 1.
func nextPriority(p int) int {
	if p < 1 || p >= 4 {
		return 1
	}
	return p + 1
}

func quote(s string) string {
	return "\"" + truncate(s, 40) + "\""
}

// errorText turns an operation error into the status line text.
func errorText(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, state.ErrNotReady):
		return "Not signed in. Run `flowdo login` first."
	case errors.Is(err, state.ErrEmptyName):
		return "A name is required."
	case errors.Is(err, state.ErrNotFound):
		return "That item is no longer here."
	}
	return api.FriendlyMessage(err)
}
