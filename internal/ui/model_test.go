package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/flowdo/internal/api"
	"github.com/five82/flowdo/internal/session"
	"github.com/five82/flowdo/internal/state"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

type fakeSession struct {
	status session.Status
	user   session.User
}

func (f fakeSession) Status() session.Status { return f.status }

func (f fakeSession) User() (session.User, bool) {
	return f.user, f.status == session.StatusReady
}

type fakeAssistant struct{}

func (fakeAssistant) Assist(context.Context, string) (string, error) { return "ok", nil }

// newTestModel builds a model over a store that is never asked to talk to a
// backend; tests only drive navigation and message handling.
func newTestModel(t *testing.T, s state.State) Model {
	t.Helper()
	store := state.NewStore(nil, nil, nil)
	store.Dispatch(state.SetTasks{Tasks: s.Tasks})
	store.Dispatch(state.SetProjects{Projects: s.Projects})
	store.Dispatch(state.SetContexts{Contexts: s.Contexts})

	m := New(Options{
		Store:     store,
		Session:   fakeSession{status: session.StatusSignedOut},
		Assistant: fakeAssistant{},
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	m.now = func() time.Time { return fixedNow }
	m.syncSnapshot()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEscape}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func sampleState() state.State {
	return state.State{
		Tasks: []api.Task{
			{ID: "t1", Title: "Buy milk", Priority: 2, Category: api.DefaultCategory},
			{ID: "t2", Title: "Call plumber", Priority: 1, Category: api.DefaultCategory, DueDate: "2026-03-10"},
			{ID: "t3", Title: "Draft outline", Priority: 3, Category: api.DefaultCategory, ProjectID: "p1"},
			{ID: "t4", Title: "Water plants", Priority: 3, Category: api.DefaultCategory, NextActionID: "c1"},
		},
		Projects: []api.Project{{ID: "p1", Name: "Book"}},
		Contexts: []api.NextAction{{ID: "c1", ContextName: "@home"}},
	}
}

func TestModel_StartsOnFirstSelectableRow(t *testing.T) {
	m := newTestModel(t, sampleState())

	rows := m.rows()
	if len(rows) == 0 || rows[0].kind != rowHeader {
		t.Fatalf("first inbox row should be a group header, got %+v", rows)
	}
	r, ok := m.selected()
	if !ok || r.task.ID != "t2" {
		t.Fatalf("selected = %+v, want task t2 (due today sorts first)", r)
	}
}

func TestModel_CursorSkipsHeaders(t *testing.T) {
	m := newTestModel(t, sampleState())

	m = press(t, m, "j")
	r, ok := m.selected()
	if !ok || r.task.ID != "t1" {
		t.Fatalf("after j selected = %+v, want t1", r)
	}
	m = press(t, m, "j", "j")
	if r, _ := m.selected(); r.task.ID != "t1" {
		t.Fatalf("cursor should stop on the last row, got %+v", r)
	}
	m = press(t, m, "g")
	if r, _ := m.selected(); r.task.ID != "t2" {
		t.Fatalf("g should go to the first task, got %+v", r)
	}
}

func TestModel_SwitchViews(t *testing.T) {
	m := newTestModel(t, sampleState())

	m = press(t, m, "3")
	if m.view != viewProjects {
		t.Fatalf("view = %v, want Projects", m.view)
	}
	m = press(t, m, "tab")
	if m.view != viewContexts {
		t.Fatalf("view after tab = %v, want Contexts", m.view)
	}
	m = press(t, m, "tab")
	if m.view != viewChat {
		t.Fatalf("view after tab = %v, want Assistant", m.view)
	}
	// Printable keys belong to the chat input; tab still leaves.
	m = press(t, m, "1")
	if m.view != viewChat || m.chat.input.Value() != "1" {
		t.Fatalf("chat should capture printable keys, view=%v input=%q", m.view, m.chat.input.Value())
	}
	m = press(t, m, "tab")
	if m.view != viewInbox {
		t.Fatalf("tab should wrap to Inbox, got %v", m.view)
	}
	m = press(t, m, "shift+tab")
	if m.view != viewChat {
		t.Fatalf("shift+tab should wrap to Assistant, got %v", m.view)
	}
}

func TestModel_OpenProjectNarrowsScope(t *testing.T) {
	m := newTestModel(t, sampleState())

	m = press(t, m, "3", "enter")
	if m.scope.projectID != "p1" {
		t.Fatalf("scope = %+v, want project p1", m.scope)
	}
	r, ok := m.selected()
	if !ok || r.task.ID != "t3" {
		t.Fatalf("selected = %+v, want t3", r)
	}
	if crumb := m.breadcrumb(); crumb != "Book" {
		t.Fatalf("breadcrumb = %q, want Book", crumb)
	}

	m = press(t, m, "esc")
	if m.scope != (scope{}) {
		t.Fatalf("esc should clear scope, got %+v", m.scope)
	}
	if r, _ := m.selected(); r.kind != rowProject {
		t.Fatalf("selected after esc = %+v, want project row", r)
	}
}

func TestModel_AddPromptOpensAndCancels(t *testing.T) {
	m := newTestModel(t, sampleState())

	m = press(t, m, "a")
	p, ok := m.modal.(*promptModal)
	if !ok {
		t.Fatalf("modal = %T, want *promptModal", m.modal)
	}
	if p.title != "New task" {
		t.Fatalf("prompt title = %q", p.title)
	}
	m = press(t, m, "esc")
	if m.modal != nil {
		t.Fatalf("esc should close the prompt")
	}

	m = press(t, m, "4", "a")
	p, ok = m.modal.(*promptModal)
	if !ok || p.title != "New context" {
		t.Fatalf("contexts view should prompt for a context, got %+v", m.modal)
	}
}

func TestModel_RenamePromptPrefillsTitle(t *testing.T) {
	m := newTestModel(t, sampleState())

	m = press(t, m, "e")
	p, ok := m.modal.(*promptModal)
	if !ok {
		t.Fatalf("modal = %T, want *promptModal", m.modal)
	}
	if got := p.input.Value(); got != "Call plumber" {
		t.Fatalf("rename prefill = %q", got)
	}
}

func TestModel_UndoTracksLastCompletion(t *testing.T) {
	m := newTestModel(t, sampleState())

	m = press(t, m, "u")
	if m.status != "Nothing to undo" {
		t.Fatalf("status = %q", m.status)
	}

	next, _ := m.Update(toggledMsg{taskID: "t1", title: "Buy milk", completed: true})
	m = next.(Model)
	if m.undoID != "t1" {
		t.Fatalf("undoID = %q, want t1", m.undoID)
	}
	if !strings.Contains(m.status, "press u to undo") {
		t.Fatalf("status = %q", m.status)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")})
	m = next.(Model)
	if cmd == nil || m.undoID != "" {
		t.Fatalf("undo should issue a command and clear undoID, cmd=%v undoID=%q", cmd, m.undoID)
	}
}

func TestModel_OperationErrorsShowFriendlyText(t *testing.T) {
	m := newTestModel(t, sampleState())

	next, _ := m.Update(opDoneMsg{label: "Added", err: state.ErrNotReady})
	m = next.(Model)
	if !m.statusErr || !strings.Contains(m.status, "flowdo login") {
		t.Fatalf("status = %q err=%v", m.status, m.statusErr)
	}

	next, _ = m.Update(opDoneMsg{label: "Added \"x\""})
	m = next.(Model)
	if m.statusErr || m.status != "Added \"x\"" {
		t.Fatalf("status = %q err=%v", m.status, m.statusErr)
	}
}

func TestModel_TickPicksUpStoreChanges(t *testing.T) {
	m := newTestModel(t, sampleState())

	m.store.Dispatch(state.AddTaskOptimistic{Task: api.Task{ID: "tmp-1", Title: "New", Priority: 3, Optimistic: true}})
	next, cmd := m.Update(tickMsg(fixedNow))
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("tick should schedule the next tick")
	}
	if len(m.snap.Tasks) != 5 {
		t.Fatalf("snapshot has %d tasks, want 5", len(m.snap.Tasks))
	}
	if state.PendingCount(m.snap) != 1 {
		t.Fatalf("pending = %d, want 1", state.PendingCount(m.snap))
	}
}

func TestModel_StaleAssistReplyIgnored(t *testing.T) {
	m := newTestModel(t, sampleState())
	m = press(t, m, "5")
	m = press(t, m, "h", "i", "enter")
	if !m.chat.busy || m.chat.seq != 1 {
		t.Fatalf("chat should be busy with seq 1, busy=%v seq=%d", m.chat.busy, m.chat.seq)
	}

	// esc cancels; a reply arriving afterwards belongs to a dead request.
	m = press(t, m, "esc")
	if m.chat.busy {
		t.Fatalf("esc should cancel the request")
	}
	next, cmd := m.Update(assistReplyMsg{seq: 1, reply: "late"})
	m = next.(Model)
	if cmd != nil {
		t.Fatalf("stale reply should not trigger a refresh")
	}
	for _, line := range m.chat.transcript {
		if line.text == "late" {
			t.Fatalf("stale reply was recorded")
		}
	}
}

func TestModel_AssistReplyTriggersRefresh(t *testing.T) {
	m := newTestModel(t, sampleState())
	m = press(t, m, "5", "h", "i", "enter")

	next, cmd := m.Update(assistReplyMsg{seq: m.chat.seq, reply: "Added 2 tasks"})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("reply should trigger a store refresh")
	}
	last := m.chat.transcript[len(m.chat.transcript)-1]
	if last.role != roleAssistant || last.text != "Added 2 tasks" {
		t.Fatalf("last transcript line = %+v", last)
	}
}

func TestModel_AssistErrorIsRecorded(t *testing.T) {
	m := newTestModel(t, sampleState())
	m = press(t, m, "5", "h", "i", "enter")

	next, cmd := m.Update(assistReplyMsg{seq: m.chat.seq, err: fmt.Errorf("assist: %w", api.ErrTimeout)})
	m = next.(Model)
	if cmd != nil {
		t.Fatalf("failed reply should not refresh")
	}
	last := m.chat.transcript[len(m.chat.transcript)-1]
	if last.role != roleNotice || last.text != api.FriendlyMessage(api.ErrTimeout) {
		t.Fatalf("last transcript line = %+v", last)
	}
}

func TestModel_ViewShowsSessionAndTasks(t *testing.T) {
	m := newTestModel(t, sampleState())

	out := m.View()
	for _, want := range []string{"signed out, run flowdo login", "Call plumber", "Buy milk", "Today"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}

	m.session = fakeSession{status: session.StatusReady, user: session.User{Email: "ada@example.com"}}
	if out := m.View(); !strings.Contains(out, "ada@example.com") {
		t.Fatalf("view missing signed-in email:\n%s", out)
	}
}

func TestModel_ShowCompletedToggle(t *testing.T) {
	s := sampleState()
	s.Tasks = append(s.Tasks, api.Task{ID: "t5", Title: "Done thing", Completed: true, UpdatedAt: "2026-03-09T10:00:00Z"})
	m := newTestModel(t, s)

	m = press(t, m, "C")
	r, ok := m.selected()
	if !ok || r.task.ID != "t5" {
		t.Fatalf("completed view selected = %+v, want t5", r)
	}
	m = press(t, m, "esc")
	if m.showCompleted {
		t.Fatalf("esc should leave the completed list")
	}
}
