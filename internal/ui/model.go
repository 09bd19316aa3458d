package ui

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/flowdo/internal/api"
	"github.com/five82/flowdo/internal/prefs"
	"github.com/five82/flowdo/internal/session"
	"github.com/five82/flowdo/internal/state"
)

// Assistant answers free-form prompts; the backend may act on the user's
// tasks while doing so.
type Assistant interface {
	Assist(ctx context.Context, prompt string) (string, error)
}

// SessionView is the read side of the session the header reports on.
type SessionView interface {
	Status() session.Status
	User() (session.User, bool)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Session   SessionView
	Assistant Assistant
	Logger    *log.Logger
	Tick      time.Duration
	ThemeName string
	StartView string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	session   SessionView
	assistant Assistant
	logger    *log.Logger
	prefsPath string
	tick      time.Duration
	now       func() time.Time

	// UI state
	keys     keyMap
	theme    Theme
	view     view
	width    int
	height   int
	ready    bool
	showHelp bool
	modal    Modal

	// Data state
	snap state.State

	// List state
	cursor        int
	scope         scope
	showCompleted bool

	// Status line
	status    string
	statusErr bool

	// Last completed task, for undo.
	undoID string

	chat chatState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		session:   opts.Session,
		assistant: opts.Assistant,
		logger:    logger,
		prefsPath: prefsPath,
		tick:      tick,
		now:       time.Now,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.ThemeName),
		view:      viewFromName(opts.StartView),
		chat:      newChatState(),
	}
	m.syncSnapshot()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.chat.resize(m.width, m.bodyHeight())
		return m, nil

	case tickMsg:
		m.syncSnapshot()
		return m, tickCmd(m.tick)

	case opDoneMsg:
		m.syncSnapshot()
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus(msg.label)
		}
		return m, nil

	case toggledMsg:
		m.syncSnapshot()
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if msg.completed {
			m.undoID = msg.taskID
			m.setStatus("Completed " + quote(msg.title) + ", press u to undo")
		} else {
			m.undoID = ""
			m.setStatus("Reopened " + quote(msg.title))
		}
		return m, nil

	case assistReplyMsg:
		return m.handleAssistReply(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}
	if m.view == viewChat {
		return m.updateChatInput(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

func (m *Model) syncSnapshot() {
	if m.store == nil {
		return
	}
	m.snap = m.store.Get()
	m.clampCursor()
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = errorText(err)
	m.statusErr = true
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd, closed := m.modal.Update(msg, m.keys)
	if closed {
		m.modal = nil
	} else {
		m.modal = next
	}
	return m, cmd
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.modal != nil {
		return m.updateModal(msg)
	}
	if m.view == viewChat {
		return m.handleChatKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("Syncing...")
		return m, m.refreshCmd()
	}

	if next, ok := m.viewKey(msg); ok {
		return m.switchView(next)
	}

	return m.handleListKey(msg)
}

// viewKey maps tab cycling and the number keys to a target view.
func (m Model) viewKey(msg tea.KeyMsg) (view, bool) {
	switch {
	case key.Matches(msg, m.keys.Tab):
		return (m.view + 1) % view(len(viewTitles)), true
	case key.Matches(msg, m.keys.ShiftTab):
		return (m.view + view(len(viewTitles)) - 1) % view(len(viewTitles)), true
	case key.Matches(msg, m.keys.ViewInbox):
		return viewInbox, true
	case key.Matches(msg, m.keys.ViewToday):
		return viewToday, true
	case key.Matches(msg, m.keys.ViewProjects):
		return viewProjects, true
	case key.Matches(msg, m.keys.ViewContexts):
		return viewContexts, true
	case key.Matches(msg, m.keys.ViewChat):
		return viewChat, true
	}
	return m.view, false
}

func (m Model) switchView(next view) (tea.Model, tea.Cmd) {
	m.view = next
	m.scope = scope{}
	m.cursor = 0
	m.showCompleted = false
	m.clampCursor()
	if next == viewChat {
		return m, m.chat.focus()
	}
	m.chat.blur()
	return m, nil
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	p := prefs.Load(m.prefsPath)
	p.Theme = m.theme.Name
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Printf("save prefs: %v", err)
	}
}

func (m Model) rows() []row {
	return buildRows(m.snap, m.view, m.scope, m.showCompleted, m.now())
}

// selected returns the row under the cursor.
func (m Model) selected() (row, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) || !rows[m.cursor].selectable() {
		return row{}, false
	}
	return rows[m.cursor], true
}

func (m Model) selectedTask() (row, bool) {
	r, ok := m.selected()
	if !ok || r.kind != rowTask {
		return row{}, false
	}
	return r, true
}

// clampCursor keeps the cursor on a selectable row after the list changes.
func (m *Model) clampCursor() {
	idx := selectableIndexes(m.rows())
	if len(idx) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor <= idx[0] {
		m.cursor = idx[0]
		return
	}
	last := idx[len(idx)-1]
	if m.cursor >= last {
		m.cursor = last
		return
	}
	for _, i := range idx {
		if i >= m.cursor {
			m.cursor = i
			return
		}
	}
}

// moveCursor steps delta selectable rows, skipping group headers.
func (m *Model) moveCursor(delta int) {
	idx := selectableIndexes(m.rows())
	if len(idx) == 0 {
		return
	}
	pos := 0
	for i, v := range idx {
		if v == m.cursor {
			pos = i
			break
		}
	}
	pos += delta
	if pos < 0 {
		pos = 0
	}
	if pos >= len(idx) {
		pos = len(idx) - 1
	}
	m.cursor = idx[pos]
}

// handleListKey handles navigation and editing in the task list views.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-len(m.rows()))
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.rows()))

	case key.Matches(msg, m.keys.Escape):
		if m.showCompleted {
			m.showCompleted = false
		} else {
			m.scope = scope{}
		}
		m.cursor = 0
		m.clampCursor()

	case key.Matches(msg, m.keys.ShowCompleted):
		m.showCompleted = !m.showCompleted
		m.cursor = 0
		m.clampCursor()

	case key.Matches(msg, m.keys.Open):
		r, ok := m.selected()
		if !ok {
			break
		}
		switch r.kind {
		case rowProject:
			m.scope = scope{projectID: r.project.ID}
		case rowContext:
			m.scope = scope{contextID: r.context.ID}
		default:
			return m, nil
		}
		m.cursor = 0
		m.clampCursor()

	case key.Matches(msg, m.keys.Toggle):
		if r, ok := m.selectedTask(); ok {
			return m, m.toggleCmd(r.task)
		}

	case key.Matches(msg, m.keys.Undo):
		if m.undoID == "" {
			m.setStatus("Nothing to undo")
			return m, nil
		}
		id := m.undoID
		m.undoID = ""
		return m, m.undoCmd(id)

	case key.Matches(msg, m.keys.CyclePriority):
		if r, ok := m.selectedTask(); ok {
			return m, m.cyclePriorityCmd(r.task)
		}

	case key.Matches(msg, m.keys.Delete):
		if r, ok := m.selected(); ok {
			return m, m.deleteCmd(r)
		}

	case key.Matches(msg, m.keys.Add):
		return m.openAddPrompt()

	case key.Matches(msg, m.keys.Rename):
		return m.openRenamePrompt()

	case key.Matches(msg, m.keys.MoveToProject):
		r, ok := m.selectedTask()
		if !ok {
			break
		}
		task := r.task
		return m.openPrompt("Move to project", "Project name; created when missing", state.ProjectName(m.snap, task.ProjectID),
			func(name string) tea.Cmd { return m.moveToProjectCmd(task, name) })

	case key.Matches(msg, m.keys.MoveToContext):
		r, ok := m.selectedTask()
		if !ok {
			break
		}
		task := r.task
		return m.openPrompt("Move to context", "Context name, e.g. @home", state.ContextName(m.snap, task.NextActionID),
			func(name string) tea.Cmd { return m.moveToContextCmd(task, name) })
	}
	return m, nil
}

// openAddPrompt adds whatever the current list holds.
func (m Model) openAddPrompt() (tea.Model, tea.Cmd) {
	switch {
	case m.view == viewProjects && m.scope.projectID == "":
		return m.openPrompt("New project", "", "", m.addProjectCmd)
	case m.view == viewContexts && m.scope.contextID == "":
		return m.openPrompt("New context", "e.g. @errands", "", m.addContextCmd)
	}
	hint := "Lands in the inbox"
	switch {
	case m.view == viewToday:
		hint = "Due today"
	case m.scope.projectID != "":
		hint = "Filed under " + state.ProjectName(m.snap, api.Ref(m.scope.projectID))
	case m.scope.contextID != "":
		hint = "Filed under " + state.ContextName(m.snap, api.Ref(m.scope.contextID))
	}
	return m.openPrompt("New task", hint, "", m.addTaskCmd)
}

func (m Model) openRenamePrompt() (tea.Model, tea.Cmd) {
	r, ok := m.selected()
	if !ok {
		return m, nil
	}
	switch r.kind {
	case rowTask:
		task := r.task
		return m.openPrompt("Rename task", "", task.Title,
			func(title string) tea.Cmd { return m.renameTaskCmd(task, title) })
	case rowProject:
		p := r.project
		return m.openPrompt("Rename project", "", p.Name,
			func(name string) tea.Cmd { return m.renameProjectCmd(p, name) })
	case rowContext:
		c := r.context
		return m.openPrompt("Rename context", "", c.ContextName,
			func(name string) tea.Cmd { return m.renameContextCmd(c, name) })
	}
	return m, nil
}

func (m Model) openPrompt(title, hint, initial string, submit func(string) tea.Cmd) (tea.Model, tea.Cmd) {
	modal, cmd := newPrompt(title, hint, initial, submit)
	m.modal = modal
	return m, cmd
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	_, err := tea.NewProgram(m, progOpts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
