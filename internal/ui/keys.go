package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Refresh    key.Binding

	// View switching
	ViewInbox    key.Binding
	ViewToday    key.Binding
	ViewProjects key.Binding
	ViewContexts key.Binding
	ViewChat     key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Open   key.Binding

	// Task actions
	Toggle        key.Binding
	Undo          key.Binding
	Add           key.Binding
	Delete        key.Binding
	Rename        key.Binding
	CyclePriority key.Binding
	MoveToProject key.Binding
	MoveToContext key.Binding
	ShowCompleted key.Binding

	// Prompt/chat input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Cycle views (reverse)"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back / cancel"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh from server"),
		),

		// View switching
		ViewInbox: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Inbox"),
		),
		ViewToday: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Today"),
		),
		ViewProjects: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Projects"),
		),
		ViewContexts: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Contexts"),
		),
		ViewChat: key.NewBinding(
			key.WithKeys("5", "c"),
			key.WithHelp("5/c", "Assistant"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "l"),
			key.WithHelp("enter", "Open project/context"),
		),

		// Task actions
		Toggle: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x/Space", "Toggle complete"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Undo last completion"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete"),
		),
		Rename: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit title/name"),
		),
		CyclePriority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Cycle priority"),
		),
		MoveToProject: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Move to project"),
		),
		MoveToContext: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Move to context"),
		),
		ShowCompleted: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Show completed"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewInbox, k.ViewToday, k.ViewProjects, k.ViewContexts, k.ViewChat},
		{k.Up, k.Down, k.Top, k.Bottom, k.Open, k.Escape},
		{k.Add, k.Toggle, k.Undo, k.Rename, k.CyclePriority, k.MoveToProject, k.MoveToContext, k.Delete, k.ShowCompleted},
		{k.Refresh, k.CycleTheme, k.Help, k.Quit},
	}
}
