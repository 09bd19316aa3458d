package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// promptModal asks for one line of text and hands it to submit.
type promptModal struct {
	title  string
	hint   string
	input  textinput.Model
	submit func(value string) tea.Cmd
}

func newPrompt(title, hint, initial string, submit func(string) tea.Cmd) (*promptModal, tea.Cmd) {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 200
	ti.Width = 48
	ti.SetValue(initial)
	ti.CursorEnd()
	focus := ti.Focus()
	return &promptModal{title: title, hint: hint, input: ti, submit: submit}, focus
}

func (p *promptModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Escape):
			return p, nil, true
		case key.Matches(km, keys.Confirm):
			value := strings.TrimSpace(p.input.Value())
			if value == "" {
				return p, nil, true
			}
			return p, p.submit(value), true
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd, false
}

func (p *promptModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(p.title))
	b.WriteString("\n\n")
	b.WriteString(p.input.View())
	if p.hint != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render(p.hint))
	}

	box := styles.Panel.Width(56).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
