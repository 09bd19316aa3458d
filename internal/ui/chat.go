package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/flowdo/internal/api"
)

type chatRole int

const (
	roleUser chatRole = iota
	roleAssistant
	roleNotice
)

type chatLine struct {
	role chatRole
	text string
}

// chatState holds the assistant conversation. Only one request is in flight
// at a time; seq identifies it so late replies to a cancelled request are
// dropped.
type chatState struct {
	input      textinput.Model
	viewport   viewport.Model
	transcript []chatLine
	busy       bool
	seq        int
	cancel     context.CancelFunc
}

func newChatState() chatState {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "Ask the assistant, e.g. \"plan my afternoon\""
	ti.CharLimit = 2000
	return chatState{
		input:    ti,
		viewport: viewport.New(0, 0),
	}
}

func (c *chatState) resize(width, height int) {
	c.input.Width = max(width-6, 10)
	// The input line and its spacer sit below the transcript.
	c.viewport.Width = width
	c.viewport.Height = max(height-2, 1)
}

func (c *chatState) focus() tea.Cmd {
	return c.input.Focus()
}

func (c *chatState) blur() {
	c.input.Blur()
}

// stop cancels the in-flight request, if any.
func (c *chatState) stop() bool {
	if !c.busy {
		return false
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.busy = false
	c.seq++
	return true
}

func (c *chatState) add(role chatRole, text string) {
	c.transcript = append(c.transcript, chatLine{role: role, text: text})
}

// handleChatKey routes keys while the assistant view is open. Printable keys
// belong to the input, so only control keys act globally here.
func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.chat.stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape):
		if m.chat.stop() {
			m.chat.add(roleNotice, "Request cancelled.")
			m.refreshTranscript()
			return m, nil
		}
		return m.switchView(viewInbox)
	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		next, _ := m.viewKey(msg)
		return m.switchView(next)
	case msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		m.chat.viewport, cmd = m.chat.viewport.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Confirm):
		return m.submitPrompt()
	}
	return m.updateChatInput(msg)
}

func (m Model) updateChatInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.chat.input, cmd = m.chat.input.Update(msg)
	return m, cmd
}

func (m Model) submitPrompt() (tea.Model, tea.Cmd) {
	prompt := strings.TrimSpace(m.chat.input.Value())
	if prompt == "" || m.chat.busy {
		return m, nil
	}
	if m.assistant == nil {
		m.chat.add(roleNotice, "The assistant is not available.")
		m.refreshTranscript()
		return m, nil
	}

	m.chat.input.SetValue("")
	m.chat.add(roleUser, prompt)
	m.chat.busy = true
	m.chat.seq++
	ctx, cancel := context.WithCancel(m.ctx)
	m.chat.cancel = cancel
	m.refreshTranscript()
	return m, assistCmd(ctx, m.assistant, m.chat.seq, prompt)
}

// handleAssistReply records the answer and re-syncs the store, since the
// assistant may have changed tasks on the server.
func (m Model) handleAssistReply(msg assistReplyMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.chat.seq || !m.chat.busy {
		return m, nil
	}
	if m.chat.cancel != nil {
		m.chat.cancel()
		m.chat.cancel = nil
	}
	m.chat.busy = false

	if msg.err != nil {
		if errors.Is(msg.err, api.ErrAborted) {
			m.chat.add(roleNotice, "Request cancelled.")
		} else {
			m.chat.add(roleNotice, errorText(msg.err))
		}
		m.refreshTranscript()
		return m, nil
	}

	m.chat.add(roleAssistant, msg.reply)
	m.refreshTranscript()
	if m.store == nil {
		return m, nil
	}
	return m, m.refreshCmd()
}

func (m *Model) refreshTranscript() {
	m.chat.viewport.SetContent(m.renderTranscript())
	m.chat.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	styles := m.theme.Styles()
	width := max(m.chat.viewport.Width-2, 20)
	body := lipgloss.NewStyle().Width(width).PaddingLeft(2)

	if len(m.chat.transcript) == 0 {
		return styles.FaintText.Render("Ask about your tasks. The assistant can add, move and complete them for you.")
	}

	var b strings.Builder
	for i, line := range m.chat.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch line.role {
		case roleUser:
			b.WriteString(styles.AccentText.Bold(true).Render("You"))
			b.WriteString("\n")
			b.WriteString(body.Render(styles.Text.Render(line.text)))
		case roleAssistant:
			b.WriteString(styles.SuccessText.Bold(true).Render("Assistant"))
			b.WriteString("\n")
			b.WriteString(body.Render(styles.Text.Render(line.text)))
		default:
			b.WriteString(styles.WarningText.Render(line.text))
		}
	}
	if m.chat.busy {
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render("Thinking... (esc to cancel)"))
	}
	return b.String()
}

func (m Model) renderChat() string {
	return m.chat.viewport.View() + "\n\n" + m.chat.input.View()
}
