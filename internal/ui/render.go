package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/flowdo/internal/api"
	"github.com/five82/flowdo/internal/session"
	"github.com/five82/flowdo/internal/state"
)

// Header, tab bar, status line and footer each take one line.
const chromeLines = 4

func (m Model) bodyHeight() int {
	return max(m.height-chromeLines, 1)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	body := m.renderBody()
	b.WriteString(lipgloss.NewStyle().Height(m.bodyHeight()).MaxHeight(m.bodyHeight()).Render(body))
	b.WriteString("\n")

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	left := styles.AccentText.Bold(true).Render("flowdo")
	right := m.sessionLabel()
	if m.snap.Loading {
		right = styles.InfoText.Render("syncing ") + right
	}
	if n := state.PendingCount(m.snap); n > 0 {
		right = styles.WarningText.Render(pluralize(n, "pending change")+" ") + right
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) sessionLabel() string {
	styles := m.theme.Styles()
	if m.session == nil {
		return styles.MutedText.Render("offline")
	}
	switch m.session.Status() {
	case session.StatusReady:
		if u, ok := m.session.User(); ok {
			return styles.SuccessText.Render(u.Email)
		}
		return styles.SuccessText.Render("signed in")
	case session.StatusInitializing:
		return styles.MutedText.Render("restoring session...")
	case session.StatusUnverified:
		return styles.WarningText.Render("verify your email to sync")
	default:
		return styles.DangerText.Render("signed out, run flowdo login")
	}
}

func (m Model) renderTabs() string {
	styles := m.theme.Styles()
	tabs := make([]string, 0, len(viewTitles))
	for i, title := range viewTitles {
		label := fmt.Sprintf("%d %s", i+1, title)
		if view(i) == m.view {
			tabs = append(tabs, styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, styles.Tab.Render(label))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if crumb := m.breadcrumb(); crumb != "" {
		line += styles.MutedText.Render("  › " + crumb)
	}
	return line
}

// breadcrumb names the project or context the list is narrowed to.
func (m Model) breadcrumb() string {
	var parts []string
	switch {
	case m.scope.projectID != "":
		parts = append(parts, state.ProjectName(m.snap, api.Ref(m.scope.projectID)))
	case m.scope.contextID != "":
		parts = append(parts, state.ContextName(m.snap, api.Ref(m.scope.contextID)))
	}
	if m.showCompleted {
		parts = append(parts, "completed")
	}
	return strings.Join(parts, " › ")
}

func (m Model) renderBody() string {
	if m.view == viewChat {
		return m.renderChat()
	}

	styles := m.theme.Styles()
	rows := m.rows()
	if len(rows) == 0 {
		return "\n  " + styles.FaintText.Render(m.emptyText())
	}

	height := m.bodyHeight()
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := min(start+height, len(rows))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(rows[i], i == m.cursor))
	}
	return strings.Join(lines, "\n")
}

func (m Model) emptyText() string {
	switch {
	case m.showCompleted:
		return "Nothing completed yet."
	case m.view == viewProjects && m.scope.projectID == "":
		return "No projects. Press a to create one."
	case m.view == viewContexts && m.scope.contextID == "":
		return "No contexts. Press a to create one."
	case m.snap.Loading:
		return "Loading..."
	}
	return "All clear. Press a to add a task."
}

func (m Model) renderRow(r row, selected bool) string {
	styles := m.theme.Styles()

	var line string
	switch r.kind {
	case rowHeader:
		return styles.GroupHeader.Render(r.label) + " " + styles.FaintText.Render(fmt.Sprintf("(%d)", r.count))
	case rowTask:
		line = m.renderTaskLine(r.task)
	case rowProject:
		line = " " + padRight(truncate(r.label, 40), 42) + styles.MutedText.Render(pluralize(r.count, "task"))
		if r.project.Optimistic {
			line += styles.FaintText.Render("  saving")
		}
	case rowContext:
		line = " " + padRight(truncate(r.label, 40), 42) + styles.MutedText.Render(pluralize(r.count, "task"))
		if r.context.Optimistic {
			line += styles.FaintText.Render("  saving")
		}
	}

	marker := " "
	if selected {
		marker = styles.Selected.Render("›")
	}
	return marker + line
}

func (m Model) renderTaskLine(t api.Task) string {
	styles := m.theme.Styles()

	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	title := truncate(t.Title, max(m.width/2, 20))
	titleStyle := styles.Text
	if t.Completed {
		titleStyle = styles.MutedText.Strikethrough(true)
	}

	parts := []string{
		" " + box,
		styles.PriorityStyle(t.Priority).Render(fmt.Sprintf("P%d", t.Priority)),
		titleStyle.Render(title),
	}
	if due := t.ParsedDueDate(); !due.IsZero() {
		dueStyle := styles.MutedText
		now := m.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if !t.Completed && due.Before(today) {
			dueStyle = styles.DangerText
		}
		parts = append(parts, dueStyle.Render(due.Format("Jan 2")))
	}
	if t.ProjectID.IsSet() && m.scope.projectID == "" {
		parts = append(parts, styles.InfoText.Render("#"+state.ProjectName(m.snap, t.ProjectID)))
	}
	if t.NextActionID.IsSet() && m.scope.contextID == "" {
		parts = append(parts, styles.AccentText.Render(state.ContextName(m.snap, t.NextActionID)))
	}
	if t.Optimistic {
		parts = append(parts, styles.FaintText.Render("saving"))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return " " + styles.DangerText.Render(m.status)
	}
	return " " + styles.SuccessText.Render(m.status)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	hint := shortHelp(m.keys.ShortHelp())
	if m.view == viewChat {
		hint = "enter send · esc cancel/back · tab switch view · ctrl+c quit"
	}
	return styles.Footer.Width(m.width).Render(truncate(hint, max(m.width-2, 0)))
}
