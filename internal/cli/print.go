package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/flowdo/internal/api"
	"github.com/five82/flowdo/internal/logtail"
	"github.com/five82/flowdo/internal/state"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// taskLine formats one task as "<id>  [ ] P2  title  due  #project  @context".
func taskLine(s state.State, t api.Task) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	parts := []string{t.ID, box + " " + fmt.Sprintf("P%d", t.Priority), t.Title}
	if due := t.ParsedDueDate(); !due.IsZero() {
		parts = append(parts, mutedStyle.Render("due "+due.Format(dateLayout)))
	}
	if t.ProjectID.IsSet() {
		parts = append(parts, "#"+state.ProjectName(s, t.ProjectID))
	}
	if t.NextActionID.IsSet() {
		parts = append(parts, state.ContextName(s, t.NextActionID))
	}
	return strings.Join(parts, "  ")
}

func printGroups(w io.Writer, s state.State, groups []state.Group) {
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", headerStyle.Render(g.Label), len(g.Tasks))
		for _, t := range g.Tasks {
			fmt.Fprintf(w, "  %s\n", taskLine(s, t))
		}
	}
}

// colorLogLine highlights a log line by severity.
func colorLogLine(line string) string {
	switch logtail.Classify(line) {
	case logtail.LevelError:
		return errorStyle.Render(line)
	case logtail.LevelWarn:
		return warnStyle.Render(line)
	default:
		return line
	}
}
