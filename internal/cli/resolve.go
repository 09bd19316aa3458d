package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/five82/flowdo/internal/api"
	"github.com/five82/flowdo/internal/state"
)

const dateLayout = "2006-01-02"

// match finds the single entry whose ID equals ref, whose ID starts with ref,
// or whose name equals ref ignoring case, in that order of preference.
func match[T any](items []T, ref string, id, name func(T) string) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, fmt.Errorf("empty reference")
	}
	for _, it := range items {
		if id(it) == ref {
			return it, nil
		}
	}

	var found []T
	for _, it := range items {
		if strings.HasPrefix(id(it), ref) || (name != nil && strings.EqualFold(name(it), ref)) {
			found = append(found, it)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return zero, fmt.Errorf("%q: %w", ref, state.ErrNotFound)
	default:
		return zero, fmt.Errorf("%q is ambiguous (%d matches)", ref, len(found))
	}
}

func findTask(s state.State, ref string) (api.Task, error) {
	t, err := match(s.Tasks, ref, func(t api.Task) string { return t.ID }, nil)
	if err != nil {
		return api.Task{}, fmt.Errorf("task %w", err)
	}
	return t, nil
}

func findProject(s state.State, ref string) (api.Project, error) {
	p, err := match(s.Projects, ref,
		func(p api.Project) string { return p.ID },
		func(p api.Project) string { return p.Name })
	if err != nil {
		return api.Project{}, fmt.Errorf("project %w", err)
	}
	return p, nil
}

func findContext(s state.State, ref string) (api.NextAction, error) {
	c, err := match(s.Contexts, ref,
		func(c api.NextAction) string { return c.ID },
		func(c api.NextAction) string { return c.ContextName })
	if err != nil {
		return api.NextAction{}, fmt.Errorf("context %w", err)
	}
	return c, nil
}

// parseDue turns a --due value into the wire date. "none" clears the date.
func parseDue(value string, now time.Time) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "", "none":
		return "", nil
	case "today":
		return now.Format(dateLayout), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(dateLayout), nil
	default:
		d, err := time.ParseInLocation(dateLayout, v, now.Location())
		if err != nil {
			return "", fmt.Errorf("invalid due date %q: want today, tomorrow, none or YYYY-MM-DD", value)
		}
		return d.Format(dateLayout), nil
	}
}

func validPriority(p int) error {
	if p < 1 || p > 4 {
		return fmt.Errorf("invalid priority %d: want 1 (highest) to 4", p)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, state.ErrNotFound)
}
