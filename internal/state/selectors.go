package state

import (
	"sort"
	"time"

	"github.com/five82/flowdo/internal/api"
)

// TasksByProject returns the active tasks filed under projectID.
func TasksByProject(s State, projectID string) []api.Task {
	return filterTasks(s.Tasks, func(t api.Task) bool {
		return t.Active() && string(t.ProjectID) == projectID
	})
}

// TasksByContext returns the active tasks filed under contextID.
func TasksByContext(s State, contextID string) []api.Task {
	return filterTasks(s.Tasks, func(t api.Task) bool {
		return t.Active() && string(t.NextActionID) == contextID
	})
}

// InboxTasks returns active tasks that have not been filed anywhere yet.
func InboxTasks(s State) []api.Task {
	return filterTasks(s.Tasks, func(t api.Task) bool {
		return t.Active() &&
			(t.Category == "" || t.Category == api.DefaultCategory) &&
			!t.ProjectID.IsSet() &&
			!t.NextActionID.IsSet()
	})
}

// TodayTasks returns active tasks due today or earlier.
func TodayTasks(s State, now time.Time) []api.Task {
	end := startOfDay(now).AddDate(0, 0, 1)
	return filterTasks(s.Tasks, func(t api.Task) bool {
		due := t.ParsedDueDate()
		return t.Active() && !due.IsZero() && due.Before(end)
	})
}

// OverdueTasks returns active tasks due before today.
func OverdueTasks(s State, now time.Time) []api.Task {
	start := startOfDay(now)
	return filterTasks(s.Tasks, func(t api.Task) bool {
		due := t.ParsedDueDate()
		return t.Active() && !due.IsZero() && due.Before(start)
	})
}

// CompletedTasks returns completed tasks that are not trashed, most recently
// updated first.
func CompletedTasks(s State) []api.Task {
	done := filterTasks(s.Tasks, func(t api.Task) bool {
		return t.Completed && !t.Trashed
	})
	sort.SliceStable(done, func(i, j int) bool {
		return api.ParseTime(done[i].UpdatedAt).After(api.ParseTime(done[j].UpdatedAt))
	})
	return done
}

// PendingCount returns how many records are still awaiting confirmation.
func PendingCount(s State) int {
	n := 0
	for _, t := range s.Tasks {
		if t.Optimistic {
			n++
		}
	}
	for _, p := range s.Projects {
		if p.Optimistic {
			n++
		}
	}
	for _, c := range s.Contexts {
		if c.Optimistic {
			n++
		}
	}
	return n
}

// SortTasks orders tasks in place by priority, then due date. Undated tasks
// sort after dated ones of the same priority.
func SortTasks(tasks []api.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		da, db := a.ParsedDueDate(), b.ParsedDueDate()
		switch {
		case da.IsZero():
			return false
		case db.IsZero():
			return true
		default:
			return da.Before(db)
		}
	})
}

// Due date buckets, in display order.
const (
	GroupOverdue  = "Overdue"
	GroupToday    = "Today"
	GroupTomorrow = "Tomorrow"
	GroupThisWeek = "This week"
	GroupLater    = "Later"
	GroupNoDate   = "No date"
)

// Group is a labelled run of tasks.
type Group struct {
	Label string
	Tasks []api.Task
}

// GroupByDueDate buckets tasks by due date relative to now. Empty buckets are
// omitted and each bucket is sorted with SortTasks.
func GroupByDueDate(tasks []api.Task, now time.Time) []Group {
	order := []string{GroupOverdue, GroupToday, GroupTomorrow, GroupThisWeek, GroupLater, GroupNoDate}
	buckets := make(map[string][]api.Task, len(order))

	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	dayAfter := today.AddDate(0, 0, 2)
	weekEnd := today.AddDate(0, 0, 7)

	for _, t := range tasks {
		due := t.ParsedDueDate()
		var label string
		switch {
		case due.IsZero():
			label = GroupNoDate
		case due.Before(today):
			label = GroupOverdue
		case due.Before(tomorrow):
			label = GroupToday
		case due.Before(dayAfter):
			label = GroupTomorrow
		case due.Before(weekEnd):
			label = GroupThisWeek
		default:
			label = GroupLater
		}
		buckets[label] = append(buckets[label], t)
	}

	var groups []Group
	for _, label := range order {
		items := buckets[label]
		if len(items) == 0 {
			continue
		}
		SortTasks(items)
		groups = append(groups, Group{Label: label, Tasks: items})
	}
	return groups
}

// ProjectName returns the name of the referenced project, or "".
func ProjectName(s State, ref api.Ref) string {
	if !ref.IsSet() {
		return ""
	}
	for _, p := range s.Projects {
		if p.ID == string(ref) {
			return p.Name
		}
	}
	return ""
}

// ContextName returns the name of the referenced context, or "".
func ContextName(s State, ref api.Ref) string {
	if !ref.IsSet() {
		return ""
	}
	for _, c := range s.Contexts {
		if c.ID == string(ref) {
			return c.ContextName
		}
	}
	return ""
}

func filterTasks(tasks []api.Task, keep func(api.Task) bool) []api.Task {
	var out []api.Task
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	SortTasks(out)
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
