package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// DefaultCategory is applied to tasks created without a category.
const DefaultCategory = "inbox"

// Ref is an optional reference to another entity by ID. The zero value means
// "no reference" and travels as JSON null.
type Ref string

// MarshalJSON encodes an empty Ref as null.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

// UnmarshalJSON decodes null as the empty Ref.
func (r *Ref) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = Ref(s)
	return nil
}

// IsSet reports whether the reference points somewhere.
func (r Ref) IsSet() bool { return r != "" }

// Task mirrors the backend task record.
type Task struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	DueDate      string `json:"dueDate,omitempty"`
	Priority     int    `json:"priority"`
	Category     string `json:"category"`
	ProjectID    Ref    `json:"projectId"`
	NextActionID Ref    `json:"nextActionId"`
	Completed    bool   `json:"completed"`
	Trashed      bool   `json:"trashed"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`

	// Optimistic is set while the record awaits server confirmation.
	Optimistic bool `json:"-"`
}

// ParsedDueDate returns the due date, or the zero time when unset or unparseable.
func (t Task) ParsedDueDate() time.Time {
	return parseTime(t.DueDate)
}

// Active reports whether the task is neither completed nor trashed.
func (t Task) Active() bool {
	return !t.Completed && !t.Trashed
}

// TaskInput is the POST /api/tasks body.
type TaskInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	DueDate      string `json:"dueDate,omitempty"`
	Priority     int    `json:"priority"`
	Category     string `json:"category"`
	ProjectID    Ref    `json:"projectId"`
	NextActionID Ref    `json:"nextActionId"`
}

// Project mirrors the backend project record.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TaskCount   int    `json:"task_count,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`

	Optimistic bool `json:"-"`
}

// ProjectInput is the POST /api/projects body.
type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NextAction is a GTD context ("next action" list) that tasks can be filed under.
type NextAction struct {
	ID          string `json:"id"`
	ContextName string `json:"context_name"`
	TaskCount   int    `json:"task_count,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`

	Optimistic bool `json:"-"`
}

// NextActionInput is the POST /api/next-actions body.
type NextActionInput struct {
	ContextName string `json:"context_name"`
}

type taskEnvelope struct {
	Task *Task `json:"task"`
}

type taskListEnvelope struct {
	Tasks *[]Task `json:"tasks"`
}

type projectEnvelope struct {
	Project *Project `json:"project"`
}

type projectListEnvelope struct {
	Projects *[]Project `json:"projects"`
}

type nextActionEnvelope struct {
	NextAction *NextAction `json:"nextAction"`
}

type nextActionListEnvelope struct {
	NextActions *[]NextAction `json:"nextActions"`
}

type assistantRequest struct {
	Prompt string `json:"prompt"`
}

type assistantResponse struct {
	Message *string `json:"message"`
}

// ParseTime accepts RFC 3339 timestamps and bare dates.
func ParseTime(value string) time.Time {
	return parseTime(value)
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(dateOnlyLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
