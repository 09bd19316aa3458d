package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSource yields the bearer token for the current session.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the flowdo REST backend.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenSource
	timeout   time.Duration
	userAgent string
}

const (
	defaultBaseURL   = "http://localhost:4000"
	defaultUserAgent = "flowdo/0.1"
	// DefaultTimeout bounds every request unless the client is configured otherwise.
	DefaultTimeout = 15 * time.Second
	maxErrorBody   = 512
)

// NewClient builds a Client for baseURL. A non-positive timeout uses DefaultTimeout.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{},
		tokens:    tokens,
		timeout:   timeout,
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchTasks retrieves every task owned by the session user.
func (c *Client) FetchTasks(ctx context.Context) ([]Task, error) {
	var payload taskListEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Tasks == nil {
		return nil, fmt.Errorf("fetch tasks: %w: missing tasks", ErrMalformed)
	}
	return *payload.Tasks, nil
}

// CreateTask creates a task and returns the stored record.
func (c *Client) CreateTask(ctx context.Context, in TaskInput) (Task, error) {
	var payload taskEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/tasks", in, &payload); err != nil {
		return Task{}, err
	}
	if payload.Task == nil {
		return Task{}, fmt.Errorf("create task: %w: missing task", ErrMalformed)
	}
	return *payload.Task, nil
}

// UpdateTask sends the full task record and returns it with the server's
// fields applied. Fields the server leaves out keep the values that were sent.
func (c *Client) UpdateTask(ctx context.Context, task Task) (Task, error) {
	if strings.TrimSpace(task.ID) == "" {
		return Task{}, fmt.Errorf("task id required")
	}
	saved := task
	if err := c.putMerged(ctx, "/api/tasks/"+url.PathEscape(task.ID), "task", task, &saved); err != nil {
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	return saved, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("task id required")
	}
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}

// FetchProjects retrieves every project.
func (c *Client) FetchProjects(ctx context.Context) ([]Project, error) {
	var payload projectListEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Projects == nil {
		return nil, fmt.Errorf("fetch projects: %w: missing projects", ErrMalformed)
	}
	return *payload.Projects, nil
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (Project, error) {
	var payload projectEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/projects", in, &payload); err != nil {
		return Project{}, err
	}
	if payload.Project == nil {
		return Project{}, fmt.Errorf("create project: %w: missing project", ErrMalformed)
	}
	return *payload.Project, nil
}

// UpdateProject sends the full project record. As with UpdateTask, the reply
// is merged onto the record that was sent.
func (c *Client) UpdateProject(ctx context.Context, project Project) (Project, error) {
	if strings.TrimSpace(project.ID) == "" {
		return Project{}, fmt.Errorf("project id required")
	}
	saved := project
	if err := c.putMerged(ctx, "/api/projects/"+url.PathEscape(project.ID), "project", project, &saved); err != nil {
		return Project{}, fmt.Errorf("update project: %w", err)
	}
	return saved, nil
}

// DeleteProject removes a project. The backend removes its tasks as well.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("project id required")
	}
	return c.do(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, nil)
}

// FetchNextActions retrieves every context.
func (c *Client) FetchNextActions(ctx context.Context) ([]NextAction, error) {
	var payload nextActionListEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/next-actions", nil, &payload); err != nil {
		return nil, err
	}
	if payload.NextActions == nil {
		return nil, fmt.Errorf("fetch contexts: %w: missing nextActions", ErrMalformed)
	}
	return *payload.NextActions, nil
}

// CreateNextAction creates a context with the given name.
func (c *Client) CreateNextAction(ctx context.Context, in NextActionInput) (NextAction, error) {
	var payload nextActionEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/next-actions", in, &payload); err != nil {
		return NextAction{}, err
	}
	if payload.NextAction == nil {
		return NextAction{}, fmt.Errorf("create next action: %w: missing nextAction", ErrMalformed)
	}
	return *payload.NextAction, nil
}

// UpdateNextAction sends the full context record and merges the reply onto it.
func (c *Client) UpdateNextAction(ctx context.Context, na NextAction) (NextAction, error) {
	if strings.TrimSpace(na.ID) == "" {
		return NextAction{}, fmt.Errorf("next action id required")
	}
	saved := na
	if err := c.putMerged(ctx, "/api/next-actions/"+url.PathEscape(na.ID), "nextAction", na, &saved); err != nil {
		return NextAction{}, fmt.Errorf("update next action: %w", err)
	}
	return saved, nil
}

// DeleteNextAction removes a context.
func (c *Client) DeleteNextAction(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("next action id required")
	}
	return c.do(ctx, http.MethodDelete, "/api/next-actions/"+url.PathEscape(id), nil, nil)
}

// Assist sends a prompt to the AI assistant and returns its reply. Cancelling
// ctx aborts the request.
func (c *Client) Assist(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("prompt is empty")
	}
	var payload assistantResponse
	if err := c.do(ctx, http.MethodPost, "/api/ai/assistant", assistantRequest{Prompt: prompt}, &payload); err != nil {
		return "", err
	}
	if payload.Message == nil {
		return "", fmt.Errorf("assistant: %w: missing message", ErrMalformed)
	}
	return *payload.Message, nil
}

// putMerged sends body and decodes the reply's key object onto dest, so keys
// the server omits leave dest untouched. A missing or null object is
// ErrMalformed.
func (c *Client) putMerged(ctx context.Context, path, key string, body, dest any) error {
	var payload map[string]json.RawMessage
	if err := c.do(ctx, http.MethodPut, path, body, &payload); err != nil {
		return err
	}
	raw, ok := payload[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return fmt.Errorf("%w: missing %s", ErrMalformed, key)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	err := c.exchange(ctx, method, path, body, dest)
	return classify(ctx, err)
}

func (c *Client) exchange(ctx context.Context, method, path string, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("session token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("decode response: %w: empty body", ErrMalformed)
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
