package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/flowdo/internal/api"
)

// MoveKind selects which reference MoveTask rewrites.
type MoveKind int

const (
	// MoveToProject files the task under a project.
	MoveToProject MoveKind = iota
	// MoveToNext files the task under a context.
	MoveToNext
)

func (k MoveKind) String() string {
	switch k {
	case MoveToProject:
		return "project"
	case MoveToNext:
		return "next"
	default:
		return fmt.Sprintf("MoveKind(%d)", int(k))
	}
}

// AddTask inserts a temporary task, creates it on the server and swaps in
// the confirmed record. On failure the temporary task is removed and the
// error is returned.
func (s *Store) AddTask(ctx context.Context, in api.TaskInput) (api.Task, error) {
	if err := s.ready("add task"); err != nil {
		return api.Task{}, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return api.Task{}, fmt.Errorf("add task: %w", ErrEmptyName)
	}
	if in.Category == "" {
		in.Category = api.DefaultCategory
	}

	tempID := s.newID()
	stamp := s.timestamp()
	s.Dispatch(AddTaskOptimistic{Task: api.Task{
		ID:           tempID,
		Title:        in.Title,
		Description:  in.Description,
		DueDate:      in.DueDate,
		Priority:     in.Priority,
		Category:     in.Category,
		ProjectID:    in.ProjectID,
		NextActionID: in.NextActionID,
		CreatedAt:    stamp,
		UpdatedAt:    stamp,
		Optimistic:   true,
	}})

	created, err := s.backend.CreateTask(detach(ctx), in)
	if err != nil {
		s.Dispatch(RevertTask{TempID: tempID})
		s.logger.Printf("add task %q reverted: %v", in.Title, err)
		return api.Task{}, fmt.Errorf("add task: %w", err)
	}
	created.Optimistic = false
	s.Dispatch(ReplaceTask{TempID: tempID, Task: created})
	return created, nil
}

// UpdateTask applies task optimistically, sends it to the server and keeps
// the server's normalized record. On failure the previous record is restored.
func (s *Store) UpdateTask(ctx context.Context, task api.Task) (api.Task, error) {
	if err := s.ready("update task"); err != nil {
		return api.Task{}, err
	}
	prev, ok := s.Task(task.ID)
	if !ok {
		return api.Task{}, fmt.Errorf("update task %s: %w", task.ID, ErrNotFound)
	}
	return s.commitTask(ctx, "update task", prev, task)
}

// ToggleComplete flips the completed flag. A failed request flips it back.
func (s *Store) ToggleComplete(ctx context.Context, id string) (api.Task, error) {
	if err := s.ready("toggle task"); err != nil {
		return api.Task{}, err
	}
	prev, ok := s.Task(id)
	if !ok {
		return api.Task{}, fmt.Errorf("toggle task %s: %w", id, ErrNotFound)
	}

	s.Dispatch(ToggleTask{ID: id})
	next := prev
	next.Completed = !prev.Completed

	saved, err := s.backend.UpdateTask(detach(ctx), next)
	if err != nil {
		s.Dispatch(ToggleTask{ID: id})
		s.logger.Printf("toggle task %s reverted: %v", id, err)
		return api.Task{}, fmt.Errorf("toggle task %s: %w", id, err)
	}
	saved.Optimistic = false
	s.Dispatch(UpdateTask{Task: saved})
	return saved, nil
}

// MoveTask points the task at a project or a context and saves the whole
// record. On failure the pre-move record is restored.
func (s *Store) MoveTask(ctx context.Context, id string, kind MoveKind, targetID string) (api.Task, error) {
	if err := s.ready("move task"); err != nil {
		return api.Task{}, err
	}
	if strings.TrimSpace(targetID) == "" {
		return api.Task{}, fmt.Errorf("move task %s: target %s is required", id, kind)
	}
	prev, ok := s.Task(id)
	if !ok {
		return api.Task{}, fmt.Errorf("move task %s: %w", id, ErrNotFound)
	}

	next := prev
	switch kind {
	case MoveToProject:
		next.ProjectID = api.Ref(targetID)
	case MoveToNext:
		next.NextActionID = api.Ref(targetID)
	default:
		return api.Task{}, fmt.Errorf("move task %s: unknown kind %s", id, kind)
	}
	return s.commitTask(ctx, "move task", prev, next)
}

// DeleteTask removes the task once the server confirms the delete.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	if err := s.ready("delete task"); err != nil {
		return err
	}
	if err := s.backend.DeleteTask(detach(ctx), id); err != nil {
		s.logger.Printf("delete task %s failed: %v", id, err)
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	s.Dispatch(DeleteTask{ID: id})
	return nil
}

func (s *Store) commitTask(ctx context.Context, op string, prev, next api.Task) (api.Task, error) {
	next.Optimistic = true
	s.Dispatch(UpdateTask{Task: next})

	saved, err := s.backend.UpdateTask(detach(ctx), next)
	if err != nil {
		s.Dispatch(UpdateTask{Task: prev})
		s.logger.Printf("%s %s reverted: %v", op, prev.ID, err)
		return api.Task{}, fmt.Errorf("%s %s: %w", op, prev.ID, err)
	}
	saved.Optimistic = false
	s.Dispatch(UpdateTask{Task: saved})
	return saved, nil
}
