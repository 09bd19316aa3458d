package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/flowdo/internal/api"
)

// AddProject creates a project optimistically. Tasks filed under the
// temporary ID while the request is in flight follow the project to its
// server ID, or lose the reference if the create fails.
func (s *Store) AddProject(ctx context.Context, name, description string) (api.Project, error) {
	if err := s.ready("add project"); err != nil {
		return api.Project{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return api.Project{}, fmt.Errorf("add project: %w", ErrEmptyName)
	}

	tempID := s.newID()
	stamp := s.timestamp()
	s.Dispatch(AddProjectOptimistic{Project: api.Project{
		ID:          tempID,
		Name:        name,
		Description: description,
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
		Optimistic:  true,
	}})

	created, err := s.backend.CreateProject(detach(ctx), api.ProjectInput{Name: name, Description: description})
	if err != nil {
		s.Dispatch(RevertProject{TempID: tempID})
		s.logger.Printf("add project %q reverted: %v", name, err)
		return api.Project{}, fmt.Errorf("add project: %w", err)
	}
	created.Optimistic = false
	s.Dispatch(ReplaceProject{TempID: tempID, Project: created})
	return created, nil
}

// UpdateProject saves project, restoring the previous record on failure.
func (s *Store) UpdateProject(ctx context.Context, project api.Project) (api.Project, error) {
	if err := s.ready("update project"); err != nil {
		return api.Project{}, err
	}
	prev, ok := s.Project(project.ID)
	if !ok {
		return api.Project{}, fmt.Errorf("update project %s: %w", project.ID, ErrNotFound)
	}

	next := project
	next.Optimistic = true
	s.Dispatch(UpdateProject{Project: next})

	saved, err := s.backend.UpdateProject(detach(ctx), next)
	if err != nil {
		s.Dispatch(UpdateProject{Project: prev})
		s.logger.Printf("update project %s reverted: %v", project.ID, err)
		return api.Project{}, fmt.Errorf("update project %s: %w", project.ID, err)
	}
	saved.Optimistic = false
	s.Dispatch(UpdateProject{Project: saved})
	return saved, nil
}

// DeleteProject removes the project and its tasks once the server confirms.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	if err := s.ready("delete project"); err != nil {
		return err
	}
	if err := s.backend.DeleteProject(detach(ctx), id); err != nil {
		s.logger.Printf("delete project %s failed: %v", id, err)
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	s.Dispatch(DeleteProjectAndTasks{ID: id})
	return nil
}
