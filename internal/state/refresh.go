package state

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/five82/flowdo/internal/api"
)

// Refresh fetches all three collections and replaces local state with them.
// Nothing is applied unless every fetch succeeds and the session is still
// ready afterwards.
func (s *Store) Refresh(ctx context.Context) error {
	if err := s.ready("refresh"); err != nil {
		return err
	}

	s.Dispatch(SetLoading{Loading: true})
	defer s.Dispatch(SetLoading{Loading: false})

	var (
		tasks    []api.Task
		projects []api.Project
		contexts []api.NextAction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.backend.FetchTasks(gctx)
		if err != nil {
			return fmt.Errorf("fetch tasks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		projects, err = s.backend.FetchProjects(gctx)
		if err != nil {
			return fmt.Errorf("fetch projects: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		contexts, err = s.backend.FetchNextActions(gctx)
		if err != nil {
			return fmt.Errorf("fetch contexts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Printf("refresh failed: %v", err)
		return fmt.Errorf("refresh: %w", err)
	}

	if !s.gate.Ready() {
		s.logger.Printf("refresh discarded: session changed")
		return ErrNotReady
	}

	s.mu.Lock()
	s.state = Reduce(s.state, SetTasks{Tasks: tasks})
	s.state = Reduce(s.state, SetProjects{Projects: projects})
	s.state = Reduce(s.state, SetContexts{Contexts: contexts})
	s.mu.Unlock()
	return nil
}

// Clear empties the store. Used on sign-out; no request is made.
func (s *Store) Clear() {
	s.Dispatch(Reset{})
}
