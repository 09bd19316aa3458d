package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/flowdo/internal/api"
)

// AddContext creates a context by name. When a context with that name is
// already in the store it is returned with created == false and no request
// is made.
func (s *Store) AddContext(ctx context.Context, name string) (api.NextAction, bool, error) {
	if err := s.ready("add context"); err != nil {
		return api.NextAction{}, false, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return api.NextAction{}, false, fmt.Errorf("add context: %w", ErrEmptyName)
	}

	tempID := s.newID()
	stamp := s.timestamp()
	temp := api.NextAction{
		ID:          tempID,
		ContextName: name,
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
		Optimistic:  true,
	}

	s.mu.Lock()
	if existing, ok := findContextByName(s.state.Contexts, name); ok {
		s.mu.Unlock()
		return existing, false, nil
	}
	s.state = Reduce(s.state, AddContextOptimistic{Context: temp})
	s.mu.Unlock()

	created, err := s.backend.CreateNextAction(detach(ctx), api.NextActionInput{ContextName: name})
	if err != nil {
		s.Dispatch(RevertContext{TempID: tempID})
		s.logger.Printf("add context %q reverted: %v", name, err)
		return api.NextAction{}, false, fmt.Errorf("add context: %w", err)
	}
	created.Optimistic = false
	s.Dispatch(ReplaceContext{TempID: tempID, Context: created})
	return created, true, nil
}

// UpdateContext saves a renamed context, restoring it on failure.
func (s *Store) UpdateContext(ctx context.Context, na api.NextAction) (api.NextAction, error) {
	if err := s.ready("update context"); err != nil {
		return api.NextAction{}, err
	}
	prev, ok := s.Context(na.ID)
	if !ok {
		return api.NextAction{}, fmt.Errorf("update context %s: %w", na.ID, ErrNotFound)
	}

	next := na
	next.Optimistic = true
	s.Dispatch(UpdateContext{Context: next})

	saved, err := s.backend.UpdateNextAction(detach(ctx), next)
	if err != nil {
		s.Dispatch(UpdateContext{Context: prev})
		s.logger.Printf("update context %s reverted: %v", na.ID, err)
		return api.NextAction{}, fmt.Errorf("update context %s: %w", na.ID, err)
	}
	saved.Optimistic = false
	s.Dispatch(UpdateContext{Context: saved})
	return saved, nil
}

// DeleteContext removes the context once the server confirms. Tasks filed
// under it stay and lose the reference.
func (s *Store) DeleteContext(ctx context.Context, id string) error {
	if err := s.ready("delete context"); err != nil {
		return err
	}
	if err := s.backend.DeleteNextAction(detach(ctx), id); err != nil {
		s.logger.Printf("delete context %s failed: %v", id, err)
		return fmt.Errorf("delete context %s: %w", id, err)
	}
	s.Dispatch(DeleteContext{ID: id})
	return nil
}
