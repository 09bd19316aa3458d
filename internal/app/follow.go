package app

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/five82/flowdo/internal/session"
	"github.com/five82/flowdo/internal/state"
)

const (
	refreshBackoffBase = 2 * time.Second
	maxBackoff         = 30 * time.Second
)

// StatusSource publishes session status changes.
type StatusSource interface {
	Subscribe() (<-chan session.Status, func())
}

// Syncer is the part of the store the follower drives.
type Syncer interface {
	Refresh(ctx context.Context) error
	Clear()
}

// Follow keeps store in step with the session until ctx is done. Each time
// the session becomes ready the store is refreshed, retrying with backoff
// until a refresh succeeds or the session changes again. Signing out clears
// the store without touching the network.
func Follow(ctx context.Context, src StatusSource, store Syncer, logger *log.Logger) {
	follow(ctx, src, store, logger, refreshBackoffBase)
}

func follow(ctx context.Context, src StatusSource, store Syncer, logger *log.Logger, base time.Duration) {
	if logger == nil {
		logger = log.Default()
	}
	updates, unsubscribe := src.Subscribe()
	defer unsubscribe()

	var (
		wg   sync.WaitGroup
		stop = func() {}
		last = session.StatusInitializing
	)
	halt := func() {
		stop()
		wg.Wait()
		stop = func() {}
	}
	defer halt()

	for {
		select {
		case <-ctx.Done():
			return
		case status := <-updates:
			if status == last {
				continue
			}
			halt()
			last = status

			switch status {
			case session.StatusReady:
				rctx, cancel := context.WithCancel(ctx)
				stop = cancel
				wg.Add(1)
				go func() {
					defer wg.Done()
					refreshWithBackoff(rctx, store, logger, base)
				}()
			case session.StatusSignedOut:
				store.Clear()
			}
		}
	}
}

func refreshWithBackoff(ctx context.Context, store Syncer, logger *log.Logger, base time.Duration) {
	for failures := 0; ; failures++ {
		err := store.Refresh(ctx)
		if err == nil {
			return
		}
		if errors.Is(err, state.ErrNotReady) || ctx.Err() != nil {
			return
		}

		wait := calculateBackoff(failures, base)
		logger.Printf("refresh failed (attempt %d, retrying in %s): %v", failures+1, wait, err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// calculateBackoff doubles base for every failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	if wait > maxBackoff {
		return maxBackoff
	}
	return wait
}
