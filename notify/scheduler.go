// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Scheduler runs delayed one-shot jobs, such as telling a recipient that a
// letter arrived. Pending jobs live in memory only.
type Scheduler struct {
	clock  clockwork.Clock
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	timers  map[uint64]clockwork.Timer
	nextID  uint64
	stopped bool
	wg      sync.WaitGroup
}

func NewScheduler(clock clockwork.Clock, log *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		clock:  clock,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		timers: make(map[uint64]clockwork.Timer),
	}
}

// After schedules fn to run once after delay and returns when it is due.
// After Stop, jobs are dropped.
func (s *Scheduler) After(delay time.Duration, name string, fn func(ctx context.Context)) time.Time {
	due := s.clock.Now().Add(delay)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.log.Warn("scheduler stopped, job dropped", "job", name)
		return due
	}

	id := s.nextID
	s.nextID++
	s.wg.Add(1)
	s.timers[id] = s.clock.AfterFunc(delay, func() {
		defer s.wg.Done()

		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()

		if s.ctx.Err() != nil {
			return
		}
		s.log.Debug("running scheduled job", "job", name)
		fn(s.ctx)
	})

	s.log.Debug("job scheduled", "job", name, "due", due)
	return due
}

// Pending returns the number of jobs not yet started
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels pending jobs and waits for running ones
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.cancel()
	for id, t := range s.timers {
		if t.Stop() {
			s.wg.Done()
		}
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
}
