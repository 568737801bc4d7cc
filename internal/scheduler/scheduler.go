package scheduler

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs a task on a fixed period in a managed goroutine. In
// immediate mode the task also fires once as soon as the scheduler starts,
// before the first period elapses; that run happens inside the managed
// goroutine, so Stop always waits for it.
type Scheduler struct {
	interval  time.Duration
	task      func()
	immediate bool

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a scheduler whose first run happens one interval after Start.
func New(interval time.Duration, task func()) *Scheduler {
	return &Scheduler{interval: interval, task: task}
}

// NewImmediate creates a scheduler that runs the task once right at Start
// and then on every interval.
func NewImmediate(interval time.Duration, task func()) *Scheduler {
	return &Scheduler{interval: interval, task: task, immediate: true}
}

// Start launches the run loop. Calling Start on a running scheduler is a
// no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop cancels the run loop and blocks until any in-progress task run has
// returned. Calling Stop on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}

	s.cancel()
	s.wg.Wait()
	s.cancel = nil
}

// IsRunning reports whether the run loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	if s.immediate {
		if ctx.Err() != nil {
			return
		}
		s.task()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.task()
		case <-ctx.Done():
			return
		}
	}
}
