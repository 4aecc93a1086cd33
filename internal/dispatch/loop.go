// package dispatch serializes inbound control callbacks onto a single consumer goroutine.
//
// Native surfaces deliver events on goroutines and OS threads outside the application's control.
// Every event is enqueued as a [Task]; one goroutine, started by [Loop.Run], drains the queue in
// enqueue order so application callbacks never run concurrently with each other.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/shared"
)

// Task is a unit of work run on the loop goroutine.
type Task func(ctx context.Context)

type loopKey struct{}

// Loop is an unbounded FIFO with a single consumer.
type Loop struct {
	mu      sync.Mutex
	queue   []Task
	stopped bool
	running bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}

	logger *log.Logger
}

// New creates a Loop. Tasks posted before [Loop.Run] are kept until it starts.
func New(logger *log.Logger) *Loop {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Loop{
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// OnLoop reports whether ctx belongs to a task currently running on a loop.
func OnLoop(ctx context.Context) bool {
	_, ok := ctx.Value(loopKey{}).(*Loop)
	return ok
}

// Post enqueues t. It never blocks and may be called from any goroutine, including the loop itself.
func (l *Loop) Post(t Task) error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return shared.ErrStopped
	}
	l.queue = append(l.queue, t)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Call runs fn on the loop and waits for it to return.
//
// When ctx already belongs to a task on this loop, fn runs inline to avoid waiting on itself.
func (l *Loop) Call(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, ok := ctx.Value(loopKey{}).(*Loop); ok && owner == l {
		return fn(ctx)
	}

	result := make(chan error, 1)
	if err := l.Post(func(ctx context.Context) {
		result <- fn(ctx)
	}); err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		// The task may have completed just before the loop exited.
		select {
		case err := <-result:
			return err
		default:
			return shared.ErrStopped
		}
	}
}

// Run drains the queue until ctx is cancelled or [Loop.Stop] is called.
//
// Run may only be called once; later calls return immediately with an error.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return fmt.Errorf("dispatch loop already running")
	}
	l.running = true
	l.mu.Unlock()
	defer close(l.done)

	taskCtx := context.WithValue(ctx, loopKey{}, l)
	for {
		t, ok := l.next()
		if ok {
			l.exec(taskCtx, t)
			continue
		}

		select {
		case <-l.wake:
		case <-l.stop:
			return nil
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		}
	}
}

// Stop rejects new tasks and discards queued ones. A task already running is allowed to finish.
// Stop is idempotent.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	if n := len(l.queue); n > 0 {
		l.logger.Debug("discarding queued tasks", "count", n)
	}
	l.queue = nil
	close(l.stop)
}

// Done is closed once [Loop.Run] has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Loop) next() (Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped || len(l.queue) == 0 {
		return nil, false
	}
	t := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return t, true
}

func (l *Loop) exec(ctx context.Context, t Task) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("control task panicked", "panic", r)
		}
	}()
	t(ctx)
}
