package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/nowplaying/internal/shared"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()
	l := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-l.Done()
	})
	return l, cancel
}

func TestLoop_PreservesOrder(t *testing.T) {
	l, _ := startLoop(t)

	var (
		mu  sync.Mutex
		got []int
	)
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		if err := l.Post(func(context.Context) {
			defer wg.Done()
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}); err != nil {
			t.Fatalf("Post() error = %v", err)
		}
	}
	wg.Wait()

	for i, v := range got {
		if v != i {
			t.Fatalf("task %d ran at position %d", v, i)
		}
	}
}

func TestLoop_SerializesForeignGoroutines(t *testing.T) {
	l, _ := startLoop(t)

	var active, maxActive int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			l.Post(func(context.Context) {
				defer wg.Done()
				n := atomic.AddInt32(&active, 1)
				for {
					m := atomic.LoadInt32(&maxActive)
					if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
			})
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Errorf("tasks overlapped, max concurrency = %d", maxActive)
	}
}

func TestLoop_PostBeforeRun(t *testing.T) {
	l := New(nil)
	ran := make(chan struct{})
	if err := l.Post(func(context.Context) { close(ran) }); err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if l.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", l.Pending())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("queued task never ran")
	}
}

func TestLoop_StopRejectsAndIsIdempotent(t *testing.T) {
	l, _ := startLoop(t)

	l.Stop()
	l.Stop()

	if err := l.Post(func(context.Context) {}); !errors.Is(err, shared.ErrStopped) {
		t.Errorf("Post() after Stop error = %v, want ErrStopped", err)
	}

	select {
	case <-l.Done():
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestLoop_StopDuringInflightTask(t *testing.T) {
	l, _ := startLoop(t)

	started := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan struct{})
	var dropped atomic.Bool

	l.Post(func(context.Context) {
		close(started)
		<-release
		close(finished)
	})
	l.Post(func(context.Context) { dropped.Store(true) })

	<-started
	l.Stop()
	close(release)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("in-flight task did not complete")
	}
	<-l.Done()

	if dropped.Load() {
		t.Error("queued task ran after Stop")
	}
}

func TestLoop_StopFromTask(t *testing.T) {
	l, _ := startLoop(t)

	returned := make(chan struct{})
	l.Post(func(context.Context) {
		l.Stop()
		close(returned)
	})

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Stop called by a running task did not return")
	}
	<-l.Done()
}

func TestLoop_Call(t *testing.T) {
	l, _ := startLoop(t)
	ctx := context.Background()

	err := l.Call(ctx, func(ctx context.Context) error {
		if !OnLoop(ctx) {
			t.Error("Call fn should run on the loop")
		}
		return l.Call(ctx, func(context.Context) error { return errors.New("inner") })
	})
	if err == nil || err.Error() != "inner" {
		t.Errorf("Call() error = %v, want inner", err)
	}

	if OnLoop(ctx) {
		t.Error("background context should not report OnLoop")
	}
}

func TestLoop_RecoversPanics(t *testing.T) {
	l, _ := startLoop(t)

	l.Post(func(context.Context) { panic("boom") })
	err := l.Call(context.Background(), func(context.Context) error { return nil })
	if err != nil {
		t.Errorf("loop should survive a panicking task, got %v", err)
	}
}

func TestLoop_RunTwice(t *testing.T) {
	l, _ := startLoop(t)
	l.Call(context.Background(), func(context.Context) error { return nil })

	if err := l.Run(context.Background()); err == nil {
		t.Error("second Run should fail")
	}
}
