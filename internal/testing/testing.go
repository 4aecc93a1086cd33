// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/nowplaying/internal/control"
	"github.com/desertthunder/nowplaying/internal/models"
)

// Call is one recorded handler invocation.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// RecordingHandler is a test double for [control.Handler] that records every call.
//
// It embeds [control.NopHandler] so OnPlayPause keeps the default composition
// unless OverridePlayPause is set.
type RecordingHandler struct {
	control.NopHandler

	OverridePlayPause bool
	Err               error // returned from every recorded callback when set

	mu     sync.Mutex
	calls  []Call
	notify chan struct{}
}

// NewRecordingHandler creates an empty [RecordingHandler].
func NewRecordingHandler() *RecordingHandler {
	return &RecordingHandler{notify: make(chan struct{}, 256)}
}

func (h *RecordingHandler) record(name string, args ...any) error {
	h.mu.Lock()
	h.calls = append(h.calls, Call{Name: name, Args: args})
	h.mu.Unlock()
	select {
	case h.notify <- struct{}{}:
	default:
	}
	return h.Err
}

// Calls returns a copy of the recorded calls.
func (h *RecordingHandler) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.calls)
}

// Names returns the recorded call names in order.
func (h *RecordingHandler) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, len(h.calls))
	for i, c := range h.calls {
		names[i] = c.Name
	}
	return names
}

// WaitFor blocks until at least n calls were recorded or the timeout expires.
func (h *RecordingHandler) WaitFor(t *testing.T, n int, timeout time.Duration) []Call {
	t.Helper()
	deadline := time.After(timeout)
	for {
		if calls := h.Calls(); len(calls) >= n {
			return calls
		}
		select {
		case <-h.notify:
		case <-deadline:
			t.Fatalf("timed out waiting for %d calls, got %v", n, h.Calls())
			return nil
		}
	}
}

func (h *RecordingHandler) OnRaise(context.Context) error { return h.record("OnRaise") }
func (h *RecordingHandler) OnQuit(context.Context) error  { return h.record("OnQuit") }
func (h *RecordingHandler) OnFullscreen(_ context.Context, v bool) error {
	return h.record("OnFullscreen", v)
}
func (h *RecordingHandler) OnLoopStatus(_ context.Context, s models.LoopStatus) error {
	return h.record("OnLoopStatus", s)
}
func (h *RecordingHandler) OnRate(_ context.Context, r float64) error { return h.record("OnRate", r) }
func (h *RecordingHandler) OnShuffle(_ context.Context, v bool) error { return h.record("OnShuffle", v) }
func (h *RecordingHandler) OnVolume(_ context.Context, v float64) error {
	return h.record("OnVolume", v)
}
func (h *RecordingHandler) OnNext(context.Context) error     { return h.record("OnNext") }
func (h *RecordingHandler) OnPrevious(context.Context) error { return h.record("OnPrevious") }
func (h *RecordingHandler) OnPlay(context.Context) error     { return h.record("OnPlay") }
func (h *RecordingHandler) OnPause(context.Context) error    { return h.record("OnPause") }
func (h *RecordingHandler) OnStop(context.Context) error     { return h.record("OnStop") }
func (h *RecordingHandler) OnSeek(_ context.Context, offset int64) error {
	return h.record("OnSeek", offset)
}
func (h *RecordingHandler) OnOpenURI(_ context.Context, uri string) error {
	return h.record("OnOpenURI", uri)
}
func (h *RecordingHandler) OnSetPosition(_ context.Context, id string, pos int64) error {
	return h.record("OnSetPosition", id, pos)
}

func (h *RecordingHandler) OnPlayPause(ctx context.Context) error {
	if h.OverridePlayPause {
		return h.record("OnPlayPause")
	}
	return control.ErrDefaultAction
}

// TrackListRecorder adds [control.TrackListHandler] to a [RecordingHandler].
type TrackListRecorder struct {
	*RecordingHandler
	Tracks map[string]models.Metadata
}

func (h *TrackListRecorder) OnAddTrack(_ context.Context, uri, after string, current bool) error {
	return h.record("OnAddTrack", uri, after, current)
}
func (h *TrackListRecorder) OnRemoveTrack(_ context.Context, id string) error {
	return h.record("OnRemoveTrack", id)
}
func (h *TrackListRecorder) OnGoTo(_ context.Context, id string) error {
	return h.record("OnGoTo", id)
}

func (h *TrackListRecorder) TracksMetadata(_ context.Context, ids []string) ([]models.Metadata, error) {
	out := make([]models.Metadata, 0, len(ids))
	for _, id := range ids {
		if m, ok := h.Tracks[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// Eventually polls cond until it holds or the timeout expires.
func Eventually(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", timeout, msg)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}
