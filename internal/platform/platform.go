// package platform defines the adapter contract that mirrors the property model onto a native
// now-playing surface, and the registry adapters add themselves to.
package platform

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/control"
	"github.com/desertthunder/nowplaying/internal/metrics"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/props"
	"github.com/desertthunder/nowplaying/internal/shared"
)

// Platform ids, matching runtime.GOOS.
const (
	Linux   = "linux"
	Windows = "windows"
	Darwin  = "darwin"
)

// State is the adapter connection lifecycle.
type State int

const (
	Unconnected State = iota
	Connecting
	Connected
	Stopped
)

func (s State) String() string {
	switch s {
	case Unconnected:
		return "unconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Adapter publishes property writes to one native surface and feeds native control
// requests into a [control.Router].
type Adapter interface {
	Name() string

	// Start connects to the native surface. A failure returns an error wrapping
	// [shared.ErrConnection] and leaves the adapter Unconnected.
	Start(ctx context.Context) error

	// Stop releases the native surface. It is terminal and safe to call more than once.
	Stop() error

	State() State

	// Publish mirrors one accepted property write. Writes made before Start are
	// applied when the adapter connects.
	Publish(scope models.Scope, name string, value any) error

	// Seeked announces a discontinuous position change in microseconds.
	Seeked(position int64) error
}

// TrackListPublisher is implemented by adapters whose surface has a track list.
type TrackListPublisher interface {
	TrackListReplaced(tracks []string, current string) error
	TrackAdded(meta models.Metadata, afterTrackID string) error
	TrackRemoved(trackID string) error
	TrackMetadataChanged(trackID string, meta models.Metadata) error
}

// Deps holds what every adapter is built from.
type Deps struct {
	Name    string // short player name, e.g. the MPRIS bus name suffix
	Store   *props.Store
	Router  *control.Router
	Logger  *log.Logger
	Metrics *metrics.Collector
}

// Log returns the configured logger or a discarding one.
func (d Deps) Log() *log.Logger {
	if d.Logger == nil {
		return shared.DiscardLogger()
	}
	return d.Logger
}

// Factory builds an adapter from its dependencies.
type Factory func(Deps) (Adapter, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a factory available under id. Registering the same id twice replaces the
// earlier factory.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[id] = f
}

// Lookup returns the factory for id.
func Lookup(id string) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownPlatform, id)
	}
	return f, nil
}

// IDs lists the registered platform ids in sorted order.
func IDs() []string {
	mu.RLock()
	defer mu.RUnlock()
	ids := make([]string, 0, len(factories))
	for id := range factories {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Detect returns the platform id for the running OS.
func Detect() string {
	return runtime.GOOS
}

// Lifecycle tracks an adapter's [State] transitions. The zero value is Unconnected.
type Lifecycle struct {
	mu    sync.Mutex
	state State
}

func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Begin moves Unconnected to Connecting.
func (l *Lifecycle) Begin() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case Unconnected:
		l.state = Connecting
		return nil
	case Stopped:
		return shared.ErrStopped
	default:
		return shared.ErrAlreadyStarted
	}
}

// Finish completes a Begin and returns the resulting state. A nil err means Connected;
// otherwise the adapter falls back to Unconnected. A Stop that raced the connect attempt
// wins, in which case Stopped is returned and the caller must release what it opened.
func (l *Lifecycle) Finish(err error) State {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Connecting {
		return l.state
	}
	if err != nil {
		l.state = Unconnected
	} else {
		l.state = Connected
	}
	return l.state
}

// End moves to Stopped and returns the state it left, so callers release only what they hold.
func (l *Lifecycle) End() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.state
	l.state = Stopped
	return prev
}
