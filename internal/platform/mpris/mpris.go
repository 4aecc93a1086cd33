// package mpris publishes the property model as an MPRIS 2 media player on the D-Bus
// session bus.
package mpris

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/control"
	"github.com/desertthunder/nowplaying/internal/metrics"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/platform"
	"github.com/desertthunder/nowplaying/internal/props"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"
)

// ObjectPath is where every MPRIS interface is exported.
const ObjectPath dbus.ObjectPath = "/org/mpris/MediaPlayer2"

// BusNamePrefix is prepended to the player name to form the well-known bus name.
const BusNamePrefix = "org.mpris.MediaPlayer2."

var nameElement = regexp.MustCompile(`^[A-Za-z_-][A-Za-z0-9_-]*(\.[A-Za-z_-][A-Za-z0-9_-]*)*$`)

func init() {
	platform.Register(platform.Linux, New)
}

// Conn is the part of [*dbus.Conn] the adapter uses.
type Conn interface {
	Export(v any, path dbus.ObjectPath, iface string) error
	RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error)
	Emit(path dbus.ObjectPath, name string, values ...any) error
	Close() error
}

// Dialer opens a bus connection.
type Dialer func() (Conn, error)

// SessionBus dials a private connection to the user's session bus.
func SessionBus() (Conn, error) {
	c, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Adapter is the Linux [platform.Adapter].
type Adapter struct {
	platform.Lifecycle

	busName string
	dial    Dialer
	store   *props.Store
	router  *control.Router
	logger  *log.Logger
	metrics *metrics.Collector

	mu   sync.Mutex // guards conn
	conn Conn
}

// New builds an adapter on the session bus. It satisfies [platform.Factory].
func New(deps platform.Deps) (platform.Adapter, error) {
	return NewAdapter(deps, SessionBus)
}

// NewAdapter builds an adapter that connects with dial.
func NewAdapter(deps platform.Deps, dial Dialer) (*Adapter, error) {
	if deps.Store == nil || deps.Router == nil {
		return nil, fmt.Errorf("%w: mpris adapter needs a store and a router", shared.ErrMissingArgument)
	}
	if !nameElement.MatchString(deps.Name) {
		return nil, fmt.Errorf("%w: %q is not a valid bus name suffix", shared.ErrInvalidInput, deps.Name)
	}
	return &Adapter{
		busName: BusNamePrefix + deps.Name,
		dial:    dial,
		store:   deps.Store,
		router:  deps.Router,
		logger:  deps.Log().WithPrefix("mpris"),
		metrics: deps.Metrics,
	}, nil
}

func (a *Adapter) Name() string { return "mpris" }

// BusName returns the well-known name requested on Start.
func (a *Adapter) BusName() string { return a.busName }

// Start connects, exports the MPRIS objects and claims the bus name.
func (a *Adapter) Start(ctx context.Context) error {
	if err := a.Begin(); err != nil {
		return err
	}

	conn, err := a.connect(ctx)
	if err != nil {
		a.Finish(err)
		a.logger.Error("could not connect", "bus", a.busName, "err", err)
		return fmt.Errorf("%w: %v", shared.ErrConnection, err)
	}

	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()
	if a.Finish(nil) == platform.Stopped {
		a.release()
		return shared.ErrStopped
	}
	a.logger.Info("connected", "bus", a.busName)
	return nil
}

func (a *Adapter) connect(ctx context.Context) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn, err := a.dial()
	if err != nil {
		return nil, errors.Wrap(err, "dial session bus")
	}

	exports := []struct {
		v     any
		iface string
	}{
		{rootObject{a}, ifaceRoot},
		{playerObject{a}, ifacePlayer},
		{trackListObject{a}, ifaceTrackList},
		{propertiesObject{a}, ifaceProperties},
		{introspectObject{a}, ifaceIntrospection},
	}
	for _, e := range exports {
		if err := conn.Export(e.v, ObjectPath, e.iface); err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "export %s", e.iface)
		}
	}

	if err := ctx.Err(); err != nil {
		conn.Close()
		return nil, err
	}
	reply, err := conn.RequestName(a.busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "request name %s", a.busName)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, errors.Errorf("name %s already taken (reply %d)", a.busName, reply)
	}
	return conn, nil
}

// Stop closes the bus connection. Calling it again is a no-op.
func (a *Adapter) Stop() error {
	if a.End() != platform.Connected {
		return nil
	}
	return a.release()
}

func (a *Adapter) release() error {
	a.mu.Lock()
	conn := a.conn
	a.conn = nil
	a.mu.Unlock()
	if conn == nil {
		return nil
	}
	a.logger.Info("disconnecting", "bus", a.busName)
	return errors.Wrap(conn.Close(), "close session bus")
}

// Publish emits PropertiesChanged for one write. Before Start the write only lives in the
// store, which is what Get serves once connected.
func (a *Adapter) Publish(scope models.Scope, name string, value any) error {
	if !emitted(scope, name) || a.State() != platform.Connected {
		return nil
	}
	iface := ifaceFor(scope)
	changed := map[string]dbus.Variant{name: encode(scope, name, value)}
	if err := a.emit(iface, ifaceProperties+".PropertiesChanged", iface, changed, []string{}); err != nil {
		a.metrics.PublishError(platform.Linux)
		return err
	}
	a.metrics.Published(platform.Linux, string(scope))
	return nil
}

// Seeked emits org.mpris.MediaPlayer2.Player.Seeked.
func (a *Adapter) Seeked(position int64) error {
	return a.emit(ifacePlayer, ifacePlayer+".Seeked", position)
}

func (a *Adapter) TrackListReplaced(tracks []string, current string) error {
	return a.emit(ifaceTrackList, ifaceTrackList+".TrackListReplaced", trackPaths(tracks), TrackPath(current))
}

func (a *Adapter) TrackAdded(meta models.Metadata, afterTrackID string) error {
	return a.emit(ifaceTrackList, ifaceTrackList+".TrackAdded", MetadataMap(meta), TrackPath(afterTrackID))
}

func (a *Adapter) TrackRemoved(trackID string) error {
	return a.emit(ifaceTrackList, ifaceTrackList+".TrackRemoved", TrackPath(trackID))
}

func (a *Adapter) TrackMetadataChanged(trackID string, meta models.Metadata) error {
	return a.emit(ifaceTrackList, ifaceTrackList+".TrackMetadataChanged", TrackPath(trackID), MetadataMap(meta))
}

func (a *Adapter) emit(iface, signal string, values ...any) error {
	a.mu.Lock()
	conn := a.conn
	a.mu.Unlock()
	if conn == nil || a.State() != platform.Connected {
		return nil
	}
	if err := conn.Emit(ObjectPath, signal, values...); err != nil {
		a.logger.Warn("emit failed", "iface", iface, "signal", signal, "err", err)
		return errors.Wrapf(err, "emit %s", signal)
	}
	return nil
}

// currentTrack resolves a client-supplied path against the current track. An unknown path
// is passed through as-is so the router sees it as stale.
func (a *Adapter) currentTrack(p dbus.ObjectPath) string {
	id := a.store.Playback().Metadata.ID
	if TrackPath(id) == p {
		return id
	}
	return string(p)
}

// listedTrack resolves a client-supplied path against the published track list.
func (a *Adapter) listedTrack(p dbus.ObjectPath) (string, bool) {
	if p == NoTrack {
		return "", false
	}
	for _, id := range a.store.TrackList().Tracks {
		if TrackPath(id) == p {
			return id, true
		}
	}
	return "", false
}

var (
	_ platform.Adapter            = (*Adapter)(nil)
	_ platform.TrackListPublisher = (*Adapter)(nil)
)
