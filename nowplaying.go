// package nowplaying mirrors an application's now-playing state onto the host media surface
// (MPRIS on Linux, the transport controls on Windows, the now-playing center on macOS) and relays
// control requests from that surface back to the application.
//
// An [Interface] owns one property model, one control loop and one platform adapter:
//
//	np, err := nowplaying.New("Player", nowplaying.Options{Handler: h})
//	np.SetPlaybackProperty(nowplaying.PropCanPlay, true)
//	np.Start(ctx)
//	defer np.Stop()
package nowplaying

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/desertthunder/nowplaying/internal/control"
	"github.com/desertthunder/nowplaying/internal/dispatch"
	"github.com/desertthunder/nowplaying/internal/metrics"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/platform"
	"github.com/desertthunder/nowplaying/internal/props"
	"github.com/desertthunder/nowplaying/internal/shared"

	_ "github.com/desertthunder/nowplaying/internal/platform/mediaplayer"
	_ "github.com/desertthunder/nowplaying/internal/platform/mpris"
	_ "github.com/desertthunder/nowplaying/internal/platform/smtc"
)

type (
	Handler          = control.Handler
	TrackListHandler = control.TrackListHandler
	NopHandler       = control.NopHandler
	Controller       = control.Router
	Observer         = props.Observer
	ObserverFunc     = props.ObserverFunc

	Adapter = platform.Adapter
	Deps    = platform.Deps
	Factory = platform.Factory
	State   = platform.State

	Scope                 = models.Scope
	PropertyName          = models.PropertyName
	PlaybackPropertyName  = models.PlaybackPropertyName
	TrackListPropertyName = models.TrackListPropertyName
	PlaybackStatus        = models.PlaybackStatus
	LoopStatus            = models.LoopStatus
	MediaType             = models.MediaType
	Metadata              = models.Metadata
)

const (
	Playing = models.Playing
	Paused  = models.Paused
	Stopped = models.Stopped

	LoopNone     = models.LoopNone
	LoopTrack    = models.LoopTrack
	LoopPlaylist = models.LoopPlaylist

	PropCanQuit             = models.CanQuit
	PropCanRaise            = models.CanRaise
	PropCanSetFullscreen    = models.CanSetFullscreen
	PropFullscreen          = models.Fullscreen
	PropHasTrackList        = models.HasTrackList
	PropIdentity            = models.Identity
	PropDesktopEntry        = models.DesktopEntry
	PropSupportedURISchemes = models.SupportedURISchemes
	PropSupportedMimeTypes  = models.SupportedMimeTypes

	PropPlaybackStatus = models.PropPlaybackStatus
	PropLoopStatus     = models.PropLoopStatus
	PropRate           = models.PropRate
	PropShuffle        = models.PropShuffle
	PropMetadata       = models.PropMetadata
	PropVolume         = models.PropVolume
	PropPosition       = models.PropPosition
	PropDuration       = models.PropDuration
	PropMinimumRate    = models.PropMinimumRate
	PropMaximumRate    = models.PropMaximumRate
	PropCanGoNext      = models.PropCanGoNext
	PropCanGoPrevious  = models.PropCanGoPrevious
	PropCanPlay        = models.PropCanPlay
	PropCanPause       = models.PropCanPause
	PropCanSeek        = models.PropCanSeek
	PropCanControl     = models.PropCanControl

	PropTracks        = models.PropTracks
	PropCanEditTracks = models.PropCanEditTracks
)

var (
	// ErrDefaultAction may be returned from OnPlayPause to run the built-in toggle.
	ErrDefaultAction = control.ErrDefaultAction

	ErrSchema          = shared.ErrSchema
	ErrUnknownProperty = shared.ErrUnknownProperty
	ErrInvalidValue    = shared.ErrInvalidValue
	ErrConnection      = shared.ErrConnection
	ErrUnsupported     = shared.ErrUnsupported
	ErrUnknownPlatform = shared.ErrUnknownPlatform
	ErrAlreadyStarted  = shared.ErrAlreadyStarted
	ErrStopped         = shared.ErrStopped
)

// DefaultMetadata returns a Metadata record with every field at its default.
func DefaultMetadata() Metadata { return models.DefaultMetadata() }

// Options configures [New]. Every field is optional.
type Options struct {
	// Platform selects a registered adapter by id. Empty means the host OS.
	Platform string
	// Handler receives control requests. Nil means [NopHandler].
	Handler Handler
	// Logger defaults to a discarding logger.
	Logger *log.Logger
	// Metrics registers the dispatch and publish counters when set.
	Metrics prometheus.Registerer
	// Adapter overrides the registry lookup for Platform.
	Adapter Factory
}

// Interface is one now-playing session.
type Interface struct {
	name     string
	platform string
	store    *props.Store
	loop     *dispatch.Loop
	router   *control.Router
	adapter  platform.Adapter
	logger   *log.Logger

	mu       sync.Mutex
	looping  bool
	starting bool
	started  bool
	stopped  bool
	cancel   context.CancelFunc
	abort    context.CancelFunc
}

// New builds an Interface named name. Identity defaults to name.
func New(name string, opts Options) (*Interface, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.DiscardLogger()
	}

	id := opts.Platform
	if id == "" {
		id = platform.Detect()
	}
	factory := opts.Adapter
	if factory == nil {
		f, err := platform.Lookup(id)
		if err != nil {
			return nil, err
		}
		factory = f
	}

	collector := metrics.New(opts.Metrics)
	store := props.NewStore(logger)
	loop := dispatch.New(logger)
	router := control.NewRouter(control.RouterOpts{
		Store:   store,
		Loop:    loop,
		Handler: opts.Handler,
		Logger:  logger,
		Metrics: collector,
	})
	deps := platform.Deps{Name: name, Store: store, Router: router, Logger: logger, Metrics: collector}
	adapter, err := factory(deps)
	if err != nil {
		return nil, err
	}

	if _, err := store.SetPlayer(models.Identity, name); err != nil {
		return nil, err
	}
	store.Subscribe(props.ObserverFunc(func(scope models.Scope, name string, value any) {
		// Adapters log and count their own failures.
		_ = adapter.Publish(scope, name, value)
	}))

	return &Interface{
		name:     name,
		platform: id,
		store:    store,
		loop:     loop,
		router:   router,
		adapter:  adapter,
		logger:   logger.WithPrefix(name),
	}, nil
}

func (i *Interface) Name() string     { return i.name }
func (i *Interface) Platform() string { return i.platform }
func (i *Interface) State() State     { return i.adapter.State() }

// SetProperty writes a root-scope property and publishes it before returning. A value that does
// not match the schema returns an error wrapping [ErrSchema]; the stored value is unchanged.
func (i *Interface) SetProperty(name PropertyName, value any) error {
	_, err := i.store.SetPlayer(name, value)
	return err
}

// SetPlaybackProperty writes a player-scope property and publishes it before returning.
func (i *Interface) SetPlaybackProperty(name PlaybackPropertyName, value any) error {
	_, err := i.store.SetPlayback(name, value)
	return err
}

// SetTrackListProperty writes a track-list property and publishes it before returning.
func (i *Interface) SetTrackListProperty(name TrackListPropertyName, value any) error {
	_, err := i.store.SetTrackList(name, value)
	return err
}

func (i *Interface) GetProperty(name PropertyName) (any, error) {
	return i.store.Get(models.ScopePlayer, string(name))
}

func (i *Interface) GetPlaybackProperty(name PlaybackPropertyName) (any, error) {
	return i.store.Get(models.ScopePlayback, string(name))
}

func (i *Interface) GetTrackListProperty(name TrackListPropertyName) (any, error) {
	return i.store.Get(models.ScopeTrackList, string(name))
}

// Player, Playback and TrackList return typed snapshots.
func (i *Interface) Player() models.PlayerProperties       { return i.store.Player() }
func (i *Interface) Playback() models.PlaybackProperties   { return i.store.Playback() }
func (i *Interface) TrackList() models.TrackListProperties { return i.store.TrackList() }

// Subscribe registers an observer notified once per accepted set, in call order.
func (i *Interface) Subscribe(o Observer) {
	i.store.Subscribe(o)
}

// Start runs the control loop and connects the adapter. A connection failure wraps
// [shared.ErrConnection] and Start may be retried.
func (i *Interface) Start(ctx context.Context) error {
	i.mu.Lock()
	if i.stopped {
		i.mu.Unlock()
		return shared.ErrStopped
	}
	if i.started || i.starting {
		i.mu.Unlock()
		return shared.ErrAlreadyStarted
	}

	if !i.looping {
		loopCtx, cancel := context.WithCancel(context.Background())
		i.cancel = cancel
		i.looping = true
		go i.loop.Run(loopCtx)
	}
	ctx, abort := context.WithCancel(ctx)
	defer abort()
	i.starting = true
	i.abort = abort
	i.mu.Unlock()

	// The connect attempt runs unlocked so Stop can abort it.
	err := i.adapter.Start(ctx)

	i.mu.Lock()
	defer i.mu.Unlock()
	i.starting = false
	i.abort = nil
	if i.stopped {
		return shared.ErrStopped
	}
	if err != nil {
		i.logger.Error("adapter failed to start", "adapter", i.adapter.Name(), "err", err)
		return err
	}
	i.started = true
	i.logger.Info("serving", "adapter", i.adapter.Name(), "platform", i.platform)
	return nil
}

// Stop releases the adapter and stops the control loop. A callback already running is allowed to
// finish; nothing new is dispatched. A Start still connecting is aborted and returns ErrStopped.
// Stop is terminal and idempotent.
func (i *Interface) Stop() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.stopped {
		return nil
	}
	i.stopped = true
	if i.abort != nil {
		i.abort()
	}

	err := i.adapter.Stop()
	i.loop.Stop()
	if i.cancel != nil {
		i.cancel()
	}
	i.logger.Info("stopped", "adapter", i.adapter.Name())
	return err
}

// Done is closed once the control loop has exited. It never closes if Start was not called.
func (i *Interface) Done() <-chan struct{} {
	return i.loop.Done()
}

// Controls returns the router the native surface feeds. In-process remotes such as a terminal
// UI use it so their requests pass the same capability gate.
func (i *Interface) Controls() *Controller { return i.router }

// Seeked announces a discontinuous position change in microseconds.
func (i *Interface) Seeked(position int64) error {
	return i.adapter.Seeked(position)
}

func (i *Interface) trackList() (platform.TrackListPublisher, bool) {
	tl, ok := i.adapter.(platform.TrackListPublisher)
	if !ok {
		i.logger.Debug("track list signal ignored", "adapter", i.adapter.Name(), "err", shared.ErrUnsupported)
	}
	return tl, ok
}

func (i *Interface) TrackListReplaced(tracks []string, current string) error {
	if tl, ok := i.trackList(); ok {
		return swallowUnsupported(tl.TrackListReplaced(tracks, current))
	}
	return nil
}

func (i *Interface) TrackAdded(meta Metadata, afterTrackID string) error {
	if tl, ok := i.trackList(); ok {
		return swallowUnsupported(tl.TrackAdded(meta, afterTrackID))
	}
	return nil
}

func (i *Interface) TrackRemoved(trackID string) error {
	if tl, ok := i.trackList(); ok {
		return swallowUnsupported(tl.TrackRemoved(trackID))
	}
	return nil
}

func (i *Interface) TrackMetadataChanged(trackID string, meta Metadata) error {
	if tl, ok := i.trackList(); ok {
		return swallowUnsupported(tl.TrackMetadataChanged(trackID, meta))
	}
	return nil
}

func swallowUnsupported(err error) error {
	if errors.Is(err, shared.ErrUnsupported) {
		return nil
	}
	return err
}

// Platforms lists the registered adapter ids.
func Platforms() []string {
	return platform.IDs()
}
