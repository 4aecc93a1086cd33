package mediaplayer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/control"
	"github.com/desertthunder/nowplaying/internal/metrics"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/platform"
	"github.com/desertthunder/nowplaying/internal/props"
	"github.com/desertthunder/nowplaying/internal/shared"
)

func init() {
	platform.Register(platform.Darwin, New)
}

// commandGate maps each remote command to the control action whose capability enables it.
var commandGate = map[Command]control.Action{
	CommandPlay:                   control.ActionPlay,
	CommandPause:                  control.ActionPause,
	CommandTogglePlayPause:        control.ActionPlayPause,
	CommandStop:                   control.ActionStop,
	CommandNextTrack:              control.ActionNext,
	CommandPreviousTrack:          control.ActionPrevious,
	CommandChangePlaybackPosition: control.ActionSetPosition,
	CommandSkipForward:            control.ActionSeek,
	CommandSkipBackward:           control.ActionSeek,
	CommandChangeRepeatMode:       control.ActionLoopStatus,
	CommandChangeShuffleMode:      control.ActionShuffle,
	CommandChangePlaybackRate:     control.ActionRate,
}

// Adapter is the macOS [platform.Adapter].
type Adapter struct {
	platform.Lifecycle

	center  Center
	store   *props.Store
	router  *control.Router
	logger  *log.Logger
	metrics *metrics.Collector
}

// New builds an adapter over [LogCenter]. It satisfies [platform.Factory].
func New(deps platform.Deps) (platform.Adapter, error) {
	return NewAdapter(deps, NewLogCenter(deps.Log()))
}

// NewAdapter builds an adapter over c.
func NewAdapter(deps platform.Deps, c Center) (*Adapter, error) {
	if deps.Store == nil || deps.Router == nil || c == nil {
		return nil, fmt.Errorf("%w: mediaplayer adapter needs a store, a router and a center", shared.ErrMissingArgument)
	}
	return &Adapter{
		center:  c,
		store:   deps.Store,
		router:  deps.Router,
		logger:  deps.Log().WithPrefix("mediaplayer"),
		metrics: deps.Metrics,
	}, nil
}

func (a *Adapter) Name() string { return "mediaplayer" }

// Start registers the remote command targets and pushes the current state.
func (a *Adapter) Start(ctx context.Context) error {
	if err := a.Begin(); err != nil {
		return err
	}
	err := ctx.Err()
	if err == nil {
		err = a.center.Listen(a)
	}
	if err != nil {
		a.Finish(err)
		return fmt.Errorf("%w: %v", shared.ErrConnection, err)
	}
	if a.Finish(nil) == platform.Stopped {
		a.center.Close()
		return shared.ErrStopped
	}

	if err := errors.Join(a.syncCommands(), a.syncInfo(), a.syncState()); err != nil {
		a.logger.Warn("initial sync failed", "err", err)
	}
	a.logger.Info("now playing center ready")
	return nil
}

func (a *Adapter) Stop() error {
	if a.End() != platform.Connected {
		return nil
	}
	a.center.SetPlaybackState(StateStopped)
	return a.center.Close()
}

// Publish refreshes whatever part of the center the write affects.
func (a *Adapter) Publish(scope models.Scope, name string, value any) error {
	if scope != models.ScopePlayback || a.State() != platform.Connected {
		return nil
	}

	var err error
	switch models.PlaybackPropertyName(name) {
	case models.PropCanPlay, models.PropCanPause, models.PropCanGoNext, models.PropCanGoPrevious,
		models.PropCanSeek, models.PropCanControl:
		err = a.syncCommands()
	case models.PropPlaybackStatus:
		err = errors.Join(a.syncState(), a.syncInfo())
	case models.PropMetadata, models.PropPosition, models.PropDuration, models.PropRate:
		err = a.syncInfo()
	default:
		return nil
	}
	if err != nil {
		a.metrics.PublishError(platform.Darwin)
		a.logger.Warn("publish failed", "name", name, "err", err)
		return err
	}
	a.metrics.Published(platform.Darwin, string(scope))
	return nil
}

func (a *Adapter) syncCommands() error {
	st := a.router.State()
	var errs []error
	for _, cmd := range Commands {
		errs = append(errs, a.center.SetCommandEnabled(cmd, control.Permitted(commandGate[cmd], st)))
	}
	return errors.Join(errs...)
}

func (a *Adapter) syncInfo() error {
	return a.center.SetNowPlayingInfo(InfoFor(a.store.Playback()))
}

func (a *Adapter) syncState() error {
	return a.center.SetPlaybackState(StateFor(a.store.Playback().PlaybackStatus))
}

// Seeked rewrites the elapsed time so the system clock restarts from position.
func (a *Adapter) Seeked(position int64) error {
	if a.State() != platform.Connected {
		return nil
	}
	info := InfoFor(a.store.Playback())
	info.Elapsed = time.Duration(position) * time.Microsecond
	return a.center.SetNowPlayingInfo(info)
}

// HandleCommand routes a remote command into the router and always reports success. The router
// drops commands whose capability is off; syncCommands already greys them out in the system UI.
func (a *Adapter) HandleCommand(e Event) Status {
	r := a.router
	switch e.Command {
	case CommandPlay:
		r.Play()
	case CommandPause:
		r.Pause()
	case CommandTogglePlayPause:
		r.PlayPause()
	case CommandStop:
		r.Stop()
	case CommandNextTrack:
		r.Next()
	case CommandPreviousTrack:
		r.Previous()
	case CommandChangePlaybackPosition:
		if id := a.store.Playback().Metadata.ID; id != "" {
			r.SetPosition(id, e.Position.Microseconds())
		}
	case CommandSkipForward:
		r.Seek(e.Interval.Microseconds())
	case CommandSkipBackward:
		r.Seek(-e.Interval.Microseconds())
	case CommandChangeRepeatMode:
		r.SetLoopStatus(LoopFor(e.Repeat))
	case CommandChangeShuffleMode:
		r.SetShuffle(e.Shuffle)
	case CommandChangePlaybackRate:
		r.SetRate(e.Rate)
	}
	return StatusSuccess
}

// StateFor maps a playback status to MPNowPlayingPlaybackState.
func StateFor(s models.PlaybackStatus) PlaybackState {
	switch s {
	case models.Playing:
		return StatePlaying
	case models.Paused:
		return StatePaused
	case models.Stopped:
		return StateStopped
	}
	return StateUnknown
}

// LoopFor maps MPRepeatType to a loop status.
func LoopFor(r RepeatType) models.LoopStatus {
	switch r {
	case RepeatOne:
		return models.LoopTrack
	case RepeatAll:
		return models.LoopPlaylist
	}
	return models.LoopNone
}

// InfoFor builds the now-playing dictionary from a playback snapshot.
func InfoFor(pb models.PlaybackProperties) Info {
	m := pb.Metadata.Normalized()
	dur := m.Duration
	if pb.Duration > 0 {
		dur = pb.Duration
	}
	info := Info{
		Title:       m.Title,
		Artist:      strings.Join(m.Artist, ", "),
		AlbumTitle:  m.Album,
		Genre:       strings.Join(m.Genre, ", "),
		ArtworkURL:  m.Cover,
		Duration:    time.Duration(dur) * time.Microsecond,
		Elapsed:     time.Duration(pb.Position) * time.Microsecond,
		DefaultRate: pb.Rate,
		MediaType:   string(models.MediaMusic),
	}
	if m.MediaType != "" {
		info.MediaType = string(m.MediaType)
	}
	if pb.PlaybackStatus == models.Playing {
		info.Rate = pb.Rate
	}
	return info
}

var _ platform.Adapter = (*Adapter)(nil)
