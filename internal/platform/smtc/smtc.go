package smtc

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
	platform.Register(platform.Windows, New)
}

// Adapter is the Windows [platform.Adapter]. It has no connection to establish; Start
// enables the controls and pushes the current state.
type Adapter struct {
	platform.Lifecycle

	controls Controls
	store    *props.Store
	router   *control.Router
	logger   *log.Logger
	metrics  *metrics.Collector
}

// New builds an adapter over [LogControls]. It satisfies [platform.Factory].
func New(deps platform.Deps) (platform.Adapter, error) {
	return NewAdapter(deps, NewLogControls(deps.Log()))
}

// NewAdapter builds an adapter over c.
func NewAdapter(deps platform.Deps, c Controls) (*Adapter, error) {
	if deps.Store == nil || deps.Router == nil || c == nil {
		return nil, fmt.Errorf("%w: smtc adapter needs a store, a router and controls", shared.ErrMissingArgument)
	}
	return &Adapter{
		controls: c,
		store:    deps.Store,
		router:   deps.Router,
		logger:   deps.Log().WithPrefix("smtc"),
		metrics:  deps.Metrics,
	}, nil
}

func (a *Adapter) Name() string { return "smtc" }

func (a *Adapter) Start(ctx context.Context) error {
	if err := a.Begin(); err != nil {
		return err
	}
	err := ctx.Err()
	if err == nil {
		err = a.controls.Listen(a)
	}
	if err == nil {
		err = a.controls.SetEnabled(true)
	}
	if err != nil {
		a.Finish(err)
		return fmt.Errorf("%w: %v", shared.ErrConnection, err)
	}
	if a.Finish(nil) == platform.Stopped {
		a.controls.Close()
		return shared.ErrStopped
	}

	a.sync()
	a.logger.Info("transport controls enabled")
	return nil
}

// sync pushes every mapped property once.
func (a *Adapter) sync() {
	pb := a.store.Playback()
	for _, name := range models.PlaybackPropertyNames {
		v, err := a.store.Get(models.ScopePlayback, string(name))
		if err != nil {
			continue
		}
		if err := a.apply(name, v, pb); err != nil {
			a.logger.Warn("initial sync failed", "name", name, "err", err)
		}
	}
}

func (a *Adapter) Stop() error {
	if a.End() != platform.Connected {
		return nil
	}
	a.controls.SetEnabled(false)
	return a.controls.Close()
}

// Publish maps one write onto the controls. Root and track-list properties have no SMTC
// counterpart.
func (a *Adapter) Publish(scope models.Scope, name string, value any) error {
	if scope != models.ScopePlayback || a.State() != platform.Connected {
		return nil
	}
	if err := a.apply(models.PlaybackPropertyName(name), value, a.store.Playback()); err != nil {
		a.metrics.PublishError(platform.Windows)
		a.logger.Warn("publish failed", "name", name, "err", err)
		return err
	}
	a.metrics.Published(platform.Windows, string(scope))
	return nil
}

func (a *Adapter) apply(name models.PlaybackPropertyName, value any, pb models.PlaybackProperties) error {
	c := a.controls
	switch name {
	case models.PropCanPlay:
		return c.SetButtonEnabled(ButtonPlay, value.(bool))
	case models.PropCanPause:
		return c.SetButtonEnabled(ButtonPause, value.(bool))
	case models.PropCanGoNext:
		return c.SetButtonEnabled(ButtonNext, value.(bool))
	case models.PropCanGoPrevious:
		return c.SetButtonEnabled(ButtonPrevious, value.(bool))
	case models.PropCanControl:
		return c.SetButtonEnabled(ButtonStop, value.(bool))
	case models.PropPlaybackStatus:
		return c.SetPlaybackStatus(StatusFor(value.(models.PlaybackStatus)))
	case models.PropShuffle:
		return c.SetShuffleEnabled(value.(bool))
	case models.PropRate:
		return c.SetPlaybackRate(value.(float64))
	case models.PropLoopStatus:
		return c.SetAutoRepeatMode(RepeatFor(value.(models.LoopStatus)))
	case models.PropMetadata:
		return errors.Join(c.UpdateDisplay(DisplayFor(value.(models.Metadata))), c.UpdateTimeline(TimelineFor(pb)))
	case models.PropPosition, models.PropDuration, models.PropCanSeek:
		return c.UpdateTimeline(TimelineFor(pb))
	}
	return nil
}

// Seeked moves the timeline; SMTC has no separate seek notification.
func (a *Adapter) Seeked(position int64) error {
	if a.State() != platform.Connected {
		return nil
	}
	t := TimelineFor(a.store.Playback())
	t.Position = micros(position)
	return a.controls.UpdateTimeline(t)
}

// ButtonPressed routes a button to the matching control request.
func (a *Adapter) ButtonPressed(b Button) {
	switch b {
	case ButtonPlay:
		a.router.Play()
	case ButtonPause:
		a.router.Pause()
	case ButtonStop:
		a.router.Stop()
	case ButtonNext:
		a.router.Next()
	case ButtonPrevious:
		a.router.Previous()
	default:
		a.logger.Debug("ignoring button", "button", b)
	}
}

// PlaybackPositionChangeRequested issues SetPosition for the current track followed by a
// Seek by the distance moved. Both are gated on CanSeek.
func (a *Adapter) PlaybackPositionChangeRequested(position time.Duration) {
	pb := a.store.Playback()
	target := position.Microseconds()
	a.router.SetPosition(pb.Metadata.ID, target)
	a.router.Seek(target - pb.Position)
}

func (a *Adapter) PlaybackRateChangeRequested(rate float64) { a.router.SetRate(rate) }

func (a *Adapter) ShuffleEnabledChangeRequested(enabled bool) { a.router.SetShuffle(enabled) }

func (a *Adapter) AutoRepeatModeChangeRequested(mode RepeatMode) {
	a.router.SetLoopStatus(LoopFor(mode))
}

func (a *Adapter) SoundLevelChanged(level SoundLevel) {
	switch level {
	case SoundMuted:
		a.router.SetVolume(0)
	case SoundLow:
		a.router.SetVolume(0.5)
	default:
		a.router.SetVolume(1)
	}
}

// StatusFor maps a playback status to MediaPlaybackStatus.
func StatusFor(s models.PlaybackStatus) PlaybackStatus {
	switch s {
	case models.Playing:
		return StatusPlaying
	case models.Paused:
		return StatusPaused
	default:
		return StatusStopped
	}
}

// RepeatFor maps a loop status to the tri-state auto-repeat mode.
func RepeatFor(s models.LoopStatus) RepeatMode {
	switch s {
	case models.LoopTrack:
		return RepeatTrack
	case models.LoopPlaylist:
		return RepeatList
	default:
		return RepeatNone
	}
}

// LoopFor is the inverse of [RepeatFor].
func LoopFor(m RepeatMode) models.LoopStatus {
	switch m {
	case RepeatTrack:
		return models.LoopTrack
	case RepeatList:
		return models.LoopPlaylist
	default:
		return models.LoopNone
	}
}

func mediaType(t models.MediaType) MediaType {
	switch t {
	case models.MediaVideo:
		return TypeVideo
	case models.MediaImage:
		return TypeImage
	default:
		return TypeMusic
	}
}

// DisplayFor maps metadata onto the display updater fields.
func DisplayFor(m models.Metadata) Display {
	m = m.Normalized()
	return Display{
		Type:        mediaType(m.MediaType),
		AppMediaID:  m.ID,
		Title:       m.Title,
		Artist:      strings.Join(m.Artist, ","),
		AlbumTitle:  m.Album,
		AlbumArtist: strings.Join(m.AlbumArtist, ","),
		Genres:      m.Genre,
		TrackNumber: m.TrackNumber,
		Thumbnail:   m.Cover,
	}
}

// TimelineFor builds the timeline from a playback snapshot. An explicit Duration wins over
// the metadata length, and the seek window collapses when seeking is off.
func TimelineFor(pb models.PlaybackProperties) Timeline {
	end := pb.Metadata.Duration
	if pb.Duration > 0 {
		end = pb.Duration
	}
	t := Timeline{End: micros(end), Position: micros(pb.Position)}
	if pb.CanSeek {
		t.MaxSeek = t.End
	}
	return t
}

func micros(us int64) time.Duration { return time.Duration(us) * time.Microsecond }

var (
	_ platform.Adapter = (*Adapter)(nil)
	_ Events           = (*Adapter)(nil)
)
