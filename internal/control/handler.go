package control

import (
	"context"
	"errors"

	"github.com/desertthunder/nowplaying/internal/models"
)

// ErrDefaultAction is returned by a callback to request the built-in behavior for that slot.
//
// Only OnPlayPause has a built-in behavior; see [TogglePlayPause].
var ErrDefaultAction = errors.New("use default action")

// Handler receives control requests from the native surface.
//
// Callbacks are invoked one at a time on the control loop, never concurrently.
// Returned errors are logged and never reach the native surface.
type Handler interface {
	OnRaise(ctx context.Context) error
	OnQuit(ctx context.Context) error
	OnFullscreen(ctx context.Context, fullscreen bool) error
	OnLoopStatus(ctx context.Context, status models.LoopStatus) error
	OnRate(ctx context.Context, rate float64) error
	OnShuffle(ctx context.Context, shuffle bool) error
	OnVolume(ctx context.Context, volume float64) error
	OnNext(ctx context.Context) error
	OnPrevious(ctx context.Context) error
	OnPlay(ctx context.Context) error
	OnPause(ctx context.Context) error
	OnPlayPause(ctx context.Context) error
	OnStop(ctx context.Context) error
	OnSeek(ctx context.Context, offset int64) error
	OnOpenURI(ctx context.Context, uri string) error
	OnSetPosition(ctx context.Context, trackID string, position int64) error
}

// TrackListHandler is implemented by handlers that manage a track list.
type TrackListHandler interface {
	OnAddTrack(ctx context.Context, uri, afterTrackID string, setAsCurrent bool) error
	OnRemoveTrack(ctx context.Context, trackID string) error
	OnGoTo(ctx context.Context, trackID string) error
	TracksMetadata(ctx context.Context, trackIDs []string) ([]models.Metadata, error)
}

// NopHandler implements every [Handler] slot as a no-op.
//
// Embed it and override the slots the application cares about. OnPlayPause defers to [TogglePlayPause].
type NopHandler struct{}

func (NopHandler) OnRaise(context.Context) error                         { return nil }
func (NopHandler) OnQuit(context.Context) error                          { return nil }
func (NopHandler) OnFullscreen(context.Context, bool) error              { return nil }
func (NopHandler) OnLoopStatus(context.Context, models.LoopStatus) error { return nil }
func (NopHandler) OnRate(context.Context, float64) error                 { return nil }
func (NopHandler) OnShuffle(context.Context, bool) error                 { return nil }
func (NopHandler) OnVolume(context.Context, float64) error               { return nil }
func (NopHandler) OnNext(context.Context) error                          { return nil }
func (NopHandler) OnPrevious(context.Context) error                      { return nil }
func (NopHandler) OnPlay(context.Context) error                          { return nil }
func (NopHandler) OnPause(context.Context) error                         { return nil }
func (NopHandler) OnPlayPause(context.Context) error                     { return ErrDefaultAction }
func (NopHandler) OnStop(context.Context) error                          { return nil }
func (NopHandler) OnSeek(context.Context, int64) error                   { return nil }
func (NopHandler) OnOpenURI(context.Context, string) error               { return nil }
func (NopHandler) OnSetPosition(context.Context, string, int64) error    { return nil }

// StatusStore is the slice of the property model the play-pause composition needs.
type StatusStore interface {
	Playback() models.PlaybackProperties
	SetPlayback(name models.PlaybackPropertyName, value any) (any, error)
}

// TogglePlayPause is the default play-pause composition.
//
// When the status is Playing it calls OnPause and sets Paused, otherwise it calls OnPlay and sets Playing.
// The status is left alone when the callback fails.
func TogglePlayPause(ctx context.Context, h Handler, s StatusStore) error {
	if s.Playback().PlaybackStatus == models.Playing {
		if err := h.OnPause(ctx); err != nil {
			return err
		}
		_, err := s.SetPlayback(models.PropPlaybackStatus, models.Paused)
		return err
	}

	if err := h.OnPlay(ctx); err != nil {
		return err
	}
	_, err := s.SetPlayback(models.PropPlaybackStatus, models.Playing)
	return err
}
