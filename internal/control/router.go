package control

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/dispatch"
	"github.com/desertthunder/nowplaying/internal/metrics"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/props"
	"github.com/desertthunder/nowplaying/internal/shared"
)

// Router is the inbound half of the control contract shared by every platform adapter.
//
// Each method gates the request against the current capability flags, then posts the
// callback onto the control loop and returns without waiting. Accepted toggles are
// mirrored back into the property model once the callback succeeds.
type Router struct {
	store   *props.Store
	loop    *dispatch.Loop
	handler Handler
	logger  *log.Logger
	metrics *metrics.Collector
}

// RouterOpts contains the dependencies for [NewRouter].
type RouterOpts struct {
	Store   *props.Store
	Loop    *dispatch.Loop
	Handler Handler
	Logger  *log.Logger
	Metrics *metrics.Collector
}

// NewRouter creates a Router. A nil Handler is replaced with [NopHandler].
func NewRouter(opts RouterOpts) *Router {
	if opts.Handler == nil {
		opts.Handler = NopHandler{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}
	return &Router{
		store:   opts.Store,
		loop:    opts.Loop,
		handler: opts.Handler,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
}

// State returns the current capability view.
func (r *Router) State() State {
	return State{
		Player:    r.store.Player(),
		Playback:  r.store.Playback(),
		TrackList: r.store.TrackList(),
	}
}

func (r *Router) Raise() {
	r.dispatch(ActionRaise, func(ctx context.Context, h Handler) error { return h.OnRaise(ctx) })
}

func (r *Router) Quit() {
	r.dispatch(ActionQuit, func(ctx context.Context, h Handler) error { return h.OnQuit(ctx) })
}

func (r *Router) Next() {
	r.dispatch(ActionNext, func(ctx context.Context, h Handler) error { return h.OnNext(ctx) })
}

func (r *Router) Previous() {
	r.dispatch(ActionPrevious, func(ctx context.Context, h Handler) error { return h.OnPrevious(ctx) })
}

func (r *Router) Play() {
	r.dispatch(ActionPlay, func(ctx context.Context, h Handler) error { return h.OnPlay(ctx) })
}

func (r *Router) Pause() {
	r.dispatch(ActionPause, func(ctx context.Context, h Handler) error { return h.OnPause(ctx) })
}

func (r *Router) Stop() {
	r.dispatch(ActionStop, func(ctx context.Context, h Handler) error { return h.OnStop(ctx) })
}

// PlayPause calls the handler's OnPlayPause, falling back to [TogglePlayPause] when it returns [ErrDefaultAction].
func (r *Router) PlayPause() {
	r.dispatch(ActionPlayPause, func(ctx context.Context, h Handler) error {
		err := h.OnPlayPause(ctx)
		if errors.Is(err, ErrDefaultAction) {
			return TogglePlayPause(ctx, h, r.store)
		}
		return err
	})
}

func (r *Router) Seek(offset int64) {
	r.dispatch(ActionSeek, func(ctx context.Context, h Handler) error { return h.OnSeek(ctx, offset) })
}

// SetPosition is ignored when trackID is not the current track or position is negative.
func (r *Router) SetPosition(trackID string, position int64) {
	current := r.store.Playback().Metadata.ID
	if trackID != current || position < 0 {
		r.drop(ActionSetPosition, metrics.ReasonStale, "track", trackID, "current", current)
		return
	}
	r.dispatch(ActionSetPosition, func(ctx context.Context, h Handler) error {
		return h.OnSetPosition(ctx, trackID, position)
	})
}

func (r *Router) OpenURI(uri string) {
	r.dispatch(ActionOpenURI, func(ctx context.Context, h Handler) error { return h.OnOpenURI(ctx, uri) })
}

func (r *Router) SetFullscreen(fullscreen bool) {
	r.dispatch(ActionFullscreen, func(ctx context.Context, h Handler) error {
		if err := h.OnFullscreen(ctx, fullscreen); err != nil {
			return err
		}
		_, err := r.store.SetPlayer(models.Fullscreen, fullscreen)
		return err
	})
}

func (r *Router) SetLoopStatus(status models.LoopStatus) {
	if !status.Valid() {
		r.drop(ActionLoopStatus, metrics.ReasonBounds, "status", status)
		return
	}
	r.dispatch(ActionLoopStatus, func(ctx context.Context, h Handler) error {
		if err := h.OnLoopStatus(ctx, status); err != nil {
			return err
		}
		_, err := r.store.SetPlayback(models.PropLoopStatus, status)
		return err
	})
}

func (r *Router) SetShuffle(shuffle bool) {
	r.dispatch(ActionShuffle, func(ctx context.Context, h Handler) error {
		if err := h.OnShuffle(ctx, shuffle); err != nil {
			return err
		}
		_, err := r.store.SetPlayback(models.PropShuffle, shuffle)
		return err
	})
}

// SetVolume clamps volume to [0, 1] before dispatching.
func (r *Router) SetVolume(volume float64) {
	volume = max(0, min(1, volume))
	r.dispatch(ActionVolume, func(ctx context.Context, h Handler) error {
		if err := h.OnVolume(ctx, volume); err != nil {
			return err
		}
		_, err := r.store.SetPlayback(models.PropVolume, volume)
		return err
	})
}

// SetRate drops rates outside [MinimumRate, MaximumRate].
func (r *Router) SetRate(rate float64) {
	if !RateInBounds(rate, r.store.Playback()) {
		r.drop(ActionRate, metrics.ReasonBounds, "rate", rate)
		return
	}
	r.dispatch(ActionRate, func(ctx context.Context, h Handler) error {
		if err := h.OnRate(ctx, rate); err != nil {
			return err
		}
		_, err := r.store.SetPlayback(models.PropRate, rate)
		return err
	})
}

func (r *Router) AddTrack(uri, afterTrackID string, setAsCurrent bool) {
	r.dispatch(ActionAddTrack, func(ctx context.Context, h Handler) error {
		tl, ok := h.(TrackListHandler)
		if !ok {
			return shared.ErrUnsupported
		}
		return tl.OnAddTrack(ctx, uri, afterTrackID, setAsCurrent)
	})
}

func (r *Router) RemoveTrack(trackID string) {
	r.dispatch(ActionRemoveTrack, func(ctx context.Context, h Handler) error {
		tl, ok := h.(TrackListHandler)
		if !ok {
			return shared.ErrUnsupported
		}
		return tl.OnRemoveTrack(ctx, trackID)
	})
}

func (r *Router) GoTo(trackID string) {
	r.dispatch(ActionGoTo, func(ctx context.Context, h Handler) error {
		tl, ok := h.(TrackListHandler)
		if !ok {
			return shared.ErrUnsupported
		}
		return tl.OnGoTo(ctx, trackID)
	})
}

// TracksMetadata asks the handler for per-track metadata and waits for the answer on the control loop.
func (r *Router) TracksMetadata(ctx context.Context, trackIDs []string) ([]models.Metadata, error) {
	tl, ok := r.handler.(TrackListHandler)
	if !ok {
		return nil, fmt.Errorf("%w: handler has no track list", shared.ErrUnsupported)
	}

	var out []models.Metadata
	err := r.loop.Call(ctx, func(ctx context.Context) error {
		m, err := tl.TracksMetadata(ctx, trackIDs)
		out = m
		return err
	})
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = out[i].Normalized()
	}
	return out, nil
}

func (r *Router) dispatch(action Action, fn func(ctx context.Context, h Handler) error) {
	if !Permitted(action, r.State()) {
		r.drop(action, metrics.ReasonGate)
		return
	}

	err := r.loop.Post(func(ctx context.Context) {
		defer func() {
			if p := recover(); p != nil {
				r.metrics.CallbackError(string(action))
				r.logger.Error("control callback panicked", "action", action, "panic", p)
			}
		}()
		if err := fn(ctx, r.handler); err != nil {
			r.metrics.CallbackError(string(action))
			r.logger.Warn("control callback failed", "action", action, "err", err)
		}
	})
	if err != nil {
		r.drop(action, metrics.ReasonStopped)
		return
	}
	r.metrics.Dispatched(string(action))
	r.logger.Debug("control dispatched", "action", action)
}

func (r *Router) drop(action Action, reason string, kv ...any) {
	r.metrics.Dropped(string(action), reason)
	r.logger.Debug("control dropped", append([]any{"action", action, "reason", reason}, kv...)...)
}
