package mediaplayer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/nowplaying/internal/control"
	"github.com/desertthunder/nowplaying/internal/dispatch"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/platform"
	"github.com/desertthunder/nowplaying/internal/props"
	"github.com/desertthunder/nowplaying/internal/shared"
	testutil "github.com/desertthunder/nowplaying/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCenter struct {
	mu        sync.Mutex
	info      Info
	infos     int
	state     PlaybackState
	enabled   map[Command]bool
	handler   Handler
	listenErr error
	closed    int
}

func newFakeCenter() *fakeCenter {
	return &fakeCenter{enabled: map[Command]bool{}}
}

func (c *fakeCenter) SetNowPlayingInfo(info Info) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.info = info
	c.infos++
	return nil
}

func (c *fakeCenter) SetPlaybackState(s PlaybackState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
	return nil
}

func (c *fakeCenter) SetCommandEnabled(cmd Command, v bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled[cmd] = v
	return nil
}

func (c *fakeCenter) Listen(h Handler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listenErr != nil {
		return c.listenErr
	}
	c.handler = h
	return nil
}

func (c *fakeCenter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

type harness struct {
	adapter *Adapter
	center  *fakeCenter
	store   *props.Store
	loop    *dispatch.Loop
}

func newHarness(t *testing.T, h control.Handler) *harness {
	t.Helper()
	store := props.NewStore(nil)
	loop := dispatch.New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-loop.Done()
	})

	fc := newFakeCenter()
	router := control.NewRouter(control.RouterOpts{Store: store, Loop: loop, Handler: h})
	a, err := NewAdapter(platform.Deps{Name: "test", Store: store, Router: router}, fc)
	require.NoError(t, err)
	store.Subscribe(props.ObserverFunc(func(scope models.Scope, name string, value any) {
		a.Publish(scope, name, value)
	}))
	return &harness{adapter: a, center: fc, store: store, loop: loop}
}

func (h *harness) drain(t *testing.T) {
	t.Helper()
	require.NoError(t, h.loop.Call(context.Background(), func(context.Context) error { return nil }))
}

func enableAll(s *props.Store) {
	for _, n := range []models.PlaybackPropertyName{
		models.PropCanGoNext, models.PropCanGoPrevious, models.PropCanPlay,
		models.PropCanPause, models.PropCanSeek, models.PropCanControl,
	} {
		s.SetPlayback(n, true)
	}
	s.SetPlayback(models.PropMaximumRate, 2.0)
}

func TestNewAdapter_RequiresCenter(t *testing.T) {
	_, err := NewAdapter(platform.Deps{}, nil)
	assert.ErrorIs(t, err, shared.ErrMissingArgument)
}

func TestNew_UsesLogCenter(t *testing.T) {
	store := props.NewStore(nil)
	router := control.NewRouter(control.RouterOpts{Store: store, Loop: dispatch.New(nil)})
	a, err := New(platform.Deps{Store: store, Router: router})
	require.NoError(t, err)
	assert.Equal(t, "mediaplayer", a.Name())
	assert.IsType(t, &LogCenter{}, a.(*Adapter).center)
}

func TestAdapter_Start(t *testing.T) {
	h := newHarness(t, nil)
	h.store.SetPlayback(models.PropCanPlay, true)
	h.store.SetPlayback(models.PropPlaybackStatus, models.Paused)
	assert.Zero(t, h.center.infos, "nothing reaches the center before Start")

	require.NoError(t, h.adapter.Start(context.Background()))

	assert.Same(t, h.adapter, h.center.handler)
	assert.Equal(t, StatePaused, h.center.state)
	assert.Equal(t, 1, h.center.infos)
	assert.Len(t, h.center.enabled, len(Commands))
	assert.True(t, h.center.enabled[CommandPlay])
	assert.False(t, h.center.enabled[CommandPause])
	assert.Equal(t, platform.Connected, h.adapter.State())

	assert.ErrorIs(t, h.adapter.Start(context.Background()), shared.ErrAlreadyStarted)
}

func TestAdapter_StartFailures(t *testing.T) {
	t.Run("listen error", func(t *testing.T) {
		h := newHarness(t, nil)
		h.center.listenErr = errors.New("no run loop")
		assert.ErrorIs(t, h.adapter.Start(context.Background()), shared.ErrConnection)
		assert.Equal(t, platform.Unconnected, h.adapter.State())
	})

	t.Run("cancelled context", func(t *testing.T) {
		h := newHarness(t, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, h.adapter.Start(ctx), shared.ErrConnection)
		assert.Nil(t, h.center.handler)
	})
}

func TestAdapter_StopIsIdempotent(t *testing.T) {
	h := newHarness(t, nil)
	assert.NoError(t, h.adapter.Stop(), "stop before start is a no-op")
	assert.Zero(t, h.center.closed)

	h = newHarness(t, nil)
	require.NoError(t, h.adapter.Start(context.Background()))
	assert.NoError(t, h.adapter.Stop())
	assert.NoError(t, h.adapter.Stop())
	assert.Equal(t, 1, h.center.closed)
	assert.Equal(t, StateStopped, h.center.state)
	assert.ErrorIs(t, h.adapter.Start(context.Background()), shared.ErrStopped)
}

func TestAdapter_CommandEnablement(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.adapter.Start(context.Background()))

	tc := []struct {
		name     models.PlaybackPropertyName
		commands []Command
	}{
		{models.PropCanPlay, []Command{CommandPlay}},
		{models.PropCanPause, []Command{CommandPause, CommandTogglePlayPause}},
		{models.PropCanGoNext, []Command{CommandNextTrack}},
		{models.PropCanGoPrevious, []Command{CommandPreviousTrack}},
		{models.PropCanSeek, []Command{CommandChangePlaybackPosition, CommandSkipForward, CommandSkipBackward}},
		{models.PropCanControl, []Command{CommandStop, CommandChangeRepeatMode, CommandChangeShuffleMode, CommandChangePlaybackRate}},
	}
	for _, tt := range tc {
		h.store.SetPlayback(tt.name, true)
		for _, cmd := range tt.commands {
			assert.True(t, h.center.enabled[cmd], "%s enables %s", tt.name, cmd)
		}
		h.store.SetPlayback(tt.name, false)
		for _, cmd := range tt.commands {
			assert.False(t, h.center.enabled[cmd], "%s disables %s", tt.name, cmd)
		}
	}
}

func TestAdapter_PublishInfo(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.adapter.Start(context.Background()))

	meta := models.DefaultMetadata()
	meta.ID = "track-3"
	meta.Title = "So What"
	meta.Artist = []string{"Miles Davis", "John Coltrane"}
	meta.Album = "Kind of Blue"
	meta.Genre = []string{"Jazz", "Modal"}
	meta.Cover = "file:///art/kob.png"
	meta.Duration = 562_000_000
	h.store.SetPlayback(models.PropMetadata, meta)

	info := h.center.info
	assert.Equal(t, "So What", info.Title)
	assert.Equal(t, "Miles Davis, John Coltrane", info.Artist)
	assert.Equal(t, "Kind of Blue", info.AlbumTitle)
	assert.Equal(t, "Jazz, Modal", info.Genre)
	assert.Equal(t, "file:///art/kob.png", info.ArtworkURL)
	assert.Equal(t, 562*time.Second, info.Duration)
	assert.Equal(t, string(models.MediaMusic), info.MediaType)
	assert.Zero(t, info.Rate, "rate is zero while stopped")
	assert.Equal(t, 1.0, info.DefaultRate)

	h.store.SetPlayback(models.PropPlaybackStatus, models.Playing)
	assert.Equal(t, StatePlaying, h.center.state)
	assert.Equal(t, 1.0, h.center.info.Rate)

	h.store.SetPlayback(models.PropPosition, int64(90_000_000))
	assert.Equal(t, 90*time.Second, h.center.info.Elapsed)

	h.store.SetPlayback(models.PropDuration, int64(600_000_000))
	assert.Equal(t, 600*time.Second, h.center.info.Duration)

	before := h.center.infos
	h.store.SetPlayback(models.PropVolume, 0.5)
	h.store.SetPlayer(models.Identity, "other")
	assert.Equal(t, before, h.center.infos, "unmapped properties are not pushed")
}

func TestAdapter_Seeked(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.adapter.Seeked(1))
	assert.Zero(t, h.center.infos)

	require.NoError(t, h.adapter.Start(context.Background()))
	require.NoError(t, h.adapter.Seeked(45_000_000))
	assert.Equal(t, 45*time.Second, h.center.info.Elapsed)
}

func TestHandleCommand_Gated(t *testing.T) {
	rec := testutil.NewRecordingHandler()
	h := newHarness(t, rec)
	require.NoError(t, h.adapter.Start(context.Background()))

	for _, cmd := range Commands {
		assert.Equal(t, StatusSuccess, h.adapter.HandleCommand(Event{Command: cmd}), "%s", cmd)
	}
	assert.Equal(t, StatusSuccess, h.adapter.HandleCommand(Event{Command: Command(99)}))
	h.drain(t)
	assert.Empty(t, rec.Calls())
}

func TestHandleCommand_Routes(t *testing.T) {
	rec := testutil.NewRecordingHandler()
	h := newHarness(t, rec)
	enableAll(h.store)
	meta := models.DefaultMetadata()
	meta.ID = "track-9"
	h.store.SetPlayback(models.PropMetadata, meta)

	events := []Event{
		{Command: CommandPlay},
		{Command: CommandPause},
		{Command: CommandStop},
		{Command: CommandNextTrack},
		{Command: CommandPreviousTrack},
		{Command: CommandChangePlaybackPosition, Position: 20 * time.Second},
		{Command: CommandSkipForward, Interval: 15 * time.Second},
		{Command: CommandSkipBackward, Interval: 15 * time.Second},
		{Command: CommandChangeRepeatMode, Repeat: RepeatOne},
		{Command: CommandChangeShuffleMode, Shuffle: true},
		{Command: CommandChangePlaybackRate, Rate: 1.25},
	}
	for _, e := range events {
		assert.Equal(t, StatusSuccess, h.adapter.HandleCommand(e), "%s", e.Command)
	}
	h.drain(t)

	assert.Equal(t, []testutil.Call{
		{Name: "OnPlay"},
		{Name: "OnPause"},
		{Name: "OnStop"},
		{Name: "OnNext"},
		{Name: "OnPrevious"},
		{Name: "OnSetPosition", Args: []any{"track-9", int64(20_000_000)}},
		{Name: "OnSeek", Args: []any{int64(15_000_000)}},
		{Name: "OnSeek", Args: []any{int64(-15_000_000)}},
		{Name: "OnLoopStatus", Args: []any{models.LoopTrack}},
		{Name: "OnShuffle", Args: []any{true}},
		{Name: "OnRate", Args: []any{1.25}},
	}, rec.Calls())

	pb := h.store.Playback()
	assert.Equal(t, models.LoopTrack, pb.LoopStatus)
	assert.True(t, pb.Shuffle)
	assert.Equal(t, 1.25, pb.Rate)
}

func TestHandleCommand_TogglePlayPause(t *testing.T) {
	rec := testutil.NewRecordingHandler()
	h := newHarness(t, rec)
	enableAll(h.store)
	h.store.SetPlayback(models.PropPlaybackStatus, models.Playing)

	assert.Equal(t, StatusSuccess, h.adapter.HandleCommand(Event{Command: CommandTogglePlayPause}))
	h.drain(t)
	assert.Equal(t, []string{"OnPause"}, rec.Names())
}

func TestHandleCommand_NoCurrentTrack(t *testing.T) {
	rec := testutil.NewRecordingHandler()
	h := newHarness(t, rec)
	enableAll(h.store)

	st := h.adapter.HandleCommand(Event{Command: CommandChangePlaybackPosition, Position: time.Second})
	assert.Equal(t, StatusSuccess, st)
	h.drain(t)
	assert.Empty(t, rec.Calls())
}

func TestLoopFor(t *testing.T) {
	assert.Equal(t, models.LoopNone, LoopFor(RepeatOff))
	assert.Equal(t, models.LoopTrack, LoopFor(RepeatOne))
	assert.Equal(t, models.LoopPlaylist, LoopFor(RepeatAll))
}

func TestStateFor(t *testing.T) {
	assert.Equal(t, StatePlaying, StateFor(models.Playing))
	assert.Equal(t, StatePaused, StateFor(models.Paused))
	assert.Equal(t, StateStopped, StateFor(models.Stopped))
	assert.Equal(t, StateUnknown, StateFor(""))
}
