package props

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/shared"
)

type change struct {
	scope models.Scope
	name  string
	value any
}

type recorder struct {
	mu      sync.Mutex
	changes []change
}

func (r *recorder) OnPropertyChanged(scope models.Scope, name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change{scope, name, value})
}

func TestStore_RoundTrip(t *testing.T) {
	meta := models.DefaultMetadata()
	meta.ID = "/org/mpris/MediaPlayer2/Track/1"
	meta.Title = "Test Title"
	meta.Duration = 10000
	meta.Artist = []string{"A", "B"}

	tc := []struct {
		scope models.Scope
		name  string
		value any
	}{
		{models.ScopePlayer, string(models.CanQuit), true},
		{models.ScopePlayer, string(models.CanRaise), true},
		{models.ScopePlayer, string(models.CanSetFullscreen), true},
		{models.ScopePlayer, string(models.Fullscreen), true},
		{models.ScopePlayer, string(models.HasTrackList), true},
		{models.ScopePlayer, string(models.Identity), "TestPlayer"},
		{models.ScopePlayer, string(models.DesktopEntry), "test-player"},
		{models.ScopePlayer, string(models.SupportedURISchemes), []string{"file", "http"}},
		{models.ScopePlayer, string(models.SupportedMimeTypes), []string{"audio/mpeg"}},
		{models.ScopePlayback, string(models.PropPlaybackStatus), models.Playing},
		{models.ScopePlayback, string(models.PropLoopStatus), models.LoopPlaylist},
		{models.ScopePlayback, string(models.PropRate), 1.5},
		{models.ScopePlayback, string(models.PropShuffle), true},
		{models.ScopePlayback, string(models.PropMetadata), meta},
		{models.ScopePlayback, string(models.PropVolume), 0.25},
		{models.ScopePlayback, string(models.PropPosition), int64(42_000_000)},
		{models.ScopePlayback, string(models.PropDuration), int64(180_000_000)},
		{models.ScopePlayback, string(models.PropMinimumRate), 0.5},
		{models.ScopePlayback, string(models.PropMaximumRate), 2.0},
		{models.ScopePlayback, string(models.PropCanGoNext), true},
		{models.ScopePlayback, string(models.PropCanGoPrevious), true},
		{models.ScopePlayback, string(models.PropCanPlay), true},
		{models.ScopePlayback, string(models.PropCanPause), true},
		{models.ScopePlayback, string(models.PropCanSeek), true},
		{models.ScopePlayback, string(models.PropCanControl), true},
		{models.ScopeTrackList, string(models.PropTracks), []string{"/t/1", "/t/2"}},
		{models.ScopeTrackList, string(models.PropCanEditTracks), true},
	}

	for _, tt := range tc {
		t.Run(string(tt.scope)+"."+tt.name, func(t *testing.T) {
			s := NewStore(nil)
			if _, err := s.Set(tt.scope, tt.name, tt.value); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := s.Get(tt.scope, tt.name)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.value) {
				t.Errorf("Get() = %#v, want %#v", got, tt.value)
			}
		})
	}
}

func TestStore_SchemaCoversAllNames(t *testing.T) {
	for _, n := range models.PlayerPropertyNames {
		if _, ok := KindOf(models.ScopePlayer, string(n)); !ok {
			t.Errorf("no schema entry for player property %s", n)
		}
	}
	for _, n := range models.PlaybackPropertyNames {
		if _, ok := KindOf(models.ScopePlayback, string(n)); !ok {
			t.Errorf("no schema entry for playback property %s", n)
		}
	}
	for _, n := range models.TrackListPropertyNames {
		if _, ok := KindOf(models.ScopeTrackList, string(n)); !ok {
			t.Errorf("no schema entry for track list property %s", n)
		}
	}
}

func TestStore_SchemaErrors(t *testing.T) {
	tc := []struct {
		name    string
		scope   models.Scope
		prop    string
		value   any
		unknown bool
	}{
		{name: "bool as string", scope: models.ScopePlayer, prop: string(models.CanQuit), value: "true"},
		{name: "string as int", scope: models.ScopePlayer, prop: string(models.Identity), value: 7},
		{name: "unknown status", scope: models.ScopePlayback, prop: string(models.PropPlaybackStatus), value: "Rewinding"},
		{name: "unknown loop", scope: models.ScopePlayback, prop: string(models.PropLoopStatus), value: models.LoopStatus("All")},
		{name: "volume above range", scope: models.ScopePlayback, prop: string(models.PropVolume), value: 1.5},
		{name: "position as float", scope: models.ScopePlayback, prop: string(models.PropPosition), value: 1.0},
		{name: "metadata as map", scope: models.ScopePlayback, prop: string(models.PropMetadata), value: map[string]any{}},
		{name: "bad media type", scope: models.ScopePlayback, prop: string(models.PropMetadata), value: models.Metadata{MediaType: "Podcast"}},
		{name: "unknown name", scope: models.ScopePlayer, prop: "CanFly", value: true, unknown: true},
		{name: "wrong scope", scope: models.ScopeTrackList, prop: string(models.CanQuit), value: true, unknown: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(nil)
			r := &recorder{}
			s.Subscribe(r)

			_, err := s.Set(tt.scope, tt.prop, tt.value)
			if !errors.Is(err, shared.ErrSchema) {
				t.Fatalf("Set() error = %v, want ErrSchema", err)
			}
			if tt.unknown != errors.Is(err, shared.ErrUnknownProperty) {
				t.Errorf("Set() error = %v, unknown property = %v", err, tt.unknown)
			}
			if len(r.changes) != 0 {
				t.Errorf("observer notified %d times on rejected write", len(r.changes))
			}
		})
	}
}

func TestStore_Defaults(t *testing.T) {
	s := NewStore(nil)

	p := s.Player()
	if p.CanQuit || p.CanRaise || p.CanSetFullscreen || p.HasTrackList {
		t.Errorf("player capability defaults should be false: %+v", p)
	}
	if p.SupportedMimeTypes == nil || p.SupportedURISchemes == nil {
		t.Error("player slice defaults should be empty, not nil")
	}

	pb := s.Playback()
	if pb.PlaybackStatus != models.Stopped || pb.LoopStatus != models.LoopNone {
		t.Errorf("unexpected status defaults %v %v", pb.PlaybackStatus, pb.LoopStatus)
	}
	if pb.Rate != 1.0 || pb.Volume != 1.0 || pb.MinimumRate != 1.0 || pb.MaximumRate != 1.0 {
		t.Errorf("unexpected numeric defaults %+v", pb)
	}
	if pb.Metadata.Title != models.UnknownTitle {
		t.Errorf("default title = %q, want %q", pb.Metadata.Title, models.UnknownTitle)
	}
}

func TestStore_SetReturnsPrevious(t *testing.T) {
	s := NewStore(nil)
	prev, err := s.SetPlayback(models.PropPlaybackStatus, models.Playing)
	if err != nil {
		t.Fatalf("SetPlayback() error = %v", err)
	}
	if prev != models.Stopped {
		t.Errorf("previous = %v, want Stopped", prev)
	}

	prev, _ = s.SetPlayback(models.PropPlaybackStatus, models.Paused)
	if prev != models.Playing {
		t.Errorf("previous = %v, want Playing", prev)
	}
}

func TestStore_NotifiesOncePerSetInOrder(t *testing.T) {
	s := NewStore(nil)
	r := &recorder{}
	s.Subscribe(r)

	s.SetPlayback(models.PropPlaybackStatus, models.Playing)
	s.SetPlayback(models.PropPlaybackStatus, models.Paused)
	s.SetPlayer(models.Identity, "TestPlayer")

	want := []change{
		{models.ScopePlayback, string(models.PropPlaybackStatus), models.Playing},
		{models.ScopePlayback, string(models.PropPlaybackStatus), models.Paused},
		{models.ScopePlayer, string(models.Identity), "TestPlayer"},
	}
	if !reflect.DeepEqual(r.changes, want) {
		t.Errorf("changes = %v, want %v", r.changes, want)
	}
}

func TestStore_SameValueStillPublishes(t *testing.T) {
	s := NewStore(nil)
	r := &recorder{}
	s.Subscribe(r)

	s.SetPlayer(models.CanQuit, true)
	s.SetPlayer(models.CanQuit, true)

	if len(r.changes) != 2 {
		t.Errorf("got %d notifications, want 2", len(r.changes))
	}
}

func TestStore_CopiesSlices(t *testing.T) {
	s := NewStore(nil)
	schemes := []string{"file"}
	s.SetPlayer(models.SupportedURISchemes, schemes)
	schemes[0] = "mutated"

	if got := s.Player().SupportedURISchemes[0]; got != "file" {
		t.Errorf("store kept caller slice, got %q", got)
	}
}

func TestStore_WideningAndStrings(t *testing.T) {
	s := NewStore(nil)

	if _, err := s.SetPlayback(models.PropPosition, 5); err != nil {
		t.Fatalf("int position rejected: %v", err)
	}
	if got := s.Playback().Position; got != 5 {
		t.Errorf("Position = %d, want 5", got)
	}

	if _, err := s.SetPlayback(models.PropPlaybackStatus, "Paused"); err != nil {
		t.Fatalf("string status rejected: %v", err)
	}
	if got := s.Playback().PlaybackStatus; got != models.Paused {
		t.Errorf("PlaybackStatus = %v, want Paused", got)
	}

	if _, err := s.SetPlayback(models.PropRate, float32(2)); err != nil {
		t.Fatalf("float32 rate rejected: %v", err)
	}
}

func TestStore_ConcurrentWriters(t *testing.T) {
	s := NewStore(nil)
	var count int
	var mu sync.Mutex
	s.Subscribe(ObserverFunc(func(models.Scope, string, any) {
		mu.Lock()
		count++
		mu.Unlock()
	}))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SetPlayback(models.PropPosition, int64(i))
		}()
	}
	wg.Wait()

	if count != 50 {
		t.Errorf("got %d notifications, want 50", count)
	}
}
