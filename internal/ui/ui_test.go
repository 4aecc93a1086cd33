package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/nowplaying/internal/models"
)

type fakeSource struct {
	player   models.PlayerProperties
	playback models.PlaybackProperties
}

func (s *fakeSource) Player() models.PlayerProperties     { return s.player }
func (s *fakeSource) Playback() models.PlaybackProperties { return s.playback }

type fakeRemote struct {
	calls []string
	loop  models.LoopStatus
	seek  []int64
	shuf  *bool
}

func (r *fakeRemote) PlayPause()        { r.calls = append(r.calls, "PlayPause") }
func (r *fakeRemote) Next()             { r.calls = append(r.calls, "Next") }
func (r *fakeRemote) Previous()         { r.calls = append(r.calls, "Previous") }
func (r *fakeRemote) Stop()             { r.calls = append(r.calls, "Stop") }
func (r *fakeRemote) Quit()             { r.calls = append(r.calls, "Quit") }
func (r *fakeRemote) Seek(offset int64) { r.seek = append(r.seek, offset) }
func (r *fakeRemote) SetLoopStatus(s models.LoopStatus) {
	r.calls = append(r.calls, "SetLoopStatus")
	r.loop = s
}
func (r *fakeRemote) SetShuffle(s bool) {
	r.calls = append(r.calls, "SetShuffle")
	r.shuf = &s
}

func testTracks() []models.Metadata {
	one := models.DefaultMetadata()
	one.ID = "/org/example/track/1"
	one.Title = "Song One"
	one.Artist = []string{"Artist One"}
	one.Album = "Album One"
	one.Duration = 180_000_000
	two := models.DefaultMetadata()
	two.ID = "/org/example/track/2"
	two.Title = "Song Two"
	two.Duration = 240_000_000
	return []models.Metadata{one, two}
}

func newTestModel(t *testing.T) (*Model, *fakeSource, *fakeRemote) {
	t.Helper()
	tracks := testTracks()
	src := &fakeSource{
		player:   models.DefaultPlayerProperties(),
		playback: models.DefaultPlaybackProperties(),
	}
	src.player.Identity = "Demo"
	src.playback.Metadata = tracks[0]
	src.playback.CanControl = true
	remote := &fakeRemote{}
	m := NewModel(context.Background(), Options{
		Source: src,
		Remote: remote,
		Tracks: func() []models.Metadata { return tracks },
	})
	return m, src, remote
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelKeys(t *testing.T) {
	t.Run("bindings route to the remote", func(t *testing.T) {
		m, _, remote := newTestModel(t)
		for _, msg := range []tea.KeyMsg{
			{Type: tea.KeySpace}, runes("n"), runes("p"), runes("s"),
		} {
			m.Update(msg)
		}

		want := "PlayPause Next Previous Stop"
		if got := strings.Join(remote.calls, " "); got != want {
			t.Errorf("calls = %q, want %q", got, want)
		}
	})

	t.Run("seek bindings", func(t *testing.T) {
		m, _, remote := newTestModel(t)
		m.Update(tea.KeyMsg{Type: tea.KeyRight})
		m.Update(runes("h"))

		if len(remote.seek) != 2 || remote.seek[0] != seekStep || remote.seek[1] != -seekStep {
			t.Errorf("seek offsets = %v", remote.seek)
		}
	})

	t.Run("loop cycles", func(t *testing.T) {
		m, src, remote := newTestModel(t)
		src.playback.LoopStatus = models.LoopTrack
		m.refresh()
		m.Update(runes("r"))

		if remote.loop != models.LoopPlaylist {
			t.Errorf("loop = %s, want Playlist", remote.loop)
		}
	})

	t.Run("shuffle toggles", func(t *testing.T) {
		m, src, remote := newTestModel(t)
		src.playback.Shuffle = true
		m.refresh()
		m.Update(runes("z"))

		if remote.shuf == nil || *remote.shuf {
			t.Errorf("expected SetShuffle(false), got %v", remote.shuf)
		}
	})

	t.Run("quit asks the application when allowed", func(t *testing.T) {
		m, src, remote := newTestModel(t)
		src.player.CanQuit = true
		m.refresh()

		_, cmd := m.Update(runes("q"))
		if cmd == nil {
			t.Fatal("expected a quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
		if len(remote.calls) != 1 || remote.calls[0] != "Quit" {
			t.Errorf("calls = %v, want [Quit]", remote.calls)
		}
	})

	t.Run("quit leaves quietly when not allowed", func(t *testing.T) {
		m, _, remote := newTestModel(t)
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		if cmd == nil {
			t.Fatal("expected a quit command")
		}
		if len(remote.calls) != 0 {
			t.Errorf("calls = %v, want none", remote.calls)
		}
	})

	t.Run("tab switches views", func(t *testing.T) {
		m, _, remote := newTestModel(t)
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.view != QueueView {
			t.Fatalf("view = %v, want QueueView", m.view)
		}

		m.Update(runes("n"))
		if len(remote.calls) != 0 {
			t.Errorf("queue view should not send controls, got %v", remote.calls)
		}

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.view != NowPlayingView {
			t.Errorf("view = %v, want NowPlayingView", m.view)
		}
	})
}

func TestModelChanges(t *testing.T) {
	t.Run("observer coalesces", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		o := m.Observer()
		for range 5 {
			o.OnPropertyChanged(models.ScopePlayback, string(models.PropPosition), int64(1))
		}
		if len(m.changes) != 1 {
			t.Errorf("pending changes = %d, want 1", len(m.changes))
		}
	})

	t.Run("change refreshes the snapshot", func(t *testing.T) {
		m, src, _ := newTestModel(t)
		src.playback.Metadata = testTracks()[1]
		m.Observer().OnPropertyChanged(models.ScopePlayback, string(models.PropMetadata), nil)

		msg := m.waitForChange()()
		if _, cmd := m.Update(msg); cmd == nil {
			t.Error("expected the model to keep waiting")
		}
		if m.playback.Metadata.Title != "Song Two" {
			t.Errorf("title = %q, want Song Two", m.playback.Metadata.Title)
		}
		if m.queue.Index() != 1 {
			t.Errorf("queue selection = %d, want 1", m.queue.Index())
		}
	})

	t.Run("closed context quits", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		m := NewModel(ctx, Options{Source: &fakeSource{}, Remote: &fakeRemote{}})
		cancel()

		done := make(chan tea.Msg, 1)
		go func() { done <- m.waitForChange()() }()
		select {
		case msg := <-done:
			_, cmd := m.Update(msg)
			if cmd == nil {
				t.Fatal("expected a quit command")
			}
		case <-time.After(time.Second):
			t.Fatal("waitForChange did not return")
		}
	})
}

func TestView(t *testing.T) {
	t.Run("now playing", func(t *testing.T) {
		m, src, _ := newTestModel(t)
		src.playback.Position = 90_000_000
		src.playback.PlaybackStatus = models.Playing
		m.refresh()

		view := m.View()
		for _, want := range []string{"Demo", "Song One", "Artist One • Album One", "1:30/3:00", "Loop: None"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q:\n%s", want, view)
			}
		}
	})

	t.Run("disabled controls are flagged", func(t *testing.T) {
		m, src, _ := newTestModel(t)
		src.playback.CanControl = false
		m.refresh()

		if !strings.Contains(m.View(), "controls disabled") {
			t.Error("expected a disabled-controls notice")
		}
	})
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name             string
		position, length int64
		filled           int
	}{
		{"empty", 0, 100, 0},
		{"half", 50, 100, 5},
		{"full", 100, 100, 10},
		{"past the end", 200, 100, 10},
		{"no length", 50, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := ProgressBar(tt.position, tt.length, 10)
			if got := strings.Count(bar, "█"); got != tt.filled {
				t.Errorf("filled = %d, want %d", got, tt.filled)
			}
			if got := strings.Count(bar, "─"); got != 10-tt.filled {
				t.Errorf("empty = %d, want %d", got, 10-tt.filled)
			}
		})
	}
}

func TestNextLoopStatus(t *testing.T) {
	s := models.LoopNone
	var seen []string
	for range 3 {
		s = NextLoopStatus(s)
		seen = append(seen, string(s))
	}
	if got := strings.Join(seen, " "); got != "Track Playlist None" {
		t.Errorf("cycle = %q", got)
	}
}

func TestPaletteStatus(t *testing.T) {
	if got := styles.Status(models.PlaybackStatus("Buffering"), "?"); got != "?" {
		t.Errorf("unknown status rendered %q", got)
	}
	if got := styles.Status(models.Playing, "▶"); !strings.Contains(got, "▶") {
		t.Errorf("playing status rendered %q", got)
	}
}
