package main

import (
	"context"
	"fmt"
	"path"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying"
	"github.com/desertthunder/nowplaying/internal/shared"
	"golang.org/x/time/rate"
)

const defaultTrackLength int64 = 180_000_000

// demoPlayer is a looping playlist driven by a position ticker. It owns the playback status
// and position; the interface mirrors toggles on its own.
type demoPlayer struct {
	nowplaying.NopHandler

	np     *nowplaying.Interface
	logger *log.Logger
	quit   context.CancelFunc

	mu       sync.Mutex
	tracks   []nowplaying.Metadata
	index    int
	position int64
}

func newDemoPlayer(logger *log.Logger, tracks []nowplaying.Metadata, quit context.CancelFunc) *demoPlayer {
	return &demoPlayer{logger: logger.WithPrefix("demo"), tracks: tracks, quit: quit}
}

// demoTracks builds a short playlist with generated object-path ids.
func demoTracks(length int64) []nowplaying.Metadata {
	if length <= 0 {
		length = defaultTrackLength
	}
	titles := []struct{ title, artist string }{
		{"Teardrop", "Massive Attack"},
		{"Windowlicker", "Aphex Twin"},
		{"Roygbiv", "Boards of Canada"},
	}
	tracks := make([]nowplaying.Metadata, 0, len(titles))
	for i, t := range titles {
		m := nowplaying.DefaultMetadata()
		m.ID = shared.TrackID()
		m.Title = t.title
		m.Artist = []string{t.artist}
		m.Album = "Demo Reel"
		m.Genre = []string{"Electronic"}
		m.TrackNumber = i + 1
		m.Duration = length
		tracks = append(tracks, m)
	}
	return tracks
}

func (p *demoPlayer) current() nowplaying.Metadata { return p.tracks[p.index] }

// Tracks returns a copy of the playlist.
func (p *demoPlayer) Tracks() []nowplaying.Metadata {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.tracks)
}

// load switches to track i (wrapping) and rewinds. Callers hold p.mu.
func (p *demoPlayer) load(i int) {
	n := len(p.tracks)
	p.index = ((i % n) + n) % n
	p.position = 0
	p.set(nowplaying.PropMetadata, p.current())
	p.set(nowplaying.PropPosition, int64(0))
	p.logger.Info("now playing", "title", p.current().Title, "artist", p.current().Artist)
}

// set writes a playback property the player owns, logging a rejected write.
func (p *demoPlayer) set(name nowplaying.PlaybackPropertyName, value any) {
	if err := p.np.SetPlaybackProperty(name, value); err != nil {
		p.logger.Warn("failed to publish property", "property", name, "err", err)
	}
}

func (p *demoPlayer) setStatus(s nowplaying.PlaybackStatus) error {
	return p.np.SetPlaybackProperty(nowplaying.PropPlaybackStatus, s)
}

// seekTo moves to position, clamped to the track, and announces the jump. Callers hold p.mu.
func (p *demoPlayer) seekTo(position int64) {
	length := p.current().Duration
	position = max(0, min(position, length))
	p.position = position
	p.set(nowplaying.PropPosition, position)
	if err := p.np.Seeked(position); err != nil {
		p.logger.Warn("failed to announce seek", "position", position, "err", err)
	}
}

// tick advances the position by elapsed wall time scaled by the rate.
func (p *demoPlayer) tick(elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pb := p.np.Playback()
	if pb.PlaybackStatus != nowplaying.Playing {
		return
	}

	p.position += int64(float64(elapsed.Microseconds()) * pb.Rate)
	if p.position < p.current().Duration {
		p.set(nowplaying.PropPosition, p.position)
		return
	}

	switch {
	case pb.LoopStatus == nowplaying.LoopTrack:
		p.seekTo(0)
	case p.index == len(p.tracks)-1 && pb.LoopStatus == nowplaying.LoopNone:
		if err := p.setStatus(nowplaying.Stopped); err != nil {
			p.logger.Warn("failed to stop at end of playlist", "err", err)
		}
		p.load(0)
	default:
		p.load(p.index + 1)
	}
}

// run ticks at hz until ctx is done.
func (p *demoPlayer) run(ctx context.Context, hz float64) error {
	limiter := rate.NewLimiter(rate.Limit(hz), 1)
	last := time.Now()
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil
		}
		now := time.Now()
		p.tick(now.Sub(last))
		last = now
	}
}

func (p *demoPlayer) OnRaise(context.Context) error {
	p.logger.Info("raise requested")
	return nil
}

func (p *demoPlayer) OnQuit(context.Context) error {
	p.logger.Info("quit requested")
	p.quit()
	return nil
}

func (p *demoPlayer) OnPlay(context.Context) error  { return p.setStatus(nowplaying.Playing) }
func (p *demoPlayer) OnPause(context.Context) error { return p.setStatus(nowplaying.Paused) }

func (p *demoPlayer) OnStop(context.Context) error {
	p.mu.Lock()
	p.seekTo(0)
	p.mu.Unlock()
	return p.setStatus(nowplaying.Stopped)
}

func (p *demoPlayer) OnNext(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.load(p.index + 1)
	return nil
}

func (p *demoPlayer) OnPrevious(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	// Restart the track unless it just began.
	if p.position > 3_000_000 {
		p.seekTo(0)
		return nil
	}
	p.load(p.index - 1)
	return nil
}

func (p *demoPlayer) OnSeek(_ context.Context, offset int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seekTo(p.position + offset)
	return nil
}

func (p *demoPlayer) OnSetPosition(_ context.Context, trackID string, position int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if trackID != p.current().ID || position > p.current().Duration {
		return nil
	}
	p.seekTo(position)
	return nil
}

func (p *demoPlayer) OnOpenURI(_ context.Context, uri string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	m := nowplaying.DefaultMetadata()
	m.ID = shared.TrackID()
	m.URL = uri
	m.Title = path.Base(uri)
	m.Duration = p.current().Duration
	p.tracks = append(p.tracks, m)
	p.load(len(p.tracks) - 1)
	return nil
}

func (p *demoPlayer) OnLoopStatus(_ context.Context, s nowplaying.LoopStatus) error {
	p.logger.Info("loop status", "status", s)
	return nil
}

func (p *demoPlayer) OnShuffle(_ context.Context, shuffle bool) error {
	p.logger.Info("shuffle", "enabled", shuffle)
	return nil
}

func (p *demoPlayer) OnRate(_ context.Context, r float64) error {
	p.logger.Info("rate", "rate", fmt.Sprintf("%.2fx", r))
	return nil
}

func (p *demoPlayer) OnVolume(_ context.Context, v float64) error {
	p.logger.Info("volume", "volume", v)
	return nil
}

var _ nowplaying.Handler = (*demoPlayer)(nil)
