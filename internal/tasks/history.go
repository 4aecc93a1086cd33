package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/props"
	"github.com/desertthunder/nowplaying/internal/shared"
)

const historyBuffer = 32

// PlayWriter persists plays.
type PlayWriter interface {
	Record(p *models.Play) error
}

// Recorder turns track starts into [models.Play] records.
type Recorder struct {
	writer PlayWriter
	player string
	logger *log.Logger
	now    func() time.Time
	plays  chan *models.Play

	mu       sync.Mutex
	status   models.PlaybackStatus
	current  models.Metadata
	recorded string // track id of the last recorded play
}

// NewRecorder creates a recorder that attributes plays to player.
func NewRecorder(w PlayWriter, player string, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Recorder{
		writer: w,
		player: player,
		logger: logger.WithPrefix("history"),
		now:    time.Now,
		plays:  make(chan *models.Play, historyBuffer),
		status: models.Stopped,
	}
}

// Observer returns the store observer that feeds the recorder.
func (r *Recorder) Observer() props.Observer {
	return props.ObserverFunc(func(scope models.Scope, name string, value any) {
		if scope != models.ScopePlayback {
			return
		}
		switch name {
		case string(models.PropPlaybackStatus):
			if s, ok := value.(models.PlaybackStatus); ok {
				r.observe(func() { r.status = s })
			}
		case string(models.PropMetadata):
			if m, ok := value.(models.Metadata); ok {
				r.observe(func() { r.current = m })
			}
		}
	})
}

func (r *Recorder) observe(update func()) {
	r.mu.Lock()
	update()
	var play *models.Play
	if r.status == models.Playing && r.current.ID != "" && r.current.ID != r.recorded {
		r.recorded = r.current.ID
		play = models.NewPlay(r.player, r.current, r.now())
	}
	r.mu.Unlock()

	if play == nil {
		return
	}
	select {
	case r.plays <- play:
	default:
		r.logger.Warn("history buffer full, dropping play", "track", play.TrackID)
	}
}

// Run writes buffered plays until ctx is done, then flushes what is left.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case p := <-r.plays:
			r.write(p)
		case <-ctx.Done():
			for {
				select {
				case p := <-r.plays:
					r.write(p)
				default:
					return nil
				}
			}
		}
	}
}

func (r *Recorder) write(p *models.Play) {
	if err := r.writer.Record(p); err != nil {
		r.logger.Error("failed to record play", "track", p.TrackID, "err", err)
		return
	}
	r.logger.Debug("play recorded", "track", p.TrackID, "title", p.Title)
}
