package server

import (
	"encoding/json"
	"net/http"

	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/platform"
)

// Session is the read side of a now-playing session.
type Session interface {
	Name() string
	Platform() string
	State() platform.State
	Player() models.PlayerProperties
	Playback() models.PlaybackProperties
}

// Status is the /status response body.
type Status struct {
	Name           string   `json:"name"`
	Platform       string   `json:"platform"`
	State          string   `json:"state"`
	Identity       string   `json:"identity"`
	PlaybackStatus string   `json:"playback_status"`
	LoopStatus     string   `json:"loop_status"`
	Shuffle        bool     `json:"shuffle"`
	Rate           float64  `json:"rate"`
	Volume         float64  `json:"volume"`
	Position       int64    `json:"position_us"`
	Track          Track    `json:"track"`
	Capabilities   []string `json:"capabilities"`
}

// Track is the current track in a [Status].
type Track struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Artist []string `json:"artist"`
	Album  string   `json:"album"`
	Length int64    `json:"length_us"`
}

// StatusHandler serves /status and /healthz for one session.
type StatusHandler struct {
	session Session
}

func NewStatusHandler(s Session) *StatusHandler {
	return &StatusHandler{session: s}
}

// Routes returns the HTTP routes this handler serves.
func (h *StatusHandler) Routes() []string {
	return []string{"/status", "/healthz"}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/healthz":
		if h.session.State() != platform.Connected {
			http.Error(w, h.session.State().String(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	default:
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(Snapshot(h.session)); err != nil {
			http.Error(w, "failed to encode status", http.StatusInternalServerError)
		}
	}
}

// Snapshot builds a [Status] from the session's current properties.
func Snapshot(s Session) Status {
	player := s.Player()
	pb := s.Playback()
	return Status{
		Name:           s.Name(),
		Platform:       s.Platform(),
		State:          s.State().String(),
		Identity:       player.Identity,
		PlaybackStatus: string(pb.PlaybackStatus),
		LoopStatus:     string(pb.LoopStatus),
		Shuffle:        pb.Shuffle,
		Rate:           pb.Rate,
		Volume:         pb.Volume,
		Position:       pb.Position,
		Track: Track{
			ID:     pb.Metadata.ID,
			Title:  pb.Metadata.Title,
			Artist: pb.Metadata.Artist,
			Album:  pb.Metadata.Album,
			Length: pb.Metadata.Duration,
		},
		Capabilities: capabilities(pb),
	}
}

func capabilities(pb models.PlaybackProperties) []string {
	caps := []string{}
	for _, c := range []struct {
		name string
		on   bool
	}{
		{"play", pb.CanPlay}, {"pause", pb.CanPause}, {"next", pb.CanGoNext},
		{"previous", pb.CanGoPrevious}, {"seek", pb.CanSeek}, {"control", pb.CanControl},
	} {
		if c.on {
			caps = append(caps, c.name)
		}
	}
	return caps
}
