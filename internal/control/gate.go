package control

import "github.com/desertthunder/nowplaying/internal/models"

// Action is an inbound control request from the native surface.
type Action string

const (
	ActionRaise       Action = "raise"
	ActionQuit        Action = "quit"
	ActionFullscreen  Action = "fullscreen"
	ActionLoopStatus  Action = "loop-status"
	ActionRate        Action = "rate"
	ActionShuffle     Action = "shuffle"
	ActionVolume      Action = "volume"
	ActionNext        Action = "next"
	ActionPrevious    Action = "previous"
	ActionPlay        Action = "play"
	ActionPause       Action = "pause"
	ActionPlayPause   Action = "play-pause"
	ActionStop        Action = "stop"
	ActionSeek        Action = "seek"
	ActionSetPosition Action = "set-position"
	ActionOpenURI     Action = "open-uri"
	ActionAddTrack    Action = "add-track"
	ActionRemoveTrack Action = "remove-track"
	ActionGoTo        Action = "go-to"
)

// State is the capability view the gate decides on.
type State struct {
	Player    models.PlayerProperties
	Playback  models.PlaybackProperties
	TrackList models.TrackListProperties
}

// Permitted reports whether action may be dispatched given the current capability flags.
func Permitted(action Action, s State) bool {
	switch action {
	case ActionNext:
		return s.Playback.CanGoNext
	case ActionPrevious:
		return s.Playback.CanGoPrevious
	case ActionPlay:
		return s.Playback.CanPlay
	case ActionPause, ActionPlayPause:
		return s.Playback.CanPause
	case ActionStop, ActionLoopStatus, ActionShuffle, ActionVolume, ActionRate:
		return s.Playback.CanControl
	case ActionSeek, ActionSetPosition:
		return s.Playback.CanSeek
	case ActionRaise:
		return s.Player.CanRaise
	case ActionQuit:
		return s.Player.CanQuit
	case ActionFullscreen:
		return s.Player.CanSetFullscreen
	case ActionAddTrack, ActionRemoveTrack:
		return s.TrackList.CanEditTracks
	case ActionOpenURI, ActionGoTo:
		return true
	}
	return false
}

// RateInBounds reports whether rate lies within [MinimumRate, MaximumRate].
func RateInBounds(rate float64, pb models.PlaybackProperties) bool {
	return rate > 0 && rate >= pb.MinimumRate && rate <= pb.MaximumRate
}
