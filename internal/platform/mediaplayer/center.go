// package mediaplayer mirrors the property model onto the macOS MediaPlayer framework
// (MPNowPlayingInfoCenter and MPRemoteCommandCenter).
package mediaplayer

import (
	"time"

	"github.com/charmbracelet/log"
)

// PlaybackState mirrors MPNowPlayingPlaybackState.
type PlaybackState int

const (
	StateUnknown PlaybackState = iota
	StatePlaying
	StatePaused
	StateStopped
	StateInterrupted
)

func (s PlaybackState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	case StateInterrupted:
		return "interrupted"
	}
	return "unknown"
}

// Command identifies an MPRemoteCommand.
type Command int

const (
	CommandPlay Command = iota
	CommandPause
	CommandTogglePlayPause
	CommandStop
	CommandNextTrack
	CommandPreviousTrack
	CommandChangePlaybackPosition
	CommandSkipForward
	CommandSkipBackward
	CommandChangeRepeatMode
	CommandChangeShuffleMode
	CommandChangePlaybackRate
)

// Commands lists every command the adapter registers.
var Commands = []Command{
	CommandPlay, CommandPause, CommandTogglePlayPause, CommandStop,
	CommandNextTrack, CommandPreviousTrack, CommandChangePlaybackPosition,
	CommandSkipForward, CommandSkipBackward, CommandChangeRepeatMode,
	CommandChangeShuffleMode, CommandChangePlaybackRate,
}

func (c Command) String() string {
	switch c {
	case CommandPlay:
		return "play"
	case CommandPause:
		return "pause"
	case CommandTogglePlayPause:
		return "togglePlayPause"
	case CommandStop:
		return "stop"
	case CommandNextTrack:
		return "nextTrack"
	case CommandPreviousTrack:
		return "previousTrack"
	case CommandChangePlaybackPosition:
		return "changePlaybackPosition"
	case CommandSkipForward:
		return "skipForward"
	case CommandSkipBackward:
		return "skipBackward"
	case CommandChangeRepeatMode:
		return "changeRepeatMode"
	case CommandChangeShuffleMode:
		return "changeShuffleMode"
	case CommandChangePlaybackRate:
		return "changePlaybackRate"
	}
	return "unknown"
}

// RepeatType mirrors MPRepeatType.
type RepeatType int

const (
	RepeatOff RepeatType = iota
	RepeatOne
	RepeatAll
)

// Status mirrors MPRemoteCommandHandlerStatus.
type Status int

const (
	StatusSuccess       Status = 0
	StatusNoSuchContent Status = 100
	StatusFailed        Status = 200
)

// Event is one remote command delivery. Only the fields relevant to Command are set.
type Event struct {
	Command  Command
	Position time.Duration // changePlaybackPosition
	Interval time.Duration // skipForward, skipBackward
	Repeat   RepeatType    // changeRepeatMode
	Shuffle  bool          // changeShuffleMode
	Rate     float64       // changePlaybackRate
}

// Handler receives remote commands. Calls may arrive on the main run loop thread.
type Handler interface {
	HandleCommand(e Event) Status
}

// Info mirrors the now-playing info dictionary.
type Info struct {
	Title       string
	Artist      string // ", " joined
	AlbumTitle  string
	Genre       string // ", " joined
	ArtworkURL  string
	Duration    time.Duration
	Elapsed     time.Duration
	Rate        float64 // zero while not playing
	DefaultRate float64
	MediaType   string
}

// Center is the native now-playing surface.
type Center interface {
	SetNowPlayingInfo(info Info) error
	SetPlaybackState(s PlaybackState) error
	SetCommandEnabled(c Command, enabled bool) error
	Listen(h Handler) error
	Close() error
}

// LogCenter is a [Center] that logs every update instead of reaching the framework.
type LogCenter struct {
	logger *log.Logger
}

func NewLogCenter(logger *log.Logger) *LogCenter {
	return &LogCenter{logger: logger.WithPrefix("mediaplayer")}
}

func (c *LogCenter) SetNowPlayingInfo(info Info) error {
	c.logger.Info("now playing", "title", info.Title, "artist", info.Artist, "album", info.AlbumTitle,
		"elapsed", info.Elapsed, "duration", info.Duration)
	return nil
}

func (c *LogCenter) SetPlaybackState(s PlaybackState) error {
	c.logger.Debug("playback state", "state", s)
	return nil
}

func (c *LogCenter) SetCommandEnabled(cmd Command, enabled bool) error {
	c.logger.Debug("command enabled", "command", cmd, "enabled", enabled)
	return nil
}

func (c *LogCenter) Listen(Handler) error {
	c.logger.Debug("remote command targets registered")
	return nil
}

func (c *LogCenter) Close() error {
	c.logger.Debug("remote command targets removed")
	return nil
}
