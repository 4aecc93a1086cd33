// package smtc mirrors the property model onto the Windows System Media Transport Controls.
//
// The WinRT surface is reached through [Controls], which a binding supplies. [LogControls]
// stands in when no binding is linked and records what would be shown.
package smtc

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Button is a transport control button.
type Button int

const (
	ButtonPlay Button = iota
	ButtonPause
	ButtonStop
	ButtonNext
	ButtonPrevious
)

func (b Button) String() string {
	switch b {
	case ButtonPlay:
		return "play"
	case ButtonPause:
		return "pause"
	case ButtonStop:
		return "stop"
	case ButtonNext:
		return "next"
	case ButtonPrevious:
		return "previous"
	}
	return "unknown"
}

// PlaybackStatus mirrors MediaPlaybackStatus.
type PlaybackStatus int

const (
	StatusClosed PlaybackStatus = iota
	StatusChanging
	StatusStopped
	StatusPlaying
	StatusPaused
)

// RepeatMode mirrors MediaPlaybackAutoRepeatMode.
type RepeatMode int

const (
	RepeatNone RepeatMode = iota
	RepeatTrack
	RepeatList
)

// MediaType mirrors MediaPlaybackType.
type MediaType int

const (
	TypeUnknown MediaType = iota
	TypeMusic
	TypeVideo
	TypeImage
)

// SoundLevel mirrors SoundLevel.
type SoundLevel int

const (
	SoundMuted SoundLevel = iota
	SoundLow
	SoundFull
)

// Timeline mirrors SystemMediaTransportControlsTimelineProperties.
type Timeline struct {
	Start    time.Duration
	End      time.Duration
	Position time.Duration
	MinSeek  time.Duration
	MaxSeek  time.Duration
}

// Display mirrors the display updater's music properties.
type Display struct {
	Type        MediaType
	AppMediaID  string
	Title       string
	Artist      string // comma joined
	AlbumTitle  string
	AlbumArtist string
	Genres      []string
	TrackNumber int
	Thumbnail   string // URI, empty for none
}

// Events receives requests raised by the controls. Calls may arrive on any OS thread.
type Events interface {
	ButtonPressed(b Button)
	PlaybackPositionChangeRequested(position time.Duration)
	PlaybackRateChangeRequested(rate float64)
	ShuffleEnabledChangeRequested(enabled bool)
	AutoRepeatModeChangeRequested(mode RepeatMode)
	SoundLevelChanged(level SoundLevel)
}

// Controls is the native transport-controls surface.
type Controls interface {
	SetEnabled(enabled bool) error
	SetButtonEnabled(b Button, enabled bool) error
	SetPlaybackStatus(s PlaybackStatus) error
	SetShuffleEnabled(enabled bool) error
	SetPlaybackRate(rate float64) error
	SetAutoRepeatMode(m RepeatMode) error
	UpdateTimeline(t Timeline) error
	UpdateDisplay(d Display) error
	Listen(e Events) error
	Close() error
}

// LogControls is a [Controls] that logs every update instead of reaching WinRT.
type LogControls struct {
	logger *log.Logger
}

func NewLogControls(logger *log.Logger) *LogControls {
	return &LogControls{logger: logger.WithPrefix("smtc")}
}

func (c *LogControls) SetEnabled(enabled bool) error {
	c.logger.Debug("controls enabled", "enabled", enabled)
	return nil
}

func (c *LogControls) SetButtonEnabled(b Button, enabled bool) error {
	c.logger.Debug("button enabled", "button", b, "enabled", enabled)
	return nil
}

func (c *LogControls) SetPlaybackStatus(s PlaybackStatus) error {
	c.logger.Debug("playback status", "status", s)
	return nil
}

func (c *LogControls) SetShuffleEnabled(enabled bool) error {
	c.logger.Debug("shuffle", "enabled", enabled)
	return nil
}

func (c *LogControls) SetPlaybackRate(rate float64) error {
	c.logger.Debug("playback rate", "rate", rate)
	return nil
}

func (c *LogControls) SetAutoRepeatMode(m RepeatMode) error {
	c.logger.Debug("auto repeat", "mode", m)
	return nil
}

func (c *LogControls) UpdateTimeline(t Timeline) error {
	c.logger.Debug("timeline", "position", t.Position, "end", t.End)
	return nil
}

func (c *LogControls) UpdateDisplay(d Display) error {
	c.logger.Info("display updated", "title", d.Title, "artist", d.Artist, "album", d.AlbumTitle,
		"genres", strings.Join(d.Genres, ";"))
	return nil
}

func (c *LogControls) Listen(Events) error {
	c.logger.Debug("listening for button events")
	return nil
}

func (c *LogControls) Close() error {
	c.logger.Debug("controls closed")
	return nil
}
