package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/nowplaying/internal/models"
)

var styles = NewPalette(Colors{
	Accent:  "#7D56F4",
	Playing: "#04B575",
	Paused:  "#FFA500",
	Stopped: "#626262",
	Error:   "#FF0000",
	Muted:   "#626262",
	Track:   "15",
})

// Colors names the hex or ANSI colors of each element on screen.
type Colors struct {
	Accent, Playing, Paused, Stopped, Error, Muted, Track string
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	song   lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	filled lipgloss.Style
	empty  lipgloss.Style
	status map[models.PlaybackStatus]lipgloss.Style
}

func NewPalette(c Colors) *Palette {
	return &Palette{
		title:  NewBold(c.Accent).MarginBottom(1),
		song:   NewBold(c.Playing),
		err:    NewBold(c.Error),
		warn:   NewStyle(c.Paused),
		help:   NewEm(c.Muted),
		filled: NewStyle(c.Accent),
		empty:  NewStyle(c.Track),
		status: map[models.PlaybackStatus]lipgloss.Style{
			models.Playing: NewBold(c.Playing),
			models.Paused:  NewBold(c.Paused),
			models.Stopped: NewStyle(c.Stopped),
		},
	}
}

// Status styles a playback status glyph; unknown statuses render unstyled.
func (p *Palette) Status(s models.PlaybackStatus, text string) string {
	if style, ok := p.status[s]; ok {
		return style.Render(text)
	}
	return text
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
