package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/nowplaying/internal/shared"
)

// Play is one recorded start of a track.
type Play struct {
	ID       string
	Sequence int
	Player   string // Session name that played the track
	TrackID  string
	Title    string
	Artist   []string
	Album    string
	Length   int64 // Microseconds
	PlayedAt time.Time
}

// NewPlay records m as started by player at t.
func NewPlay(player string, m Metadata, t time.Time) *Play {
	return &Play{
		Player:   player,
		TrackID:  m.ID,
		Title:    m.Title,
		Artist:   m.Artist,
		Album:    m.Album,
		Length:   m.Duration,
		PlayedAt: t,
	}
}

// Validate checks the fields the history table requires.
func (p *Play) Validate() error {
	switch {
	case p.Player == "":
		return fmt.Errorf("%w: play has no player", shared.ErrInvalidInput)
	case p.TrackID == "":
		return fmt.Errorf("%w: play has no track id", shared.ErrInvalidInput)
	case p.PlayedAt.IsZero():
		return fmt.Errorf("%w: play has no timestamp", shared.ErrInvalidInput)
	}
	return nil
}
