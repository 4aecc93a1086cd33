// package models defines the property records for the now-playing surface
package models

import "slices"

// PlaybackStatus is the current transport state.
type PlaybackStatus string

const (
	Playing PlaybackStatus = "Playing"
	Paused  PlaybackStatus = "Paused"
	Stopped PlaybackStatus = "Stopped"
)

// Valid reports whether s is one of the three known statuses.
func (s PlaybackStatus) Valid() bool {
	return s == Playing || s == Paused || s == Stopped
}

// LoopStatus is the repeat mode.
type LoopStatus string

const (
	LoopNone     LoopStatus = "None"
	LoopTrack    LoopStatus = "Track"
	LoopPlaylist LoopStatus = "Playlist"
)

func (s LoopStatus) Valid() bool {
	return s == LoopNone || s == LoopTrack || s == LoopPlaylist
}

// MediaType describes what the current item is. The zero value means music.
type MediaType string

const (
	MediaMusic MediaType = "Music"
	MediaVideo MediaType = "Video"
	MediaImage MediaType = "Image"
)

func (t MediaType) Valid() bool {
	return t == "" || t == MediaMusic || t == MediaVideo || t == MediaImage
}

// UnknownTitle is used when a track has no title.
const UnknownTitle = "Unknown"

// Metadata describes one track.
type Metadata struct {
	ID          string    // Opaque track id, unique within a track list
	Duration    int64     // Microseconds
	Cover       string    // Art URI
	Album       string
	AlbumArtist []string
	Artist      []string
	Genre       []string
	Composer    []string
	Lyricist    []string
	Comments    []string
	Lyrics      string
	Title       string    // Defaults to [UnknownTitle]
	TrackNumber int
	URL         string
	MediaType   MediaType // Optional, empty means music
}

// DefaultMetadata returns a Metadata record with every field at its default.
func DefaultMetadata() Metadata {
	return Metadata{
		AlbumArtist: []string{},
		Artist:      []string{},
		Genre:       []string{},
		Composer:    []string{},
		Lyricist:    []string{},
		Comments:    []string{},
		Title:       UnknownTitle,
	}
}

// Normalized returns a copy with nil slices replaced by empty ones and a default title.
// Slices are cloned so callers can keep mutating their own record after a set.
func (m Metadata) Normalized() Metadata {
	out := m
	out.AlbumArtist = cloneStrings(m.AlbumArtist)
	out.Artist = cloneStrings(m.Artist)
	out.Genre = cloneStrings(m.Genre)
	out.Composer = cloneStrings(m.Composer)
	out.Lyricist = cloneStrings(m.Lyricist)
	out.Comments = cloneStrings(m.Comments)
	if out.Title == "" {
		out.Title = UnknownTitle
	}
	return out
}

// PlayerProperties are the root-scope properties.
type PlayerProperties struct {
	CanQuit             bool
	CanRaise            bool
	CanSetFullscreen    bool
	Fullscreen          bool
	HasTrackList        bool
	Identity            string
	DesktopEntry        string
	SupportedURISchemes []string
	SupportedMimeTypes  []string
}

func DefaultPlayerProperties() PlayerProperties {
	return PlayerProperties{
		SupportedURISchemes: []string{},
		SupportedMimeTypes:  []string{},
	}
}

// PlaybackProperties are the player-scope properties.
type PlaybackProperties struct {
	PlaybackStatus PlaybackStatus
	LoopStatus     LoopStatus
	Rate           float64
	Shuffle        bool
	Metadata       Metadata
	Volume         float64 // 0.0 to 1.0
	Position       int64   // Microseconds
	Duration       int64   // Microseconds, timeline end for surfaces that track it apart from metadata
	MinimumRate    float64
	MaximumRate    float64
	CanGoNext      bool
	CanGoPrevious  bool
	CanPlay        bool
	CanPause       bool
	CanSeek        bool
	CanControl     bool
}

func DefaultPlaybackProperties() PlaybackProperties {
	return PlaybackProperties{
		PlaybackStatus: Stopped,
		LoopStatus:     LoopNone,
		Rate:           1.0,
		Metadata:       DefaultMetadata(),
		Volume:         1.0,
		MinimumRate:    1.0,
		MaximumRate:    1.0,
	}
}

// TrackListProperties are the optional track-list properties.
type TrackListProperties struct {
	Tracks        []string
	CanEditTracks bool
}

func DefaultTrackListProperties() TrackListProperties {
	return TrackListProperties{Tracks: []string{}}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
