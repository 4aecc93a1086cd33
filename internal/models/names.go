package models

// Scope identifies which property set a name belongs to.
type Scope string

const (
	ScopePlayer    Scope = "Player"
	ScopePlayback  Scope = "Playback"
	ScopeTrackList Scope = "TrackList"
)

// PropertyName names a root-scope property.
type PropertyName string

const (
	CanQuit             PropertyName = "CanQuit"
	CanRaise            PropertyName = "CanRaise"
	CanSetFullscreen    PropertyName = "CanSetFullscreen"
	Fullscreen          PropertyName = "Fullscreen"
	HasTrackList        PropertyName = "HasTrackList"
	Identity            PropertyName = "Identity"
	DesktopEntry        PropertyName = "DesktopEntry"
	SupportedURISchemes PropertyName = "SupportedUriSchemes"
	SupportedMimeTypes  PropertyName = "SupportedMimeTypes"
)

// PlayerPropertyNames lists root-scope names in wire order.
var PlayerPropertyNames = []PropertyName{
	CanQuit, CanRaise, CanSetFullscreen, Fullscreen, HasTrackList,
	Identity, DesktopEntry, SupportedURISchemes, SupportedMimeTypes,
}

// PlaybackPropertyName names a player-scope property.
type PlaybackPropertyName string

const (
	PropPlaybackStatus PlaybackPropertyName = "PlaybackStatus"
	PropLoopStatus     PlaybackPropertyName = "LoopStatus"
	PropRate           PlaybackPropertyName = "Rate"
	PropShuffle        PlaybackPropertyName = "Shuffle"
	PropMetadata       PlaybackPropertyName = "Metadata"
	PropVolume         PlaybackPropertyName = "Volume"
	PropPosition       PlaybackPropertyName = "Position"
	PropDuration       PlaybackPropertyName = "Duration"
	PropMinimumRate    PlaybackPropertyName = "MinimumRate"
	PropMaximumRate    PlaybackPropertyName = "MaximumRate"
	PropCanGoNext      PlaybackPropertyName = "CanGoNext"
	PropCanGoPrevious  PlaybackPropertyName = "CanGoPrevious"
	PropCanPlay        PlaybackPropertyName = "CanPlay"
	PropCanPause       PlaybackPropertyName = "CanPause"
	PropCanSeek        PlaybackPropertyName = "CanSeek"
	PropCanControl     PlaybackPropertyName = "CanControl"
)

// PlaybackPropertyNames lists player-scope names in wire order.
var PlaybackPropertyNames = []PlaybackPropertyName{
	PropPlaybackStatus, PropLoopStatus, PropRate, PropShuffle, PropMetadata, PropVolume,
	PropPosition, PropDuration, PropMinimumRate, PropMaximumRate, PropCanGoNext, PropCanGoPrevious,
	PropCanPlay, PropCanPause, PropCanSeek, PropCanControl,
}

// TrackListPropertyName names a track-list property.
type TrackListPropertyName string

const (
	PropTracks        TrackListPropertyName = "Tracks"
	PropCanEditTracks TrackListPropertyName = "CanEditTracks"
)

var TrackListPropertyNames = []TrackListPropertyName{PropTracks, PropCanEditTracks}
