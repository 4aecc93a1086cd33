package mpris

import (
	"encoding/hex"
	"slices"

	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/godbus/dbus/v5"
)

// NoTrack is the object path MPRIS reserves for "no current track".
const NoTrack dbus.ObjectPath = "/org/mpris/MediaPlayer2/TrackList/NoTrack"

const trackPrefix = "/org/mpris/MediaPlayer2/Track/"

// TrackPath maps a track id to the object path clients see. Ids that are already valid
// object paths pass through, the empty id is [NoTrack], and anything else is hex-encoded
// under the track prefix.
func TrackPath(id string) dbus.ObjectPath {
	if id == "" {
		return NoTrack
	}
	if p := dbus.ObjectPath(id); p.IsValid() {
		return p
	}
	return dbus.ObjectPath(trackPrefix + hex.EncodeToString([]byte(id)))
}

// MetadataMap flattens m into the a{sv} dictionary MPRIS clients read.
func MetadataMap(m models.Metadata) map[string]dbus.Variant {
	m = m.Normalized()
	return map[string]dbus.Variant{
		"mpris:trackid":     dbus.MakeVariant(TrackPath(m.ID)),
		"mpris:length":      dbus.MakeVariant(m.Duration),
		"mpris:artUrl":      dbus.MakeVariant(m.Cover),
		"xesam:album":       dbus.MakeVariant(m.Album),
		"xesam:albumArtist": dbus.MakeVariant(m.AlbumArtist),
		"xesam:artist":      dbus.MakeVariant(m.Artist),
		"xesam:asText":      dbus.MakeVariant(m.Lyrics),
		"xesam:comment":     dbus.MakeVariant(m.Comments),
		"xesam:composer":    dbus.MakeVariant(m.Composer),
		"xesam:genre":       dbus.MakeVariant(m.Genre),
		"xesam:lyricist":    dbus.MakeVariant(m.Lyricist),
		"xesam:title":       dbus.MakeVariant(m.Title),
		"xesam:trackNumber": dbus.MakeVariant(int32(m.TrackNumber)),
		"xesam:url":         dbus.MakeVariant(m.URL),
	}
}

func trackPaths(ids []string) []dbus.ObjectPath {
	out := make([]dbus.ObjectPath, len(ids))
	for i, id := range ids {
		out[i] = TrackPath(id)
	}
	return out
}

// D-Bus interface names.
const (
	ifaceRoot          = "org.mpris.MediaPlayer2"
	ifacePlayer        = "org.mpris.MediaPlayer2.Player"
	ifaceTrackList     = "org.mpris.MediaPlayer2.TrackList"
	ifaceProperties    = "org.freedesktop.DBus.Properties"
	ifaceIntrospection = "org.freedesktop.DBus.Introspectable"
)

func ifaceFor(scope models.Scope) string {
	switch scope {
	case models.ScopePlayer:
		return ifaceRoot
	case models.ScopePlayback:
		return ifacePlayer
	case models.ScopeTrackList:
		return ifaceTrackList
	}
	return ""
}

func scopeFor(iface string) (models.Scope, bool) {
	switch iface {
	case ifaceRoot:
		return models.ScopePlayer, true
	case ifacePlayer:
		return models.ScopePlayback, true
	case ifaceTrackList:
		return models.ScopeTrackList, true
	}
	return "", false
}

// exposed lists the bus-visible properties per scope. Duration lives only in the model,
// MPRIS carries it as mpris:length.
func exposed(scope models.Scope) []string {
	var names []string
	switch scope {
	case models.ScopePlayer:
		for _, n := range models.PlayerPropertyNames {
			names = append(names, string(n))
		}
	case models.ScopePlayback:
		for _, n := range models.PlaybackPropertyNames {
			if n != models.PropDuration {
				names = append(names, string(n))
			}
		}
	case models.ScopeTrackList:
		for _, n := range models.TrackListPropertyNames {
			names = append(names, string(n))
		}
	}
	return names
}

func isExposed(scope models.Scope, name string) bool {
	return slices.Contains(exposed(scope), name)
}

// emitted reports whether a change to name produces PropertiesChanged. The MPRIS Player
// interface marks Position with EmitsChangedSignal=false: clients read it on demand and learn
// of jumps through Seeked, so a position write is stored but never signalled.
func emitted(scope models.Scope, name string) bool {
	if scope == models.ScopePlayback && name == string(models.PropPosition) {
		return false
	}
	return isExposed(scope, name)
}

// encode converts a store value to its wire variant.
func encode(scope models.Scope, name string, value any) dbus.Variant {
	switch v := value.(type) {
	case models.PlaybackStatus:
		return dbus.MakeVariant(string(v))
	case models.LoopStatus:
		return dbus.MakeVariant(string(v))
	case models.Metadata:
		return dbus.MakeVariant(MetadataMap(v))
	case []string:
		if scope == models.ScopeTrackList && name == string(models.PropTracks) {
			return dbus.MakeVariant(trackPaths(v))
		}
		return dbus.MakeVariant(slices.Clone(v))
	default:
		return dbus.MakeVariant(v)
	}
}
