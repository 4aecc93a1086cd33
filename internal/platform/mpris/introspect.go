package mpris

import (
	"encoding/xml"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

func arg(name, typ, dir string) introspect.Arg {
	return introspect.Arg{Name: name, Type: typ, Direction: dir}
}

func prop(name, typ string, writable bool) introspect.Property {
	access := "read"
	if writable {
		access = "readwrite"
	}
	return introspect.Property{Name: name, Type: typ, Access: access}
}

var propertiesData = introspect.Interface{
	Name: ifaceProperties,
	Methods: []introspect.Method{
		{Name: "Get", Args: []introspect.Arg{arg("interface", "s", "in"), arg("property", "s", "in"), arg("value", "v", "out")}},
		{Name: "GetAll", Args: []introspect.Arg{arg("interface", "s", "in"), arg("props", "a{sv}", "out")}},
		{Name: "Set", Args: []introspect.Arg{arg("interface", "s", "in"), arg("property", "s", "in"), arg("value", "v", "in")}},
	},
	Signals: []introspect.Signal{
		{Name: "PropertiesChanged", Args: []introspect.Arg{
			arg("interface", "s", "out"), arg("changed_properties", "a{sv}", "out"), arg("invalidated_properties", "as", "out"),
		}},
	},
}

var rootData = introspect.Interface{
	Name:    ifaceRoot,
	Methods: []introspect.Method{{Name: "Raise"}, {Name: "Quit"}},
	Properties: []introspect.Property{
		prop("CanQuit", "b", false),
		prop("CanRaise", "b", false),
		prop("CanSetFullscreen", "b", false),
		prop("Fullscreen", "b", true),
		prop("HasTrackList", "b", false),
		prop("Identity", "s", false),
		prop("DesktopEntry", "s", false),
		prop("SupportedUriSchemes", "as", false),
		prop("SupportedMimeTypes", "as", false),
	},
}

var playerData = introspect.Interface{
	Name: ifacePlayer,
	Methods: []introspect.Method{
		{Name: "Next"},
		{Name: "Previous"},
		{Name: "Pause"},
		{Name: "PlayPause"},
		{Name: "Stop"},
		{Name: "Play"},
		{Name: "Seek", Args: []introspect.Arg{arg("Offset", "x", "in")}},
		{Name: "SetPosition", Args: []introspect.Arg{arg("TrackId", "o", "in"), arg("Position", "x", "in")}},
		{Name: "OpenUri", Args: []introspect.Arg{arg("Uri", "s", "in")}},
	},
	Signals: []introspect.Signal{
		{Name: "Seeked", Args: []introspect.Arg{arg("Position", "x", "out")}},
	},
	Properties: []introspect.Property{
		prop("PlaybackStatus", "s", false),
		prop("LoopStatus", "s", true),
		prop("Rate", "d", true),
		prop("Shuffle", "b", true),
		prop("Metadata", "a{sv}", false),
		prop("Volume", "d", true),
		prop("Position", "x", false),
		prop("MinimumRate", "d", false),
		prop("MaximumRate", "d", false),
		prop("CanGoNext", "b", false),
		prop("CanGoPrevious", "b", false),
		prop("CanPlay", "b", false),
		prop("CanPause", "b", false),
		prop("CanSeek", "b", false),
		prop("CanControl", "b", false),
	},
}

var trackListData = introspect.Interface{
	Name: ifaceTrackList,
	Methods: []introspect.Method{
		{Name: "GetTracksMetadata", Args: []introspect.Arg{arg("TrackIds", "ao", "in"), arg("Metadata", "aa{sv}", "out")}},
		{Name: "AddTrack", Args: []introspect.Arg{arg("Uri", "s", "in"), arg("AfterTrack", "o", "in"), arg("SetAsCurrent", "b", "in")}},
		{Name: "RemoveTrack", Args: []introspect.Arg{arg("TrackId", "o", "in")}},
		{Name: "GoTo", Args: []introspect.Arg{arg("TrackId", "o", "in")}},
	},
	Signals: []introspect.Signal{
		{Name: "TrackListReplaced", Args: []introspect.Arg{arg("Tracks", "ao", "out"), arg("CurrentTrack", "o", "out")}},
		{Name: "TrackAdded", Args: []introspect.Arg{arg("Metadata", "a{sv}", "out"), arg("AfterTrack", "o", "out")}},
		{Name: "TrackRemoved", Args: []introspect.Arg{arg("TrackId", "o", "out")}},
		{Name: "TrackMetadataChanged", Args: []introspect.Arg{arg("TrackId", "o", "out"), arg("Metadata", "a{sv}", "out")}},
	},
	Properties: []introspect.Property{
		prop("Tracks", "ao", false),
		prop("CanEditTracks", "b", false),
	},
}

// node describes everything exported at [ObjectPath]. The track-list interface is
// advertised only when the player has one.
func node(withTrackList bool) *introspect.Node {
	ifaces := []introspect.Interface{introspect.IntrospectData, propertiesData, rootData, playerData}
	if withTrackList {
		ifaces = append(ifaces, trackListData)
	}
	return &introspect.Node{Name: string(ObjectPath), Interfaces: ifaces}
}

// introspectObject renders the node on every call so HasTrackList changes are visible.
type introspectObject struct{ a *Adapter }

func (o introspectObject) Introspect() (string, *dbus.Error) {
	n := node(o.a.store.Player().HasTrackList)
	b, err := xml.Marshal(n)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return introspect.IntrospectDeclarationString + string(b), nil
}
