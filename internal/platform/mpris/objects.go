package mpris

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/godbus/dbus/v5"
)

// Standard D-Bus error names for property access.
const (
	errUnknownInterface = "org.freedesktop.DBus.Error.UnknownInterface"
	errUnknownProperty  = "org.freedesktop.DBus.Error.UnknownProperty"
	errReadOnly         = "org.freedesktop.DBus.Error.PropertyReadOnly"
)

// queryTimeout bounds synchronous calls that wait on the control loop.
const queryTimeout = 5 * time.Second

// rootObject serves org.mpris.MediaPlayer2.
type rootObject struct{ a *Adapter }

func (o rootObject) Raise() *dbus.Error {
	o.a.router.Raise()
	return nil
}

func (o rootObject) Quit() *dbus.Error {
	o.a.router.Quit()
	return nil
}

// playerObject serves org.mpris.MediaPlayer2.Player. Rejected or failed requests are
// dropped without an error reply.
type playerObject struct{ a *Adapter }

func (o playerObject) Next() *dbus.Error      { o.a.router.Next(); return nil }
func (o playerObject) Previous() *dbus.Error  { o.a.router.Previous(); return nil }
func (o playerObject) Pause() *dbus.Error     { o.a.router.Pause(); return nil }
func (o playerObject) PlayPause() *dbus.Error { o.a.router.PlayPause(); return nil }
func (o playerObject) Stop() *dbus.Error      { o.a.router.Stop(); return nil }
func (o playerObject) Play() *dbus.Error      { o.a.router.Play(); return nil }

func (o playerObject) Seek(offset int64) *dbus.Error {
	o.a.router.Seek(offset)
	return nil
}

func (o playerObject) SetPosition(track dbus.ObjectPath, position int64) *dbus.Error {
	o.a.router.SetPosition(o.a.currentTrack(track), position)
	return nil
}

func (o playerObject) OpenUri(uri string) *dbus.Error {
	o.a.router.OpenURI(uri)
	return nil
}

// trackListObject serves org.mpris.MediaPlayer2.TrackList.
type trackListObject struct{ a *Adapter }

func (o trackListObject) GetTracksMetadata(tracks []dbus.ObjectPath) ([]map[string]dbus.Variant, *dbus.Error) {
	ids := make([]string, 0, len(tracks))
	for _, p := range tracks {
		if id, ok := o.a.listedTrack(p); ok {
			ids = append(ids, id)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	metas, err := o.a.router.TracksMetadata(ctx, ids)
	if err != nil {
		o.a.logger.Warn("track metadata query failed", "err", err)
		return []map[string]dbus.Variant{}, nil
	}

	out := make([]map[string]dbus.Variant, len(metas))
	for i, m := range metas {
		out[i] = MetadataMap(m)
	}
	return out, nil
}

func (o trackListObject) AddTrack(uri string, after dbus.ObjectPath, setAsCurrent bool) *dbus.Error {
	id, _ := o.a.listedTrack(after)
	o.a.router.AddTrack(uri, id, setAsCurrent)
	return nil
}

func (o trackListObject) RemoveTrack(track dbus.ObjectPath) *dbus.Error {
	if id, ok := o.a.listedTrack(track); ok {
		o.a.router.RemoveTrack(id)
	}
	return nil
}

func (o trackListObject) GoTo(track dbus.ObjectPath) *dbus.Error {
	if id, ok := o.a.listedTrack(track); ok {
		o.a.router.GoTo(id)
	}
	return nil
}

// propertiesObject serves org.freedesktop.DBus.Properties straight from the store, so a Get
// always observes the latest write.
type propertiesObject struct{ a *Adapter }

func (o propertiesObject) Get(iface, name string) (dbus.Variant, *dbus.Error) {
	scope, ok := scopeFor(iface)
	if !ok {
		return dbus.Variant{}, dbus.NewError(errUnknownInterface, []any{iface})
	}
	if !isExposed(scope, name) {
		return dbus.Variant{}, dbus.NewError(errUnknownProperty, []any{name})
	}
	v, err := o.a.store.Get(scope, name)
	if err != nil {
		return dbus.Variant{}, dbus.NewError(errUnknownProperty, []any{err.Error()})
	}
	return encode(scope, name, v), nil
}

func (o propertiesObject) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	scope, ok := scopeFor(iface)
	if !ok {
		return nil, dbus.NewError(errUnknownInterface, []any{iface})
	}
	out := make(map[string]dbus.Variant)
	for _, name := range exposed(scope) {
		v, err := o.a.store.Get(scope, name)
		if err != nil {
			continue
		}
		out[name] = encode(scope, name, v)
	}
	return out, nil
}

func (o propertiesObject) Set(iface, name string, value dbus.Variant) *dbus.Error {
	scope, ok := scopeFor(iface)
	if !ok {
		return dbus.NewError(errUnknownInterface, []any{iface})
	}
	if !isExposed(scope, name) {
		return dbus.NewError(errUnknownProperty, []any{name})
	}

	r := o.a.router
	invalid := func() *dbus.Error {
		return dbus.NewError(dbus.ErrMsgInvalidArg.Name, []any{
			fmt.Sprintf("%s.%s: unexpected type %s", iface, name, value.Signature()),
		})
	}

	switch {
	case scope == models.ScopePlayer && name == string(models.Fullscreen):
		b, ok := value.Value().(bool)
		if !ok {
			return invalid()
		}
		r.SetFullscreen(b)
	case scope == models.ScopePlayback && name == string(models.PropLoopStatus):
		s, ok := value.Value().(string)
		if !ok {
			return invalid()
		}
		r.SetLoopStatus(models.LoopStatus(s))
	case scope == models.ScopePlayback && name == string(models.PropRate):
		f, ok := value.Value().(float64)
		if !ok {
			return invalid()
		}
		r.SetRate(f)
	case scope == models.ScopePlayback && name == string(models.PropShuffle):
		b, ok := value.Value().(bool)
		if !ok {
			return invalid()
		}
		r.SetShuffle(b)
	case scope == models.ScopePlayback && name == string(models.PropVolume):
		f, ok := value.Value().(float64)
		if !ok {
			return invalid()
		}
		r.SetVolume(f)
	default:
		return dbus.NewError(errReadOnly, []any{name})
	}
	return nil
}
