package props

import (
	"fmt"
	"math"
	"slices"

	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/shared"
)

// Kind is the schema type of a property value.
type Kind string

const (
	KindBool           Kind = "bool"
	KindString         Kind = "string"
	KindStrings        Kind = "[]string"
	KindFloat          Kind = "float64"
	KindInt64          Kind = "int64"
	KindPlaybackStatus Kind = "PlaybackStatus"
	KindLoopStatus     Kind = "LoopStatus"
	KindMetadata       Kind = "Metadata"
)

type sets struct {
	player    models.PlayerProperties
	playback  models.PlaybackProperties
	tracklist models.TrackListProperties
}

type field struct {
	kind  Kind
	get   func(*sets) any
	set   func(*sets, any)
	check func(any) bool
}

var schema = map[models.Scope]map[string]field{
	models.ScopePlayer: {
		string(models.CanQuit):          boolField(func(s *sets) *bool { return &s.player.CanQuit }),
		string(models.CanRaise):         boolField(func(s *sets) *bool { return &s.player.CanRaise }),
		string(models.CanSetFullscreen): boolField(func(s *sets) *bool { return &s.player.CanSetFullscreen }),
		string(models.Fullscreen):       boolField(func(s *sets) *bool { return &s.player.Fullscreen }),
		string(models.HasTrackList):     boolField(func(s *sets) *bool { return &s.player.HasTrackList }),
		string(models.Identity):         stringField(func(s *sets) *string { return &s.player.Identity }),
		string(models.DesktopEntry):     stringField(func(s *sets) *string { return &s.player.DesktopEntry }),
		string(models.SupportedURISchemes): stringsField(func(s *sets) *[]string {
			return &s.player.SupportedURISchemes
		}),
		string(models.SupportedMimeTypes): stringsField(func(s *sets) *[]string {
			return &s.player.SupportedMimeTypes
		}),
	},
	models.ScopePlayback: {
		string(models.PropPlaybackStatus): {
			kind: KindPlaybackStatus,
			get:  func(s *sets) any { return s.playback.PlaybackStatus },
			set:  func(s *sets, v any) { s.playback.PlaybackStatus = v.(models.PlaybackStatus) },
		},
		string(models.PropLoopStatus): {
			kind: KindLoopStatus,
			get:  func(s *sets) any { return s.playback.LoopStatus },
			set:  func(s *sets, v any) { s.playback.LoopStatus = v.(models.LoopStatus) },
		},
		string(models.PropMetadata): {
			kind: KindMetadata,
			get:  func(s *sets) any { return s.playback.Metadata.Normalized() },
			set:  func(s *sets, v any) { s.playback.Metadata = v.(models.Metadata) },
		},
		string(models.PropRate):          floatField(func(s *sets) *float64 { return &s.playback.Rate }),
		string(models.PropVolume):        boundedFloatField(func(s *sets) *float64 { return &s.playback.Volume }, 0, 1),
		string(models.PropMinimumRate):   floatField(func(s *sets) *float64 { return &s.playback.MinimumRate }),
		string(models.PropMaximumRate):   floatField(func(s *sets) *float64 { return &s.playback.MaximumRate }),
		string(models.PropPosition):      int64Field(func(s *sets) *int64 { return &s.playback.Position }),
		string(models.PropDuration):      int64Field(func(s *sets) *int64 { return &s.playback.Duration }),
		string(models.PropShuffle):       boolField(func(s *sets) *bool { return &s.playback.Shuffle }),
		string(models.PropCanGoNext):     boolField(func(s *sets) *bool { return &s.playback.CanGoNext }),
		string(models.PropCanGoPrevious): boolField(func(s *sets) *bool { return &s.playback.CanGoPrevious }),
		string(models.PropCanPlay):       boolField(func(s *sets) *bool { return &s.playback.CanPlay }),
		string(models.PropCanPause):      boolField(func(s *sets) *bool { return &s.playback.CanPause }),
		string(models.PropCanSeek):       boolField(func(s *sets) *bool { return &s.playback.CanSeek }),
		string(models.PropCanControl):    boolField(func(s *sets) *bool { return &s.playback.CanControl }),
	},
	models.ScopeTrackList: {
		string(models.PropTracks):        stringsField(func(s *sets) *[]string { return &s.tracklist.Tracks }),
		string(models.PropCanEditTracks): boolField(func(s *sets) *bool { return &s.tracklist.CanEditTracks }),
	},
}

// KindOf returns the schema kind for a property, or false when the name is unknown.
func KindOf(scope models.Scope, name string) (Kind, bool) {
	f, ok := schema[scope][name]
	return f.kind, ok
}

func lookup(scope models.Scope, name string) (field, error) {
	f, ok := schema[scope][name]
	if !ok {
		return field{}, fmt.Errorf("%w: %w %s.%s", shared.ErrSchema, shared.ErrUnknownProperty, scope, name)
	}
	return f, nil
}

// coerce converts v into the canonical Go type for kind, widening numeric types.
func coerce(kind Kind, v any) (any, bool) {
	switch kind {
	case KindBool:
		b, ok := v.(bool)
		return b, ok
	case KindString:
		s, ok := v.(string)
		return s, ok
	case KindStrings:
		ss, ok := v.([]string)
		if !ok {
			return nil, false
		}
		if ss == nil {
			return []string{}, true
		}
		return slices.Clone(ss), true
	case KindFloat:
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case float32:
			f = float64(n)
		case int:
			f = float64(n)
		case int64:
			f = float64(n)
		default:
			return nil, false
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	case KindInt64:
		switch n := v.(type) {
		case int64:
			return n, true
		case int:
			return int64(n), true
		case int32:
			return int64(n), true
		}
		return nil, false
	case KindPlaybackStatus:
		var st models.PlaybackStatus
		switch s := v.(type) {
		case models.PlaybackStatus:
			st = s
		case string:
			st = models.PlaybackStatus(s)
		default:
			return nil, false
		}
		return st, st.Valid()
	case KindLoopStatus:
		var st models.LoopStatus
		switch s := v.(type) {
		case models.LoopStatus:
			st = s
		case string:
			st = models.LoopStatus(s)
		default:
			return nil, false
		}
		return st, st.Valid()
	case KindMetadata:
		switch m := v.(type) {
		case models.Metadata:
			if !m.MediaType.Valid() {
				return nil, false
			}
			return m.Normalized(), true
		case *models.Metadata:
			if m == nil || !m.MediaType.Valid() {
				return nil, false
			}
			return m.Normalized(), true
		}
	}
	return nil, false
}

func boolField(p func(*sets) *bool) field {
	return field{
		kind: KindBool,
		get:  func(s *sets) any { return *p(s) },
		set:  func(s *sets, v any) { *p(s) = v.(bool) },
	}
}

func stringField(p func(*sets) *string) field {
	return field{
		kind: KindString,
		get:  func(s *sets) any { return *p(s) },
		set:  func(s *sets, v any) { *p(s) = v.(string) },
	}
}

func stringsField(p func(*sets) *[]string) field {
	return field{
		kind: KindStrings,
		get:  func(s *sets) any { return slices.Clone(*p(s)) },
		set:  func(s *sets, v any) { *p(s) = v.([]string) },
	}
}

func floatField(p func(*sets) *float64) field {
	return field{
		kind: KindFloat,
		get:  func(s *sets) any { return *p(s) },
		set:  func(s *sets, v any) { *p(s) = v.(float64) },
	}
}

func boundedFloatField(p func(*sets) *float64, lo, hi float64) field {
	f := floatField(p)
	f.check = func(v any) bool {
		n := v.(float64)
		return n >= lo && n <= hi
	}
	return f
}

func int64Field(p func(*sets) *int64) field {
	return field{
		kind: KindInt64,
		get:  func(s *sets) any { return *p(s) },
		set:  func(s *sets, v any) { *p(s) = v.(int64) },
	}
}
