// package props implements the property model shared by the facade and the platform adapters
package props

import (
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/shared"
)

// Observer receives one notification per successful set, in set order.
//
// Observers run synchronously before Set returns and must not write back into the [Store].
type Observer interface {
	OnPropertyChanged(scope models.Scope, name string, value any)
}

// ObserverFunc adapts a function to [Observer].
type ObserverFunc func(scope models.Scope, name string, value any)

func (f ObserverFunc) OnPropertyChanged(scope models.Scope, name string, value any) {
	f(scope, name, value)
}

// Store holds the canonical property sets.
type Store struct {
	mu        sync.RWMutex // guards values
	pubMu     sync.Mutex   // serializes set+notify so observers see call order
	values    sets
	observers []Observer
	logger    *log.Logger
}

// NewStore creates a Store with every property at its documented default.
func NewStore(logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Store{
		values: sets{
			player:    models.DefaultPlayerProperties(),
			playback:  models.DefaultPlaybackProperties(),
			tracklist: models.DefaultTrackListProperties(),
		},
		logger: logger,
	}
}

// Subscribe registers an observer. Observers are notified in registration order.
func (s *Store) Subscribe(o Observer) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.observers = append(s.observers, o)
}

// Set validates value against the schema for (scope, name), stores it and notifies observers.
//
// The previous value is returned for diffing. A value of the wrong type or an unknown name
// returns an error wrapping [shared.ErrSchema] and leaves the store untouched.
func (s *Store) Set(scope models.Scope, name string, value any) (any, error) {
	f, err := lookup(scope, name)
	if err != nil {
		s.logger.Error("rejected property write", "scope", scope, "name", name, "err", err)
		return nil, err
	}

	v, ok := coerce(f.kind, value)
	if ok && f.check != nil {
		ok = f.check(v)
	}
	if !ok {
		err := fmt.Errorf("%w: %s.%s expects %s, got %T(%v)", shared.ErrSchema, scope, name, f.kind, value, value)
		s.logger.Error("rejected property write", "scope", scope, "name", name, "err", err)
		return nil, err
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	prev := f.get(&s.values)
	f.set(&s.values, v)
	current := f.get(&s.values)
	s.mu.Unlock()

	s.logger.Debug("property set", "scope", scope, "name", name)
	for _, o := range s.observers {
		o.OnPropertyChanged(scope, name, current)
	}
	return prev, nil
}

// Get returns the current value for (scope, name).
func (s *Store) Get(scope models.Scope, name string) (any, error) {
	f, err := lookup(scope, name)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return f.get(&s.values), nil
}

// SetPlayer sets a root-scope property.
func (s *Store) SetPlayer(name models.PropertyName, value any) (any, error) {
	return s.Set(models.ScopePlayer, string(name), value)
}

// SetPlayback sets a player-scope property.
func (s *Store) SetPlayback(name models.PlaybackPropertyName, value any) (any, error) {
	return s.Set(models.ScopePlayback, string(name), value)
}

// SetTrackList sets a track-list property.
func (s *Store) SetTrackList(name models.TrackListPropertyName, value any) (any, error) {
	return s.Set(models.ScopeTrackList, string(name), value)
}

// Player returns a snapshot of the root-scope properties.
func (s *Store) Player() models.PlayerProperties {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.values.player
	p.SupportedURISchemes = slices.Clone(p.SupportedURISchemes)
	p.SupportedMimeTypes = slices.Clone(p.SupportedMimeTypes)
	return p
}

// Playback returns a snapshot of the player-scope properties.
func (s *Store) Playback() models.PlaybackProperties {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.values.playback
	p.Metadata = p.Metadata.Normalized()
	return p
}

// TrackList returns a snapshot of the track-list properties.
func (s *Store) TrackList() models.TrackListProperties {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.values.tracklist
	t.Tracks = slices.Clone(t.Tracks)
	return t
}
