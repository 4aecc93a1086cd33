// Package models defines the player-facing property records mirrored to the host media surface.
//
// The package contains three categories of types:
//
// 1. Property sets: one instance of each lives for the lifetime of an interface
//   - [PlayerProperties] : root-scope capabilities and identity
//   - [PlaybackProperties] : playback status, timeline, rate, volume and the six control capabilities
//   - [TrackListProperties] : optional ordered track ids
//
// 2. Per-track data
//   - [Metadata] : one record per track, flattened by each platform adapter into its own key table
//
// 3. History
//   - [Play] : one recorded track start, persisted by the repositories package
//
// 4. Names and enumerations
//   - [Scope], [PropertyName], [PlaybackPropertyName], [TrackListPropertyName] : string values are the MPRIS wire names
//   - [PlaybackStatus], [LoopStatus], [MediaType]
//
// Every constructor (Default*) returns the documented defaults. Durations and positions are int64 microseconds.
package models
