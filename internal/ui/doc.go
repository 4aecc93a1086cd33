// Package ui implements a terminal remote for a now-playing session using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [NowPlayingView] : Current track, status, position and playback modes
//  2. [QueueView] : The playlist with the current track marked
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Property changes flow through a coalescing channel fed by [Model.Observer], so the store never blocks on rendering.
//
// Key presses are sent through a [Remote], the same router the native surface feeds, so the capability gate
// applies to the terminal exactly as it does to the OS. Bindings (space, n/p, ←/→, r, z, tab, q) are shown with
// charmbracelet/bubbles/help.
package ui
