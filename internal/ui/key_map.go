package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	toggle   key.Binding
	next     key.Binding
	previous key.Binding
	forward  key.Binding
	backward key.Binding
	stop     key.Binding
	loop     key.Binding
	shuffle  key.Binding
	view     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		previous: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		forward:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "seek +5s")),
		backward: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "seek -5s")),
		stop:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		loop:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "loop")),
		shuffle:  key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "shuffle")),
		view:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "queue")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.next, k.previous, k.view, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.toggle, k.stop, k.next, k.previous},
		{k.forward, k.backward, k.loop, k.shuffle},
		{k.view, k.quit},
	}
}
