package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPropertiesChanged MsgKind = iota
	MsgSessionClosed
)

// propertiesChangedMsg is the constructor for [MsgPropertiesChanged]
func propertiesChangedMsg() Msg {
	return Msg{kind: MsgPropertiesChanged}
}

// sessionClosedMsg is the constructor for [MsgSessionClosed]
func sessionClosedMsg(err error) Msg {
	return Msg{kind: MsgSessionClosed, data: err}
}
