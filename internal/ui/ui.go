package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/nowplaying/internal/formatter"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/props"
)

// seekStep is the offset sent by the seek bindings, in microseconds.
const seekStep int64 = 5_000_000

const barWidth = 40

// ViewState represents the current view in the TUI.
type ViewState int

const (
	NowPlayingView ViewState = iota
	QueueView
)

// Source reads property snapshots.
type Source interface {
	Player() models.PlayerProperties
	Playback() models.PlaybackProperties
}

// Remote sends control requests through the capability gate.
type Remote interface {
	PlayPause()
	Next()
	Previous()
	Stop()
	Seek(offset int64)
	SetLoopStatus(status models.LoopStatus)
	SetShuffle(shuffle bool)
	Quit()
}

// Options configures a [Model].
type Options struct {
	Source Source
	Remote Remote
	// Tracks returns the current playlist. Optional; the queue view is empty without it.
	Tracks func() []models.Metadata
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	source   Source
	remote   Remote
	tracks   func() []models.Metadata
	changes  chan struct{}
	player   models.PlayerProperties
	playback models.PlaybackProperties
	queue    list.Model
	queued   int
	width    int
	height   int
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model. The model quits when ctx is done.
func NewModel(ctx context.Context, opts Options) *Model {
	m := &Model{
		ctx:     ctx,
		view:    NowPlayingView,
		source:  opts.Source,
		remote:  opts.Remote,
		tracks:  opts.Tracks,
		changes: make(chan struct{}, 1),
		help:    help.New(),
		keys:    newKeyMap(),
		queued:  -1,
	}
	m.queue = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.queue.Title = "Queue"
	m.refresh()
	return m
}

// Observer returns a store observer that wakes the model. Bursts of writes coalesce into one
// redraw and the store never blocks on rendering.
func (m *Model) Observer() props.Observer {
	return props.ObserverFunc(func(models.Scope, string, any) {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})
}

// Init starts waiting for property changes.
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.queue.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case NowPlayingView:
			return m.handleNowPlayingKeys(msg)
		case QueueView:
			return m.handleQueueKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgPropertiesChanged:
			m.refresh()
			return m, m.waitForChange()
		case MsgSessionClosed:
			if err, ok := msg.data.(error); ok {
				m.err = err
			}
			return m, tea.Quit
		}
	}

	if m.view == QueueView {
		var cmd tea.Cmd
		m.queue, cmd = m.queue.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	switch m.view {
	case NowPlayingView:
		return m.renderNowPlaying()
	case QueueView:
		return m.renderQueue()
	default:
		return ""
	}
}

// Err reports why the session closed, if it did so with an error.
func (m *Model) Err() error { return m.err }

func (m *Model) handleNowPlayingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.view):
		m.view = QueueView
	case key.Matches(msg, m.keys.toggle):
		m.remote.PlayPause()
	case key.Matches(msg, m.keys.next):
		m.remote.Next()
	case key.Matches(msg, m.keys.previous):
		m.remote.Previous()
	case key.Matches(msg, m.keys.stop):
		m.remote.Stop()
	case key.Matches(msg, m.keys.forward):
		m.remote.Seek(seekStep)
	case key.Matches(msg, m.keys.backward):
		m.remote.Seek(-seekStep)
	case key.Matches(msg, m.keys.loop):
		m.remote.SetLoopStatus(NextLoopStatus(m.playback.LoopStatus))
	case key.Matches(msg, m.keys.shuffle):
		m.remote.SetShuffle(!m.playback.Shuffle)
	}
	return m, nil
}

func (m *Model) handleQueueKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.queue.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, m.quit()
		case key.Matches(msg, m.keys.view):
			m.view = NowPlayingView
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.queue, cmd = m.queue.Update(msg)
	return m, cmd
}

// quit asks the application to quit when it allows that, and always leaves the TUI.
func (m *Model) quit() tea.Cmd {
	if m.player.CanQuit {
		m.remote.Quit()
	}
	return tea.Quit
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changes:
			return propertiesChangedMsg()
		case <-m.ctx.Done():
			return sessionClosedMsg(nil)
		}
	}
}

// refresh re-reads the snapshots and rebuilds the queue when the playlist changed size.
func (m *Model) refresh() {
	m.player = m.source.Player()
	m.playback = m.source.Playback()
	if m.tracks == nil {
		return
	}

	tracks := m.tracks()
	items := make([]list.Item, len(tracks))
	selected := 0
	for i, t := range tracks {
		current := t.ID == m.playback.Metadata.ID
		if current {
			selected = i
		}
		items[i] = trackItem{track: t, current: current}
	}
	m.queue.SetItems(items)
	if selected != m.queued {
		m.queue.Select(selected)
		m.queued = selected
	}
}

func (m *Model) renderNowPlaying() string {
	pb := m.playback
	meta := pb.Metadata

	var b strings.Builder
	b.WriteString(styles.title.Render("Now Playing · "+m.player.Identity) + "\n")
	b.WriteString(styles.song.Render(meta.Title) + "\n")
	if line := trackLine(meta); line != "" {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s %s %s/%s\n",
		styles.Status(pb.PlaybackStatus, statusIcon(pb.PlaybackStatus)),
		ProgressBar(pb.Position, meta.Duration, barWidth),
		formatter.FormatDuration(pb.Position),
		formatter.FormatDuration(meta.Duration),
	)

	shuffle := "off"
	if pb.Shuffle {
		shuffle = "on"
	}
	modes := fmt.Sprintf("Loop: %s  Shuffle: %s  Rate: %.2fx  Volume: %d%%",
		pb.LoopStatus, shuffle, pb.Rate, int(pb.Volume*100))
	b.WriteString(styles.help.Render(modes) + "\n")

	if !pb.CanControl {
		b.WriteString(styles.warn.Render("controls disabled by the application") + "\n")
	}

	b.WriteString("\n" + m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) renderQueue() string {
	back := key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "now playing"))
	helpView := m.help.ShortHelpView([]key.Binding{back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.queue.View(), helpView)
}

// ProgressBar renders position out of length as a fixed-width bar.
func ProgressBar(position, length int64, width int) string {
	filled := 0
	if length > 0 {
		filled = int(float64(width) * float64(max(0, min(position, length))) / float64(length))
	}
	return styles.filled.Render(strings.Repeat("█", filled)) + styles.empty.Render(strings.Repeat("─", width-filled))
}

// NextLoopStatus cycles None, Track, Playlist.
func NextLoopStatus(s models.LoopStatus) models.LoopStatus {
	switch s {
	case models.LoopNone:
		return models.LoopTrack
	case models.LoopTrack:
		return models.LoopPlaylist
	default:
		return models.LoopNone
	}
}

func statusIcon(s models.PlaybackStatus) string {
	switch s {
	case models.Playing:
		return "▶"
	case models.Paused:
		return "⏸"
	default:
		return "■"
	}
}

func trackLine(m models.Metadata) string {
	parts := []string{}
	if len(m.Artist) > 0 {
		parts = append(parts, strings.Join(m.Artist, ", "))
	}
	if m.Album != "" {
		parts = append(parts, m.Album)
	}
	return strings.Join(parts, " • ")
}

var _ list.Item = trackItem{}

// trackItem wraps [models.Metadata] to implement [list.Item].
type trackItem struct {
	track   models.Metadata
	current bool
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string {
	if i.current {
		return "▶ " + i.track.Title
	}
	return i.track.Title
}
func (i trackItem) Description() string {
	desc := trackLine(i.track)
	if desc == "" {
		desc = "Unknown Artist"
	}
	return fmt.Sprintf("%s • %s", desc, formatter.FormatDuration(i.track.Duration))
}
