// package shared defines shared helpers
package shared

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// TrackIDPrefix is the object path namespace used for generated track ids.
const TrackIDPrefix = "/org/mpris/MediaPlayer2/Track/"

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true, Prefix: "nowplaying"}
	l := log.NewWithOptions(w, opts)
	l.SetStyles(levelStyles())
	return l
}

// NewLoggerFromConfig creates a [log.Logger] honoring the level & format from [LogConfig].
func NewLoggerFromConfig(w io.Writer, c LogConfig) *log.Logger {
	l := NewLogger(w)
	switch c.Format {
	case "json":
		l.SetFormatter(log.JSONFormatter)
	case "logfmt":
		l.SetFormatter(log.LogfmtFormatter)
	default:
		l.SetFormatter(log.TextFormatter)
	}

	if lvl, err := log.ParseLevel(c.Level); err == nil {
		l.SetLevel(lvl)
	}
	return l
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// DiscardLogger returns a logger that writes nowhere, for tests and library callers that pass no logger.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// TrackID generates an object-path shaped track identifier.
//
// D-Bus object path elements only allow [A-Za-z0-9_], so the uuid dashes are replaced.
func TrackID() string {
	return TrackIDPrefix + strings.ReplaceAll(uuid.New().String(), "-", "_")
}

func levelStyles() *log.Styles {
	styles := log.DefaultStyles()
	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().SetString("DEBU").Bold(true).Foreground(lipgloss.Color("63"))
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().SetString("INFO").Bold(true).Foreground(lipgloss.Color("86"))
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().SetString("WARN").Bold(true).Foreground(lipgloss.Color("192"))
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().SetString("ERRO").Bold(true).Foreground(lipgloss.Color("204"))
	styles.Keys["scope"] = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	return styles
}
