// package formatter renders track lists as CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/shared"
)

// Format names an export encoding.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
)

// Formats lists the supported encodings.
var Formats = []Format{CSV, Markdown, Text}

// Playlist is a titled list of tracks.
type Playlist struct {
	Title  string
	Tracks []models.Metadata
}

// Export encodes p in the given format.
func Export(p Playlist, f Format) ([]byte, error) {
	switch f {
	case CSV:
		return ExportToCSV(p)
	case Markdown:
		return ExportToMarkdown(p)
	case Text:
		return ExportToText(p)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidInput, f)
	}
}

// ExportToCSV writes one row per track with columns: ID, Title, Artist, Album, Track, Length, URL
func ExportToCSV(p Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Track", "Length", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range p.Tracks {
		record := []string{
			track.ID,
			track.Title,
			strings.Join(track.Artist, "; "),
			track.Album,
			strconv.Itoa(track.TrackNumber),
			strconv.FormatInt(track.Duration, 10),
			track.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a heading followed by a numbered track list
func ExportToMarkdown(p Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", p.Title)
	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(p.Tracks))
	fmt.Fprintf(&buf, "**Length**: %s\n\n", FormatDuration(totalLength(p.Tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range p.Tracks {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n",
			i+1, artistLine(track), track.Title, albumPart, FormatDuration(track.Duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a track list to plain text format
func ExportToText(p Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", p.Title)
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(p.Tracks))

	for i, track := range p.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, artistLine(track), track.Title)
	}

	return buf.Bytes(), nil
}

// WriteExport encodes p and writes it to path.
func WriteExport(p Playlist, f Format, path string) error {
	data, err := Export(p, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", f, err)
	}
	return nil
}

// FormatDuration renders a length in microseconds as m:ss, or h:mm:ss past an hour.
func FormatDuration(us int64) string {
	d := time.Duration(us) * time.Microsecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func artistLine(m models.Metadata) string {
	if len(m.Artist) == 0 {
		return "Unknown Artist"
	}
	return strings.Join(m.Artist, ", ")
}

func totalLength(tracks []models.Metadata) int64 {
	var total int64
	for _, t := range tracks {
		total += t.Duration
	}
	return total
}
