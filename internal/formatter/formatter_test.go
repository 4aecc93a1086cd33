package formatter

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/shared"
)

func testPlaylist() Playlist {
	one := models.DefaultMetadata()
	one.ID = "/org/example/track/1"
	one.Title = "Song One"
	one.Artist = []string{"Artist One", "Guest"}
	one.Album = "Album One"
	one.TrackNumber = 1
	one.Duration = 180_000_000
	one.URL = "file:///music/one.flac"

	two := models.DefaultMetadata()
	two.ID = "/org/example/track/2"
	two.Title = "Song Two"
	two.Artist = []string{"Artist Two"}
	two.TrackNumber = 2
	two.Duration = 240_000_000

	return Playlist{Title: "Test Playlist", Tracks: []models.Metadata{one, two}}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testPlaylist())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "ID,Title,Artist,Album,Track,Length,URL" {
			t.Errorf("CSV headers = %v", records[0])
		}

		row := records[1]
		if row[0] != "/org/example/track/1" || row[1] != "Song One" {
			t.Errorf("unexpected first row %v", row)
		}
		if row[2] != "Artist One; Guest" {
			t.Errorf("artist column = %q", row[2])
		}
		if row[5] != "180000000" {
			t.Errorf("length column = %q", row[5])
		}
		if row[6] != "file:///music/one.flac" {
			t.Errorf("url column = %q", row[6])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testPlaylist())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Test Playlist",
			"**Tracks**: 2",
			"**Length**: 7:00",
			"## Tracks",
			"1. Artist One, Guest - Song One (Album One) [3:00]",
			"2. Artist Two - Song Two [4:00]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testPlaylist())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Playlist: Test Playlist") {
			t.Errorf("Text missing playlist name")
		}
		if !strings.Contains(output, "Tracks: 2") {
			t.Errorf("Text missing track count")
		}
		if !strings.Contains(output, "2. Artist Two - Song Two") {
			t.Errorf("Text missing track2")
		}
	})

	t.Run("ExportToText without artist", func(t *testing.T) {
		m := models.DefaultMetadata()
		m.Title = "Lonely"
		data, _ := ExportToText(Playlist{Title: "x", Tracks: []models.Metadata{m}})
		if !strings.Contains(string(data), "1. Unknown Artist - Lonely") {
			t.Errorf("unexpected output %s", data)
		}
	})

	t.Run("Export dispatches on format", func(t *testing.T) {
		for _, f := range Formats {
			data, err := Export(testPlaylist(), f)
			if err != nil {
				t.Errorf("Export(%s) error = %v", f, err)
			}
			if len(data) == 0 {
				t.Errorf("Export(%s) returned no data", f)
			}
		}
	})

	t.Run("Export rejects unknown formats", func(t *testing.T) {
		if _, err := Export(testPlaylist(), "xml"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("writes the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracks.md")
		if err := WriteExport(testPlaylist(), Markdown, path); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.HasPrefix(string(data), "# Test Playlist") {
			t.Errorf("unexpected file contents %s", data)
		}
	})

	t.Run("reports write failures", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "tracks.csv")
		if err := WriteExport(testPlaylist(), CSV, path); err == nil {
			t.Error("expected an error for a missing directory")
		}
	})
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		us   int64
		want string
	}{
		{0, "0:00"},
		{59_000_000, "0:59"},
		{180_000_000, "3:00"},
		{3_723_000_000, "1:02:03"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.us); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.us, got, tt.want)
		}
	}
}
