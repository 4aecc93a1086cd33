package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenHistory(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testPlay(player, trackID string, at time.Time) *models.Play {
	m := models.DefaultMetadata()
	m.ID = trackID
	m.Title = "Title " + trackID
	m.Artist = []string{"Artist One", "Artist Two"}
	m.Album = "Album"
	m.Duration = 180_000_000
	return models.NewPlay(player, m, at)
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "plays")
		if err != nil {
			t.Fatalf("NextSequence() error = %v", err)
		}
		if got != want {
			t.Errorf("NextSequence() = %d, want %d", got, want)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected an error for a table without a sequence")
	}
}

func TestPlayRepository(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Record", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))
		play := testPlay("demo", "/track/1", at)

		if err := repo.Record(play); err != nil {
			t.Fatalf("failed to record play: %v", err)
		}
		if play.ID == "" {
			t.Error("play ID should be set after recording")
		}
		if play.Sequence != 1 {
			t.Errorf("sequence = %d, want 1", play.Sequence)
		}
	})

	t.Run("Record validates", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))
		play := testPlay("demo", "", at)

		if err := repo.Record(play); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if n, _ := repo.Count(); n != 0 {
			t.Errorf("count = %d, want 0", n)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))
		play := testPlay("demo", "/track/1", at)
		if err := repo.Record(play); err != nil {
			t.Fatalf("failed to record play: %v", err)
		}

		got, err := repo.Get(play.ID)
		if err != nil {
			t.Fatalf("failed to get play: %v", err)
		}
		if got.Title != "Title /track/1" || got.Album != "Album" || got.Length != 180_000_000 {
			t.Errorf("unexpected play %+v", got)
		}
		if len(got.Artist) != 2 || got.Artist[1] != "Artist Two" {
			t.Errorf("artist = %v", got.Artist)
		}
		if !got.PlayedAt.Equal(at) {
			t.Errorf("played_at = %v, want %v", got.PlayedAt, at)
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))
		if _, err := repo.Get("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Recent", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))
		for i, id := range []string{"/track/1", "/track/2", "/track/3"} {
			if err := repo.Record(testPlay("demo", id, at.Add(time.Duration(i)*time.Minute))); err != nil {
				t.Fatalf("failed to record play: %v", err)
			}
		}
		if err := repo.Record(testPlay("other", "/track/9", at)); err != nil {
			t.Fatalf("failed to record play: %v", err)
		}

		plays, err := repo.Recent("demo", 2)
		if err != nil {
			t.Fatalf("failed to list plays: %v", err)
		}
		if len(plays) != 2 || plays[0].TrackID != "/track/3" || plays[1].TrackID != "/track/2" {
			t.Errorf("unexpected recent plays %v", plays)
		}

		all, _ := repo.Recent("", 10)
		if len(all) != 4 || all[0].Player != "other" {
			t.Errorf("expected every player newest first, got %d plays", len(all))
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))
		repo.Record(testPlay("demo", "/track/1", at))
		repo.Record(testPlay("demo", "/track/2", at))

		n, err := repo.Clear()
		if err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if n != 2 {
			t.Errorf("cleared %d, want 2", n)
		}

		play := testPlay("demo", "/track/3", at)
		repo.Record(play)
		if play.Sequence != 3 {
			t.Errorf("sequence after clear = %d, want 3", play.Sequence)
		}
	})
}
