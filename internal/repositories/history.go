package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/shared"
)

// ErrNotFound is returned when a play does not exist.
var ErrNotFound = errors.New("play not found")

const playColumns = "id, sequence, player, track_id, title, artist, album, length, played_at"

// PlayRepository stores [models.Play] records.
type PlayRepository struct {
	db *sql.DB
}

// NewPlayRepository creates a new PlayRepository with the given database connection
func NewPlayRepository(db *sql.DB) *PlayRepository {
	return &PlayRepository{db: db}
}

// Record inserts p with a generated ID and sequence.
func (r *PlayRepository) Record(p *models.Play) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	artist, err := json.Marshal(p.Artist)
	if err != nil {
		return fmt.Errorf("failed to encode artists: %w", err)
	}

	sequence, err := NextSequence(r.db, "plays")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	id := shared.GenerateID()

	query := `INSERT INTO plays (` + playColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.Exec(query, id, sequence, p.Player, p.TrackID, p.Title, string(artist), p.Album, p.Length, p.PlayedAt.UTC()); err != nil {
		return fmt.Errorf("failed to insert play: %w", err)
	}

	p.ID = id
	p.Sequence = sequence
	return nil
}

// Get retrieves a play by ID.
func (r *PlayRepository) Get(id string) (*models.Play, error) {
	row := r.db.QueryRow(`SELECT `+playColumns+` FROM plays WHERE id = ?`, id)
	p, err := scanPlay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, err
}

// Recent returns up to limit plays, newest first. An empty player matches every session.
func (r *PlayRepository) Recent(player string, limit int) ([]*models.Play, error) {
	query := `SELECT ` + playColumns + ` FROM plays WHERE (? = '' OR player = ?) ORDER BY sequence DESC LIMIT ?`
	rows, err := r.db.Query(query, player, player, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer rows.Close()

	plays := []*models.Play{}
	for rows.Next() {
		p, err := scanPlay(rows)
		if err != nil {
			return nil, err
		}
		plays = append(plays, p)
	}
	return plays, rows.Err()
}

// Count returns the number of recorded plays.
func (r *PlayRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM plays").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count plays: %w", err)
	}
	return n, nil
}

// Clear deletes every play and returns how many were removed. Sequence numbers keep increasing.
func (r *PlayRepository) Clear() (int64, error) {
	res, err := r.db.Exec("DELETE FROM plays")
	if err != nil {
		return 0, fmt.Errorf("failed to clear plays: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlay(s scanner) (*models.Play, error) {
	var p models.Play
	var artist string
	if err := s.Scan(&p.ID, &p.Sequence, &p.Player, &p.TrackID, &p.Title, &artist, &p.Album, &p.Length, &p.PlayedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan play: %w", err)
	}
	if err := json.Unmarshal([]byte(artist), &p.Artist); err != nil {
		return nil, fmt.Errorf("failed to decode artists: %w", err)
	}
	return &p, nil
}
