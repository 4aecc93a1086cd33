package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/nowplaying/internal/formatter"
	"github.com/desertthunder/nowplaying/internal/repositories"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/urfave/cli/v3"
)

type playInfo struct {
	Sequence int       `json:"sequence"`
	Player   string    `json:"player"`
	TrackID  string    `json:"track_id"`
	Title    string    `json:"title"`
	Artist   []string  `json:"artist"`
	Album    string    `json:"album,omitempty"`
	Length   int64     `json:"length_us"`
	PlayedAt time.Time `json:"played_at"`
}

// History lists or clears the recorded plays.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	path := cmd.String("db")
	if path == "" {
		path = config.History.Path
	}
	if path == "" {
		return fmt.Errorf("%w: no history database; set history.path or pass --db", shared.ErrMissingArgument)
	}
	limit := cmd.Int("limit")
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive", shared.ErrInvalidFlag)
	}

	db, err := shared.OpenHistory(path)
	if err != nil {
		return err
	}
	defer db.Close()
	repo := repositories.NewPlayRepository(db)

	if cmd.Bool("clear") {
		n, err := repo.Clear()
		if err != nil {
			return err
		}
		r.logger.Info("history cleared", "path", path, "plays", n)
		return r.writePlain("✓ removed %d plays\n", n)
	}

	plays, err := repo.Recent(cmd.String("player"), limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		infos := make([]playInfo, 0, len(plays))
		for _, p := range plays {
			infos = append(infos, playInfo{
				Sequence: p.Sequence, Player: p.Player, TrackID: p.TrackID, Title: p.Title,
				Artist: p.Artist, Album: p.Album, Length: p.Length, PlayedAt: p.PlayedAt,
			})
		}
		return r.writeJSON(infos, false)
	}

	if len(plays) == 0 {
		return r.writePlain("no plays recorded\n")
	}
	for _, p := range plays {
		line := fmt.Sprintf("#%-4d %s  %s - %s [%s]\n", p.Sequence, p.PlayedAt.Local().Format(time.DateTime),
			strings.Join(p.Artist, ", "), p.Title, formatter.FormatDuration(p.Length))
		if err := r.writePlain("%s", line); err != nil {
			return err
		}
	}
	return nil
}
