// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// serveCommand publishes the demo player until interrupted
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Publish a demo player and serve control requests",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "platform",
				Aliases: []string{"p"},
				Usage:   "Adapter id (linux, windows, darwin); defaults to the host OS",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "host:port for the prometheus listener",
			},
			&cli.FloatFlag{
				Name:  "tick-hz",
				Usage: "Position updates per second",
			},
			&cli.StringFlag{
				Name:  "history",
				Usage: "SQLite file to record plays in",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Show an interactive terminal remote",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log destination while the TUI is shown; empty discards logs",
			},
		},
		Action: r.Serve,
	}
}

// platformsCommand lists the registered adapters
func platformsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "platforms",
		Usage: "List the registered platform adapters",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Platforms,
	}
}

// metadataCommand prints the MPRIS metadata map for a track
func metadataCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "metadata",
		Usage: "Print the flattened MPRIS metadata for a track",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "id",
				Usage: "Track id; generated when empty",
			},
			&cli.StringFlag{
				Name:    "title",
				Aliases: []string{"t"},
				Usage:   "Track title",
			},
			&cli.StringSliceFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "Track artist (repeatable)",
			},
			&cli.StringFlag{
				Name:  "album",
				Usage: "Album title",
			},
			&cli.StringSliceFlag{
				Name:  "genre",
				Usage: "Genre (repeatable)",
			},
			&cli.Int64Flag{
				Name:  "length",
				Usage: "Track length in microseconds",
			},
			&cli.IntFlag{
				Name:  "track-number",
				Usage: "Track number",
			},
			&cli.StringFlag{
				Name:  "art-url",
				Usage: "Cover art URI",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Metadata,
	}
}

// playlistCommand exports the demo playlist
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Export the demo playlist served by serve",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (json, csv, markdown, text)",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
		},
		Action: r.Playlist,
	}
}

// historyCommand lists recorded plays
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recently recorded plays",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite file; defaults to history.path from the config",
			},
			&cli.StringFlag{
				Name:  "player",
				Usage: "Only list plays from this session name",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of plays",
				Value:   20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "Delete every recorded play",
			},
		},
		Action: r.History,
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file operations",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write the example configuration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.ConfigInit,
			},
			{
				Name:   "validate",
				Usage:  "Load and validate a configuration file",
				Flags:  []cli.Flag{configFlag()},
				Action: r.ConfigValidate,
			},
		},
	}
}
