package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying"
	"github.com/desertthunder/nowplaying/internal/formatter"
	"github.com/desertthunder/nowplaying/internal/platform"
	"github.com/desertthunder/nowplaying/internal/platform/mpris"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	factory nowplaying.Factory
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
	// Adapter overrides the platform registry, for tests.
	Adapter nowplaying.Factory
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		logger:  opts.Logger,
		output:  opts.Output,
		factory: opts.Adapter,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, platformsCommand, metadataCommand, playlistCommand, historyCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reads the file named by the config flag, falling back to the runner config when it
// does not exist.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	path := cmd.String("config")
	if path == "" {
		return r.config, nil
	}
	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return r.config, nil
	}
	return shared.LoadConfig(path)
}

type platformInfo struct {
	ID       string `json:"id"`
	Detected bool   `json:"detected"`
}

// Platforms lists the registered adapter ids, marking the host OS.
func (r *Runner) Platforms(ctx context.Context, cmd *cli.Command) error {
	host := platform.Detect()
	infos := []platformInfo{}
	for _, id := range nowplaying.Platforms() {
		infos = append(infos, platformInfo{ID: id, Detected: id == host})
	}

	if cmd.Bool("json") {
		return r.writeJSON(infos, false)
	}
	for _, p := range infos {
		marker := " "
		if p.Detected {
			marker = "*"
		}
		if err := r.writePlain("%s %s\n", marker, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// Metadata prints the MPRIS wire map for a track described by flags.
func (r *Runner) Metadata(ctx context.Context, cmd *cli.Command) error {
	meta := nowplaying.DefaultMetadata()
	meta.ID = cmd.String("id")
	if meta.ID == "" {
		meta.ID = shared.TrackID()
	}
	meta.Title = cmd.String("title")
	meta.Album = cmd.String("album")
	meta.Cover = cmd.String("art-url")
	meta.Duration = cmd.Int64("length")
	meta.TrackNumber = cmd.Int("track-number")
	if artists := cmd.StringSlice("artist"); len(artists) > 0 {
		meta.Artist = artists
	}
	if genres := cmd.StringSlice("genre"); len(genres) > 0 {
		meta.Genre = genres
	}
	if meta.Duration < 0 {
		return fmt.Errorf("%w: length must not be negative", shared.ErrInvalidFlag)
	}

	wire := mpris.MetadataMap(meta)
	out := make(map[string]any, len(wire))
	for k, v := range wire {
		out[k] = v.Value()
	}
	return r.writeJSON(out, cmd.Bool("pretty"))
}

// Playlist exports the demo playlist in the requested format.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	playlist := formatter.Playlist{Title: config.Player.Name, Tracks: demoTracks(config.Demo.Duration)}
	format := formatter.Format(cmd.String("format"))
	path := cmd.String("output")

	if format == "json" {
		if path != "" {
			return fmt.Errorf("%w: json export writes to stdout only", shared.ErrInvalidFlag)
		}
		return r.writeJSON(playlist.Tracks, true)
	}
	if !slices.Contains(formatter.Formats, format) {
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}

	if path != "" {
		if err := formatter.WriteExport(playlist, format, path); err != nil {
			return err
		}
		r.logger.Info("playlist exported", "path", path, "format", format)
		return r.writePlain("✓ wrote %d tracks to %s\n", len(playlist.Tracks), path)
	}

	data, err := formatter.Export(playlist, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// ConfigInit writes the embedded example configuration.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ wrote %s\n", path)
}

// ConfigValidate loads a configuration file and reports whether it is valid.
func (r *Runner) ConfigValidate(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	}
	config, err := shared.LoadConfig(path)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %s is valid (player %q, platform %q)\n", path, config.Player.Name, config.Platform.ID)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
