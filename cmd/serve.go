package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/nowplaying"
	"github.com/desertthunder/nowplaying/internal/repositories"
	"github.com/desertthunder/nowplaying/internal/server"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/desertthunder/nowplaying/internal/tasks"
	"github.com/desertthunder/nowplaying/internal/ui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// Serve publishes the demo player and blocks until interrupted or a Quit request arrives.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	id := cmd.String("platform")
	if id == "" {
		id = config.Platform.ID
	}
	addr := cmd.String("metrics-addr")
	if addr == "" {
		addr = config.Metrics.Addr
	}
	hz := cmd.Float("tick-hz")
	if hz == 0 {
		hz = config.Demo.TickHz
	}
	if hz <= 0 {
		return fmt.Errorf("%w: tick-hz must be positive", shared.ErrInvalidFlag)
	}
	tui := cmd.Bool("tui")
	if tui {
		closeLog, err := r.redirectLogs(cmd.String("log-file"))
		if err != nil {
			return err
		}
		defer closeLog()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	player := newDemoPlayer(r.logger, demoTracks(config.Demo.Duration), quit)
	np, err := nowplaying.New(config.Player.Name, nowplaying.Options{
		Platform: id,
		Handler:  player,
		Logger:   r.logger,
		Metrics:  reg,
		Adapter:  r.factory,
	})
	if err != nil {
		return err
	}
	player.np = np

	historyPath := cmd.String("history")
	if historyPath == "" {
		historyPath = config.History.Path
	}
	var recorder *tasks.Recorder
	if historyPath != "" {
		db, err := shared.OpenHistory(historyPath)
		if err != nil {
			return err
		}
		defer db.Close()
		recorder = tasks.NewRecorder(repositories.NewPlayRepository(db), config.Player.Name, r.logger)
		np.Subscribe(recorder.Observer())
	}

	if err := publishPlayer(np, config.Player); err != nil {
		return err
	}
	player.mu.Lock()
	player.load(0)
	player.mu.Unlock()

	if err := np.Start(ctx); err != nil {
		np.Stop()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return player.run(gctx, hz) })
	if recorder != nil {
		g.Go(func() error { return recorder.Run(gctx) })
	}
	if tui {
		model := ui.NewModel(gctx, ui.Options{Source: np, Remote: np.Controls(), Tracks: player.Tracks})
		np.Subscribe(model.Observer())
		g.Go(func() error {
			defer quit()
			if _, err := tea.NewProgram(model).Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		})
	} else {
		r.writePlain("→ serving %q on %s (ctrl+c to stop)\n", config.Player.Name, np.Platform())
	}
	if addr != "" {
		g.Go(func() error { return r.serveMetrics(gctx, addr, reg, np) })
	}
	g.Go(func() error {
		<-gctx.Done()
		return np.Stop()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	r.logger.Info("demo player stopped")
	return nil
}

// redirectLogs sends log output to path, or discards it when path is empty, so it does not
// interfere with TUI rendering.
func (r *Runner) redirectLogs(path string) (func() error, error) {
	if path == "" {
		r.logger.SetOutput(io.Discard)
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	r.logger.SetOutput(f)
	return f.Close, nil
}

// publishPlayer writes the configured root properties and enables every playback capability.
func publishPlayer(np *nowplaying.Interface, c shared.PlayerConfig) error {
	root := []struct {
		name  nowplaying.PropertyName
		value any
	}{
		{nowplaying.PropCanQuit, c.CanQuit},
		{nowplaying.PropCanRaise, c.CanRaise},
		{nowplaying.PropDesktopEntry, c.DesktopEntry},
		{nowplaying.PropSupportedURISchemes, c.SupportedURISchemes},
		{nowplaying.PropSupportedMimeTypes, c.SupportedMimeTypes},
	}
	var errs []error
	for _, p := range root {
		errs = append(errs, np.SetProperty(p.name, p.value))
	}
	if c.Identity != "" {
		errs = append(errs, np.SetProperty(nowplaying.PropIdentity, c.Identity))
	}

	for _, name := range []nowplaying.PlaybackPropertyName{
		nowplaying.PropCanPlay, nowplaying.PropCanPause, nowplaying.PropCanGoNext,
		nowplaying.PropCanGoPrevious, nowplaying.PropCanSeek, nowplaying.PropCanControl,
	} {
		errs = append(errs, np.SetPlaybackProperty(name, true))
	}
	errs = append(errs,
		np.SetPlaybackProperty(nowplaying.PropMinimumRate, 0.5),
		np.SetPlaybackProperty(nowplaying.PropMaximumRate, 2.0),
	)
	return errors.Join(errs...)
}

// metricsRouter serves reg on /metrics next to the session status endpoints.
func (r *Runner) metricsRouter(reg *prometheus.Registry, session server.Session) *server.BasicRouter {
	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handle(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	router.Handler(server.NewStatusHandler(session))
	return router
}

// serveMetrics exposes the metrics router on addr until ctx is done.
func (r *Runner) serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, session server.Session) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           r.metricsRouter(reg, session),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("serving metrics at http://%v/metrics", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("metrics server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down metrics server", "error", err)
	}
	return nil
}
