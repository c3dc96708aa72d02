package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/obsidianstack/launchdash/server/internal/api"
	"github.com/obsidianstack/launchdash/server/internal/config"
	"github.com/obsidianstack/launchdash/server/internal/dataset"
	"github.com/obsidianstack/launchdash/server/internal/metrics"
	"github.com/obsidianstack/launchdash/server/internal/page"
	"github.com/obsidianstack/launchdash/server/internal/store"
	"github.com/obsidianstack/launchdash/server/internal/ws"
)

const shutdownTimeout = 5 * time.Second

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard page, REST API, WebSocket and metrics",
	Long: `Loads the dataset once, then serves the dashboard on server.http_port.
The ui section of the config file is re-applied whenever the file changes;
every other section needs a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "config.yaml", "path to config file")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}

	logger := newLogger(os.Stdout, cfg.Server.SlogLevel())
	slog.SetDefault(logger)
	slog.Info("launchdash starting", "config", serveConfigPath, "version", version)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ds, _, err := dataset.Load(ctx, cfg.Dataset, logger)
	if err != nil {
		slog.Error("failed to load dataset", "err", err)
		return err
	}

	st := store.New(cfg.Cache.TTL)
	m := metrics.New(ds)
	viewer := api.NewViewer(ds, st, m, cfg.UI)
	hub := ws.New(viewer, m)
	m.SetClients(hub.Count)

	pg, err := page.New(viewer)
	if err != nil {
		return fmt.Errorf("page: %w", err)
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           newRouter(pg, api.New(viewer), hub, m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	reloader := &uiReloader{current: cfg, viewer: viewer, hub: hub}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st.Run(gctx)
		return nil
	})
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return config.Watch(gctx, serveConfigPath, reloader.apply)
	})
	g.Go(func() error {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	slog.Info("launchdash shutting down")
	return err
}

// layoutBroadcaster is the part of the hub a reload needs.
type layoutBroadcaster interface {
	BroadcastLayout()
}

// uiReloader applies the ui section of a reloaded config and warns about
// changes to sections that only take effect on restart. It is only called
// from the config watcher goroutine.
type uiReloader struct {
	current *config.Config
	viewer  *api.Viewer
	hub     layoutBroadcaster
}

func (r *uiReloader) apply(next *config.Config) {
	prev := r.current
	r.current = next

	if !cmp.Equal(prev.Server, next.Server) || !cmp.Equal(prev.Dataset, next.Dataset) || !cmp.Equal(prev.Cache, next.Cache) {
		slog.Warn("config: only the ui section is applied on reload; restart to apply the rest")
	}
	if cmp.Equal(prev.UI, next.UI) {
		return
	}
	slog.Info("config: applying ui changes", "diff", cmp.Diff(prev.UI, next.UI))
	r.viewer.SetUI(next.UI)
	r.hub.BroadcastLayout()
}
