// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

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

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"biolink/internal/analytics"
	"biolink/internal/cache"
	"biolink/internal/dashboard"
	"biolink/internal/database"
	"biolink/internal/handlers"
	"biolink/internal/metrics"
	"biolink/internal/profile"
	"biolink/internal/render"
	"biolink/internal/router"
	"biolink/internal/session"
	"biolink/internal/storage"
	"biolink/internal/store"
	"biolink/internal/visit"
)

const (
	// memorySessionBytes sizes the in-process session cache used when
	// Valkey is not configured or unreachable.
	memorySessionBytes = 8 << 20

	// latchBytes sizes the page-load token cache.
	latchBytes = 4 << 20

	shutdownTimeout = 30 * time.Second
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

// serve wires every component and blocks until ctx is cancelled.
func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr(), "driver", cfg.DBDriver)

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}
	gw := store.NewGateway(db)

	var (
		sessionBackend session.Backend
		profileCache   profile.Cache
	)
	if cfg.ValkeyEnabled() {
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			slog.Warn("valkey unavailable, keeping sessions in process", "error", err)
		} else {
			defer client.Close()
			sessionBackend = session.NewValkeyBackend(client)
			profileCache = cache.NewProfileCache(client, cache.DefaultProfileTTL)
		}
	}
	if sessionBackend == nil {
		sessionBackend = session.NewMemoryBackend(memorySessionBytes)
	}
	secure := cfg.IsProduction()
	sessions := session.NewStore(sessionBackend, secure)

	var avatars profile.AvatarStore
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	if storageClient != nil {
		avatars = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, avatar uploads disabled")
	}

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	var (
		rec     metrics.Recorder = metrics.Noop{}
		opts                     = router.Options{Secure: secure}
	)
	if cfg.MetricsEnabled {
		prom := metrics.New()
		rec = prom
		opts.Metrics = prom.Handler()
	}

	loader := profile.NewLoader(gw.Config, gw.Links, profileCache)
	editor := profile.NewEditor(gw.Config, gw.Links, loader, avatars)
	recorder := visit.NewRecorder(gw.Analytics,
		visit.NewCacheLatch(latchBytes, int(cfg.VisitCooldown/time.Second)),
		visit.WithCooldown(cfg.VisitCooldown),
		visit.WithMetrics(rec),
	)

	dashboards := dashboard.NewManager(
		dashboard.GatewayFetcher{Counters: gw.Analytics, Links: gw.Links, Guestbook: gw.Comments},
		analytics.GatewayTotals{Analytics: gw.Analytics, Comments: gw.Comments, Reactions: gw.Reactions, Links: gw.Links},
		cfg.PollInterval,
	)
	defer dashboards.CloseAll()
	resetter := analytics.NewResetter(gw.Analytics, gw.Reactions, gw.Links, loader)

	public := handlers.NewPublic(renderer, loader, recorder, gw, rec, cfg.PublicURL, secure)
	admin := handlers.NewAdmin(renderer, sessions, dashboards, loader, editor, resetter, gw, cfg.ReportEmail, secure)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.New(sessions, public, admin, rec, opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		dashboards.Run(gctx, dashboard.DefaultIdleTimeout)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped gracefully")
	return nil
}
