package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/api"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/cache"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/config"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/events"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/intake"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/kitchen"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/metrics"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/shelf"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// The level var lets config reloads change verbosity without restarting.
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("takeaway-monitor starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if lvl, err := config.ParseLevel(cfg.LogLevel); err == nil {
		level.Set(lvl)
	}

	slog.Info("config loaded",
		"http_port", cfg.HTTPPort,
		"auth_mode", cfg.Auth.Mode,
		"intake_buffer", cfg.Intake.Buffer,
		"courier_min_delay", cfg.Courier.MinDelay,
		"courier_max_delay", cfg.Courier.MaxDelay,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Shared lock registry, shelf store, location index and overflow tracker.
	locks := cache.NewLocks()
	store := shelf.NewStore(locks, cfg.Shelves.Capacities())
	locator := shelf.NewLocator(locks)
	tracker := shelf.NewTracker()

	queue := intake.NewQueue(cfg.Intake.Buffer)
	bus := events.NewBus()
	courier := kitchen.NewCourier(cfg.Courier.MinDelay, cfg.Courier.MaxDelay)

	// Kitchen engine — consumes the intake queue, places orders on shelves and
	// reacts to expirations. Blocks until ctx is cancelled.
	engine := kitchen.New(store, locator, tracker, queue, bus, courier)
	go engine.Run(ctx)

	// WebSocket hub — streams shelf-change snapshots to UI clients.
	hub := ws.New(store, bus)
	go hub.Run(ctx)

	// Watch the config file and apply the hot-reloadable fields in place.
	go func() {
		err := config.Watch(ctx, *configPath, func(next *config.Config) {
			if lvl, err := config.ParseLevel(next.LogLevel); err == nil {
				level.Set(lvl)
			}
			courier.SetDelayBounds(next.Courier.MinDelay, next.Courier.MaxDelay)
			if next.HTTPPort != cfg.HTTPPort || next.Shelves != cfg.Shelves ||
				next.Intake != cfg.Intake || next.Auth != cfg.Auth {
				slog.Warn("config changes to http_port, shelves, intake or auth require a restart")
			}
			slog.Info("config reloaded",
				"log_level", next.LogLevel,
				"courier_min_delay", next.Courier.MinDelay,
				"courier_max_delay", next.Courier.MaxDelay,
			)
		})
		if err != nil && ctx.Err() == nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	// Combined HTTP server: REST API + WebSocket hub + metrics on HTTPPort.
	guard := func(next http.Handler) http.Handler {
		return api.RequireAPIKey(cfg.Auth.Mode, cfg.Auth.EffectiveHeader(), cfg.Auth.Key(), next)
	}
	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", guard(api.New(engine, store)))
	httpMux.Handle("/ws/shelves", hub)
	httpMux.Handle("/metrics", metrics.Handler())

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("takeaway-monitor shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
