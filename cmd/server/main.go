package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/oklog/run"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Meetcast/internal/adapters/http"
	"github.com/dkeye/Meetcast/internal/adapters/store"
	"github.com/dkeye/Meetcast/internal/app"
	"github.com/dkeye/Meetcast/internal/app/orch"
	"github.com/dkeye/Meetcast/internal/config"
)

func main() {
	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Debug().Str("file", envFile).Msg("no env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg.Log)

	if err := serve(cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("Server exited gracefully")
}

func setupLogger(cfg config.LogConfig) {
	if !cfg.Pretty {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func meetingStore(cfg *config.Config) (app.MeetingStore, error) {
	sc := store.Config{
		Driver:      cfg.Store.Driver,
		DSN:         cfg.Store.DSN,
		AutoMigrate: cfg.Store.AutoMigrate,
	}
	for _, m := range cfg.Store.Meetings {
		sc.Meetings = append(sc.Meetings, store.Seed{Code: m.Code, HostToken: m.HostToken})
	}
	base, err := store.New(sc)
	if err != nil {
		return nil, err
	}
	if !cfg.Redis.Enabled {
		return base, nil
	}
	cache, err := store.NewRedisTokenCache(store.RedisConfig{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, "meetcast")
	if err != nil {
		return nil, err
	}
	return store.NewCachedMeetingStore(base, cache, cfg.Redis.TTL), nil
}

func serve(cfg *config.Config) error {
	ms, err := meetingStore(cfg)
	if err != nil {
		return fmt.Errorf("meeting store: %w", err)
	}
	policy, err := app.PolicyFromString(cfg.BackpressurePolicy)
	if err != nil {
		return err
	}
	attempts := app.NewAttemptLimiter(cfg.Auth.AttemptLimit, cfg.Auth.AttemptWindow)

	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(),
		Auth:     app.NewHostAuthenticator(ms, attempts),
		Policy:   policy,
	}
	monitor := &app.LivenessMonitor{
		Registry:  o.Registry,
		Interval:  cfg.HeartbeatInterval,
		Terminate: o.Terminate,
		OnSweep:   attempts.Prune,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router.SetupRouter(ctx, cfg, o),
	}

	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)

	var g run.Group
	g.Add(func() error {
		select {
		case sig := <-osSignal:
			log.Info().Str("signal", sig.String()).Msg("received signal")
		case <-ctx.Done():
		}
		return nil
	}, func(error) {
		signal.Stop(osSignal)
		cancel()
	})

	g.Add(func() error {
		log.Info().Str("addr", addr).Msg("Meetcast server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(error) {
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		// hijacked websocket connections are not tracked by Shutdown
		o.CloseAll()
	})

	monitorCtx, monitorCancel := context.WithCancel(ctx)
	g.Add(func() error {
		return monitor.Run(monitorCtx)
	}, func(error) {
		monitorCancel()
	})

	return g.Run()
}
