package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"places-autocomplete/internal/adapters/geocoding"
	"places-autocomplete/internal/adapters/repositories"
	"places-autocomplete/internal/adapters/store"
	"places-autocomplete/internal/api"
	"places-autocomplete/internal/config"
	"places-autocomplete/internal/domain"
	"places-autocomplete/internal/platform/db"
	"places-autocomplete/internal/platform/logger"
	"places-autocomplete/internal/ports"
	"places-autocomplete/internal/services"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (Mapbox, Redis, Postgres) behind ports and starts
// the preview server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	geocoder, err := geocoding.NewMapboxGeocoder(geocoding.MapboxConfig{
		AccessToken: cfg.MapboxAccessToken,
		BaseURL:     cfg.MapboxBaseURL,
		Timeout:     cfg.MapboxTimeout,
		Logger:      log,
	})
	if err != nil {
		return err
	}

	coords, closeCoords, err := openCoordinateStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCoords()

	// Selection history is optional for local previews.
	var selections ports.SelectionRepository
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL, db.Pool{})
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := repositories.InitSchema(ctx, conn); err != nil {
			return err
		}
		selections = repositories.NewSQLSelectionRepository(conn, log)
	} else {
		log.Warn("DATABASE_URL not configured; selection history disabled")
	}

	render, err := services.TemplateRenderer(cfg.SuggestionFormat)
	if err != nil {
		return err
	}

	sessions, err := services.NewSessionService(services.SessionServiceConfig{
		Geocoder:    geocoder,
		Coordinates: coords,
		Selections:  selections,
		Defaults:    defaultQuery(cfg),
		Render:      render,
		IdleTTL:     cfg.SessionIdleTTL,
		Logger:      log,
	})
	if err != nil {
		return err
	}

	router := api.NewRouter(api.RouterConfig{
		StaticDir:       cfg.StaticDir,
		CORSOrigins:     cfg.CORSOrigins,
		FetchRatePerSec: cfg.FetchRatePerSec,
		FetchBurst:      cfg.FetchBurst,
	}, sessions, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", slog.String("url", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sessions.RunJanitor(gctx, time.Minute)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openCoordinateStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (ports.CoordinateStore, func(), error) {
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not configured; coordinates kept in memory")
		return store.NewMemoryCoordinateStore(cfg.CoordinatesTTL), func() {}, nil
	}

	client, err := store.OpenRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return store.NewRedisCoordinateStore(client, cfg.CoordinatesTTL), func() { _ = client.Close() }, nil
}

func defaultQuery(cfg *config.Config) domain.QueryOptions {
	q := domain.QueryOptions{
		Countries: cfg.Countries,
		Types:     cfg.Types,
	}
	if len(cfg.Proximity) == 2 {
		q.Proximity = &domain.Coordinates{Lon: cfg.Proximity[0], Lat: cfg.Proximity[1]}
	}
	return q
}
