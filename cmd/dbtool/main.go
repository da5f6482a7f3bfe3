package main

import (
	"context"
	"log/slog"
	"os"
	"places-autocomplete/internal/adapters/repositories"
	"places-autocomplete/internal/config"
	"places-autocomplete/internal/platform/db"
	"places-autocomplete/internal/platform/logger"
	"strings"

	"github.com/joho/godotenv"
)

// dbtool initializes the selection history schema.
func main() {
	_ = godotenv.Load()
	log := logger.New(config.Get("APP_ENV", "development"))

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, databaseURL, db.Pool{MaxOpenConns: 1})
	if err != nil {
		log.Error("open database failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer conn.Close()

	log.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Error("schema initialization failed", slog.String("error", err.Error()))
		conn.Close()
		os.Exit(1)
	}
	log.Info("schema ready")
}
