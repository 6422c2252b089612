package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/ferdiebergado/chatrelay/internal/config"
	"github.com/ferdiebergado/chatrelay/internal/middleware"
	"github.com/ferdiebergado/chatrelay/internal/pkg/logging"
	"github.com/ferdiebergado/chatrelay/internal/platform/db"
	"github.com/ferdiebergado/goexpress"
	"github.com/ferdiebergado/gopherkit/env"
)

const (
	envFile    = ".env"
	configFile = "config.json"
)

// Run loads configuration, connects to the database and serves until ctx is
// canceled. A missing signing secret stops startup with config.ErrMissingSecret.
func Run(ctx context.Context) error {
	slog.Info("Initializing...")

	if os.Getenv("ENV") != "production" {
		if err := env.Load(envFile); err != nil {
			return fmt.Errorf("load env: %w", err)
		}
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Setup(cfg.App.Env, cfg.App.LogLevel, os.Stdout)

	dbConn, err := db.NewPostgresDB(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	provider, err := newProvider(cfg, dbConn)
	if err != nil {
		return err
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.InjectWriter,
		goexpress.RecoverFromPanic,
		middleware.LogRequest,
		middleware.CORS(cfg.Server.AllowedOrigin),
		middleware.ContextGuard,
		middleware.CheckContentType,
	}

	api := New(cfg, provider, middlewares)
	if err := api.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	return api.Shutdown()
}
