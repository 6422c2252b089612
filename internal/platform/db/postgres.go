package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"

	"github.com/ferdiebergado/chatrelay/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	EnvHost    = "DB_HOST"
	EnvPort    = "DB_PORT"
	EnvUser    = "DB_USER"
	EnvPass    = "DB_PASS"
	EnvName    = "DB_NAME"
	EnvSSLMode = "DB_SSLMODE"
)

// NewPostgresDB opens a pool using the DB_* environment variables and pings it
// within cfg.PingTimeout.
func NewPostgresDB(ctx context.Context, cfg *config.DB) (*sql.DB, error) {
	slog.Info("Connecting to the database...")

	dbName := os.Getenv(EnvName)
	conn, err := sql.Open(cfg.Driver, dsnFromEnv())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime.Duration)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime.Duration)

	pingCtx := ctx
	if cfg.PingTimeout.Duration > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.PingTimeout.Duration)
		defer cancel()
	}

	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database %s: %w", dbName, err)
	}

	slog.Info("Connected to the database.", "host", os.Getenv(EnvHost), "db", dbName)
	return conn, nil
}

func dsnFromEnv() string {
	sslMode := os.Getenv(EnvSSLMode)
	if sslMode == "" {
		sslMode = "disable"
	}

	port := os.Getenv(EnvPort)
	if port == "" {
		port = "5432"
	}

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(os.Getenv(EnvUser), os.Getenv(EnvPass)),
		Host:     net.JoinHostPort(os.Getenv(EnvHost), port),
		Path:     "/" + os.Getenv(EnvName),
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}
