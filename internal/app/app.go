package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ferdiebergado/chatrelay/internal/chat"
	"github.com/ferdiebergado/chatrelay/internal/config"
	"github.com/ferdiebergado/chatrelay/internal/pkg/web"
	"github.com/ferdiebergado/chatrelay/internal/platform/db"
	"github.com/ferdiebergado/chatrelay/internal/platform/jwt"
	"github.com/ferdiebergado/chatrelay/internal/platform/router"
	"github.com/ferdiebergado/chatrelay/internal/platform/validation"
	"github.com/ferdiebergado/chatrelay/internal/webhook"
)

const healthPingTimeout = 2 * time.Second

var errDatabaseDown = errors.New("database ping failed")

type App struct {
	server          *http.Server
	config          *config.Config
	middlewares     []func(http.Handler) http.Handler
	stop            context.CancelFunc
	shutdownTimeout time.Duration
	db              *sql.DB
	issuer          jwt.Issuer
	poster          webhook.Poster
	validator       validation.Validator
	router          router.Router
	txManager       db.TxManager
}

// New wires middlewares and routes onto provider.Router. The server does not
// listen until Start is called.
func New(cfg *config.Config, provider *Provider, middlewares []func(http.Handler) http.Handler) *App {
	serverCtx, stop := context.WithCancel(context.Background())
	serverCfg := cfg.Server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", serverCfg.Port),
		Handler: provider.Router,
		BaseContext: func(_ net.Listener) context.Context {
			return serverCtx
		},
		ReadTimeout:  serverCfg.ReadTimeout.Duration,
		WriteTimeout: serverCfg.WriteTimeout.Duration,
		IdleTimeout:  serverCfg.IdleTimeout.Duration,
	}

	a := &App{
		config:          cfg,
		db:              provider.DB,
		txManager:       provider.TxMgr,
		issuer:          provider.Issuer,
		poster:          provider.Poster,
		validator:       provider.Validator,
		router:          provider.Router,
		server:          server,
		middlewares:     middlewares,
		stop:            stop,
		shutdownTimeout: serverCfg.ShutdownTimeout.Duration,
	}

	a.registerMiddlewares()
	a.setupRoutes()

	return a
}

// Handler returns the fully wired router.
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) registerMiddlewares() {
	for _, mw := range a.middlewares {
		a.router.Use(mw)
	}
}

func (a *App) setupRoutes() {
	a.router.Get("/health", a.health)

	chatRepo := chat.NewRepository(a.db)
	chatProviders := &chat.Providers{
		Issuer: a.issuer,
		Poster: a.poster,
		TxMgr:  a.txManager,
	}
	chatService := chat.NewService(chatRepo, chatProviders, a.config)
	chatHandler := chat.NewHandler(chatService)
	mountChatRoutes(a.router, chatHandler, a.validator, a.config.Server.MaxBodyBytes)
}

type healthResponse struct {
	Status string `json:"status"`
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	if a.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		if err := a.db.PingContext(ctx); err != nil {
			web.Fail(w, http.StatusServiceUnavailable, fmt.Errorf("%w: %w", errDatabaseDown, err), "Service unavailable.", nil)
			return
		}
	}

	web.OK(w, http.StatusOK, nil, &healthResponse{Status: "ok"})
}

func (a *App) Start(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening...", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		slog.Info("Server has stopped.")
		serverErr <- nil
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received.")
		return nil
	case err := <-serverErr:
		return err
	}
}

// Shutdown cancels in-flight request contexts and waits up to the configured
// shutdown timeout for handlers to return.
func (a *App) Shutdown() error {
	slog.Info("Shutting down server...")
	a.stop()

	timeout := a.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
