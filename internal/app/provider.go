package app

import (
	"database/sql"
	"fmt"

	"github.com/ferdiebergado/chatrelay/internal/config"
	"github.com/ferdiebergado/chatrelay/internal/platform/db"
	"github.com/ferdiebergado/chatrelay/internal/platform/jwt"
	"github.com/ferdiebergado/chatrelay/internal/platform/router"
	"github.com/ferdiebergado/chatrelay/internal/platform/validation"
	"github.com/ferdiebergado/chatrelay/internal/webhook"
)

type Provider struct {
	DB        *sql.DB
	Issuer    jwt.Issuer
	Poster    webhook.Poster
	Validator validation.Validator
	Router    router.Router
	TxMgr     db.TxManager
}

func newProvider(cfg *config.Config, dbConn *sql.DB) (*Provider, error) {
	issuer, err := jwt.NewHS256Issuer([]byte(cfg.App.Secret), jwt.WithMaxClaimsBytes(cfg.Token.MaxClaimsBytes))
	if err != nil {
		return nil, fmt.Errorf("new token issuer: %w", err)
	}

	hooks := cfg.Webhook
	poster := webhook.NewClient(
		webhook.WithTimeout(hooks.Timeout.Duration),
		webhook.WithMaxRetries(hooks.MaxRetries),
		webhook.WithBackoff(webhook.ExponentialBackoff(hooks.BackoffBase.Duration)),
		webhook.WithMaxResponseBytes(hooks.MaxResponseBytes),
	)

	provider := &Provider{
		DB:        dbConn,
		Issuer:    issuer,
		Poster:    poster,
		Validator: validation.NewGoPlaygroundValidator(),
		Router:    router.NewGoexpressRouter(),
		TxMgr:     db.NewSQLTxManager(dbConn),
	}

	return provider, nil
}
