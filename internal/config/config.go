package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	timex "github.com/ferdiebergado/chatrelay/internal/pkg/time"
)

const (
	EnvSecret              = "TOKEN_SECRET"
	EnvPort                = "PORT"
	EnvURL                 = "URL"
	EnvConversationWebhook = "CONVERSATION_WEBHOOK_URL"
	EnvMessageWebhook      = "MESSAGE_WEBHOOK_URL"
	EnvPlanID              = "PLAN_ID"
	EnvAllowedOrigin       = "ALLOWED_ORIGIN"

	maskChar = "*"
)

var (
	ErrMissingSecret = errors.New("config: signing secret is not set")
	ErrInvalid       = errors.New("config: invalid configuration")
)

type App struct {
	Env      string `json:"env,omitempty"`
	LogLevel string `json:"log_level,omitempty"`

	// Secret signs outbound relay tokens. Populated from the environment only.
	Secret string `json:"-"`
}

type Server struct {
	URL             string         `json:"url,omitempty"`
	Port            int            `json:"port,omitempty"`
	ReadTimeout     timex.Duration `json:"read_timeout,omitempty"`
	WriteTimeout    timex.Duration `json:"write_timeout,omitempty"`
	IdleTimeout     timex.Duration `json:"idle_timeout,omitempty"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout,omitempty"`
	MaxBodyBytes    int64          `json:"max_body_bytes,omitempty"`
	AllowedOrigin   string         `json:"allowed_origin,omitempty"`
}

type DB struct {
	Driver          string         `json:"driver,omitempty"`
	MaxOpenConns    int            `json:"max_open_conns,omitempty"`
	MaxIdleConns    int            `json:"max_idle_conns,omitempty"`
	ConnMaxIdleTime timex.Duration `json:"conn_max_idle_time,omitempty"`
	ConnMaxLifetime timex.Duration `json:"conn_max_lifetime,omitempty"`
	PingTimeout     timex.Duration `json:"ping_timeout,omitempty"`
}

type Token struct {
	MaxClaimsBytes int `json:"max_claims_bytes,omitempty"`
}

type Webhook struct {
	ConversationURL  string         `json:"conversation_url,omitempty"`
	MessageURL       string         `json:"message_url,omitempty"`
	Timeout          timex.Duration `json:"timeout,omitempty"`
	MaxRetries       int            `json:"max_retries,omitempty"`
	BackoffBase      timex.Duration `json:"backoff_base,omitempty"`
	MaxResponseBytes int64          `json:"max_response_bytes,omitempty"`
}

type Relay struct {
	PlanID string `json:"plan_id,omitempty"`
}

type Config struct {
	App     *App     `json:"app,omitempty"`
	Server  *Server  `json:"server,omitempty"`
	DB      *DB      `json:"db,omitempty"`
	Token   *Token   `json:"token,omitempty"`
	Webhook *Webhook `json:"webhook,omitempty"`
	Relay   *Relay   `json:"relay,omitempty"`
}

func (a *App) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("env", a.Env),
		slog.String("log_level", a.LogLevel),
		slog.String("secret", maskChar),
	)
}

func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("app", c.App),
		slog.Any("server", c.Server),
		slog.Any("db", c.DB),
		slog.Any("token", c.Token),
		slog.Any("webhook", c.Webhook),
		slog.Any("relay", c.Relay),
	)
}

// Load reads cfgFile, applies environment overrides and validates the result.
// A missing or empty TOKEN_SECRET is reported as ErrMissingSecret.
func Load(cfgFile string) (*Config, error) {
	slog.Info("Loading config...")
	cfg, err := parseFile(cfgFile)
	if err != nil {
		return nil, err
	}

	if err := overrideWithEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Info("Config loaded.", "config_file", cfgFile, slog.Any("config", cfg))
	return cfg, nil
}

func parseFile(cfgFile string) (*Config, error) {
	cfgFile = filepath.Clean(cfgFile)
	b, err := os.ReadFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
	}

	cfg := defaults()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("decode json config %s: %w", cfgFile, err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App:     &App{Env: "development", LogLevel: "info"},
		Server:  &Server{Port: 8888, MaxBodyBytes: 1 << 20},
		DB:      &DB{Driver: "pgx"},
		Token:   &Token{},
		Webhook: &Webhook{MaxRetries: 2, MaxResponseBytes: 1 << 20},
		Relay:   &Relay{PlanID: "plan-id"},
	}
}

func overrideWithEnv(cfg *Config) error {
	if cfg.App == nil {
		cfg.App = &App{}
	}
	if cfg.Server == nil {
		cfg.Server = &Server{}
	}
	if cfg.Token == nil {
		cfg.Token = &Token{}
	}
	if cfg.Webhook == nil {
		cfg.Webhook = &Webhook{}
	}
	if cfg.Relay == nil {
		cfg.Relay = &Relay{}
	}

	cfg.App.Secret = os.Getenv(EnvSecret)

	if appEnv, ok := os.LookupEnv("ENV"); ok {
		cfg.App.Env = appEnv
	}

	if level, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.App.LogLevel = level
	}

	if u, ok := os.LookupEnv(EnvURL); ok {
		cfg.Server.URL = u
	}

	if portStr, ok := os.LookupEnv(EnvPort); ok {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("parse %s %q: %w", EnvPort, portStr, err)
		}
		cfg.Server.Port = port
	}

	if origin, ok := os.LookupEnv(EnvAllowedOrigin); ok {
		cfg.Server.AllowedOrigin = origin
	}

	if u, ok := os.LookupEnv(EnvConversationWebhook); ok {
		cfg.Webhook.ConversationURL = u
	}

	if u, ok := os.LookupEnv(EnvMessageWebhook); ok {
		cfg.Webhook.MessageURL = u
	}

	if planID, ok := os.LookupEnv(EnvPlanID); ok {
		cfg.Relay.PlanID = planID
	}

	return nil
}

// Validate reports the first problem that would prevent the service from starting.
func (c *Config) Validate() error {
	if c.App == nil || strings.TrimSpace(c.App.Secret) == "" {
		return fmt.Errorf("%w: environment variable %s", ErrMissingSecret, EnvSecret)
	}

	if c.Server == nil || c.Server.Port <= 0 {
		return fmt.Errorf("%w: server port must be positive", ErrInvalid)
	}

	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: server max_body_bytes must be positive", ErrInvalid)
	}

	if c.DB == nil || c.DB.Driver == "" {
		return fmt.Errorf("%w: db driver is required", ErrInvalid)
	}

	if c.Webhook == nil {
		return fmt.Errorf("%w: webhook section is required", ErrInvalid)
	}

	if err := checkURL("webhook conversation_url", c.Webhook.ConversationURL); err != nil {
		return err
	}

	if err := checkURL("webhook message_url", c.Webhook.MessageURL); err != nil {
		return err
	}

	if c.Webhook.MaxRetries < 0 {
		return fmt.Errorf("%w: webhook max_retries cannot be negative", ErrInvalid)
	}

	if c.Token != nil && c.Token.MaxClaimsBytes < 0 {
		return fmt.Errorf("%w: token max_claims_bytes cannot be negative", ErrInvalid)
	}

	if c.Relay == nil || c.Relay.PlanID == "" {
		return fmt.Errorf("%w: relay plan_id is required", ErrInvalid)
	}

	return nil
}

func checkURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalid, field)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalid, field, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute http(s) url", ErrInvalid, field)
	}

	return nil
}
