package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/clickgame-go/internal/config"
	"github.com/mcoot/clickgame-go/internal/dependencies/clock"
	"github.com/mcoot/clickgame-go/internal/dependencies/random"
	"github.com/mcoot/clickgame-go/internal/identity/dev"
	"github.com/mcoot/clickgame-go/internal/identity/oidc"
	"github.com/mcoot/clickgame-go/internal/identity/wechat"
	"github.com/mcoot/clickgame-go/internal/services/auth"
	"github.com/mcoot/clickgame-go/internal/services/progress"
	"github.com/mcoot/clickgame-go/internal/storage"
	"github.com/mcoot/clickgame-go/internal/storage/memory"
	redisstorage "github.com/mcoot/clickgame-go/internal/storage/redis"
	sqlstore "github.com/mcoot/clickgame-go/internal/storage/sql"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageMemory
	StorageTypeRedis  = config.StorageRedis
	StorageTypeSQL    = config.StorageSQL
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	Random    random.Random
	Exchanger auth.Exchanger

	// Services
	Tokens          *auth.TokenStore
	Sweeper         *auth.Sweeper
	AuthService     *auth.Service
	ProgressService *progress.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// SweepInterval is how often expired tokens are purged (optional)
	SweepInterval time.Duration
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger

	// StorageType selects the storage backend ("memory", "redis" or "sql")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLConfig holds database settings (required if StorageType is "sql")
	SQLConfig *sqlstore.Config

	// IdentityProvider selects the exchanger ("wechat", "oidc" or "dev")
	// If empty, defaults to "dev"
	IdentityProvider string
	WeChatConfig     wechat.Config
	OIDCConfig       oidc.Config
}

// ConfigFrom maps server configuration onto the factory config
func ConfigFrom(c config.Config, logger *slog.Logger) Config {
	cfg := Config{
		AuthConfig:       auth.Config{SessionTTL: c.SessionTTL},
		SweepInterval:    c.SessionSweepInterval,
		Logger:           logger,
		StorageType:      c.StorageType,
		IdentityProvider: c.IdentityProvider,
		WeChatConfig: wechat.Config{
			AppID:   c.WeChatAppID,
			Secret:  c.WeChatSecret,
			BaseURL: c.WeChatAPIBase,
			Timeout: c.ExchangeTimeout,
		},
		OIDCConfig: oidc.Config{
			Issuer:       c.OIDCIssuer,
			ClientID:     c.OIDCClientID,
			ClientSecret: c.OIDCClientSecret,
			RedirectURL:  c.OIDCRedirectURL,
			Timeout:      c.ExchangeTimeout,
		},
	}

	switch c.StorageType {
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		redisCfg.RecordTTL = c.RedisRecordTTL
		cfg.RedisConfig = &redisCfg
	case config.StorageSQL:
		sqlCfg := sqlstore.DefaultConfig()
		sqlCfg.Driver = c.SQLDriver
		sqlCfg.DSN = c.SQLDSN
		sqlCfg.Debug = c.SQLDebug
		cfg.SQLConfig = &sqlCfg
	}

	return cfg
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	exchanger, err := newExchanger(ctx, cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, exchanger, clk, rnd, cfg.AuthConfig, cfg.SweepInterval, logger), nil
}

func newStorage(ctx context.Context, cfg Config, logger *slog.Logger) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQL:
		if cfg.SQLConfig == nil {
			return nil, errors.New("SQLConfig required when StorageType is sql")
		}
		return sqlstore.Open(ctx, *cfg.SQLConfig, logger)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sql'", storageType)
	}
}

func newExchanger(ctx context.Context, cfg Config, logger *slog.Logger) (auth.Exchanger, error) {
	switch cfg.IdentityProvider {
	case config.ProviderWeChat:
		logger.Info("using wechat identity provider", slog.Any("wechat", cfg.WeChatConfig))
		return wechat.New(cfg.WeChatConfig, logger), nil
	case config.ProviderOIDC:
		logger.Info("using oidc identity provider", slog.String("issuer", cfg.OIDCConfig.Issuer))
		return oidc.New(ctx, cfg.OIDCConfig, logger)
	case config.ProviderDev, "":
		logger.Warn("using dev identity provider, every code is accepted")
		return dev.New(), nil
	default:
		return nil, fmt.Errorf("invalid IdentityProvider %q", cfg.IdentityProvider)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	exchanger auth.Exchanger,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	sweepInterval time.Duration,
	logger *slog.Logger,
) *App {
	tokens := auth.NewTokenStore(clk, rnd)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		Exchanger:       exchanger,
		Tokens:          tokens,
		Sweeper:         auth.NewSweeper(tokens, sweepInterval, logger),
		AuthService:     auth.New(exchanger, tokens, authCfg, logger),
		ProgressService: progress.New(store, clk, logger),
	}
}

// Start begins background work (the token sweep)
func (a *App) Start() error {
	return a.Sweeper.Start()
}

// Close stops background work and releases storage
func (a *App) Close(ctx context.Context) error {
	return errors.Join(a.Sweeper.Stop(ctx), a.Storage.Close())
}
