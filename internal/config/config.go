// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQL    = "sql"
)

// Identity providers
const (
	ProviderWeChat = "wechat"
	ProviderOIDC   = "oidc"
	ProviderDev    = "dev"
)

// Config holds all server settings
type Config struct {
	HTTPPort int
	LogLevel slog.Level

	StorageType    string
	RedisURL       string
	RedisRecordTTL time.Duration
	SQLDriver      string
	SQLDSN         string
	SQLDebug       bool

	IdentityProvider string
	WeChatAppID      string
	WeChatSecret     string
	WeChatAPIBase    string
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
	ExchangeTimeout  time.Duration

	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	ResourcesPath string
}

// Default returns the settings used when no environment is set
func Default() Config {
	return Config{
		HTTPPort:             8080,
		LogLevel:             slog.LevelInfo,
		StorageType:          StorageMemory,
		SQLDriver:            "sqlite3",
		SQLDSN:               "file:clickgame.db?cache=shared",
		IdentityProvider:     ProviderWeChat,
		WeChatAPIBase:        "https://api.weixin.qq.com",
		ExchangeTimeout:      10 * time.Second,
		SessionTTL:           2 * time.Hour,
		SessionSweepInterval: time.Hour,
		ResourcesPath:        "./resources/",
	}
}

// Load reads the environment on top of Default and validates the result
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()
	var errs []error

	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}
	duration := func(key string, def time.Duration) time.Duration {
		v := getenv(key)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		return d
	}

	if v := getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("HTTP_PORT: %w", err))
		} else {
			cfg.HTTPPort = port
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
		}
	}

	cfg.StorageType = strings.ToLower(env("STORAGE_TYPE", cfg.StorageType))
	cfg.RedisURL = getenv("REDIS_URL")
	cfg.RedisRecordTTL = duration("REDIS_RECORD_TTL", cfg.RedisRecordTTL)
	cfg.SQLDriver = env("SQL_DRIVER", cfg.SQLDriver)
	cfg.SQLDSN = env("SQL_DSN", cfg.SQLDSN)
	if v := getenv("SQL_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SQL_DEBUG: %w", err))
		}
		cfg.SQLDebug = b
	}

	cfg.IdentityProvider = strings.ToLower(env("IDENTITY_PROVIDER", cfg.IdentityProvider))
	cfg.WeChatAppID = getenv("WECHAT_APPID")
	cfg.WeChatSecret = getenv("WECHAT_SECRET")
	cfg.WeChatAPIBase = env("WECHAT_API_BASE", cfg.WeChatAPIBase)
	cfg.OIDCIssuer = getenv("OIDC_ISSUER")
	cfg.OIDCClientID = getenv("OIDC_CLIENT_ID")
	cfg.OIDCClientSecret = getenv("OIDC_CLIENT_SECRET")
	cfg.OIDCRedirectURL = getenv("OIDC_REDIRECT_URL")
	cfg.ExchangeTimeout = duration("EXCHANGE_TIMEOUT", cfg.ExchangeTimeout)

	cfg.SessionTTL = duration("SESSION_TTL", cfg.SessionTTL)
	cfg.SessionSweepInterval = duration("SESSION_SWEEP_INTERVAL", cfg.SessionSweepInterval)
	cfg.ResourcesPath = env("RESOURCES_PATH", cfg.ResourcesPath)

	if len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}
	return cfg, cfg.Validate()
}

// Validate rejects inconsistent settings
func (c Config) Validate() error {
	var errs []error

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT %d out of range", c.HTTPPort))
	}

	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL required when STORAGE_TYPE=redis"))
		}
	case StorageSQL:
		if c.SQLDSN == "" {
			errs = append(errs, errors.New("SQL_DSN required when STORAGE_TYPE=sql"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType))
	}

	switch c.IdentityProvider {
	case ProviderWeChat:
		if c.WeChatAppID == "" || c.WeChatSecret == "" {
			errs = append(errs, errors.New("WECHAT_APPID and WECHAT_SECRET required when IDENTITY_PROVIDER=wechat"))
		}
	case ProviderOIDC:
		if c.OIDCIssuer == "" || c.OIDCClientID == "" {
			errs = append(errs, errors.New("OIDC_ISSUER and OIDC_CLIENT_ID required when IDENTITY_PROVIDER=oidc"))
		}
	case ProviderDev:
	default:
		errs = append(errs, fmt.Errorf("unknown IDENTITY_PROVIDER %q", c.IdentityProvider))
	}

	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.SessionSweepInterval <= 0 {
		errs = append(errs, errors.New("SESSION_SWEEP_INTERVAL must be positive"))
	}
	if c.ExchangeTimeout <= 0 {
		errs = append(errs, errors.New("EXCHANGE_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}
