package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaultsWithDevProvider(t *testing.T) {
	cfg, err := load(envMap(map[string]string{"IDENTITY_PROVIDER": "dev"}))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, StorageMemory, cfg.StorageType)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Hour, cfg.SessionSweepInterval)
	assert.Equal(t, 10*time.Second, cfg.ExchangeTimeout)
	assert.Equal(t, "./resources/", cfg.ResourcesPath)
}

func TestLoadReadsEnvironment(t *testing.T) {
	cfg, err := load(envMap(map[string]string{
		"HTTP_PORT":              "9090",
		"LOG_LEVEL":              "debug",
		"STORAGE_TYPE":           "Redis",
		"REDIS_URL":              "redis://localhost:6379/0",
		"REDIS_RECORD_TTL":       "720h",
		"IDENTITY_PROVIDER":      "wechat",
		"WECHAT_APPID":           "wx123",
		"WECHAT_SECRET":          "secret-value",
		"SESSION_TTL":            "30m",
		"SESSION_SWEEP_INTERVAL": "5m",
		"SQL_DEBUG":              "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, StorageRedis, cfg.StorageType)
	assert.Equal(t, 720*time.Hour, cfg.RedisRecordTTL)
	assert.Equal(t, "wx123", cfg.WeChatAppID)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.SessionSweepInterval)
	assert.True(t, cfg.SQLDebug)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	_, err := load(envMap(map[string]string{
		"IDENTITY_PROVIDER": "dev",
		"HTTP_PORT":         "eighty",
		"SESSION_TTL":       "soon",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_PORT")
	assert.Contains(t, err.Error(), "SESSION_TTL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"wechat without credentials", func(c *Config) {}, "WECHAT_APPID"},
		{"redis without url", func(c *Config) { c.IdentityProvider = ProviderDev; c.StorageType = StorageRedis }, "REDIS_URL"},
		{"unknown storage", func(c *Config) { c.IdentityProvider = ProviderDev; c.StorageType = "disk" }, "STORAGE_TYPE"},
		{"oidc without issuer", func(c *Config) { c.IdentityProvider = ProviderOIDC }, "OIDC_ISSUER"},
		{"unknown provider", func(c *Config) { c.IdentityProvider = "github" }, "IDENTITY_PROVIDER"},
		{"zero ttl", func(c *Config) { c.IdentityProvider = ProviderDev; c.SessionTTL = 0 }, "SESSION_TTL"},
		{"bad port", func(c *Config) { c.IdentityProvider = ProviderDev; c.HTTPPort = 70000 }, "HTTP_PORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAcceptsCompleteWeChatConfig(t *testing.T) {
	cfg := Default()
	cfg.WeChatAppID = "wx"
	cfg.WeChatSecret = "secret"
	assert.NoError(t, cfg.Validate())
}
