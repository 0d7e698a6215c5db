// Package wechat exchanges mini-program login codes through the WeChat
// jscode2session endpoint.
package wechat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/clickgame-go/internal/model"
	"github.com/mcoot/clickgame-go/internal/services/auth"
)

const providerName = "wechat"

// Config holds WeChat mini-program credentials
type Config struct {
	AppID   string
	Secret  string
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns the public API endpoint with a 10s timeout
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.weixin.qq.com",
		Timeout: 10 * time.Second,
	}
}

// sessionResponse is the jscode2session payload. errcode is absent or 0 on success.
type sessionResponse struct {
	OpenID     string `json:"openid"`
	SessionKey string `json:"session_key"`
	UnionID    string `json:"unionid"`
	ErrCode    int    `json:"errcode"`
	ErrMsg     string `json:"errmsg"`
}

// Client implements auth.Exchanger against WeChat
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure Client implements Exchanger
var _ auth.Exchanger = (*Client)(nil)

// New creates a WeChat client
func New(cfg Config, logger *slog.Logger) *Client {
	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Exchange calls jscode2session and returns the user's openid.
// The session_key becomes the ephemeral key.
func (c *Client) Exchange(ctx context.Context, code string) (auth.Identity, error) {
	q := url.Values{}
	q.Set("appid", c.cfg.AppID)
	q.Set("secret", c.cfg.Secret)
	q.Set("js_code", code)
	q.Set("grant_type", "authorization_code")
	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/sns/jscode2session?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("wechat: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("wechat: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return auth.Identity{}, fmt.Errorf("wechat: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return auth.Identity{}, &auth.ExchangeError{
			Provider: providerName,
			Code:     strconv.Itoa(resp.StatusCode),
			Message:  http.StatusText(resp.StatusCode),
		}
	}

	var sr sessionResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return auth.Identity{}, fmt.Errorf("wechat: decode response: %w", err)
	}

	if sr.ErrCode != 0 {
		c.logger.Warn("wechat login rejected",
			slog.Int("errcode", sr.ErrCode),
			slog.String("errmsg", sr.ErrMsg),
		)
		return auth.Identity{}, &auth.ExchangeError{
			Provider: providerName,
			Code:     strconv.Itoa(sr.ErrCode),
			Message:  sr.ErrMsg,
		}
	}
	if sr.OpenID == "" {
		return auth.Identity{}, &auth.ExchangeError{Provider: providerName, Code: "-1", Message: "openid missing"}
	}

	attrs := []any{slog.String("openid", sr.OpenID)}
	if sr.UnionID != "" {
		attrs = append(attrs, slog.String("unionid", sr.UnionID))
	}
	c.logger.Info("wechat login succeeded", attrs...)

	return auth.Identity{
		ExternalID:   model.ExternalID(sr.OpenID),
		EphemeralKey: sr.SessionKey,
	}, nil
}

// LogValue masks the secret so the config can be logged
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("appid", c.AppID),
		slog.String("secret", MaskSecret(c.Secret)),
		slog.String("base_url", c.BaseURL),
	)
}

// MaskSecret keeps the first and last four characters of a secret.
// Secrets of eight characters or fewer are hidden entirely.
func MaskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}
