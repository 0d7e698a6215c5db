// Package oidc exchanges OAuth2 authorization codes with an OpenID Connect
// provider and uses the verified ID token subject as the player identity.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/mcoot/clickgame-go/internal/model"
	"github.com/mcoot/clickgame-go/internal/services/auth"
)

const providerName = "oidc"

// Config holds the relying-party registration
type Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Timeout      time.Duration
}

// Exchanger implements auth.Exchanger for an OIDC provider
type Exchanger struct {
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
	httpClient   *http.Client
	logger       *slog.Logger
}

// Ensure Exchanger implements auth.Exchanger
var _ auth.Exchanger = (*Exchanger)(nil)

// New discovers the provider and builds an Exchanger
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Exchanger, error) {
	return newExchanger(ctx, cfg, &oidc.Config{ClientID: cfg.ClientID}, logger)
}

func newExchanger(ctx context.Context, cfg Config, verifierConfig *oidc.Config, logger *slog.Logger) (*Exchanger, error) {
	if cfg.Issuer == "" {
		return nil, errors.New("oidc: issuer is required")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("oidc: client id is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}

	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, httpClient), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	return &Exchanger{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "profile"},
		},
		verifier:   provider.Verifier(verifierConfig),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Exchange redeems code at the token endpoint and verifies the returned ID token.
// The access token becomes the ephemeral key.
func (e *Exchanger) Exchange(ctx context.Context, code string) (auth.Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)

	token, err := e.oauth2Config.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return auth.Identity{}, rejection(retrieveErr)
		}
		return auth.Identity{}, fmt.Errorf("oidc: token exchange: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return auth.Identity{}, &auth.ExchangeError{Provider: providerName, Code: "missing_id_token", Message: "no id_token in token response"}
	}

	idToken, err := e.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return auth.Identity{}, &auth.ExchangeError{Provider: providerName, Code: "invalid_id_token", Message: err.Error()}
	}

	var claims struct {
		Sub string `json:"sub"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return auth.Identity{}, fmt.Errorf("oidc: decode claims: %w", err)
	}
	if claims.Sub == "" {
		return auth.Identity{}, &auth.ExchangeError{Provider: providerName, Code: "missing_sub", Message: "id_token has no subject"}
	}

	e.logger.Info("oidc login succeeded",
		slog.String("sub", claims.Sub),
		slog.String("issuer", idToken.Issuer),
	)

	return auth.Identity{
		ExternalID:   model.ExternalID(claims.Sub),
		EphemeralKey: token.AccessToken,
	}, nil
}

func rejection(err *oauth2.RetrieveError) *auth.ExchangeError {
	code := err.ErrorCode
	if code == "" && err.Response != nil {
		code = strconv.Itoa(err.Response.StatusCode)
	}
	msg := err.ErrorDescription
	if msg == "" {
		msg = err.ErrorCode
	}
	if msg == "" {
		msg = "token endpoint rejected code"
	}
	return &auth.ExchangeError{Provider: providerName, Code: code, Message: msg}
}
