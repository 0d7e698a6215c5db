package oidc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/clickgame-go/internal/services/auth"
	"github.com/mcoot/clickgame-go/internal/testutil"
)

type ExchangerSuite struct {
	suite.Suite
	server        *httptest.Server
	tokenHandler  http.HandlerFunc
	exchanger     *Exchanger
	receivedCodes []string
}

func TestExchangerSuite(t *testing.T) {
	suite.Run(t, new(ExchangerSuite))
}

func (s *ExchangerSuite) SetupTest() {
	s.receivedCodes = nil
	s.tokenHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "access-1",
			"token_type":   "Bearer",
			"expires_in":   3600,
			"id_token":     s.idToken(map[string]any{"sub": "user-42"}),
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"issuer":                                s.server.URL,
			"authorization_endpoint":                s.server.URL + "/authorize",
			"token_endpoint":                        s.server.URL + "/token",
			"jwks_uri":                              s.server.URL + "/jwks",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		s.receivedCodes = append(s.receivedCodes, r.PostForm.Get("code"))
		s.tokenHandler(w, r)
	})
	s.server = httptest.NewServer(mux)

	cfg := Config{Issuer: s.server.URL, ClientID: "clickgame", ClientSecret: "secret", RedirectURL: "http://localhost/cb"}
	exchanger, err := newExchanger(context.Background(), cfg, &oidc.Config{
		ClientID:                   cfg.ClientID,
		InsecureSkipSignatureCheck: true,
	}, testutil.NopLogger())
	s.Require().NoError(err)
	s.exchanger = exchanger
}

func (s *ExchangerSuite) TearDownTest() {
	s.server.Close()
}

// idToken builds an unsigned compact JWT for the test issuer
func (s *ExchangerSuite) idToken(extra map[string]any) string {
	claims := map[string]any{
		"iss": s.server.URL,
		"aud": "clickgame",
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	for k, v := range extra {
		claims[k] = v
	}
	header, _ := json.Marshal(map[string]string{"alg": "RS256", "typ": "JWT"})
	payload, _ := json.Marshal(claims)
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("signature"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *ExchangerSuite) TestExchangeSuccess() {
	id, err := s.exchanger.Exchange(context.Background(), "code-1")
	s.Require().NoError(err)

	s.Equal("user-42", string(id.ExternalID))
	s.Equal("access-1", id.EphemeralKey)
	s.Equal([]string{"code-1"}, s.receivedCodes)
}

func (s *ExchangerSuite) TestExchangeRejectedCode() {
	s.tokenHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":             "invalid_grant",
			"error_description": "code expired",
		})
	}

	_, err := s.exchanger.Exchange(context.Background(), "stale")

	var exErr *auth.ExchangeError
	s.Require().True(errors.As(err, &exErr))
	s.Equal("oidc", exErr.Provider)
	s.Equal("invalid_grant", exErr.Code)
	s.Equal("code expired", exErr.Message)
}

func (s *ExchangerSuite) TestExchangeMissingIDToken() {
	s.tokenHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "a", "token_type": "Bearer"})
	}

	_, err := s.exchanger.Exchange(context.Background(), "code")

	var exErr *auth.ExchangeError
	s.Require().True(errors.As(err, &exErr))
	s.Equal("missing_id_token", exErr.Code)
}

func (s *ExchangerSuite) TestExchangeWrongAudience() {
	s.tokenHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "a",
			"token_type":   "Bearer",
			"id_token":     s.idToken(map[string]any{"sub": "user-42", "aud": "someone-else"}),
		})
	}

	_, err := s.exchanger.Exchange(context.Background(), "code")

	var exErr *auth.ExchangeError
	s.Require().True(errors.As(err, &exErr))
	s.Equal("invalid_id_token", exErr.Code)
}

func (s *ExchangerSuite) TestNewRequiresIssuer() {
	_, err := New(context.Background(), Config{ClientID: "x"}, testutil.NopLogger())
	s.Error(err)
}

func (s *ExchangerSuite) TestNewFailsOnUnreachableIssuer() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := New(ctx, Config{Issuer: "http://127.0.0.1:1", ClientID: "x", Timeout: time.Second}, testutil.NopLogger())
	s.Error(err)
}
