package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/clickgame-go/internal/dependencies/mocks"
	"github.com/mcoot/clickgame-go/internal/testutil"
)

// stubExchanger records calls and returns canned results
type stubExchanger struct {
	identity Identity
	err      error
	calls    []string
}

func (e *stubExchanger) Exchange(_ context.Context, code string) (Identity, error) {
	e.calls = append(e.calls, code)
	return e.identity, e.err
}

type ServiceSuite struct {
	suite.Suite
	clock     *mocks.MockClock
	random    *mocks.MockRandom
	exchanger *stubExchanger
	tokens    *TokenStore
	service   *Service
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.exchanger = &stubExchanger{identity: Identity{ExternalID: "openid-1", EphemeralKey: "sk"}}
	s.tokens = NewTokenStore(s.clock, s.random)
	s.service = New(s.exchanger, s.tokens, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

// Login tests

func (s *ServiceSuite) TestLoginIssuesToken() {
	s.random.QueueHex("0123456789abcdef0123456789abcdef")

	result, err := s.service.Login(s.ctx, "code-1")
	s.Require().NoError(err)

	s.Equal("0123456789abcdef0123456789abcdef", result.Token)
	s.Equal(7200, result.ExpiresIn)
	s.Equal("openid-1", string(result.Identity))
	s.Equal([]string{"code-1"}, s.exchanger.calls)
}

func (s *ServiceSuite) TestLoginTokenResolvesToIdentity() {
	result, err := s.service.Login(s.ctx, "code-1")
	s.Require().NoError(err)

	entry, err := s.service.Authenticate(result.Token)
	s.Require().NoError(err)
	s.Equal("openid-1", string(entry.Identity))
	s.Equal("sk", entry.EphemeralKey)
}

func (s *ServiceSuite) TestLoginRejectsBlankCode() {
	_, err := s.service.Login(s.ctx, "   ")
	s.ErrorIs(err, ErrMissingCode)
	s.Empty(s.exchanger.calls)
}

func (s *ServiceSuite) TestLoginProviderRejectionIsNotRetried() {
	s.exchanger.err = &ExchangeError{Provider: "wechat", Code: "40029", Message: "invalid code"}

	_, err := s.service.Login(s.ctx, "bad")

	s.ErrorIs(err, ErrLoginFailed)
	var exErr *ExchangeError
	s.Require().True(errors.As(err, &exErr))
	s.Equal("40029", exErr.Code)
	s.Len(s.exchanger.calls, 1)
	s.Equal(0, s.tokens.Len())
}

func (s *ServiceSuite) TestLoginTransportFailure() {
	s.exchanger.err = context.DeadlineExceeded

	_, err := s.service.Login(s.ctx, "code")

	s.ErrorIs(err, ErrLoginFailed)
	s.ErrorIs(err, context.DeadlineExceeded)
}

func (s *ServiceSuite) TestLoginEmptyIdentityFails() {
	s.exchanger.identity = Identity{}

	_, err := s.service.Login(s.ctx, "code")

	s.ErrorIs(err, ErrLoginFailed)
	s.Equal(0, s.tokens.Len())
}

func (s *ServiceSuite) TestCustomTTL() {
	svc := New(s.exchanger, s.tokens, Config{SessionTTL: time.Minute}, testutil.NopLogger())

	result, err := svc.Login(s.ctx, "code")
	s.Require().NoError(err)
	s.Equal(60, result.ExpiresIn)
}

// Authenticate tests

func (s *ServiceSuite) TestAuthenticateEmptyToken() {
	_, err := s.service.Authenticate("")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestAuthenticateUnknownToken() {
	_, err := s.service.Authenticate("nope")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestAuthenticateExpiredToken() {
	result, err := s.service.Login(s.ctx, "code")
	s.Require().NoError(err)

	s.clock.Advance(DefaultSessionTTL + time.Second)

	_, err = s.service.Authenticate(result.Token)
	s.ErrorIs(err, ErrInvalidSession)
	s.Equal(0, s.tokens.Len())
}

func (s *ServiceSuite) TestEachLoginGetsDistinctToken() {
	first, err := s.service.Login(s.ctx, "code")
	s.Require().NoError(err)
	second, err := s.service.Login(s.ctx, "code")
	s.Require().NoError(err)

	s.NotEqual(first.Token, second.Token)
	s.Equal(2, s.tokens.Len())
}
