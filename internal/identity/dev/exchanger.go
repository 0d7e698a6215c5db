// Package dev provides an identity exchanger for local development and tests.
// Every non-empty code is accepted except RejectedCode, which fails like a
// provider rejection.
package dev

import (
	"context"

	"github.com/mcoot/clickgame-go/internal/model"
	"github.com/mcoot/clickgame-go/internal/services/auth"
)

// IdentityPrefix is prepended to the code to form the identity
const IdentityPrefix = "dev_"

// Exchanger maps code to "dev_<code>"
type Exchanger struct{}

var _ auth.Exchanger = Exchanger{}

// New returns a dev exchanger
func New() Exchanger {
	return Exchanger{}
}

// Exchange never calls out and rejects only the code "invalid"
func (Exchanger) Exchange(ctx context.Context, code string) (auth.Identity, error) {
	if err := ctx.Err(); err != nil {
		return auth.Identity{}, err
	}
	if code == RejectedCode {
		return auth.Identity{}, &auth.ExchangeError{Provider: "dev", Code: "40029", Message: "invalid code"}
	}
	return auth.Identity{
		ExternalID:   model.ExternalID(IdentityPrefix + code),
		EphemeralKey: "dev-session-" + code,
	}, nil
}

// RejectedCode simulates a provider rejection
const RejectedCode = "invalid"
