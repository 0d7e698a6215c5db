package auth

import (
	"context"
	"fmt"

	"github.com/mcoot/clickgame-go/internal/model"
)

// Identity is what an identity provider returns for a valid auth code
type Identity struct {
	ExternalID   model.ExternalID
	EphemeralKey string
}

// Exchanger turns a one-time client auth code into an identity.
// Implementations own their network timeout; callers never retry.
type Exchanger interface {
	Exchange(ctx context.Context, code string) (Identity, error)
}

// ExchangeError is a rejection reported by the identity provider
type ExchangeError struct {
	Provider string
	Code     string
	Message  string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("%s exchange rejected: %s (%s)", e.Provider, e.Message, e.Code)
}
