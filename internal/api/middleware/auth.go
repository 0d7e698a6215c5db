package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/clickgame-go/internal/api/apierr"
	"github.com/mcoot/clickgame-go/internal/model"
	"github.com/mcoot/clickgame-go/internal/services/auth"
)

type contextKey string

const identityContextKey contextKey = "identity"

// TokenHeader is the primary session token header
const TokenHeader = "X-Token"

// Auth creates authentication middleware
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.Authenticate(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, session.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken reads X-Token, then falls back to a Bearer Authorization header
func extractToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(TokenHeader)); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}

	return ""
}

// GetIdentity returns the authenticated identity from the request context
func GetIdentity(ctx context.Context) model.ExternalID {
	id, _ := ctx.Value(identityContextKey).(model.ExternalID)
	return id
}

// MustGetIdentity returns the authenticated identity or panics
func MustGetIdentity(ctx context.Context) model.ExternalID {
	id := GetIdentity(ctx)
	if id == "" {
		panic("no identity in context - auth middleware not applied?")
	}
	return id
}
