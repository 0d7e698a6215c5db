package auth

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/mcoot/clickgame-go/internal/dependencies/clock"
	"github.com/mcoot/clickgame-go/internal/dependencies/random"
	"github.com/mcoot/clickgame-go/internal/model"
)

// tokenBytes is the amount of randomness in a session token (128 bits)
const tokenBytes = 16

// Entry is the session bound to a token
type Entry struct {
	Identity     model.ExternalID
	EphemeralKey string // provider session key; stored, never interpreted
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// TokenStore maps opaque session tokens to sessions.
// It lives in process memory only; a token is live while now <= ExpiresAt.
type TokenStore struct {
	clock   clock.Clock
	random  random.Random
	entries *xsync.MapOf[string, Entry]
}

// NewTokenStore creates an empty token store
func NewTokenStore(clk clock.Clock, rnd random.Random) *TokenStore {
	return &TokenStore{
		clock:   clk,
		random:  rnd,
		entries: xsync.NewMapOf[string, Entry](),
	}
}

// Issue mints a new token for identity, valid for ttl
func (s *TokenStore) Issue(identity model.ExternalID, ephemeralKey string, ttl time.Duration) (string, Entry) {
	now := s.clock.Now()
	entry := Entry{
		Identity:     identity,
		EphemeralKey: ephemeralKey,
		IssuedAt:     now,
		ExpiresAt:    now.Add(ttl),
	}

	for {
		token := s.random.Hex(tokenBytes)
		if _, loaded := s.entries.LoadOrStore(token, entry); !loaded {
			return token, entry
		}
	}
}

// Resolve returns the live session for token.
// An expired entry is removed in the same atomic step that observes it.
func (s *TokenStore) Resolve(token string) (Entry, bool) {
	now := s.clock.Now()

	var (
		hit   Entry
		found bool
	)
	s.entries.Compute(token, func(old Entry, loaded bool) (Entry, bool) {
		if !loaded || now.After(old.ExpiresAt) {
			return Entry{}, true
		}
		hit, found = old, true
		return old, false
	})
	return hit, found
}

// Sweep removes every expired entry and returns how many were removed
func (s *TokenStore) Sweep() int {
	now := s.clock.Now()

	var expired []string
	s.entries.Range(func(token string, e Entry) bool {
		if now.After(e.ExpiresAt) {
			expired = append(expired, token)
		}
		return true
	})

	removed := 0
	for _, token := range expired {
		s.entries.Compute(token, func(old Entry, loaded bool) (Entry, bool) {
			if loaded && now.After(old.ExpiresAt) {
				removed++
				return Entry{}, true
			}
			return old, !loaded
		})
	}
	return removed
}

// Len returns the number of stored entries, including expired ones not yet swept
func (s *TokenStore) Len() int {
	return s.entries.Size()
}
