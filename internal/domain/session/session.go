// Package session models the signed-in user's credential pair.
package session

import (
	"context"
	"strings"
	"time"
)

const (
	// DefaultExpiresIn is assumed when the provider omits expires_in.
	DefaultExpiresIn = 3600
	// ExpirySafetyMargin is subtracted from the provider's lifetime.
	ExpirySafetyMargin = 60
	// MinLifetime is the shortest lifetime ever granted.
	MinLifetime = 60
)

type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	StateExpired        State = "expired"
	StateDenied         State = "denied"
)

// Session is the identity token and access token of one signed-in user.
type Session struct {
	Email         string    `json:"email"`
	IdentityToken string    `json:"id_token"`
	AccessToken   string    `json:"access_token"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Valid reports whether s has every required field and has not expired.
func (s *Session) Valid(now time.Time) bool {
	if s == nil {
		return false
	}
	if s.Email == "" || s.AccessToken == "" || s.IdentityToken == "" || s.ExpiresAt.IsZero() {
		return false
	}
	return now.Before(s.ExpiresAt)
}

// ExpiresAtFor returns now + max(60, expiresIn-60) seconds. A non-positive
// expiresIn is treated as DefaultExpiresIn.
func ExpiresAtFor(now time.Time, expiresIn int64) time.Time {
	if expiresIn <= 0 {
		expiresIn = DefaultExpiresIn
	}
	lifetime := max(MinLifetime, expiresIn-ExpirySafetyMargin)
	return now.Add(time.Duration(lifetime) * time.Second)
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Verification is the verification endpoint's verdict on an identity token.
type Verification struct {
	OK     bool   `json:"ok"`
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// AccessGrant is an access token and its provider-reported lifetime in
// seconds; ExpiresIn is zero when the provider did not say.
type AccessGrant struct {
	AccessToken string
	ExpiresIn   int64
	Scope       string
}

// Store persists at most one session per scope. Load returns nil, nil when
// nothing is stored.
type Store interface {
	Load(ctx context.Context, scope string) (*Session, error)
	Save(ctx context.Context, scope string, s *Session) error
	Clear(ctx context.Context, scope string) error
}
