package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Checker-Finance/maturity-client/pkg/model"
)

// ErrExpired is returned when saving a credential whose token has already expired.
var ErrExpired = errors.New("session: credential expired")

// Credential is the stored bearer token plus the user it belongs to.
type Credential struct {
	Token     string     `json:"token"`
	User      model.User `json:"user"`
	ExpiresAt time.Time  `json:"expires_at,omitempty"`
}

// NewCredential builds a credential, reading the expiry from the token's
// exp claim when the token is a JWT. The signature is not verified; only the
// server can do that.
func NewCredential(token string, user model.User) Credential {
	return Credential{
		Token:     token,
		User:      user,
		ExpiresAt: tokenExpiry(token),
	}
}

// Expired reports whether the credential has a known expiry in the past.
func (c *Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// TTL returns the remaining lifetime, or def when no expiry is known.
func (c *Credential) TTL(now time.Time, def time.Duration) time.Duration {
	if c.ExpiresAt.IsZero() {
		return def
	}
	return c.ExpiresAt.Sub(now)
}

func tokenExpiry(token string) time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
