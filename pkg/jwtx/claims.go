package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultAccessTokenTTL is the access token lifetime when none is configured.
const DefaultAccessTokenTTL = time.Hour

// Profile is the identity snapshot embedded in an access token. It is
// informational only: servers re-resolve the subject on every request, so a
// stale role in an old token grants nothing.
type Profile struct {
	OrganizationID string
	Role           string
	Username       string
	Name           string
}

// Claims are the access-token claims issued by taskboard.
type Claims struct {
	jwt.RegisteredClaims

	OrganizationID string `json:"org,omitempty"`
	Role           string `json:"role,omitempty"`
	Username       string `json:"username,omitempty"`
	Name           string `json:"name,omitempty"`
}

// NewIdentityClaims builds claims for subject valid for ttl from now.
func NewIdentityClaims(subject string, p Profile, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		OrganizationID: p.OrganizationID,
		Role:           p.Role,
		Username:       p.Username,
		Name:           p.Name,
	}
}

// NewJTI returns a random identifier for the "jti" claim.
func NewJTI() string {
	return uuid.NewString()
}

// ValidateIssuer checks the issuer. An empty expectation is not enforced.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
