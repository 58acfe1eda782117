package service

import (
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
)

// AccessToken is a signed bearer token and its expiry.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

type TokenService struct {
	Keys   *jwtx.KeyManager
	Issuer string
	TTL    time.Duration
	Clock  func() time.Time
}

// Issue signs an access token for u. The organization and role claims are
// informational; requests re-resolve the subject against the store.
func (s *TokenService) Issue(u domain.User) (AccessToken, error) {
	now := time.Now()
	if s.Clock != nil {
		now = s.Clock()
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewIdentityClaims(u.ID, jwtx.Profile{
		OrganizationID: u.OrganizationID,
		Role:           string(u.Role),
		Username:       u.Username,
		Name:           u.Name,
	}, s.Issuer, ttl, now)

	token, err := s.Keys.Signer().Sign(claims)
	if err != nil {
		return AccessToken{}, domain.Internal("sign access token", err)
	}
	return AccessToken{Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}
