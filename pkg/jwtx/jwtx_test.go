package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://taskboard.test"

func newSigner(t *testing.T, kid string) *jwtx.EdDSASigner {
	t.Helper()

	key, err := cryptox.NewSigningKey("")
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA(kid, key.Private)
	require.NoError(t, err)
	return signer
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	signer := newSigner(t, "kid-1")
	require.Equal(t, "EdDSA", signer.Alg())
	require.Equal(t, "kid-1", signer.KID())

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	claims := jwtx.NewIdentityClaims("user-1", jwtx.Profile{
		OrganizationID: "org-1",
		Role:           "manager",
		Username:       "mia",
		Name:           "Mia M",
	}, testIssuer, 5*time.Minute, time.Now().UTC())

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := jwtx.NewVerifierEdDSA(keys, testIssuer).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "org-1", got.OrganizationID)
	require.Equal(t, "manager", got.Role)
	require.Equal(t, "mia", got.Username)
	require.Equal(t, "Mia M", got.Name)
	require.Equal(t, claims.ID, got.ID)
	require.NotEmpty(t, got.ID)
}

func TestVerifyRejects(t *testing.T) {
	t.Parallel()

	signer := newSigner(t, "kid-1")
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := jwtx.NewVerifierEdDSA(keys, testIssuer)

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewIdentityClaims("u", jwtx.Profile{}, "someone-else", time.Minute, time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewIdentityClaims("u", jwtx.Profile{}, testIssuer, time.Minute, time.Now().Add(-time.Hour)))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("unknown kid", func(t *testing.T) {
		stranger := newSigner(t, "kid-unknown")
		token, err := stranger.Sign(jwtx.NewIdentityClaims("u", jwtx.Profile{}, testIssuer, time.Minute, time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrNoKey)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not.a.jwt")
		require.Error(t, err)
	})

	t.Run("other algorithm", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtx.NewIdentityClaims("u", jwtx.Profile{}, testIssuer, time.Minute, time.Now()))
		tok.Header["kid"] = "kid-1"
		raw, err := tok.SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = verifier.Verify(raw)
		require.Error(t, err)
	})
}

func TestClaimsValidateExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	valid := jwtx.NewIdentityClaims("u", jwtx.Profile{}, testIssuer, time.Minute, now)
	require.NoError(t, valid.ValidateExpiry())

	expired := jwtx.NewIdentityClaims("u", jwtx.Profile{}, testIssuer, time.Minute, now.Add(-2*time.Minute))
	require.ErrorIs(t, expired.ValidateExpiry(), jwtx.ErrExpired)

	future := jwtx.NewIdentityClaims("u", jwtx.Profile{}, testIssuer, time.Minute, now.Add(time.Hour))
	require.ErrorIs(t, future.ValidateExpiry(), jwtx.ErrNotYetValid)
}

func TestKeySetRoundTripsThroughJWKS(t *testing.T) {
	t.Parallel()

	signer := newSigner(t, "kid-1")
	src := jwtx.NewKeySet()
	require.NoError(t, src.AddSigner(signer))

	jwks := src.PublicJWKS()
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "Ed25519", jwks.Keys[0].Crv)

	// A client rebuilding its key set from the published JWKS can verify.
	dst := jwtx.NewKeySet()
	require.False(t, dst.IsReady())
	require.NoError(t, dst.ResetFromJWKS(jwks))
	require.True(t, dst.IsReady())

	token, err := signer.Sign(jwtx.NewIdentityClaims("u", jwtx.Profile{}, testIssuer, time.Minute, time.Now()))
	require.NoError(t, err)
	_, err = jwtx.NewVerifierEdDSA(dst, testIssuer).Verify(token)
	require.NoError(t, err)

	require.Error(t, dst.AddJWK(jwtx.JWK{Kty: "RSA", Kid: "nope"}))
}

func TestKeyManager(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewKeyManager(jwtx.Options{})
	require.Error(t, err)

	tests := []struct {
		name string
		in   int
		want int
	}{
		{"default", 0, 3},
		{"single", 1, 1},
		{"clamped", 50, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km, err := jwtx.NewKeyManager(jwtx.Options{Issuer: testIssuer, NumKeys: tt.in})
			require.NoError(t, err)
			require.Equal(t, tt.want, km.NumSigners())
			require.Len(t, km.KeySet.PublicJWKS().Keys, tt.want)
			require.True(t, km.IsReady())
		})
	}

	t.Run("every signer verifies", func(t *testing.T) {
		km, err := jwtx.NewKeyManager(jwtx.Options{Issuer: testIssuer, NumKeys: 3})
		require.NoError(t, err)

		for range 20 {
			token, err := km.Signer().Sign(jwtx.NewIdentityClaims("u", jwtx.Profile{}, testIssuer, time.Minute, time.Now()))
			require.NoError(t, err)
			_, err = km.Verifier.Verify(token)
			require.NoError(t, err)
		}
	})
}

func TestNewSignerEdDSARejectsShortKey(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewSignerEdDSA("kid-1", nil)
	require.Error(t, err)
}
