package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

// SigningKey is an in-memory Ed25519 key pair with the key ID it is
// published under.
type SigningKey struct {
	ID      string
	Private ed25519.PrivateKey
}

// Public returns the verification half of k.
func (k SigningKey) Public() ed25519.PublicKey {
	return k.Private.Public().(ed25519.PublicKey)
}

// NewSigningKey generates an Ed25519 key with a random ID prefixed by
// prefix. The key never leaves memory.
func NewSigningKey(prefix string) (SigningKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return SigningKey{}, fmt.Errorf("cryptox: generate Ed25519 key: %w", err)
	}

	id, err := GenerateToken(TokenSize128)
	if err != nil {
		return SigningKey{}, err
	}

	return SigningKey{ID: prefix + id, Private: priv}, nil
}
