package jwtx

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
)

// Options configures a KeyManager.
type Options struct {
	// Issuer is stamped into and required of every token.
	Issuer string

	// NumKeys is how many signing keys to generate, clamped to [1, 10].
	// Zero means 3.
	NumKeys int
}

// KeyManager owns the signing keys of one taskboard instance and the
// verifier for tokens they produce. Keys are generated at start-up and only
// live in memory, so every restart invalidates outstanding tokens.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	mu      sync.RWMutex
	signers []Signer
}

// NewKeyManager generates opts.NumKeys Ed25519 signing keys.
func NewKeyManager(opts Options) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	n := opts.NumKeys
	switch {
	case n <= 0:
		n = 3
	case n > 10:
		n = 10
	}

	keyset := NewKeySet()
	signers := make([]Signer, 0, n)

	for i := range n {
		signer, err := generateSigner()
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate signer %d: %w", i+1, err)
		}
		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: add signer %d to keyset: %w", i+1, err)
		}
		signers = append(signers, signer)
	}

	return &KeyManager{
		Verifier: NewVerifierEdDSA(keyset, opts.Issuer),
		KeySet:   keyset,
		signers:  signers,
	}, nil
}

func generateSigner() (Signer, error) {
	key, err := cryptox.NewSigningKey("taskboard-")
	if err != nil {
		return nil, err
	}
	return NewSignerEdDSA(key.ID, key.Private)
}

// Signer returns one of the signing keys at random.
func (km *KeyManager) Signer() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	default:
		return km.signers[rand.IntN(len(km.signers))]
	}
}

// NumSigners returns the number of signing keys.
func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// IsReady reports whether tokens can be verified.
func (km *KeyManager) IsReady() bool {
	return km.KeySet.IsReady()
}
