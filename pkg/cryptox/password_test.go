package cryptox_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

// cheap keeps the tests fast; the format is identical to DefaultParams.
var cheap = cryptox.Params{Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16}

func TestHasher(t *testing.T) {
	t.Parallel()

	h := &cryptox.Hasher{Pepper: "pepper", Params: cheap}

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=64,t=1,p=1$"))

			require.NoError(t, h.Verify(tt.password, hash))
			require.ErrorIs(t, h.Verify(tt.password+"x", hash), cryptox.ErrPasswordMismatch)
		})
	}
}

func TestHasherSaltsEveryHash(t *testing.T) {
	t.Parallel()

	h := &cryptox.Hasher{Pepper: "pepper", Params: cheap}
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestHasherPepperMatters(t *testing.T) {
	t.Parallel()

	hash, err := (&cryptox.Hasher{Pepper: "one", Params: cheap}).Hash("secret123")
	require.NoError(t, err)

	err = (&cryptox.Hasher{Pepper: "two", Params: cheap}).Verify("secret123", hash)
	require.ErrorIs(t, err, cryptox.ErrPasswordMismatch)
}

func TestVerifyRejectsMalformed(t *testing.T) {
	t.Parallel()

	h := &cryptox.Hasher{Params: cheap}
	for _, in := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=64,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=64,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=64,t=1,p=1$!!!$aGFzaA",
	} {
		require.Error(t, h.Verify("x", in), "input %q", in)
	}
}

func TestLoadOrCreatePepper(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "pepper")

	first, err := cryptox.LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := cryptox.LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second)

	_, err = cryptox.LoadOrCreatePepper("")
	require.Error(t, err)
}
