package cryptox_test

import (
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestNewSigningKey(t *testing.T) {
	t.Parallel()

	a, err := cryptox.NewSigningKey("taskboard-")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(a.ID, "taskboard-"))
	require.Len(t, a.Private, ed25519.PrivateKeySize)

	msg := []byte("claims")
	require.True(t, ed25519.Verify(a.Public(), msg, ed25519.Sign(a.Private, msg)))

	b, err := cryptox.NewSigningKey("taskboard-")
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)
	require.False(t, a.Public().Equal(b.Public()))
}
