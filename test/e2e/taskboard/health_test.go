package taskboard_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHealthEndpoints verifies the probes and key discovery on a fresh
// instance.
func TestHealthEndpoints(t *testing.T) {
	c := setupTaskboard(t)
	ctx := t.Context()

	live, err := c.Livez(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)

	ready, err := c.Readyz(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)

	jwks, err := c.JWKS(ctx)
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1, "TASKBOARD_NUM_KEYS=1 publishes one key")
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
}
