package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
)

// InitKeys generates the in-memory Ed25519 signing keys for this instance.
//
// Keys are never persisted: every restart invalidates outstanding access
// tokens and clients have to log in again. Several keys are generated so
// signing load spreads across key IDs; all of them are published on
// /.well-known/jwks.json.
func InitKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	logger.Info("initializing signing keys", "num_keys", cfg.NumKeys)

	keys, err := jwtx.NewKeyManager(jwtx.Options{
		Issuer:  cfg.Issuer,
		NumKeys: cfg.NumKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}

	logger.Info("generated ephemeral signing keys",
		"num_keys", keys.NumSigners(),
		"issuer", cfg.Issuer,
	)
	logger.Warn("tokens issued before this start are no longer valid")

	return keys, nil
}
