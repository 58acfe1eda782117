package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

type IdentityService struct {
	Deps
}

// Resolve maps a verified token subject onto the user's current
// organization and role. It runs on every request, so a role change or a
// removal is effective for tokens issued before it.
func (s *IdentityService) Resolve(ctx context.Context, userID string) (domain.Identity, error) {
	if !idx.Valid(userID) {
		return domain.Identity{}, domain.InvalidCredential("unknown user")
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Warn("token subject no longer exists", slog.String("user_id", userID))
		return domain.Identity{}, domain.InvalidCredential("unknown user")
	}
	if err != nil {
		return domain.Identity{}, fail(ctx, "user", err)
	}

	if u.Status == domain.UserInactive {
		return domain.Identity{}, domain.InvalidCredential("account is inactive")
	}
	return u.Identity(), nil
}
