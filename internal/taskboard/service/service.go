// Package service implements the taskboard operations. Every operation
// takes the caller's resolved identity, authorizes through the access
// package and talks to the store inside a bounded context.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/access"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// DefaultStoreTimeout bounds one operation's store work when Deps.Timeout
// is unset.
const DefaultStoreTimeout = 5 * time.Second

// Deps is shared by every service. It is a value; services copy it.
type Deps struct {
	Store store.Store

	// Timeout bounds the store work of a single operation. A timeout is
	// reported as UNAVAILABLE and never retried here.
	Timeout time.Duration

	// Clock returns the current time. Nil means time.Now.
	Clock func() time.Time
}

// Now is the service clock in UTC, at millisecond precision so values
// survive every store driver unchanged.
func (d Deps) Now() time.Time {
	now := time.Now
	if d.Clock != nil {
		now = d.Clock
	}
	return now().UTC().Truncate(time.Millisecond)
}

// bound derives the context one operation's store calls run under.
func (d Deps) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// fail turns a store error into a *domain.Error. Domain errors pass
// through; what names the entity for not-found and conflict messages.
func fail(ctx context.Context, what string, err error) error {
	if err == nil {
		return nil
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}

	log := slogx.FromContext(ctx)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), ctx.Err() != nil:
		log.Warn("store call did not finish in time", slog.String("entity", what), slog.Any("error", err))
		return domain.Unavailable(err)
	case errors.Is(err, store.ErrNotFound):
		return domain.NotFound(what)
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.Conflict("%s already exists", what)
	case errors.Is(err, store.ErrConflict):
		return domain.Conflict("%s was changed by another request", what)
	}

	log.Error("store failure", slog.String("entity", what), slog.Any("error", err))
	return domain.Internal(what+": store failure", err)
}

// requireOrganization rejects callers that have not joined an organization
// yet.
func requireOrganization(id domain.Identity) error {
	if !id.HasOrganization() {
		return domain.NoOrganization()
	}
	return nil
}

// authorizeOrganization checks a against the caller's own organization.
func authorizeOrganization(id domain.Identity, a access.Action) error {
	if err := requireOrganization(id); err != nil {
		return err
	}
	return access.Authorize(id, access.Organization(id.OrganizationID), a)
}

// orgMember loads userID and checks it belongs to orgID. Outsiders are
// reported as a validation failure on field.
func orgMember(ctx context.Context, s store.Store, orgID, userID, field string) (domain.User, error) {
	u, err := s.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && u.OrganizationID != orgID) {
		return domain.User{}, domain.Validation("%s is not a member of this organization", field)
	}
	if err != nil {
		return domain.User{}, fail(ctx, "user", err)
	}
	return u, nil
}

const maxTextLength = 8000

// optionalText checks a free-text field that may be empty.
func optionalText(field, s string) error {
	if len(s) > maxTextLength {
		return domain.Validation("%s must be at most %d characters", field, maxTextLength)
	}
	return nil
}
