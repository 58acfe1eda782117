package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

type identityKey struct{}

// resolveIdentity turns the verified token subject into the caller's
// current identity. Role and organization come from the store, not the
// token, so a demotion or removal applies to the very next request.
func (r *Router) resolveIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		userID, ok := httpx.UserIDFromContext(ctx)
		if !ok {
			httpx.WriteUnauthorized(w, string(domain.CodeNoCredential), "missing bearer token")
			return
		}

		id, err := r.IdentityService.Resolve(ctx, userID)
		if err != nil {
			writeError(w, req, err)
			return
		}

		ctx = slogx.With(ctx, "user_id", id.UserID, "org_id", id.OrganizationID)
		ctx = context.WithValue(ctx, identityKey{}, id)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// identity returns the caller resolved by resolveIdentity. Handlers are
// only mounted behind it, so the zero value never reaches a service.
func identity(r *http.Request) domain.Identity {
	id, _ := r.Context().Value(identityKey{}).(domain.Identity)
	return id
}
