package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// Error codes written by AuthnMiddleware. They match the taskboard error
// taxonomy so clients can branch on them without caring which layer failed.
const (
	CodeNoCredential      = "NO_CREDENTIAL"
	CodeInvalidCredential = "INVALID_CREDENTIAL"

	KindUnauthenticated = "UNAUTHENTICATED"
)

// AuthnMiddleware verifies the bearer token and stores its claims in the
// request context. It only proves the token is ours; resolving the subject to
// a live user happens further down the chain.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := bearerToken(r)
			if !ok {
				WriteUnauthorized(w, CodeNoCredential, "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				WriteUnauthorized(w, CodeInvalidCredential, "token verification failed")
				return
			}

			if err := claims.ValidateExpiry(); err != nil {
				WriteUnauthorized(w, CodeInvalidCredential, "token expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithAuth(ctx, claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	return raw, raw != ""
}

// WriteUnauthorized writes a 401 with an RFC 6750 challenge and the JSON
// error body.
func WriteUnauthorized(w http.ResponseWriter, code, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, KindUnauthenticated, code, desc)
}
