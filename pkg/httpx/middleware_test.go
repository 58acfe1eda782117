package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), nil, mark("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	t.Parallel()

	const issuer = "https://taskboard.test"
	km, err := jwtx.NewKeyManager(jwtx.Options{Issuer: issuer, NumKeys: 1})
	require.NoError(t, err)

	var seen string
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.UserIDFromContext(r.Context())
		claims, ok := httpx.ClaimsFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "org-1", claims.OrganizationID)
		w.WriteHeader(http.StatusNoContent)
	}), httpx.AuthnMiddleware(km.Verifier))

	sign := func(now time.Time) string {
		tok, err := km.Signer().Sign(jwtx.NewIdentityClaims("user-1", jwtx.Profile{OrganizationID: "org-1"}, issuer, time.Minute, now))
		require.NoError(t, err)
		return tok
	}

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing header", "", http.StatusUnauthorized, httpx.CodeNoCredential},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, httpx.CodeNoCredential},
		{"empty bearer", "Bearer   ", http.StatusUnauthorized, httpx.CodeNoCredential},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized, httpx.CodeInvalidCredential},
		{"expired token", "Bearer " + sign(time.Now().Add(-time.Hour)), http.StatusUnauthorized, httpx.CodeInvalidCredential},
		{"valid token", "Bearer " + sign(time.Now()), http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.code == "" {
				return
			}

			require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
			var body httpx.ErrorBody
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.Equal(t, httpx.KindUnauthenticated, body.Error)
			require.Equal(t, tt.code, body.Code)
		})
	}

	require.Equal(t, "user-1", seen)
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"ok", `{"name":"acme"}`, ""},
		{"empty", ``, "empty"},
		{"unknown field", `{"name":"acme","createdBy":"me"}`, "unknown field"},
		{"trailing object", `{"name":"a"}{"name":"b"}`, "single json object"},
		{"too large", `{"name":"` + strings.Repeat("x", httpx.MaxBodyBytes) + `"}`, "exceeds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload
			err := httpx.DecodeJSON(httptest.NewRecorder(), req, &p)
			if tt.wantErr == "" {
				require.NoError(t, err)
				require.Equal(t, "acme", p.Name)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}

	t.Run("no body at all", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		var p payload
		require.ErrorIs(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &p), httpx.ErrEmptyBody)
	})
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	httpx.WriteJSON(rec, http.StatusCreated, map[string]string{"ok": "yes"})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"ok":"yes"}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	t.Parallel()

	h := httpx.CORS([]string{"https://app.example"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/v1/tasks", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/v1/tasks", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestTraceMiddlewarePassesThrough(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	httpx.Chain(mux, httpx.TraceMiddleware("test")).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tasks/abc", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}
