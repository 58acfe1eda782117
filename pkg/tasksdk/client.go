package tasksdk

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
)

// SDKClient is a client for the taskboard API. It performs the
// unauthenticated operations and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client for the server at baseURL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates an account and returns a session for it.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	return c.authenticate(ctx, "/v1/auth/register", req, http.StatusCreated)
}

// Login exchanges a username or email and a password for a session.
func (c *SDKClient) Login(ctx context.Context, login, password string) (*Session, error) {
	return c.authenticate(ctx, "/v1/auth/login", LoginRequest{Login: login, Password: password}, http.StatusOK)
}

func (c *SDKClient) authenticate(ctx context.Context, path string, body any, status int) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, path, "", body)
	if err != nil {
		return nil, err
	}

	var sr SessionResponse
	if err := decodeJSON(resp, &sr, status); err != nil {
		return nil, err
	}
	return newSession(c, sr), nil
}

// Livez calls the liveness probe.
func (c *SDKClient) Livez(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// Readyz calls the readiness probe. A degraded server answers 503, which
// is returned as an *APIError.
func (c *SDKClient) Readyz(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *SDKClient) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var h HealthResponse
	if err := decodeJSON(resp, &h, http.StatusOK); err != nil {
		return nil, err
	}
	return &h, nil
}

// JWKS fetches the public keys access tokens are signed with.
func (c *SDKClient) JWKS(ctx context.Context) (*JWKSResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/.well-known/jwks.json", "", nil)
	if err != nil {
		return nil, err
	}

	var jwks JWKSResponse
	if err := decodeJSON(resp, &jwks, http.StatusOK); err != nil {
		return nil, err
	}
	return &jwks, nil
}

// Verifier fetches the published keys and returns a verifier for access
// tokens from issuer, so other services can check taskboard tokens without
// a round trip per request. Call it again after the server restarts; keys
// do not survive a restart.
func (c *SDKClient) Verifier(ctx context.Context, issuer string) (jwtx.Verifier, error) {
	jwks, err := c.JWKS(ctx)
	if err != nil {
		return nil, err
	}

	keys := jwtx.NewKeySet()
	if err := keys.ResetFromJWKS(jwtx.JWKS(*jwks)); err != nil {
		return nil, fmt.Errorf("load jwks: %w", err)
	}
	return jwtx.NewVerifierEdDSA(keys, issuer), nil
}
