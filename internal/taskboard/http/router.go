package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"

	_ "github.com/aussiebroadwan/taskboard/api/taskboard" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// ServiceName names the tracer and the service in logs.
const ServiceName = "taskboard"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeyManager
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limits       httpx.Limits

	// Clock drives the projected meeting status. Defaults to time.Now.
	Clock func() time.Time

	store               store.Store
	IdentityService     *service.IdentityService
	AccountService      *service.AccountService
	OrganizationService *service.OrganizationService
	ProjectService      *service.ProjectService
	TaskService         *service.TaskService
	TrackingService     *service.TrackingService
	MeetingService      *service.MeetingService
	DashboardService    *service.DashboardService
}

func NewRouter(
	keys *jwtx.KeyManager,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	limits httpx.Limits,
	corsOrigins []string,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		limits:       limits,
		Clock:        time.Now,
	}

	// Tracing runs first so the request logger can carry the trace id.
	r.middlewares = []httpx.Middleware{
		httpx.TraceMiddleware(ServiceName),
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(corsOrigins),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerOrganization()
	r.registerProjects()
	r.registerTasks()
	r.registerTracking()
	r.registerMeetings()
	r.registerDashboard()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Taskboard API
//	@version		0.1.0
//	@description	Multi-tenant project, task and meeting tracking with per-task time tracking.
//	@description
//	@description				Every resource belongs to exactly one organization. Resources of other organizations are reported as not found.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/taskboard
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				EdDSA signed access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h with token verification, identity resolution and a per
// user rate limit.
func (r *Router) secured(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.keys.Verifier),
		r.resolveIdentity,
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) now() time.Time {
	if r.Clock == nil {
		return time.Now()
	}
	return r.Clock()
}

func (r *Router) registerAccounts() {
	h := &AccountHandler{Accounts: r.AccountService}

	// Credential endpoints - strict rate limit by IP
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)

	r.Mux.Handle("GET /v1/me", r.secured(h.HandleMe, r.limits.Lenient))
	r.Mux.Handle("PATCH /v1/me", r.secured(h.HandleUpdateProfile, r.limits.Moderate))
}

func (r *Router) registerOrganization() {
	h := &OrganizationHandler{Organizations: r.OrganizationService}

	// Onboarding - strict so invite codes cannot be brute forced
	r.Mux.Handle("POST /v1/organizations", r.secured(h.HandleCreate, r.limits.Strict))
	r.Mux.Handle("POST /v1/organizations/join", r.secured(h.HandleJoin, r.limits.Strict))

	r.Mux.Handle("GET /v1/organization", r.secured(h.HandleGet, r.limits.Lenient))
	r.Mux.Handle("GET /v1/organization/members", r.secured(h.HandleMembers, r.limits.Lenient))
	r.Mux.Handle("PUT /v1/organization/members/{userID}/role", r.secured(h.HandleChangeRole, r.limits.Moderate))
	r.Mux.Handle("DELETE /v1/organization/members/{userID}", r.secured(h.HandleRemoveMember, r.limits.Moderate))

	r.Mux.Handle("GET /v1/organization/invites", r.secured(h.HandleListInvites, r.limits.Lenient))
	r.Mux.Handle("POST /v1/organization/invites", r.secured(h.HandleInvite, r.limits.Moderate))
	r.Mux.Handle("DELETE /v1/organization/invites/{id}", r.secured(h.HandleCancelInvite, r.limits.Moderate))
}

func (r *Router) registerProjects() {
	h := &ProjectHandler{Projects: r.ProjectService}

	r.Mux.Handle("GET /v1/projects", r.secured(h.HandleList, r.limits.Lenient))
	r.Mux.Handle("POST /v1/projects", r.secured(h.HandleCreate, r.limits.Moderate))
	r.Mux.Handle("GET /v1/projects/{id}", r.secured(h.HandleGet, r.limits.Lenient))
	r.Mux.Handle("PATCH /v1/projects/{id}", r.secured(h.HandleUpdate, r.limits.Moderate))
	r.Mux.Handle("DELETE /v1/projects/{id}", r.secured(h.HandleDelete, r.limits.Moderate))

	r.Mux.Handle("GET /v1/projects/{id}/team", r.secured(h.HandleTeam, r.limits.Lenient))
	r.Mux.Handle("POST /v1/projects/{id}/team", r.secured(h.HandleAddMember, r.limits.Moderate))
	r.Mux.Handle("DELETE /v1/projects/{id}/team/{userID}", r.secured(h.HandleRemoveMember, r.limits.Moderate))
	r.Mux.Handle("GET /v1/projects/{id}/available-members", r.secured(h.HandleAvailableMembers, r.limits.Lenient))
}

func (r *Router) registerTasks() {
	h := &TaskHandler{Tasks: r.TaskService}

	r.Mux.Handle("GET /v1/projects/{id}/tasks", r.secured(h.HandleListByProject, r.limits.Lenient))
	r.Mux.Handle("GET /v1/tasks", r.secured(h.HandleListMine, r.limits.Lenient))
	r.Mux.Handle("GET /v1/tasks/recent", r.secured(h.HandleRecent, r.limits.Lenient))
	r.Mux.Handle("POST /v1/tasks", r.secured(h.HandleCreate, r.limits.Moderate))
	r.Mux.Handle("GET /v1/tasks/{id}", r.secured(h.HandleGet, r.limits.Lenient))
	r.Mux.Handle("PATCH /v1/tasks/{id}", r.secured(h.HandleUpdate, r.limits.Moderate))
	r.Mux.Handle("PUT /v1/tasks/{id}/status", r.secured(h.HandleSetStatus, r.limits.Moderate))
	r.Mux.Handle("DELETE /v1/tasks/{id}", r.secured(h.HandleDelete, r.limits.Moderate))
}

func (r *Router) registerTracking() {
	h := &TrackingHandler{Tracking: r.TrackingService}

	r.Mux.Handle("POST /v1/tasks/{id}/tracking/start", r.secured(h.HandleStart, r.limits.Moderate))
	r.Mux.Handle("POST /v1/tasks/{id}/tracking/stop", r.secured(h.HandleStop, r.limits.Moderate))
	r.Mux.Handle("GET /v1/tracking/active", r.secured(h.HandleActive, r.limits.Lenient))
}

func (r *Router) registerMeetings() {
	h := &MeetingHandler{Meetings: r.MeetingService, Now: r.now}

	r.Mux.Handle("GET /v1/meetings", r.secured(h.HandleListMine, r.limits.Lenient))
	r.Mux.Handle("GET /v1/meetings/upcoming", r.secured(h.HandleUpcoming, r.limits.Lenient))
	r.Mux.Handle("GET /v1/meetings/today", r.secured(h.HandleToday, r.limits.Lenient))
	r.Mux.Handle("POST /v1/meetings", r.secured(h.HandleCreate, r.limits.Moderate))
	r.Mux.Handle("GET /v1/meetings/{id}", r.secured(h.HandleGet, r.limits.Lenient))
	r.Mux.Handle("PATCH /v1/meetings/{id}", r.secured(h.HandleUpdate, r.limits.Moderate))
	r.Mux.Handle("POST /v1/meetings/{id}/cancel", r.secured(h.HandleCancel, r.limits.Moderate))
	r.Mux.Handle("POST /v1/meetings/{id}/respond", r.secured(h.HandleRespond, r.limits.Moderate))
	r.Mux.Handle("DELETE /v1/meetings/{id}", r.secured(h.HandleDelete, r.limits.Moderate))
}

func (r *Router) registerDashboard() {
	h := &DashboardHandler{Dashboard: r.DashboardService}

	r.Mux.Handle("GET /v1/dashboard", r.secured(h.ServeHTTP, r.limits.Lenient))
}

func (r *Router) registerSystem() {
	// Health check endpoints - public limits (monitoring systems poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys.KeySet),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}
