package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
)

// AccountHandler serves sign-up, login and the caller's own profile.
type AccountHandler struct {
	Accounts *service.AccountService
}

// HandleRegister handles POST /v1/auth/register
//
//	@Summary		Register
//	@Description	Creates an account. With organizationName the user founds a new organization and becomes its admin;
//	@Description	with inviteCode the user joins an existing one as an employee. With neither the account stays pending.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tasksdk.RegisterRequest	true	"Registration"
//	@Success		201		{object}	tasksdk.SessionResponse	"Access token and the new user"
//	@Failure		400		{object}	tasksdk.ErrorResponse	"Invalid input"
//	@Failure		404		{object}	tasksdk.ErrorResponse	"Unknown invite code"
//	@Failure		409		{object}	tasksdk.ErrorResponse	"Username, email or organization name taken"
//	@Failure		429		{object}	tasksdk.ErrorResponse	"Rate limited"
//	@Router			/v1/auth/register [post]
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	sess, err := h.Accounts.Register(r.Context(), service.Registration{
		Username:                req.Username,
		Email:                   req.Email,
		Password:                req.Password,
		Name:                    req.Name,
		OrganizationName:        req.OrganizationName,
		OrganizationDescription: req.OrganizationDescription,
		InviteCode:              req.InviteCode,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toSession(sess))
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Login
//	@Description	Exchanges a username or email and password for an access token.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tasksdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	tasksdk.SessionResponse	"Access token and the user"
//	@Failure		400		{object}	tasksdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	tasksdk.ErrorResponse	"Invalid login or password"
//	@Failure		429		{object}	tasksdk.ErrorResponse	"Rate limited"
//	@Router			/v1/auth/login [post]
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	sess, err := h.Accounts.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSession(sess))
}

// HandleMe handles GET /v1/me
//
//	@Summary	Current user
//	@Tags		Accounts
//	@Produce	json
//	@Success	200	{object}	tasksdk.User			"The caller"
//	@Failure	401	{object}	tasksdk.ErrorResponse	"Missing or invalid token"
//	@Security	BearerAuth
//	@Router		/v1/me [get]
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.Accounts.Me(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

// HandleUpdateProfile handles PATCH /v1/me
//
//	@Summary		Update profile
//	@Description	Only the display name can be changed.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tasksdk.UpdateProfileRequest	true	"Fields to change"
//	@Success		200		{object}	tasksdk.User					"The updated user"
//	@Failure		400		{object}	tasksdk.ErrorResponse			"Invalid input"
//	@Failure		401		{object}	tasksdk.ErrorResponse			"Missing or invalid token"
//	@Security		BearerAuth
//	@Router			/v1/me [patch]
func (h *AccountHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.UpdateProfileRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	u, err := h.Accounts.UpdateProfile(r.Context(), identity(r), domain.ProfilePatch{Name: req.Name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

func toSession(s service.Session) tasksdk.SessionResponse {
	return tasksdk.SessionResponse{
		AccessToken: s.Token.Token,
		TokenType:   "Bearer",
		ExpiresIn:   max(int(time.Until(s.Token.ExpiresAt).Seconds()), 0),
		ExpiresAt:   s.Token.ExpiresAt,
		User:        toUser(s.User),
	}
}
