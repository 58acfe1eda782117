package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

type AccountService struct {
	Deps
	Hasher *cryptox.Hasher
	Tokens *TokenService
}

// Registration is a sign-up request. OrganizationName and InviteCode are
// mutually exclusive; with neither the user starts without an organization.
type Registration struct {
	Username string
	Email    string
	Password string
	Name     string

	OrganizationName        string
	OrganizationDescription string

	InviteCode string
}

// Session is what a successful sign-up or login returns.
type Session struct {
	Token AccessToken
	User  domain.User
}

// Register creates an account and, depending on the request, a new
// organization owned by it or a membership in an existing one.
func (s *AccountService) Register(ctx context.Context, r Registration) (Session, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	r.Username = strings.TrimSpace(r.Username)
	r.Email = domain.NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	r.InviteCode = strings.ToUpper(strings.TrimSpace(r.InviteCode))

	if err := domain.ValidateUsername(r.Username); err != nil {
		return Session{}, err
	}
	if err := domain.ValidateEmail(r.Email); err != nil {
		return Session{}, err
	}
	if err := domain.ValidatePassword(r.Password); err != nil {
		return Session{}, err
	}
	if len(r.Name) > domain.MaxNameLength {
		return Session{}, domain.Validation("name must be at most %d characters", domain.MaxNameLength)
	}
	if r.OrganizationName != "" && r.InviteCode != "" {
		return Session{}, domain.Validation("choose either a new organization or an invite code, not both")
	}

	orgName := ""
	if r.OrganizationName != "" {
		var err error
		if orgName, err = domain.RequireText("organization name", r.OrganizationName); err != nil {
			return Session{}, err
		}
	}

	// 2. Hash the password outside any transaction.
	hash, err := s.Hasher.Hash(r.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return Session{}, domain.Internal("hash password", err)
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	now := s.Now()
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Username:     r.Username,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: hash,
		Role:         domain.RoleEmployee,
		Status:       domain.UserPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 3. Resolve the invite code before writing anything.
	var joining domain.Organization
	if r.InviteCode != "" {
		if joining, err = s.Store.Organizations().GetOrganizationByInviteCode(ctx, r.InviteCode); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Warn("registration with unknown invite code")
				return Session{}, domain.NotFound("organization")
			}
			return Session{}, fail(ctx, "organization", err)
		}
	}

	// 4. Create the user and its membership atomically.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return domain.Conflict("username or email already taken")
			}
			return err
		}

		switch {
		case orgName != "":
			_, err := createOrganization(ctx, tx, &u, orgName, r.OrganizationDescription, now)
			return err
		case r.InviteCode != "":
			return joinOrganization(ctx, tx, &u, joining, now)
		}
		return nil
	})
	if err != nil {
		return Session{}, fail(ctx, "user", err)
	}

	log.Info("user registered",
		slog.String("user_id", u.ID),
		slog.String("organization_id", u.OrganizationID),
		slog.String("role", string(u.Role)),
	)

	return s.session(u)
}

// Login accepts a username or an email address as login.
func (s *AccountService) Login(ctx context.Context, login, password string) (Session, error) {
	log := slogx.FromContext(ctx)

	ctx, cancel := s.bound(ctx)
	defer cancel()

	login = strings.TrimSpace(login)
	var (
		u   domain.User
		err error
	)
	if strings.Contains(login, "@") {
		u, err = s.Store.Users().GetUserByEmail(ctx, domain.NormalizeEmail(login))
	} else {
		u, err = s.Store.Users().GetUserByUsername(ctx, login)
	}

	invalid := domain.InvalidCredential("invalid login or password")
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("login for unknown account")
		return Session{}, invalid
	}
	if err != nil {
		return Session{}, fail(ctx, "user", err)
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		log.Warn("login with wrong password", slog.String("user_id", u.ID))
		return Session{}, invalid
	}
	if u.Status == domain.UserInactive {
		return Session{}, domain.InvalidCredential("account is inactive")
	}

	return s.session(u)
}

// Me returns the caller's account.
func (s *AccountService) Me(ctx context.Context, id domain.Identity) (domain.User, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	u, err := s.Store.Users().GetUserByID(ctx, id.UserID)
	return u, fail(ctx, "user", err)
}

// UpdateProfile applies the self-service fields of patch.
func (s *AccountService) UpdateProfile(ctx context.Context, id domain.Identity, patch domain.ProfilePatch) (domain.User, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if len(name) > domain.MaxNameLength {
			return domain.User{}, domain.Validation("name must be at most %d characters", domain.MaxNameLength)
		}
		patch.Name = &name
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	u, err := s.Store.Users().GetUserByID(ctx, id.UserID)
	if err != nil {
		return domain.User{}, fail(ctx, "user", err)
	}

	if patch.Name != nil {
		u.Name = *patch.Name
	}
	u.UpdatedAt = s.Now()

	if err := s.Store.Users().UpdateProfile(ctx, u); err != nil {
		return domain.User{}, fail(ctx, "user", err)
	}
	return u, nil
}

func (s *AccountService) session(u domain.User) (Session, error) {
	tok, err := s.Tokens.Issue(u)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: tok, User: u}, nil
}
