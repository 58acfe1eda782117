package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// harness bundles every service over one in-memory store.
type harness struct {
	clock *clock

	Identity      *IdentityService
	Accounts      *AccountService
	Organizations *OrganizationService
	Projects      *ProjectService
	Tasks         *TaskService
	Tracking      *TrackingService
	Meetings      *MeetingService
	Dashboard     *DashboardService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	keys, err := jwtx.NewKeyManager(jwtx.Options{Issuer: "taskboard-test", NumKeys: 1})
	require.NoError(t, err)

	c := &clock{now: t0}
	deps := Deps{Store: st, Timeout: 10 * time.Second, Clock: c.Now}

	hasher := &cryptox.Hasher{
		Pepper: "pepper",
		Params: cryptox.Params{Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 16, SaltLength: 8},
	}

	return &harness{
		clock:         c,
		Identity:      &IdentityService{Deps: deps},
		Accounts:      &AccountService{Deps: deps, Hasher: hasher, Tokens: &TokenService{Keys: keys, Issuer: "taskboard-test", Clock: c.Now}},
		Organizations: &OrganizationService{Deps: deps},
		Projects:      &ProjectService{Deps: deps},
		Tasks:         &TaskService{Deps: deps},
		Tracking:      &TrackingService{Deps: deps},
		Meetings:      &MeetingService{Deps: deps},
		Dashboard:     &DashboardService{Deps: deps},
	}
}

// register signs up name with the given organization options and returns
// the resolved identity.
func (h *harness) register(t *testing.T, name string, r Registration) domain.Identity {
	t.Helper()

	r.Username = name
	r.Email = name + "@example.com"
	r.Password = "correct horse battery"
	r.Name = name

	sess, err := h.Accounts.Register(context.Background(), r)
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token.Token)

	id, err := h.Identity.Resolve(context.Background(), sess.User.ID)
	require.NoError(t, err)
	return id
}

// acme is the shared fixture: admin alice owns Acme, erin joined with the
// invite code, and project P has erin on its team.
type acme struct {
	org     domain.Organization
	alice   domain.Identity
	erin    domain.Identity
	project domain.Project
}

func (h *harness) acme(t *testing.T) acme {
	t.Helper()
	ctx := context.Background()

	var f acme
	f.alice = h.register(t, "alice", Registration{OrganizationName: "Acme"})

	org, err := h.Organizations.Get(ctx, f.alice)
	require.NoError(t, err)
	f.org = org

	f.erin = h.register(t, "erin", Registration{InviteCode: org.InviteCode})

	p, err := h.Projects.Create(ctx, f.alice, NewProject{Name: "P"})
	require.NoError(t, err)
	p, err = h.Projects.AddMember(ctx, f.alice, p.ID, f.erin.UserID, "")
	require.NoError(t, err)
	f.project = p

	return f
}

func TestDepsNow(t *testing.T) {
	t.Parallel()

	local := time.FixedZone("AEST", 10*60*60)
	d := Deps{Clock: func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 6_789_000, local) }}

	now := d.Now()
	require.Equal(t, time.UTC, now.Location())
	require.Equal(t, 6_000_000, now.Nanosecond())
}

func TestCanceledContextIsUnavailable(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	f := h.acme(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Projects.List(ctx, f.alice)
	require.ErrorIs(t, err, domain.ErrUnavailable)
}
