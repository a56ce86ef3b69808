package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmarkets/jmarkets/internal/storefront/core"
	"github.com/jmarkets/jmarkets/internal/storefront/model"
)

type invitationFixture struct {
	store *memStore
	svc   *InvitationService
}

func newInvitationFixture(t *testing.T, policy InvitationPolicy) *invitationFixture {
	t.Helper()
	ms := newMemStore()
	ms.orgs["org-1"] = &model.Organization{OrgId: "org-1", Name: "Acme", Slug: "acme", Subdomain: "acme", IsActive: model.OrgActive}
	ms.users["user-admin"] = &model.User{UserId: "user-admin", Username: "admin", Email: "admin@acme.test"}
	ms.users["user-new"] = &model.User{UserId: "user-new", Username: "newbie", Email: "newbie@example.test"}
	ms.members[memberKey("org-1", "user-admin")] = &model.OrganizationMember{
		MemberId: "m-1", OrgId: "org-1", UserId: "user-admin", RoleId: model.RoleAdmin, IsDefault: model.MemberDefault, JoinedAt: time.Now(),
	}
	permSvc := NewPermissionService(&memRoleRepo{s: ms})
	svc := NewInvitationService(
		&memInvitationRepo{s: ms},
		&memMemberRepo{s: ms},
		&memOrgRepo{s: ms},
		&memRoleRepo{s: ms},
		&memUserRepo{s: ms},
		permSvc,
		policy,
	)
	return &invitationFixture{store: ms, svc: svc}
}

func TestInvitation_IssueAndAccept(t *testing.T) {
	f := newInvitationFixture(t, DefaultInvitationPolicy())

	inv, err := f.svc.Issue("org-1", "newbie@example.test", model.RoleStaff, "user-admin")
	require.NoError(t, err)
	assert.Equal(t, model.InvitationPending, inv.Status)
	assert.NotEmpty(t, inv.Token)

	member, err := f.svc.Accept(inv.Token, "user-new")
	require.NoError(t, err)
	assert.Equal(t, "org-1", member.OrgId)
	assert.Equal(t, model.RoleStaff, member.RoleId)
	// first organization becomes the default
	assert.Equal(t, model.MemberDefault, member.IsDefault)

	stored, err := f.store.invitationByToken(inv.Token)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationAccepted, stored.Status)
	assert.Equal(t, "user-new", stored.AcceptedBy)
}

// Invitation ids are ULIDs: fixed 26-character form, and issuance
// order is preserved lexicographically.
func TestInvitation_IdsAreSortableUlids(t *testing.T) {
	f := newInvitationFixture(t, DefaultInvitationPolicy())

	first, err := f.svc.Issue("org-1", "a@example.test", model.RoleStaff, "user-admin")
	require.NoError(t, err)
	second, err := f.svc.Issue("org-1", "b@example.test", model.RoleStaff, "user-admin")
	require.NoError(t, err)

	assert.Len(t, first.InvitationId, 26)
	assert.Len(t, second.InvitationId, 26)
	assert.NotEqual(t, first.InvitationId, second.InvitationId)
	assert.LessOrEqual(t, first.InvitationId, second.InvitationId)
}

func TestInvitation_IssueGuards(t *testing.T) {
	f := newInvitationFixture(t, DefaultInvitationPolicy())

	t.Run("active member cannot be invited", func(t *testing.T) {
		_, err := f.svc.Issue("org-1", "admin@acme.test", model.RoleStaff, "user-admin")
		assert.ErrorIs(t, err, core.ErrAlreadyMember)
	})

	t.Run("platform admin role not assignable", func(t *testing.T) {
		_, err := f.svc.Issue("org-1", "newbie@example.test", model.RolePlatformAdmin, "user-admin")
		assert.ErrorIs(t, err, core.ErrRoleNotAssignable)
	})

	t.Run("duplicate pending invitation rejected", func(t *testing.T) {
		_, err := f.svc.Issue("org-1", "newbie@example.test", model.RoleStaff, "user-admin")
		require.NoError(t, err)
		_, err = f.svc.Issue("org-1", "Newbie@Example.Test", model.RoleStaff, "user-admin")
		assert.ErrorIs(t, err, core.ErrInvitationPendingDuplicate)
	})
}

func TestInvitation_ExpiryThenAlreadyResolved(t *testing.T) {
	f := newInvitationFixture(t, DefaultInvitationPolicy())

	issued := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return issued }
	inv, err := f.svc.Issue("org-1", "newbie@example.test", model.RoleStaff, "user-admin")
	require.NoError(t, err)

	// day 8: past the 7 day window
	f.svc.now = func() time.Time { return issued.Add(8 * 24 * time.Hour) }
	_, err = f.svc.Accept(inv.Token, "user-new")
	assert.ErrorIs(t, err, core.ErrInvitationExpired)

	// the failed attempt persisted the expired state, so a retry reports
	// the terminal state rather than expiring again
	_, err = f.svc.Accept(inv.Token, "user-new")
	assert.ErrorIs(t, err, core.ErrInvitationNotPending)

	stored, err := f.store.invitationByToken(inv.Token)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationExpired, stored.Status)
}

func TestInvitation_EmailMismatch(t *testing.T) {
	t.Run("strict policy hard-fails", func(t *testing.T) {
		f := newInvitationFixture(t, DefaultInvitationPolicy())
		f.store.users["user-other"] = &model.User{UserId: "user-other", Username: "other", Email: "other@example.test"}

		inv, err := f.svc.Issue("org-1", "newbie@example.test", model.RoleStaff, "user-admin")
		require.NoError(t, err)
		_, err = f.svc.Accept(inv.Token, "user-other")
		assert.ErrorIs(t, err, core.ErrInvitationEmailMismatch)
	})

	t.Run("lax policy allows with warning", func(t *testing.T) {
		f := newInvitationFixture(t, InvitationPolicy{ExpiryWindow: 7 * 24 * time.Hour, AllowEmailMismatch: true})
		f.store.users["user-other"] = &model.User{UserId: "user-other", Username: "other", Email: "other@example.test"}

		inv, err := f.svc.Issue("org-1", "newbie@example.test", model.RoleStaff, "user-admin")
		require.NoError(t, err)
		member, err := f.svc.Accept(inv.Token, "user-other")
		require.NoError(t, err)
		assert.Equal(t, "user-other", member.UserId)
	})

	t.Run("case differences are not a mismatch", func(t *testing.T) {
		f := newInvitationFixture(t, DefaultInvitationPolicy())
		inv, err := f.svc.Issue("org-1", "Newbie@Example.Test", model.RoleStaff, "user-admin")
		require.NoError(t, err)
		_, err = f.svc.Accept(inv.Token, "user-new")
		assert.NoError(t, err)
	})
}

func TestInvitation_ConcurrentAcceptSingleWinner(t *testing.T) {
	f := newInvitationFixture(t, DefaultInvitationPolicy())

	inv, err := f.svc.Issue("org-1", "newbie@example.test", model.RoleStaff, "user-admin")
	require.NoError(t, err)

	const goroutines = 16
	var wg sync.WaitGroup
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Accept(inv.Token, "user-new")
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	stored, err := f.store.invitationByToken(inv.Token)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationAccepted, stored.Status)
}

func TestInvitation_MonotonicTransitions(t *testing.T) {
	f := newInvitationFixture(t, DefaultInvitationPolicy())

	inv, err := f.svc.Issue("org-1", "newbie@example.test", model.RoleStaff, "user-admin")
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel("org-1", inv.InvitationId))

	// no path leads out of a terminal state
	err = f.svc.Cancel("org-1", inv.InvitationId)
	assert.ErrorIs(t, err, core.ErrInvitationNotPending)
	_, err = f.svc.Resend("org-1", inv.InvitationId)
	assert.ErrorIs(t, err, core.ErrInvitationNotPending)
	_, err = f.svc.Accept(inv.Token, "user-new")
	assert.ErrorIs(t, err, core.ErrInvitationNotPending)
}

func TestInvitation_ResendRotatesToken(t *testing.T) {
	f := newInvitationFixture(t, DefaultInvitationPolicy())

	inv, err := f.svc.Issue("org-1", "newbie@example.test", model.RoleStaff, "user-admin")
	require.NoError(t, err)
	oldToken := inv.Token

	resent, err := f.svc.Resend("org-1", inv.InvitationId)
	require.NoError(t, err)
	assert.NotEqual(t, oldToken, resent.Token)
	assert.Equal(t, model.InvitationPending, resent.Status)

	// the old token stops working
	_, err = f.svc.Accept(oldToken, "user-new")
	assert.ErrorIs(t, err, core.ErrInvitationNotFound)

	_, err = f.svc.Accept(resent.Token, "user-new")
	assert.NoError(t, err)
}

func TestInvitation_CrossOrgInvisibility(t *testing.T) {
	f := newInvitationFixture(t, DefaultInvitationPolicy())

	inv, err := f.svc.Issue("org-1", "newbie@example.test", model.RoleStaff, "user-admin")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Cancel("org-2", inv.InvitationId), core.ErrInvitationNotFound)
	_, err = f.svc.Resend("org-2", inv.InvitationId)
	assert.ErrorIs(t, err, core.ErrInvitationNotFound)
}

func TestInvitation_ExpireOverdueSweep(t *testing.T) {
	f := newInvitationFixture(t, DefaultInvitationPolicy())

	issued := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return issued }
	_, err := f.svc.Issue("org-1", "a@example.test", model.RoleStaff, "user-admin")
	require.NoError(t, err)
	_, err = f.svc.Issue("org-1", "b@example.test", model.RoleStaff, "user-admin")
	require.NoError(t, err)

	f.svc.now = func() time.Time { return issued.Add(30 * 24 * time.Hour) }
	fresh, err := f.svc.Issue("org-1", "c@example.test", model.RoleStaff, "user-admin")
	require.NoError(t, err)

	n, err := f.svc.ExpireOverdue()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	stored, err := f.store.invitationByToken(fresh.Token)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationPending, stored.Status)
}

func TestInvitation_Preview(t *testing.T) {
	f := newInvitationFixture(t, DefaultInvitationPolicy())

	inv, err := f.svc.Issue("org-1", "newbie@example.test", model.RoleStaff, "user-admin")
	require.NoError(t, err)

	preview, err := f.svc.Preview(inv.Token)
	require.NoError(t, err)
	assert.Equal(t, "Acme", preview.OrgName)
	assert.Equal(t, "acme", preview.OrgSlug)
	assert.Equal(t, "newbie@example.test", preview.Email)
	assert.Equal(t, "Staff", preview.RoleName)
	assert.Equal(t, "admin", preview.InviterName)
	assert.Equal(t, model.InvitationPending, preview.Status)

	// overdue pending invitations preview as expired without mutation
	f.svc.now = func() time.Time { return inv.ExpiresAt.Add(time.Hour) }
	preview, err = f.svc.Preview(inv.Token)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationExpired, preview.Status)
	stored, err := f.store.invitationByToken(inv.Token)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationPending, stored.Status)
}
