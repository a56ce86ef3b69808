// Copyright 2026 JMarkets Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmarkets/jmarkets/internal/storefront/core"
	"github.com/jmarkets/jmarkets/internal/storefront/model"
	"github.com/jmarkets/jmarkets/internal/storefront/repo"
	"github.com/jmarkets/jmarkets/pkg/id"
	"github.com/jmarkets/jmarkets/pkg/log"
	"github.com/jmarkets/jmarkets/pkg/metrics"
)

const invitationTokenBytes = 32

// InvitationPolicy tunes the invitation lifecycle.
type InvitationPolicy struct {
	// ExpiryWindow is how long a fresh or resent invitation stays
	// acceptable.
	ExpiryWindow time.Duration
	// AllowEmailMismatch lets an authenticated account accept an
	// invitation addressed to a different email. Off by default: a
	// mismatch is a hard failure.
	AllowEmailMismatch bool
}

// DefaultInvitationPolicy is a 7 day window with strict email matching.
func DefaultInvitationPolicy() InvitationPolicy {
	return InvitationPolicy{ExpiryWindow: 7 * 24 * time.Hour}
}

// InvitationService drives the invitation state machine:
// pending is the only live state; accepted, cancelled and expired are
// terminal.
type InvitationService struct {
	invRepo    repo.IInvitationRepository
	memberRepo repo.IMemberRepository
	orgRepo    repo.IOrganizationRepository
	roleRepo   repo.IRoleRepository
	userRepo   repo.IUserRepository
	permSvc    *PermissionService
	policy     InvitationPolicy
	now        func() time.Time
}

func NewInvitationService(
	invRepo repo.IInvitationRepository,
	memberRepo repo.IMemberRepository,
	orgRepo repo.IOrganizationRepository,
	roleRepo repo.IRoleRepository,
	userRepo repo.IUserRepository,
	permSvc *PermissionService,
	policy InvitationPolicy,
) *InvitationService {
	if policy.ExpiryWindow <= 0 {
		policy.ExpiryWindow = DefaultInvitationPolicy().ExpiryWindow
	}
	return &InvitationService{
		invRepo:    invRepo,
		memberRepo: memberRepo,
		orgRepo:    orgRepo,
		roleRepo:   roleRepo,
		userRepo:   userRepo,
		permSvc:    permSvc,
		policy:     policy,
		now:        time.Now,
	}
}

// Issue creates a pending invitation with an unguessable token. It
// fails when the email already belongs to an active member, when a
// pending invitation for the same email exists, or when the role is
// not assignable within the organization.
func (s *InvitationService) Issue(orgId, email, roleId, invitedBy string) (*model.OrganizationInvitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}

	assignable, err := s.permSvc.IsAssignable(orgId, roleId)
	if err != nil {
		return nil, err
	}
	if !assignable {
		return nil, core.ErrRoleNotAssignable
	}

	if user, err := s.userRepo.GetByEmail(email); err != nil {
		return nil, fmt.Errorf("lookup invitee: %w", err)
	} else if user != nil {
		if _, err := s.memberRepo.GetMember(orgId, user.UserId); err == nil {
			return nil, core.ErrAlreadyMember
		} else if !errors.Is(err, core.ErrNotAMember) {
			return nil, err
		}
	}

	pending, err := s.invRepo.HasPendingForEmail(orgId, email)
	if err != nil {
		return nil, fmt.Errorf("check pending invitations: %w", err)
	}
	if pending {
		return nil, core.ErrInvitationPendingDuplicate
	}

	token := id.SecureToken(invitationTokenBytes)
	if token == "" {
		return nil, errors.New("generate token failed")
	}
	inv := &model.OrganizationInvitation{
		InvitationId: id.GetULID(),
		OrgId:        orgId,
		Email:        email,
		RoleId:       roleId,
		Token:        token,
		Status:       model.InvitationPending,
		InvitedBy:    invitedBy,
		ExpiresAt:    s.now().Add(s.policy.ExpiryWindow),
	}
	if err := s.invRepo.CreateInvitation(inv); err != nil {
		log.Errorw("create invitation failed", "orgId", orgId, "email", email, "error", err)
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	return inv, nil
}

// Preview returns the unauthenticated view of an invitation for
// pre-login display. An overdue pending invitation is reported as
// expired without mutating it.
func (s *InvitationService) Preview(token string) (*model.InvitationPreview, error) {
	inv, err := s.invRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	status := inv.Status
	if status == model.InvitationPending && inv.IsOverdue(s.now()) {
		status = model.InvitationExpired
	}

	preview := &model.InvitationPreview{
		Email:     inv.Email,
		Status:    status,
		ExpiresAt: inv.ExpiresAt,
	}
	if org, err := s.orgRepo.GetOrganization(inv.OrgId); err == nil {
		preview.OrgName = org.Name
		preview.OrgSlug = org.Slug
	}
	if role, err := s.roleRepo.GetRole(inv.RoleId); err == nil {
		preview.RoleName = role.DisplayName
	}
	if inviter, err := s.userRepo.GetByUserId(inv.InvitedBy); err == nil && inviter != nil {
		preview.InviterName = inviter.Username
	}
	return preview, nil
}

// Accept redeems a token for the authenticated user. The status flip is
// a compare-and-set, so of two concurrent accepts exactly one wins and
// the loser sees core.ErrInvitationNotPending. An overdue attempt flips
// the invitation to expired before failing, so a retry reports the
// terminal state rather than expiring again.
func (s *InvitationService) Accept(token, userId string) (*model.OrganizationMember, error) {
	inv, err := s.invRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if inv.Status != model.InvitationPending {
		return nil, core.ErrInvitationNotPending
	}
	if inv.IsOverdue(s.now()) {
		if err := s.invRepo.UpdateStatus(inv.InvitationId, model.InvitationPending, model.InvitationExpired); err != nil && !errors.Is(err, core.ErrInvitationNotPending) {
			log.Errorw("mark invitation expired failed", "invitationId", inv.InvitationId, "error", err)
		} else {
			metrics.InvitationTransitions.WithLabelValues(model.InvitationExpired).Inc()
		}
		return nil, core.ErrInvitationExpired
	}

	user, err := s.userRepo.GetByUserId(userId)
	if err != nil {
		return nil, fmt.Errorf("lookup acceptor: %w", err)
	}
	if user == nil {
		return nil, errors.New("acceptor account not found")
	}
	if !strings.EqualFold(user.Email, inv.Email) {
		if !s.policy.AllowEmailMismatch {
			return nil, core.ErrInvitationEmailMismatch
		}
		log.Warnw("invitation accepted by different email", "invitationId", inv.InvitationId, "invitee", inv.Email, "acceptor", user.Email)
	}

	if _, err := s.memberRepo.GetMember(inv.OrgId, userId); err == nil {
		return nil, core.ErrAlreadyMember
	} else if !errors.Is(err, core.ErrNotAMember) {
		return nil, err
	}

	existing, err := s.memberRepo.ListUserMemberships(userId)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	isDefault := model.MemberNotDefault
	if len(existing) == 0 {
		// first organization becomes the default
		isDefault = model.MemberDefault
	}

	member := &model.OrganizationMember{
		MemberId:  id.GetUUIDWithoutDashes(),
		OrgId:     inv.OrgId,
		UserId:    userId,
		RoleId:    inv.RoleId,
		IsDefault: isDefault,
		InvitedBy: inv.InvitedBy,
		JoinedAt:  s.now(),
	}
	if err := s.invRepo.Accept(inv.InvitationId, userId, member); err != nil {
		return nil, err
	}
	metrics.InvitationTransitions.WithLabelValues(model.InvitationAccepted).Inc()
	return member, nil
}

// Cancel voids a pending invitation.
func (s *InvitationService) Cancel(orgId, invitationId string) error {
	inv, err := s.invRepo.GetByInvitationId(invitationId)
	if err != nil {
		return err
	}
	if inv.OrgId != orgId {
		return core.ErrInvitationNotFound
	}
	if err := s.invRepo.UpdateStatus(invitationId, model.InvitationPending, model.InvitationCancelled); err != nil {
		return err
	}
	metrics.InvitationTransitions.WithLabelValues(model.InvitationCancelled).Inc()
	return nil
}

// Resend regenerates the token and extends the deadline of a pending
// invitation without changing its status. The old token stops working.
func (s *InvitationService) Resend(orgId, invitationId string) (*model.OrganizationInvitation, error) {
	inv, err := s.invRepo.GetByInvitationId(invitationId)
	if err != nil {
		return nil, err
	}
	if inv.OrgId != orgId {
		return nil, core.ErrInvitationNotFound
	}
	if inv.Status != model.InvitationPending {
		return nil, core.ErrInvitationNotPending
	}
	token := id.SecureToken(invitationTokenBytes)
	if token == "" {
		return nil, errors.New("generate token failed")
	}
	expiresAt := s.now().Add(s.policy.ExpiryWindow)
	if err := s.invRepo.RegenerateToken(invitationId, token, expiresAt); err != nil {
		return nil, err
	}
	metrics.InvitationTransitions.WithLabelValues("resent").Inc()
	inv.Token = token
	inv.ExpiresAt = expiresAt
	return inv, nil
}

// ListByOrg lists an organization's invitations, newest first.
func (s *InvitationService) ListByOrg(orgId string) ([]model.OrganizationInvitation, error) {
	return s.invRepo.ListByOrg(orgId)
}

// ExpireOverdue sweeps every pending invitation past its deadline to
// expired. Run periodically; accept handles stragglers inline.
func (s *InvitationService) ExpireOverdue() (int64, error) {
	n, err := s.invRepo.ExpireOverdue(s.now())
	if err != nil {
		log.Errorw("invitation expiry sweep failed", "error", err)
		return 0, err
	}
	if n > 0 {
		log.Infow("expired overdue invitations", "count", n)
		metrics.InvitationTransitions.WithLabelValues(model.InvitationExpired).Add(float64(n))
	}
	return n, nil
}
