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
	"fmt"

	"github.com/jmarkets/jmarkets/internal/storefront/core"
	"github.com/jmarkets/jmarkets/internal/storefront/model"
	"github.com/jmarkets/jmarkets/internal/storefront/repo"
	"github.com/jmarkets/jmarkets/pkg/log"
)

// MembershipService answers which organizations a user belongs to, in
// what role, and which one is the user's default.
type MembershipService struct {
	memberRepo repo.IMemberRepository
	orgRepo    repo.IOrganizationRepository
	permSvc    *PermissionService
}

func NewMembershipService(memberRepo repo.IMemberRepository, orgRepo repo.IOrganizationRepository, permSvc *PermissionService) *MembershipService {
	return &MembershipService{
		memberRepo: memberRepo,
		orgRepo:    orgRepo,
		permSvc:    permSvc,
	}
}

// OrganizationsForUser lists the user's organizations with their
// memberships, ordered by join time.
func (s *MembershipService) OrganizationsForUser(userId string) ([]model.MemberOrganization, error) {
	memberships, err := s.memberRepo.ListUserMemberships(userId)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	result := make([]model.MemberOrganization, 0, len(memberships))
	for _, m := range memberships {
		org, err := s.orgRepo.GetOrganization(m.OrgId)
		if err != nil {
			log.Warnw("membership points at missing organization", "orgId", m.OrgId, "userId", userId)
			continue
		}
		result = append(result, model.MemberOrganization{
			Organization: *org,
			Membership:   m,
		})
	}
	return result, nil
}

// Member returns the user's membership in an organization, or
// core.ErrNotAMember.
func (s *MembershipService) Member(orgId, userId string) (*model.OrganizationMember, error) {
	return s.memberRepo.GetMember(orgId, userId)
}

// ListMembers lists an organization's members.
func (s *MembershipService) ListMembers(orgId string) ([]model.OrganizationMember, error) {
	return s.memberRepo.ListMembers(orgId)
}

// DefaultOrganization returns the user's default organization. When the
// user has memberships but none is flagged default (the default org was
// removed, say), the earliest-joined remaining membership is promoted
// and persisted as part of this read.
func (s *MembershipService) DefaultOrganization(userId string) (*model.Organization, error) {
	def, err := s.memberRepo.GetDefaultMembership(userId)
	if err != nil {
		return nil, fmt.Errorf("get default membership: %w", err)
	}
	if def == nil {
		memberships, err := s.memberRepo.ListUserMemberships(userId)
		if err != nil {
			return nil, fmt.Errorf("list memberships: %w", err)
		}
		if len(memberships) == 0 {
			return nil, core.ErrNoDefaultOrganization
		}
		// memberships come back oldest-joined first
		promoted := memberships[0]
		if err := s.memberRepo.SetDefault(userId, promoted.OrgId); err != nil {
			return nil, fmt.Errorf("promote default membership: %w", err)
		}
		log.Infow("promoted earliest membership to default", "userId", userId, "orgId", promoted.OrgId)
		def = &promoted
	}
	return s.orgRepo.GetOrganization(def.OrgId)
}

// SetDefault atomically moves the user's default flag to orgId.
func (s *MembershipService) SetDefault(userId, orgId string) error {
	return s.memberRepo.SetDefault(userId, orgId)
}

// UpdateMemberRole changes a member's role. The role must be assignable
// within the organization.
func (s *MembershipService) UpdateMemberRole(orgId, userId, roleId string) error {
	if _, err := s.memberRepo.GetMember(orgId, userId); err != nil {
		return err
	}
	assignable, err := s.permSvc.IsAssignable(orgId, roleId)
	if err != nil {
		return err
	}
	if !assignable {
		return core.ErrRoleNotAssignable
	}
	return s.memberRepo.UpdateMemberRole(orgId, userId, roleId)
}

// RemoveMember deletes the membership.
func (s *MembershipService) RemoveMember(orgId, userId string) error {
	if _, err := s.memberRepo.GetMember(orgId, userId); err != nil {
		return err
	}
	return s.memberRepo.RemoveMember(orgId, userId)
}
