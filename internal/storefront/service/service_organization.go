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
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/jmarkets/jmarkets/internal/storefront/core"
	"github.com/jmarkets/jmarkets/internal/storefront/model"
	"github.com/jmarkets/jmarkets/internal/storefront/repo"
	"github.com/jmarkets/jmarkets/internal/storefront/tenant"
	"github.com/jmarkets/jmarkets/pkg/id"
	"github.com/jmarkets/jmarkets/pkg/log"
)

// OrganizationService handles the organization lifecycle: signup,
// settings, subdomain regeneration and deactivation. Mutations that
// change the subdomain mapping invalidate the tenant directory before
// returning.
type OrganizationService struct {
	orgRepo    repo.IOrganizationRepository
	memberRepo repo.IMemberRepository
	directory  *tenant.Directory
	now        func() time.Time
}

func NewOrganizationService(orgRepo repo.IOrganizationRepository, memberRepo repo.IMemberRepository, directory *tenant.Directory) *OrganizationService {
	return &OrganizationService{
		orgRepo:    orgRepo,
		memberRepo: memberRepo,
		directory:  directory,
		now:        time.Now,
	}
}

// CreateOrganization signs up a new store. The creating user becomes
// the owner member; when it is their first organization it also becomes
// their default.
func (s *OrganizationService) CreateOrganization(req *model.CreateOrganizationReq, ownerUserId string) (*model.Organization, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))
	if req.Name == "" || slug == "" {
		return nil, errors.New("name and slug are required")
	}

	available, err := s.directory.IsSlugAvailable(slug)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if !available {
		return nil, core.ErrSlugTaken
	}
	if subdomain != "" {
		available, err = s.directory.IsSubdomainAvailable(subdomain)
		if err != nil {
			return nil, fmt.Errorf("check subdomain: %w", err)
		}
		if !available {
			return nil, core.ErrSubdomainTaken
		}
	}

	settings, err := sonic.Marshal(model.OrganizationSettings{})
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}

	org := &model.Organization{
		OrgId:       id.GetUUIDWithoutDashes(),
		Name:        req.Name,
		Slug:        slug,
		Subdomain:   subdomain,
		Settings:    settings,
		OwnerUserId: ownerUserId,
		IsActive:    model.OrgActive,
	}
	if err := s.orgRepo.CreateOrganization(org); err != nil {
		log.Errorw("create organization failed", "slug", slug, "error", err)
		return nil, fmt.Errorf("create organization: %w", err)
	}

	existing, err := s.memberRepo.ListUserMemberships(ownerUserId)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	isDefault := model.MemberNotDefault
	if len(existing) == 0 {
		isDefault = model.MemberDefault
	}
	member := &model.OrganizationMember{
		MemberId:  id.GetUUIDWithoutDashes(),
		OrgId:     org.OrgId,
		UserId:    ownerUserId,
		RoleId:    model.RoleOwner,
		IsDefault: isDefault,
		JoinedAt:  s.now(),
	}
	if err := s.memberRepo.AddMember(member); err != nil {
		log.Errorw("create owner membership failed", "orgId", org.OrgId, "userId", ownerUserId, "error", err)
		return nil, fmt.Errorf("create owner membership: %w", err)
	}
	return org, nil
}

// GetOrganization fetches one organization by id.
func (s *OrganizationService) GetOrganization(orgId string) (*model.Organization, error) {
	return s.orgRepo.GetOrganization(orgId)
}

// UpdateSettings replaces the organization's settings document.
func (s *OrganizationService) UpdateSettings(orgId string, req *model.UpdateOrganizationSettingsReq) error {
	settings, err := sonic.Marshal(req.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	return s.orgRepo.UpdateSettings(orgId, settings)
}

// ChangeSubdomain regenerates the subdomain mapping. The old cached
// mapping is invalidated before the call returns so no response can
// still observe it.
func (s *OrganizationService) ChangeSubdomain(ctx context.Context, orgId string, req *model.ChangeSubdomainReq) error {
	subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))
	if subdomain == "" {
		return errors.New("subdomain is required")
	}
	available, err := s.directory.IsSubdomainAvailable(subdomain)
	if err != nil {
		return fmt.Errorf("check subdomain: %w", err)
	}
	if !available {
		return core.ErrSubdomainTaken
	}

	org, err := s.orgRepo.GetOrganization(orgId)
	if err != nil {
		return err
	}
	if err := s.orgRepo.UpdateSubdomain(orgId, subdomain); err != nil {
		log.Errorw("update subdomain failed", "orgId", orgId, "error", err)
		return fmt.Errorf("update subdomain: %w", err)
	}
	if org.Subdomain != "" {
		if err := s.directory.InvalidateSubdomain(ctx, org.Subdomain); err != nil {
			log.Errorw("invalidate old subdomain mapping failed", "subdomain", org.Subdomain, "error", err)
			return err
		}
	}
	return s.directory.InvalidateSubdomain(ctx, subdomain)
}

// Deactivate soft-disables the organization. From the outside a
// deactivated store is indistinguishable from a missing one.
func (s *OrganizationService) Deactivate(ctx context.Context, orgId string) error {
	org, err := s.orgRepo.GetOrganization(orgId)
	if err != nil {
		return err
	}
	if err := s.orgRepo.Deactivate(orgId); err != nil {
		log.Errorw("deactivate organization failed", "orgId", orgId, "error", err)
		return fmt.Errorf("deactivate organization: %w", err)
	}
	if org.Subdomain != "" {
		return s.directory.InvalidateSubdomain(ctx, org.Subdomain)
	}
	return nil
}
