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

package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/jmarkets/jmarkets/internal/storefront/core"
	"github.com/jmarkets/jmarkets/internal/storefront/model"
	"github.com/jmarkets/jmarkets/pkg/database"
)

type IOrganizationRepository interface {
	CreateOrganization(org *model.Organization) error
	GetOrganization(orgId string) (*model.Organization, error)
	// GetActiveBySubdomain matches case-insensitively and only returns
	// active organizations; a deactivated one behaves as missing.
	GetActiveBySubdomain(ctx context.Context, subdomain string) (*model.Organization, error)
	GetActiveBySlug(ctx context.Context, slug string) (*model.Organization, error)
	SlugExists(slug string) (bool, error)
	SubdomainExists(subdomain string) (bool, error)
	UpdateSettings(orgId string, settings []byte) error
	UpdateSubdomain(orgId, subdomain string) error
	Deactivate(orgId string) error
}

type OrganizationRepo struct {
	db       database.IDatabase
	orgModel *model.Organization
}

func NewOrganizationRepo(db database.IDatabase) IOrganizationRepository {
	return &OrganizationRepo{
		db:       db,
		orgModel: &model.Organization{},
	}
}

func (or *OrganizationRepo) CreateOrganization(org *model.Organization) error {
	return or.db.Database().Create(org).Error
}

func (or *OrganizationRepo) GetOrganization(orgId string) (*model.Organization, error) {
	var org model.Organization
	err := or.db.Database().Where("org_id = ?", orgId).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, core.ErrOrganizationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (or *OrganizationRepo) GetActiveBySubdomain(ctx context.Context, subdomain string) (*model.Organization, error) {
	var org model.Organization
	err := or.db.Database().WithContext(ctx).
		Where("LOWER(subdomain) = ? AND is_active = ?", strings.ToLower(subdomain), model.OrgActive).
		First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, core.ErrOrganizationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (or *OrganizationRepo) GetActiveBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	var org model.Organization
	err := or.db.Database().WithContext(ctx).
		Where("LOWER(slug) = ? AND is_active = ?", strings.ToLower(slug), model.OrgActive).
		First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, core.ErrOrganizationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (or *OrganizationRepo) SlugExists(slug string) (bool, error) {
	var count int64
	err := or.db.Database().Model(or.orgModel).
		Where("LOWER(slug) = ?", strings.ToLower(slug)).
		Count(&count).Error
	return count > 0, err
}

func (or *OrganizationRepo) SubdomainExists(subdomain string) (bool, error) {
	var count int64
	err := or.db.Database().Model(or.orgModel).
		Where("LOWER(subdomain) = ?", strings.ToLower(subdomain)).
		Count(&count).Error
	return count > 0, err
}

func (or *OrganizationRepo) UpdateSettings(orgId string, settings []byte) error {
	return or.db.Database().Model(or.orgModel).
		Where("org_id = ?", orgId).
		Update("settings", settings).Error
}

func (or *OrganizationRepo) UpdateSubdomain(orgId, subdomain string) error {
	return or.db.Database().Model(or.orgModel).
		Where("org_id = ?", orgId).
		Update("subdomain", strings.ToLower(subdomain)).Error
}

func (or *OrganizationRepo) Deactivate(orgId string) error {
	return or.db.Database().Model(or.orgModel).
		Where("org_id = ?", orgId).
		Update("is_active", model.OrgInactive).Error
}
