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
	"errors"

	"gorm.io/gorm"

	"github.com/jmarkets/jmarkets/internal/storefront/core"
	"github.com/jmarkets/jmarkets/internal/storefront/model"
	"github.com/jmarkets/jmarkets/pkg/database"
)

type IMemberRepository interface {
	GetMember(orgId, userId string) (*model.OrganizationMember, error)
	ListMembers(orgId string) ([]model.OrganizationMember, error)
	// ListUserMemberships returns all of a user's memberships ordered by
	// join time, oldest first.
	ListUserMemberships(userId string) ([]model.OrganizationMember, error)
	GetDefaultMembership(userId string) (*model.OrganizationMember, error)
	AddMember(member *model.OrganizationMember) error
	UpdateMemberRole(orgId, userId, roleId string) error
	RemoveMember(orgId, userId string) error
	// SetDefault clears any existing default for the user and marks the
	// given organization's membership as default, in one transaction.
	SetDefault(userId, orgId string) error
}

type MemberRepo struct {
	db          database.IDatabase
	memberModel *model.OrganizationMember
}

func NewMemberRepo(db database.IDatabase) IMemberRepository {
	return &MemberRepo{
		db:          db,
		memberModel: &model.OrganizationMember{},
	}
}

func (mr *MemberRepo) GetMember(orgId, userId string) (*model.OrganizationMember, error) {
	var member model.OrganizationMember
	err := mr.db.Database().
		Where("org_id = ? AND user_id = ?", orgId, userId).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, core.ErrNotAMember
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (mr *MemberRepo) ListMembers(orgId string) ([]model.OrganizationMember, error) {
	var members []model.OrganizationMember
	err := mr.db.Database().
		Where("org_id = ?", orgId).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

func (mr *MemberRepo) ListUserMemberships(userId string) ([]model.OrganizationMember, error) {
	var members []model.OrganizationMember
	err := mr.db.Database().
		Where("user_id = ?", userId).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

func (mr *MemberRepo) GetDefaultMembership(userId string) (*model.OrganizationMember, error) {
	var member model.OrganizationMember
	err := mr.db.Database().
		Where("user_id = ? AND is_default = ?", userId, model.MemberDefault).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (mr *MemberRepo) AddMember(member *model.OrganizationMember) error {
	return mr.db.Database().Create(member).Error
}

func (mr *MemberRepo) UpdateMemberRole(orgId, userId, roleId string) error {
	return mr.db.Database().Model(mr.memberModel).
		Where("org_id = ? AND user_id = ?", orgId, userId).
		Update("role_id", roleId).Error
}

func (mr *MemberRepo) RemoveMember(orgId, userId string) error {
	return mr.db.Database().
		Where("org_id = ? AND user_id = ?", orgId, userId).
		Delete(mr.memberModel).Error
}

func (mr *MemberRepo) SetDefault(userId, orgId string) error {
	return mr.db.Database().Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(mr.memberModel).
			Where("user_id = ? AND is_default = ?", userId, model.MemberDefault).
			Update("is_default", model.MemberNotDefault).Error; err != nil {
			return err
		}
		res := tx.Model(mr.memberModel).
			Where("org_id = ? AND user_id = ?", orgId, userId).
			Update("is_default", model.MemberDefault)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return core.ErrNotAMember
		}
		return nil
	})
}
