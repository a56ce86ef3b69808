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
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jmarkets/jmarkets/internal/storefront/core"
	"github.com/jmarkets/jmarkets/internal/storefront/model"
	"github.com/jmarkets/jmarkets/pkg/database"
)

type IInvitationRepository interface {
	CreateInvitation(inv *model.OrganizationInvitation) error
	GetByToken(token string) (*model.OrganizationInvitation, error)
	GetByInvitationId(invitationId string) (*model.OrganizationInvitation, error)
	ListByOrg(orgId string) ([]model.OrganizationInvitation, error)
	HasPendingForEmail(orgId, email string) (bool, error)
	// Accept flips pending to accepted and creates the membership in one
	// transaction. The status flip is a compare-and-swap: the row must
	// still be pending when the update lands, otherwise
	// core.ErrInvitationNotPending is returned and nothing changes.
	Accept(invitationId, userId string, member *model.OrganizationMember) error
	UpdateStatus(invitationId, from, to string) error
	// RegenerateToken issues a fresh token and deadline for a pending
	// invitation.
	RegenerateToken(invitationId, token string, expiresAt time.Time) error
	// ExpireOverdue flips every pending invitation past its deadline to
	// expired and reports how many rows changed.
	ExpireOverdue(now time.Time) (int64, error)
}

type InvitationRepo struct {
	db       database.IDatabase
	invModel *model.OrganizationInvitation
}

func NewInvitationRepo(db database.IDatabase) IInvitationRepository {
	return &InvitationRepo{
		db:       db,
		invModel: &model.OrganizationInvitation{},
	}
}

func (ir *InvitationRepo) CreateInvitation(inv *model.OrganizationInvitation) error {
	return ir.db.Database().Create(inv).Error
}

func (ir *InvitationRepo) GetByToken(token string) (*model.OrganizationInvitation, error) {
	var inv model.OrganizationInvitation
	err := ir.db.Database().Where("token = ?", token).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, core.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (ir *InvitationRepo) GetByInvitationId(invitationId string) (*model.OrganizationInvitation, error) {
	var inv model.OrganizationInvitation
	err := ir.db.Database().Where("invitation_id = ?", invitationId).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, core.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (ir *InvitationRepo) ListByOrg(orgId string) ([]model.OrganizationInvitation, error) {
	var invs []model.OrganizationInvitation
	err := ir.db.Database().
		Where("org_id = ?", orgId).
		Order("created_at DESC").
		Find(&invs).Error
	return invs, err
}

func (ir *InvitationRepo) HasPendingForEmail(orgId, email string) (bool, error) {
	var count int64
	err := ir.db.Database().Model(ir.invModel).
		Where("org_id = ? AND LOWER(email) = ? AND status = ?",
			orgId, strings.ToLower(email), model.InvitationPending).
		Count(&count).Error
	return count > 0, err
}

func (ir *InvitationRepo) Accept(invitationId, userId string, member *model.OrganizationMember) error {
	return ir.db.Database().Transaction(func(tx *gorm.DB) error {
		res := tx.Model(ir.invModel).
			Where("invitation_id = ? AND status = ?", invitationId, model.InvitationPending).
			Updates(map[string]interface{}{
				"status":      model.InvitationAccepted,
				"accepted_by": userId,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return core.ErrInvitationNotPending
		}
		return tx.Create(member).Error
	})
}

func (ir *InvitationRepo) UpdateStatus(invitationId, from, to string) error {
	res := ir.db.Database().Model(ir.invModel).
		Where("invitation_id = ? AND status = ?", invitationId, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return core.ErrInvitationNotPending
	}
	return nil
}

func (ir *InvitationRepo) RegenerateToken(invitationId, token string, expiresAt time.Time) error {
	res := ir.db.Database().Model(ir.invModel).
		Where("invitation_id = ? AND status = ?", invitationId, model.InvitationPending).
		Updates(map[string]interface{}{
			"token":      token,
			"expires_at": expiresAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return core.ErrInvitationNotPending
	}
	return nil
}

func (ir *InvitationRepo) ExpireOverdue(now time.Time) (int64, error) {
	res := ir.db.Database().Model(ir.invModel).
		Where("status = ? AND expires_at < ?", model.InvitationPending, now).
		Update("status", model.InvitationExpired)
	return res.RowsAffected, res.Error
}
