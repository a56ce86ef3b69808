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

type IRoleRepository interface {
	GetRole(roleId string) (*model.Role, error)
	// ListAssignableRoles returns enabled system roles minus platform-wide
	// ones, plus the organization's own custom roles.
	ListAssignableRoles(orgId string) ([]model.Role, error)
	CreateRole(role *model.Role, permissions []model.RolePermission) error
	// ReplacePermissions swaps out a role's matrix rows in one transaction.
	ReplacePermissions(roleId string, permissions []model.RolePermission) error
	GetRolePermissions(roleId string) ([]model.RolePermission, error)
	ListAllPermissions() ([]model.RolePermission, error)
	SeedSystemRoles(roles []model.Role, permissions map[string][]model.RolePermission) error
}

type RoleRepo struct {
	db        database.IDatabase
	roleModel *model.Role
	permModel *model.RolePermission
}

func NewRoleRepo(db database.IDatabase) IRoleRepository {
	return &RoleRepo{
		db:        db,
		roleModel: &model.Role{},
		permModel: &model.RolePermission{},
	}
}

func (rr *RoleRepo) GetRole(roleId string) (*model.Role, error) {
	var role model.Role
	err := rr.db.Database().
		Where("role_id = ? AND is_enabled = ?", roleId, model.RoleEnabled).
		First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, core.ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (rr *RoleRepo) ListAssignableRoles(orgId string) ([]model.Role, error) {
	var roles []model.Role
	err := rr.db.Database().
		Where("is_enabled = ?", model.RoleEnabled).
		Where("(is_system = ? AND org_id = '' AND role_id <> ?) OR org_id = ?",
			model.RoleSystem, model.RolePlatformAdmin, orgId).
		Order("is_system DESC, name ASC").
		Find(&roles).Error
	return roles, err
}

func (rr *RoleRepo) CreateRole(role *model.Role, permissions []model.RolePermission) error {
	return rr.db.Database().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return err
		}
		if len(permissions) == 0 {
			return nil
		}
		for i := range permissions {
			permissions[i].RoleId = role.RoleId
		}
		return tx.Create(&permissions).Error
	})
}

func (rr *RoleRepo) ReplacePermissions(roleId string, permissions []model.RolePermission) error {
	return rr.db.Database().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleId).Delete(rr.permModel).Error; err != nil {
			return err
		}
		if len(permissions) == 0 {
			return nil
		}
		for i := range permissions {
			permissions[i].RoleId = roleId
		}
		return tx.Create(&permissions).Error
	})
}

func (rr *RoleRepo) GetRolePermissions(roleId string) ([]model.RolePermission, error) {
	var perms []model.RolePermission
	err := rr.db.Database().
		Where("role_id = ?", roleId).
		Find(&perms).Error
	return perms, err
}

func (rr *RoleRepo) ListAllPermissions() ([]model.RolePermission, error) {
	var perms []model.RolePermission
	err := rr.db.Database().Find(&perms).Error
	return perms, err
}

// SeedSystemRoles installs the built-in roles and their matrices,
// skipping any role that already exists. Safe to run repeatedly.
func (rr *RoleRepo) SeedSystemRoles(roles []model.Role, permissions map[string][]model.RolePermission) error {
	return rr.db.Database().Transaction(func(tx *gorm.DB) error {
		for _, role := range roles {
			var count int64
			if err := tx.Model(rr.roleModel).
				Where("role_id = ?", role.RoleId).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			r := role
			if err := tx.Create(&r).Error; err != nil {
				return err
			}
			perms := permissions[role.RoleId]
			for i := range perms {
				perms[i].RoleId = role.RoleId
			}
			if len(perms) > 0 {
				if err := tx.Create(&perms).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
