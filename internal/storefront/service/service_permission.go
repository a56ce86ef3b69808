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
	"sync"

	"github.com/jmarkets/jmarkets/internal/storefront/core"
	"github.com/jmarkets/jmarkets/internal/storefront/model"
	"github.com/jmarkets/jmarkets/internal/storefront/repo"
	"github.com/jmarkets/jmarkets/pkg/id"
	"github.com/jmarkets/jmarkets/pkg/log"
)

// permKey addresses one matrix cell by resolved integer ids.
type permKey struct {
	module    model.ModuleId
	submodule model.SubmoduleId
	action    model.ActionId
}

// roleMatrix is one role's permission rows indexed for O(1) lookup.
// Module-level rows use SubmoduleNone. The value carries the granted
// flag, so a submodule row can explicitly deny what the module row
// grants.
type roleMatrix map[permKey]bool

// PermissionService owns the module/submodule/action catalog and the
// role permission matrices. Matrices are loaded from storage once per
// role, validated against the catalog, and kept until the role's rows
// change.
type PermissionService struct {
	roleRepo repo.IRoleRepository

	mu       sync.RWMutex
	matrices map[string]roleMatrix
}

func NewPermissionService(roleRepo repo.IRoleRepository) *PermissionService {
	return &PermissionService{
		roleRepo: roleRepo,
		matrices: make(map[string]roleMatrix),
	}
}

// HasPermission answers the matrix lookup for resolved ids. A
// submodule row, when present, governs; otherwise the module row;
// otherwise deny.
func (s *PermissionService) HasPermission(roleId string, module model.ModuleId, submodule model.SubmoduleId, action model.ActionId) (bool, error) {
	matrix, err := s.matrixFor(roleId)
	if err != nil {
		return false, err
	}
	if submodule != model.SubmoduleNone {
		if granted, ok := matrix[permKey{module, submodule, action}]; ok {
			return granted, nil
		}
	}
	if granted, ok := matrix[permKey{module, model.SubmoduleNone, action}]; ok {
		return granted, nil
	}
	return false, nil
}

// HasPermissionTokens resolves string tokens against the catalog and
// answers the lookup. Unknown tokens deny with core.ErrUnknownPermission.
func (s *PermissionService) HasPermissionTokens(roleId, module, submodule, action string) (bool, error) {
	mid, ok := model.LookupModule(module)
	if !ok {
		return false, core.ErrUnknownPermission
	}
	sid, ok := model.LookupSubmodule(mid, submodule)
	if !ok {
		return false, core.ErrUnknownPermission
	}
	aid, ok := model.LookupAction(action)
	if !ok {
		return false, core.ErrUnknownPermission
	}
	return s.HasPermission(roleId, mid, sid, aid)
}

// AssignableRoles lists the roles an organization may attach to its
// members. Platform-wide roles never appear.
func (s *PermissionService) AssignableRoles(orgId string) ([]model.Role, error) {
	roles, err := s.roleRepo.ListAssignableRoles(orgId)
	if err != nil {
		return nil, fmt.Errorf("list assignable roles: %w", err)
	}
	out := roles[:0]
	for _, r := range roles {
		if r.RoleId == model.RolePlatformAdmin {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// IsAssignable reports whether roleId may be attached to a member of
// orgId.
func (s *PermissionService) IsAssignable(orgId, roleId string) (bool, error) {
	roles, err := s.AssignableRoles(orgId)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if r.RoleId == roleId {
			return true, nil
		}
	}
	return false, nil
}

// CreateCustomRole creates an organization-scoped role with the given
// matrix rows. Tokens are validated against the catalog up front.
func (s *PermissionService) CreateCustomRole(orgId string, req *model.CreateRoleReq) (*model.Role, error) {
	rows, err := s.validateGrants(req.Permissions)
	if err != nil {
		return nil, err
	}
	roleId := id.ShortId()
	if roleId == "" {
		roleId = id.GetUUIDWithoutDashes()
	}
	role := &model.Role{
		RoleId:      roleId,
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		IsSystem:    model.RoleCustom,
		OrgId:       orgId,
		IsEnabled:   model.RoleEnabled,
	}
	if err := s.roleRepo.CreateRole(role, rows); err != nil {
		log.Errorw("create custom role failed", "orgId", orgId, "name", req.Name, "error", err)
		return nil, fmt.Errorf("create role: %w", err)
	}
	return role, nil
}

// UpdateRolePermissions replaces the matrix rows of a custom role.
// System roles are immutable; another organization's role is invisible.
func (s *PermissionService) UpdateRolePermissions(orgId, roleId string, req *model.UpdateRolePermissionsReq) error {
	role, err := s.roleRepo.GetRole(roleId)
	if err != nil {
		return err
	}
	if role.IsSystem == model.RoleSystem {
		return core.ErrSystemRoleImmutable
	}
	if role.OrgId != orgId {
		return core.ErrRoleNotFound
	}
	rows, err := s.validateGrants(req.Permissions)
	if err != nil {
		return err
	}
	if err := s.roleRepo.ReplacePermissions(roleId, rows); err != nil {
		log.Errorw("replace role permissions failed", "roleId", roleId, "error", err)
		return fmt.Errorf("replace permissions: %w", err)
	}
	s.invalidateMatrix(roleId)
	return nil
}

// SeedSystemRoles installs the built-in roles and matrices. Idempotent.
func (s *PermissionService) SeedSystemRoles() error {
	return s.roleRepo.SeedSystemRoles(model.BuiltinRoles(), model.BuiltinRolePermissions())
}

// Preload warms every role's matrix from one scan of the permission
// rows. Roles created afterwards still load lazily; a failed preload
// leaves lazy loading as the fallback.
func (s *PermissionService) Preload() error {
	rows, err := s.roleRepo.ListAllPermissions()
	if err != nil {
		return fmt.Errorf("load permission rows: %w", err)
	}
	byRole := make(map[string][]model.RolePermission)
	for _, row := range rows {
		byRole[row.RoleId] = append(byRole[row.RoleId], row)
	}
	s.mu.Lock()
	for roleId, roleRows := range byRole {
		s.matrices[roleId] = buildMatrix(roleId, roleRows)
	}
	s.mu.Unlock()
	log.Infow("permission matrices preloaded", "roles", len(byRole))
	return nil
}

func (s *PermissionService) matrixFor(roleId string) (roleMatrix, error) {
	s.mu.RLock()
	matrix, ok := s.matrices[roleId]
	s.mu.RUnlock()
	if ok {
		return matrix, nil
	}

	rows, err := s.roleRepo.GetRolePermissions(roleId)
	if err != nil {
		return nil, fmt.Errorf("load role permissions: %w", err)
	}
	matrix = buildMatrix(roleId, rows)

	s.mu.Lock()
	s.matrices[roleId] = matrix
	s.mu.Unlock()
	return matrix, nil
}

// buildMatrix indexes permission rows for one role, dropping rows whose
// tokens no longer resolve against the catalog.
func buildMatrix(roleId string, rows []model.RolePermission) roleMatrix {
	matrix := make(roleMatrix, len(rows))
	for _, row := range rows {
		mid, ok := model.LookupModule(row.Module)
		if !ok {
			log.Warnw("skipping permission row with unknown module", "roleId", roleId, "module", row.Module)
			continue
		}
		sid, ok := model.LookupSubmodule(mid, row.Submodule)
		if !ok {
			log.Warnw("skipping permission row with unknown submodule", "roleId", roleId, "module", row.Module, "submodule", row.Submodule)
			continue
		}
		aid, ok := model.LookupAction(row.Action)
		if !ok {
			log.Warnw("skipping permission row with unknown action", "roleId", roleId, "action", row.Action)
			continue
		}
		matrix[permKey{mid, sid, aid}] = row.Granted == model.PermissionGranted
	}
	return matrix
}

func (s *PermissionService) invalidateMatrix(roleId string) {
	s.mu.Lock()
	delete(s.matrices, roleId)
	s.mu.Unlock()
}

func (s *PermissionService) validateGrants(grants []model.PermissionGrant) ([]model.RolePermission, error) {
	rows := make([]model.RolePermission, 0, len(grants))
	for _, g := range grants {
		mid, ok := model.LookupModule(g.Module)
		if !ok {
			return nil, core.ErrUnknownPermission
		}
		if _, ok := model.LookupSubmodule(mid, g.Submodule); !ok {
			return nil, core.ErrUnknownPermission
		}
		if _, ok := model.LookupAction(g.Action); !ok {
			return nil, core.ErrUnknownPermission
		}
		granted := model.PermissionDenied
		if g.Granted {
			granted = model.PermissionGranted
		}
		rows = append(rows, model.RolePermission{
			Module:    g.Module,
			Submodule: g.Submodule,
			Action:    g.Action,
			Granted:   granted,
		})
	}
	return rows, nil
}
