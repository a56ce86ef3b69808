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

package model

// Role is a named bundle of permissions assignable to an organization member.
// A role with an empty OrgId is platform-wide and never assignable to tenant
// members.
type Role struct {
	BaseModel
	RoleId      string `gorm:"column:role_id;not null;uniqueIndex" json:"roleId"`
	Name        string `gorm:"column:name;not null" json:"name"` // machine token
	DisplayName string `gorm:"column:display_name" json:"displayName"`
	Description string `gorm:"column:description" json:"description"`
	IsSystem    int    `gorm:"column:is_system;not null;default:0" json:"isSystem"` // 1: built-in, permission set fixed in code
	OrgId       string `gorm:"column:org_id;index" json:"orgId"`                    // empty: platform-wide
	IsEnabled   int    `gorm:"column:is_enabled;not null;default:1" json:"isEnabled"`
}

func (Role) TableName() string {
	return "t_role"
}

// Built-in tenant role ids. These double as RoleId values for system roles.
const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"

	// RolePlatformAdmin is platform-wide and must never appear in
	// assignable-roles listings exposed to organizations.
	RolePlatformAdmin = "platform_admin"
)

// Role flags
const (
	RoleCustom  = 0
	RoleSystem  = 1
	RoleEnabled = 1
)

// BuiltinRoles returns the system role set seeded at install time.
func BuiltinRoles() []Role {
	return []Role{
		{RoleId: RoleOwner, Name: RoleOwner, DisplayName: "Owner", Description: "Full control of the organization", IsSystem: RoleSystem, IsEnabled: RoleEnabled},
		{RoleId: RoleAdmin, Name: RoleAdmin, DisplayName: "Administrator", Description: "Manages members and day-to-day operations", IsSystem: RoleSystem, IsEnabled: RoleEnabled},
		{RoleId: RoleManager, Name: RoleManager, DisplayName: "Manager", Description: "Runs the catalog and order flow", IsSystem: RoleSystem, IsEnabled: RoleEnabled},
		{RoleId: RoleStaff, Name: RoleStaff, DisplayName: "Staff", Description: "Read-mostly storefront access", IsSystem: RoleSystem, IsEnabled: RoleEnabled},
		{RoleId: RolePlatformAdmin, Name: RolePlatformAdmin, DisplayName: "Platform Administrator", Description: "Platform-wide operations, never a tenant role", IsSystem: RoleSystem, IsEnabled: RoleEnabled},
	}
}

// CreateRoleReq request for creating a custom organization role
type CreateRoleReq struct {
	Name        string           `json:"name"`
	DisplayName string           `json:"displayName"`
	Description string           `json:"description"`
	Permissions []PermissionGrant `json:"permissions"`
}

// UpdateRolePermissionsReq replaces the permission rows of a custom role
type UpdateRolePermissionsReq struct {
	Permissions []PermissionGrant `json:"permissions"`
}
