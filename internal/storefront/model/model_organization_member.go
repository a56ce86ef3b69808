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

import "time"

// OrganizationMember ties a user to an organization with exactly one role.
// At most one membership per user carries IsDefault = 1.
type OrganizationMember struct {
	BaseModel
	MemberId  string    `gorm:"column:member_id;not null;uniqueIndex" json:"memberId"`
	OrgId     string    `gorm:"column:org_id;not null;index:idx_member_org_user,unique" json:"orgId"`
	UserId    string    `gorm:"column:user_id;not null;index:idx_member_org_user,unique" json:"userId"`
	RoleId    string    `gorm:"column:role_id;not null" json:"roleId"`
	IsDefault int       `gorm:"column:is_default;not null;default:0" json:"isDefault"`
	InvitedBy string    `gorm:"column:invited_by" json:"invitedBy"` // user id of inviter, empty for founders
	JoinedAt  time.Time `gorm:"column:joined_at;not null" json:"joinedAt"`
}

func (OrganizationMember) TableName() string {
	return "t_organization_member"
}

const (
	MemberNotDefault = 0
	MemberDefault    = 1
)

// UpdateMemberRoleReq request for changing a member's role
type UpdateMemberRoleReq struct {
	RoleId string `json:"roleId"`
}

// MemberOrganization is the join view returned when listing a user's
// organizations: the membership plus the organization it belongs to.
type MemberOrganization struct {
	Organization Organization       `json:"organization"`
	Membership   OrganizationMember `json:"membership"`
}
