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

// Invitation states. Pending is the only state an invitation can be
// accepted, cancelled or expired from; the other three are terminal.
const (
	InvitationPending   = "pending"
	InvitationAccepted  = "accepted"
	InvitationCancelled = "cancelled"
	InvitationExpired   = "expired"
)

// OrganizationInvitation invites an email address into an organization
// with a preassigned role. The token is the only credential needed to
// preview or accept it.
type OrganizationInvitation struct {
	BaseModel
	InvitationId string    `gorm:"column:invitation_id;not null;uniqueIndex" json:"invitationId"`
	OrgId        string    `gorm:"column:org_id;not null;index" json:"orgId"`
	Email        string    `gorm:"column:email;not null;index" json:"email"`
	RoleId       string    `gorm:"column:role_id;not null" json:"roleId"`
	Token        string    `gorm:"column:token;not null;uniqueIndex" json:"-"`
	Status       string    `gorm:"column:status;not null;default:pending;index" json:"status"`
	InvitedBy    string    `gorm:"column:invited_by;not null" json:"invitedBy"`
	ExpiresAt    time.Time `gorm:"column:expires_at;not null" json:"expiresAt"`
	AcceptedBy   string    `gorm:"column:accepted_by" json:"acceptedBy"` // user id, set on accept
}

func (OrganizationInvitation) TableName() string {
	return "t_organization_invitation"
}

// IsOverdue reports whether the invitation's deadline has passed at now.
func (i *OrganizationInvitation) IsOverdue(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// IssueInvitationReq request for issuing an invitation
type IssueInvitationReq struct {
	Email  string `json:"email"`
	RoleId string `json:"roleId"`
}

// InvitationPreview is the public view of an invitation shown before the
// invitee decides to accept. The token itself is never echoed back.
type InvitationPreview struct {
	OrgName     string    `json:"orgName"`
	OrgSlug     string    `json:"orgSlug"`
	Email       string    `json:"email"`
	RoleName    string    `json:"roleName"`
	InviterName string    `json:"inviterName"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
