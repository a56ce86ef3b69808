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
	"errors"

	"github.com/jmarkets/jmarkets/internal/storefront/core"
	"github.com/jmarkets/jmarkets/internal/storefront/repo"
	"github.com/jmarkets/jmarkets/pkg/log"
	"github.com/jmarkets/jmarkets/pkg/metrics"
)

// DenyReason classifies why an authorization was refused.
type DenyReason string

const (
	DenyNone                   DenyReason = ""
	DenyNotAMember             DenyReason = "not_a_member"
	DenyInsufficientPermission DenyReason = "insufficient_permission"
)

// Decision is the outcome of one authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
	RoleId  string // the member's role, set when membership resolved
}

// AuthzService is the single mandatory gate in front of every
// state-mutating operation scoped to an organization. It is
// side-effect-free and safe to call speculatively.
type AuthzService struct {
	memberRepo repo.IMemberRepository
	permSvc    *PermissionService
}

func NewAuthzService(memberRepo repo.IMemberRepository, permSvc *PermissionService) *AuthzService {
	return &AuthzService{
		memberRepo: memberRepo,
		permSvc:    permSvc,
	}
}

// Authorize decides whether userId may perform action on
// (module, submodule) within orgId. Submodule may be empty for
// module-level actions. Storage failures deny rather than allow.
func (s *AuthzService) Authorize(userId, orgId, module, submodule, action string) (Decision, error) {
	member, err := s.memberRepo.GetMember(orgId, userId)
	if err != nil {
		if errors.Is(err, core.ErrNotAMember) {
			metrics.AuthorizationDecisions.WithLabelValues("deny_not_a_member").Inc()
			return Decision{Allowed: false, Reason: DenyNotAMember}, nil
		}
		log.Errorw("membership lookup failed, denying", "userId", userId, "orgId", orgId, "error", err)
		metrics.AuthorizationDecisions.WithLabelValues("error").Inc()
		return Decision{Allowed: false, Reason: DenyNotAMember}, err
	}

	granted, err := s.permSvc.HasPermissionTokens(member.RoleId, module, submodule, action)
	if err != nil {
		if errors.Is(err, core.ErrUnknownPermission) {
			metrics.AuthorizationDecisions.WithLabelValues("deny_insufficient_permission").Inc()
			return Decision{Allowed: false, Reason: DenyInsufficientPermission, RoleId: member.RoleId}, nil
		}
		log.Errorw("permission lookup failed, denying", "roleId", member.RoleId, "module", module, "action", action, "error", err)
		metrics.AuthorizationDecisions.WithLabelValues("error").Inc()
		return Decision{Allowed: false, Reason: DenyInsufficientPermission, RoleId: member.RoleId}, err
	}
	if !granted {
		metrics.AuthorizationDecisions.WithLabelValues("deny_insufficient_permission").Inc()
		return Decision{Allowed: false, Reason: DenyInsufficientPermission, RoleId: member.RoleId}, nil
	}

	metrics.AuthorizationDecisions.WithLabelValues("allow").Inc()
	return Decision{Allowed: true, RoleId: member.RoleId}, nil
}
