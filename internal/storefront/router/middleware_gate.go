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

package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmarkets/jmarkets/internal/storefront/service"
	httpx "github.com/jmarkets/jmarkets/pkg/http"
	"github.com/jmarkets/jmarkets/pkg/http/middleware"
)

// orgIdKey is the locals key holding the verified organization id.
const orgIdKey = "verified_org_id"

// requirePermission gates an organization-scoped route. The user id
// comes from the session and the organization id from the path; the
// membership and permission are verified server-side, so a forged
// orgId yields a membership denial, never cross-tenant access.
// Denials carry the reason kind only, never resource details.
func (rt *Router) requirePermission(module, submodule, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := middleware.ClaimsFromCtx(c)
		if claims == nil {
			return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
		}
		orgId := c.Params("orgId")
		if orgId == "" {
			return httpx.WithRepErrMsg(c, httpx.OrgIdIsEmpty.Code, httpx.OrgIdIsEmpty.Msg, c.Path())
		}

		decision, err := rt.AuthzSvc.Authorize(claims.UserId, orgId, module, submodule, action)
		if err != nil {
			// fail closed: a storage failure never becomes an allow
			return httpx.WithRepErrMsg(c, httpx.StorageTimeout.Code, httpx.StorageTimeout.Msg, c.Path())
		}
		if !decision.Allowed {
			switch decision.Reason {
			case service.DenyNotAMember:
				return httpx.WithRepErrMsg(c, httpx.NotAMember.Code, httpx.NotAMember.Msg, c.Path())
			default:
				return httpx.WithRepErrMsg(c, httpx.InsufficientPermission.Code, httpx.InsufficientPermission.Msg, c.Path())
			}
		}

		c.Locals(orgIdKey, orgId)
		return c.Next()
	}
}

// verifiedOrgId returns the organization id the gate verified for this
// request.
func verifiedOrgId(c *fiber.Ctx) string {
	orgId, _ := c.Locals(orgIdKey).(string)
	return orgId
}
