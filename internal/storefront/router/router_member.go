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

	"github.com/jmarkets/jmarkets/internal/storefront/model"
	httpx "github.com/jmarkets/jmarkets/pkg/http"
	"github.com/jmarkets/jmarkets/pkg/http/middleware"
)

func (rt *Router) memberRouter(r fiber.Router) {
	members := r.Group("/members")
	{
		members.Get("/", rt.requirePermission(model.ModuleMembers, "", model.ActionView), rt.listMembers)
		members.Put("/:userId/role", rt.requirePermission(model.ModuleMembers, "", model.ActionUpdate), rt.updateMemberRole)
		members.Delete("/:userId", rt.requirePermission(model.ModuleMembers, "", model.ActionDelete), rt.removeMember)
	}
}

func (rt *Router) listMembers(c *fiber.Ctx) error {
	members, err := rt.MembershipSvc.ListMembers(verifiedOrgId(c))
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.DETAIL, members)
	return nil
}

func (rt *Router) updateMemberRole(c *fiber.Ctx) error {
	var req model.UpdateMemberRoleReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if err := rt.MembershipSvc.UpdateMemberRole(verifiedOrgId(c), c.Params("userId"), req.RoleId); err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.OPERATION, "")
	return nil
}

func (rt *Router) removeMember(c *fiber.Ctx) error {
	if err := rt.MembershipSvc.RemoveMember(verifiedOrgId(c), c.Params("userId")); err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.OPERATION, "")
	return nil
}
