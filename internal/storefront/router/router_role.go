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

func (rt *Router) roleRouter(r fiber.Router) {
	roles := r.Group("/roles")
	{
		roles.Get("/", rt.requirePermission(model.ModuleMembers, "", model.ActionView), rt.listAssignableRoles)
		roles.Post("/", rt.requirePermission(model.ModuleMembers, "", model.ActionManage), rt.createRole)
		roles.Put("/:roleId/permissions", rt.requirePermission(model.ModuleMembers, "", model.ActionManage), rt.updateRolePermissions)
	}
}

func (rt *Router) listAssignableRoles(c *fiber.Ctx) error {
	roles, err := rt.PermissionSvc.AssignableRoles(verifiedOrgId(c))
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.DETAIL, roles)
	return nil
}

func (rt *Router) createRole(c *fiber.Ctx) error {
	var req model.CreateRoleReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	role, err := rt.PermissionSvc.CreateCustomRole(verifiedOrgId(c), &req)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.DETAIL, role)
	return nil
}

func (rt *Router) updateRolePermissions(c *fiber.Ctx) error {
	var req model.UpdateRolePermissionsReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if err := rt.PermissionSvc.UpdateRolePermissions(verifiedOrgId(c), c.Params("roleId"), &req); err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.OPERATION, "")
	return nil
}
