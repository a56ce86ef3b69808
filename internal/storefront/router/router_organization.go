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

// organizationRouter mounts every organization-scoped route behind the
// session check and the authorization gate.
func (rt *Router) organizationRouter(r fiber.Router, auth fiber.Handler) {
	org := r.Group("/users/me/organizations/:orgId", auth)
	{
		org.Get("/", rt.requirePermission(model.ModuleSettings, "", model.ActionView), rt.getOrganization)
		org.Put("/settings", rt.requirePermission(model.ModuleSettings, "", model.ActionUpdate), rt.updateSettings)
		org.Put("/subdomain", rt.requirePermission(model.ModuleSettings, "", model.ActionManage), rt.changeSubdomain)
		org.Delete("/", rt.requirePermission(model.ModuleSettings, "", model.ActionDelete), rt.deactivateOrganization)

		rt.memberRouter(org)
		rt.roleRouter(org)
		rt.invitationRouter(org)
	}
}

func (rt *Router) getOrganization(c *fiber.Ctx) error {
	org, err := rt.OrgSvc.GetOrganization(verifiedOrgId(c))
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.DETAIL, org)
	return nil
}

func (rt *Router) updateSettings(c *fiber.Ctx) error {
	var req model.UpdateOrganizationSettingsReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if err := rt.OrgSvc.UpdateSettings(verifiedOrgId(c), &req); err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.OPERATION, "")
	return nil
}

func (rt *Router) changeSubdomain(c *fiber.Ctx) error {
	var req model.ChangeSubdomainReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if err := rt.OrgSvc.ChangeSubdomain(c.Context(), verifiedOrgId(c), &req); err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.OPERATION, "")
	return nil
}

func (rt *Router) deactivateOrganization(c *fiber.Ctx) error {
	if err := rt.OrgSvc.Deactivate(c.Context(), verifiedOrgId(c)); err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.OPERATION, "")
	return nil
}
