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

func (rt *Router) invitationRouter(r fiber.Router) {
	invitations := r.Group("/invitations")
	{
		invitations.Get("/", rt.requirePermission(model.ModuleMembers, "", model.ActionView), rt.listInvitations)
		invitations.Post("/", rt.requirePermission(model.ModuleMembers, "", model.ActionCreate), rt.issueInvitation)
		invitations.Post("/:invitationId/cancel", rt.requirePermission(model.ModuleMembers, "", model.ActionUpdate), rt.cancelInvitation)
		invitations.Post("/:invitationId/resend", rt.requirePermission(model.ModuleMembers, "", model.ActionUpdate), rt.resendInvitation)
	}
}

func (rt *Router) listInvitations(c *fiber.Ctx) error {
	invs, err := rt.InvitationSvc.ListByOrg(verifiedOrgId(c))
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.DETAIL, invs)
	return nil
}

func (rt *Router) issueInvitation(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	var req model.IssueInvitationReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	inv, err := rt.InvitationSvc.Issue(verifiedOrgId(c), req.Email, req.RoleId, claims.UserId)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.DETAIL, inv)
	return nil
}

func (rt *Router) cancelInvitation(c *fiber.Ctx) error {
	if err := rt.InvitationSvc.Cancel(verifiedOrgId(c), c.Params("invitationId")); err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.OPERATION, "")
	return nil
}

func (rt *Router) resendInvitation(c *fiber.Ctx) error {
	inv, err := rt.InvitationSvc.Resend(verifiedOrgId(c), c.Params("invitationId"))
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.DETAIL, inv)
	return nil
}
