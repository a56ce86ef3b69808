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
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jmarkets/jmarkets/internal/storefront/core"
	"github.com/jmarkets/jmarkets/internal/storefront/model"
	httpx "github.com/jmarkets/jmarkets/pkg/http"
	"github.com/jmarkets/jmarkets/pkg/http/middleware"
)

// userRouter serves the authenticated user's own resources. The user id
// always comes from the session, never from the path.
func (rt *Router) userRouter(r fiber.Router, auth fiber.Handler) {
	userGroup := r.Group("/users/me", auth)
	{
		userGroup.Get("/", rt.getMe)
		userGroup.Get("/organizations", rt.myOrganizations)
		userGroup.Get("/organizations/default", rt.myDefaultOrganization)
		userGroup.Put("/organizations/default/:orgId", rt.setDefaultOrganization)
		userGroup.Post("/organizations", rt.createOrganization)
	}
}

func (rt *Router) getMe(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	user, err := rt.AuthSvc.GetUser(claims.UserId)
	if err != nil {
		return repErr(c, err)
	}
	if user == nil {
		return httpx.WithRepErrMsg(c, httpx.UserNotExist.Code, httpx.UserNotExist.Msg, c.Path())
	}
	c.Locals(middleware.DETAIL, user)
	return nil
}

func (rt *Router) myOrganizations(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	orgs, err := rt.MembershipSvc.OrganizationsForUser(claims.UserId)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.DETAIL, orgs)
	return nil
}

func (rt *Router) myDefaultOrganization(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	org, err := rt.MembershipSvc.DefaultOrganization(claims.UserId)
	if err != nil {
		if errors.Is(err, core.ErrNoDefaultOrganization) {
			c.Locals(middleware.DETAIL, nil)
			return nil
		}
		return repErr(c, err)
	}
	c.Locals(middleware.DETAIL, org)
	return nil
}

func (rt *Router) setDefaultOrganization(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	orgId := c.Params("orgId")
	if orgId == "" {
		return httpx.WithRepErrMsg(c, httpx.OrgIdIsEmpty.Code, httpx.OrgIdIsEmpty.Msg, c.Path())
	}
	if err := rt.MembershipSvc.SetDefault(claims.UserId, orgId); err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.OPERATION, "")
	return nil
}

func (rt *Router) createOrganization(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	var req model.CreateOrganizationReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	org, err := rt.OrgSvc.CreateOrganization(&req, claims.UserId)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.DETAIL, org)
	return nil
}
