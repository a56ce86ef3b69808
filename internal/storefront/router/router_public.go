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
	"github.com/jmarkets/jmarkets/internal/storefront/tenant"
	httpx "github.com/jmarkets/jmarkets/pkg/http"
	"github.com/jmarkets/jmarkets/pkg/http/middleware"
)

// StorefrontResolution is the public response of resolving the inbound
// host to a store or the landing experience.
type StorefrontResolution struct {
	Mode      string `json:"mode"` // "store" or "landing"
	RouteKind string `json:"routeKind"`
	OrgId     string `json:"orgId,omitempty"`
	OrgName   string `json:"orgName,omitempty"`
	Slug      string `json:"slug,omitempty"`
	Subdomain string `json:"subdomain,omitempty"`
}

func (rt *Router) publicRouter(r fiber.Router, auth fiber.Handler) {
	public := r.Group("/public")
	{
		public.Get("/storefront", rt.resolveStorefront)
		public.Get("/organizations/check-slug/:slug", rt.checkSlug)
		public.Get("/organizations/check-subdomain/:subdomain", rt.checkSubdomain)
		public.Get("/invitations/token/:token", rt.previewInvitation)

		// preview is anonymous, acceptance needs a session
		public.Post("/invitations/accept/:token", auth, rt.acceptInvitation)
	}
}

func (rt *Router) acceptInvitation(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}
	member, err := rt.InvitationSvc.Accept(c.Params("token"), claims.UserId)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.DETAIL, member)
	return nil
}

// resolveStorefront maps the request host onto a tenant. A host that
// matches nothing falls back to the landing experience; this is never
// an error.
func (rt *Router) resolveStorefront(c *fiber.Ctx) error {
	host := c.Hostname()
	if xfHost := c.Get("X-Forwarded-Host"); xfHost != "" {
		host = xfHost
	}
	route := rt.HostResolver.Resolve(host, c.Port())

	resolution := StorefrontResolution{Mode: "landing", RouteKind: route.Kind.String()}
	switch route.Kind {
	case tenant.RouteProductionTenant, tenant.RouteLocalDevSubdomain:
		org, err := rt.Directory.ResolveBySubdomain(c.Context(), route.Subdomain)
		if err == nil {
			resolution.Mode = "store"
			resolution.OrgId = org.OrgId
			resolution.OrgName = org.Name
			resolution.Slug = org.Slug
			resolution.Subdomain = org.Subdomain
		}
	case tenant.RouteLocalDevPort:
		// store app on the dev port; tenant selection happens by slug
		if slug := c.Query("slug"); slug != "" {
			org, err := rt.Directory.ResolveBySlug(c.Context(), slug)
			if err == nil {
				resolution.Mode = "store"
				resolution.OrgId = org.OrgId
				resolution.OrgName = org.Name
				resolution.Slug = org.Slug
				resolution.Subdomain = org.Subdomain
			}
		}
	}

	c.Locals(middleware.DETAIL, resolution)
	return nil
}

func (rt *Router) checkSlug(c *fiber.Ctx) error {
	available, err := rt.Directory.IsSlugAvailable(c.Params("slug"))
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.StorageTimeout.Code, httpx.StorageTimeout.Msg, c.Path())
	}
	c.Locals(middleware.DETAIL, fiber.Map{"available": available})
	return nil
}

func (rt *Router) checkSubdomain(c *fiber.Ctx) error {
	available, err := rt.Directory.IsSubdomainAvailable(c.Params("subdomain"))
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.StorageTimeout.Code, httpx.StorageTimeout.Msg, c.Path())
	}
	c.Locals(middleware.DETAIL, fiber.Map{"available": available})
	return nil
}

func (rt *Router) previewInvitation(c *fiber.Ctx) error {
	preview, err := rt.InvitationSvc.Preview(c.Params("token"))
	if err != nil {
		if errors.Is(err, core.ErrInvitationNotFound) {
			return httpx.WithRepErrMsg(c, httpx.InvitationNotExist.Code, httpx.InvitationNotExist.Msg, c.Path())
		}
		return repErr(c, err)
	}
	c.Locals(middleware.DETAIL, preview)
	return nil
}
