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
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/jmarkets/jmarkets/internal/storefront/core"
	"github.com/jmarkets/jmarkets/internal/storefront/service"
	"github.com/jmarkets/jmarkets/internal/storefront/tenant"
	httpx "github.com/jmarkets/jmarkets/pkg/http"
	"github.com/jmarkets/jmarkets/pkg/http/middleware"
	"github.com/jmarkets/jmarkets/pkg/log"
	"github.com/jmarkets/jmarkets/pkg/version"
)

type Router struct {
	Http         *httpx.Http
	Redis        *redis.Client
	HostResolver *tenant.HostResolver
	Directory    *tenant.Directory

	AuthSvc       *service.AuthService
	OrgSvc        *service.OrganizationService
	MembershipSvc *service.MembershipService
	PermissionSvc *service.PermissionService
	AuthzSvc      *service.AuthzService
	InvitationSvc *service.InvitationService
}

func NewRouter(
	httpConf *httpx.Http,
	redisClient *redis.Client,
	hostResolver *tenant.HostResolver,
	directory *tenant.Directory,
	authSvc *service.AuthService,
	orgSvc *service.OrganizationService,
	membershipSvc *service.MembershipService,
	permissionSvc *service.PermissionService,
	authzSvc *service.AuthzService,
	invitationSvc *service.InvitationService,
) *Router {
	return &Router{
		Http:          httpConf,
		Redis:         redisClient,
		HostResolver:  hostResolver,
		Directory:     directory,
		AuthSvc:       authSvc,
		OrgSvc:        orgSvc,
		MembershipSvc: membershipSvc,
		PermissionSvc: permissionSvc,
		AuthzSvc:      authzSvc,
		InvitationSvc: invitationSvc,
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    rt.Http.BodyLimit,
		ReadTimeout:  time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(rt.Http.IdleTimeout) * time.Second,
	})

	app.Use(middleware.ExceptionMiddleware)
	app.Use(cors.New())
	if rt.Http.AccessLog {
		app.Use(httpx.AccessLogFormat(log.GetLogger().Desugar()))
	}
	app.Use(middleware.UnifiedResponseMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})
	if rt.Http.ExposeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	auth := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey, rt.Http.Auth.RedisKeyPrefix, rt.Redis)

	rt.publicRouter(app, auth)
	rt.authRouter(app, auth)
	rt.userRouter(app, auth)
	rt.organizationRouter(app, auth)

	return app
}

// repErr translates domain errors into the response envelope. Unknown
// errors collapse into the generic failure so internals never leak.
func repErr(c *fiber.Ctx, err error) error {
	var coded *httpx.Response
	switch {
	case errors.Is(err, core.ErrOrganizationNotFound), errors.Is(err, core.ErrNoTenant):
		coded = httpx.OrganizationNotExist
	case errors.Is(err, core.ErrNotAMember):
		coded = httpx.NotAMember
	case errors.Is(err, core.ErrInsufficientPermission):
		coded = httpx.InsufficientPermission
	case errors.Is(err, core.ErrSlugTaken), errors.Is(err, core.ErrReservedSubdomain):
		coded = httpx.SlugTaken
	case errors.Is(err, core.ErrSubdomainTaken):
		coded = httpx.SubdomainTaken
	case errors.Is(err, core.ErrRoleNotAssignable), errors.Is(err, core.ErrRoleNotFound):
		coded = httpx.RoleNotAssignable
	case errors.Is(err, core.ErrSystemRoleImmutable):
		coded = httpx.SystemRoleImmutable
	case errors.Is(err, core.ErrAlreadyMember):
		coded = httpx.AlreadyMember
	case errors.Is(err, core.ErrInvitationNotFound):
		coded = httpx.InvitationNotExist
	case errors.Is(err, core.ErrInvitationExpired):
		coded = httpx.InvitationExpired
	case errors.Is(err, core.ErrInvitationNotPending):
		coded = httpx.InvitationAlreadyResolved
	case errors.Is(err, core.ErrInvitationEmailMismatch):
		coded = httpx.InvitationEmailMismatch
	case errors.Is(err, core.ErrInvitationPendingDuplicate):
		coded = httpx.InvitationPendingDuplicate
	case errors.Is(err, core.ErrStorageTimeout):
		coded = httpx.StorageTimeout
	default:
		return httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Path())
	}
	return httpx.WithRepErrMsg(c, coded.Code, coded.Msg, c.Path())
}
