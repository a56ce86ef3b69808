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
	"github.com/jmarkets/jmarkets/pkg/http/jwt"
	"github.com/jmarkets/jmarkets/pkg/http/middleware"
)

func (rt *Router) authRouter(r fiber.Router, auth fiber.Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.Post("/register", rt.register)
		authGroup.Post("/login", rt.login)

		authGroup.Post("/logout", auth, rt.logout)
		authGroup.Get("/refresh", rt.refresh)
	}
}

func (rt *Router) register(c *fiber.Ctx) error {
	var req model.RegisterUserReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	user, err := rt.AuthSvc.Register(&req)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.DETAIL, user)
	return nil
}

func (rt *Router) login(c *fiber.Ctx) error {
	var req model.LoginUserReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	resp, err := rt.AuthSvc.Login(&req)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.AuthenticationFailed.Code, err.Error(), c.Path())
	}
	c.Locals(middleware.DETAIL, resp)
	return nil
}

func (rt *Router) logout(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}
	if err := rt.AuthSvc.Logout(claims.UserId); err != nil {
		return repErr(c, err)
	}
	c.Locals(middleware.OPERATION, "")
	return nil
}

func (rt *Router) refresh(c *fiber.Ctx) error {
	userId := c.Query("userId")
	email := c.Query("email")
	rToken := c.Query("refreshToken")
	if userId == "" || rToken == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, httpx.BadRequest.Msg, c.Path())
	}
	tokens, err := jwt.RefreshToken(&rt.Http.Auth, userId, email, rToken)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.InvalidToken.Code, httpx.InvalidToken.Msg, c.Path())
	}
	c.Locals(middleware.DETAIL, tokens)
	return nil
}
