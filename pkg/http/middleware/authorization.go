package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
	"github.com/jmarkets/jmarkets/pkg/http"
	"github.com/jmarkets/jmarkets/pkg/http/jwt"
	"github.com/jmarkets/jmarkets/pkg/log"
	"github.com/redis/go-redis/v9"
)

// AuthorizationMiddleware authenticates requests with a Bearer token.
// The token must parse against secretKey and a live session entry must
// exist in Redis under keyPrefix + userId.
func AuthorizationMiddleware(secretKey, keyPrefix string, client *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aToken := c.Get("Authorization")
		if aToken == "" {
			return http.WithRepErrMsg(c, http.TokenBeEmpty.Code, http.TokenBeEmpty.Msg, c.Path())
		}

		parts := strings.SplitN(aToken, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return http.WithRepErrMsg(c, http.TokenFormatIncorrect.Code, http.TokenFormatIncorrect.Msg, c.Path())
		}

		claims, err := jwt.ParseToken(parts[1], secretKey)
		if err != nil {
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
			}
			log.Errorf("parse token failed: %v", err)
			return http.WithRepErrMsg(c, http.InvalidToken.Code, http.InvalidToken.Msg, c.Path())
		}

		// the session must still be live in Redis
		sessionKey := keyPrefix + claims.UserId
		exists, err := client.Exists(c.Context(), sessionKey).Result()
		if err != nil {
			log.Errorf("redis check session failed: %v", err)
			return http.WithRepErrMsg(c, http.InternalError.Code, http.InternalError.Msg, c.Path())
		}
		if exists == 0 {
			return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
		}

		c.Locals(CLAIMS, claims)
		return c.Next()
	}
}

// ClaimsFromCtx returns the parsed auth claims of the current request, or nil.
func ClaimsFromCtx(c *fiber.Ctx) *jwt.AuthClaims {
	claims, _ := c.Locals(CLAIMS).(*jwt.AuthClaims)
	return claims
}
