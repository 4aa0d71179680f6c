package middleware

import (
	"strings"

	"modutime/core/cache"
	"modutime/core/config"
	"modutime/core/constants"
	"modutime/core/controller"
	"modutime/core/errors"
	"modutime/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	cache cache.Cache
}

func NewMiddleware(c cache.Cache) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware rejects requests without a valid, non-blacklisted bearer
// token and stores the claims in the request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, appErr := bearerToken(c)
			if appErr != nil {
				return controller.NewErrorResponse(401, appErr.Code, appErr.Message)
			}

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
				if err == nil && blacklisted {
					return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Token revoked")
				}
			}

			claims, appErr := utils.ParseToken(config.Get().JWT.Secret, token)
			if appErr != nil {
				return controller.NewErrorResponse(401, appErr.Code, appErr.Message)
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// OptionalAuthMiddleware parses credentials when present but lets anonymous
// requests through. Used by endpoints that accept either a member token or
// participant identification.
func (m *Middleware) OptionalAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, appErr := bearerToken(c)
			if appErr == nil {
				if claims, parseErr := utils.ParseToken(config.Get().JWT.Secret, token); parseErr == nil {
					c.Set(constants.ContextTokenData, claims)
				}
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, *errors.AppError) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", errors.NewAppError(errors.ErrMissingAuthorizationHeader, "Missing Authorization header", nil)
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.NewAppError(errors.ErrInvalidTokenFormat, "Authorization header must be a Bearer token", nil)
	}
	return parts[1], nil
}
