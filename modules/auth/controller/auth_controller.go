package controller

import (
	"strings"

	"modutime/core/constants"
	"modutime/core/controller"
	"modutime/core/errors"
	"modutime/core/utils"
	"modutime/modules/auth/dto"
	"modutime/modules/auth/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuthController struct {
	service *service.AuthService
	controller.BaseController
}

func NewAuthController(service *service.AuthService) *AuthController {
	return &AuthController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Register creates an account
// @Summary Register
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account info"
// @Success 201 {object} controller.SuccessResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /public/auth/register [post]
func (c *AuthController) Register(ctx echo.Context) error {
	req := new(dto.RegisterRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.service.Register(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Registered successfully")
}

// Login issues an access token
// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} controller.SuccessResponse
// @Failure 401 {object} controller.ErrorResponse
// @Router /public/auth/login [post]
func (c *AuthController) Login(ctx echo.Context) error {
	req := new(dto.LoginRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.service.Login(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Logged in successfully")
}

// Logout revokes the current token
// @Summary Logout
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Router /private/auth/logout [post]
func (c *AuthController) Logout(ctx echo.Context) error {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return c.Unauthorized(errors.ErrInvalidTokenFormat, "Invalid Authorization header")
	}

	if appErr := c.service.Logout(ctx.Request().Context(), parts[1]); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Logged out successfully")
}

// Me returns the current account
// @Summary Current user
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Router /private/auth/me [get]
func (c *AuthController) Me(ctx echo.Context) error {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil || claims.UserID == uuid.Nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	result, appErr := c.service.Me(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "User retrieved successfully")
}
