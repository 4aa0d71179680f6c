package router

import (
	"modutime/core/middleware"
	"modutime/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	controller *controller.AuthController
}

func NewAuthRouter(controller *controller.AuthController) *AuthRouter {
	return &AuthRouter{controller: controller}
}

func (r *AuthRouter) Register(api *echo.Group, mw *middleware.Middleware) {
	public := api.Group("/public/auth")
	public.POST("/register", r.controller.Register)
	public.POST("/login", r.controller.Login)

	private := api.Group("/private/auth", mw.AuthMiddleware())
	private.POST("/logout", r.controller.Logout)
	private.GET("/me", r.controller.Me)
}
