package router

import (
	"modutime/core/middleware"
	"modutime/modules/finalchoice/controller"

	"github.com/labstack/echo/v4"
)

type FinalChoiceRouter struct {
	controller *controller.FinalChoiceController
}

func NewFinalChoiceRouter(controller *controller.FinalChoiceController) *FinalChoiceRouter {
	return &FinalChoiceRouter{controller: controller}
}

func (r *FinalChoiceRouter) Register(api *echo.Group, mw *middleware.Middleware) {
	group := api.Group("/public/events/:event_id/final-choice", mw.OptionalAuthMiddleware())
	group.POST("", r.controller.Confirm)
	group.GET("", r.controller.Get)
}
