package router

import (
	"modutime/core/middleware"
	"modutime/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	controller *controller.EventController
}

func NewEventRouter(controller *controller.EventController) *EventRouter {
	return &EventRouter{controller: controller}
}

// Register mounts event routes. Reading an event and its aggregates is
// public; managing one requires the organizer's token.
func (r *EventRouter) Register(api *echo.Group, mw *middleware.Middleware) {
	public := api.Group("/public/events", mw.OptionalAuthMiddleware())
	public.POST("", r.controller.Create)
	public.GET("/slug/:slug", r.controller.GetBySlug)
	public.GET("/:event_id", r.controller.Get)
	public.GET("/:event_id/share", r.controller.Share)
	public.GET("/:event_id/summary", r.controller.Summary)
	public.GET("/:event_id/recommend", r.controller.Recommend)
	public.GET("/:event_id/dashboard", r.controller.Dashboard)

	private := api.Group("/private/events", mw.AuthMiddleware())
	private.GET("", r.controller.GetMyEvents)
	private.PUT("/:event_id", r.controller.Update)
	private.DELETE("/:event_id", r.controller.Delete)
}
