package router

import (
	"modutime/core/middleware"
	"modutime/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{controller: controller}
}

func (r *CalendarRouter) Register(api *echo.Group, _ *middleware.Middleware) {
	group := api.Group("/public/events/:event_id")
	group.GET("/calendar-export", r.controller.Export)
	group.GET("/calendar.ics", r.controller.ICS)
}
