package router

import (
	"modutime/core/middleware"
	"modutime/modules/participant/controller"

	"github.com/labstack/echo/v4"
)

type ParticipantRouter struct {
	controller *controller.ParticipantController
}

func NewParticipantRouter(controller *controller.ParticipantController) *ParticipantRouter {
	return &ParticipantRouter{controller: controller}
}

// Register mounts roster and availability routes under an event. Join and
// availability routes are public; registration picks up credentials when
// present so registered users get linked automatically. Removing a
// participant is organizer-only.
func (r *ParticipantRouter) Register(api *echo.Group, mw *middleware.Middleware) {
	group := api.Group("/public/events/:event_id/participants", mw.OptionalAuthMiddleware())
	group.POST("", r.controller.Register)
	group.GET("", r.controller.List)
	group.GET("/:participant_id", r.controller.Get)
	group.PUT("/:participant_id/availability", r.controller.SubmitAvailability)
	group.GET("/:participant_id/availability", r.controller.GetAvailability)

	private := api.Group("/private/events/:event_id/participants", mw.AuthMiddleware())
	private.DELETE("/:participant_id", r.controller.Remove)
}
