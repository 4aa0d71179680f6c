package controller

import (
	"net/http"

	"modutime/core/controller"
	"modutime/core/errors"
	"modutime/modules/calendar/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	service *service.CalendarService
	controller.BaseController
}

func NewCalendarController(service *service.CalendarService) *CalendarController {
	return &CalendarController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Export returns add-to-calendar links for the confirmed slot
// @Summary Calendar export info
// @Tags Calendar
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /public/events/{event_id}/calendar-export [get]
func (c *CalendarController) Export(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.service.Export(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Calendar export retrieved successfully")
}

// ICS serves the confirmed slot as an iCalendar file
// @Summary Download .ics file
// @Tags Calendar
// @Produce text/calendar
// @Param event_id path string true "Event ID"
// @Success 200 {string} string
// @Failure 404 {object} controller.ErrorResponse
// @Router /public/events/{event_id}/calendar.ics [get]
func (c *CalendarController) ICS(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	body, appErr := c.service.ICS(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="event.ics"`)
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
