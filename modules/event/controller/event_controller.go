package controller

import (
	"strconv"

	"modutime/core/constants"
	"modutime/core/controller"
	"modutime/core/errors"
	"modutime/core/params"
	"modutime/core/utils"
	"modutime/modules/event/dto"
	"modutime/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EventController struct {
	service *service.EventService
	controller.BaseController
}

func NewEventController(service *service.EventService) *EventController {
	return &EventController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Create creates an event and its slot grid
// @Summary Create an event
// @Description Creates an event and discretizes its date/time window into 30-minute slots
// @Tags Event
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event window"
// @Success 201 {object} controller.SuccessResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /public/events [post]
func (c *EventController) Create(ctx echo.Context) error {
	req := new(dto.CreateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.service.Create(ctx.Request().Context(), optionalUserID(ctx), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Event created successfully")
}

// Get returns event detail with the availability heatmap
// @Summary Get an event
// @Tags Event
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /public/events/{event_id} [get]
func (c *EventController) Get(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.service.GetByID(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event retrieved successfully")
}

// GetBySlug resolves a share link
// @Summary Get an event by slug
// @Tags Event
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} controller.SuccessResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /public/events/slug/{slug} [get]
func (c *EventController) GetBySlug(ctx echo.Context) error {
	slug := ctx.Param("slug")
	if slug == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Missing slug")
	}

	result, appErr := c.service.GetBySlug(ctx.Request().Context(), slug)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event retrieved successfully")
}

// GetMyEvents lists the caller's events
// @Summary List my events
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/events [get]
func (c *EventController) GetMyEvents(ctx echo.Context) error {
	userID, ok := requiredUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	result, appErr := c.service.GetMyEvents(ctx.Request().Context(), userID, params.FromContext(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Events retrieved successfully")
}

// Update edits event metadata
// @Summary Update an event
// @Description Edits metadata; the time window is frozen once availability exists
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param event_id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Fields to update"
// @Success 200 {object} controller.SuccessResponse
// @Failure 403 {object} controller.ErrorResponse
// @Router /private/events/{event_id} [put]
func (c *EventController) Update(ctx echo.Context) error {
	userID, ok := requiredUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	req := new(dto.UpdateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.service.Update(ctx.Request().Context(), eventID, userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event updated successfully")
}

// Delete soft-deletes an event
// @Summary Delete an event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/events/{event_id} [delete]
func (c *EventController) Delete(ctx echo.Context) error {
	userID, ok := requiredUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	if appErr := c.service.Delete(ctx.Request().Context(), eventID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Event deleted successfully")
}

// Share returns the public link
// @Summary Get share info
// @Tags Event
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} controller.SuccessResponse
// @Router /public/events/{event_id}/share [get]
func (c *EventController) Share(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.service.ShareInfo(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Share info retrieved successfully")
}

// Summary returns slots above a participant threshold
// @Summary Availability summary
// @Tags Event
// @Produce json
// @Param event_id path string true "Event ID"
// @Param min query int false "Minimum participant count"
// @Param all query bool false "Only slots where everyone is available"
// @Success 200 {object} controller.SuccessResponse
// @Router /public/events/{event_id}/summary [get]
func (c *EventController) Summary(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	min, _ := strconv.Atoi(ctx.QueryParam("min"))
	all, _ := strconv.ParseBool(ctx.QueryParam("all"))

	result, appErr := c.service.Summary(ctx.Request().Context(), eventID, min, all)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Summary retrieved successfully")
}

// Recommend ranks the best slots
// @Summary Recommend slots
// @Tags Event
// @Produce json
// @Param event_id path string true "Event ID"
// @Param limit query int false "Maximum slots to return"
// @Success 200 {object} controller.SuccessResponse
// @Router /public/events/{event_id}/recommend [get]
func (c *EventController) Recommend(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))

	result, appErr := c.service.Recommend(ctx.Request().Context(), eventID, limit)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Recommendation retrieved successfully")
}

// Dashboard returns participation stats
// @Summary Event dashboard
// @Description Organizer, roster members, or a participant identified by id and email
// @Tags Event
// @Produce json
// @Param event_id path string true "Event ID"
// @Param participant_id query string false "Participant ID (anonymous access)"
// @Param email query string false "Participant contact email (anonymous access)"
// @Success 200 {object} controller.SuccessResponse
// @Failure 403 {object} controller.ErrorResponse
// @Router /public/events/{event_id}/dashboard [get]
func (c *EventController) Dashboard(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	access := service.DashboardAccess{
		UserID: optionalUserID(ctx),
		Email:  ctx.QueryParam("email"),
	}
	if raw := ctx.QueryParam("participant_id"); raw != "" {
		pid, err := uuid.Parse(raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid participant id")
		}
		access.ParticipantID = &pid
	}

	result, appErr := c.service.Dashboard(ctx.Request().Context(), eventID, access)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Dashboard retrieved successfully")
}

func optionalUserID(ctx echo.Context) *uuid.UUID {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return nil
	}
	id := claims.UserID
	return &id
}

func requiredUserID(ctx echo.Context) (uuid.UUID, bool) {
	if id := optionalUserID(ctx); id != nil {
		return *id, true
	}
	return uuid.Nil, false
}
