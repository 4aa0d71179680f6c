package controller

import (
	"modutime/core/constants"
	"modutime/core/controller"
	"modutime/core/errors"
	"modutime/core/utils"
	"modutime/modules/participant/dto"
	"modutime/modules/participant/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ParticipantController struct {
	service *service.ParticipantService
	controller.BaseController
}

func NewParticipantController(service *service.ParticipantService) *ParticipantController {
	return &ParticipantController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Register joins the event roster
// @Summary Join an event
// @Description Registers a participant with a per-event unique nickname
// @Tags Participant
// @Accept json
// @Produce json
// @Param event_id path string true "Event ID"
// @Param request body dto.RegisterParticipantRequest true "Participant info"
// @Success 201 {object} controller.SuccessResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /public/events/{event_id}/participants [post]
func (c *ParticipantController) Register(ctx echo.Context) error {
	eventID, err := pathUUID(ctx, "event_id")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	req := new(dto.RegisterParticipantRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.service.Register(ctx.Request().Context(), eventID, req, optionalUserID(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Participant registered successfully")
}

// List returns the event roster
// @Summary List participants
// @Tags Participant
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} controller.SuccessResponse
// @Router /public/events/{event_id}/participants [get]
func (c *ParticipantController) List(ctx echo.Context) error {
	eventID, err := pathUUID(ctx, "event_id")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.service.ListByEvent(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Participants retrieved successfully")
}

// Get returns one participant
// @Summary Get a participant
// @Tags Participant
// @Produce json
// @Param event_id path string true "Event ID"
// @Param participant_id path string true "Participant ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /public/events/{event_id}/participants/{participant_id} [get]
func (c *ParticipantController) Get(ctx echo.Context) error {
	eventID, participantID, err := pathScope(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid id in path")
	}

	result, appErr := c.service.Get(ctx.Request().Context(), eventID, participantID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Participant retrieved successfully")
}

// Remove deletes a participant from the roster
// @Summary Remove a participant
// @Description Removes a participant and their availability; organizer only
// @Tags Participant
// @Produce json
// @Security BearerAuth
// @Param event_id path string true "Event ID"
// @Param participant_id path string true "Participant ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 403 {object} controller.ErrorResponse
// @Router /private/events/{event_id}/participants/{participant_id} [delete]
func (c *ParticipantController) Remove(ctx echo.Context) error {
	eventID, participantID, err := pathScope(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid id in path")
	}

	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Authentication required")
	}

	if appErr := c.service.Remove(ctx.Request().Context(), eventID, participantID, claims.UserID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Participant removed successfully")
}

// SubmitAvailability replaces the participant's availability
// @Summary Submit availability
// @Description Replaces the participant's full availability set with the given slots
// @Tags Participant
// @Accept json
// @Produce json
// @Param event_id path string true "Event ID"
// @Param participant_id path string true "Participant ID"
// @Param request body dto.SubmitAvailabilityRequest true "Available slot ids"
// @Success 200 {object} controller.SuccessResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /public/events/{event_id}/participants/{participant_id}/availability [put]
func (c *ParticipantController) SubmitAvailability(ctx echo.Context) error {
	eventID, participantID, err := pathScope(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid id in path")
	}

	req := new(dto.SubmitAvailabilityRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.service.SubmitAvailability(ctx.Request().Context(), eventID, participantID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Availability saved successfully")
}

// GetAvailability returns the participant's current availability
// @Summary Get availability
// @Tags Participant
// @Produce json
// @Param event_id path string true "Event ID"
// @Param participant_id path string true "Participant ID"
// @Success 200 {object} controller.SuccessResponse
// @Router /public/events/{event_id}/participants/{participant_id}/availability [get]
func (c *ParticipantController) GetAvailability(ctx echo.Context) error {
	eventID, participantID, err := pathScope(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid id in path")
	}

	result, appErr := c.service.GetAvailability(ctx.Request().Context(), eventID, participantID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Availability retrieved successfully")
}

func pathUUID(ctx echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(ctx.Param(name))
}

func pathScope(ctx echo.Context) (uuid.UUID, uuid.UUID, error) {
	eventID, err := pathUUID(ctx, "event_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	participantID, err := pathUUID(ctx, "participant_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return eventID, participantID, nil
}

// optionalUserID reads claims set by OptionalAuthMiddleware, nil for
// anonymous requests.
func optionalUserID(ctx echo.Context) *uuid.UUID {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return nil
	}
	id := claims.UserID
	return &id
}
