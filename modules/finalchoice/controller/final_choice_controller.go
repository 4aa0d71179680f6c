package controller

import (
	"modutime/core/constants"
	"modutime/core/controller"
	"modutime/core/errors"
	"modutime/core/utils"
	"modutime/modules/finalchoice/dto"
	"modutime/modules/finalchoice/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type FinalChoiceController struct {
	service *service.FinalChoiceService
	controller.BaseController
}

func NewFinalChoiceController(service *service.FinalChoiceService) *FinalChoiceController {
	return &FinalChoiceController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Confirm records the final slot for an event
// @Summary Confirm a slot
// @Description Confirms exactly one slot per event; later confirms get 409
// @Tags FinalChoice
// @Accept json
// @Produce json
// @Param event_id path string true "Event ID"
// @Param request body dto.ConfirmRequest true "Slot to confirm"
// @Success 201 {object} controller.SuccessResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /public/events/{event_id}/final-choice [post]
func (c *FinalChoiceController) Confirm(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	req := new(dto.ConfirmRequest)
	if err := ctx.Bind(req); err != nil || req.SlotID == uuid.Nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.service.Confirm(ctx.Request().Context(), eventID, optionalUserID(ctx), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Slot confirmed successfully")
}

// Get returns the confirmed slot
// @Summary Get the final choice
// @Tags FinalChoice
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /public/events/{event_id}/final-choice [get]
func (c *FinalChoiceController) Get(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.service.Get(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Final choice retrieved successfully")
}

func optionalUserID(ctx echo.Context) *uuid.UUID {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return nil
	}
	id := claims.UserID
	return &id
}
