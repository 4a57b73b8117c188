package utils

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/dvor-map/internal/pkg/errors"
)

type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

type Meta struct {
	Total    int     `json:"total,omitempty"`
	TimeMSec float64 `json:"time_ms,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := errors.AsAppError(err); ok {
		status := appErr.StatusCode
		if status == 0 {
			// network and validation errors have no upstream status
			if appErr.Kind == errors.KindValidation {
				status = fiber.StatusUnprocessableEntity
			} else {
				status = fiber.StatusBadGateway
			}
		}
		return c.Status(status).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	if _, ok := err.(validator.ValidationErrors); ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: errors.New(errors.CodeInvalidInput, err.Error(), fiber.StatusBadRequest),
		})
	}

	// Unknown error - return 500
	return c.Status(500).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}
