package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/covematch/internal/services"
	"github.com/localnerve/covematch/internal/types"
	"github.com/localnerve/covematch/internal/utils"
	"github.com/sirupsen/logrus"
)

// StatusForKind maps a lifecycle error kind to its HTTP status
func StatusForKind(kind services.Kind) int {
	switch kind {
	case services.KindBadRequest:
		return fiber.StatusBadRequest
	case services.KindForbidden:
		return fiber.StatusForbidden
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// serviceError sends the error envelope for a lifecycle error, typed with its
// stable code. Internal details never reach the client.
func serviceError(c *fiber.Ctx, err error, fallbackType string) error {
	var serviceErr *services.Error
	if !errors.As(err, &serviceErr) {
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, fallbackType)
	}

	status := StatusForKind(serviceErr.Kind)
	message := serviceErr.Message
	if status == fiber.StatusInternalServerError {
		message = "Internal server error"
	}
	return utils.ErrorResponse(c, message, status, serviceErr.Code)
}

// ErrorHandler handles errors globally: middleware CustomErrors keep their
// status and type, fiber errors keep their code, anything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	errorType := "unknown"

	var customErr *types.CustomError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &customErr):
		code = customErr.Code
		message = customErr.Message
		errorType = customErr.Type
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	default:
		logrus.WithError(err).WithField("url", c.OriginalURL()).Error("Unhandled request error")
	}

	return utils.ErrorResponse(c, message, code, errorType)
}

// NotFound answers any route nothing else matched
func NotFound(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, "[404] Resource Not Found", fiber.StatusNotFound, "route.notFound")
}
