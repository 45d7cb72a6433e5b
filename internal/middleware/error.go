package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"webdating-engagement/internal/domain"
)

// ErrorResponse is a failed domain.Result with the fields needed to find the
// request in the logs.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
	TraceID string `json:"trace_id,omitempty"`
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	status, errorCode := classify(err)

	message := domain.FailureMessage(err)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		message = fe.Message
	}

	traceID := uuid.New().String()[:8]
	if status >= fiber.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("trace_id", traceID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
	}

	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Message: message,
		Code:    errorCode,
		TraceID: traceID,
	})
}

func classify(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusBadRequest:
			return fe.Code, "BAD_REQUEST"
		case fiber.StatusUnauthorized:
			return fe.Code, "UNAUTHORIZED"
		case fiber.StatusForbidden:
			return fe.Code, "FORBIDDEN"
		case fiber.StatusNotFound:
			return fe.Code, "NOT_FOUND"
		case fiber.StatusConflict:
			return fe.Code, "CONFLICT"
		case fiber.StatusUnprocessableEntity:
			return fe.Code, "VALIDATION_ERROR"
		}
		return fe.Code, "ERROR"
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusUnprocessableEntity, "VALIDATION_ERROR"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrCommit):
		return fiber.StatusInternalServerError, "COMMIT_FAILED"
	}
	return fiber.StatusInternalServerError, "INTERNAL_ERROR"
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}
