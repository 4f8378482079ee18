package serverutils

import (
	"errors"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

var kindStatus = map[apperror.Kind]int{
	apperror.KindUnroutableRequest:  fiber.StatusBadRequest,
	apperror.KindInvalidRequest:     fiber.StatusBadRequest,
	apperror.KindContentUnavailable: fiber.StatusUnprocessableEntity,
	apperror.KindSchemaValidation:   fiber.StatusBadGateway,
	apperror.KindAnalysisNotFound:   fiber.StatusNotFound,
	apperror.KindSessionNotFound:    fiber.StatusNotFound,
	apperror.KindJobNotFound:        fiber.StatusNotFound,
	apperror.KindCollaboratorOutage: fiber.StatusServiceUnavailable,
}

// StatusForKind maps an error kind to its HTTP status.
func StatusForKind(kind apperror.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// ErrorHandlerMiddleware turns errors returned by handlers into JSON.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, log, err)
	}
}

func WriteError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	var (
		verr   *ValidationError
		appErr *apperror.Error
		fbErr  *fiber.Error
	)

	status := fiber.StatusInternalServerError
	body := ErrorResponse{Message: "internal server error", Error: ErrorBody{Kind: "Internal"}}

	switch {
	case errors.As(err, &verr):
		status = fiber.StatusBadRequest
		body.Message = verr.Error()
		body.Error = ErrorBody{Kind: string(apperror.KindInvalidRequest), Fields: verr.Fields}
	case errors.As(err, &appErr):
		status = StatusForKind(appErr.Kind)
		body.Message = appErr.Error()
		body.Error = ErrorBody{Kind: string(appErr.Kind), Stage: appErr.Stage}
	case errors.As(err, &fbErr):
		status = fbErr.Code
		body.Message = fbErr.Message
		body.Error = ErrorBody{Kind: "HTTP"}
	}

	if status >= fiber.StatusInternalServerError {
		log.Error("HTTP", "Request failed", map[string]interface{}{
			"path":   ctx.Path(),
			"method": ctx.Method(),
			"status": status,
			"error":  err.Error(),
		})
	}
	return ctx.Status(status).JSON(body)
}
