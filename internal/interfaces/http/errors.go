package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurante-cliente/internal/application/dto"
	"github.com/jhoicas/restaurante-cliente/internal/domain"
	"github.com/jhoicas/restaurante-cliente/pkg/logger"
)

// respondError traduce los errores de dominio a dto.ErrorResponse.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var (
		verr *domain.ValidationError
		aerr *domain.AuthenticationError
		rerr *domain.RegistrationError
	)
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: dto.CodeValidation, Message: verr.Message})
	case errors.As(err, &aerr):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: dto.CodeUnauthorized, Message: aerr.Error()})
	case errors.As(err, &rerr):
		status := fiber.StatusBadRequest
		if rerr.Status == fiber.StatusConflict {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: dto.CodeRegistrationRejected, Message: rerr.Error()})
	case errors.Is(err, domain.ErrLoginSuperseded):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: dto.CodeLoginSuperseded, Message: err.Error()})
	case errors.Is(err, domain.ErrTooManyAttempts):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: dto.CodeTooManyRequests, Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: dto.CodeNotFound, Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: dto.CodeUnauthorized, Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{Code: dto.CodeBackendUnavailable, Message: "el backend no respondió a tiempo"})
	}
	log.Error().Err(err).Str("ruta", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: dto.CodeInternal, Message: "error interno"})
}
