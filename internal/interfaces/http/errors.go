package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stylashop-pos/internal/application/dto"
	"github.com/jhoicas/stylashop-pos/internal/application/feedback"
	"github.com/jhoicas/stylashop-pos/internal/domain"
)

// errorBody respuesta de error de la consola: código, mensaje y el aviso
// listo para mostrar.
type errorBody struct {
	dto.ErrorResponse
	Aviso feedback.Notice `json:"aviso"`
}

// statusFor clasifica err en status HTTP y código. ErrPartialCollection va
// primero porque viaja unido al error del backend que lo causó.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrPartialCollection):
		return fiber.StatusBadGateway, "PARTIAL_COLLECTION"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, domain.ErrAccountForbidden):
		return fiber.StatusForbidden, "ACCOUNT_FORBIDDEN"
	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrNoSession),
		errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "SESSION_ENDED"
	case errors.Is(err, domain.ErrInsufficientAmount):
		return fiber.StatusBadRequest, "INSUFFICIENT_AMOUNT"
	case errors.Is(err, domain.ErrCancelled):
		return fiber.StatusBadRequest, "CANCELLED"
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrBusy):
		return fiber.StatusConflict, "BUSY"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrServer):
		return fiber.StatusBadGateway, "BACKEND_ERROR"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError escribe el error con su aviso. Los 5xx se registran.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status, code := statusFor(err)
	n := feedback.FromError(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("ruta", c.Path()).Msg("operación fallida")
	}
	return c.Status(status).JSON(errorBody{
		ErrorResponse: dto.ErrorResponse{Code: code, Message: n.Message},
		Aviso:         n,
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func badID(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: name + " debe ser un número"})
}
