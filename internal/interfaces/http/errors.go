package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/socks-api/internal/application/dto"
	"github.com/jhoicas/socks-api/internal/domain"
	"github.com/jhoicas/socks-api/pkg/logger"
	"github.com/jhoicas/socks-api/pkg/textenc"
)

// writeError traduce un error de dominio al código HTTP y cuerpo dto.ErrorResponse.
// Los errores no reconocidos se registran y responden 500.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusBadRequest, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrMalformedInput):
		status, code = fiber.StatusBadRequest, "MALFORMED_CSV"
	case errors.Is(err, textenc.ErrUnsupportedCharset):
		status, code = fiber.StatusBadRequest, "UNSUPPORTED_CHARSET"
	}
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("request_id", requestID(c)).Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno del servidor"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// badRequest respuesta 400 para errores de parseo en la capa HTTP.
func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// ErrorHandler maneja los errores que Fiber no entrega a un handler (rutas inexistentes, body demasiado grande, panics).
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = "NOT_FOUND"
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			case fiber.StatusRequestEntityTooLarge:
				code = "BODY_TOO_LARGE"
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
		return writeError(c, log, err)
	}
}
