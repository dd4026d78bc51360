package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/tienda-inventario/internal/application/dto"
	"github.com/jhoicas/tienda-inventario/internal/domain"
)

// statusByCode traduce el código de dominio a estado HTTP.
var statusByCode = map[string]int{
	"VALIDATION":         fiber.StatusBadRequest,
	"NOT_FOUND":          fiber.StatusNotFound,
	"DUPLICATE":          fiber.StatusConflict,
	"INSUFFICIENT_STOCK": fiber.StatusConflict,
	"CONFLICT":           fiber.StatusConflict,
	"UNAUTHORIZED":       fiber.StatusUnauthorized,
	"FORBIDDEN":          fiber.StatusForbidden,
	"PERSISTENCE":        fiber.StatusInternalServerError,
	"INTERNAL":           fiber.StatusInternalServerError,
}

// writeError responde con dto.ErrorResponse. Los 5xx se registran y no exponen la causa.
func writeError(c *fiber.Ctx, err error) error {
	code := domain.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("company_id", GetCompanyID(c)).
			Msg("error interno en petición")
		msg = "error interno, intente de nuevo"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

// ErrorHandler handler de errores de Fiber para lo que escapa de los handlers (404 de rutas, panics recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		code := "INTERNAL"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
			code = "INVALID_BODY"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}
