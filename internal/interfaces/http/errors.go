package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/domain"
)

// respondError traduce un error de dominio a la respuesta HTTP.
// Los fallos de almacenamiento (u otros no tipados) se registran y responden 500 sin detalle.
func respondError(c *fiber.Ctx, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		switch de.Code {
		case domain.CodeValidation:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: de.Code, Message: de.Message})
		case domain.CodeNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: de.Code, Message: de.Message})
		case domain.CodeInsufficientStock, domain.CodeInvalidState:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: de.Code, Message: de.Message})
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// paramID lee un id numérico positivo de la ruta.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryID lee un id opcional de la query; ausente = 0.
func queryID(c *fiber.Ctx, key string) (int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// queryTime lee un timestamp RFC3339 opcional de la query.
func queryTime(c *fiber.Ctx, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
