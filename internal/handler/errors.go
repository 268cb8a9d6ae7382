package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"movieflix/internal/service"
	"movieflix/internal/tmdb"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps service errors to HTTP statuses.
func respondError(c fiber.Ctx, err error) error {
	var validationErr *service.ValidationError
	var statusErr *tmdb.StatusError

	switch {
	case errors.As(err, &validationErr), errors.Is(err, service.ErrInvalidContentID):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrContentNotFound),
		errors.Is(err, tmdb.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrUserExists):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: err.Error()})
	case errors.As(err, &statusErr):
		slog.Error("upstream failure", "status", statusErr.StatusCode, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "upstream catalog request failed"})
	default:
		slog.Error("unhandled error", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal server error"})
	}
}
