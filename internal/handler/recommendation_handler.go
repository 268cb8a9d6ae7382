package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"movieflix/internal/middleware"
	"movieflix/internal/service"
)

// RecommendationHandler handles recommendation requests.
type RecommendationHandler struct {
	svc *service.RecommendationService
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(svc *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

// ForUser returns personalized recommendations for the caller, or trending
// picks for anonymous callers.
func (h *RecommendationHandler) ForUser(c fiber.Ctx) error {
	userID := 0
	if user, ok := middleware.UserFromContext(c); ok {
		userID = user.ID
	}

	recs, err := h.svc.ForUser(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"recommendations": recs})
}

// Similar returns movies similar to the one in the path.
func (h *RecommendationHandler) Similar(c fiber.Ctx) error {
	movieID, err := strconv.Atoi(c.Params("movieId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	recs, err := h.svc.Similar(c.Context(), movieID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"recommendations": recs})
}
