package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"movieflix/internal/middleware"
	"movieflix/internal/models"
	"movieflix/internal/service"
)

// ReviewHandler handles HTTP requests for review CRUD.
type ReviewHandler struct {
	svc *service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(svc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// Submit creates or replaces the caller's review for a content id.
func (h *ReviewHandler) Submit(c fiber.Ctx) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "authentication required"})
	}

	contentID, err := strconv.Atoi(c.Params("contentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid content ID"})
	}

	var req models.ReviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	review, err := h.svc.Submit(user.ID, contentID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Review saved",
		"review":  review,
	})
}

// List returns one page of reviews for a content id.
func (h *ReviewHandler) List(c fiber.Ctx) error {
	contentID, err := strconv.Atoi(c.Params("contentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid content ID"})
	}

	page := fiber.Query(c, "page", 1)
	limit := fiber.Query(c, "limit", 10)

	result, err := h.svc.ListByContent(contentID, page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Delete removes the caller's review for a content id.
func (h *ReviewHandler) Delete(c fiber.Ctx) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "authentication required"})
	}

	contentID, err := strconv.Atoi(c.Params("contentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid content ID"})
	}

	if err := h.svc.Delete(user.ID, contentID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Review deleted"})
}
