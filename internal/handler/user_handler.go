package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"movieflix/internal/middleware"
	"movieflix/internal/models"
	"movieflix/internal/service"
)

// UserHandler handles HTTP requests for the profile view and list mutations.
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Profile returns the authenticated user's composed profile view.
func (h *UserHandler) Profile(c fiber.Ctx) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "authentication required"})
	}

	profile, err := h.svc.Profile(c.Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// AddToList returns a handler adding the :id path parameter to one of the
// caller's lists. The movie and TV variants of every list route share this.
func (h *UserHandler) AddToList(kind models.ContentKind, list models.ListName) fiber.Handler {
	return h.mutateList(kind, list, true)
}

// RemoveFromList returns the removal counterpart of AddToList.
func (h *UserHandler) RemoveFromList(kind models.ContentKind, list models.ListName) fiber.Handler {
	return h.mutateList(kind, list, false)
}

func (h *UserHandler) mutateList(kind models.ContentKind, list models.ListName, add bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		user, ok := middleware.UserFromContext(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "authentication required"})
		}

		contentID, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid " + string(kind) + " ID"})
		}

		var ids []int
		if add {
			ids, err = h.svc.AddToList(user.ID, kind, list, contentID)
		} else {
			ids, err = h.svc.RemoveFromList(user.ID, kind, list, contentID)
		}
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(fiber.Map{
			"message":           mutationMessage(add, kind, list),
			listField(kind, list): ids,
		})
	}
}

// UpdatePreferences applies a partial update to the caller's preferences.
func (h *UserHandler) UpdatePreferences(c fiber.Ctx) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "authentication required"})
	}

	var req models.PreferencesRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	prefs, err := h.svc.UpdatePreferences(user.ID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":     "Preferences updated",
		"preferences": prefs,
	})
}

func listField(kind models.ContentKind, list models.ListName) string {
	field := string(list)
	if kind == models.KindTV {
		field += "TV"
	}
	return field
}

func mutationMessage(add bool, kind models.ContentKind, list models.ListName) string {
	verb := "Added to"
	if !add {
		verb = "Removed from"
	}
	target := string(list)
	if kind == models.KindTV {
		target = "TV " + target
	}
	return verb + " " + target
}
