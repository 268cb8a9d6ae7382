package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"movieflix/internal/models"
	"movieflix/internal/service"
)

// CatalogHandler handles the read-through catalog proxy endpoints. The movie
// and TV route variants share one kind-parameterized handler set.
type CatalogHandler struct {
	svc *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Search searches content of one kind by name.
func (h *CatalogHandler) Search(kind models.ContentKind) fiber.Handler {
	return func(c fiber.Ctx) error {
		body, err := h.svc.Search(c.Context(), kind, c.Query("name"), c.Query("page"))
		if err != nil {
			return respondError(c, err)
		}
		return sendJSON(c, body)
	}
}

// Trending returns the daily trending movies.
func (h *CatalogHandler) Trending(c fiber.Ctx) error {
	body, err := h.svc.Trending(c.Context(), c.Query("page"))
	if err != nil {
		return respondError(c, err)
	}
	return sendJSON(c, body)
}

// Popular returns popular content of one kind.
func (h *CatalogHandler) Popular(kind models.ContentKind) fiber.Handler {
	return func(c fiber.Ctx) error {
		body, err := h.svc.Popular(c.Context(), kind, c.Query("page"))
		if err != nil {
			return respondError(c, err)
		}
		return sendJSON(c, body)
	}
}

// TopRated returns top rated content of one kind.
func (h *CatalogHandler) TopRated(kind models.ContentKind) fiber.Handler {
	return func(c fiber.Ctx) error {
		body, err := h.svc.TopRated(c.Context(), kind, c.Query("page"))
		if err != nil {
			return respondError(c, err)
		}
		return sendJSON(c, body)
	}
}

// Indian returns movies from India sorted by popularity.
func (h *CatalogHandler) Indian(c fiber.Ctx) error {
	body, err := h.svc.Indian(c.Context(), c.Query("page"))
	if err != nil {
		return respondError(c, err)
	}
	return sendJSON(c, body)
}

// MultiSearch searches movies and TV shows together.
func (h *CatalogHandler) MultiSearch(c fiber.Ctx) error {
	result, err := h.svc.MultiSearch(c.Context(), c.Query("query"), c.Query("page"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Details returns the composed detail view for a content id.
func (h *CatalogHandler) Details(kind models.ContentKind) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := contentID(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid " + string(kind) + " ID"})
		}
		details, err := h.svc.ContentDetails(c.Context(), kind, id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(details)
	}
}

// Hover returns the lightweight preview payload for a content id.
func (h *CatalogHandler) Hover(kind models.ContentKind) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := contentID(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid " + string(kind) + " ID"})
		}
		payload, err := h.svc.Hover(c.Context(), kind, id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(payload)
	}
}

// Trailer returns the trailer key for a content id, null when none exists.
func (h *CatalogHandler) Trailer(kind models.ContentKind) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := contentID(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid " + string(kind) + " ID"})
		}
		key, err := h.svc.Trailer(c.Context(), kind, id)
		if err != nil {
			return respondError(c, err)
		}
		if key == "" {
			return c.JSON(fiber.Map{"key": nil})
		}
		return c.JSON(fiber.Map{"key": key})
	}
}

// Season returns the episode list for one season of a TV show.
func (h *CatalogHandler) Season(c fiber.Ctx) error {
	id, err := contentID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid tv ID"})
	}
	seasonNumber, err := strconv.Atoi(c.Params("seasonNumber"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid season number"})
	}

	body, err := h.svc.Season(c.Context(), id, seasonNumber)
	if err != nil {
		return respondError(c, err)
	}
	return sendJSON(c, body)
}

// Random returns a random trending movie with full detail composition.
func (h *CatalogHandler) Random(c fiber.Ctx) error {
	details, err := h.svc.Random(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(details)
}

// Live returns the top trending movies with cast attached.
func (h *CatalogHandler) Live(c fiber.Ctx) error {
	movies, err := h.svc.Live(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movies)
}

func contentID(c fiber.Ctx) (int, error) {
	return strconv.Atoi(c.Params("id"))
}

// sendJSON writes a pass-through upstream body without re-encoding it.
func sendJSON(c fiber.Ctx, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}
