package server

import (
	"strings"

	"sportpulse/internal/middleware"
	"sportpulse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	maxPaginationLimit = 100
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// caller returns the authenticated user ID and username set by AuthRequired.
// It writes a 401 when the route was mounted without the middleware.
func caller(c *fiber.Ctx) (userID, username string, ok bool) {
	userID, ok = middleware.UserID(c)
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
		return "", "", false
	}
	username, _ = c.Locals("username").(string)
	return userID, username, true
}

// requiredParam reads a non-empty route parameter or writes a 400.
func requiredParam(c *fiber.Ctx, name, label string) (string, bool) {
	v := strings.TrimSpace(c.Params(name))
	if v == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+label))
		return "", false
	}
	return v, true
}
