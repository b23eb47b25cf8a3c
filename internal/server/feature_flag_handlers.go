package server

import "github.com/gofiber/fiber/v2"

// GetFeatureFlags returns configured feature flags and their state for the caller, if any.
// @Summary List feature flags
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, _ := s.optionalUserID(c)

	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(userID),
	})
}
