package server

import (
	"sportpulse/internal/models"
	"sportpulse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateRole handles PUT /api/auth/role
// @Summary Choose role
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{role=string} true "athlete, coach or beginner"
// @Success 200 {object} object{role=string,message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/role [put]
func (s *Server) UpdateRole(c *fiber.Ctx) error {
	userID, _, ok := caller(c)
	if !ok {
		return nil
	}

	var req struct {
		Role string `json:"role" form:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	role, err := s.userService.UpdateRole(c.UserContext(), userID, req.Role)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"role":    role,
		"message": "Role updated successfully",
	})
}

// UpdatePersonalInfo handles PUT /api/auth/personal-info
// @Summary Complete profile
// @Description Stores the registration wizard profile and consents
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.PersonalInfoInput true "Profile"
// @Success 200 {object} object{personalInfo=models.PersonalInfo,message=string,registrationStep=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/personal-info [put]
func (s *Server) UpdatePersonalInfo(c *fiber.Ctx) error {
	userID, _, ok := caller(c)
	if !ok {
		return nil
	}

	var req service.PersonalInfoInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdatePersonalInfo(c.UserContext(), userID, req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"personalInfo":     user.PersonalInfo,
		"message":          "Personal information saved",
		"registrationStep": user.RegistrationStep,
	})
}
