package server

import (
	"sportpulse/internal/models"
	"sportpulse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// authResponse is returned by register and login.
type authResponse struct {
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
	Message string       `json:"message"`
}

// meResponse is the full auth state of the caller.
type meResponse struct {
	User             *models.User            `json:"user"`
	Token            string                  `json:"token"`
	Role             models.Role             `json:"role"`
	PersonalInfo     models.PersonalInfo     `json:"personalInfo"`
	RegistrationStep models.RegistrationStep `json:"registrationStep"`
}

// Register handles POST /api/auth/register
// @Summary Register
// @Description Create an account and return a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string} true "Registration"
// @Success 201 {object} authResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username" form:"username"`
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	session, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{
		Token:   session.Token,
		User:    session.User,
		Message: "User registered successfully",
	})
}

// Login handles POST /api/auth/login
// @Summary Login
// @Description Authenticate with username or email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{identifier=string,username=string,email=string,password=string} true "Credentials"
// @Success 200 {object} authResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Identifier string `json:"identifier" form:"identifier"`
		Username   string `json:"username" form:"username"`
		Email      string `json:"email" form:"email"`
		Password   string `json:"password" form:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Username
	}
	if identifier == "" {
		identifier = req.Email
	}

	session, err := s.authService.Login(c.UserContext(), service.LoginInput{
		Identifier: identifier,
		Password:   req.Password,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(authResponse{
		Token:   session.Token,
		User:    session.User,
		Message: "Login successful",
	})
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Description Returns the caller with a freshly issued token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} meResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (s *Server) Me(c *fiber.Ctx) error {
	userID, _, ok := caller(c)
	if !ok {
		return nil
	}

	session, err := s.authService.Refresh(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(meResponse{
		User:             session.User,
		Token:            session.Token,
		Role:             session.User.Role,
		PersonalInfo:     session.User.PersonalInfo,
		RegistrationStep: session.User.RegistrationStep,
	})
}
