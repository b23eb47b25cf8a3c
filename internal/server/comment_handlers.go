package server

import (
	"sportpulse/internal/models"
	"sportpulse/internal/notifications"
	"sportpulse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/comments/:postId
// @Summary List comments of a post
// @Description Newest first
// @Tags comments
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{postId} [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, ok := requiredParam(c, "postId", "post ID")
	if !ok {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/comments/:postId
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Post ID"
// @Param request body object{comment=string} true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{postId} [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID, username, ok := caller(c)
	if !ok {
		return nil
	}
	postID, ok := requiredParam(c, "postId", "post ID")
	if !ok {
		return nil
	}

	var req struct {
		Comment string `json:"comment" form:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:   userID,
		Username: username,
		PostID:   postID,
		Comment:  req.Comment,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.publishFeedEvent(notifications.EventCommentCreated, comment)
	return c.Status(fiber.StatusCreated).JSON(comment)
}
