package server

import (
	"errors"
	"io"

	"sportpulse/internal/models"
	"sportpulse/internal/notifications"
	"sportpulse/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// postForm is the multipart (or JSON) body of create and update.
type postForm struct {
	Title    string `json:"title" form:"title"`
	Text     string `json:"text" form:"text"`
	Category string `json:"category" form:"category"`
}

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Newest first; limit defaults to and is capped at 100
// @Tags posts
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Post
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, maxPaginationLimit)

	posts, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(posts)
}

// GetMyPosts handles GET /api/posts/user/me
// @Summary List the caller's posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Post
// @Router /posts/user/me [get]
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	userID, _, ok := caller(c)
	if !ok {
		return nil
	}

	posts, err := s.postService.ListUserPosts(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Description Counts a view and embeds the comments
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, ok := requiredParam(c, "id", "post ID")
	if !ok {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param text formData string true "Body"
// @Param category formData string false "Category"
// @Param image formData file false "Image"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, username, ok := caller(c)
	if !ok {
		return nil
	}

	var req postForm
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	image, err := s.storeUpload(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	in := service.CreatePostInput{
		AuthorID: userID,
		Username: username,
		Title:    req.Title,
		Text:     req.Text,
		Category: req.Category,
	}
	if image != nil {
		in.ImgURL = image.URL
	}

	post, err := s.postService.CreatePost(c.UserContext(), in)
	if err != nil {
		if image != nil {
			s.imageService.Remove(image.URL)
		}
		return models.RespondWithAppError(c, err)
	}

	s.publishFeedEvent(notifications.EventPostCreated, post)
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update a post
// @Description Owner only; empty fields keep their value
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param title formData string false "Title"
// @Param text formData string false "Body"
// @Param category formData string false "Category"
// @Param image formData file false "Replacement image"
// @Success 200 {object} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID, _, ok := caller(c)
	if !ok {
		return nil
	}
	id, ok := requiredParam(c, "id", "post ID")
	if !ok {
		return nil
	}

	var req postForm
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	image, err := s.storeUpload(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	in := service.UpdatePostInput{
		UserID:   userID,
		PostID:   id,
		Title:    req.Title,
		Text:     req.Text,
		Category: req.Category,
	}
	if image != nil {
		in.ImgURL = image.URL
	}

	post, err := s.postService.UpdatePost(c.UserContext(), in)
	if err != nil {
		if image != nil {
			s.imageService.Remove(image.URL)
		}
		return models.RespondWithAppError(c, err)
	}

	s.publishFeedEvent(notifications.EventPostUpdated, post)
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Description Owner only
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} object{_id=string,message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID, _, ok := caller(c)
	if !ok {
		return nil
	}
	id, ok := requiredParam(c, "id", "post ID")
	if !ok {
		return nil
	}

	post, err := s.postService.DeletePost(c.UserContext(), userID, id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if post.ImgURL != "" {
		s.imageService.Remove(post.ImgURL)
	}

	s.publishFeedEvent(notifications.EventPostDeleted, fiber.Map{"_id": id})
	return c.JSON(fiber.Map{
		"_id":     id,
		"message": "Post deleted successfully",
	})
}

// storeUpload saves the optional "image" file. It returns nil when the request carries none.
func (s *Server) storeUpload(c *fiber.Ctx) (*service.StoredImage, error) {
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
			return nil, nil
		}
		return nil, models.NewValidationError("Unable to read uploaded file")
	}

	src, err := file.Open()
	if err != nil {
		return nil, models.NewValidationError("Unable to read uploaded file")
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(io.LimitReader(src, s.imageService.MaxUploadBytes()+1))
	if err != nil {
		return nil, models.NewValidationError("Unable to read uploaded file")
	}

	return s.imageService.Save(c.UserContext(), service.UploadImageInput{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Content:     content,
	})
}
