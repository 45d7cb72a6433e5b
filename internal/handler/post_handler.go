package handler

import (
	"github.com/gofiber/fiber/v2"

	"webdating-engagement/internal/domain"
	"webdating-engagement/internal/middleware"
	"webdating-engagement/internal/service/post"
)

type PostHandler struct {
	postService post.Service
	validate    *Validator
}

func NewPostHandler(postService post.Service, validate *Validator) *PostHandler {
	return &PostHandler{postService: postService, validate: validate}
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.CreatePostInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return err
	}

	p, err := h.postService.Create(c.Context(), userID, input)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusCreated, p, "Post created")
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	postID, err := paramID(c, "postId", "post")
	if err != nil {
		return err
	}

	p, err := h.postService.GetByID(c.Context(), postID)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, p, "")
}
