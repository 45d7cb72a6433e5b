package handler

import (
	"github.com/gofiber/fiber/v2"

	"webdating-engagement/internal/domain"
	"webdating-engagement/internal/middleware"
	"webdating-engagement/internal/service/comment"
)

type CommentHandler struct {
	commentService comment.Service
	validate       *Validator
}

func NewCommentHandler(commentService comment.Service, validate *Validator) *CommentHandler {
	return &CommentHandler{commentService: commentService, validate: validate}
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.CreateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return err
	}

	node, err := h.commentService.Create(c.Context(), userID, input)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusCreated, node, "Comment created")
}

func (h *CommentHandler) Tree(c *fiber.Ctx) error {
	postID, err := paramID(c, "postId", "post")
	if err != nil {
		return err
	}

	nodes, err := h.commentService.Tree(c.Context(), postID)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, nodes, "")
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	commentID, err := paramID(c, "commentId", "comment")
	if err != nil {
		return err
	}

	var input domain.UpdateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return err
	}

	if err := h.commentService.Update(c.Context(), userID, commentID, input); err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "", "Comment updated")
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	commentID, err := paramID(c, "commentId", "comment")
	if err != nil {
		return err
	}

	if err := h.commentService.Delete(c.Context(), userID, commentID); err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "", "Comment deleted")
}
