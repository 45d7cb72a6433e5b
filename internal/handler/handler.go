package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"webdating-engagement/internal/domain"
	"webdating-engagement/internal/middleware"
	"webdating-engagement/internal/service"
)

type Handlers struct {
	Post         *PostHandler
	Comment      *CommentHandler
	Reaction     *ReactionHandler
	Notification *NotificationHandler
}

func NewHandlers(services *service.Services) *Handlers {
	validate := NewValidator()
	return &Handlers{
		Post:         NewPostHandler(services.Post, validate),
		Comment:      NewCommentHandler(services.Comment, validate),
		Reaction:     NewReactionHandler(services.Reaction, validate),
		Notification: NewNotificationHandler(services.Notification),
	}
}

// Register mounts every engagement route on router, which is expected to
// carry the authentication middleware already.
func (h *Handlers) Register(router fiber.Router) {
	posts := router.Group("/posts")
	posts.Post("/", h.Post.Create)
	posts.Get("/:postId", h.Post.Get)
	posts.Get("/:postId/comments", h.Comment.Tree)
	posts.Post("/:postId/reactions", h.Reaction.ReactToPost)
	posts.Get("/:postId/reactions", h.Reaction.PostDetail)
	posts.Get("/:postId/reactions/stats", h.Reaction.PostStats)

	comments := router.Group("/comments")
	comments.Post("/", h.Comment.Create)
	comments.Put("/:commentId", h.Comment.Update)
	comments.Delete("/:commentId", h.Comment.Delete)
	comments.Post("/:commentId/reactions", h.Reaction.ReactToComment)
	comments.Get("/:commentId/reactions", h.Reaction.CommentDetail)
	comments.Get("/:commentId/reactions/stats", h.Reaction.CommentStats)

	notifications := router.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.UnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
}

func paramID(c *fiber.Ctx, name, label string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, middleware.BadRequest("Invalid " + label + " ID")
	}
	return id, nil
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.PaginationParams{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	params.Normalize()
	return params
}

func respond[T any](c *fiber.Ctx, status int, data T, message string) error {
	return c.Status(status).JSON(domain.OK(data, message))
}
