package handler

import (
	"github.com/gofiber/fiber/v2"

	"webdating-engagement/internal/middleware"
	"webdating-engagement/internal/service/notification"
)

type NotificationHandler struct {
	notifService notification.Service
}

func NewNotificationHandler(notifService notification.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	unreadOnly := c.QueryBool("unread_only", false)
	result, err := h.notifService.List(c.Context(), userID, unreadOnly, getPaginationParams(c))
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, result, "")
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	count, err := h.notifService.UnreadCount(c.Context(), userID)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, fiber.Map{"count": count}, "")
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	notifID, err := paramID(c, "id", "notification")
	if err != nil {
		return err
	}

	if err := h.notifService.MarkAsRead(c.Context(), userID, notifID); err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "", "Notification marked as read")
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	updated, err := h.notifService.MarkAllAsRead(c.Context(), userID)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, fiber.Map{"updated": updated}, "All notifications marked as read")
}
