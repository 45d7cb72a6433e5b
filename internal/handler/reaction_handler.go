package handler

import (
	"github.com/gofiber/fiber/v2"

	"webdating-engagement/internal/domain"
	"webdating-engagement/internal/middleware"
	"webdating-engagement/internal/service/reaction"
)

type ReactionHandler struct {
	reactionService reaction.Service
	validate        *Validator
}

func NewReactionHandler(reactionService reaction.Service, validate *Validator) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService, validate: validate}
}

var outcomeMessages = map[domain.ReactionOutcome]string{
	domain.ReactionCreated: "Reaction added",
	domain.ReactionUpdated: "Reaction changed",
	domain.ReactionRemoved: "Reaction removed",
}

func (h *ReactionHandler) ReactToPost(c *fiber.Ctx) error {
	return h.react(c, domain.TargetPost, "postId")
}

func (h *ReactionHandler) ReactToComment(c *fiber.Ctx) error {
	return h.react(c, domain.TargetComment, "commentId")
}

func (h *ReactionHandler) react(c *fiber.Ctx, target domain.ReactionTarget, param string) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	targetID, err := paramID(c, param, targetLabel(target))
	if err != nil {
		return err
	}

	var input domain.ReactionInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return err
	}

	outcome, err := h.reactionService.React(c.Context(), userID, target, targetID, input.Type)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, string(outcome), outcomeMessages[outcome])
}

func (h *ReactionHandler) PostDetail(c *fiber.Ctx) error {
	return h.detail(c, "postId", true)
}

func (h *ReactionHandler) CommentDetail(c *fiber.Ctx) error {
	return h.detail(c, "commentId", false)
}

func (h *ReactionHandler) detail(c *fiber.Ctx, param string, isPost bool) error {
	label := "comment"
	if isPost {
		label = "post"
	}
	targetID, err := paramID(c, param, label)
	if err != nil {
		return err
	}

	details, err := h.reactionService.Detail(c.Context(), targetID, isPost)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, details, "")
}

func (h *ReactionHandler) PostStats(c *fiber.Ctx) error {
	return h.stats(c, domain.TargetPost, "postId")
}

func (h *ReactionHandler) CommentStats(c *fiber.Ctx) error {
	return h.stats(c, domain.TargetComment, "commentId")
}

func (h *ReactionHandler) stats(c *fiber.Ctx, target domain.ReactionTarget, param string) error {
	targetID, err := paramID(c, param, targetLabel(target))
	if err != nil {
		return err
	}

	counts, err := h.reactionService.Stats(c.Context(), target, targetID)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, counts, "")
}

func targetLabel(target domain.ReactionTarget) string {
	if target == domain.TargetPost {
		return "post"
	}
	return "comment"
}
