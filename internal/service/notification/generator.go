package notification

import (
	"context"

	"webdating-engagement/internal/domain"
	"webdating-engagement/internal/repository"
)

// Generator builds notification rows for engagement events. It never touches
// storage; callers insert the rows in the same transaction as the event.
type Generator struct {
	locale string
}

func NewGenerator(locale string) *Generator {
	if locale == "" {
		locale = DefaultLocale
	}
	return &Generator{locale: locale}
}

// New returns the notification of kind from the acting user to the recipient,
// or nil when the actor is the recipient.
func (g *Generator) New(kind domain.NotificationType, from *domain.User, to int64, postID, commentID *int64) *domain.Notification {
	if from == nil || from.ID == to {
		return nil
	}

	content, ok := ContentIn(g.locale, kind, from.DisplayName())
	if !ok {
		return nil
	}

	fromID := from.ID
	return &domain.Notification{
		PostID:     postID,
		CommentID:  commentID,
		FromUserID: &fromID,
		ToUserID:   to,
		Type:       kind,
		Content:    content,
		Status:     domain.NotificationUnread,
	}
}

// FanOut addresses one notification to every distinct recipient except the
// actor.
func (g *Generator) FanOut(kind domain.NotificationType, from *domain.User, recipients []int64, postID *int64) []*domain.Notification {
	seen := make(map[int64]bool, len(recipients))
	notifs := make([]*domain.Notification, 0, len(recipients))

	for _, to := range recipients {
		if seen[to] {
			continue
		}
		seen[to] = true

		if n := g.New(kind, from, to, postID, nil); n != nil {
			notifs = append(notifs, n)
		}
	}
	return notifs
}

// Save inserts the notifications through repo, skipping nil entries.
func Save(ctx context.Context, repo repository.NotificationRepository, notifs ...*domain.Notification) error {
	for _, n := range notifs {
		if n == nil {
			continue
		}
		if err := repo.Create(ctx, n); err != nil {
			return err
		}
	}
	return nil
}
