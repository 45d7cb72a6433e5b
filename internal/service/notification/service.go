package notification

import (
	"context"

	"go.uber.org/zap"

	"webdating-engagement/internal/domain"
	"webdating-engagement/internal/metrics"
	"webdating-engagement/internal/realtime"
	"webdating-engagement/internal/repository"
)

type Service interface {
	List(ctx context.Context, userID int64, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, userID, id int64) error
	MarkAllAsRead(ctx context.Context, userID int64) (int64, error)
	// Publish pushes committed notifications to their recipients. It must
	// only be called after the transaction that stored them has committed.
	Publish(notifs ...*domain.Notification)
}

type service struct {
	notifRepo  repository.NotificationRepository
	dispatcher realtime.Dispatcher
	logger     *zap.Logger
}

func NewService(notifRepo repository.NotificationRepository, dispatcher realtime.Dispatcher, logger *zap.Logger) Service {
	return &service{
		notifRepo:  notifRepo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *service) List(ctx context.Context, userID int64, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	params.Normalize()

	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params, total), nil
}

func (s *service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

func (s *service) MarkAsRead(ctx context.Context, userID, id int64) error {
	return s.notifRepo.MarkAsRead(ctx, userID, id)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) Publish(notifs ...*domain.Notification) {
	for _, n := range notifs {
		if n == nil || n.ID == 0 {
			continue
		}
		metrics.Notifications.WithLabelValues(string(n.Type)).Inc()
		s.dispatcher.SendToUser(n.ToUserID, realtime.EventSendNotification, n.Payload())
		s.logger.Debug("notification published",
			zap.Int64("notification_id", n.ID),
			zap.Int64("to", n.ToUserID),
			zap.String("type", string(n.Type)))
	}
}
