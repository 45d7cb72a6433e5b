package service

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"webdating-engagement/internal/config"
	"webdating-engagement/internal/realtime"
	"webdating-engagement/internal/repository"
	"webdating-engagement/internal/service/comment"
	"webdating-engagement/internal/service/notification"
	"webdating-engagement/internal/service/post"
	"webdating-engagement/internal/service/reaction"
)

type Services struct {
	Post         post.Service
	Comment      comment.Service
	Reaction     reaction.Service
	Notification notification.Service
}

func NewServices(
	repos *repository.Repositories,
	uow repository.UnitOfWork,
	dispatcher realtime.Dispatcher,
	redis *redis.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *Services {
	generator := notification.NewGenerator(cfg.NotificationLocale)

	notificationService := notification.NewService(repos.Notification, dispatcher, logger.Named("notification"))
	postService := post.NewService(repos, uow, generator, logger.Named("post"))
	commentService := comment.NewService(repos, uow, generator, dispatcher, redis, cfg.CommentTreeCacheTTL, logger.Named("comment"))
	reactionService := reaction.NewService(repos, uow, generator, logger.Named("reaction"))

	postService.SetNotificationService(notificationService)
	commentService.SetNotificationService(notificationService)
	reactionService.SetNotificationService(notificationService)
	reactionService.SetTreeInvalidator(commentService)

	return &Services{
		Post:         postService,
		Comment:      commentService,
		Reaction:     reactionService,
		Notification: notificationService,
	}
}
