package post

import (
	"context"

	"go.uber.org/zap"

	"webdating-engagement/internal/domain"
	"webdating-engagement/internal/repository"
	"webdating-engagement/internal/service/notification"
)

type Service interface {
	Create(ctx context.Context, userID int64, input domain.CreatePostInput) (*domain.Post, error)
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	SetNotificationService(notifSvc notification.Service)
}

type service struct {
	uow       repository.UnitOfWork
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	generator *notification.Generator
	notifSvc  notification.Service
	logger    *zap.Logger
}

func NewService(repos *repository.Repositories, uow repository.UnitOfWork, generator *notification.Generator, logger *zap.Logger) Service {
	return &service{
		uow:       uow,
		postRepo:  repos.Post,
		userRepo:  repos.User,
		generator: generator,
		logger:    logger,
	}
}

func (s *service) SetNotificationService(notifSvc notification.Service) {
	s.notifSvc = notifSvc
}

// Create publishes a post and tells every follower of the author about it.
// The post and all follower notifications are committed together.
func (s *service) Create(ctx context.Context, userID int64, input domain.CreatePostInput) (*domain.Post, error) {
	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, domain.NotFound("User not found")
	}

	followers, err := s.userRepo.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{UserID: userID, Content: input.Content}
	var notifs []*domain.Notification

	err = repository.RunInTx(ctx, s.uow, func(tx repository.Tx) error {
		if err := tx.Posts().Create(ctx, post); err != nil {
			return err
		}

		postID := post.ID
		notifs = s.generator.FanOut(domain.NotifNewPost, author, followers, &postID)
		return notification.Save(ctx, tx.Notifications(), notifs...)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("post created", zap.Int64("post_id", post.ID), zap.Int("followers_notified", len(notifs)))
	if s.notifSvc != nil {
		s.notifSvc.Publish(notifs...)
	}
	return post, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domain.NotFound("Post not found")
	}
	return post, nil
}
