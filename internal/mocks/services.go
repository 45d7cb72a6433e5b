package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"webdating-engagement/internal/domain"
	"webdating-engagement/internal/service/notification"
	"webdating-engagement/internal/service/reaction"
)

type PostService struct {
	mock.Mock
}

func (m *PostService) Create(ctx context.Context, userID int64, input domain.CreatePostInput) (*domain.Post, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *PostService) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *PostService) SetNotificationService(notifSvc notification.Service) {
	m.Called(notifSvc)
}

type CommentService struct {
	mock.Mock
}

func (m *CommentService) Create(ctx context.Context, userID int64, input domain.CreateCommentInput) (*domain.CommentNode, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommentNode), args.Error(1)
}

func (m *CommentService) Update(ctx context.Context, userID, commentID int64, input domain.UpdateCommentInput) error {
	args := m.Called(ctx, userID, commentID, input)
	return args.Error(0)
}

func (m *CommentService) Delete(ctx context.Context, userID, commentID int64) error {
	args := m.Called(ctx, userID, commentID)
	return args.Error(0)
}

func (m *CommentService) Tree(ctx context.Context, postID int64) ([]domain.CommentNode, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CommentNode), args.Error(1)
}

func (m *CommentService) InvalidateTree(ctx context.Context, postID int64) {
	m.Called(ctx, postID)
}

func (m *CommentService) SetNotificationService(notifSvc notification.Service) {
	m.Called(notifSvc)
}

type ReactionService struct {
	mock.Mock
}

func (m *ReactionService) React(ctx context.Context, userID int64, kind domain.ReactionTarget, targetID int64, reactionType domain.ReactionType) (domain.ReactionOutcome, error) {
	args := m.Called(ctx, userID, kind, targetID, reactionType)
	return args.Get(0).(domain.ReactionOutcome), args.Error(1)
}

func (m *ReactionService) Stats(ctx context.Context, kind domain.ReactionTarget, targetID int64) (map[domain.ReactionType]int, error) {
	args := m.Called(ctx, kind, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ReactionType]int), args.Error(1)
}

func (m *ReactionService) Detail(ctx context.Context, targetID int64, isPost bool) ([]domain.ReactionDetail, error) {
	args := m.Called(ctx, targetID, isPost)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReactionDetail), args.Error(1)
}

func (m *ReactionService) SetNotificationService(notifSvc notification.Service) {
	m.Called(notifSvc)
}

func (m *ReactionService) SetTreeInvalidator(inv reaction.TreeInvalidator) {
	m.Called(inv)
}

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) List(ctx context.Context, userID int64, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Notification]), args.Error(1)
}

func (m *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) MarkAsRead(ctx context.Context, userID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *NotificationService) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) Publish(notifs ...*domain.Notification) {
	m.Called(notifs)
}
