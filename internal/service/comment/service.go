package comment

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"webdating-engagement/internal/domain"
	"webdating-engagement/internal/realtime"
	"webdating-engagement/internal/repository"
	"webdating-engagement/internal/service/notification"
)

type Service interface {
	Create(ctx context.Context, userID int64, input domain.CreateCommentInput) (*domain.CommentNode, error)
	Update(ctx context.Context, userID, commentID int64, input domain.UpdateCommentInput) error
	Delete(ctx context.Context, userID, commentID int64) error
	Tree(ctx context.Context, postID int64) ([]domain.CommentNode, error)
	// InvalidateTree drops the cached tree of a post after a change that
	// affects it, such as a reaction on one of its comments.
	InvalidateTree(ctx context.Context, postID int64)
	SetNotificationService(notifSvc notification.Service)
}

// TreeUpdate is broadcast on EventReceiveComment whenever a comment of the
// post is edited or removed.
type TreeUpdate struct {
	PostID   int64                `json:"postId"`
	Comments []domain.CommentNode `json:"comments"`
}

type service struct {
	uow         repository.UnitOfWork
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	reactRepo   repository.ReactionRepository
	userRepo    repository.UserRepository
	generator   *notification.Generator
	notifSvc    notification.Service
	dispatcher  realtime.Dispatcher
	cache       *treeCache
	logger      *zap.Logger
}

func NewService(
	repos *repository.Repositories,
	uow repository.UnitOfWork,
	generator *notification.Generator,
	dispatcher realtime.Dispatcher,
	redis *redis.Client,
	cacheTTL time.Duration,
	logger *zap.Logger,
) Service {
	return &service{
		uow:         uow,
		postRepo:    repos.Post,
		commentRepo: repos.Comment,
		reactRepo:   repos.Reaction,
		userRepo:    repos.User,
		generator:   generator,
		dispatcher:  dispatcher,
		cache:       &treeCache{redis: redis, ttl: cacheTTL, logger: logger},
		logger:      logger,
	}
}

func (s *service) SetNotificationService(notifSvc notification.Service) {
	s.notifSvc = notifSvc
}

func (s *service) Create(ctx context.Context, userID int64, input domain.CreateCommentInput) (*domain.CommentNode, error) {
	actor, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.NotFound("User not found")
	}

	comment := &domain.Comment{
		PostID:  input.PostID,
		UserID:  userID,
		Content: input.Content,
	}
	var notif *domain.Notification

	err = repository.RunInTx(ctx, s.uow, func(tx repository.Tx) error {
		post, err := tx.Posts().GetByID(ctx, input.PostID)
		if err != nil {
			return err
		}
		if post == nil {
			return domain.NotFound("Post not found")
		}

		var parent *domain.Comment
		if input.ParentCommentID > 0 {
			parent, err = tx.Comments().GetByID(ctx, input.ParentCommentID)
			if err != nil {
				return err
			}
			// A parent from another post cannot anchor this reply.
			if parent != nil && parent.PostID != post.ID {
				parent = nil
			}
		}
		comment.ParentID, comment.Level = Place(parent)

		if err := tx.Comments().Create(ctx, comment); err != nil {
			return err
		}

		postID, commentID := post.ID, comment.ID
		if parent != nil {
			notif = s.generator.New(domain.NotifReplyComment, actor, parent.UserID, &postID, &commentID)
		} else {
			notif = s.generator.New(domain.NotifCommentPost, actor, post.UserID, &postID, &commentID)
		}
		return notification.Save(ctx, tx.Notifications(), notif)
	})
	if err != nil {
		return nil, err
	}

	s.InvalidateTree(ctx, comment.PostID)
	if notif != nil && s.notifSvc != nil {
		s.notifSvc.Publish(notif)
	}

	node := newNode(comment, nil)
	return &node, nil
}

func (s *service) Update(ctx context.Context, userID, commentID int64, input domain.UpdateCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return domain.NotFound("Comment not found")
	}
	if comment.UserID != userID {
		return domain.Forbidden("Only the author can edit this comment")
	}

	post, err := s.postRepo.GetByID(ctx, comment.PostID)
	if err != nil {
		return err
	}
	if post == nil {
		return domain.NotFound("Post not found")
	}

	comment.Content = input.Content
	err = repository.RunInTx(ctx, s.uow, func(tx repository.Tx) error {
		return tx.Comments().Update(ctx, comment)
	})
	if err != nil {
		return err
	}

	s.InvalidateTree(ctx, post.ID)
	s.broadcastTree(ctx, post.ID)
	return nil
}

// Delete removes the comment and its replies. Besides the author, the owner
// of the post may delete comments under it.
func (s *service) Delete(ctx context.Context, userID, commentID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return domain.NotFound("Comment not found")
	}

	if comment.UserID != userID {
		post, err := s.postRepo.GetByID(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if post == nil || post.UserID != userID {
			return domain.Forbidden("Only the author or the post owner can delete this comment")
		}
	}

	err = repository.RunInTx(ctx, s.uow, func(tx repository.Tx) error {
		_, err := tx.Comments().DeleteSubtree(ctx, comment.ID)
		return err
	})
	if err != nil {
		return err
	}

	s.InvalidateTree(ctx, comment.PostID)
	s.broadcastTree(ctx, comment.PostID)
	return nil
}

func (s *service) Tree(ctx context.Context, postID int64) ([]domain.CommentNode, error) {
	if nodes, ok := s.cache.get(ctx, postID); ok {
		return nodes, nil
	}
	// Read before loading so a write committed during the build is detected.
	gen, cacheable := s.cache.generation(ctx, postID)

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domain.NotFound("Post not found")
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	rows, err := s.reactRepo.CommentStatsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	nodes := BuildTree(comments, statsByComment(rows))
	if cacheable {
		s.cache.set(ctx, postID, gen, nodes)
	}
	return nodes, nil
}

func (s *service) InvalidateTree(ctx context.Context, postID int64) {
	s.cache.invalidate(context.WithoutCancel(ctx), postID)
}

func (s *service) broadcastTree(ctx context.Context, postID int64) {
	nodes, err := s.Tree(context.WithoutCancel(ctx), postID)
	if err != nil {
		s.logger.Warn("load comment tree for broadcast", zap.Int64("post_id", postID), zap.Error(err))
		return
	}
	s.dispatcher.Broadcast(realtime.EventReceiveComment, TreeUpdate{PostID: postID, Comments: nodes})
}
