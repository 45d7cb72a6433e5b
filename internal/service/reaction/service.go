package reaction

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"webdating-engagement/internal/domain"
	"webdating-engagement/internal/metrics"
	"webdating-engagement/internal/repository"
	"webdating-engagement/internal/service/notification"
)

type Service interface {
	React(ctx context.Context, userID int64, kind domain.ReactionTarget, targetID int64, reactionType domain.ReactionType) (domain.ReactionOutcome, error)
	Stats(ctx context.Context, kind domain.ReactionTarget, targetID int64) (map[domain.ReactionType]int, error)
	Detail(ctx context.Context, targetID int64, isPost bool) ([]domain.ReactionDetail, error)
	SetNotificationService(notifSvc notification.Service)
	SetTreeInvalidator(inv TreeInvalidator)
}

// TreeInvalidator is told about reactions on comments so cached comment
// trees, which embed reaction counts, can be dropped.
type TreeInvalidator interface {
	InvalidateTree(ctx context.Context, postID int64)
}

type service struct {
	uow       repository.UnitOfWork
	reactRepo repository.ReactionRepository
	userRepo  repository.UserRepository
	generator *notification.Generator
	notifSvc  notification.Service
	trees     TreeInvalidator
	logger    *zap.Logger
}

func NewService(repos *repository.Repositories, uow repository.UnitOfWork, generator *notification.Generator, logger *zap.Logger) Service {
	return &service{
		uow:       uow,
		reactRepo: repos.Reaction,
		userRepo:  repos.User,
		generator: generator,
		logger:    logger,
	}
}

func (s *service) SetNotificationService(notifSvc notification.Service) {
	s.notifSvc = notifSvc
}

func (s *service) SetTreeInvalidator(inv TreeInvalidator) {
	s.trees = inv
}

// target is the resolved reaction target: the post it belongs to and the user
// who owns it.
type target struct {
	postID    int64
	commentID *int64
	ownerID   int64
}

func (s *service) React(ctx context.Context, userID int64, kind domain.ReactionTarget, targetID int64, reactionType domain.ReactionType) (domain.ReactionOutcome, error) {
	if !kind.IsValid() {
		return "", domain.Invalid("Unknown reaction target")
	}
	if !reactionType.IsValid() {
		return "", domain.Invalid("Unknown reaction type")
	}

	actor, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if actor == nil {
		return "", domain.NotFound("User not found")
	}

	var (
		outcome  domain.ReactionOutcome
		resolved *target
		notif    *domain.Notification
	)

	err = repository.RunInTx(ctx, s.uow, func(tx repository.Tx) error {
		t, err := s.resolve(ctx, tx, kind, targetID)
		if err != nil {
			return err
		}
		resolved = t

		existing, err := tx.Reactions().Find(ctx, userID, kind, targetID)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			if err := tx.Reactions().Create(ctx, domain.NewReactionLog(userID, kind, targetID, reactionType)); err != nil {
				return err
			}
			outcome = domain.ReactionCreated

			postID := resolved.postID
			notifKind := domain.NotifReactionPost
			if kind == domain.TargetComment {
				notifKind = domain.NotifReactionComment
			}
			notif = s.generator.New(notifKind, actor, resolved.ownerID, &postID, resolved.commentID)
			if notif == nil {
				return nil
			}

			// Only the first reaction of a user on a target notifies, even
			// if it was removed and added again since.
			notified, err := tx.Notifications().Exists(ctx, notif)
			if err != nil {
				return err
			}
			if notified {
				notif = nil
				return nil
			}
			return notification.Save(ctx, tx.Notifications(), notif)

		case existing.Type == reactionType:
			outcome = domain.ReactionRemoved
			return tx.Reactions().Delete(ctx, existing.ID)

		default:
			outcome = domain.ReactionUpdated
			return tx.Reactions().UpdateType(ctx, existing.ID, reactionType)
		}
	})

	if errors.Is(err, domain.ErrDuplicate) {
		// Another request inserted the same reaction between our lookup and
		// insert. Apply this one on top of it.
		notif = nil
		outcome, err = s.applyAsUpdate(ctx, userID, kind, targetID, reactionType)
	}
	if err != nil {
		return "", err
	}

	metrics.Reactions.WithLabelValues(string(kind), string(outcome)).Inc()

	if kind == domain.TargetComment && s.trees != nil {
		s.trees.InvalidateTree(ctx, resolved.postID)
	}
	if notif != nil && s.notifSvc != nil {
		s.notifSvc.Publish(notif)
	}
	return outcome, nil
}

func (s *service) applyAsUpdate(ctx context.Context, userID int64, kind domain.ReactionTarget, targetID int64, reactionType domain.ReactionType) (domain.ReactionOutcome, error) {
	err := repository.RunInTx(ctx, s.uow, func(tx repository.Tx) error {
		existing, err := tx.Reactions().Find(ctx, userID, kind, targetID)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("%w: reaction of user %d on %s %d changed concurrently", domain.ErrCommit, userID, kind, targetID)
		}
		return tx.Reactions().UpdateType(ctx, existing.ID, reactionType)
	})
	if err != nil {
		return "", err
	}

	s.logger.Debug("concurrent reaction insert applied as update",
		zap.Int64("user_id", userID), zap.String("target", string(kind)), zap.Int64("target_id", targetID))
	return domain.ReactionUpdated, nil
}

func (s *service) resolve(ctx context.Context, tx repository.Tx, kind domain.ReactionTarget, targetID int64) (*target, error) {
	var t target

	if kind == domain.TargetPost {
		post, err := tx.Posts().GetByID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if post == nil {
			return nil, domain.NotFound("Post not found")
		}
		t.postID, t.ownerID = post.ID, post.UserID
	} else {
		comment, err := tx.Comments().GetByID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if comment == nil {
			return nil, domain.NotFound("Comment not found")
		}
		commentID := comment.ID
		t.postID, t.commentID, t.ownerID = comment.PostID, &commentID, comment.UserID
	}

	owner, err := s.userRepo.GetByID(ctx, t.ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, domain.NotFound("The owner of this content no longer exists")
	}
	return &t, nil
}

func (s *service) Stats(ctx context.Context, kind domain.ReactionTarget, targetID int64) (map[domain.ReactionType]int, error) {
	if !kind.IsValid() {
		return nil, domain.Invalid("Unknown reaction target")
	}
	return s.reactRepo.CountByTarget(ctx, kind, targetID)
}

// Detail lists who reacted to a post or comment. Reactions whose user no
// longer exists are left out.
func (s *service) Detail(ctx context.Context, targetID int64, isPost bool) ([]domain.ReactionDetail, error) {
	kind := domain.TargetComment
	if isPost {
		kind = domain.TargetPost
	}

	reactions, err := s.reactRepo.ListByTarget(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(reactions))
	for _, r := range reactions {
		ids = append(ids, r.UserID)
	}
	users, err := s.userRepo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]domain.ReactionDetail, 0, len(reactions))
	for _, r := range reactions {
		user, ok := users[r.UserID]
		if !ok {
			continue
		}
		details = append(details, domain.ReactionDetail{
			Type:         r.Type,
			DisplayName:  user.DisplayName(),
			UserID:       user.ID,
			UserFullName: user.UserName,
		})
	}
	return details, nil
}
