package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"webdating-engagement/internal/domain"
)

type ReactionRepository interface {
	Find(ctx context.Context, userID int64, target domain.ReactionTarget, targetID int64) (*domain.ReactionLog, error)
	Create(ctx context.Context, reaction *domain.ReactionLog) error
	UpdateType(ctx context.Context, id int64, reactionType domain.ReactionType) error
	Delete(ctx context.Context, id int64) error
	CountByTarget(ctx context.Context, target domain.ReactionTarget, targetID int64) (map[domain.ReactionType]int, error)
	CommentStatsByPost(ctx context.Context, postID int64) ([]domain.CommentReactionCount, error)
	ListByTarget(ctx context.Context, target domain.ReactionTarget, targetID int64) ([]domain.ReactionLog, error)
}

type reactionRepository struct {
	db sqlx.ExtContext
}

func NewReactionRepository(db sqlx.ExtContext) ReactionRepository {
	return &reactionRepository{db: db}
}

const reactionColumns = `id, user_id, target, post_id, comment_id, reaction_type, created_at`

func targetColumn(target domain.ReactionTarget) string {
	if target == domain.TargetPost {
		return "post_id"
	}
	return "comment_id"
}

func (r *reactionRepository) Find(ctx context.Context, userID int64, target domain.ReactionTarget, targetID int64) (*domain.ReactionLog, error) {
	var reaction domain.ReactionLog
	query := `SELECT ` + reactionColumns + ` FROM reaction_logs WHERE user_id = $1 AND ` + targetColumn(target) + ` = $2`

	err := sqlx.GetContext(ctx, r.db, &reaction, query, userID, targetID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *reactionRepository) Create(ctx context.Context, reaction *domain.ReactionLog) error {
	query := `
		INSERT INTO reaction_logs (user_id, target, post_id, comment_id, reaction_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		reaction.UserID, reaction.Target, reaction.PostID, reaction.CommentID, reaction.Type,
	).Scan(&reaction.ID, &reaction.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: reaction of user %d on %s %d", domain.ErrDuplicate, reaction.UserID, reaction.Target, reaction.TargetID())
	}
	return err
}

func (r *reactionRepository) UpdateType(ctx context.Context, id int64, reactionType domain.ReactionType) error {
	query := `UPDATE reaction_logs SET reaction_type = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, reactionType)
	return err
}

func (r *reactionRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM reaction_logs WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *reactionRepository) CountByTarget(ctx context.Context, target domain.ReactionTarget, targetID int64) (map[domain.ReactionType]int, error) {
	var rows []struct {
		Type  domain.ReactionType `db:"reaction_type"`
		Count int                 `db:"count"`
	}
	query := `
		SELECT reaction_type, COUNT(*) AS count
		FROM reaction_logs
		WHERE ` + targetColumn(target) + ` = $1
		GROUP BY reaction_type`

	if err := sqlx.SelectContext(ctx, r.db, &rows, query, targetID); err != nil {
		return nil, err
	}

	counts := make(map[domain.ReactionType]int, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}

// CommentStatsByPost groups the reactions of every comment of a post in a
// single query.
func (r *reactionRepository) CommentStatsByPost(ctx context.Context, postID int64) ([]domain.CommentReactionCount, error) {
	var rows []domain.CommentReactionCount
	query := `
		SELECT rl.comment_id, rl.reaction_type, COUNT(*) AS count
		FROM reaction_logs rl
		INNER JOIN comments c ON c.id = rl.comment_id
		WHERE c.post_id = $1
		GROUP BY rl.comment_id, rl.reaction_type`

	err := sqlx.SelectContext(ctx, r.db, &rows, query, postID)
	return rows, err
}

func (r *reactionRepository) ListByTarget(ctx context.Context, target domain.ReactionTarget, targetID int64) ([]domain.ReactionLog, error) {
	var reactions []domain.ReactionLog
	query := `SELECT ` + reactionColumns + ` FROM reaction_logs WHERE ` + targetColumn(target) + ` = $1 ORDER BY id ASC`

	err := sqlx.SelectContext(ctx, r.db, &reactions, query, targetID)
	return reactions, err
}
