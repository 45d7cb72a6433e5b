package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"webdating-engagement/internal/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	DeleteSubtree(ctx context.Context, id int64) (int64, error)
	ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error)
}

type commentRepository struct {
	db sqlx.ExtContext
}

func NewCommentRepository(db sqlx.ExtContext) CommentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `id, post_id, user_id, content, COALESCE(parent_id, 0) AS parent_id, level, created_at, updated_at`

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (post_id, user_id, content, parent_id, level)
		VALUES ($1, $2, $3, NULLIF($4, 0), $5)
		RETURNING id, created_at`

	return r.db.QueryRowxContext(ctx, query,
		comment.PostID, comment.UserID, comment.Content, comment.ParentID, comment.Level,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var comment domain.Comment
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	err := sqlx.GetContext(ctx, r.db, &comment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	query := `
		UPDATE comments
		SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query, comment.ID, comment.Content).Scan(&comment.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// DeleteSubtree removes the comment together with every reply below it.
func (r *commentRepository) DeleteSubtree(ctx context.Context, id int64) (int64, error) {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM comments WHERE id = $1
			UNION ALL
			SELECT c.id FROM comments c INNER JOIN subtree s ON c.parent_id = s.id
		)
		DELETE FROM comments WHERE id IN (SELECT id FROM subtree)`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	var comments []domain.Comment
	query := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = $1 ORDER BY id ASC`

	if err := sqlx.SelectContext(ctx, r.db, &comments, query, postID); err != nil {
		return nil, err
	}
	return comments, nil
}
