package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"webdating-engagement/internal/domain"
)

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
}

type postRepository struct {
	db sqlx.ExtContext
}

func NewPostRepository(db sqlx.ExtContext) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `INSERT INTO posts (user_id, content) VALUES ($1, $2) RETURNING id, created_at`
	return r.db.QueryRowxContext(ctx, query, post.UserID, post.Content).Scan(&post.ID, &post.CreatedAt)
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	var post domain.Post
	query := `SELECT id, user_id, content, created_at FROM posts WHERE id = $1`

	err := sqlx.GetContext(ctx, r.db, &post, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}
