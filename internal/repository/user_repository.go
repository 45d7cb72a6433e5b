package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"webdating-engagement/internal/domain"
)

// UserRepository reads the user records owned by the account service. This
// module never writes them.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]*domain.User, error)
	FollowerIDs(ctx context.Context, userID int64) ([]int64, error)
}

type userRepository struct {
	db sqlx.ExtContext
}

func NewUserRepository(db sqlx.ExtContext) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, user_name, known_as, photo_url FROM users WHERE id = $1`

	err := sqlx.GetContext(ctx, r.db, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetMany(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	result := make(map[int64]*domain.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`SELECT id, user_name, known_as, photo_url FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var users []domain.User
	if err := sqlx.SelectContext(ctx, r.db, &users, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return nil, err
	}
	for i := range users {
		result[users[i].ID] = &users[i]
	}
	return result, nil
}

// FollowerIDs returns the distinct users following userID, ordered by id.
func (r *userRepository) FollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	query := `SELECT DISTINCT source_user_id FROM follows WHERE target_user_id = $1 ORDER BY source_user_id`
	err := sqlx.SelectContext(ctx, r.db, &ids, query, userID)
	return ids, err
}
