package domain

import "time"

type Post struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreatePostInput struct {
	Content string `json:"content" validate:"required,notblank,max=5000"`
}
