package domain

import "time"

// MaxCommentLevel is the deepest level a comment can be stored at. Replies to a
// comment already at this level are flattened under its parent.
const MaxCommentLevel = 3

type Comment struct {
	ID        int64      `json:"id" db:"id"`
	PostID    int64      `json:"post_id" db:"post_id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	Content   string     `json:"content" db:"content"`
	ParentID  int64      `json:"parent_id" db:"parent_id"`
	Level     int        `json:"level" db:"level"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

func (c *Comment) IsRoot() bool {
	return c.ParentID == 0
}

// CommentNode is one comment of a post's reply tree.
type CommentNode struct {
	ID          int64                `json:"id"`
	PostID      int64                `json:"post_id"`
	UserID      int64                `json:"user_id"`
	ParentID    int64                `json:"parent_comment_id"`
	Content     string               `json:"content"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   *time.Time           `json:"updated_at,omitempty"`
	Stats       map[ReactionType]int `json:"stats"`
	Descendants []CommentNode        `json:"descendants"`
}

type CreateCommentInput struct {
	PostID          int64  `json:"post_id" validate:"required,gt=0"`
	ParentCommentID int64  `json:"parent_comment_id" validate:"gte=0"`
	Content         string `json:"content" validate:"required,notblank,max=2000"`
}

type UpdateCommentInput struct {
	Content string `json:"content" validate:"required,notblank,max=2000"`
}
