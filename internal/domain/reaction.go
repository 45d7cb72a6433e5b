package domain

import "time"

type ReactionTarget string

const (
	TargetPost    ReactionTarget = "POST"
	TargetComment ReactionTarget = "COMMENT"
)

func (t ReactionTarget) IsValid() bool {
	switch t {
	case TargetPost, TargetComment:
		return true
	}
	return false
}

type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionHaha  ReactionType = "haha"
	ReactionWow   ReactionType = "wow"
	ReactionSad   ReactionType = "sad"
	ReactionAngry ReactionType = "angry"
)

func (r ReactionType) IsValid() bool {
	switch r {
	case ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad, ReactionAngry:
		return true
	}
	return false
}

// ReactionLog is the single reaction a user holds on a post or a comment.
// Exactly one of PostID and CommentID is set, matching Target.
type ReactionLog struct {
	ID        int64          `json:"id" db:"id"`
	UserID    int64          `json:"user_id" db:"user_id"`
	Target    ReactionTarget `json:"target" db:"target"`
	PostID    *int64         `json:"post_id,omitempty" db:"post_id"`
	CommentID *int64         `json:"comment_id,omitempty" db:"comment_id"`
	Type      ReactionType   `json:"type" db:"reaction_type"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

func NewReactionLog(userID int64, target ReactionTarget, targetID int64, reactionType ReactionType) *ReactionLog {
	id := targetID
	r := &ReactionLog{
		UserID: userID,
		Target: target,
		Type:   reactionType,
	}
	if target == TargetPost {
		r.PostID = &id
	} else {
		r.CommentID = &id
	}
	return r
}

func (r *ReactionLog) TargetID() int64 {
	if r.Target == TargetPost && r.PostID != nil {
		return *r.PostID
	}
	if r.CommentID != nil {
		return *r.CommentID
	}
	return 0
}

type ReactionOutcome string

const (
	ReactionCreated ReactionOutcome = "created"
	ReactionUpdated ReactionOutcome = "updated"
	ReactionRemoved ReactionOutcome = "removed"
)

type ReactionInput struct {
	Type ReactionType `json:"reaction_type" validate:"required,reaction_type"`
}

type ReactionDetail struct {
	Type         ReactionType `json:"type"`
	DisplayName  string       `json:"display_name"`
	UserID       int64        `json:"user_id"`
	UserFullName string       `json:"user_full_name"`
}

// CommentReactionCount is one row of a per-post grouped reaction count.
type CommentReactionCount struct {
	CommentID int64        `db:"comment_id"`
	Type      ReactionType `db:"reaction_type"`
	Count     int          `db:"count"`
}
