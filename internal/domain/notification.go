package domain

import "time"

type NotificationType string

const (
	NotifNewPost         NotificationType = "NEW_POST"
	NotifCommentPost     NotificationType = "COMMENT_POST"
	NotifReplyComment    NotificationType = "REPLY_COMMENT"
	NotifReactionPost    NotificationType = "REACTION_POST"
	NotifReactionComment NotificationType = "REACTION_COMMENT"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotifNewPost, NotifCommentPost, NotifReplyComment, NotifReactionPost, NotifReactionComment:
		return true
	}
	return false
}

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "UNREAD"
	NotificationRead   NotificationStatus = "READ"
)

// Notification is the durable record of an engagement event addressed to one
// user. Post and comment links are nullable since the source may be deleted.
type Notification struct {
	ID         int64              `json:"id" db:"id"`
	PostID     *int64             `json:"post_id,omitempty" db:"post_id"`
	CommentID  *int64             `json:"comment_id,omitempty" db:"comment_id"`
	FromUserID *int64             `json:"notify_from_user_id,omitempty" db:"notify_from_user_id"`
	ToUserID   int64              `json:"notify_to_user_id" db:"notify_to_user_id"`
	Type       NotificationType   `json:"type" db:"type"`
	Content    string             `json:"content" db:"content"`
	Status     NotificationStatus `json:"status" db:"status"`
	CreatedAt  time.Time          `json:"created_at" db:"created_at"`
}

// NotificationPayload is the body pushed to connected clients.
type NotificationPayload struct {
	ID          int64              `json:"id"`
	PostID      *int64             `json:"postId"`
	CommentID   *int64             `json:"commentId"`
	Content     string             `json:"content"`
	Type        NotificationType   `json:"type"`
	Status      NotificationStatus `json:"status"`
	CreatedDate time.Time          `json:"createdDate"`
	From        *int64             `json:"from"`
	To          int64              `json:"to"`
}

func (n *Notification) Payload() NotificationPayload {
	return NotificationPayload{
		ID:          n.ID,
		PostID:      n.PostID,
		CommentID:   n.CommentID,
		Content:     n.Content,
		Type:        n.Type,
		Status:      n.Status,
		CreatedDate: n.CreatedAt,
		From:        n.FromUserID,
		To:          n.ToUserID,
	}
}
