package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"webdating-engagement/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	Exists(ctx context.Context, notif *domain.Notification) (bool, error)
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, userID, id int64) error
	MarkAllAsRead(ctx context.Context, userID int64) (int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
}

type notificationRepository struct {
	db sqlx.ExtContext
}

func NewNotificationRepository(db sqlx.ExtContext) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	if notif.Status == "" {
		notif.Status = domain.NotificationUnread
	}
	query := `
		INSERT INTO notifications (post_id, comment_id, notify_from_user_id, notify_to_user_id, type, content, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return r.db.QueryRowxContext(ctx, query,
		notif.PostID, notif.CommentID, notif.FromUserID, notif.ToUserID, notif.Type, notif.Content, notif.Status,
	).Scan(&notif.ID, &notif.CreatedAt)
}

// Exists reports whether a notification of the same type, actor, recipient
// and subject was already stored.
func (r *notificationRepository) Exists(ctx context.Context, notif *domain.Notification) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE type = $1
			  AND notify_from_user_id IS NOT DISTINCT FROM $2
			  AND notify_to_user_id = $3
			  AND post_id IS NOT DISTINCT FROM $4
			  AND comment_id IS NOT DISTINCT FROM $5
		)`
	err := sqlx.GetContext(ctx, r.db, &exists, query,
		notif.Type, notif.FromUserID, notif.ToUserID, notif.PostID, notif.CommentID)
	return exists, err
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int64, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Normalize()

	filter := `notify_to_user_id = $1`
	if unreadOnly {
		filter += ` AND status = 'UNREAD'`
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM notifications WHERE ` + filter
	if err := sqlx.GetContext(ctx, r.db, &total, countQuery, userID); err != nil {
		return nil, 0, err
	}

	var notifications []domain.Notification
	query := `
		SELECT id, post_id, comment_id, notify_from_user_id, notify_to_user_id, type, content, status, created_at
		FROM notifications
		WHERE ` + filter + `
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	err := sqlx.SelectContext(ctx, r.db, &notifications, query, userID, params.PageSize, params.Offset())
	return notifications, total, err
}

// MarkAsRead only touches notifications addressed to userID; anything else
// is reported as not found.
func (r *notificationRepository) MarkAsRead(ctx context.Context, userID, id int64) error {
	query := `UPDATE notifications SET status = 'READ' WHERE id = $1 AND notify_to_user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	query := `UPDATE notifications SET status = 'READ' WHERE notify_to_user_id = $1 AND status = 'UNREAD'`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE notify_to_user_id = $1 AND status = 'UNREAD'`
	err := sqlx.GetContext(ctx, r.db, &count, query, userID)
	return count, err
}
