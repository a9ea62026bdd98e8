package repository

import (
	"context"
	"fmt"
	"time"

	"petcare-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository handles database operations for notifications.
// Rows are visible to their owner only once scheduled_date has passed.
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, pet_id, type, title, message, scheduled_date,
			is_read, is_sent, related_type, related_id, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.Exec(ctx, query,
		n.ID, n.UserID, n.PetID, n.Type, n.Title, n.Message, n.ScheduledDate,
		n.IsRead, n.IsSent, n.RelatedType, n.RelatedID, n.Priority, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListVisible returns due notifications, newest scheduled first
func (r *NotificationRepository) ListVisible(ctx context.Context, userID string, filter models.NotificationFilter, now time.Time) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, pet_id, type, title, message, scheduled_date,
			is_read, is_sent, related_type, related_id, priority, created_at, updated_at
		FROM notifications
		WHERE user_id = $1 AND scheduled_date <= $2 AND ($3 = FALSE OR is_read = FALSE)
		ORDER BY scheduled_date DESC, created_at DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := r.db.Query(ctx, query, userID, now, filter.UnreadOnly, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.PetID, &n.Type, &n.Title, &n.Message, &n.ScheduledDate,
			&n.IsRead, &n.IsSent, &n.RelatedType, &n.RelatedID, &n.Priority, &n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}
	return notifications, nil
}

// CountUnread counts due notifications that are still unread
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND scheduled_date <= $2 AND is_read = FALSE
	`
	var count int
	if err := r.db.QueryRow(ctx, query, userID, now).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one due notification owned by userID as read. A reminder
// whose scheduled date is after at is not found.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string, at time.Time) error {
	query := `
		UPDATE notifications SET is_read = TRUE, updated_at = $3
		WHERE id = $1 AND user_id = $2 AND scheduled_date <= $3
	`
	tag, err := r.db.Exec(ctx, query, id, userID, at)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	return nil
}

// MarkAllRead marks every due unread notification of userID as read and
// returns how many changed. Future reminders keep their unread state.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string, now time.Time) (int64, error) {
	query := `
		UPDATE notifications SET is_read = TRUE, updated_at = $2
		WHERE user_id = $1 AND scheduled_date <= $2 AND is_read = FALSE
	`
	tag, err := r.db.Exec(ctx, query, userID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete deletes a notification owned by userID
func (r *NotificationRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	return nil
}
