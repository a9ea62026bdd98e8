package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"petcare-backend/internal/models"
	"petcare-backend/internal/repository"
)

type NotificationRepo struct{ s *Store }

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[n.UserID]; !ok {
		return fmt.Errorf("failed to create notification: user %s: %w", n.UserID, repository.ErrNotFound)
	}
	r.s.notifications[n.ID] = *n
	return nil
}

func (r *NotificationRepo) ListVisible(ctx context.Context, userID string, filter models.NotificationFilter, now time.Time) ([]*models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Notification, 0)
	for _, n := range r.s.notifications {
		if n.UserID != userID || n.ScheduledDate.After(now) {
			continue
		}
		if filter.UnreadOnly && n.IsRead {
			continue
		}
		n := n
		out = append(out, &n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledDate.Equal(out[j].ScheduledDate) {
			return out[i].ScheduledDate.After(out[j].ScheduledDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Offset >= len(out) {
		return []*models.Notification{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userID string, now time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead && !n.ScheduledDate.After(now) {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID || n.ScheduledDate.After(at) {
		return fmt.Errorf("notification %s: %w", id, repository.ErrNotFound)
	}
	n.IsRead = true
	n.UpdatedAt = at
	r.s.notifications[id] = n
	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var changed int64
	for id, n := range r.s.notifications {
		if n.UserID != userID || n.IsRead || n.ScheduledDate.After(now) {
			continue
		}
		n.IsRead = true
		n.UpdatedAt = now
		r.s.notifications[id] = n
		changed++
	}
	return changed, nil
}

func (r *NotificationRepo) Delete(ctx context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return fmt.Errorf("notification %s: %w", id, repository.ErrNotFound)
	}
	delete(r.s.notifications, id)
	return nil
}

// All returns every stored notification regardless of schedule. Test helper.
func (r *NotificationRepo) All() []models.Notification {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Notification, 0, len(r.s.notifications))
	for _, n := range r.s.notifications {
		out = append(out, n)
	}
	return out
}
