package services

import (
	"context"
	"time"

	"petcare-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 100
)

// UnreadPublisher pushes a fresh unread count to a connected user
type UnreadPublisher interface {
	PublishUnreadCount(userID string, count int)
}

// NotificationService exposes the due notifications of a user
type NotificationService struct {
	notifications NotificationStore
	pets          PetLookup
	publisher     UnreadPublisher
	now           func() time.Time
}

// NewNotificationService creates a new notification service
func NewNotificationService(notifications NotificationStore, pets PetLookup) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		pets:          pets,
		now:           time.Now,
	}
}

// SetPublisher registers where unread counts are pushed after changes
func (s *NotificationService) SetPublisher(p UnreadPublisher) {
	s.publisher = p
}

// List returns due notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID string, filter models.NotificationFilter) ([]*models.Notification, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultNotificationLimit
	}
	if filter.Limit > maxNotificationLimit {
		filter.Limit = maxNotificationLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	notifications, err := s.notifications.ListVisible(ctx, userID, filter, s.now())
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}
	return notifications, nil
}

// UnreadCount counts due unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.notifications.CountUnread(ctx, userID, s.now())
}

// MarkRead marks one notification as read. Repeating it is harmless.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.notifications.MarkRead(ctx, id, userID, s.now()); err != nil {
		return translate(err)
	}
	s.publish(ctx, userID)
	return nil
}

// MarkAllRead marks every due notification as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	changed, err := s.notifications.MarkAllRead(ctx, userID, s.now())
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		s.publish(ctx, userID)
	}
	return changed, nil
}

// Delete removes a notification. A notification owned by someone else
// reports NotFound, the same as a missing one.
func (s *NotificationService) Delete(ctx context.Context, id, userID string) error {
	if err := s.notifications.Delete(ctx, id, userID); err != nil {
		return translate(err)
	}
	s.publish(ctx, userID)
	return nil
}

// PersonalReminder is a reminder the user writes for themselves
type PersonalReminder struct {
	PetID         *string
	Type          models.NotificationType
	Title         string
	Message       string
	ScheduledDate *time.Time
	Priority      models.Priority
}

// CreatePersonal stores a user-authored reminder. Without a date it is due now.
func (s *NotificationService) CreatePersonal(ctx context.Context, userID string, in PersonalReminder) (*models.Notification, error) {
	if in.PetID != nil {
		if _, err := ownedPet(ctx, s.pets, *in.PetID, userID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	scheduled := now
	if in.ScheduledDate != nil {
		scheduled = *in.ScheduledDate
	}
	kind := in.Type
	if kind == "" {
		kind = models.NotificationGeneral
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	n := &models.Notification{
		ID:            uuid.New().String(),
		UserID:        userID,
		PetID:         in.PetID,
		Type:          kind,
		Title:         in.Title,
		Message:       in.Message,
		ScheduledDate: scheduled,
		Priority:      priority,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.PetID != nil {
		related := models.RelatedPet
		n.RelatedType = &related
		n.RelatedID = in.PetID
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, translate(err)
	}
	if !scheduled.After(now) {
		s.publish(ctx, userID)
	}
	return n, nil
}

func (s *NotificationService) publish(ctx context.Context, userID string) {
	if s.publisher == nil {
		return
	}
	count, err := s.UnreadCount(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to count unread notifications")
		return
	}
	s.publisher.PublishUnreadCount(userID, count)
}
