package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"petcare-backend/internal/models"
)

type recordingPublisher struct {
	counts map[string]int
}

func (p *recordingPublisher) PublishUnreadCount(userID string, count int) {
	p.counts[userID] = count
}

func newTestNotificationService(env *testEnv) *NotificationService {
	s := NewNotificationService(env.store.Notifications(), env.store.Pets())
	s.now = fixedClock()
	return s
}

func seedNotification(t *testing.T, env *testEnv, id, userID string, scheduled time.Time) {
	t.Helper()
	n := &models.Notification{
		ID:            id,
		UserID:        userID,
		Type:          models.NotificationGeneral,
		Title:         id,
		ScheduledDate: scheduled,
		Priority:      models.PriorityLow,
		CreatedAt:     testNow.Add(-time.Hour),
	}
	if err := env.store.Notifications().Create(context.Background(), n); err != nil {
		t.Fatalf("seed notification: %v", err)
	}
}

func TestNotificationService_ListHidesFutureReminders(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1")
	svc := newTestNotificationService(env)

	seedNotification(t, env, "due", "u1", testNow.Add(-time.Minute))
	seedNotification(t, env, "now", "u1", testNow)
	seedNotification(t, env, "future", "u1", testNow.Add(time.Minute))

	list, err := svc.List(context.Background(), "u1", models.NotificationFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 visible notifications, got %d", len(list))
	}
	for _, n := range list {
		if n.ScheduledDate.After(testNow) {
			t.Fatalf("future notification %s was listed", n.ID)
		}
	}

	count, _ := svc.UnreadCount(context.Background(), "u1")
	if count != 2 {
		t.Fatalf("expected unread count 2, got %d", count)
	}
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1")
	svc := newTestNotificationService(env)
	pub := &recordingPublisher{counts: map[string]int{}}
	svc.SetPublisher(pub)
	ctx := context.Background()

	seedNotification(t, env, "a", "u1", testNow.Add(-time.Hour))
	seedNotification(t, env, "b", "u1", testNow.Add(-2*time.Hour))

	if _, err := svc.MarkAllRead(ctx, "u1"); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if count, _ := svc.UnreadCount(ctx, "u1"); count != 0 {
		t.Fatalf("expected 0 unread, got %d", count)
	}
	if pub.counts["u1"] != 0 {
		t.Fatalf("expected published count 0, got %d", pub.counts["u1"])
	}

	changed, err := svc.MarkAllRead(ctx, "u1")
	if err != nil || changed != 0 {
		t.Fatalf("second MarkAllRead should be a no-op, got %d %v", changed, err)
	}
}

func TestNotificationService_MarkReadIgnoresFutureReminders(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1")
	svc := newTestNotificationService(env)
	ctx := context.Background()

	seedNotification(t, env, "later", "u1", testNow.Add(24*time.Hour))

	if err := svc.MarkRead(ctx, "later", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("a reminder that is not due yet should be NotFound, got %v", err)
	}

	svc.now = func() time.Time { return testNow.Add(25 * time.Hour) }
	if count, _ := svc.UnreadCount(ctx, "u1"); count != 1 {
		t.Fatalf("reminder should surface unread, got %d unread", count)
	}
	if err := svc.MarkRead(ctx, "later", "u1"); err != nil {
		t.Fatalf("MarkRead once due: %v", err)
	}
}

func TestNotificationService_OwnershipIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1")
	env.seedUser(t, "u2")
	svc := newTestNotificationService(env)
	ctx := context.Background()

	seedNotification(t, env, "n1", "u1", testNow.Add(-time.Hour))

	if err := svc.Delete(ctx, "n1", "u2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleting someone else's notification should be NotFound, got %v", err)
	}
	if err := svc.MarkRead(ctx, "n1", "u2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("marking someone else's notification should be NotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "missing", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleting a missing notification should be NotFound, got %v", err)
	}

	if err := svc.MarkRead(ctx, "n1", "u1"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := svc.MarkRead(ctx, "n1", "u1"); err != nil {
		t.Fatalf("MarkRead must be idempotent: %v", err)
	}
	if err := svc.Delete(ctx, "n1", "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestNotificationService_CreatePersonalChecksPetOwner(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1")
	env.seedUser(t, "u2")
	env.seedPet(t, "p1", "u1")
	svc := newTestNotificationService(env)
	ctx := context.Background()

	pet := "p1"
	if _, err := svc.CreatePersonal(ctx, "u2", PersonalReminder{PetID: &pet, Title: "Walk"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	n, err := svc.CreatePersonal(ctx, "u1", PersonalReminder{PetID: &pet, Title: "Walk", Message: "Evening walk"})
	if err != nil {
		t.Fatalf("CreatePersonal: %v", err)
	}
	if n.Type != models.NotificationGeneral || n.Priority != models.PriorityMedium || !n.ScheduledDate.Equal(testNow) {
		t.Fatalf("unexpected defaults %+v", n)
	}
}
