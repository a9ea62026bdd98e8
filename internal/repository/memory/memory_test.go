package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"petcare-backend/internal/models"
	"petcare-backend/internal/repository"
)

func seedOwnerAndPet(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	if err := s.Users().Create(ctx, &models.User{ID: "u1", FirstName: "Ana", Email: "ana@example.com"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := s.Pets().Create(ctx, &models.Pet{ID: "p1", OwnerID: "u1", Name: "Luna", Species: "dog"}); err != nil {
		t.Fatalf("seed pet: %v", err)
	}
}

func TestIdentityRepo_RetiredCodeStaysTaken(t *testing.T) {
	s := NewStore()
	seedOwnerAndPet(t, s)
	ctx := context.Background()
	repo := s.Identities()
	now := time.Now()

	first := &models.PetIdentity{ID: "i1", PetID: "p1", Code: "AAAAAAAAAAAA", CreatedAt: now}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, &models.PetIdentity{ID: "i2", PetID: "p1", Code: "BBBBBBBBBBBB", CreatedAt: now}); !errors.Is(err, repository.ErrIdentityExists) {
		t.Fatalf("expected ErrIdentityExists, got %v", err)
	}

	if err := repo.Retire(ctx, first, now); err != nil {
		t.Fatalf("Retire: %v", err)
	}
	taken, err := repo.CodeExists(ctx, "AAAAAAAAAAAA")
	if err != nil || !taken {
		t.Fatalf("retired code must stay taken, got %v %v", taken, err)
	}
	if err := repo.Create(ctx, &models.PetIdentity{ID: "i3", PetID: "p1", Code: "AAAAAAAAAAAA", CreatedAt: now}); !errors.Is(err, repository.ErrCodeTaken) {
		t.Fatalf("expected ErrCodeTaken, got %v", err)
	}
}

func TestPetRepo_DeleteCascades(t *testing.T) {
	s := NewStore()
	seedOwnerAndPet(t, s)
	ctx := context.Background()
	now := time.Now()
	pet := "p1"

	_ = s.Identities().Create(ctx, &models.PetIdentity{ID: "i1", PetID: pet, Code: "CCCCCCCCCCCC", CreatedAt: now})
	_ = s.Vaccines().Create(ctx, &models.Vaccine{ID: "v1", PetID: pet, AdministrationDate: now})
	_ = s.Notifications().Create(ctx, &models.Notification{ID: "n1", UserID: "u1", PetID: &pet, ScheduledDate: now})

	if err := s.Pets().Delete(ctx, pet); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Identities().GetByPetID(ctx, pet); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("identity should cascade, got %v", err)
	}
	if _, err := s.Vaccines().GetByID(ctx, "v1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("vaccine should cascade, got %v", err)
	}
	if len(s.Notifications().All()) != 0 {
		t.Fatalf("notifications should cascade")
	}
}

func TestNotificationRepo_VisibilityAndOrder(t *testing.T) {
	s := NewStore()
	seedOwnerAndPet(t, s)
	ctx := context.Background()
	repo := s.Notifications()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	add := func(id string, scheduled time.Time, created time.Time) {
		if err := repo.Create(ctx, &models.Notification{ID: id, UserID: "u1", ScheduledDate: scheduled, CreatedAt: created}); err != nil {
			t.Fatalf("Create %s: %v", id, err)
		}
	}
	add("old", now.Add(-48*time.Hour), now.Add(-72*time.Hour))
	add("tie-a", now.Add(-time.Hour), now.Add(-3*time.Hour))
	add("tie-b", now.Add(-time.Hour), now.Add(-2*time.Hour))
	add("future", now.Add(time.Hour), now.Add(-time.Hour))

	got, err := repo.ListVisible(ctx, "u1", models.NotificationFilter{Limit: 50}, now)
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	want := []string{"tie-b", "tie-a", "old"}
	if len(got) != len(want) {
		t.Fatalf("expected %d visible, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}

	if n, _ := repo.MarkAllRead(ctx, "u1", now); n != 3 {
		t.Fatalf("expected 3 marked, got %d", n)
	}
	// the future reminder keeps its unread state for when it becomes due
	if c, _ := repo.CountUnread(ctx, "u1", now.Add(2*time.Hour)); c != 1 {
		t.Fatalf("expected future reminder to be unread once due, got %d", c)
	}
}
