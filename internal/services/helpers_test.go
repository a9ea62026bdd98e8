package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"petcare-backend/internal/models"
	"petcare-backend/internal/qr"
	"petcare-backend/internal/repository/memory"
	"petcare-backend/internal/storage"
)

var testNow = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() func() time.Time {
	return func() time.Time { return testNow }
}

// seqGenerator returns the queued codes first, then falls back to random ones
type seqGenerator struct {
	mu    sync.Mutex
	codes []string
	calls int
	next  qr.CodeGenerator
}

func (g *seqGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if len(g.codes) > 0 {
		c := g.codes[0]
		g.codes = g.codes[1:]
		return c, nil
	}
	return g.next.Generate()
}

type testEnv struct {
	store    *memory.Store
	objects  *storage.MemoryStore
	registry *Registry
	codes    *seqGenerator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	objects := storage.NewMemoryStore()
	registry := NewRegistry(store.Identities(), store.Pets(), objects, RegistryConfig{
		BaseURL: "https://petcare.cl/qr/",
		Folder:  "general",
		Render:  qr.DefaultOptions(),
	})
	codes := &seqGenerator{next: qr.NewRandomGenerator()}
	registry.codes = codes
	registry.now = fixedClock()

	return &testEnv{store: store, objects: objects, registry: registry, codes: codes}
}

func (e *testEnv) seedUser(t *testing.T, id string) *models.User {
	t.Helper()
	u := &models.User{
		ID:                   id,
		FirstName:            "Ana",
		LastName:             "Rojas",
		Email:                id + "@example.com",
		Phone:                "+56911112222",
		NotificationSettings: models.DefaultNotificationSettings(),
		Preferences:          models.DefaultPreferences(),
		CreatedAt:            testNow,
	}
	if err := e.store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (e *testEnv) seedPet(t *testing.T, id, ownerID string) *models.Pet {
	t.Helper()
	p := &models.Pet{
		ID:           id,
		OwnerID:      ownerID,
		Name:         "Luna",
		Species:      "dog",
		Gender:       "female",
		SpecialNeeds: "insulin twice a day",
		Status:       "active",
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
	if err := e.store.Pets().Create(context.Background(), p); err != nil {
		t.Fatalf("seed pet: %v", err)
	}
	return p
}

// failingNotifications rejects every write
type failingNotifications struct{}

func (failingNotifications) Create(ctx context.Context, n *models.Notification) error {
	return errors.New("database unavailable")
}
