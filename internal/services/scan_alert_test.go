package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"petcare-backend/internal/models"
	"petcare-backend/internal/push"
)

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []push.Alert
	tokens []string
}

func (n *recordingNotifier) Send(ctx context.Context, deviceToken string, alert push.Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	n.tokens = append(n.tokens, deviceToken)
	return nil
}

func TestScanAlerter_RespectsLostPetSetting(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "u1")
	env.seedPet(t, "p1", "u1")
	ctx := context.Background()

	token := "device-token"
	if err := env.store.Users().UpdatePushToken(ctx, owner.ID, &token); err != nil {
		t.Fatalf("UpdatePushToken: %v", err)
	}

	notifier := &recordingNotifier{}
	alerter := NewScanAlerter(env.store.Users(), NewWSHub(), notifier)

	id, _ := env.registry.Ensure(ctx, "p1")
	result, err := env.registry.LookupByCode(ctx, id.Code)
	if err != nil {
		t.Fatalf("LookupByCode: %v", err)
	}

	alerter.PetScanned(ctx, result)
	if len(notifier.alerts) != 1 || notifier.tokens[0] != token {
		t.Fatalf("expected one push to the owner, got %d", len(notifier.alerts))
	}
	if notifier.alerts[0].Data["pet_id"] != "p1" {
		t.Fatalf("alert should carry the pet id")
	}

	result.Profile.Status = models.PetLost
	alerter.PetScanned(ctx, result)
	if len(notifier.alerts) != 2 || !strings.Contains(notifier.alerts[1].Title, "may have been found") {
		t.Fatalf("scans of a lost pet should say so, got %+v", notifier.alerts)
	}

	settings := owner.NotificationSettings
	settings.LostPetAlerts = false
	if err := env.store.Users().UpdateNotificationSettings(ctx, owner.ID, settings); err != nil {
		t.Fatalf("UpdateNotificationSettings: %v", err)
	}
	alerter.PetScanned(ctx, result)
	if len(notifier.alerts) != 2 {
		t.Fatalf("alerts must stop when lost pet alerts are off")
	}
}

func TestUserService_TokenRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.store.Users(), "test-secret")

	u, err := svc.Register(context.Background(), Registration{FirstName: "Ana", Email: " Ana@Example.com "})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "ana@example.com" {
		t.Fatalf("email not normalised: %q", u.Email)
	}
	if !u.NotificationSettings.LostPetAlerts {
		t.Fatalf("new users get default settings")
	}

	userID, err := svc.ValidateJWT(u.Token)
	if err != nil || userID != u.ID {
		t.Fatalf("ValidateJWT = %q, %v", userID, err)
	}

	other := NewUserService(env.store.Users(), "other-secret")
	if _, err := other.ValidateJWT(u.Token); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}
