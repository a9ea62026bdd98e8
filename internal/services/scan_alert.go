package services

import (
	"context"
	"fmt"

	"petcare-backend/internal/models"
	"petcare-backend/internal/push"

	"github.com/rs/zerolog/log"
)

// ScanAlerter tells owners about scans of their pets' tags over the
// WebSocket hub and APNs, if the owner has lost pet alerts enabled
type ScanAlerter struct {
	users    UserStore
	hub      *WSHub
	notifier push.Notifier
}

// NewScanAlerter creates a new scan alerter
func NewScanAlerter(users UserStore, hub *WSHub, notifier push.Notifier) *ScanAlerter {
	return &ScanAlerter{
		users:    users,
		hub:      hub,
		notifier: notifier,
	}
}

// PetScanned delivers the alert. Failures are logged only.
func (a *ScanAlerter) PetScanned(ctx context.Context, result *ScanResult) {
	ownerID := result.Profile.OwnerID
	owner, err := a.users.GetByID(ctx, ownerID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", ownerID).Msg("Failed to load owner for scan alert")
		return
	}
	if !owner.NotificationSettings.LostPetAlerts {
		return
	}

	if a.hub.IsOnline(ownerID) {
		if err := a.hub.NotifyPetScanned(ownerID, result); err != nil {
			log.Warn().Err(err).Str("user_id", ownerID).Msg("Failed to send scan alert over WebSocket")
		}
	}

	if !owner.NotificationSettings.PushEnabled || owner.PushToken == nil {
		return
	}
	alert := push.Alert{
		Title: fmt.Sprintf("%s's tag was scanned", result.Profile.Name),
		Body:  "Someone just scanned your pet's QR tag.",
		Data: map[string]string{
			"type":   "pet_scanned",
			"pet_id": result.Profile.ID,
		},
	}
	if result.Profile.Status == models.PetLost {
		alert.Title = fmt.Sprintf("%s may have been found", result.Profile.Name)
		alert.Body = "Someone just scanned the QR tag of your lost pet."
	}
	if err := a.notifier.Send(ctx, *owner.PushToken, alert); err != nil {
		log.Warn().Err(err).Str("user_id", ownerID).Msg("Failed to push scan alert")
	}
}
