package models

import (
	"encoding/json"
	"fmt"
)

// NotificationSettings controls which channels and alerts a user receives
type NotificationSettings struct {
	PushEnabled          bool `json:"push_enabled"`
	EmailEnabled         bool `json:"email_enabled"`
	VaccineReminders     bool `json:"vaccine_reminders"`
	AppointmentReminders bool `json:"appointment_reminders"`
	MedicalRecords       bool `json:"medical_records"`
	LostPetAlerts        bool `json:"lost_pet_alerts"`
	MarketingEmails      bool `json:"marketing_emails"`
}

// Preferences holds client display preferences
type Preferences struct {
	DarkMode    bool `json:"dark_mode"`
	CompactView bool `json:"compact_view"`
	ShowImages  bool `json:"show_images"`
	AutoSync    bool `json:"auto_sync"`
	OfflineMode bool `json:"offline_mode"`
}

// DefaultNotificationSettings returns the settings of a user who never saved any
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		PushEnabled:          true,
		EmailEnabled:         true,
		VaccineReminders:     true,
		AppointmentReminders: true,
		MedicalRecords:       false,
		LostPetAlerts:        true,
		MarketingEmails:      false,
	}
}

// DefaultPreferences returns the preferences of a user who never saved any
func DefaultPreferences() Preferences {
	return Preferences{
		DarkMode:    false,
		CompactView: false,
		ShowImages:  true,
		AutoSync:    true,
		OfflineMode: false,
	}
}

// HydrateNotificationSettings decodes a stored JSON column.
// A NULL or empty column yields the defaults; keys missing from a stored
// document keep their default value.
func HydrateNotificationSettings(raw []byte) (NotificationSettings, error) {
	settings := DefaultNotificationSettings()
	if len(raw) == 0 || string(raw) == "null" {
		return settings, nil
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return DefaultNotificationSettings(), fmt.Errorf("failed to decode notification settings: %w", err)
	}
	return settings, nil
}

// HydratePreferences decodes a stored JSON column, filling defaults
func HydratePreferences(raw []byte) (Preferences, error) {
	prefs := DefaultPreferences()
	if len(raw) == 0 || string(raw) == "null" {
		return prefs, nil
	}
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return DefaultPreferences(), fmt.Errorf("failed to decode preferences: %w", err)
	}
	return prefs, nil
}
