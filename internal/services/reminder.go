package services

import (
	"context"
	"fmt"
	"time"

	"petcare-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificationCreator persists a notification
type NotificationCreator interface {
	Create(ctx context.Context, n *models.Notification) error
}

type reminderRule struct {
	name     string
	lead     time.Duration
	kind     models.NotificationType
	priority models.Priority
	related  models.RelatedType
}

var (
	vaccineRule = reminderRule{
		name:     "vaccine",
		lead:     7 * 24 * time.Hour,
		kind:     models.NotificationVaccineReminder,
		priority: models.PriorityHigh,
		related:  models.RelatedVaccine,
	}
	dewormingRule = reminderRule{
		name:     "deworming",
		lead:     3 * 24 * time.Hour,
		kind:     models.NotificationDewormingReminder,
		priority: models.PriorityMedium,
		related:  models.RelatedMedicalRecord,
	}
	appointmentRule = reminderRule{
		name:     "appointment",
		lead:     24 * time.Hour,
		kind:     models.NotificationAppointmentReminder,
		priority: models.PriorityHigh,
		related:  models.RelatedAppointment,
	}
)

// ReminderScheduler turns due dates into future notifications. It never
// fails its caller: store errors are logged and dropped.
type ReminderScheduler struct {
	notifications NotificationCreator
	now           func() time.Time
}

// NewReminderScheduler creates a scheduler
func NewReminderScheduler(notifications NotificationCreator) *ReminderScheduler {
	return &ReminderScheduler{
		notifications: notifications,
		now:           time.Now,
	}
}

// ScheduleVaccine schedules a reminder a week before the next dose
func (s *ReminderScheduler) ScheduleVaccine(ctx context.Context, userID string, pet *models.Pet, v *models.Vaccine) *models.Notification {
	if v.NextDoseDate == nil {
		return nil
	}
	return s.schedule(ctx, vaccineRule, userID, pet.ID, v.ID, *v.NextDoseDate,
		fmt.Sprintf("Vaccine due: %s", v.VaccineName),
		fmt.Sprintf("%s's next %s dose is due on %s.", pet.Name, v.VaccineName, v.NextDoseDate.Format("Jan 2, 2006")),
	)
}

// ScheduleDeworming schedules a reminder three days before the next deworming
func (s *ReminderScheduler) ScheduleDeworming(ctx context.Context, userID string, pet *models.Pet, rec *models.MedicalRecord) *models.Notification {
	if rec.RecordType != models.RecordDeworming || rec.NextDueDate == nil {
		return nil
	}
	return s.schedule(ctx, dewormingRule, userID, pet.ID, rec.ID, *rec.NextDueDate,
		fmt.Sprintf("Deworming due for %s", pet.Name),
		fmt.Sprintf("%s is due for deworming on %s.", pet.Name, rec.NextDueDate.Format("Jan 2, 2006")),
	)
}

// ScheduleAppointment schedules a reminder a day before the appointment
func (s *ReminderScheduler) ScheduleAppointment(ctx context.Context, userID string, pet *models.Pet, a *models.Appointment) *models.Notification {
	where := ""
	if a.ClinicName != "" {
		where = " at " + a.ClinicName
	}
	return s.schedule(ctx, appointmentRule, userID, pet.ID, a.ID, a.ScheduledAt,
		fmt.Sprintf("Appointment tomorrow for %s", pet.Name),
		fmt.Sprintf("%s has a %s appointment%s on %s.", pet.Name, a.AppointmentType, where, a.ScheduledAt.Format("Jan 2, 2006 15:04")),
	)
}

func (s *ReminderScheduler) schedule(
	ctx context.Context,
	rule reminderRule,
	userID, petID, relatedID string,
	due time.Time,
	title, message string,
) *models.Notification {
	now := s.now()
	trigger := due.Add(-rule.lead)
	if !trigger.After(now) {
		log.Debug().
			Str("rule", rule.name).
			Str("related_id", relatedID).
			Time("trigger", trigger).
			Msg("Reminder trigger already passed, skipping")
		return nil
	}

	related := rule.related
	n := &models.Notification{
		ID:            uuid.New().String(),
		UserID:        userID,
		PetID:         &petID,
		Type:          rule.kind,
		Title:         title,
		Message:       message,
		ScheduledDate: trigger,
		RelatedType:   &related,
		RelatedID:     &relatedID,
		Priority:      rule.priority,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		log.Error().
			Err(err).
			Str("rule", rule.name).
			Str("user_id", userID).
			Str("related_id", relatedID).
			Msg("Failed to schedule reminder")
		return nil
	}

	log.Info().
		Str("rule", rule.name).
		Str("user_id", userID).
		Time("scheduled_date", trigger).
		Msg("Reminder scheduled")
	return n
}
