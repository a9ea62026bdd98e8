package services

import (
	"context"
	"time"

	"petcare-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AppointmentInput holds the fields of a new appointment
type AppointmentInput struct {
	PetID            string
	AppointmentType  string
	ScheduledAt      time.Time
	Notes            string
	ClinicName       string
	VeterinarianName string
}

// AppointmentService handles appointment booking and its reminders
type AppointmentService struct {
	appointments AppointmentStore
	pets         PetLookup
	reminders    *ReminderScheduler
	now          func() time.Time
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(appointments AppointmentStore, pets PetLookup, reminders *ReminderScheduler) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		pets:         pets,
		reminders:    reminders,
		now:          time.Now,
	}
}

// Create books an appointment in the future and schedules its reminder
func (s *AppointmentService) Create(ctx context.Context, userID string, in AppointmentInput) (*models.Appointment, error) {
	pet, err := ownedPet(ctx, s.pets, in.PetID, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !in.ScheduledAt.After(now) {
		return nil, validationError("appointment_datetime must be in the future")
	}

	a := &models.Appointment{
		ID:               uuid.New().String(),
		UserID:           userID,
		PetID:            in.PetID,
		AppointmentType:  in.AppointmentType,
		ScheduledAt:      in.ScheduledAt,
		Notes:            in.Notes,
		ClinicName:       in.ClinicName,
		VeterinarianName: in.VeterinarianName,
		Status:           models.AppointmentScheduled,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, translate(err)
	}

	s.reminders.ScheduleAppointment(ctx, userID, pet, a)

	log.Info().Str("appointment_id", a.ID).Str("pet_id", a.PetID).Msg("Appointment created")
	return a, nil
}

// List returns the user's appointments
func (s *AppointmentService) List(ctx context.Context, userID string, filter models.AppointmentFilter) ([]*models.Appointment, error) {
	switch filter.Window {
	case "", models.WindowAll, models.WindowUpcoming, models.WindowPast:
	default:
		return nil, validationError("unknown filter %q", filter.Window)
	}

	appointments, err := s.appointments.List(ctx, userID, filter, s.now())
	if err != nil {
		return nil, err
	}
	if appointments == nil {
		appointments = []*models.Appointment{}
	}
	return appointments, nil
}

// CountUpcoming counts future scheduled or confirmed appointments
func (s *AppointmentService) CountUpcoming(ctx context.Context, userID string) (int, error) {
	return s.appointments.CountUpcoming(ctx, userID, s.now())
}

// Cancel cancels an appointment that has not been completed
func (s *AppointmentService) Cancel(ctx context.Context, id, userID string) (*models.Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id, userID)
	if err != nil {
		return nil, translate(err)
	}
	switch a.Status {
	case models.AppointmentCompleted:
		return nil, validationError("completed appointments cannot be cancelled")
	case models.AppointmentCancelled:
		return a, nil
	}

	now := s.now()
	if err := s.appointments.UpdateStatus(ctx, id, userID, models.AppointmentCancelled, now); err != nil {
		return nil, translate(err)
	}
	a.Status = models.AppointmentCancelled
	a.UpdatedAt = now
	return a, nil
}

// Delete removes an appointment
func (s *AppointmentService) Delete(ctx context.Context, id, userID string) error {
	return translate(s.appointments.Delete(ctx, id, userID))
}
