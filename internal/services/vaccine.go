package services

import (
	"context"
	"time"

	"petcare-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const upcomingVaccineWindow = 30 * 24 * time.Hour

// VaccineInput holds the editable fields of a vaccine
type VaccineInput struct {
	VaccineName        string
	VaccineType        string
	Manufacturer       string
	BatchNumber        string
	AdministrationDate time.Time
	NextDoseDate       *time.Time
	Notes              string
}

// VaccineView is a vaccine with its booster state at read time
type VaccineView struct {
	*models.Vaccine
	NeedsBooster      bool `json:"needs_booster"`
	DaysUntilNextDose *int `json:"days_until_next_dose"`
}

// VaccineService handles vaccine records and their reminders
type VaccineService struct {
	vaccines  VaccineStore
	pets      PetLookup
	reminders *ReminderScheduler
	now       func() time.Time
}

// NewVaccineService creates a new vaccine service
func NewVaccineService(vaccines VaccineStore, pets PetLookup, reminders *ReminderScheduler) *VaccineService {
	return &VaccineService{
		vaccines:  vaccines,
		pets:      pets,
		reminders: reminders,
		now:       time.Now,
	}
}

func (s *VaccineService) view(v *models.Vaccine) *VaccineView {
	now := s.now()
	return &VaccineView{
		Vaccine:           v,
		NeedsBooster:      v.NeedsBooster(now),
		DaysUntilNextDose: v.DaysUntilNextDose(now),
	}
}

func checkVaccineDates(in VaccineInput) error {
	if in.NextDoseDate != nil && !in.NextDoseDate.After(in.AdministrationDate) {
		return validationError("next_dose_date must be after administration_date")
	}
	return nil
}

// Create records a dose and schedules the booster reminder
func (s *VaccineService) Create(ctx context.Context, userID, petID string, in VaccineInput) (*VaccineView, error) {
	pet, err := ownedPet(ctx, s.pets, petID, userID)
	if err != nil {
		return nil, err
	}
	if err := checkVaccineDates(in); err != nil {
		return nil, err
	}

	now := s.now()
	v := &models.Vaccine{
		ID:                 uuid.New().String(),
		PetID:              petID,
		VaccineName:        in.VaccineName,
		VaccineType:        in.VaccineType,
		Manufacturer:       in.Manufacturer,
		BatchNumber:        in.BatchNumber,
		AdministrationDate: in.AdministrationDate,
		NextDoseDate:       in.NextDoseDate,
		Notes:              in.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.vaccines.Create(ctx, v); err != nil {
		return nil, translate(err)
	}

	s.reminders.ScheduleVaccine(ctx, userID, pet, v)
	return s.view(v), nil
}

// ListByPet returns a pet's vaccines
func (s *VaccineService) ListByPet(ctx context.Context, userID, petID string) ([]*VaccineView, error) {
	if _, err := ownedPet(ctx, s.pets, petID, userID); err != nil {
		return nil, err
	}
	vaccines, err := s.vaccines.ListByPet(ctx, petID)
	if err != nil {
		return nil, err
	}

	out := make([]*VaccineView, 0, len(vaccines))
	for _, v := range vaccines {
		out = append(out, s.view(v))
	}
	return out, nil
}

// Upcoming returns the user's vaccines due within the next 30 days
func (s *VaccineService) Upcoming(ctx context.Context, userID string) ([]*VaccineView, error) {
	now := s.now()
	vaccines, err := s.vaccines.ListDueBetween(ctx, userID, now, now.Add(upcomingVaccineWindow))
	if err != nil {
		return nil, err
	}

	out := make([]*VaccineView, 0, len(vaccines))
	for _, v := range vaccines {
		out = append(out, s.view(v))
	}
	return out, nil
}

func (s *VaccineService) owned(ctx context.Context, userID, vaccineID string) (*models.Vaccine, *models.Pet, error) {
	v, err := s.vaccines.GetByID(ctx, vaccineID)
	if err != nil {
		return nil, nil, translate(err)
	}
	pet, err := ownedPet(ctx, s.pets, v.PetID, userID)
	if err != nil {
		return nil, nil, err
	}
	return v, pet, nil
}

// Update edits a vaccine. A changed next dose date schedules a fresh reminder.
func (s *VaccineService) Update(ctx context.Context, userID, vaccineID string, in VaccineInput) (*VaccineView, error) {
	v, pet, err := s.owned(ctx, userID, vaccineID)
	if err != nil {
		return nil, err
	}
	if err := checkVaccineDates(in); err != nil {
		return nil, err
	}

	rescheduled := !sameTime(v.NextDoseDate, in.NextDoseDate)

	v.VaccineName = in.VaccineName
	v.VaccineType = in.VaccineType
	v.Manufacturer = in.Manufacturer
	v.BatchNumber = in.BatchNumber
	v.AdministrationDate = in.AdministrationDate
	v.NextDoseDate = in.NextDoseDate
	v.Notes = in.Notes
	v.UpdatedAt = s.now()

	if err := s.vaccines.Update(ctx, v); err != nil {
		return nil, translate(err)
	}

	if rescheduled {
		log.Info().Str("vaccine_id", v.ID).Msg("Next dose changed, scheduling reminder")
		s.reminders.ScheduleVaccine(ctx, userID, pet, v)
	}
	return s.view(v), nil
}

// Delete removes a vaccine
func (s *VaccineService) Delete(ctx context.Context, userID, vaccineID string) error {
	if _, _, err := s.owned(ctx, userID, vaccineID); err != nil {
		return err
	}
	return translate(s.vaccines.Delete(ctx, vaccineID))
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
