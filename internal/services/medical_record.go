package services

import (
	"context"
	"time"

	"petcare-backend/internal/models"

	"github.com/google/uuid"
)

// MedicalRecordInput holds the editable fields of a record
type MedicalRecordInput struct {
	RecordType  string
	Date        time.Time
	Title       string
	Description string
	NextDueDate *time.Time
}

// MedicalRecordService handles a pet's clinical history
type MedicalRecordService struct {
	records   MedicalRecordStore
	pets      PetLookup
	reminders *ReminderScheduler
	now       func() time.Time
}

// NewMedicalRecordService creates a new medical record service
func NewMedicalRecordService(records MedicalRecordStore, pets PetLookup, reminders *ReminderScheduler) *MedicalRecordService {
	return &MedicalRecordService{
		records:   records,
		pets:      pets,
		reminders: reminders,
		now:       time.Now,
	}
}

// Create adds a record. Deworming records with a next due date schedule a reminder.
func (s *MedicalRecordService) Create(ctx context.Context, userID, petID string, in MedicalRecordInput) (*models.MedicalRecord, error) {
	pet, err := ownedPet(ctx, s.pets, petID, userID)
	if err != nil {
		return nil, err
	}
	if err := checkRecordDates(in); err != nil {
		return nil, err
	}

	now := s.now()
	rec := &models.MedicalRecord{
		ID:          uuid.New().String(),
		PetID:       petID,
		RecordType:  in.RecordType,
		Date:        in.Date,
		Title:       in.Title,
		Description: in.Description,
		NextDueDate: in.NextDueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, translate(err)
	}

	s.reminders.ScheduleDeworming(ctx, userID, pet, rec)
	return rec, nil
}

// ListByPet returns a pet's records, most recent first
func (s *MedicalRecordService) ListByPet(ctx context.Context, userID, petID string) ([]*models.MedicalRecord, error) {
	if _, err := ownedPet(ctx, s.pets, petID, userID); err != nil {
		return nil, err
	}
	records, err := s.records.ListByPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*models.MedicalRecord{}
	}
	return records, nil
}

func checkRecordDates(in MedicalRecordInput) error {
	if in.NextDueDate != nil && !in.NextDueDate.After(in.Date) {
		return validationError("next_due_date must be after date")
	}
	return nil
}

func (s *MedicalRecordService) owned(ctx context.Context, userID, recordID string) (*models.MedicalRecord, *models.Pet, error) {
	rec, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return nil, nil, translate(err)
	}
	pet, err := ownedPet(ctx, s.pets, rec.PetID, userID)
	if err != nil {
		return nil, nil, err
	}
	return rec, pet, nil
}

// Get returns one record of a pet owned by userID
func (s *MedicalRecordService) Get(ctx context.Context, userID, recordID string) (*models.MedicalRecord, error) {
	rec, _, err := s.owned(ctx, userID, recordID)
	return rec, err
}

// Update edits a record. A changed deworming due date schedules a fresh reminder.
func (s *MedicalRecordService) Update(ctx context.Context, userID, recordID string, in MedicalRecordInput) (*models.MedicalRecord, error) {
	rec, pet, err := s.owned(ctx, userID, recordID)
	if err != nil {
		return nil, err
	}
	if err := checkRecordDates(in); err != nil {
		return nil, err
	}

	rescheduled := rec.RecordType != in.RecordType || !sameTime(rec.NextDueDate, in.NextDueDate)

	rec.RecordType = in.RecordType
	rec.Date = in.Date
	rec.Title = in.Title
	rec.Description = in.Description
	rec.NextDueDate = in.NextDueDate
	rec.UpdatedAt = s.now()

	if err := s.records.Update(ctx, rec); err != nil {
		return nil, translate(err)
	}

	if rescheduled {
		s.reminders.ScheduleDeworming(ctx, userID, pet, rec)
	}
	return rec, nil
}

// Delete removes a record
func (s *MedicalRecordService) Delete(ctx context.Context, userID, recordID string) error {
	if _, _, err := s.owned(ctx, userID, recordID); err != nil {
		return err
	}
	return translate(s.records.Delete(ctx, recordID))
}
