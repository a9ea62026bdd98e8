package services

import (
	"context"
	"time"

	"petcare-backend/internal/models"
)

// The interfaces below are satisfied by both the Postgres repositories and
// the in-memory ones.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateNotificationSettings(ctx context.Context, userID string, settings models.NotificationSettings) error
	UpdatePushToken(ctx context.Context, userID string, pushToken *string) error
}

type PetStore interface {
	Create(ctx context.Context, pet *models.Pet) error
	GetByID(ctx context.Context, id string) (*models.Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Pet, error)
	GetProfile(ctx context.Context, id string) (*models.PetProfile, error)
	Update(ctx context.Context, pet *models.Pet) error
	UpdateProfileImage(ctx context.Context, id string, url *string) error
	Delete(ctx context.Context, id string) error
}

type IdentityStore interface {
	GetByPetID(ctx context.Context, petID string) (*models.PetIdentity, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, identity *models.PetIdentity) error
	RecordScan(ctx context.Context, code string, at time.Time) (string, *models.ScanStats, error)
	Retire(ctx context.Context, identity *models.PetIdentity, at time.Time) error
}

type VaccineStore interface {
	Create(ctx context.Context, v *models.Vaccine) error
	GetByID(ctx context.Context, id string) (*models.Vaccine, error)
	ListByPet(ctx context.Context, petID string) ([]*models.Vaccine, error)
	ListDueBetween(ctx context.Context, ownerID string, from, to time.Time) ([]*models.Vaccine, error)
	Update(ctx context.Context, v *models.Vaccine) error
	Delete(ctx context.Context, id string) error
}

type MedicalRecordStore interface {
	Create(ctx context.Context, rec *models.MedicalRecord) error
	GetByID(ctx context.Context, id string) (*models.MedicalRecord, error)
	ListByPet(ctx context.Context, petID string) ([]*models.MedicalRecord, error)
	Update(ctx context.Context, rec *models.MedicalRecord) error
	Delete(ctx context.Context, id string) error
}

type VeterinaryStore interface {
	List(ctx context.Context, filter models.VeterinaryFilter) ([]*models.Veterinary, error)
	GetByID(ctx context.Context, id string) (*models.Veterinary, error)
	Upsert(ctx context.Context, v *models.Veterinary) error
}

type AppointmentStore interface {
	Create(ctx context.Context, a *models.Appointment) error
	GetByID(ctx context.Context, id, userID string) (*models.Appointment, error)
	List(ctx context.Context, userID string, filter models.AppointmentFilter, now time.Time) ([]*models.Appointment, error)
	CountUpcoming(ctx context.Context, userID string, now time.Time) (int, error)
	UpdateStatus(ctx context.Context, id, userID, status string, at time.Time) error
	Delete(ctx context.Context, id, userID string) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListVisible(ctx context.Context, userID string, filter models.NotificationFilter, now time.Time) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID string, now time.Time) (int, error)
	MarkRead(ctx context.Context, id, userID string, at time.Time) error
	MarkAllRead(ctx context.Context, userID string, now time.Time) (int64, error)
	Delete(ctx context.Context, id, userID string) error
}

// PetLookup is the slice of pet storage the QR registry needs
type PetLookup interface {
	GetByID(ctx context.Context, id string) (*models.Pet, error)
	GetProfile(ctx context.Context, id string) (*models.PetProfile, error)
}

// ownedPet loads a pet and checks that userID owns it
func ownedPet(ctx context.Context, pets PetLookup, petID, userID string) (*models.Pet, error) {
	pet, err := pets.GetByID(ctx, petID)
	if err != nil {
		return nil, translate(err)
	}
	if pet.OwnerID != userID {
		return nil, ErrForbidden
	}
	return pet, nil
}
