// Package memory holds map-backed repositories for dev mode and tests.
// All repositories created from one Store share a lock so pet deletion
// can cascade the way the Postgres schema does.
package memory

import (
	"sync"
	"time"

	"petcare-backend/internal/models"
)

// Store is the shared state behind the in-memory repositories
type Store struct {
	mu            sync.RWMutex
	users         map[string]models.User
	pets          map[string]models.Pet
	identities    map[string]models.PetIdentity // by pet ID
	retired       map[string]string             // code -> pet ID
	vaccines      map[string]models.Vaccine
	records       map[string]models.MedicalRecord
	appointments  map[string]models.Appointment
	notifications map[string]models.Notification
	veterinaries  map[string]models.Veterinary
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:         make(map[string]models.User),
		pets:          make(map[string]models.Pet),
		identities:    make(map[string]models.PetIdentity),
		retired:       make(map[string]string),
		vaccines:      make(map[string]models.Vaccine),
		records:       make(map[string]models.MedicalRecord),
		appointments:  make(map[string]models.Appointment),
		notifications: make(map[string]models.Notification),
		veterinaries:  make(map[string]models.Veterinary),
	}
}

func (s *Store) Users() *UserRepo                   { return &UserRepo{s: s} }
func (s *Store) Pets() *PetRepo                     { return &PetRepo{s: s} }
func (s *Store) Identities() *IdentityRepo          { return &IdentityRepo{s: s} }
func (s *Store) Vaccines() *VaccineRepo             { return &VaccineRepo{s: s} }
func (s *Store) MedicalRecords() *MedicalRecordRepo { return &MedicalRecordRepo{s: s} }
func (s *Store) Appointments() *AppointmentRepo     { return &AppointmentRepo{s: s} }
func (s *Store) Notifications() *NotificationRepo   { return &NotificationRepo{s: s} }
func (s *Store) Veterinaries() *VeterinaryRepo      { return &VeterinaryRepo{s: s} }

func timePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
