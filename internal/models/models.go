package models

import "time"

// User represents a registered pet owner
type User struct {
	ID                   string               `json:"id"`
	FirstName            string               `json:"first_name"`
	LastName             string               `json:"last_name"`
	Email                string               `json:"email"`
	Phone                string               `json:"phone"`
	PushToken            *string              `json:"push_token,omitempty"`
	NotificationSettings NotificationSettings `json:"notification_settings"`
	Preferences          Preferences          `json:"preferences"`
	CreatedAt            time.Time            `json:"created_at"`
}

// Pet statuses
const (
	PetActive   = "active"
	PetLost     = "lost"
	PetFound    = "found"
	PetDeceased = "deceased"
	PetAdopted  = "adopted"
)

// Pet represents a pet owned by a user
type Pet struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id"`
	Name            string     `json:"name"`
	Species         string     `json:"species"`
	Breed           string     `json:"breed,omitempty"`
	Gender          string     `json:"gender"`
	Color           string     `json:"color,omitempty"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	SpecialNeeds    string     `json:"special_needs,omitempty"`
	ProfileImageURL *string    `json:"profile_image_url,omitempty"`
	Status          string     `json:"status"`
	LostDate        *time.Time `json:"lost_date,omitempty"`
	LostLocation    string     `json:"lost_location,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// OwnerContact is the subset of a user exposed alongside a scanned pet
type OwnerContact struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone"`
}

// PetProfile is a pet joined with its owner's contact fields
type PetProfile struct {
	Pet
	Owner OwnerContact `json:"owner"`
}

// PetIdentity is the live QR identity of a pet
type PetIdentity struct {
	ID            string     `json:"id"`
	PetID         string     `json:"pet_id"`
	Code          string     `json:"code"`
	ImageURL      *string    `json:"image_url"`
	TotalScans    int        `json:"total_scans"`
	LastScannedAt *time.Time `json:"last_scanned_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ScanStats holds the counters written by a single scan
type ScanStats struct {
	TotalScans    int        `json:"total_scans"`
	LastScannedAt *time.Time `json:"last_scanned_at"`
}

// Vaccine represents an administered vaccine dose
type Vaccine struct {
	ID                 string     `json:"id"`
	PetID              string     `json:"pet_id"`
	VaccineName        string     `json:"vaccine_name"`
	VaccineType        string     `json:"vaccine_type"`
	Manufacturer       string     `json:"manufacturer,omitempty"`
	BatchNumber        string     `json:"batch_number,omitempty"`
	AdministrationDate time.Time  `json:"administration_date"`
	NextDoseDate       *time.Time `json:"next_dose_date,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NeedsBooster reports whether the next dose is due at now
func (v *Vaccine) NeedsBooster(now time.Time) bool {
	if v.NextDoseDate == nil {
		return false
	}
	return !now.Before(*v.NextDoseDate)
}

// DaysUntilNextDose returns the rounded-up number of days until the next dose
func (v *Vaccine) DaysUntilNextDose(now time.Time) *int {
	if v.NextDoseDate == nil {
		return nil
	}
	diff := v.NextDoseDate.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return &days
}

// Medical record types
const (
	RecordConsultation = "consultation"
	RecordSurgery      = "surgery"
	RecordEmergency    = "emergency"
	RecordVaccination  = "vaccination"
	RecordCheckup      = "checkup"
	RecordDeworming    = "deworming"
	RecordOther        = "other"
)

// MedicalRecord represents an entry in a pet's clinical history
type MedicalRecord struct {
	ID          string     `json:"id"`
	PetID       string     `json:"pet_id"`
	RecordType  string     `json:"record_type"`
	Date        time.Time  `json:"date"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	NextDueDate *time.Time `json:"next_due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Appointment statuses
const (
	AppointmentScheduled = "scheduled"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment represents a visit booked for a pet
type Appointment struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	PetID            string    `json:"pet_id"`
	AppointmentType  string    `json:"appointment_type"`
	ScheduledAt      time.Time `json:"appointment_datetime"`
	Notes            string    `json:"notes,omitempty"`
	ClinicName       string    `json:"clinic_name,omitempty"`
	VeterinarianName string    `json:"veterinarian_name,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NotificationType is the category of a notification
type NotificationType string

const (
	NotificationVaccineReminder     NotificationType = "vaccine_reminder"
	NotificationDewormingReminder   NotificationType = "deworming_reminder"
	NotificationAppointmentReminder NotificationType = "appointment_reminder"
	NotificationMedicalRecord       NotificationType = "medical_record"
	NotificationGeneral             NotificationType = "general"
	NotificationSystem              NotificationType = "system"
)

// Priority of a notification
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// RelatedType names the entity a notification points back to
type RelatedType string

const (
	RelatedVaccine       RelatedType = "vaccine"
	RelatedAppointment   RelatedType = "appointment"
	RelatedMedicalRecord RelatedType = "medical_record"
	RelatedPet           RelatedType = "pet"
	RelatedNone          RelatedType = "none"
)

// Notification is a scheduled, user-facing reminder
type Notification struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	PetID         *string          `json:"pet_id,omitempty"`
	Type          NotificationType `json:"type"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	ScheduledDate time.Time        `json:"scheduled_date"`
	IsRead        bool             `json:"is_read"`
	IsSent        bool             `json:"is_sent"`
	RelatedType   *RelatedType     `json:"related_type,omitempty"`
	RelatedID     *string          `json:"related_id,omitempty"`
	Priority      Priority         `json:"priority"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NotificationFilter narrows a notification listing
type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// Appointment listing windows
const (
	WindowAll      = "all"
	WindowUpcoming = "upcoming"
	WindowPast     = "past"
)

// AppointmentFilter narrows an appointment listing
type AppointmentFilter struct {
	Window string
	Status string
}

// Veterinary is a clinic listed in the directory
type Veterinary struct {
	ID                 string            `json:"id" yaml:"-"`
	Name               string            `json:"name" yaml:"name"`
	Address            string            `json:"address,omitempty" yaml:"address"`
	City               string            `json:"city,omitempty" yaml:"city"`
	Region             string            `json:"region,omitempty" yaml:"region"`
	Phone              string            `json:"phone,omitempty" yaml:"phone"`
	Email              string            `json:"email,omitempty" yaml:"email"`
	Website            string            `json:"website,omitempty" yaml:"website"`
	OpeningHours       map[string]string `json:"opening_hours,omitempty" yaml:"opening_hours"`
	Services           []string          `json:"services,omitempty" yaml:"services"`
	EmergencyAvailable bool              `json:"emergency_available" yaml:"emergency_available"`
	HasParking         bool              `json:"has_parking" yaml:"has_parking"`
	AcceptsCardPayment bool              `json:"accepts_card_payment" yaml:"accepts_card_payment"`
	Latitude           *float64          `json:"latitude,omitempty" yaml:"latitude"`
	Longitude          *float64          `json:"longitude,omitempty" yaml:"longitude"`
	Rating             float64           `json:"rating" yaml:"rating"`
	IsActive           bool              `json:"-" yaml:"-"`
	CreatedAt          time.Time         `json:"-" yaml:"-"`
	UpdatedAt          time.Time         `json:"-" yaml:"-"`
}

// VeterinaryFilter narrows the directory listing
type VeterinaryFilter struct {
	City          string
	EmergencyOnly bool
	Search        string
}
