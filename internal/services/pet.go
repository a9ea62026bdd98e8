package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"petcare-backend/internal/models"
	"petcare-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const uploadURLExpiry = 15 * time.Minute

// PetService handles pet-related business logic
type PetService struct {
	pets     PetStore
	registry *Registry
	objects  storage.ObjectStore
	now      func() time.Time
}

// NewPetService creates a new pet service
func NewPetService(pets PetStore, registry *Registry, objects storage.ObjectStore) *PetService {
	return &PetService{
		pets:     pets,
		registry: registry,
		objects:  objects,
		now:      time.Now,
	}
}

// NewPet holds the owner-supplied fields of a pet
type NewPet struct {
	Name         string
	Species      string
	Breed        string
	Gender       string
	Color        string
	DateOfBirth  *time.Time
	SpecialNeeds string
}

// CreatedPet is a new pet with the identity issued for it, if any
type CreatedPet struct {
	*models.Pet
	Identity *models.PetIdentity `json:"qr_code,omitempty"`
}

// Create stores the pet and issues its QR identity. If issuing fails the
// pet is still returned; the identity is created on the next QR request.
func (s *PetService) Create(ctx context.Context, ownerID string, in NewPet) (*CreatedPet, error) {
	now := s.now()
	if in.DateOfBirth != nil && in.DateOfBirth.After(now) {
		return nil, validationError("date_of_birth is in the future")
	}

	gender := in.Gender
	if gender == "" {
		gender = "unknown"
	}

	pet := &models.Pet{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(in.Name),
		Species:      in.Species,
		Breed:        in.Breed,
		Gender:       gender,
		Color:        in.Color,
		DateOfBirth:  in.DateOfBirth,
		SpecialNeeds: in.SpecialNeeds,
		Status:       models.PetActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.pets.Create(ctx, pet); err != nil {
		return nil, translate(err)
	}

	identity, err := s.registry.Ensure(ctx, pet.ID)
	if err != nil {
		log.Error().Err(err).Str("pet_id", pet.ID).Msg("Failed to issue QR identity for new pet")
	}

	log.Info().Str("pet_id", pet.ID).Str("owner_id", ownerID).Msg("Pet created")
	return &CreatedPet{Pet: pet, Identity: identity}, nil
}

// Get returns a pet owned by userID
func (s *PetService) Get(ctx context.Context, petID, userID string) (*models.Pet, error) {
	return ownedPet(ctx, s.pets, petID, userID)
}

// List returns the user's pets
func (s *PetService) List(ctx context.Context, ownerID string) ([]*models.Pet, error) {
	pets, err := s.pets.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if pets == nil {
		pets = []*models.Pet{}
	}
	return pets, nil
}

// Delete removes a pet and its dependent rows. The QR image is removed best effort.
func (s *PetService) Delete(ctx context.Context, petID, userID string) error {
	if _, err := ownedPet(ctx, s.pets, petID, userID); err != nil {
		return err
	}

	if identity, err := s.registry.Stats(ctx, petID); err == nil {
		s.registry.DiscardIdentityImage(ctx, identity)
	}

	if err := s.pets.Delete(ctx, petID); err != nil {
		return translate(err)
	}

	log.Info().Str("pet_id", petID).Msg("Pet deleted")
	return nil
}

// PetUpdate holds the fields to change; nil fields are left as they are
type PetUpdate struct {
	Name         *string
	Species      *string
	Breed        *string
	Gender       *string
	Color        *string
	DateOfBirth  *time.Time
	SpecialNeeds *string
	Status       *string
}

// Update edits a pet. Leaving the lost status clears the lost report.
func (s *PetService) Update(ctx context.Context, petID, userID string, in PetUpdate) (*models.Pet, error) {
	pet, err := ownedPet(ctx, s.pets, petID, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, validationError("name must not be empty")
		}
		pet.Name = name
	}
	if in.Species != nil {
		pet.Species = *in.Species
	}
	if in.Breed != nil {
		pet.Breed = *in.Breed
	}
	if in.Gender != nil {
		pet.Gender = *in.Gender
	}
	if in.Color != nil {
		pet.Color = *in.Color
	}
	if in.DateOfBirth != nil {
		if in.DateOfBirth.After(now) {
			return nil, validationError("date_of_birth is in the future")
		}
		pet.DateOfBirth = in.DateOfBirth
	}
	if in.SpecialNeeds != nil {
		pet.SpecialNeeds = *in.SpecialNeeds
	}
	if in.Status != nil {
		switch *in.Status {
		case models.PetActive, models.PetFound, models.PetDeceased, models.PetAdopted:
			clearLost(pet)
		case models.PetLost:
			if pet.LostDate == nil {
				pet.LostDate = &now
			}
		default:
			return nil, validationError("unknown status %q", *in.Status)
		}
		pet.Status = *in.Status
	}

	pet.UpdatedAt = now
	if err := s.pets.Update(ctx, pet); err != nil {
		return nil, translate(err)
	}
	return pet, nil
}

// LostReport describes when and where a pet went missing
type LostReport struct {
	Date     time.Time
	Location string
}

// ReportLost marks a pet as lost
func (s *PetService) ReportLost(ctx context.Context, petID, userID string, report LostReport) (*models.Pet, error) {
	pet, err := ownedPet(ctx, s.pets, petID, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if report.Date.After(now) {
		return nil, validationError("lost_date is in the future")
	}
	location := strings.TrimSpace(report.Location)
	if location == "" {
		return nil, validationError("lost_location is required")
	}

	lostAt := report.Date
	pet.Status = models.PetLost
	pet.LostDate = &lostAt
	pet.LostLocation = location
	pet.UpdatedAt = now

	if err := s.pets.Update(ctx, pet); err != nil {
		return nil, translate(err)
	}
	log.Info().Str("pet_id", petID).Time("lost_date", lostAt).Msg("Pet reported lost")
	return pet, nil
}

// MarkFound returns a lost pet to active and clears its lost report
func (s *PetService) MarkFound(ctx context.Context, petID, userID string) (*models.Pet, error) {
	pet, err := ownedPet(ctx, s.pets, petID, userID)
	if err != nil {
		return nil, err
	}

	pet.Status = models.PetActive
	clearLost(pet)
	pet.UpdatedAt = s.now()

	if err := s.pets.Update(ctx, pet); err != nil {
		return nil, translate(err)
	}
	log.Info().Str("pet_id", petID).Msg("Pet marked as found")
	return pet, nil
}

func clearLost(pet *models.Pet) {
	pet.LostDate = nil
	pet.LostLocation = ""
}

// ImageUpload is a pre-signed upload target for a profile picture
type ImageUpload struct {
	UploadURL string    `json:"upload_url"`
	ImageURL  string    `json:"image_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProfileImageUploadURL issues a pre-signed PUT URL and points the pet at
// the image it will create. The previous image is removed best effort.
func (s *PetService) ProfileImageUploadURL(ctx context.Context, petID, userID, contentType string) (*ImageUpload, error) {
	pet, err := ownedPet(ctx, s.pets, petID, userID)
	if err != nil {
		return nil, err
	}

	ext := ".jpg"
	switch contentType {
	case "image/jpeg", "":
		contentType = "image/jpeg"
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	default:
		return nil, validationError("unsupported content type %q", contentType)
	}

	key := fmt.Sprintf("pets/%s/%s%s", petID, uuid.New().String(), ext)
	uploadURL, err := s.objects.PresignPut(ctx, key, contentType, uploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternal, err)
	}

	imageURL := s.objects.URL(key)
	if err := s.pets.UpdateProfileImage(ctx, petID, &imageURL); err != nil {
		return nil, translate(err)
	}
	s.discardProfileImage(ctx, pet.ProfileImageURL)

	return &ImageUpload{
		UploadURL: uploadURL,
		ImageURL:  imageURL,
		ExpiresAt: s.now().Add(uploadURLExpiry),
	}, nil
}

func (s *PetService) discardProfileImage(ctx context.Context, imageURL *string) {
	if imageURL == nil {
		return
	}
	key, ok := s.objects.KeyFromURL(*imageURL)
	if !ok {
		log.Warn().Str("url", *imageURL).Msg("Cannot derive object key from profile image URL")
		return
	}
	if err := s.objects.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to delete previous profile image")
	}
}

// PublicProfile returns the pet card shown to anyone holding the pet ID
// and records a scan when the pet has a live code
func (s *PetService) PublicProfile(ctx context.Context, petID string) (*models.PetProfile, error) {
	profile, err := s.pets.GetProfile(ctx, petID)
	if err != nil {
		return nil, translate(err)
	}
	s.registry.RecordPetView(ctx, profile)
	return profile, nil
}
