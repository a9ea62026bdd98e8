package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"petcare-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type veterinaryDirectory struct {
	Veterinaries []models.Veterinary `yaml:"veterinaries"`
}

// ParseVeterinaryDirectory decodes a YAML clinic directory
func ParseVeterinaryDirectory(data []byte) ([]models.Veterinary, error) {
	var dir veterinaryDirectory
	if err := yaml.Unmarshal(data, &dir); err != nil {
		return nil, fmt.Errorf("failed to parse veterinary directory: %w", err)
	}
	for i, v := range dir.Veterinaries {
		if strings.TrimSpace(v.Name) == "" {
			return nil, fmt.Errorf("veterinary entry %d: name is required", i+1)
		}
		if v.Rating < 0 || v.Rating > 5 {
			return nil, fmt.Errorf("veterinary %q: rating must be between 0 and 5", v.Name)
		}
	}
	return dir.Veterinaries, nil
}

// VeterinaryService exposes the read-only clinic directory
type VeterinaryService struct {
	store VeterinaryStore
	now   func() time.Time
}

// NewVeterinaryService creates a new veterinary service
func NewVeterinaryService(store VeterinaryStore) *VeterinaryService {
	return &VeterinaryService{store: store, now: time.Now}
}

// List returns active clinics matching the filter, sorted by name
func (s *VeterinaryService) List(ctx context.Context, filter models.VeterinaryFilter) ([]*models.Veterinary, error) {
	filter.City = strings.TrimSpace(filter.City)
	filter.Search = strings.TrimSpace(filter.Search)

	vets, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if vets == nil {
		vets = []*models.Veterinary{}
	}
	return vets, nil
}

// Get returns one active clinic
func (s *VeterinaryService) Get(ctx context.Context, id string) (*models.Veterinary, error) {
	v, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return v, nil
}

// Import upserts directory entries. IDs derive from name and city so
// re-importing the same file updates rows in place.
func (s *VeterinaryService) Import(ctx context.Context, vets []models.Veterinary) (int, error) {
	now := s.now()
	for i := range vets {
		v := vets[i]
		v.ID = veterinaryID(v.Name, v.City)
		v.IsActive = true
		v.CreatedAt = now
		v.UpdatedAt = now
		if err := s.store.Upsert(ctx, &v); err != nil {
			return i, fmt.Errorf("failed to import veterinary %q: %w", v.Name, err)
		}
	}
	log.Info().Int("count", len(vets)).Msg("Veterinary directory imported")
	return len(vets), nil
}

func veterinaryID(name, city string) string {
	key := strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(city))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}
