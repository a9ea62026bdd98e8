package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"petcare-backend/internal/models"
	"petcare-backend/internal/repository"
)

type VeterinaryRepo struct{ s *Store }

func copyVeterinary(v models.Veterinary) *models.Veterinary {
	if v.OpeningHours != nil {
		hours := make(map[string]string, len(v.OpeningHours))
		for k, h := range v.OpeningHours {
			hours[k] = h
		}
		v.OpeningHours = hours
	}
	v.Services = append([]string(nil), v.Services...)
	return &v
}

func (r *VeterinaryRepo) List(ctx context.Context, filter models.VeterinaryFilter) ([]*models.Veterinary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	out := make([]*models.Veterinary, 0)
	for _, v := range r.s.veterinaries {
		if !v.IsActive {
			continue
		}
		if filter.City != "" && v.City != filter.City {
			continue
		}
		if filter.EmergencyOnly && !v.EmergencyAvailable {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(v.Name), search) {
			continue
		}
		out = append(out, copyVeterinary(v))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *VeterinaryRepo) GetByID(ctx context.Context, id string) (*models.Veterinary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.veterinaries[id]
	if !ok || !v.IsActive {
		return nil, fmt.Errorf("veterinary %s: %w", id, repository.ErrNotFound)
	}
	return copyVeterinary(v), nil
}

func (r *VeterinaryRepo) Upsert(ctx context.Context, v *models.Veterinary) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *copyVeterinary(*v)
	if existing, ok := r.s.veterinaries[v.ID]; ok {
		cp.CreatedAt = existing.CreatedAt
	}
	r.s.veterinaries[v.ID] = cp
	return nil
}
