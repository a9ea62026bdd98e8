package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"petcare-backend/internal/models"
	"petcare-backend/internal/repository"
)

type VaccineRepo struct{ s *Store }

func (r *VaccineRepo) Create(ctx context.Context, v *models.Vaccine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[v.PetID]; !ok {
		return fmt.Errorf("failed to create vaccine: pet %s: %w", v.PetID, repository.ErrNotFound)
	}
	cp := *v
	cp.NextDoseDate = timePtr(v.NextDoseDate)
	r.s.vaccines[v.ID] = cp
	return nil
}

func (r *VaccineRepo) GetByID(ctx context.Context, id string) (*models.Vaccine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.vaccines[id]
	if !ok {
		return nil, fmt.Errorf("vaccine %s: %w", id, repository.ErrNotFound)
	}
	v.NextDoseDate = timePtr(v.NextDoseDate)
	return &v, nil
}

func (r *VaccineRepo) ListByPet(ctx context.Context, petID string) ([]*models.Vaccine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Vaccine, 0)
	for _, v := range r.s.vaccines {
		if v.PetID == petID {
			v := v
			v.NextDoseDate = timePtr(v.NextDoseDate)
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AdministrationDate.After(out[j].AdministrationDate)
	})
	return out, nil
}

func (r *VaccineRepo) ListDueBetween(ctx context.Context, ownerID string, from, to time.Time) ([]*models.Vaccine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Vaccine, 0)
	for _, v := range r.s.vaccines {
		pet, ok := r.s.pets[v.PetID]
		if !ok || pet.OwnerID != ownerID || v.NextDoseDate == nil {
			continue
		}
		if v.NextDoseDate.Before(from) || v.NextDoseDate.After(to) {
			continue
		}
		v := v
		v.NextDoseDate = timePtr(v.NextDoseDate)
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NextDoseDate.Before(*out[j].NextDoseDate)
	})
	return out, nil
}

func (r *VaccineRepo) Update(ctx context.Context, v *models.Vaccine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.vaccines[v.ID]
	if !ok {
		return fmt.Errorf("vaccine %s: %w", v.ID, repository.ErrNotFound)
	}
	cp := *v
	cp.PetID = existing.PetID
	cp.CreatedAt = existing.CreatedAt
	cp.NextDoseDate = timePtr(v.NextDoseDate)
	r.s.vaccines[v.ID] = cp
	return nil
}

func (r *VaccineRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.vaccines[id]; !ok {
		return fmt.Errorf("vaccine %s: %w", id, repository.ErrNotFound)
	}
	delete(r.s.vaccines, id)
	return nil
}
