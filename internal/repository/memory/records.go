package memory

import (
	"context"
	"fmt"
	"sort"

	"petcare-backend/internal/models"
	"petcare-backend/internal/repository"
)

type MedicalRecordRepo struct{ s *Store }

func (r *MedicalRecordRepo) Create(ctx context.Context, rec *models.MedicalRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[rec.PetID]; !ok {
		return fmt.Errorf("failed to create medical record: pet %s: %w", rec.PetID, repository.ErrNotFound)
	}
	cp := *rec
	cp.NextDueDate = timePtr(rec.NextDueDate)
	r.s.records[rec.ID] = cp
	return nil
}

func (r *MedicalRecordRepo) ListByPet(ctx context.Context, petID string) ([]*models.MedicalRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.MedicalRecord, 0)
	for _, rec := range r.s.records {
		if rec.PetID == petID {
			rec := rec
			rec.NextDueDate = timePtr(rec.NextDueDate)
			out = append(out, &rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (r *MedicalRecordRepo) GetByID(ctx context.Context, id string) (*models.MedicalRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.records[id]
	if !ok {
		return nil, fmt.Errorf("medical record %s: %w", id, repository.ErrNotFound)
	}
	rec.NextDueDate = timePtr(rec.NextDueDate)
	return &rec, nil
}

func (r *MedicalRecordRepo) Update(ctx context.Context, rec *models.MedicalRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.records[rec.ID]
	if !ok {
		return fmt.Errorf("medical record %s: %w", rec.ID, repository.ErrNotFound)
	}
	cp := *rec
	cp.PetID = existing.PetID
	cp.CreatedAt = existing.CreatedAt
	cp.NextDueDate = timePtr(rec.NextDueDate)
	r.s.records[rec.ID] = cp
	return nil
}

func (r *MedicalRecordRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.records[id]; !ok {
		return fmt.Errorf("medical record %s: %w", id, repository.ErrNotFound)
	}
	delete(r.s.records, id)
	return nil
}
