package memory

import (
	"context"
	"fmt"
	"time"

	"petcare-backend/internal/models"
	"petcare-backend/internal/repository"
)

type IdentityRepo struct{ s *Store }

func (r *IdentityRepo) GetByPetID(ctx context.Context, petID string) (*models.PetIdentity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.identities[petID]
	if !ok {
		return nil, fmt.Errorf("identity for pet %s: %w", petID, repository.ErrNotFound)
	}
	id.LastScannedAt = timePtr(id.LastScannedAt)
	return &id, nil
}

func (r *IdentityRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.codeTaken(code), nil
}

func (r *IdentityRepo) codeTaken(code string) bool {
	if _, ok := r.s.retired[code]; ok {
		return true
	}
	for _, id := range r.s.identities {
		if id.Code == code {
			return true
		}
	}
	return false
}

func (r *IdentityRepo) Create(ctx context.Context, identity *models.PetIdentity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[identity.PetID]; !ok {
		return fmt.Errorf("failed to create identity: pet %s: %w", identity.PetID, repository.ErrNotFound)
	}
	if _, ok := r.s.identities[identity.PetID]; ok {
		return fmt.Errorf("failed to create identity: %w", repository.ErrIdentityExists)
	}
	if r.codeTaken(identity.Code) {
		return fmt.Errorf("failed to create identity: %w", repository.ErrCodeTaken)
	}

	identity.TotalScans = 0
	identity.LastScannedAt = nil
	identity.UpdatedAt = identity.CreatedAt
	r.s.identities[identity.PetID] = *identity
	return nil
}

func (r *IdentityRepo) RecordScan(ctx context.Context, code string, at time.Time) (string, *models.ScanStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for petID, id := range r.s.identities {
		if id.Code != code {
			continue
		}
		id.TotalScans++
		scannedAt := at
		id.LastScannedAt = &scannedAt
		id.UpdatedAt = at
		r.s.identities[petID] = id

		return petID, &models.ScanStats{
			TotalScans:    id.TotalScans,
			LastScannedAt: timePtr(id.LastScannedAt),
		}, nil
	}
	return "", nil, fmt.Errorf("identity %s: %w", code, repository.ErrNotFound)
}

func (r *IdentityRepo) Retire(ctx context.Context, identity *models.PetIdentity, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.retired[identity.Code]; !ok {
		r.s.retired[identity.Code] = identity.PetID
	}
	if live, ok := r.s.identities[identity.PetID]; ok && live.ID == identity.ID {
		delete(r.s.identities, identity.PetID)
	}
	return nil
}
