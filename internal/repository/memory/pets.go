package memory

import (
	"context"
	"fmt"
	"sort"

	"petcare-backend/internal/models"
	"petcare-backend/internal/repository"
)

type PetRepo struct{ s *Store }

func (r *PetRepo) Create(ctx context.Context, pet *models.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[pet.OwnerID]; !ok {
		return fmt.Errorf("failed to create pet: owner %s: %w", pet.OwnerID, repository.ErrNotFound)
	}
	if _, exists := r.s.pets[pet.ID]; exists {
		return fmt.Errorf("failed to create pet: %w", repository.ErrDuplicate)
	}
	r.s.pets[pet.ID] = *pet
	return nil
}

func (r *PetRepo) GetByID(ctx context.Context, id string) (*models.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return nil, fmt.Errorf("pet %s: %w", id, repository.ErrNotFound)
	}
	return &p, nil
}

func (r *PetRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Pet, 0)
	for _, p := range r.s.pets {
		if p.OwnerID == ownerID {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PetRepo) GetProfile(ctx context.Context, id string) (*models.PetProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return nil, fmt.Errorf("pet %s: %w", id, repository.ErrNotFound)
	}
	u, ok := r.s.users[p.OwnerID]
	if !ok {
		return nil, fmt.Errorf("pet %s: %w", id, repository.ErrNotFound)
	}
	return &models.PetProfile{
		Pet: p,
		Owner: models.OwnerContact{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Phone:     u.Phone,
		},
	}, nil
}

func (r *PetRepo) Update(ctx context.Context, pet *models.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.pets[pet.ID]
	if !ok {
		return fmt.Errorf("pet %s: %w", pet.ID, repository.ErrNotFound)
	}
	cp := *pet
	cp.OwnerID = existing.OwnerID
	cp.ProfileImageURL = existing.ProfileImageURL
	cp.CreatedAt = existing.CreatedAt
	cp.DateOfBirth = timePtr(pet.DateOfBirth)
	cp.LostDate = timePtr(pet.LostDate)
	r.s.pets[pet.ID] = cp
	return nil
}

func (r *PetRepo) UpdateProfileImage(ctx context.Context, id string, url *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.pets[id]
	if !ok {
		return fmt.Errorf("pet %s: %w", id, repository.ErrNotFound)
	}
	p.ProfileImageURL = url
	r.s.pets[id] = p
	return nil
}

// Delete removes the pet and everything that references it. The live
// code is retired, not freed.
func (r *PetRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[id]; !ok {
		return fmt.Errorf("pet %s: %w", id, repository.ErrNotFound)
	}
	delete(r.s.pets, id)
	if identity, ok := r.s.identities[id]; ok {
		r.s.retired[identity.Code] = id
		delete(r.s.identities, id)
	}
	for k, v := range r.s.vaccines {
		if v.PetID == id {
			delete(r.s.vaccines, k)
		}
	}
	for k, rec := range r.s.records {
		if rec.PetID == id {
			delete(r.s.records, k)
		}
	}
	for k, a := range r.s.appointments {
		if a.PetID == id {
			delete(r.s.appointments, k)
		}
	}
	for k, n := range r.s.notifications {
		if n.PetID != nil && *n.PetID == id {
			delete(r.s.notifications, k)
		}
	}
	return nil
}
