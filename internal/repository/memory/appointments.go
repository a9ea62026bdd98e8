package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"petcare-backend/internal/models"
	"petcare-backend/internal/repository"
)

type AppointmentRepo struct{ s *Store }

func (r *AppointmentRepo) Create(ctx context.Context, a *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[a.PetID]; !ok {
		return fmt.Errorf("failed to create appointment: pet %s: %w", a.PetID, repository.ErrNotFound)
	}
	r.s.appointments[a.ID] = *a
	return nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id, userID string) (*models.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.appointments[id]
	if !ok || a.UserID != userID {
		return nil, fmt.Errorf("appointment %s: %w", id, repository.ErrNotFound)
	}
	return &a, nil
}

func (r *AppointmentRepo) List(ctx context.Context, userID string, filter models.AppointmentFilter, now time.Time) ([]*models.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Appointment, 0)
	for _, a := range r.s.appointments {
		if a.UserID != userID {
			continue
		}
		switch filter.Window {
		case models.WindowUpcoming:
			if a.ScheduledAt.Before(now) {
				continue
			}
		case models.WindowPast:
			if !a.ScheduledAt.Before(now) {
				continue
			}
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		a := a
		out = append(out, &a)
	}

	desc := filter.Window == models.WindowPast
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].ScheduledAt.After(out[j].ScheduledAt)
		}
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out, nil
}

func (r *AppointmentRepo) CountUpcoming(ctx context.Context, userID string, now time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, a := range r.s.appointments {
		if a.UserID != userID || a.ScheduledAt.Before(now) {
			continue
		}
		if a.Status == models.AppointmentScheduled || a.Status == models.AppointmentConfirmed {
			count++
		}
	}
	return count, nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id, userID, status string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.appointments[id]
	if !ok || a.UserID != userID {
		return fmt.Errorf("appointment %s: %w", id, repository.ErrNotFound)
	}
	a.Status = status
	a.UpdatedAt = at
	r.s.appointments[id] = a
	return nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.appointments[id]
	if !ok || a.UserID != userID {
		return fmt.Errorf("appointment %s: %w", id, repository.ErrNotFound)
	}
	delete(r.s.appointments, id)
	return nil
}
