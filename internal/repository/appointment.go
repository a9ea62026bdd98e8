package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"petcare-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AppointmentRepository handles database operations for appointments
type AppointmentRepository struct {
	db *pgxpool.Pool
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

const appointmentColumns = `id, user_id, pet_id, appointment_type, appointment_datetime, notes,
	clinic_name, veterinarian_name, status, created_at, updated_at`

func scanAppointment(row pgx.Row, a *models.Appointment) error {
	return row.Scan(
		&a.ID, &a.UserID, &a.PetID, &a.AppointmentType, &a.ScheduledAt, &a.Notes,
		&a.ClinicName, &a.VeterinarianName, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
}

// Create creates a new appointment
func (r *AppointmentRepository) Create(ctx context.Context, a *models.Appointment) error {
	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.UserID, a.PetID, a.AppointmentType, a.ScheduledAt, a.Notes,
		a.ClinicName, a.VeterinarianName, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// GetByID retrieves an appointment owned by userID
func (r *AppointmentRepository) GetByID(ctx context.Context, id, userID string) (*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 AND user_id = $2`

	var a models.Appointment
	if err := scanAppointment(r.db.QueryRow(ctx, query, id, userID), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("appointment %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &a, nil
}

// List returns the user's appointments narrowed by window and status
func (r *AppointmentRepository) List(ctx context.Context, userID string, filter models.AppointmentFilter, now time.Time) ([]*models.Appointment, error) {
	conds := []string{"user_id = $1"}
	args := []interface{}{userID}
	order := "appointment_datetime ASC"

	switch filter.Window {
	case models.WindowUpcoming:
		args = append(args, now)
		conds = append(conds, fmt.Sprintf("appointment_datetime >= $%d", len(args)))
	case models.WindowPast:
		args = append(args, now)
		conds = append(conds, fmt.Sprintf("appointment_datetime < $%d", len(args)))
		order = "appointment_datetime DESC"
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY ` + order

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*models.Appointment
	for rows.Next() {
		var a models.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}
	return appointments, nil
}

// CountUpcoming counts future appointments that are still scheduled or confirmed
func (r *AppointmentRepository) CountUpcoming(ctx context.Context, userID string, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE user_id = $1 AND appointment_datetime >= $2 AND status IN ($3, $4)
	`
	var count int
	err := r.db.QueryRow(ctx, query, userID, now, models.AppointmentScheduled, models.AppointmentConfirmed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count upcoming appointments: %w", err)
	}
	return count, nil
}

// UpdateStatus sets the status of an appointment owned by userID
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id, userID, status string, at time.Time) error {
	query := `UPDATE appointments SET status = $3, updated_at = $4 WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, id, userID, status, at)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("appointment %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete deletes an appointment owned by userID
func (r *AppointmentRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("appointment %s: %w", id, ErrNotFound)
	}
	return nil
}
