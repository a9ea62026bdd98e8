package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petcare-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VaccineRepository handles database operations for vaccines
type VaccineRepository struct {
	db *pgxpool.Pool
}

// NewVaccineRepository creates a new vaccine repository
func NewVaccineRepository(db *pgxpool.Pool) *VaccineRepository {
	return &VaccineRepository{db: db}
}

const vaccineColumns = `id, pet_id, vaccine_name, vaccine_type, manufacturer, batch_number,
	administration_date, next_dose_date, notes, created_at, updated_at`

func scanVaccine(row pgx.Row, v *models.Vaccine) error {
	return row.Scan(
		&v.ID, &v.PetID, &v.VaccineName, &v.VaccineType, &v.Manufacturer, &v.BatchNumber,
		&v.AdministrationDate, &v.NextDoseDate, &v.Notes, &v.CreatedAt, &v.UpdatedAt,
	)
}

func collectVaccines(rows pgx.Rows) ([]*models.Vaccine, error) {
	defer rows.Close()

	var vaccines []*models.Vaccine
	for rows.Next() {
		var v models.Vaccine
		if err := scanVaccine(rows, &v); err != nil {
			return nil, fmt.Errorf("failed to scan vaccine: %w", err)
		}
		vaccines = append(vaccines, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vaccines: %w", err)
	}
	return vaccines, nil
}

// Create creates a new vaccine
func (r *VaccineRepository) Create(ctx context.Context, v *models.Vaccine) error {
	query := `
		INSERT INTO vaccines (` + vaccineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		v.ID, v.PetID, v.VaccineName, v.VaccineType, v.Manufacturer, v.BatchNumber,
		v.AdministrationDate, v.NextDoseDate, v.Notes, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vaccine: %w", err)
	}
	return nil
}

// GetByID retrieves a vaccine by ID
func (r *VaccineRepository) GetByID(ctx context.Context, id string) (*models.Vaccine, error) {
	query := `SELECT ` + vaccineColumns + ` FROM vaccines WHERE id = $1`

	var v models.Vaccine
	if err := scanVaccine(r.db.QueryRow(ctx, query, id), &v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("vaccine %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vaccine: %w", err)
	}
	return &v, nil
}

// ListByPet returns a pet's vaccines, most recent dose first
func (r *VaccineRepository) ListByPet(ctx context.Context, petID string) ([]*models.Vaccine, error) {
	query := `SELECT ` + vaccineColumns + ` FROM vaccines WHERE pet_id = $1 ORDER BY administration_date DESC`

	rows, err := r.db.Query(ctx, query, petID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vaccines: %w", err)
	}
	return collectVaccines(rows)
}

// ListDueBetween returns the owner's vaccines whose next dose falls in [from, to]
func (r *VaccineRepository) ListDueBetween(ctx context.Context, ownerID string, from, to time.Time) ([]*models.Vaccine, error) {
	query := `
		SELECT v.id, v.pet_id, v.vaccine_name, v.vaccine_type, v.manufacturer, v.batch_number,
			v.administration_date, v.next_dose_date, v.notes, v.created_at, v.updated_at
		FROM vaccines v
		JOIN pets p ON p.id = v.pet_id
		WHERE p.owner_id = $1 AND v.next_dose_date BETWEEN $2 AND $3
		ORDER BY v.next_dose_date ASC
	`
	rows, err := r.db.Query(ctx, query, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming vaccines: %w", err)
	}
	return collectVaccines(rows)
}

// Update overwrites the mutable fields of a vaccine
func (r *VaccineRepository) Update(ctx context.Context, v *models.Vaccine) error {
	query := `
		UPDATE vaccines
		SET vaccine_name = $2, vaccine_type = $3, manufacturer = $4, batch_number = $5,
			administration_date = $6, next_dose_date = $7, notes = $8, updated_at = $9
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		v.ID, v.VaccineName, v.VaccineType, v.Manufacturer, v.BatchNumber,
		v.AdministrationDate, v.NextDoseDate, v.Notes, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update vaccine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vaccine %s: %w", v.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a vaccine
func (r *VaccineRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM vaccines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vaccine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vaccine %s: %w", id, ErrNotFound)
	}
	return nil
}
