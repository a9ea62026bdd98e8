package repository

import (
	"context"
	"errors"
	"fmt"

	"petcare-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MedicalRecordRepository handles database operations for medical records
type MedicalRecordRepository struct {
	db *pgxpool.Pool
}

// NewMedicalRecordRepository creates a new medical record repository
func NewMedicalRecordRepository(db *pgxpool.Pool) *MedicalRecordRepository {
	return &MedicalRecordRepository{db: db}
}

const medicalRecordColumns = `id, pet_id, record_type, record_date, title, description, next_due_date, created_at, updated_at`

func scanMedicalRecord(row pgx.Row, rec *models.MedicalRecord) error {
	return row.Scan(
		&rec.ID, &rec.PetID, &rec.RecordType, &rec.Date, &rec.Title, &rec.Description,
		&rec.NextDueDate, &rec.CreatedAt, &rec.UpdatedAt,
	)
}

// Create creates a new medical record
func (r *MedicalRecordRepository) Create(ctx context.Context, rec *models.MedicalRecord) error {
	query := `
		INSERT INTO medical_records (` + medicalRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.PetID, rec.RecordType, rec.Date, rec.Title, rec.Description, rec.NextDueDate,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medical record: %w", err)
	}
	return nil
}

// GetByID retrieves a medical record by ID
func (r *MedicalRecordRepository) GetByID(ctx context.Context, id string) (*models.MedicalRecord, error) {
	query := `SELECT ` + medicalRecordColumns + ` FROM medical_records WHERE id = $1`

	var rec models.MedicalRecord
	if err := scanMedicalRecord(r.db.QueryRow(ctx, query, id), &rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("medical record %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get medical record: %w", err)
	}
	return &rec, nil
}

// ListByPet returns a pet's records, most recent first
func (r *MedicalRecordRepository) ListByPet(ctx context.Context, petID string) ([]*models.MedicalRecord, error) {
	query := `SELECT ` + medicalRecordColumns + ` FROM medical_records WHERE pet_id = $1 ORDER BY record_date DESC`

	rows, err := r.db.Query(ctx, query, petID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	defer rows.Close()

	var records []*models.MedicalRecord
	for rows.Next() {
		var rec models.MedicalRecord
		if err := scanMedicalRecord(rows, &rec); err != nil {
			return nil, fmt.Errorf("failed to scan medical record: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating medical records: %w", err)
	}
	return records, nil
}

// Update writes the editable fields of a record
func (r *MedicalRecordRepository) Update(ctx context.Context, rec *models.MedicalRecord) error {
	query := `
		UPDATE medical_records
		SET record_type = $2, record_date = $3, title = $4, description = $5, next_due_date = $6, updated_at = $7
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		rec.ID, rec.RecordType, rec.Date, rec.Title, rec.Description, rec.NextDueDate, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update medical record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("medical record %s: %w", rec.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a medical record
func (r *MedicalRecordRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM medical_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medical record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("medical record %s: %w", id, ErrNotFound)
	}
	return nil
}
