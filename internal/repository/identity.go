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

// IdentityRepository handles the qr_codes and retired_qr_codes tables
type IdentityRepository struct {
	db *pgxpool.Pool
}

// NewIdentityRepository creates a new identity repository
func NewIdentityRepository(db *pgxpool.Pool) *IdentityRepository {
	return &IdentityRepository{db: db}
}

const identityColumns = `id, pet_id, qr_code, qr_image_url, total_scans, last_scanned_at, created_at, updated_at`

func scanIdentity(row pgx.Row) (*models.PetIdentity, error) {
	var id models.PetIdentity
	err := row.Scan(
		&id.ID, &id.PetID, &id.Code, &id.ImageURL, &id.TotalScans, &id.LastScannedAt,
		&id.CreatedAt, &id.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// GetByPetID returns the live identity of a pet
func (r *IdentityRepository) GetByPetID(ctx context.Context, petID string) (*models.PetIdentity, error) {
	query := `SELECT ` + identityColumns + ` FROM qr_codes WHERE pet_id = $1`

	identity, err := scanIdentity(r.db.QueryRow(ctx, query, petID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("identity for pet %s: %w", petID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}
	return identity, nil
}

// CodeExists reports whether code is live or was ever retired
func (r *IdentityRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	query := `
		SELECT EXISTS(SELECT 1 FROM qr_codes WHERE qr_code = $1)
			OR EXISTS(SELECT 1 FROM retired_qr_codes WHERE qr_code = $1)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check code existence: %w", err)
	}
	return exists, nil
}

// Create inserts a new identity. A code that is live or retired yields
// ErrCodeTaken; a pet that already has an identity yields ErrIdentityExists.
func (r *IdentityRepository) Create(ctx context.Context, identity *models.PetIdentity) error {
	query := `
		INSERT INTO qr_codes (` + identityColumns + `)
		SELECT $1::text, $2::text, $3::text, $4::text, 0, NULL, $5::timestamptz, $5::timestamptz
		WHERE NOT EXISTS (SELECT 1 FROM retired_qr_codes WHERE qr_code = $3::text)
	`
	tag, err := r.db.Exec(ctx, query,
		identity.ID, identity.PetID, identity.Code, identity.ImageURL, identity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", mapUniqueViolation(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to create identity: %w", ErrCodeTaken)
	}

	identity.TotalScans = 0
	identity.LastScannedAt = nil
	identity.UpdatedAt = identity.CreatedAt
	return nil
}

// RecordScan increments the scan counter of code by one and stamps the
// scan time in a single statement. It returns the owning pet and the
// counters as written.
func (r *IdentityRepository) RecordScan(ctx context.Context, code string, at time.Time) (string, *models.ScanStats, error) {
	query := `
		UPDATE qr_codes
		SET total_scans = total_scans + 1, last_scanned_at = $2, updated_at = $2
		WHERE qr_code = $1
		RETURNING pet_id, total_scans, last_scanned_at
	`
	var (
		petID string
		stats models.ScanStats
	)
	err := r.db.QueryRow(ctx, query, code, at).Scan(&petID, &stats.TotalScans, &stats.LastScannedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, fmt.Errorf("identity %s: %w", code, ErrNotFound)
		}
		return "", nil, fmt.Errorf("failed to record scan: %w", err)
	}
	return petID, &stats, nil
}

// Retire removes the live identity and records its code so it is never issued again
func (r *IdentityRepository) Retire(ctx context.Context, identity *models.PetIdentity, at time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO retired_qr_codes (qr_code, pet_id, retired_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (qr_code) DO NOTHING
	`, identity.Code, identity.PetID, at)
	if err != nil {
		return fmt.Errorf("failed to retire code: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM qr_codes WHERE id = $1`, identity.ID); err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
