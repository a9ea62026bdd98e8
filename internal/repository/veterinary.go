package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"petcare-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VeterinaryRepository handles the veterinaries directory
type VeterinaryRepository struct {
	db *pgxpool.Pool
}

// NewVeterinaryRepository creates a new veterinary repository
func NewVeterinaryRepository(db *pgxpool.Pool) *VeterinaryRepository {
	return &VeterinaryRepository{db: db}
}

const veterinaryColumns = `id, name, address, city, region, phone, email, website, opening_hours, services,
	emergency_available, has_parking, accepts_card_payment, latitude, longitude, rating::float8,
	is_active, created_at, updated_at`

func scanVeterinary(row pgx.Row) (*models.Veterinary, error) {
	var (
		v        models.Veterinary
		hours    []byte
		services []byte
	)
	err := row.Scan(
		&v.ID, &v.Name, &v.Address, &v.City, &v.Region, &v.Phone, &v.Email, &v.Website, &hours, &services,
		&v.EmergencyAvailable, &v.HasParking, &v.AcceptsCardPayment, &v.Latitude, &v.Longitude, &v.Rating,
		&v.IsActive, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &v.OpeningHours); err != nil {
			return nil, fmt.Errorf("failed to decode opening hours: %w", err)
		}
	}
	if len(services) > 0 {
		if err := json.Unmarshal(services, &v.Services); err != nil {
			return nil, fmt.Errorf("failed to decode services: %w", err)
		}
	}
	return &v, nil
}

// List returns active veterinaries matching filter, ordered by name
func (r *VeterinaryRepository) List(ctx context.Context, filter models.VeterinaryFilter) ([]*models.Veterinary, error) {
	var (
		conds = []string{"is_active"}
		args  []interface{}
	)
	if filter.City != "" {
		args = append(args, filter.City)
		conds = append(conds, fmt.Sprintf("city = $%d", len(args)))
	}
	if filter.EmergencyOnly {
		conds = append(conds, "emergency_available")
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	query := `SELECT ` + veterinaryColumns + ` FROM veterinaries WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list veterinaries: %w", err)
	}
	defer rows.Close()

	var vets []*models.Veterinary
	for rows.Next() {
		v, err := scanVeterinary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan veterinary: %w", err)
		}
		vets = append(vets, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating veterinaries: %w", err)
	}
	return vets, nil
}

// GetByID retrieves an active veterinary by ID
func (r *VeterinaryRepository) GetByID(ctx context.Context, id string) (*models.Veterinary, error) {
	query := `SELECT ` + veterinaryColumns + ` FROM veterinaries WHERE id = $1 AND is_active`

	v, err := scanVeterinary(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("veterinary %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get veterinary: %w", err)
	}
	return v, nil
}

// Upsert inserts a veterinary or replaces the one with the same ID
func (r *VeterinaryRepository) Upsert(ctx context.Context, v *models.Veterinary) error {
	hours, err := json.Marshal(v.OpeningHours)
	if err != nil {
		return fmt.Errorf("failed to encode opening hours: %w", err)
	}
	services, err := json.Marshal(v.Services)
	if err != nil {
		return fmt.Errorf("failed to encode services: %w", err)
	}

	query := `
		INSERT INTO veterinaries (id, name, address, city, region, phone, email, website, opening_hours,
			services, emergency_available, has_parking, accepts_card_payment, latitude, longitude, rating,
			is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, address = EXCLUDED.address, city = EXCLUDED.city,
			region = EXCLUDED.region, phone = EXCLUDED.phone, email = EXCLUDED.email,
			website = EXCLUDED.website, opening_hours = EXCLUDED.opening_hours,
			services = EXCLUDED.services, emergency_available = EXCLUDED.emergency_available,
			has_parking = EXCLUDED.has_parking, accepts_card_payment = EXCLUDED.accepts_card_payment,
			latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude, rating = EXCLUDED.rating,
			is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.Exec(ctx, query,
		v.ID, v.Name, v.Address, v.City, v.Region, v.Phone, v.Email, v.Website, hours,
		services, v.EmergencyAvailable, v.HasParking, v.AcceptsCardPayment, v.Latitude, v.Longitude, v.Rating,
		v.IsActive, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert veterinary: %w", err)
	}
	return nil
}
