package repository

import (
	"context"
	"errors"
	"fmt"

	"petcare-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PetRepository handles database operations for pets
type PetRepository struct {
	db *pgxpool.Pool
}

// NewPetRepository creates a new pet repository
func NewPetRepository(db *pgxpool.Pool) *PetRepository {
	return &PetRepository{db: db}
}

const petColumns = `id, owner_id, name, species, breed, gender, color, date_of_birth,
	special_needs, profile_image_url, status, lost_date, COALESCE(lost_location, ''), created_at, updated_at`

func scanPet(row pgx.Row, pet *models.Pet) error {
	return row.Scan(
		&pet.ID, &pet.OwnerID, &pet.Name, &pet.Species, &pet.Breed, &pet.Gender, &pet.Color,
		&pet.DateOfBirth, &pet.SpecialNeeds, &pet.ProfileImageURL, &pet.Status,
		&pet.LostDate, &pet.LostLocation, &pet.CreatedAt, &pet.UpdatedAt,
	)
}

// Create creates a new pet
func (r *PetRepository) Create(ctx context.Context, pet *models.Pet) error {
	query := `
		INSERT INTO pets (id, owner_id, name, species, breed, gender, color, date_of_birth,
			special_needs, profile_image_url, status, lost_date, lost_location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), $14, $15)
	`
	_, err := r.db.Exec(ctx, query,
		pet.ID, pet.OwnerID, pet.Name, pet.Species, pet.Breed, pet.Gender, pet.Color,
		pet.DateOfBirth, pet.SpecialNeeds, pet.ProfileImageURL, pet.Status,
		pet.LostDate, pet.LostLocation, pet.CreatedAt, pet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create pet: %w", err)
	}
	return nil
}

// GetByID retrieves a pet by ID
func (r *PetRepository) GetByID(ctx context.Context, id string) (*models.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE id = $1`

	var pet models.Pet
	if err := scanPet(r.db.QueryRow(ctx, query, id), &pet); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("pet %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	return &pet, nil
}

// ListByOwner returns the pets of an owner, newest first
func (r *PetRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	defer rows.Close()

	var pets []*models.Pet
	for rows.Next() {
		var pet models.Pet
		if err := scanPet(rows, &pet); err != nil {
			return nil, fmt.Errorf("failed to scan pet: %w", err)
		}
		pets = append(pets, &pet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pets: %w", err)
	}
	return pets, nil
}

// GetProfile returns a pet joined with its owner's contact fields
func (r *PetRepository) GetProfile(ctx context.Context, id string) (*models.PetProfile, error) {
	query := `
		SELECT p.id, p.owner_id, p.name, p.species, p.breed, p.gender, p.color, p.date_of_birth,
			p.special_needs, p.profile_image_url, p.status, p.lost_date, COALESCE(p.lost_location, ''),
			p.created_at, p.updated_at,
			u.id, u.first_name, u.last_name, u.email, u.phone
		FROM pets p
		JOIN users u ON u.id = p.owner_id
		WHERE p.id = $1
	`
	var profile models.PetProfile
	pet := &profile.Pet
	owner := &profile.Owner
	err := r.db.QueryRow(ctx, query, id).Scan(
		&pet.ID, &pet.OwnerID, &pet.Name, &pet.Species, &pet.Breed, &pet.Gender, &pet.Color,
		&pet.DateOfBirth, &pet.SpecialNeeds, &pet.ProfileImageURL, &pet.Status,
		&pet.LostDate, &pet.LostLocation, &pet.CreatedAt, &pet.UpdatedAt,
		&owner.ID, &owner.FirstName, &owner.LastName, &owner.Email, &owner.Phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("pet %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pet profile: %w", err)
	}
	return &profile, nil
}

// Update writes the editable fields of a pet, including its lost report
func (r *PetRepository) Update(ctx context.Context, pet *models.Pet) error {
	query := `
		UPDATE pets
		SET name = $2, species = $3, breed = $4, gender = $5, color = $6, date_of_birth = $7,
			special_needs = $8, status = $9, lost_date = $10, lost_location = NULLIF($11, ''),
			updated_at = $12
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		pet.ID, pet.Name, pet.Species, pet.Breed, pet.Gender, pet.Color, pet.DateOfBirth,
		pet.SpecialNeeds, pet.Status, pet.LostDate, pet.LostLocation, pet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update pet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pet %s: %w", pet.ID, ErrNotFound)
	}
	return nil
}

// UpdateProfileImage sets the pet's profile image URL
func (r *PetRepository) UpdateProfileImage(ctx context.Context, id string, url *string) error {
	query := `UPDATE pets SET profile_image_url = $1, updated_at = now() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, url, id)
	if err != nil {
		return fmt.Errorf("failed to update profile image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pet %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete deletes a pet; identity, vaccines, records and reminders cascade.
// The pet's live code is retired first so it is never issued again.
func (r *PetRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO retired_qr_codes (qr_code, pet_id, retired_at)
		SELECT qr_code, pet_id, now() FROM qr_codes WHERE pet_id = $1
		ON CONFLICT (qr_code) DO NOTHING
	`, id)
	if err != nil {
		return fmt.Errorf("failed to retire code: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pet %s: %w", id, ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
