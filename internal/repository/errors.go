package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a row does not exist or is not visible to the caller
	ErrNotFound = errors.New("not found")
	// ErrCodeTaken is returned when a QR code collides with a live or retired code
	ErrCodeTaken = errors.New("qr code already taken")
	// ErrIdentityExists is returned when the pet already has a live identity
	ErrIdentityExists = errors.New("pet already has a qr identity")
	// ErrDuplicate is returned for any other unique violation
	ErrDuplicate = errors.New("duplicate value")
)

const uniqueViolation = "23505"

// mapUniqueViolation converts a Postgres unique violation into a sentinel
// chosen by constraint name. Other errors pass through unchanged.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}

	switch pgErr.ConstraintName {
	case "qr_codes_qr_code_key", "retired_qr_codes_pkey":
		return ErrCodeTaken
	case "qr_codes_pet_id_key":
		return ErrIdentityExists
	default:
		return ErrDuplicate
	}
}
