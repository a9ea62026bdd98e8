package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"petcare-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	settings, err := json.Marshal(user.NotificationSettings)
	if err != nil {
		return fmt.Errorf("failed to encode notification settings: %w", err)
	}
	prefs, err := json.Marshal(user.Preferences)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	query := `
		INSERT INTO users (id, first_name, last_name, email, phone, push_token,
			notification_settings, preferences, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.Exec(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.Phone, user.PushToken,
		settings, prefs, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", mapUniqueViolation(err))
	}
	return nil
}

// GetByID retrieves a user by ID with settings hydrated from defaults
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, push_token,
			notification_settings, preferences, created_at
		FROM users
		WHERE id = $1
	`
	var (
		user     models.User
		settings []byte
		prefs    []byte
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Phone, &user.PushToken,
		&settings, &prefs, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// a corrupt column falls back to defaults rather than failing the read
	if user.NotificationSettings, err = models.HydrateNotificationSettings(settings); err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Using default notification settings")
	}
	if user.Preferences, err = models.HydratePreferences(prefs); err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Using default preferences")
	}

	return &user, nil
}

// UpdateNotificationSettings replaces the stored notification settings
func (r *UserRepository) UpdateNotificationSettings(ctx context.Context, userID string, settings models.NotificationSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode notification settings: %w", err)
	}

	query := `UPDATE users SET notification_settings = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, raw, userID)
	if err != nil {
		return fmt.Errorf("failed to update notification settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return nil
}

// UpdatePushToken updates the push token for a user
func (r *UserRepository) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	query := `UPDATE users SET push_token = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, pushToken, userID)
	if err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return nil
}
