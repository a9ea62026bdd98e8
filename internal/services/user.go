package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"petcare-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const jwtExpDays = 365

// UserService handles user-related business logic
type UserService struct {
	users     UserStore
	jwtSecret string
	now       func() time.Time
}

// NewUserService creates a new user service
func NewUserService(users UserStore, jwtSecret string) *UserService {
	return &UserService{
		users:     users,
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}

// Registration holds the fields supplied when signing up
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// AuthenticatedUser is a user together with a freshly issued token
type AuthenticatedUser struct {
	*models.User
	Token string `json:"token"`
}

// Register creates a user with default settings and issues a token
func (s *UserService) Register(ctx context.Context, in Registration) (*AuthenticatedUser, error) {
	user := &models.User{
		ID:                   uuid.New().String(),
		FirstName:            strings.TrimSpace(in.FirstName),
		LastName:             strings.TrimSpace(in.LastName),
		Email:                strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:                strings.TrimSpace(in.Phone),
		NotificationSettings: models.DefaultNotificationSettings(),
		Preferences:          models.DefaultPreferences(),
		CreatedAt:            s.now(),
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, translate(err)
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	return &AuthenticatedUser{User: user, Token: token}, nil
}

// Get returns a user with hydrated settings
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

// UpdateNotificationSettings replaces the user's notification settings
func (s *UserService) UpdateNotificationSettings(ctx context.Context, userID string, settings models.NotificationSettings) (*models.User, error) {
	if err := s.users.UpdateNotificationSettings(ctx, userID, settings); err != nil {
		return nil, translate(err)
	}
	return s.Get(ctx, userID)
}

// UpdatePushToken stores the APNs device token; an empty token clears it
func (s *UserService) UpdatePushToken(ctx context.Context, userID, token string) error {
	var pushToken *string
	if token = strings.TrimSpace(token); token != "" {
		pushToken = &token
	}
	return translate(s.users.UpdatePushToken(ctx, userID, pushToken))
}
