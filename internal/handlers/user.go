package handlers

import (
	"net/http"

	"petcare-backend/internal/middleware"
	"petcare-backend/internal/models"
	"petcare-backend/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
	validator   *validator.Validate
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, v *validator.Validate) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   v,
	}
}

type createUserRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), services.Registration{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		respondServiceError(w, err, "Failed to create user")
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User created")
	respondJSON(w, http.StatusCreated, user)
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "Failed to get user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateSettings handles PUT /api/v1/users/me/settings
func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	settings := models.DefaultNotificationSettings()
	if !decodeBody(w, r, h.validator, &settings) {
		return
	}

	user, err := h.userService.UpdateNotificationSettings(r.Context(), middleware.GetUserID(r.Context()), settings)
	if err != nil {
		respondServiceError(w, err, "Failed to update settings")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

type pushTokenRequest struct {
	PushToken string `json:"push_token" validate:"max=200"`
}

// UpdatePushToken handles PUT /api/v1/users/me/push-token
func (h *UserHandler) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	var req pushTokenRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	if err := h.userService.UpdatePushToken(r.Context(), middleware.GetUserID(r.Context()), req.PushToken); err != nil {
		respondServiceError(w, err, "Failed to update push token")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
