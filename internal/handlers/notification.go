package handlers

import (
	"net/http"
	"strconv"

	"petcare-backend/internal/middleware"
	"petcare-backend/internal/models"
	"petcare-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
	validator           *validator.Validate
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService, v *validator.Validate) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		validator:           v,
	}
}

// GetNotifications handles GET /api/v1/notifications?limit=&offset=&unread_only=
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 {
		limit = 0
	}
	offset, err := strconv.Atoi(q.Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	notifications, err := h.notificationService.List(r.Context(), middleware.GetUserID(r.Context()), models.NotificationFilter{
		UnreadOnly: q.Get("unread_only") == "true",
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		respondServiceError(w, err, "Failed to list notifications")
		return
	}
	respondJSON(w, http.StatusOK, notifications)
}

// UnreadCount handles GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notificationService.UnreadCount(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "Failed to count notifications")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}

// MarkRead handles PUT /api/v1/notifications/{notificationID}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationService.MarkRead(r.Context(), chi.URLParam(r, "notificationID"), middleware.GetUserID(r.Context())); err != nil {
		respondServiceError(w, err, "Failed to mark notification read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles PUT /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	changed, err := h.notificationService.MarkAllRead(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "Failed to mark notifications read")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"updated": changed})
}

// DeleteNotification handles DELETE /api/v1/notifications/{notificationID}
func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationService.Delete(r.Context(), chi.URLParam(r, "notificationID"), middleware.GetUserID(r.Context())); err != nil {
		respondServiceError(w, err, "Failed to delete notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createNotificationRequest struct {
	PetID         *string   `json:"pet_id"`
	Type          string    `json:"type" validate:"omitempty,oneof=general medical_record vaccine_reminder deworming_reminder appointment_reminder"`
	Title         string    `json:"title" validate:"required,max=200"`
	Message       string    `json:"message" validate:"required,max=2000"`
	ScheduledDate *flexTime `json:"scheduled_date"`
	Priority      string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

// CreateNotification handles POST /api/v1/notifications
func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	n, err := h.notificationService.CreatePersonal(r.Context(), middleware.GetUserID(r.Context()), services.PersonalReminder{
		PetID:         req.PetID,
		Type:          models.NotificationType(req.Type),
		Title:         req.Title,
		Message:       req.Message,
		ScheduledDate: req.ScheduledDate.ptr(),
		Priority:      models.Priority(req.Priority),
	})
	if err != nil {
		respondServiceError(w, err, "Failed to create notification")
		return
	}
	respondJSON(w, http.StatusCreated, n)
}
