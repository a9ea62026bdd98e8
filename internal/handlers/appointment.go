package handlers

import (
	"net/http"

	"petcare-backend/internal/middleware"
	"petcare-backend/internal/models"
	"petcare-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// AppointmentHandler handles appointment HTTP requests
type AppointmentHandler struct {
	appointmentService *services.AppointmentService
	validator          *validator.Validate
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(appointmentService *services.AppointmentService, v *validator.Validate) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
		validator:          v,
	}
}

type appointmentRequest struct {
	PetID            string    `json:"pet_id" validate:"required"`
	AppointmentType  string    `json:"appointment_type" validate:"required,oneof=consultation vaccination surgery checkup grooming emergency other"`
	ScheduledAt      *flexTime `json:"appointment_datetime" validate:"required"`
	Notes            string    `json:"notes" validate:"max=2000"`
	ClinicName       string    `json:"clinic_name" validate:"max=200"`
	VeterinarianName string    `json:"veterinarian_name" validate:"max=200"`
}

// CreateAppointment handles POST /api/v1/appointments
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentService.Create(r.Context(), middleware.GetUserID(r.Context()), services.AppointmentInput{
		PetID:            req.PetID,
		AppointmentType:  req.AppointmentType,
		ScheduledAt:      req.ScheduledAt.Time,
		Notes:            req.Notes,
		ClinicName:       req.ClinicName,
		VeterinarianName: req.VeterinarianName,
	})
	if err != nil {
		respondServiceError(w, err, "Failed to create appointment")
		return
	}
	respondJSON(w, http.StatusCreated, appointment)
}

// ListAppointments handles GET /api/v1/appointments?filter=all|upcoming|past&status=
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	appointments, err := h.appointmentService.List(r.Context(), middleware.GetUserID(r.Context()), models.AppointmentFilter{
		Window: q.Get("filter"),
		Status: q.Get("status"),
	})
	if err != nil {
		respondServiceError(w, err, "Failed to list appointments")
		return
	}
	respondJSON(w, http.StatusOK, appointments)
}

// UpcomingCount handles GET /api/v1/appointments/upcoming/count
func (h *AppointmentHandler) UpcomingCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.appointmentService.CountUpcoming(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "Failed to count appointments")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}

// CancelAppointment handles POST /api/v1/appointments/{appointmentID}/cancel
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, err := h.appointmentService.Cancel(r.Context(), chi.URLParam(r, "appointmentID"), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "Failed to cancel appointment")
		return
	}
	respondJSON(w, http.StatusOK, appointment)
}

// DeleteAppointment handles DELETE /api/v1/appointments/{appointmentID}
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.appointmentService.Delete(r.Context(), chi.URLParam(r, "appointmentID"), middleware.GetUserID(r.Context())); err != nil {
		respondServiceError(w, err, "Failed to delete appointment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
