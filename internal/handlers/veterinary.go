package handlers

import (
	"net/http"
	"strconv"

	"petcare-backend/internal/models"
	"petcare-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// VeterinaryHandler serves the clinic directory
type VeterinaryHandler struct {
	veterinaryService *services.VeterinaryService
}

// NewVeterinaryHandler creates a new veterinary handler
func NewVeterinaryHandler(veterinaryService *services.VeterinaryService) *VeterinaryHandler {
	return &VeterinaryHandler{veterinaryService: veterinaryService}
}

// ListVeterinaries handles GET /api/v1/veterinaries
func (h *VeterinaryHandler) ListVeterinaries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.VeterinaryFilter{
		City:   q.Get("city"),
		Search: q.Get("search"),
	}
	if raw := q.Get("emergency_available"); raw != "" {
		emergency, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, "emergency_available must be a boolean", http.StatusBadRequest)
			return
		}
		filter.EmergencyOnly = emergency
	}

	vets, err := h.veterinaryService.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err, "Failed to list veterinaries")
		return
	}
	respondJSON(w, http.StatusOK, vets)
}

// GetVeterinary handles GET /api/v1/veterinaries/{veterinaryID}
func (h *VeterinaryHandler) GetVeterinary(w http.ResponseWriter, r *http.Request) {
	vet, err := h.veterinaryService.Get(r.Context(), chi.URLParam(r, "veterinaryID"))
	if err != nil {
		respondServiceError(w, err, "Failed to get veterinary")
		return
	}
	respondJSON(w, http.StatusOK, vet)
}
