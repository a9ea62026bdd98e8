package handlers

import (
	"net/http"

	"petcare-backend/internal/middleware"
	"petcare-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// VaccineHandler handles vaccine-related HTTP requests
type VaccineHandler struct {
	vaccineService *services.VaccineService
	validator      *validator.Validate
}

// NewVaccineHandler creates a new vaccine handler
func NewVaccineHandler(vaccineService *services.VaccineService, v *validator.Validate) *VaccineHandler {
	return &VaccineHandler{
		vaccineService: vaccineService,
		validator:      v,
	}
}

type vaccineRequest struct {
	VaccineName        string    `json:"vaccine_name" validate:"required,max=100"`
	VaccineType        string    `json:"vaccine_type" validate:"max=50"`
	Manufacturer       string    `json:"manufacturer" validate:"max=100"`
	BatchNumber        string    `json:"batch_number" validate:"max=50"`
	AdministrationDate *flexTime `json:"administration_date" validate:"required"`
	NextDoseDate       *flexTime `json:"next_dose_date"`
	Notes              string    `json:"notes" validate:"max=2000"`
}

func (req *vaccineRequest) input() services.VaccineInput {
	return services.VaccineInput{
		VaccineName:        req.VaccineName,
		VaccineType:        req.VaccineType,
		Manufacturer:       req.Manufacturer,
		BatchNumber:        req.BatchNumber,
		AdministrationDate: req.AdministrationDate.Time,
		NextDoseDate:       req.NextDoseDate.ptr(),
		Notes:              req.Notes,
	}
}

// CreateVaccine handles POST /api/v1/pets/{petID}/vaccines
func (h *VaccineHandler) CreateVaccine(w http.ResponseWriter, r *http.Request) {
	var req vaccineRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	vaccine, err := h.vaccineService.Create(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "petID"), req.input())
	if err != nil {
		respondServiceError(w, err, "Failed to create vaccine")
		return
	}
	respondJSON(w, http.StatusCreated, vaccine)
}

// ListVaccines handles GET /api/v1/pets/{petID}/vaccines
func (h *VaccineHandler) ListVaccines(w http.ResponseWriter, r *http.Request) {
	vaccines, err := h.vaccineService.ListByPet(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "petID"))
	if err != nil {
		respondServiceError(w, err, "Failed to list vaccines")
		return
	}
	respondJSON(w, http.StatusOK, vaccines)
}

// UpcomingVaccines handles GET /api/v1/vaccines/upcoming
func (h *VaccineHandler) UpcomingVaccines(w http.ResponseWriter, r *http.Request) {
	vaccines, err := h.vaccineService.Upcoming(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "Failed to list upcoming vaccines")
		return
	}
	respondJSON(w, http.StatusOK, vaccines)
}

// UpdateVaccine handles PUT /api/v1/vaccines/{vaccineID}
func (h *VaccineHandler) UpdateVaccine(w http.ResponseWriter, r *http.Request) {
	var req vaccineRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	vaccine, err := h.vaccineService.Update(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "vaccineID"), req.input())
	if err != nil {
		respondServiceError(w, err, "Failed to update vaccine")
		return
	}
	respondJSON(w, http.StatusOK, vaccine)
}

// DeleteVaccine handles DELETE /api/v1/vaccines/{vaccineID}
func (h *VaccineHandler) DeleteVaccine(w http.ResponseWriter, r *http.Request) {
	if err := h.vaccineService.Delete(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "vaccineID")); err != nil {
		respondServiceError(w, err, "Failed to delete vaccine")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
