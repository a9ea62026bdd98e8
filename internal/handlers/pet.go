package handlers

import (
	"net/http"

	"petcare-backend/internal/middleware"
	"petcare-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// PetHandler handles pet-related HTTP requests
type PetHandler struct {
	petService *services.PetService
	validator  *validator.Validate
}

// NewPetHandler creates a new pet handler
func NewPetHandler(petService *services.PetService, v *validator.Validate) *PetHandler {
	return &PetHandler{
		petService: petService,
		validator:  v,
	}
}

type createPetRequest struct {
	Name         string    `json:"name" validate:"required,max=100"`
	Species      string    `json:"species" validate:"required,oneof=dog cat bird rabbit other"`
	Breed        string    `json:"breed" validate:"max=100"`
	Gender       string    `json:"gender" validate:"omitempty,oneof=male female unknown"`
	Color        string    `json:"color" validate:"max=50"`
	DateOfBirth  *flexTime `json:"date_of_birth"`
	SpecialNeeds string    `json:"special_needs" validate:"max=1000"`
}

// CreatePet handles POST /api/v1/pets
func (h *PetHandler) CreatePet(w http.ResponseWriter, r *http.Request) {
	var req createPetRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	pet, err := h.petService.Create(r.Context(), middleware.GetUserID(r.Context()), services.NewPet{
		Name:         req.Name,
		Species:      req.Species,
		Breed:        req.Breed,
		Gender:       req.Gender,
		Color:        req.Color,
		DateOfBirth:  req.DateOfBirth.ptr(),
		SpecialNeeds: req.SpecialNeeds,
	})
	if err != nil {
		respondServiceError(w, err, "Failed to create pet")
		return
	}
	respondJSON(w, http.StatusCreated, pet)
}

// ListPets handles GET /api/v1/pets
func (h *PetHandler) ListPets(w http.ResponseWriter, r *http.Request) {
	pets, err := h.petService.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "Failed to list pets")
		return
	}
	respondJSON(w, http.StatusOK, pets)
}

// GetPet handles GET /api/v1/pets/{petID}
func (h *PetHandler) GetPet(w http.ResponseWriter, r *http.Request) {
	pet, err := h.petService.Get(r.Context(), chi.URLParam(r, "petID"), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "Failed to get pet")
		return
	}
	respondJSON(w, http.StatusOK, pet)
}

// DeletePet handles DELETE /api/v1/pets/{petID}
func (h *PetHandler) DeletePet(w http.ResponseWriter, r *http.Request) {
	if err := h.petService.Delete(r.Context(), chi.URLParam(r, "petID"), middleware.GetUserID(r.Context())); err != nil {
		respondServiceError(w, err, "Failed to delete pet")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updatePetRequest struct {
	Name         *string   `json:"name" validate:"omitempty,max=100"`
	Species      *string   `json:"species" validate:"omitempty,oneof=dog cat bird rabbit other"`
	Breed        *string   `json:"breed" validate:"omitempty,max=100"`
	Gender       *string   `json:"gender" validate:"omitempty,oneof=male female unknown"`
	Color        *string   `json:"color" validate:"omitempty,max=50"`
	DateOfBirth  *flexTime `json:"date_of_birth"`
	SpecialNeeds *string   `json:"special_needs" validate:"omitempty,max=1000"`
	Status       *string   `json:"status" validate:"omitempty,oneof=active lost found deceased adopted"`
}

// UpdatePet handles PUT /api/v1/pets/{petID}
func (h *PetHandler) UpdatePet(w http.ResponseWriter, r *http.Request) {
	var req updatePetRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	pet, err := h.petService.Update(r.Context(), chi.URLParam(r, "petID"), middleware.GetUserID(r.Context()), services.PetUpdate{
		Name:         req.Name,
		Species:      req.Species,
		Breed:        req.Breed,
		Gender:       req.Gender,
		Color:        req.Color,
		DateOfBirth:  req.DateOfBirth.ptr(),
		SpecialNeeds: req.SpecialNeeds,
		Status:       req.Status,
	})
	if err != nil {
		respondServiceError(w, err, "Failed to update pet")
		return
	}
	respondJSON(w, http.StatusOK, pet)
}

type reportLostRequest struct {
	LostDate     *flexTime `json:"lost_date" validate:"required"`
	LostLocation string    `json:"lost_location" validate:"required,min=10,max=500"`
}

// ReportLost handles POST /api/v1/pets/{petID}/lost
func (h *PetHandler) ReportLost(w http.ResponseWriter, r *http.Request) {
	var req reportLostRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	pet, err := h.petService.ReportLost(r.Context(), chi.URLParam(r, "petID"), middleware.GetUserID(r.Context()), services.LostReport{
		Date:     req.LostDate.Time,
		Location: req.LostLocation,
	})
	if err != nil {
		respondServiceError(w, err, "Failed to report pet as lost")
		return
	}
	respondJSON(w, http.StatusOK, pet)
}

// MarkFound handles POST /api/v1/pets/{petID}/found
func (h *PetHandler) MarkFound(w http.ResponseWriter, r *http.Request) {
	pet, err := h.petService.MarkFound(r.Context(), chi.URLParam(r, "petID"), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "Failed to mark pet as found")
		return
	}
	respondJSON(w, http.StatusOK, pet)
}

type uploadURLRequest struct {
	ContentType string `json:"content_type" validate:"omitempty,oneof=image/jpeg image/png image/webp"`
}

// ImageUploadURL handles POST /api/v1/pets/{petID}/image/upload-url
func (h *PetHandler) ImageUploadURL(w http.ResponseWriter, r *http.Request) {
	var req uploadURLRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	upload, err := h.petService.ProfileImageUploadURL(r.Context(),
		chi.URLParam(r, "petID"), middleware.GetUserID(r.Context()), req.ContentType)
	if err != nil {
		respondServiceError(w, err, "Failed to generate upload URL")
		return
	}
	respondJSON(w, http.StatusOK, upload)
}

// PublicPet handles GET /api/v1/public/pets/{petID}
func (h *PetHandler) PublicPet(w http.ResponseWriter, r *http.Request) {
	profile, err := h.petService.PublicProfile(r.Context(), chi.URLParam(r, "petID"))
	if err != nil {
		respondServiceError(w, err, "Failed to get pet")
		return
	}
	respondJSON(w, http.StatusOK, viewForRequester(profile, middleware.GetUserID(r.Context())))
}
