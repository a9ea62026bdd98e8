package handlers

import (
	"net/http"

	"petcare-backend/internal/middleware"
	"petcare-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// MedicalRecordHandler handles medical record HTTP requests
type MedicalRecordHandler struct {
	recordService *services.MedicalRecordService
	validator     *validator.Validate
}

// NewMedicalRecordHandler creates a new medical record handler
func NewMedicalRecordHandler(recordService *services.MedicalRecordService, v *validator.Validate) *MedicalRecordHandler {
	return &MedicalRecordHandler{
		recordService: recordService,
		validator:     v,
	}
}

type medicalRecordRequest struct {
	RecordType  string    `json:"record_type" validate:"required,oneof=consultation surgery emergency vaccination checkup deworming other"`
	Date        *flexTime `json:"date" validate:"required"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	NextDueDate *flexTime `json:"next_due_date"`
}

// CreateRecord handles POST /api/v1/pets/{petID}/medical-records
func (h *MedicalRecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req medicalRecordRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	record, err := h.recordService.Create(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "petID"), services.MedicalRecordInput{
		RecordType:  req.RecordType,
		Date:        req.Date.Time,
		Title:       req.Title,
		Description: req.Description,
		NextDueDate: req.NextDueDate.ptr(),
	})
	if err != nil {
		respondServiceError(w, err, "Failed to create medical record")
		return
	}
	respondJSON(w, http.StatusCreated, record)
}

// ListRecords handles GET /api/v1/pets/{petID}/medical-records
func (h *MedicalRecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.recordService.ListByPet(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "petID"))
	if err != nil {
		respondServiceError(w, err, "Failed to list medical records")
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// GetRecord handles GET /api/v1/medical-records/{recordID}
func (h *MedicalRecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.recordService.Get(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "recordID"))
	if err != nil {
		respondServiceError(w, err, "Failed to get medical record")
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// UpdateRecord handles PUT /api/v1/medical-records/{recordID}
func (h *MedicalRecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req medicalRecordRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	record, err := h.recordService.Update(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "recordID"), services.MedicalRecordInput{
		RecordType:  req.RecordType,
		Date:        req.Date.Time,
		Title:       req.Title,
		Description: req.Description,
		NextDueDate: req.NextDueDate.ptr(),
	})
	if err != nil {
		respondServiceError(w, err, "Failed to update medical record")
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// DeleteRecord handles DELETE /api/v1/medical-records/{recordID}
func (h *MedicalRecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.recordService.Delete(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "recordID")); err != nil {
		respondServiceError(w, err, "Failed to delete medical record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
