package handlers

import (
	"fmt"
	"net/http"
	"time"

	"petcare-backend/internal/middleware"
	"petcare-backend/internal/models"
	"petcare-backend/internal/qr"
	"petcare-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// QRHandler serves pet identities and public scans
type QRHandler struct {
	registry   *services.Registry
	petService *services.PetService
}

// NewQRHandler creates a new QR handler
func NewQRHandler(registry *services.Registry, petService *services.PetService) *QRHandler {
	return &QRHandler{
		registry:   registry,
		petService: petService,
	}
}

type identityResponse struct {
	*models.PetIdentity
	URL string `json:"url"`
}

// viewForRequester trims a profile for anyone but the owner to the owner's
// first name and phone, without the pet's special needs
func viewForRequester(profile *models.PetProfile, requesterID string) *models.PetProfile {
	if requesterID != "" && requesterID == profile.OwnerID {
		return profile
	}

	redacted := *profile
	redacted.OwnerID = ""
	redacted.SpecialNeeds = ""
	redacted.Owner = models.OwnerContact{
		FirstName: profile.Owner.FirstName,
		Phone:     profile.Owner.Phone,
	}
	return &redacted
}

// ownedPetID checks the caller owns the pet in the URL and returns its ID
func (h *QRHandler) ownedPetID(w http.ResponseWriter, r *http.Request) (string, bool) {
	petID := chi.URLParam(r, "petID")
	if _, err := h.petService.Get(r.Context(), petID, middleware.GetUserID(r.Context())); err != nil {
		respondServiceError(w, err, "Failed to get pet")
		return "", false
	}
	return petID, true
}

// GetQR handles GET /api/v1/pets/{petID}/qr
func (h *QRHandler) GetQR(w http.ResponseWriter, r *http.Request) {
	petID, ok := h.ownedPetID(w, r)
	if !ok {
		return
	}

	identity, err := h.registry.Ensure(r.Context(), petID)
	if err != nil {
		respondServiceError(w, err, "Failed to get QR code")
		return
	}
	respondJSON(w, http.StatusOK, identityResponse{PetIdentity: identity, URL: h.registry.PublicURL(identity.Code)})
}

// RegenerateQR handles POST /api/v1/pets/{petID}/qr/regenerate
func (h *QRHandler) RegenerateQR(w http.ResponseWriter, r *http.Request) {
	petID, ok := h.ownedPetID(w, r)
	if !ok {
		return
	}

	identity, err := h.registry.Regenerate(r.Context(), petID)
	if err != nil {
		respondServiceError(w, err, "Failed to regenerate QR code")
		return
	}
	respondJSON(w, http.StatusOK, identityResponse{PetIdentity: identity, URL: h.registry.PublicURL(identity.Code)})
}

// ScanStats handles GET /api/v1/pets/{petID}/qr/scans
func (h *QRHandler) ScanStats(w http.ResponseWriter, r *http.Request) {
	petID, ok := h.ownedPetID(w, r)
	if !ok {
		return
	}

	identity, err := h.registry.Stats(r.Context(), petID)
	if err != nil {
		respondServiceError(w, err, "Failed to get scan stats")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pet_id":          petID,
		"code":            identity.Code,
		"total_scans":     identity.TotalScans,
		"last_scanned_at": identity.LastScannedAt,
	})
}

// Download handles GET /api/v1/pets/{petID}/qr/download?format=buffer|base64|svg
func (h *QRHandler) Download(w http.ResponseWriter, r *http.Request) {
	petID, ok := h.ownedPetID(w, r)
	if !ok {
		return
	}

	format, err := qr.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondServiceError(w, err, "Failed to download QR code")
		return
	}

	data, identity, err := h.registry.Download(r.Context(), petID, format)
	if err != nil {
		respondServiceError(w, err, "Failed to render QR code")
		return
	}

	if format == qr.FormatBase64 {
		respondJSON(w, http.StatusOK, map[string]string{
			"code":     identity.Code,
			"format":   string(format),
			"data_url": string(data),
		})
		return
	}

	ext := "png"
	if format == qr.FormatSVG {
		ext = "svg"
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="qr-%s.%s"`, identity.Code, ext))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type scanResponse struct {
	Pet           *models.PetProfile `json:"pet"`
	IsOwner       bool               `json:"is_owner"`
	TotalScans    int                `json:"total_scans"`
	LastScannedAt *time.Time         `json:"last_scanned_at"`
}

// Scan handles GET /api/v1/qr/{code}. Anyone may scan; owners see full details.
func (h *QRHandler) Scan(w http.ResponseWriter, r *http.Request) {
	result, err := h.registry.LookupByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondServiceError(w, err, "Failed to look up QR code")
		return
	}

	requesterID := middleware.GetUserID(r.Context())
	respondJSON(w, http.StatusOK, scanResponse{
		Pet:           viewForRequester(result.Profile, requesterID),
		IsOwner:       requesterID != "" && requesterID == result.Profile.OwnerID,
		TotalScans:    result.Stats.TotalScans,
		LastScannedAt: result.Stats.LastScannedAt,
	})
}
