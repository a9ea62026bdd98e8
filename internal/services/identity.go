package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"petcare-backend/internal/models"
	"petcare-backend/internal/qr"
	"petcare-backend/internal/repository"
	"petcare-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RegistryConfig controls where identity images live and what they encode
type RegistryConfig struct {
	BaseURL string
	Folder  string
	Render  qr.Options
}

// ScanResult is what a successful lookup by code returns. It carries the
// owner's full contact; trimming it for strangers is up to the caller.
type ScanResult struct {
	Profile *models.PetProfile
	Stats   models.ScanStats
	Code    string
}

// ScanListener is told about every recorded scan
type ScanListener interface {
	PetScanned(ctx context.Context, result *ScanResult)
}

// Registry keeps exactly one live QR identity per pet
type Registry struct {
	identities IdentityStore
	pets       PetLookup
	objects    storage.ObjectStore
	codes      qr.CodeGenerator
	renderer   *qr.Renderer
	listener   ScanListener
	cfg        RegistryConfig
	now        func() time.Time
}

// NewRegistry creates a registry drawing codes from crypto/rand
func NewRegistry(identities IdentityStore, pets PetLookup, objects storage.ObjectStore, cfg RegistryConfig) *Registry {
	return &Registry{
		identities: identities,
		pets:       pets,
		objects:    objects,
		codes:      qr.NewRandomGenerator(),
		renderer:   qr.NewRenderer(),
		cfg:        cfg,
		now:        time.Now,
	}
}

// SetScanListener registers the receiver of scan events
func (r *Registry) SetScanListener(l ScanListener) {
	r.listener = l
}

// PublicURL returns the URL encoded into the image for code
func (r *Registry) PublicURL(code string) string {
	return r.cfg.BaseURL + code
}

func (r *Registry) objectKey(petID, code string) string {
	return fmt.Sprintf("%s/qr-codes/%s/qr-%s.png", r.cfg.Folder, petID, code)
}

// Ensure returns the pet's live identity, creating one if it has none.
// Concurrent callers converge on the same identity.
func (r *Registry) Ensure(ctx context.Context, petID string) (*models.PetIdentity, error) {
	existing, err := r.identities.GetByPetID(ctx, petID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if _, err := r.pets.GetByID(ctx, petID); err != nil {
		return nil, translate(err)
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		code, err := r.codes.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}

		taken, err := r.identities.CodeExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if taken {
			log.Debug().Str("pet_id", petID).Int("attempt", attempt).Msg("QR code collision, retrying")
			continue
		}

		image, err := r.renderer.PNG(r.PublicURL(code), r.cfg.Render)
		if err != nil {
			return nil, err
		}

		key := r.objectKey(petID, code)
		imageURL, err := r.objects.Put(ctx, key, image, "image/png")
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExternal, err)
		}

		now := r.now()
		identity := &models.PetIdentity{
			ID:        uuid.New().String(),
			PetID:     petID,
			Code:      code,
			ImageURL:  &imageURL,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err = r.identities.Create(ctx, identity)
		switch {
		case err == nil:
			log.Info().
				Str("pet_id", petID).
				Str("code", code).
				Int("attempts", attempt).
				Msg("QR identity created")
			return identity, nil
		case errors.Is(err, repository.ErrCodeTaken):
			r.discardImage(ctx, key)
			continue
		case errors.Is(err, repository.ErrIdentityExists):
			// another request won the race for this pet
			r.discardImage(ctx, key)
			existing, err := r.identities.GetByPetID(ctx, petID)
			return existing, translate(err)
		default:
			r.discardImage(ctx, key)
			return nil, translate(err)
		}
	}
}

// Regenerate retires the pet's code and issues a new one. Old image
// removal is best effort.
func (r *Registry) Regenerate(ctx context.Context, petID string) (*models.PetIdentity, error) {
	old, err := r.identities.GetByPetID(ctx, petID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return r.Ensure(ctx, petID)
		}
		return nil, err
	}

	r.DiscardIdentityImage(ctx, old)

	if err := r.identities.Retire(ctx, old, r.now()); err != nil {
		r.restoreIdentityImage(ctx, old)
		return nil, fmt.Errorf("failed to retire identity: %w", err)
	}

	identity, err := r.Ensure(ctx, petID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("pet_id", petID).
		Str("old_code", old.Code).
		Str("new_code", identity.Code).
		Msg("QR identity regenerated")

	return identity, nil
}

// LookupByCode resolves a scanned code and records the scan
func (r *Registry) LookupByCode(ctx context.Context, code string) (*ScanResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !qr.ValidCode(code) {
		return nil, fmt.Errorf("%w: code %q", ErrNotFound, code)
	}

	petID, stats, err := r.identities.RecordScan(ctx, code, r.now())
	if err != nil {
		return nil, translate(err)
	}

	profile, err := r.pets.GetProfile(ctx, petID)
	if err != nil {
		return nil, translate(err)
	}

	result := &ScanResult{Profile: profile, Stats: *stats, Code: code}
	r.notify(ctx, result)
	return result, nil
}

// RecordPetView records a scan against the pet's live code, if it has one
func (r *Registry) RecordPetView(ctx context.Context, profile *models.PetProfile) {
	identity, err := r.identities.GetByPetID(ctx, profile.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn().Err(err).Str("pet_id", profile.ID).Msg("Failed to load identity for scan")
		}
		return
	}

	_, stats, err := r.identities.RecordScan(ctx, identity.Code, r.now())
	if err != nil {
		log.Warn().Err(err).Str("pet_id", profile.ID).Msg("Failed to record scan")
		return
	}
	r.notify(ctx, &ScanResult{Profile: profile, Stats: *stats, Code: identity.Code})
}

// Stats returns the scan counters of the pet's live identity
func (r *Registry) Stats(ctx context.Context, petID string) (*models.PetIdentity, error) {
	identity, err := r.identities.GetByPetID(ctx, petID)
	if err != nil {
		return nil, translate(err)
	}
	return identity, nil
}

// Download renders the pet's live code in the requested format
func (r *Registry) Download(ctx context.Context, petID string, format qr.Format) ([]byte, *models.PetIdentity, error) {
	identity, err := r.Ensure(ctx, petID)
	if err != nil {
		return nil, nil, err
	}

	data, err := r.renderer.Render(r.PublicURL(identity.Code), format, r.cfg.Render)
	if err != nil {
		return nil, nil, err
	}
	return data, identity, nil
}

// DiscardIdentityImage deletes the stored image of identity, logging failures
func (r *Registry) DiscardIdentityImage(ctx context.Context, identity *models.PetIdentity) {
	if identity == nil || identity.ImageURL == nil {
		return
	}
	key, ok := r.objects.KeyFromURL(*identity.ImageURL)
	if !ok {
		log.Warn().Str("url", *identity.ImageURL).Msg("Cannot derive object key from QR image URL")
		return
	}
	r.discardImage(ctx, key)
}

// restoreIdentityImage re-renders the image of an identity that stays live
// after its image was already deleted
func (r *Registry) restoreIdentityImage(ctx context.Context, identity *models.PetIdentity) {
	key := r.objectKey(identity.PetID, identity.Code)
	if identity.ImageURL != nil {
		if k, ok := r.objects.KeyFromURL(*identity.ImageURL); ok {
			key = k
		}
	}

	image, err := r.renderer.PNG(r.PublicURL(identity.Code), r.cfg.Render)
	if err == nil {
		_, err = r.objects.Put(ctx, key, image, "image/png")
	}
	if err != nil {
		log.Error().
			Err(err).
			Str("pet_id", identity.PetID).
			Str("key", key).
			Msg("Failed to restore QR image, live identity points at a missing object")
		return
	}
	log.Warn().Str("pet_id", identity.PetID).Str("code", identity.Code).Msg("QR image restored after failed retire")
}

func (r *Registry) discardImage(ctx context.Context, key string) {
	if err := r.objects.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to delete QR image")
	}
}

func (r *Registry) notify(ctx context.Context, result *ScanResult) {
	if r.listener == nil {
		return
	}
	go r.listener.PetScanned(context.WithoutCancel(ctx), result)
}
