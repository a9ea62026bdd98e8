package services

import (
	"context"
	"errors"
	"testing"

	"petcare-backend/internal/models"
)

const testDirectory = `
veterinaries:
  - name: Clinica Veterinaria Providencia
    address: Av. Providencia 1234
    city: Santiago
    region: Metropolitana
    phone: "+56222223333"
    opening_hours:
      monday: "09:00-19:00"
      saturday: "10:00-14:00"
    services: [consultation, surgery, vaccination]
    emergency_available: true
    rating: 4.6
  - name: Hospital Veterinario Vina
    city: Vina del Mar
    services: [consultation]
    rating: 4.1
  - name: Centro Veterinario Nunoa
    city: Santiago
    rating: 3.9
`

func TestParseVeterinaryDirectory(t *testing.T) {
	vets, err := ParseVeterinaryDirectory([]byte(testDirectory))
	if err != nil {
		t.Fatalf("ParseVeterinaryDirectory: %v", err)
	}
	if len(vets) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(vets))
	}
	first := vets[0]
	if first.OpeningHours["saturday"] != "10:00-14:00" || len(first.Services) != 3 || !first.EmergencyAvailable {
		t.Fatalf("unexpected entry %+v", first)
	}

	if _, err := ParseVeterinaryDirectory([]byte("veterinaries:\n  - city: Santiago\n")); err == nil {
		t.Fatalf("expected an error for an entry without a name")
	}
	if _, err := ParseVeterinaryDirectory([]byte("veterinaries:\n  - name: X\n    rating: 7\n")); err == nil {
		t.Fatalf("expected an error for an out of range rating")
	}
	if _, err := ParseVeterinaryDirectory([]byte("veterinaries: [")); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestVeterinaryService_ImportListGet(t *testing.T) {
	env := newTestEnv(t)
	svc := NewVeterinaryService(env.store.Veterinaries())
	svc.now = fixedClock()
	ctx := context.Background()

	vets, err := ParseVeterinaryDirectory([]byte(testDirectory))
	if err != nil {
		t.Fatalf("ParseVeterinaryDirectory: %v", err)
	}
	n, err := svc.Import(ctx, vets)
	if err != nil || n != 3 {
		t.Fatalf("Import: %d, %v", n, err)
	}
	// importing again updates in place
	if _, err := svc.Import(ctx, vets); err != nil {
		t.Fatalf("re-Import: %v", err)
	}

	all, err := svc.List(ctx, models.VeterinaryFilter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("List: %d, %v", len(all), err)
	}
	if all[0].Name != "Centro Veterinario Nunoa" {
		t.Fatalf("expected results sorted by name, got %q first", all[0].Name)
	}

	santiago, _ := svc.List(ctx, models.VeterinaryFilter{City: " Santiago "})
	if len(santiago) != 2 {
		t.Fatalf("expected 2 clinics in Santiago, got %d", len(santiago))
	}
	emergency, _ := svc.List(ctx, models.VeterinaryFilter{EmergencyOnly: true})
	if len(emergency) != 1 || emergency[0].Name != "Clinica Veterinaria Providencia" {
		t.Fatalf("unexpected emergency clinics %+v", emergency)
	}
	search, _ := svc.List(ctx, models.VeterinaryFilter{Search: "hospital"})
	if len(search) != 1 || search[0].City != "Vina del Mar" {
		t.Fatalf("unexpected search results %+v", search)
	}
	none, err := svc.List(ctx, models.VeterinaryFilter{City: "Arica"})
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected an empty non-nil list, got %v, %v", none, err)
	}

	got, err := svc.Get(ctx, veterinaryID("Hospital Veterinario Vina", "Vina del Mar"))
	if err != nil || got.Rating != 4.1 {
		t.Fatalf("Get: %+v, %v", got, err)
	}
	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
