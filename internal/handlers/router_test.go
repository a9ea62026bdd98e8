package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"petcare-backend/internal/models"
	"petcare-backend/internal/qr"
	"petcare-backend/internal/repository/memory"
	"petcare-backend/internal/services"
	"petcare-backend/internal/storage"
)

type testServer struct {
	*httptest.Server
	objects      *storage.MemoryStore
	veterinaries *services.VeterinaryService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	m := memory.NewStore()
	objects := storage.NewMemoryStore()

	registry := services.NewRegistry(m.Identities(), m.Pets(), objects, services.RegistryConfig{
		BaseURL: "https://petcare.test/qr/",
		Folder:  "test",
		Render:  qr.DefaultOptions(),
	})
	reminders := services.NewReminderScheduler(m.Notifications())
	hub := services.NewWSHub()
	notificationService := services.NewNotificationService(m.Notifications(), m.Pets())
	notificationService.SetPublisher(hub)
	veterinaries := services.NewVeterinaryService(m.Veterinaries())

	router := NewRouter(Services{
		Users:         services.NewUserService(m.Users(), "test-secret"),
		Pets:          services.NewPetService(m.Pets(), registry, objects),
		Registry:      registry,
		Vaccines:      services.NewVaccineService(m.Vaccines(), m.Pets(), reminders),
		Records:       services.NewMedicalRecordService(m.MedicalRecords(), m.Pets(), reminders),
		Appointments:  services.NewAppointmentService(m.Appointments(), m.Pets(), reminders),
		Notifications: notificationService,
		Veterinaries:  veterinaries,
		Hub:           hub,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, objects: objects, veterinaries: veterinaries}
}

// do sends a JSON request and decodes the JSON response into out, if given
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

type userResponse struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

func (s *testServer) register(t *testing.T, first, email string) userResponse {
	t.Helper()
	var u userResponse
	status := s.do(t, http.MethodPost, "/api/v1/users", "", map[string]string{
		"first_name": first,
		"last_name":  "Rojas",
		"email":      email,
		"phone":      "+56911111111",
	}, &u)
	if status != http.StatusCreated {
		t.Fatalf("register status = %d", status)
	}
	if u.Token == "" {
		t.Fatal("register returned no token")
	}
	return u
}

type petResponse struct {
	ID       string `json:"id"`
	OwnerID  string `json:"owner_id"`
	Name     string `json:"name"`
	Identity *struct {
		Code string `json:"code"`
	} `json:"qr_code"`
}

func (s *testServer) createPet(t *testing.T, token string) petResponse {
	t.Helper()
	var p petResponse
	status := s.do(t, http.MethodPost, "/api/v1/pets", token, map[string]string{
		"name":          "Luna",
		"species":       "dog",
		"special_needs": "Insulin twice a day",
	}, &p)
	if status != http.StatusCreated {
		t.Fatalf("create pet status = %d", status)
	}
	return p
}

type scanBody struct {
	Pet struct {
		ID           string `json:"id"`
		OwnerID      string `json:"owner_id"`
		SpecialNeeds string `json:"special_needs"`
		Owner        struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Email     string `json:"email"`
			Phone     string `json:"phone"`
		} `json:"owner"`
	} `json:"pet"`
	IsOwner    bool `json:"is_owner"`
	TotalScans int  `json:"total_scans"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	if status := s.do(t, http.MethodGet, "/health", "", nil, nil); status != http.StatusOK {
		t.Fatalf("health status = %d", status)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	if status := s.do(t, http.MethodGet, "/api/v1/pets", "", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
	if status := s.do(t, http.MethodGet, "/api/v1/pets", "garbage", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
}

func TestQRLifecycle(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "Ana", "ana@example.com")
	stranger := s.register(t, "Bruno", "bruno@example.com")

	pet := s.createPet(t, owner.Token)
	if pet.Identity == nil || !qr.ValidCode(pet.Identity.Code) {
		t.Fatalf("new pet has no valid identity: %+v", pet.Identity)
	}
	code := pet.Identity.Code

	var identity struct {
		Code string `json:"code"`
		URL  string `json:"url"`
	}
	if status := s.do(t, http.MethodGet, "/api/v1/pets/"+pet.ID+"/qr", owner.Token, nil, &identity); status != http.StatusOK {
		t.Fatalf("get qr status = %d", status)
	}
	if identity.Code != code {
		t.Errorf("ensure returned %q, want existing %q", identity.Code, code)
	}
	if identity.URL != "https://petcare.test/qr/"+code {
		t.Errorf("url = %q", identity.URL)
	}

	if status := s.do(t, http.MethodGet, "/api/v1/pets/"+pet.ID+"/qr", stranger.Token, nil, nil); status != http.StatusForbidden {
		t.Errorf("stranger get qr status = %d, want 403", status)
	}

	// anonymous scan, lower case input
	var anon scanBody
	if status := s.do(t, http.MethodGet, "/api/v1/qr/"+strings.ToLower(code), "", nil, &anon); status != http.StatusOK {
		t.Fatalf("anonymous scan status = %d", status)
	}
	if anon.IsOwner || anon.Pet.OwnerID != "" || anon.Pet.SpecialNeeds != "" {
		t.Errorf("anonymous scan not redacted: %+v", anon)
	}
	if anon.Pet.Owner.FirstName != "Ana" || anon.Pet.Owner.Phone == "" {
		t.Errorf("anonymous scan owner contact = %+v", anon.Pet.Owner)
	}
	if anon.Pet.Owner.Email != "" || anon.Pet.Owner.LastName != "" {
		t.Errorf("anonymous scan leaked owner fields: %+v", anon.Pet.Owner)
	}
	if anon.TotalScans != 1 {
		t.Errorf("total scans = %d, want 1", anon.TotalScans)
	}

	var own scanBody
	if status := s.do(t, http.MethodGet, "/api/v1/qr/"+code, owner.Token, nil, &own); status != http.StatusOK {
		t.Fatalf("owner scan status = %d", status)
	}
	if !own.IsOwner || own.Pet.SpecialNeeds == "" || own.Pet.Owner.Email != "ana@example.com" {
		t.Errorf("owner scan was redacted: %+v", own)
	}
	if own.TotalScans != 2 {
		t.Errorf("total scans = %d, want 2", own.TotalScans)
	}

	var stats struct {
		TotalScans int `json:"total_scans"`
	}
	if status := s.do(t, http.MethodGet, "/api/v1/pets/"+pet.ID+"/qr/scans", owner.Token, nil, &stats); status != http.StatusOK {
		t.Fatalf("scan stats status = %d", status)
	}
	if stats.TotalScans != 2 {
		t.Errorf("stats total = %d, want 2", stats.TotalScans)
	}

	var regenerated struct {
		Code       string `json:"code"`
		TotalScans int    `json:"total_scans"`
	}
	if status := s.do(t, http.MethodPost, "/api/v1/pets/"+pet.ID+"/qr/regenerate", owner.Token, nil, &regenerated); status != http.StatusOK {
		t.Fatalf("regenerate status = %d", status)
	}
	if regenerated.Code == code {
		t.Fatal("regenerate kept the old code")
	}
	if regenerated.TotalScans != 0 {
		t.Errorf("regenerated scans = %d, want 0", regenerated.TotalScans)
	}
	if s.objects.Len() != 1 {
		t.Errorf("stored images = %d, want 1", s.objects.Len())
	}

	if status := s.do(t, http.MethodGet, "/api/v1/qr/"+code, "", nil, nil); status != http.StatusNotFound {
		t.Errorf("retired code scan status = %d, want 404", status)
	}
	if status := s.do(t, http.MethodGet, "/api/v1/qr/"+regenerated.Code, "", nil, nil); status != http.StatusOK {
		t.Errorf("new code scan status = %d, want 200", status)
	}
	if status := s.do(t, http.MethodGet, "/api/v1/qr/not-a-code", "", nil, nil); status != http.StatusNotFound {
		t.Errorf("malformed code scan status = %d, want 404", status)
	}
}

func TestQRDownloadFormats(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "Ana", "ana@example.com")
	pet := s.createPet(t, owner.Token)

	resp, err := s.Client().Do(authed(t, http.MethodGet, s.URL+"/api/v1/pets/"+pet.ID+"/qr/download", owner.Token))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Errorf("png download = %d %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	var b64 struct {
		DataURL string `json:"data_url"`
	}
	if status := s.do(t, http.MethodGet, "/api/v1/pets/"+pet.ID+"/qr/download?format=base64", owner.Token, nil, &b64); status != http.StatusOK {
		t.Fatalf("base64 download status = %d", status)
	}
	if !strings.HasPrefix(b64.DataURL, "data:image/png;base64,") {
		t.Errorf("data url = %.40q", b64.DataURL)
	}

	if status := s.do(t, http.MethodGet, "/api/v1/pets/"+pet.ID+"/qr/download?format=gif", owner.Token, nil, nil); status != http.StatusBadRequest {
		t.Errorf("unsupported format status = %d, want 400", status)
	}
}

func authed(t *testing.T, method, url, token string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestPublicPetCard(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "Ana", "ana@example.com")
	pet := s.createPet(t, owner.Token)

	var card struct {
		ID           string `json:"id"`
		SpecialNeeds string `json:"special_needs"`
	}
	if status := s.do(t, http.MethodGet, "/api/v1/public/pets/"+pet.ID, "", nil, &card); status != http.StatusOK {
		t.Fatalf("public card status = %d", status)
	}
	if card.ID != pet.ID || card.SpecialNeeds != "" {
		t.Errorf("public card = %+v", card)
	}

	var stats struct {
		TotalScans int `json:"total_scans"`
	}
	s.do(t, http.MethodGet, "/api/v1/pets/"+pet.ID+"/qr/scans", owner.Token, nil, &stats)
	if stats.TotalScans != 1 {
		t.Errorf("public view not counted as scan: %d", stats.TotalScans)
	}

	if status := s.do(t, http.MethodGet, "/api/v1/public/pets/missing", "", nil, nil); status != http.StatusNotFound {
		t.Errorf("missing pet status = %d, want 404", status)
	}
}

func TestDeletePetRemovesIdentity(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "Ana", "ana@example.com")
	pet := s.createPet(t, owner.Token)

	if status := s.do(t, http.MethodDelete, "/api/v1/pets/"+pet.ID, owner.Token, nil, nil); status != http.StatusNoContent {
		t.Fatalf("delete status = %d", status)
	}
	if s.objects.Len() != 0 {
		t.Errorf("images left after delete: %d", s.objects.Len())
	}
	if status := s.do(t, http.MethodGet, "/api/v1/qr/"+pet.Identity.Code, "", nil, nil); status != http.StatusNotFound {
		t.Errorf("scan after delete status = %d, want 404", status)
	}
}

func TestNotificationsFlow(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "Ana", "ana@example.com")
	other := s.register(t, "Bruno", "bruno@example.com")
	pet := s.createPet(t, owner.Token)

	var due struct {
		ID string `json:"id"`
	}
	if status := s.do(t, http.MethodPost, "/api/v1/notifications", owner.Token, map[string]interface{}{
		"pet_id":  pet.ID,
		"title":   "Buy food",
		"message": "The big bag",
	}, &due); status != http.StatusCreated {
		t.Fatalf("create notification status = %d", status)
	}

	future := time.Now().Add(72 * time.Hour).Format(time.RFC3339)
	if status := s.do(t, http.MethodPost, "/api/v1/notifications", owner.Token, map[string]interface{}{
		"title":          "Later",
		"message":        "Not yet",
		"scheduled_date": future,
	}, nil); status != http.StatusCreated {
		t.Fatalf("create future notification status = %d", status)
	}

	if status := s.do(t, http.MethodPost, "/api/v1/notifications", other.Token, map[string]interface{}{
		"pet_id":  pet.ID,
		"title":   "Not mine",
		"message": "x",
	}, nil); status != http.StatusForbidden {
		t.Errorf("foreign pet reminder status = %d, want 403", status)
	}

	var list []struct {
		ID     string `json:"id"`
		IsRead bool   `json:"is_read"`
	}
	if status := s.do(t, http.MethodGet, "/api/v1/notifications", owner.Token, nil, &list); status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if len(list) != 1 || list[0].ID != due.ID {
		t.Fatalf("visible notifications = %+v, want only the due one", list)
	}

	var count struct {
		Count int `json:"count"`
	}
	s.do(t, http.MethodGet, "/api/v1/notifications/unread-count", owner.Token, nil, &count)
	if count.Count != 1 {
		t.Errorf("unread = %d, want 1", count.Count)
	}

	if status := s.do(t, http.MethodPut, "/api/v1/notifications/"+due.ID+"/read", other.Token, nil, nil); status != http.StatusNotFound {
		t.Errorf("foreign mark read status = %d, want 404", status)
	}
	if status := s.do(t, http.MethodPut, "/api/v1/notifications/"+due.ID+"/read", owner.Token, nil, nil); status != http.StatusNoContent {
		t.Errorf("mark read status = %d", status)
	}
	if status := s.do(t, http.MethodPut, "/api/v1/notifications/"+due.ID+"/read", owner.Token, nil, nil); status != http.StatusNoContent {
		t.Errorf("repeated mark read status = %d", status)
	}

	s.do(t, http.MethodGet, "/api/v1/notifications/unread-count", owner.Token, nil, &count)
	if count.Count != 0 {
		t.Errorf("unread after read = %d, want 0", count.Count)
	}

	if status := s.do(t, http.MethodDelete, "/api/v1/notifications/"+due.ID, other.Token, nil, nil); status != http.StatusNotFound {
		t.Errorf("foreign delete status = %d, want 404", status)
	}
	if status := s.do(t, http.MethodDelete, "/api/v1/notifications/"+due.ID, owner.Token, nil, nil); status != http.StatusNoContent {
		t.Errorf("delete status = %d", status)
	}
}

func TestVaccineSchedulesReminder(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "Ana", "ana@example.com")
	pet := s.createPet(t, owner.Token)

	next := time.Now().UTC().AddDate(0, 0, 30).Format("2006-01-02")
	if status := s.do(t, http.MethodPost, "/api/v1/pets/"+pet.ID+"/vaccines", owner.Token, map[string]interface{}{
		"vaccine_name":        "Rabies",
		"administration_date": time.Now().UTC().Format("2006-01-02"),
		"next_dose_date":      next,
	}, nil); status != http.StatusCreated {
		t.Fatalf("create vaccine status = %d", status)
	}

	var vaccines []struct {
		VaccineName       string `json:"vaccine_name"`
		DaysUntilNextDose *int   `json:"days_until_next_dose"`
	}
	if status := s.do(t, http.MethodGet, "/api/v1/pets/"+pet.ID+"/vaccines", owner.Token, nil, &vaccines); status != http.StatusOK {
		t.Fatalf("list vaccines status = %d", status)
	}
	if len(vaccines) != 1 || vaccines[0].DaysUntilNextDose == nil {
		t.Fatalf("vaccines = %+v", vaccines)
	}

	// the reminder is a week before the dose, so it is not visible yet
	var count struct {
		Count int `json:"count"`
	}
	s.do(t, http.MethodGet, "/api/v1/notifications/unread-count", owner.Token, nil, &count)
	if count.Count != 0 {
		t.Errorf("unread = %d, want 0", count.Count)
	}
}

func TestAppointmentValidation(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "Ana", "ana@example.com")
	pet := s.createPet(t, owner.Token)

	past := time.Now().Add(-time.Hour).Format(time.RFC3339)
	if status := s.do(t, http.MethodPost, "/api/v1/appointments", owner.Token, map[string]interface{}{
		"pet_id":               pet.ID,
		"appointment_type":     "checkup",
		"appointment_datetime": past,
	}, nil); status != http.StatusBadRequest {
		t.Errorf("past appointment status = %d, want 400", status)
	}

	if status := s.do(t, http.MethodGet, "/api/v1/appointments?filter=sometimes", owner.Token, nil, nil); status != http.StatusBadRequest {
		t.Errorf("bad filter status = %d, want 400", status)
	}
}

func TestLostAndFoundShowsOnScan(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "Ana", "ana@example.com")
	stranger := s.register(t, "Bruno", "bruno@example.com")
	pet := s.createPet(t, owner.Token)
	lostPath := "/api/v1/pets/" + pet.ID + "/lost"

	report := map[string]string{
		"lost_date":     time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC3339),
		"lost_location": "Parque Forestal, Santiago",
	}
	if status := s.do(t, http.MethodPost, lostPath, stranger.Token, report, nil); status != http.StatusForbidden {
		t.Errorf("stranger report status = %d, want 403", status)
	}
	if status := s.do(t, http.MethodPost, lostPath, owner.Token, map[string]string{
		"lost_date":     report["lost_date"],
		"lost_location": "park",
	}, nil); status != http.StatusBadRequest {
		t.Errorf("short location status = %d, want 400", status)
	}

	var lost struct {
		Status       string `json:"status"`
		LostLocation string `json:"lost_location"`
	}
	if status := s.do(t, http.MethodPost, lostPath, owner.Token, report, &lost); status != http.StatusOK {
		t.Fatalf("report lost status = %d", status)
	}
	if lost.Status != "lost" || lost.LostLocation != report["lost_location"] {
		t.Fatalf("lost response = %+v", lost)
	}

	var scan struct {
		Pet struct {
			Status       string     `json:"status"`
			LostDate     *time.Time `json:"lost_date"`
			LostLocation string     `json:"lost_location"`
		} `json:"pet"`
	}
	if status := s.do(t, http.MethodGet, "/api/v1/qr/"+pet.Identity.Code, "", nil, &scan); status != http.StatusOK {
		t.Fatalf("scan status = %d", status)
	}
	if scan.Pet.Status != "lost" || scan.Pet.LostDate == nil || scan.Pet.LostLocation == "" {
		t.Errorf("finder does not see the lost report: %+v", scan.Pet)
	}

	var found struct {
		Status   string     `json:"status"`
		LostDate *time.Time `json:"lost_date"`
	}
	if status := s.do(t, http.MethodPost, "/api/v1/pets/"+pet.ID+"/found", owner.Token, nil, &found); status != http.StatusOK {
		t.Fatalf("mark found status = %d", status)
	}
	if found.Status != "active" || found.LostDate != nil {
		t.Errorf("found response = %+v", found)
	}
}

func TestUpdatePet(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "Ana", "ana@example.com")
	pet := s.createPet(t, owner.Token)
	path := "/api/v1/pets/" + pet.ID

	var updated struct {
		Name    string `json:"name"`
		Species string `json:"species"`
		Color   string `json:"color"`
		Status  string `json:"status"`
	}
	if status := s.do(t, http.MethodPut, path, owner.Token, map[string]string{
		"name":   "Luna Maria",
		"color":  "brown",
		"status": "adopted",
	}, &updated); status != http.StatusOK {
		t.Fatalf("update status = %d", status)
	}
	if updated.Name != "Luna Maria" || updated.Species != "dog" || updated.Color != "brown" || updated.Status != "adopted" {
		t.Errorf("updated pet = %+v", updated)
	}

	if status := s.do(t, http.MethodPut, path, owner.Token, map[string]string{"status": "missing"}, nil); status != http.StatusBadRequest {
		t.Errorf("unknown status = %d, want 400", status)
	}
	if status := s.do(t, http.MethodPut, path, owner.Token, map[string]string{"species": "dragon"}, nil); status != http.StatusBadRequest {
		t.Errorf("unknown species = %d, want 400", status)
	}
}

func TestMedicalRecordCRUD(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "Ana", "ana@example.com")
	stranger := s.register(t, "Bruno", "bruno@example.com")
	pet := s.createPet(t, owner.Token)

	body := map[string]string{
		"record_type": "checkup",
		"date":        time.Now().UTC().AddDate(0, 0, -3).Format("2006-01-02"),
		"title":       "Annual checkup",
	}
	var rec struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	if status := s.do(t, http.MethodPost, "/api/v1/pets/"+pet.ID+"/medical-records", owner.Token, body, &rec); status != http.StatusCreated {
		t.Fatalf("create record status = %d", status)
	}
	path := "/api/v1/medical-records/" + rec.ID

	if status := s.do(t, http.MethodGet, path, stranger.Token, nil, nil); status != http.StatusForbidden {
		t.Errorf("stranger get status = %d, want 403", status)
	}

	body["title"] = "Annual checkup and bloodwork"
	var updated struct {
		Title string `json:"title"`
	}
	if status := s.do(t, http.MethodPut, path, owner.Token, body, &updated); status != http.StatusOK {
		t.Fatalf("update record status = %d", status)
	}
	if updated.Title != body["title"] {
		t.Errorf("updated title = %q", updated.Title)
	}

	var got struct {
		Title string `json:"title"`
	}
	if status := s.do(t, http.MethodGet, path, owner.Token, nil, &got); status != http.StatusOK || got.Title != body["title"] {
		t.Errorf("get record = %d %+v", status, got)
	}

	if status := s.do(t, http.MethodDelete, path, owner.Token, nil, nil); status != http.StatusNoContent {
		t.Fatalf("delete record status = %d", status)
	}
	if status := s.do(t, http.MethodGet, path, owner.Token, nil, nil); status != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", status)
	}
}

func TestVeterinaryDirectory(t *testing.T) {
	s := newTestServer(t)
	if _, err := s.veterinaries.Import(context.Background(), []models.Veterinary{
		{Name: "Clinica Providencia", City: "Santiago", EmergencyAvailable: true, Rating: 4.6},
		{Name: "Hospital Vina", City: "Vina del Mar", Rating: 4.1},
	}); err != nil {
		t.Fatalf("import: %v", err)
	}

	var all []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if status := s.do(t, http.MethodGet, "/api/v1/veterinaries", "", nil, &all); status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if len(all) != 2 || all[0].Name != "Clinica Providencia" {
		t.Fatalf("list = %+v", all)
	}

	var emergency []struct {
		Name string `json:"name"`
	}
	s.do(t, http.MethodGet, "/api/v1/veterinaries?emergency_available=true&city=Santiago", "", nil, &emergency)
	if len(emergency) != 1 {
		t.Errorf("emergency clinics = %+v", emergency)
	}
	if status := s.do(t, http.MethodGet, "/api/v1/veterinaries?emergency_available=maybe", "", nil, nil); status != http.StatusBadRequest {
		t.Errorf("bad filter status = %d, want 400", status)
	}

	var one struct {
		Name string `json:"name"`
	}
	if status := s.do(t, http.MethodGet, "/api/v1/veterinaries/"+all[1].ID, "", nil, &one); status != http.StatusOK || one.Name != "Hospital Vina" {
		t.Errorf("get = %d %+v", status, one)
	}
	if status := s.do(t, http.MethodGet, "/api/v1/veterinaries/missing", "", nil, nil); status != http.StatusNotFound {
		t.Errorf("missing veterinary status = %d, want 404", status)
	}
}
