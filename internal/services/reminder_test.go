package services

import (
	"context"
	"testing"
	"time"

	"petcare-backend/internal/models"
)

func newTestScheduler(env *testEnv) *ReminderScheduler {
	s := NewReminderScheduler(env.store.Notifications())
	s.now = fixedClock()
	return s
}

func TestReminderScheduler_VaccineTenDaysOut(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1")
	pet := env.seedPet(t, "p1", "u1")
	s := newTestScheduler(env)

	due := testNow.Add(10 * 24 * time.Hour)
	n := s.ScheduleVaccine(context.Background(), "u1", pet, &models.Vaccine{ID: "v1", VaccineName: "Rabies", NextDoseDate: &due})
	if n == nil {
		t.Fatalf("expected a reminder")
	}

	all := env.store.Notifications().All()
	if len(all) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(all))
	}
	got := all[0]
	if want := due.Add(-7 * 24 * time.Hour); !got.ScheduledDate.Equal(want) {
		t.Fatalf("scheduled_date = %v, want %v", got.ScheduledDate, want)
	}
	if got.Priority != models.PriorityHigh || got.Type != models.NotificationVaccineReminder {
		t.Fatalf("unexpected priority/type %s/%s", got.Priority, got.Type)
	}
	if got.RelatedType == nil || *got.RelatedType != models.RelatedVaccine || got.RelatedID == nil || *got.RelatedID != "v1" {
		t.Fatalf("missing back reference to vaccine")
	}
}

func TestReminderScheduler_SkipsPastTriggers(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1")
	pet := env.seedPet(t, "p1", "u1")
	s := newTestScheduler(env)
	ctx := context.Background()

	threeDays := testNow.Add(3 * 24 * time.Hour)
	if n := s.ScheduleVaccine(ctx, "u1", pet, &models.Vaccine{ID: "v1", NextDoseDate: &threeDays}); n != nil {
		t.Fatalf("vaccine due in 3 days must not schedule a reminder")
	}

	// trigger exactly at now is not strictly in the future
	exact := testNow.Add(24 * time.Hour)
	if n := s.ScheduleAppointment(ctx, "u1", pet, &models.Appointment{ID: "a1", ScheduledAt: exact}); n != nil {
		t.Fatalf("appointment trigger at now must not schedule")
	}

	if n := s.ScheduleVaccine(ctx, "u1", pet, &models.Vaccine{ID: "v2"}); n != nil {
		t.Fatalf("vaccine without next dose must not schedule")
	}

	if got := len(env.store.Notifications().All()); got != 0 {
		t.Fatalf("expected no notifications, got %d", got)
	}
}

func TestReminderScheduler_DewormingAndAppointment(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1")
	pet := env.seedPet(t, "p1", "u1")
	s := newTestScheduler(env)
	ctx := context.Background()

	nextDue := testNow.Add(30 * 24 * time.Hour)
	rec := &models.MedicalRecord{ID: "m1", RecordType: models.RecordDeworming, NextDueDate: &nextDue}
	n := s.ScheduleDeworming(ctx, "u1", pet, rec)
	if n == nil || n.Priority != models.PriorityMedium || !n.ScheduledDate.Equal(nextDue.Add(-72*time.Hour)) {
		t.Fatalf("unexpected deworming reminder %+v", n)
	}

	checkup := &models.MedicalRecord{ID: "m2", RecordType: models.RecordCheckup, NextDueDate: &nextDue}
	if n := s.ScheduleDeworming(ctx, "u1", pet, checkup); n != nil {
		t.Fatalf("only deworming records schedule deworming reminders")
	}

	at := testNow.Add(5 * 24 * time.Hour)
	n = s.ScheduleAppointment(ctx, "u1", pet, &models.Appointment{ID: "a1", AppointmentType: "checkup", ScheduledAt: at})
	if n == nil || n.Priority != models.PriorityHigh || !n.ScheduledDate.Equal(at.Add(-24*time.Hour)) {
		t.Fatalf("unexpected appointment reminder %+v", n)
	}
}

func TestReminderScheduler_SwallowsStoreErrors(t *testing.T) {
	s := NewReminderScheduler(failingNotifications{})
	s.now = fixedClock()

	due := testNow.Add(30 * 24 * time.Hour)
	pet := &models.Pet{ID: "p1", Name: "Luna"}
	if n := s.ScheduleVaccine(context.Background(), "u1", pet, &models.Vaccine{ID: "v1", NextDoseDate: &due}); n != nil {
		t.Fatalf("expected nil on store failure")
	}
}

func TestVaccineService_CreateSurvivesReminderFailure(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1")
	env.seedPet(t, "p1", "u1")

	reminders := NewReminderScheduler(failingNotifications{})
	reminders.now = fixedClock()
	svc := NewVaccineService(env.store.Vaccines(), env.store.Pets(), reminders)
	svc.now = fixedClock()

	due := testNow.Add(20 * 24 * time.Hour)
	v, err := svc.Create(context.Background(), "u1", "p1", VaccineInput{
		VaccineName:        "Rabies",
		AdministrationDate: testNow,
		NextDoseDate:       &due,
	})
	if err != nil {
		t.Fatalf("Create must not fail on reminder failure: %v", err)
	}
	if v.NeedsBooster || v.DaysUntilNextDose == nil || *v.DaysUntilNextDose != 20 {
		t.Fatalf("unexpected booster view %+v", v)
	}
}
