package handlers

import (
	"net/http"

	"petcare-backend/internal/middleware"
	"petcare-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// Services are the collaborators the HTTP layer is built from
type Services struct {
	Users         *services.UserService
	Pets          *services.PetService
	Registry      *services.Registry
	Vaccines      *services.VaccineService
	Records       *services.MedicalRecordService
	Appointments  *services.AppointmentService
	Notifications *services.NotificationService
	Veterinaries  *services.VeterinaryService
	Hub           *services.WSHub
}

// NewRouter wires every route of the API
func NewRouter(svc Services) http.Handler {
	v := validator.New()

	userHandler := NewUserHandler(svc.Users, v)
	petHandler := NewPetHandler(svc.Pets, v)
	qrHandler := NewQRHandler(svc.Registry, svc.Pets)
	vaccineHandler := NewVaccineHandler(svc.Vaccines, v)
	recordHandler := NewMedicalRecordHandler(svc.Records, v)
	appointmentHandler := NewAppointmentHandler(svc.Appointments, v)
	notificationHandler := NewNotificationHandler(svc.Notifications, v)
	veterinaryHandler := NewVeterinaryHandler(svc.Veterinaries)
	wsHandler := NewWebSocketHandler(svc.Hub, svc.Users, svc.Notifications)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/users", userHandler.CreateUser)
		r.Get("/veterinaries", veterinaryHandler.ListVeterinaries)
		r.Get("/veterinaries/{veterinaryID}", veterinaryHandler.GetVeterinary)

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(svc.Users))
			r.Get("/qr/{code}", qrHandler.Scan)
			r.Get("/public/pets/{petID}", petHandler.PublicPet)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(svc.Users))

			r.Get("/users/me", userHandler.GetMe)
			r.Put("/users/me/settings", userHandler.UpdateSettings)
			r.Put("/users/me/push-token", userHandler.UpdatePushToken)

			r.Route("/pets", func(r chi.Router) {
				r.Post("/", petHandler.CreatePet)
				r.Get("/", petHandler.ListPets)

				r.Route("/{petID}", func(r chi.Router) {
					r.Get("/", petHandler.GetPet)
					r.Put("/", petHandler.UpdatePet)
					r.Delete("/", petHandler.DeletePet)
					r.Post("/lost", petHandler.ReportLost)
					r.Post("/found", petHandler.MarkFound)
					r.Post("/image/upload-url", petHandler.ImageUploadURL)

					r.Get("/qr", qrHandler.GetQR)
					r.Post("/qr/regenerate", qrHandler.RegenerateQR)
					r.Get("/qr/scans", qrHandler.ScanStats)
					r.Get("/qr/download", qrHandler.Download)

					r.Post("/vaccines", vaccineHandler.CreateVaccine)
					r.Get("/vaccines", vaccineHandler.ListVaccines)

					r.Post("/medical-records", recordHandler.CreateRecord)
					r.Get("/medical-records", recordHandler.ListRecords)
				})
			})

			r.Get("/vaccines/upcoming", vaccineHandler.UpcomingVaccines)
			r.Put("/vaccines/{vaccineID}", vaccineHandler.UpdateVaccine)
			r.Delete("/vaccines/{vaccineID}", vaccineHandler.DeleteVaccine)

			r.Get("/medical-records/{recordID}", recordHandler.GetRecord)
			r.Put("/medical-records/{recordID}", recordHandler.UpdateRecord)
			r.Delete("/medical-records/{recordID}", recordHandler.DeleteRecord)

			r.Post("/appointments", appointmentHandler.CreateAppointment)
			r.Get("/appointments", appointmentHandler.ListAppointments)
			r.Get("/appointments/upcoming/count", appointmentHandler.UpcomingCount)
			r.Post("/appointments/{appointmentID}/cancel", appointmentHandler.CancelAppointment)
			r.Delete("/appointments/{appointmentID}", appointmentHandler.DeleteAppointment)

			r.Get("/notifications", notificationHandler.GetNotifications)
			r.Post("/notifications", notificationHandler.CreateNotification)
			r.Get("/notifications/unread-count", notificationHandler.UnreadCount)
			r.Put("/notifications/read-all", notificationHandler.MarkAllRead)
			r.Put("/notifications/{notificationID}/read", notificationHandler.MarkRead)
			r.Delete("/notifications/{notificationID}", notificationHandler.DeleteNotification)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	return r
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
