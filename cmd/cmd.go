package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"petcare-backend/internal/config"
	"petcare-backend/internal/database"
	"petcare-backend/internal/handlers"
	"petcare-backend/internal/push"
	"petcare-backend/internal/qr"
	"petcare-backend/internal/repository"
	"petcare-backend/internal/repository/memory"
	"petcare-backend/internal/services"
	"petcare-backend/internal/storage"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "petcare",
	Short: "Pet care backend with QR pet tags",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		inMemory, _ := cmd.Flags().GetBool("in-memory")
		directory, _ := cmd.Flags().GetString("veterinaries")
		return serve(inMemory, directory)
	},
}

var importVeterinariesCmd = &cobra.Command{
	Use:   "import-veterinaries <file>",
	Short: "Load a YAML veterinary directory into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		db, err := database.Open(ctx, cfg.Database.DSN())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		return importVeterinaries(ctx, services.NewVeterinaryService(repository.NewVeterinaryRepository(db)), args[0])
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		db, err := database.Open(ctx, cfg.Database.DSN())
		if err != nil {
			return err
		}
		defer db.Close()

		return database.Migrate(ctx, db)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	serveCmd.Flags().Bool("in-memory", false, "keep all data in process memory (no Postgres, no S3)")
	serveCmd.Flags().String("veterinaries", "", "YAML veterinary directory to import on startup")

	rootCmd.AddCommand(serveCmd, migrateCmd, importVeterinariesCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	setupLogger(cfg.Log.Level)
	return cfg, nil
}

// stores is the persistence a server runs on
type stores struct {
	users         services.UserStore
	pets          services.PetStore
	identities    services.IdentityStore
	vaccines      services.VaccineStore
	records       services.MedicalRecordStore
	appointments  services.AppointmentStore
	notifications services.NotificationStore
	veterinaries  services.VeterinaryStore
	objects       storage.ObjectStore
	close         func()
}

func memoryStores() *stores {
	m := memory.NewStore()
	return &stores{
		users:         m.Users(),
		pets:          m.Pets(),
		identities:    m.Identities(),
		vaccines:      m.Vaccines(),
		records:       m.MedicalRecords(),
		appointments:  m.Appointments(),
		notifications: m.Notifications(),
		veterinaries:  m.Veterinaries(),
		objects:       storage.NewMemoryStore(),
		close:         func() {},
	}
}

func postgresStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	db, err := database.Open(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	log.Info().Msg("Database connection established")

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	objects, err := storage.NewS3Store(ctx, storage.S3Options{
		Region:        cfg.AWS.Region,
		Bucket:        cfg.AWS.S3Bucket,
		AccessKey:     cfg.AWS.AccessKey,
		SecretKey:     cfg.AWS.SecretKey,
		Endpoint:      cfg.AWS.Endpoint,
		PublicBaseURL: cfg.AWS.PublicBaseURL,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &stores{
		users:         repository.NewUserRepository(db),
		pets:          repository.NewPetRepository(db),
		identities:    repository.NewIdentityRepository(db),
		vaccines:      repository.NewVaccineRepository(db),
		records:       repository.NewMedicalRecordRepository(db),
		appointments:  repository.NewAppointmentRepository(db),
		notifications: repository.NewNotificationRepository(db),
		veterinaries:  repository.NewVeterinaryRepository(db),
		objects:       objects,
		close:         db.Close,
	}, nil
}

func newNotifier(cfg config.APNsConfig) push.Notifier {
	if !cfg.Enabled {
		return push.NopNotifier{}
	}
	notifier, err := push.NewAPNSNotifier(push.APNSOptions{
		KeyPath:    cfg.KeyPath,
		KeyID:      cfg.KeyID,
		TeamID:     cfg.TeamID,
		Topic:      cfg.Topic,
		Production: cfg.Production,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create APNs client, push alerts disabled")
		return push.NopNotifier{}
	}
	return notifier
}

// buildServices wires the services the router needs
func buildServices(cfg *config.Config, st *stores) handlers.Services {
	render := qr.DefaultOptions()
	render.Width = cfg.QR.Width
	render.Margin = *cfg.QR.Margin
	render.Foreground = cfg.QR.Foreground
	render.Background = cfg.QR.Background

	registry := services.NewRegistry(st.identities, st.pets, st.objects, services.RegistryConfig{
		BaseURL: cfg.QR.BaseURL,
		Folder:  cfg.AWS.Folder,
		Render:  render,
	})
	reminders := services.NewReminderScheduler(st.notifications)
	hub := services.NewWSHub()

	registry.SetScanListener(services.NewScanAlerter(st.users, hub, newNotifier(cfg.APNs)))

	notificationService := services.NewNotificationService(st.notifications, st.pets)
	notificationService.SetPublisher(hub)

	return handlers.Services{
		Users:         services.NewUserService(st.users, cfg.JWT.Secret),
		Pets:          services.NewPetService(st.pets, registry, st.objects),
		Registry:      registry,
		Vaccines:      services.NewVaccineService(st.vaccines, st.pets, reminders),
		Records:       services.NewMedicalRecordService(st.records, st.pets, reminders),
		Appointments:  services.NewAppointmentService(st.appointments, st.pets, reminders),
		Notifications: notificationService,
		Veterinaries:  services.NewVeterinaryService(st.veterinaries),
		Hub:           hub,
	}
}

func importVeterinaries(ctx context.Context, svc *services.VeterinaryService, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read veterinary directory: %w", err)
	}
	vets, err := services.ParseVeterinaryDirectory(data)
	if err != nil {
		return err
	}
	_, err = svc.Import(ctx, vets)
	return err
}

func serve(inMemory bool, directory string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is not configured")
	}

	var st *stores
	if inMemory {
		log.Warn().Msg("Running with in-memory storage, data is lost on exit")
		st = memoryStores()
	} else {
		st, err = postgresStores(context.Background(), cfg)
		if err != nil {
			return err
		}
	}
	defer st.close()

	svc := buildServices(cfg, st)
	if directory != "" {
		if err := importVeterinaries(context.Background(), svc.Veterinaries, directory); err != nil {
			return err
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handlers.NewRouter(svc),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
