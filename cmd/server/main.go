package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	httpapi "vehiclerental-backend/internal/api/http"
	"vehiclerental-backend/internal/config"
	"vehiclerental-backend/internal/logger"
	"vehiclerental-backend/internal/repository/postgres"
	"vehiclerental-backend/internal/security"
	"vehiclerental-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting booking engine...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	buffer := time.Duration(cfg.Booking.TurnaroundBufferHours) * time.Hour
	reminderLead := time.Duration(cfg.Booking.ReminderLeadHours) * time.Hour

	// Initialize Services
	settingsSvc := service.NewSettingsService(store.SettingRepository)
	promoSvc := service.NewPromoService(store.PromoRepository)
	availabilitySvc := service.NewAvailabilityService(store.BookingRepository, store.VehicleRepository, buffer)
	pricingSvc := service.NewPricingService(
		store.VehicleRepository,
		store.PlanRepository,
		store.DriverRepository,
		settingsSvc,
		promoSvc,
		cfg.Booking.Currency,
		cfg.Booking.PlatformFeeBps,
		cfg.Booking.DefaultDriverRateCents,
	)
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.VehicleRepository,
		store.PolicyRepository,
		store.TransactionRepository,
		store.DepositRefundRepository,
		store.JobRepository,
		store.NotificationRepository,
		availabilitySvc,
		pricingSvc,
		promoSvc,
		settingsSvc,
		buffer,
		reminderLead,
		cfg.Booking.DepositRefundDueDays,
		cfg.Booking.PlatformFeeBps,
		cfg.Booking.Currency,
	)
	tripSvc := service.NewTripService(
		store.BookingRepository,
		store.VehicleRepository,
		store.TransactionRepository,
		store.DepositRefundRepository,
		store.ChargeRepository,
		store.JobRepository,
		settingsSvc,
		cfg.Booking.AdjustmentThresholdCents,
		cfg.Booking.PlatformFeeBps,
		cfg.Booking.DefaultIncludedKmPerDay,
		cfg.Booking.DefaultExcessKmCents,
		cfg.Booking.DepositRefundDueDays,
	)
	settlementSvc := service.NewSettlementService(store.BookingRepository, store.PayoutRepository, cfg.Booking.Currency)
	notificationSvc := service.NewNotificationService(store.NotificationRepository)

	// Initialize Handlers
	bookingHandler := httpapi.NewBookingHandler(bookingSvc, pricingSvc, availabilitySvc)
	tripHandler := httpapi.NewTripHandler(tripSvc)
	settlementHandler := httpapi.NewSettlementHandler(settlementSvc)
	notificationHandler := httpapi.NewNotificationHandler(notificationSvc)
	webhookHandler := httpapi.NewWebhookHandler(bookingSvc)

	router := httpapi.NewRouter(
		tokenManager,
		cfg.Server.WebhookSecret,
		bookingHandler,
		tripHandler,
		settlementHandler,
		notificationHandler,
		webhookHandler,
	)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
