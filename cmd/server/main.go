package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strings"

	_ "github.com/lib/pq"

	"eventadmission/config"
	"eventadmission/internal/adapters/auth"
	"eventadmission/internal/adapters/email"
	"eventadmission/internal/adapters/notify"
	delivery "eventadmission/internal/delivery/http"
	"eventadmission/internal/delivery/http/controllers"
	"eventadmission/internal/delivery/http/middleware"
	"eventadmission/internal/repository/postgres"
	"eventadmission/internal/services"
)

func main() {
	// The logger is configured from the loaded config, so this failure goes
	// straight to stderr.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}
	if err := postgres.RunMigrations(cfg.DBUrl, cfg.MigrationsPath); err != nil {
		logger.Error("run migrations", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	ledger := postgres.NewRegistrationLedger(db)
	directory := postgres.NewParticipantDirectory(db)

	mailer := email.NewMailer(cfg.Mailer, logger)
	notifier := notify.NewEmailNotifier(logger, mailer, directory)

	admissionService := services.NewAdmissionService(logger, eventRepo, ledger, directory, notifier, cfg.OperationTimeout)
	eventService := services.NewEventService(eventRepo, cfg.OperationTimeout)

	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	eventController := controllers.NewEventController(logger, eventService, admissionService)
	registrationController := controllers.NewRegistrationController(logger, admissionService)

	mux := delivery.NewRouter(eventController, registrationController, verifier)
	handler := middleware.Logging(logger, middleware.CORS(allowedOrigins(), mux))

	addr := ":" + cfg.Port
	logger.Info("server listening", "addr", addr, "env", cfg.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func allowedOrigins() []string {
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		return strings.Split(v, ",")
	}
	return []string{"http://localhost:3000"}
}
