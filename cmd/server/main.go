package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"typeevent/config"
	authadapter "typeevent/internal/adapters/auth"
	emailadapter "typeevent/internal/adapters/email"
	"typeevent/internal/adapters/render"
	"typeevent/internal/adapters/storage"
	delivery "typeevent/internal/delivery/http"
	"typeevent/internal/delivery/http/middleware"
	"typeevent/internal/repository/postgres"
	"typeevent/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title type.event API
// @version 1.0
// @description Event management with participant enrollment and certificate issuance.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)

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

	fileStore, err := storage.NewLocalStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		logger.Error("init file store", "err", err)
		os.Exit(1)
	}

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddr,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKey,
			SecretAccessKey: cfg.AWSSecretKey,
		},
	})
	if err != nil {
		logger.Error("init mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	certRepo := postgres.NewCertificateRepository(db)

	hasher := authadapter.NewBcryptHasher(bcrypt.DefaultCost)
	tokenIssuer, tokenVerifier := authadapter.NewJWTManager(cfg.JWTSecret)
	renderer := render.NewImageRenderer(cfg.CertTemplatePath, cfg.CertFontPath)

	authService := services.NewAuthService(userRepo, hasher, tokenIssuer, cfg.TokenExpiry, emailService, logger)
	eventService := services.NewEventService(eventRepo, fileStore, serviceTimeout)
	certService := services.NewCertificateService(eventRepo, certRepo, renderer, fileStore, emailService, logger, serviceTimeout)

	mux := delivery.NewRouter(
		delivery.NewAuthController(authService),
		delivery.NewEventController(eventService),
		delivery.NewCertificateController(certService),
		tokenVerifier,
		cfg.MediaDir,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.LoggingMiddleware(logger, mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
