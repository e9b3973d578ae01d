package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdg-garage/camp-registration-api/internal/auth"
	"github.com/gdg-garage/camp-registration-api/internal/config"
	"github.com/gdg-garage/camp-registration-api/internal/database"
	"github.com/gdg-garage/camp-registration-api/internal/handlers"
	"github.com/gdg-garage/camp-registration-api/internal/logging"
	"github.com/gdg-garage/camp-registration-api/internal/notifier"
	"github.com/gdg-garage/camp-registration-api/internal/repo"
	"github.com/gdg-garage/camp-registration-api/internal/service"
)

func main() {
	// Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	// Connect to Database
	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	if err := database.Migrate(db); err != nil {
		logger.WithError(err).Fatal("database migration failed")
	}

	var n notifier.Notifier
	if cfg.DiscordEnabled() {
		session, err := notifier.NewDiscordSession(cfg.DiscordBotToken)
		if err != nil {
			logger.WithError(err).Warn("Discord notifier not initialized")
		} else {
			n = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
		}
	}

	var c notifier.Confirmer
	if cfg.EmailEnabled() {
		client, err := notifier.NewSMTPClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
		if err != nil {
			logger.WithError(err).Warn("registration emails not initialized")
		} else {
			c = notifier.NewEmailConfirmer(client, cfg.SMTPFrom)
		}
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	services := service.New(repo.NewStore(db), tokens, n, c, logger)

	r, _ := handlers.NewRouter(handlers.Deps{
		Config:   cfg,
		DB:       db,
		Services: services,
		Tokens:   tokens,
		Log:      logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.WithField("port", cfg.Port).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-stop
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
