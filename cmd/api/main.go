package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/acourtin/thefeed/internal/config"
	"github.com/acourtin/thefeed/internal/handler"
	"github.com/acourtin/thefeed/internal/integrations/rss"
	"github.com/acourtin/thefeed/internal/middleware"
	"github.com/acourtin/thefeed/internal/repository"
	"github.com/acourtin/thefeed/internal/service"
	"github.com/acourtin/thefeed/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	policy := service.NewPasswordPolicy()
	images := service.NewProfileImageStore(cfg.UploadDir)
	mailer := email.NewSender(cfg, logger)
	users := service.NewUserManager(repo, policy, images, mailer, logger)
	feed := service.NewFeedService(repo, repo, logger)
	renderer := rss.NewRenderer(cfg.BaseURL)
	h := handler.NewHandler(users, feed, policy, renderer, cfg, logger)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.Identify(cfg))
	// Public routes
	r.HandleFunc("/", h.Feed).Methods("GET")
	r.HandleFunc("/feed.rss", h.RSS).Methods("GET")
	r.HandleFunc("/users/{login}/publications", h.ProfilePage).Methods("GET")
	r.HandleFunc("/register", h.RegisterPage).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.LoginPage).Methods("GET")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/logout", h.Logout).Methods("POST")
	// Write path; the handler consults the authorization gate itself so
	// anonymous POSTs fail before any form processing.
	r.HandleFunc("/", h.CreatePublication).Methods("POST")

	// Periodic sweep of profile images left behind by failed commits
	sweeper := service.NewImageSweeper(cfg.UploadDir, repo, logger)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", sweeper.Sweep); err != nil {
		logger.Fatalf("Failed to schedule image sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
