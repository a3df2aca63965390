package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/scrybe/scrybe-backend/internal/config"
	"github.com/scrybe/scrybe-backend/internal/infrastructure/covers"
	"github.com/scrybe/scrybe-backend/internal/infrastructure/gemini"
	googleinfra "github.com/scrybe/scrybe-backend/internal/infrastructure/google"
	"github.com/scrybe/scrybe-backend/internal/infrastructure/huggingface"
	jwtinfra "github.com/scrybe/scrybe-backend/internal/infrastructure/jwt"
	"github.com/scrybe/scrybe-backend/internal/infrastructure/postgres"
	"github.com/scrybe/scrybe-backend/internal/infrastructure/smtp"
	transporthttp "github.com/scrybe/scrybe-backend/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	db, err := postgres.NewClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	// Create tables and indexes if they don't exist.
	if err := postgres.Bootstrap(context.Background(), db); err != nil {
		log.Fatalf("database bootstrap failed: %v", err)
	}

	// JWT provider (optional — graceful fallback if the secret is missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:       postgres.NewUserRepo(db),
		StoryRepo:      postgres.NewStoryRepo(db),
		Mailer:         smtp.NewMailer(cfg),
		GoogleVerifier: googleinfra.NewVerifier(cfg.GoogleClientID),
		JWTProvider:    jwtProvider,
		TextGenerator:  gemini.NewClient(cfg),
		ImageGenerator: huggingface.NewClient(cfg),
	}

	// Covers go to S3 when a bucket is configured, to local disk otherwise.
	if cfg.S3BucketName != "" {
		deps.CoverStore = covers.NewS3Store(covers.NewS3Client(cfg), cfg.S3BucketName, cfg.AWSRegion)
	} else {
		diskStore, err := covers.NewDiskStore(cfg.CoversDir)
		if err != nil {
			log.Fatalf("covers directory setup failed: %v", err)
		}
		deps.CoverStore = diskStore
		deps.CoversDir = diskStore.Dir()
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second, // cover generation waits on slow providers
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
