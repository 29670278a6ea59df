package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/SILAMEAS/Record-Report/pkg/record/api"
	"github.com/SILAMEAS/Record-Report/pkg/record/config"
)

// Config is the process environment surface. Credentials are validated at
// startup; the process fails fast rather than degrading.
type Config struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	DatabaseURL string `env:"DATABASE_URL" env-default:""`
	Storage     StorageConfig
	ImageHost   ImageHostConfig
}

type StorageConfig struct {
	Bucket          string `env:"S3_BUCKET" env-default:"content-images"`
	Region          string `env:"S3_REGION" env-default:"us-east-1"`
	Endpoint        string `env:"S3_ENDPOINT" env-default:""`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY" env-default:""`
	UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
	PublicBaseURL   string `env:"S3_PUBLIC_BASE_URL" env-default:""`
}

type ImageHostConfig struct {
	CloudName string `env:"CLOUDINARY_CLOUD_NAME" env-default:""`
	APIKey    string `env:"CLOUDINARY_API_KEY" env-default:""`
	APISecret string `env:"CLOUDINARY_API_SECRET" env-default:""`
}

func (c Config) toServerConfig() *config.ServerConfig {
	databaseType := "memory"
	if c.DatabaseURL != "" {
		databaseType = "postgres"
	}

	storageType := "memory"
	if c.Storage.AccessKeyID != "" || c.Storage.Endpoint != "" {
		storageType = "s3"
	}

	return &config.ServerConfig{
		Port:         c.Port,
		Environment:  c.Environment,
		DatabaseURL:  c.DatabaseURL,
		DatabaseType: databaseType,
		Storage: config.StorageConfig{
			Type:            storageType,
			Bucket:          c.Storage.Bucket,
			Region:          c.Storage.Region,
			Endpoint:        c.Storage.Endpoint,
			AccessKeyID:     c.Storage.AccessKeyID,
			SecretAccessKey: c.Storage.SecretAccessKey,
			UsePathStyle:    c.Storage.UsePathStyle,
			PublicBaseURL:   c.Storage.PublicBaseURL,
		},
		ImageHost: config.ImageHostConfig{
			CloudName: c.ImageHost.CloudName,
			APIKey:    c.ImageHost.APIKey,
			APISecret: c.ImageHost.APISecret,
		},
	}
}

func main() {
	_ = godotenv.Load()

	var envConfig Config
	if err := cleanenv.ReadEnv(&envConfig); err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	serverConfig := envConfig.toServerConfig()
	if err := serverConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	svc, err := serverConfig.BuildService(logger)
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}

	imageHost, err := serverConfig.BuildImageHost()
	if err != nil {
		log.Fatalf("Failed to build image host client: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Mount("/api/content", api.NewContentHandler(svc).Routes())
	if imageHost != nil {
		r.Mount("/api/image-host", api.NewImageHostHandler(imageHost).Routes())
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: r,
	}

	go func() {
		log.Printf("Record server starting on port %s (env: %s)", serverConfig.Port, serverConfig.Environment)
		log.Printf("Database: %s, storage: %s, image host: %v",
			serverConfig.DatabaseType, serverConfig.Storage.Type, imageHost != nil)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
