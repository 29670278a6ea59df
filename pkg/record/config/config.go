package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SILAMEAS/Record-Report/pkg/record"
	"github.com/SILAMEAS/Record-Report/pkg/record/imagehost"
	memoryrepo "github.com/SILAMEAS/Record-Report/pkg/record/repo/memory"
	postgresrepo "github.com/SILAMEAS/Record-Report/pkg/record/repo/postgres"
	memorystorage "github.com/SILAMEAS/Record-Report/pkg/record/storage/memory"
	s3storage "github.com/SILAMEAS/Record-Report/pkg/record/storage/s3"
)

// DefaultBucket is the object-storage bucket holding uploaded images.
const DefaultBucket = "content-images"

// ServerConfig represents server configuration for the record service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Storage configuration
	Storage StorageConfig

	// Image host configuration (optional)
	ImageHost ImageHostConfig
}

// StorageConfig represents configuration for the object storage backend
type StorageConfig struct {
	Type            string // "memory", "s3"
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PublicBaseURL   string
}

// ImageHostConfig represents credentials for the external image host.
// Either all three fields are set or none; a partial set fails validation.
type ImageHostConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Enabled reports whether any image host credential is configured
func (c ImageHostConfig) Enabled() bool {
	return c.CloudName != "" || c.APIKey != "" || c.APISecret != ""
}

// Validate validates the server configuration. Credential problems are
// reported here, before any network call is attempted.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	if c.Storage.Type != "memory" && c.Storage.Type != "s3" {
		return errors.New("storage type must be 'memory' or 's3'")
	}
	if c.Storage.Bucket == "" {
		return errors.New("storage bucket is required")
	}

	if c.ImageHost.Enabled() {
		if c.ImageHost.CloudName == "" || c.ImageHost.APIKey == "" || c.ImageHost.APISecret == "" {
			return errors.New("image host requires cloud name, api key and api secret")
		}
	}

	return nil
}

// BuildService creates a record.Service from the server configuration
func (c *ServerConfig) BuildService(logger *slog.Logger) (record.Service, error) {
	repo, err := c.buildRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.buildBlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build storage backend: %w", err)
	}

	return record.New(
		record.WithRepository(repo),
		record.WithBlobStore(store),
		record.WithLogger(logger),
	)
}

// BuildImageHost creates the image host client. Returns nil when no
// credentials are configured.
func (c *ServerConfig) BuildImageHost() (record.ImageHost, error) {
	if !c.ImageHost.Enabled() {
		return nil, nil
	}
	return imagehost.New(imagehost.Config{
		CloudName: c.ImageHost.CloudName,
		APIKey:    c.ImageHost.APIKey,
		APISecret: c.ImageHost.APISecret,
	})
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository() (record.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memoryrepo.New(), nil
	case "postgres":
		pool, err := pgxpool.New(context.Background(), c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("database ping failed: %w", err)
		}

		return postgresrepo.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildBlobStore creates a BlobStore based on the configuration
func (c *ServerConfig) buildBlobStore() (record.BlobStore, error) {
	switch c.Storage.Type {
	case "memory":
		return memorystorage.New(c.Storage.Bucket), nil
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:          c.Storage.Region,
			Bucket:          c.Storage.Bucket,
			AccessKeyID:     c.Storage.AccessKeyID,
			SecretAccessKey: c.Storage.SecretAccessKey,
			Endpoint:        c.Storage.Endpoint,
			UsePathStyle:    c.Storage.UsePathStyle,
			PublicBaseURL:   c.Storage.PublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", c.Storage.Type)
	}
}
