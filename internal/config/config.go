package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/PrakshaliShah/cta-silent-tracker/internal/cta"
)

// Storage backend names.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Report index names.
const (
	IndexSQLite   = "sqlite"
	IndexPostgres = "postgres"
	IndexOff      = "off"
)

// Config holds all configuration for the tracker service.
type Config struct {
	Port string

	// Upstream Train Tracker feed
	CTAAPIKey  string
	CTABaseURL string
	CTATimeout time.Duration

	// Ranking policy
	ConfidenceRadiusMeters float64
	IncludeGhosts          bool

	// Static client page
	StaticFile string

	// Evidence storage
	StorageBackend    string
	EvidenceDir       string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3UseSSL          bool

	// Report index
	ReportIndex    string
	ReportDatabase string
	DatabaseURL    string
}

// Load reads configuration from environment variables with sensible defaults.
// Missing required values are returned as errors so the caller can refuse to
// start before serving a single request.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		CTAAPIKey:  os.Getenv("CTA_API_KEY"),
		CTABaseURL: getEnv("CTA_BASE_URL", cta.DefaultBaseURL),
		CTATimeout: time.Duration(getEnvInt("CTA_TIMEOUT_SECONDS", 10)) * time.Second,

		ConfidenceRadiusMeters: getEnvFloat("CONFIDENCE_RADIUS_METERS", 200),
		IncludeGhosts:          getEnvBool("INCLUDE_GHOSTS", true),

		StaticFile: getEnv("STATIC_FILE", "web/index.html"),

		StorageBackend:    getEnv("STORAGE_BACKEND", StorageLocal),
		EvidenceDir:       getEnv("EVIDENCE_DIR", "./evidence"),
		S3Endpoint:        getEnv("S3_ENDPOINT", "s3.amazonaws.com"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3UseSSL:          getEnvBool("S3_USE_SSL", true),

		ReportIndex:    getEnv("REPORT_INDEX", IndexSQLite),
		ReportDatabase: getEnv("REPORT_DATABASE", "./data/reports.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	}

	if cfg.CTAAPIKey == "" {
		return nil, errors.New("CTA_API_KEY is required")
	}

	switch cfg.StorageBackend {
	case StorageLocal:
	case StorageS3:
		if cfg.S3AccessKeyID == "" || cfg.S3SecretAccessKey == "" || cfg.S3Bucket == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY and S3_BUCKET are required for the s3 storage backend")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	switch cfg.ReportIndex {
	case IndexSQLite, IndexOff:
	case IndexPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres report index")
		}
	default:
		return nil, fmt.Errorf("unknown REPORT_INDEX %q", cfg.ReportIndex)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
