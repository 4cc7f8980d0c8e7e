package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/PrakshaliShah/cta-silent-tracker/internal/config"
	"github.com/PrakshaliShah/cta-silent-tracker/internal/cta"
	"github.com/PrakshaliShah/cta-silent-tracker/internal/evidence"
	"github.com/PrakshaliShah/cta-silent-tracker/internal/finder"
	"github.com/PrakshaliShah/cta-silent-tracker/internal/handlers"
)

func main() {
	// Load base .env first, then .env.local (which overrides for local development)
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	feed := cta.NewClient(cfg.CTABaseURL, cfg.CTAAPIKey, cfg.CTATimeout)

	// Evidence storage backend
	var store evidence.Store
	switch cfg.StorageBackend {
	case config.StorageS3:
		store, err = evidence.NewObjectStorage(cfg.S3Endpoint, cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey, cfg.S3Bucket, cfg.S3UseSSL)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		log.Printf("Evidence storage: bucket %s at %s", cfg.S3Bucket, cfg.S3Endpoint)
	default:
		store, err = evidence.NewLocal(cfg.EvidenceDir)
		if err != nil {
			log.Fatalf("Failed to initialize evidence directory: %v", err)
		}
		log.Printf("Evidence storage: local directory %s", cfg.EvidenceDir)
	}

	// Report metadata index
	var index evidence.Index
	switch cfg.ReportIndex {
	case config.IndexPostgres:
		index, err = evidence.NewPostgresIndex(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to report database: %v", err)
		}
		log.Println("Report index: postgres")
	case config.IndexSQLite:
		index, err = evidence.NewSQLiteIndex(cfg.ReportDatabase)
		if err != nil {
			log.Fatalf("Failed to open report database: %v", err)
		}
		log.Printf("Report index: sqlite at %s", cfg.ReportDatabase)
	default:
		log.Println("Report index: disabled")
	}
	if index != nil {
		defer index.Close()
	}

	opts := finder.Options{
		ConfidenceRadiusMeters: cfg.ConfidenceRadiusMeters,
		IncludeGhosts:          cfg.IncludeGhosts,
	}
	trainHandler := handlers.NewTrainHandler(feed, opts)
	reportHandler := handlers.NewReportHandler(store, index)
	healthHandler := handlers.NewHealthHandler(index)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/", handlers.Index(cfg.StaticFile))
	r.Get("/find-train/{route}", trainHandler.FindTrain)
	r.Post("/submit-report", reportHandler.SubmitReport)
	r.Get("/reports/recent", reportHandler.RecentReports)
	r.Get("/health", healthHandler.Health)
	r.Get("/healthz", handlers.Healthz)

	log.Printf("Server starting on :%s", cfg.Port)
	log.Println("  GET  /find-train/{route}?lat=&lon=")
	log.Println("  POST /submit-report")
	log.Println("  GET  /reports/recent")
	log.Println("  GET  /health")

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
