package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"creditreport-backend/internal/llm"
	"creditreport-backend/internal/llm/gemini"
	"creditreport-backend/internal/ocr"
	"creditreport-backend/internal/reports"
	"creditreport-backend/internal/shared/config"
	"creditreport-backend/internal/shared/server"
	"creditreport-backend/internal/shared/storage/db"
	"creditreport-backend/internal/shared/storage/object"
	localstore "creditreport-backend/internal/shared/storage/object/local"
	s3store "creditreport-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	DB      *sql.DB
	Store   object.ObjectStore
	Repo    reports.Repo
	Service *reports.Service
	Handler *reports.Handler
}

// Build prepares shared dependencies and wires the router. Missing required
// credentials are fatal outside dev-like environments.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	extractor, err := buildOCR(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var repo reports.Repo
	if sqlDB != nil {
		repo = &reports.PGRepo{DB: sqlDB}
	} else {
		repo = reports.NewMemoryRepo()
	}

	svc := &reports.Service{
		Repo:    repo,
		Fetcher: reports.NewHTTPFetcher(cfg.FetchTimeout),
		OCR:     extractor,
		LLM:     llmClient,
		Archive: store,
	}
	handler := reports.NewHandler(svc)

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   store,
		Repo:    repo,
		Service: svc,
		Handler: handler,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:  cfg,
		Reports: handler,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repository")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repository: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: GEMINI_API_KEY empty; using placeholder llm client")
			return llm.PlaceholderClient{}, nil
		}
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	return gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
}

func buildOCR(ctx context.Context, cfg config.Config) (ocr.Extractor, error) {
	if cfg.OCRProvider == "local" {
		return ocr.NewLocalExtractor(), nil
	}
	client, err := ocr.NewVisionClient(ctx, cfg.VisionAPIKey, cfg.VisionTimeout)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: vision client unavailable; using local pdf extractor: %v", err)
			return ocr.NewLocalExtractor(), nil
		}
		return nil, err
	}
	return client, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
