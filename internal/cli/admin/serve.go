package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/pemkomedan/rag-layanan/internal/api/handlers"
	"github.com/pemkomedan/rag-layanan/internal/config"
	"github.com/pemkomedan/rag-layanan/internal/embedding"
	"github.com/pemkomedan/rag-layanan/internal/index"
	"github.com/pemkomedan/rag-layanan/internal/ingest"
	"github.com/pemkomedan/rag-layanan/internal/llm"
	"github.com/pemkomedan/rag-layanan/internal/ocr"
	"github.com/pemkomedan/rag-layanan/internal/repository"
	"github.com/pemkomedan/rag-layanan/internal/server"
	"github.com/pemkomedan/rag-layanan/internal/service"
	"github.com/pemkomedan/rag-layanan/internal/storage"
	"github.com/pemkomedan/rag-layanan/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the retrieval API server",
		Long:  "Start the layanan retrieval API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SentryDSN != "" {
		sampleRate := 0.1
		if cfg.Environment == "development" {
			sampleRate = 1.0
		}
		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	// Postgres only stores prompt overrides; the engine runs without it.
	var pool *pgxpool.Pool
	if cfg.HasDatabase() {
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
		log.Println("connected to database")

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			if err := runMigrations(cfg.DatabaseURL); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
		}
	} else {
		log.Println("no database configured, using compiled prompt defaults")
	}

	variableRepo := repository.NewVariableRepository(pool)

	indexClient := index.NewClient(index.Config{
		URL:    cfg.QdrantURL,
		APIKey: cfg.QdrantAPIKey,
	})

	embedClient := embedding.NewClient(embedding.Config{
		APIKey:     cfg.EmbeddingAPIKey,
		BaseURL:    cfg.EmbeddingBaseURL,
		Model:      openai.EmbeddingModel(cfg.EmbeddingModel),
		Dimensions: cfg.EmbeddingDimensions,
	})

	llmTimeout := time.Duration(cfg.LLMTimeoutSec) * time.Second
	chatAPI := llm.NewOpenAIAdapter(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	judge := llm.NewJudge(chatAPI, variableRepo, llmTimeout)
	preFilter := llm.NewPreFilter(chatAPI, variableRepo, llmTimeout)
	reformulator := llm.NewReformulator(chatAPI, variableRepo, llmTimeout)
	summarizer := llm.NewSummarizer(chatAPI, llmTimeout)
	if !cfg.HasLLM() {
		log.Println("no LLM configured, advisory checks degrade to safe defaults")
	}

	documentSvc := service.NewDocumentService(
		embedClient, indexClient, summarizer,
		cfg.DocumentCollection, cfg.UsePostSummary, cfg.PostSummaryTopK,
	)
	fallback := service.NewFallbackCoordinator(
		documentSvc, judge, time.Duration(cfg.FallbackTimeoutSec)*time.Second,
	)
	retrievalSvc := service.NewRetrievalService(
		preFilter, judge, embedClient, indexClient, fallback, cfg.KnowledgeCollection,
	)
	proposalSvc := service.NewProposalService(
		reformulator, judge, embedClient, indexClient, cfg.ProposalCollection,
	)
	syncSvc := service.NewSyncService(
		embedClient, indexClient, cfg.KnowledgeCollection, cfg.ProposalCollection,
	)

	if cfg.SummaryLogPath != "" {
		summaryFile, err := os.OpenFile(cfg.SummaryLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open summary log: %w", err)
		}
		defer summaryFile.Close()
		summaryLog := service.NewSummaryLog(summaryFile)
		retrievalSvc.SetSummaryLog(summaryLog)
		proposalSvc.SetSummaryLog(summaryLog)
		log.Printf("summary log enabled at %s", cfg.SummaryLogPath)
	}

	var objects ingest.ObjectDownloader
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		objects = s3Client
		log.Printf("S3 source enabled (bucket '%s')", cfg.S3Bucket)
	}

	ocrClient := ocr.NewClient(ocr.Config{URL: cfg.OCRBaseURL, Lang: cfg.OCRLang})
	extractor, err := ocr.NewExtractor(ocrClient)
	if err != nil {
		return fmt.Errorf("failed to create OCR extractor: %w", err)
	}
	defer extractor.Release()
	if !cfg.HasOCR() {
		log.Println("no OCR endpoint configured, doc-sync will fail until one is set")
	}

	pipeline := ingest.NewPipeline(
		ingest.NewSourceResolver(objects, 0),
		extractor,
		ingest.NewMerger(embedClient),
		summarizer,
		embedClient,
		indexClient,
		cfg.DocumentCollection,
	)

	router := server.NewRouter(server.RouterConfig{
		HealthHandler:   handlers.NewHealthHandler(indexClient, embedClient),
		SearchHandler:   handlers.NewSearchHandler(retrievalSvc),
		SyncHandler:     handlers.NewSyncHandler(syncSvc),
		UsulanHandler:   handlers.NewUsulanHandler(proposalSvc, syncSvc),
		DocumentHandler: handlers.NewDocumentHandler(documentSvc, pipeline),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
