package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	QdrantURL    string `envconfig:"QDRANT_URL" default:"http://localhost:6333"`
	QdrantAPIKey string `envconfig:"QDRANT_API_KEY"`

	KnowledgeCollection string `envconfig:"KNOWLEDGE_COLLECTION" default:"knowledge_bank"`
	ProposalCollection  string `envconfig:"PROPOSAL_COLLECTION" default:"usulan_bank"`
	DocumentCollection  string `envconfig:"DOCUMENT_COLLECTION" default:"document_bank"`

	LLMBaseURL    string `envconfig:"LLM_BASE_URL"`
	LLMAPIKey     string `envconfig:"LLM_API_KEY"`
	LLMModel      string `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
	LLMTimeoutSec int    `envconfig:"LLM_TIMEOUT_SEC" default:"15"`

	EmbeddingBaseURL    string `envconfig:"EMBEDDING_BASE_URL"`
	EmbeddingAPIKey     string `envconfig:"EMBEDDING_API_KEY"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL" default:"intfloat/multilingual-e5-base"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"768"`

	// Optional: prompt overrides live here. Compiled defaults are used when
	// unset.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"dokumen"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	OCRBaseURL string `envconfig:"OCR_BASE_URL"`
	OCRLang    string `envconfig:"OCR_LANG" default:"id"`

	UsePostSummary     bool `envconfig:"USE_POST_SUMMARY" default:"false"`
	PostSummaryTopK    int  `envconfig:"POST_SUMMARY_TOP_K" default:"2"`
	FallbackTimeoutSec int  `envconfig:"FALLBACK_TIMEOUT_SEC" default:"12"`

	// Optional: condensed outcome log. Silent when unset.
	SummaryLogPath string `envconfig:"SUMMARY_LOG_PATH"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("RAG", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasLLM() bool {
	return c.LLMAPIKey != "" || c.LLMBaseURL != ""
}

func (c *Config) HasOCR() bool {
	return c.OCRBaseURL != ""
}
