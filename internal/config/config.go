package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string

	// Identity
	AuthJWKSURL  string
	AuthIssuer   string
	AuthAudience string
	AllowDevAuth bool // allow X-Dev-User header (never enable in production)

	// Policy-check collaborator (OpenFGA / Auth0 FGA)
	FGAAPIURL   string
	FGAStoreID  string
	FGAAPIToken string

	// Authorization gateway
	DecisionCacheTTL  time.Duration
	DecisionCacheSize int
	CheckConcurrency  int // bounded fan-out width per batch
	CheckTimeout      time.Duration
	CheckRetries      int // retries for transient failures only

	// Retrieval pipeline
	TopK int
	// ExposeBlockedTitles controls whether blocked-document titles appear in
	// responses. Whether document existence is itself sensitive is a
	// deployment policy, so this is configuration, not an assumption.
	ExposeBlockedTitles bool

	// Storage (optional; in-memory catalog when empty)
	DatabaseURL string
	TablePrefix string
	CorpusFile  string // optional YAML corpus for the in-memory catalog

	// Generation
	AnthropicAPIKey    string
	GenerationProvider string
	GenerationModel    string

	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		AuthJWKSURL:  getEnv("AUTH_JWKS_URL", ""),
		AuthIssuer:   getEnv("AUTH_ISSUER", ""),
		AuthAudience: getEnv("AUTH_AUDIENCE", ""),
		AllowDevAuth: getBool("ALLOW_DEV_AUTH", env != "prod"),

		FGAAPIURL:   getEnv("FGA_API_URL", ""),
		FGAStoreID:  getEnv("FGA_STORE_ID", ""),
		FGAAPIToken: getEnv("FGA_API_TOKEN", ""),

		DecisionCacheTTL:  getDuration("DECISION_CACHE_TTL", 30*time.Second),
		DecisionCacheSize: getInt("DECISION_CACHE_SIZE", 4096),
		CheckConcurrency:  getInt("CHECK_CONCURRENCY", 8),
		CheckTimeout:      getDuration("CHECK_TIMEOUT", 2*time.Second),
		CheckRetries:      getInt("CHECK_RETRIES", 1),

		TopK:                getInt("RAG_TOP_K", 3),
		ExposeBlockedTitles: getBool("EXPOSE_BLOCKED_TITLES", true),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		TablePrefix: getTablePrefix(env),
		CorpusFile:  getEnv("CORPUS_FILE", ""),

		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		GenerationProvider: getEnv("GENERATION_PROVIDER", "extractive"),
		GenerationModel:    getEnv("GENERATION_MODEL", "claude-haiku-4-5-20251001"),

		Debug: getBool("DEBUG", env != "prod"),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
