package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"ragguard/internal/audit"
	"ragguard/internal/auth"
	"ragguard/internal/config"
	"ragguard/internal/domain/repositories"
	"ragguard/internal/generate"
	"ragguard/internal/handler"
	"ragguard/internal/middleware"
	"ragguard/internal/policy"
	"ragguard/internal/repository/memory"
	"ragguard/internal/repository/postgres"
	"ragguard/internal/service/gate"
	"ragguard/internal/service/rag"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"dev_auth", cfg.AllowDevAuth,
	)

	ctx := context.Background()

	// Identity: JWKS verifier when configured, dev directory when enabled.
	var verifier auth.TokenVerifier
	if cfg.AuthJWKSURL != "" {
		v, err := auth.NewJWTVerifier(cfg.AuthJWKSURL, cfg.AuthIssuer, cfg.AuthAudience, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer v.Close()
		verifier = v
	}
	if verifier == nil && !cfg.AllowDevAuth {
		log.Fatal("No identity source configured: set AUTH_JWKS_URL or enable ALLOW_DEV_AUTH")
	}

	var devDirectory = auth.DefaultDevDirectory()
	if !cfg.AllowDevAuth {
		devDirectory = nil
	}
	resolver := auth.NewResolver(verifier, devDirectory, cfg.AllowDevAuth, logger)

	// Catalog and audit store: Postgres when a database is configured,
	// in-memory otherwise.
	var (
		catalog    repositories.DocumentCatalog
		auditStore repositories.AuditStore
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		catalog = postgres.NewCatalog(repoConfig)
		auditStore = postgres.NewAuditStore(repoConfig)
		logger.Info("database connected", "table_prefix", cfg.TablePrefix)
	} else {
		if cfg.CorpusFile != "" {
			c, err := memory.LoadCatalog(cfg.CorpusFile)
			if err != nil {
				log.Fatalf("Failed to load corpus file: %v", err)
			}
			catalog = c
			logger.Info("in-memory catalog loaded", "corpus_file", cfg.CorpusFile)
		} else {
			catalog = memory.NewCatalog(memory.SeedDocuments())
			logger.Info("in-memory catalog loaded", "source", "seed corpus")
		}
		auditStore = audit.NewLogStore(logger)
	}

	recorder := audit.NewAsyncRecorder(auditStore, 1024, logger)
	defer recorder.Close()

	// Policy-check collaborator. The static client is a dev convenience
	// only; production must point at a real store.
	var policyClient policy.Client
	if cfg.FGAAPIURL != "" && cfg.FGAStoreID != "" {
		client, err := policy.NewOpenFGAClient(cfg.FGAAPIURL, cfg.FGAStoreID, cfg.FGAAPIToken, logger)
		if err != nil {
			log.Fatalf("Failed to create policy client: %v", err)
		}
		policyClient = client
		logger.Info("policy client initialized", "store_id", cfg.FGAStoreID)
	} else {
		if cfg.Environment == "prod" {
			log.Fatal("No policy store configured: set FGA_API_URL and FGA_STORE_ID")
		}
		policyClient = policy.NewStaticClient(policy.DemoTuples())
		logger.Warn("using in-memory policy rules (dev only) - configure FGA_API_URL for a real store")
	}

	// Authorization gateway and retrieval pipeline.
	gateway := gate.New(policyClient, catalog, recorder, gate.Options{
		CacheTTL:    cfg.DecisionCacheTTL,
		CacheSize:   cfg.DecisionCacheSize,
		Concurrency: cfg.CheckConcurrency,
		Timeout:     cfg.CheckTimeout,
		Retries:     cfg.CheckRetries,
	}, logger)

	generator, err := generate.Setup(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup generation provider: %v", err)
	}

	pipeline := rag.NewPipeline(
		rag.NewCatalogRetriever(catalog),
		gateway,
		generator,
		rag.Options{
			TopK:                cfg.TopK,
			ExposeBlockedTitles: cfg.ExposeBlockedTitles,
		},
		logger,
	)

	queryHandler := handler.NewQueryHandler(pipeline, logger)
	usersHandler := handler.NewUsersHandler(resolver, cfg.AllowDevAuth, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", handler.Index)
	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.HandleFunc("POST /query", queryHandler.Query)
	mux.HandleFunc("GET /users", usersHandler.ListUsers)

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	var httpHandler http.Handler = mux
	httpHandler = middleware.Auth(resolver, "/", "/health")(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.DevUserHeader},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
