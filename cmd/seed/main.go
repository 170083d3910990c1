// Command seed prepares a deployment: it uploads the authorization model and
// demo tuples to the policy store, and seeds the document corpus into
// Postgres when a database is configured.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"ragguard/internal/config"
	"ragguard/internal/domain/models"
	"ragguard/internal/policy"
	"ragguard/internal/repository/memory"
	"ragguard/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	skipFGA := flag.Bool("skip-fga", false, "Skip policy store setup")
	skipDB := flag.Bool("skip-db", false, "Skip database seeding")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()

	if !*skipFGA {
		if err := seedPolicyStore(ctx, cfg, logger); err != nil {
			log.Fatalf("Failed to seed policy store: %v", err)
		}
	}

	if !*skipDB {
		if err := seedDatabase(ctx, cfg, logger); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}
}

func seedPolicyStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.FGAAPIURL == "" || cfg.FGAStoreID == "" {
		logger.Warn("FGA_API_URL or FGA_STORE_ID not set, skipping policy store setup")
		return nil
	}

	admin := policy.NewAdminClient(cfg.FGAAPIURL, cfg.FGAStoreID, cfg.FGAAPIToken)

	modelID, err := admin.WriteAuthorizationModel(ctx, []byte(policy.AuthorizationModelJSON))
	if err != nil {
		return fmt.Errorf("upload authorization model: %w", err)
	}
	logger.Info("authorization model uploaded", "model_id", modelID)

	tuples := policy.DemoTuples()
	if err := admin.WriteTuples(ctx, tuples); err != nil {
		return fmt.Errorf("write tuples: %w", err)
	}
	logger.Info("relationship tuples written", "count", len(tuples))

	return nil
}

func seedDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, skipping database seeding")
		return nil
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		return err
	}
	logger.Info("schema ensured", "table_prefix", cfg.TablePrefix)

	docs := memory.SeedDocuments()
	if err := upsertDocuments(ctx, pool, tables, docs); err != nil {
		return err
	}
	logger.Info("documents seeded", "count", len(docs))

	return nil
}

func upsertDocuments(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, docs []*models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, content, sensitivity, resource_type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
		    content = EXCLUDED.content,
		    sensitivity = EXCLUDED.sensitivity,
		    resource_type = EXCLUDED.resource_type
	`, tables.Documents)

	for _, doc := range docs {
		rt := doc.ResourceType
		if rt == "" {
			rt = "document"
		}
		if _, err := pool.Exec(ctx, query, doc.ID, doc.Title, doc.Content, string(doc.Sensitivity), rt); err != nil {
			return fmt.Errorf("upsert document %s: %w", doc.ID, err)
		}
	}

	return nil
}
