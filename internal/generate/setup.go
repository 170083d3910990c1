package generate

import (
	"fmt"
	"log/slog"

	"ragguard/internal/config"
	"ragguard/internal/domain/services"
)

// Setup selects the generation provider from configuration.
func Setup(cfg *config.Config, logger *slog.Logger) (services.Generator, error) {
	switch cfg.GenerationProvider {
	case "anthropic":
		gen, err := NewAnthropicGenerator(cfg.AnthropicAPIKey, cfg.GenerationModel)
		if err != nil {
			return nil, fmt.Errorf("setup anthropic generator: %w", err)
		}
		logger.Info("generation provider initialized", "provider", "anthropic", "model", cfg.GenerationModel)
		return gen, nil

	case "extractive", "":
		logger.Info("generation provider initialized", "provider", "extractive")
		return NewExtractiveGenerator(), nil

	default:
		return nil, fmt.Errorf("unknown generation provider: %s", cfg.GenerationProvider)
	}
}
