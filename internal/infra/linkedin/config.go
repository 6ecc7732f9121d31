package linkedin

import (
	"log/slog"

	"leadpulse/internal/pkg/config"
)

// ResolverConfig controls which providers join the chains. A provider is
// enabled by the presence of its credential; the direct scraper by an
// explicit flag since it yields thin data.
type ResolverConfig struct {
	BrightDataAPIKey string
	ApifyToken       string
	DirectFallback   bool
}

// LoadResolverConfig reads provider configuration from the environment.
func LoadResolverConfig(logger *slog.Logger) ResolverConfig {
	cfg := ResolverConfig{
		BrightDataAPIKey: config.LoadEnvString("BRIGHTDATA_API_KEY", ""),
		ApifyToken:       config.LoadEnvString("APIFY_API_KEY", ""),
	}

	var result config.ConfigLoadResult
	cfg.DirectFallback, result = config.LoadEnvBool("LINKEDIN_DIRECT_FALLBACK", true)
	for _, warning := range result.Warnings {
		logger.Warn("Configuration fallback applied",
			slog.String("field", "DirectFallback"),
			slog.String("warning", warning))
	}
	return cfg
}

// BuildResolver assembles the provider chains from the configuration.
//
// Chain order is fixed: Bright Data first (richest data), Apify second,
// and for company profiles the direct scraper last. Person profiles are
// Bright Data only; no other provider covers them.
func BuildResolver(cfg ResolverConfig, logger *slog.Logger) *Resolver {
	var profileChain []CompanyProfileProvider
	var postsChain []CompanyPostsProvider
	var personChain []PersonProfileProvider

	if cfg.BrightDataAPIKey != "" {
		brightData := NewBrightDataClient(cfg.BrightDataAPIKey)
		profileChain = append(profileChain, brightData)
		postsChain = append(postsChain, brightData)
		personChain = append(personChain, brightData)
	}
	if cfg.ApifyToken != "" {
		apify := NewApifyClient(cfg.ApifyToken)
		profileChain = append(profileChain, apify)
		postsChain = append(postsChain, apify)
	}
	if cfg.DirectFallback {
		profileChain = append(profileChain, NewDirectScraper())
	}

	logger.Info("linkedin resolver configured",
		slog.Int("profile_providers", len(profileChain)),
		slog.Int("posts_providers", len(postsChain)),
		slog.Int("person_providers", len(personChain)))

	return NewResolver(profileChain, postsChain, personChain, logger)
}
