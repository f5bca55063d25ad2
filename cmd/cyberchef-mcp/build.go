package main

import (
	"fmt"

	"github.com/noctonic/cyberchef-mcp-sse/catalog"
	"github.com/noctonic/cyberchef-mcp-sse/chef"
	"github.com/noctonic/cyberchef-mcp-sse/config"
	"github.com/noctonic/cyberchef-mcp-sse/engine"
	"github.com/noctonic/cyberchef-mcp-sse/engine/local"
	"github.com/noctonic/cyberchef-mcp-sse/engine/remote"
	"go.uber.org/zap"
)

// loadCatalog returns the configured catalog, or the embedded default.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(cfg.Catalog.Path)
}

// newEngine builds the configured engine.
func newEngine(cfg *config.Config, logger *zap.Logger) (engine.Engine, error) {
	switch cfg.Engine.Kind {
	case config.EngineLocal:
		return local.NewDefault(), nil
	case config.EngineRemote:
		return remote.New(remote.Config{
			URL:     cfg.Engine.URL,
			Timeout: cfg.GetEngineTimeout(),
			Logger:  logger,
		})
	default:
		return nil, fmt.Errorf("unknown engine kind %q", cfg.Engine.Kind)
	}
}

// newChef wires catalog, engine and options into a Chef.
func newChef(cfg *config.Config, logger *zap.Logger) (*chef.Chef, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	eng, err := newEngine(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	logger.Info("catalog loaded",
		zap.Int("operations", cat.Len()),
		zap.Int("collisions", len(cat.Collisions())),
		zap.String("engine", cfg.Engine.Kind),
	)

	return chef.New(chef.Options{
		Catalog:     cat,
		Engine:      eng,
		BaseURL:     cfg.Recipe.BaseURL,
		BakeTimeout: cfg.GetEngineTimeout(),
		Logger:      logger,
	})
}
