package chef

import (
	"errors"
	"time"

	"github.com/noctonic/cyberchef-mcp-sse/catalog"
	"github.com/noctonic/cyberchef-mcp-sse/engine"
	"github.com/noctonic/cyberchef-mcp-sse/recipe"
	"go.uber.org/zap"
)

// Default configuration values.
const (
	DefaultBakeTimeout = 30 * time.Second
)

// Errors returned by Options validation.
var (
	ErrCatalogRequired = errors.New("chef: Catalog is required")
	ErrEngineRequired  = errors.New("chef: Engine is required")
)

// Options configures a Chef instance.
type Options struct {
	// Catalog is the operation catalog used for list, describe and
	// resolution.
	// Required.
	Catalog *catalog.Catalog

	// Engine bakes compiled recipes.
	// Required.
	Engine engine.Engine

	// Index backs operation search.
	// Default: built from Catalog.
	Index *catalog.Index

	// BaseURL is the CyberChef page shareable URLs point at.
	// Default: recipe.DefaultBaseURL
	BaseURL string

	// BakeTimeout bounds a single engine call.
	// Default: 30s
	BakeTimeout time.Duration

	// Logger receives debug events for every operation.
	// Default: a no-op logger.
	Logger *zap.Logger
}

// validate checks that required fields are set.
func (o *Options) validate() error {
	if o.Catalog == nil {
		return ErrCatalogRequired
	}
	if o.Engine == nil {
		return ErrEngineRequired
	}
	return nil
}

// applyDefaults sets default values for unset optional fields.
func (o *Options) applyDefaults() error {
	if o.BaseURL == "" {
		o.BaseURL = recipe.DefaultBaseURL
	}
	if o.BakeTimeout == 0 {
		o.BakeTimeout = DefaultBakeTimeout
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Index == nil {
		idx, err := catalog.NewIndex(o.Catalog)
		if err != nil {
			return err
		}
		o.Index = idx
	}
	return nil
}
