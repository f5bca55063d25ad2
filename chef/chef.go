package chef

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/noctonic/cyberchef-mcp-sse/catalog"
	"github.com/noctonic/cyberchef-mcp-sse/engine"
	"github.com/noctonic/cyberchef-mcp-sse/recipe"
	"go.uber.org/zap"
)

// Chef is the facade behind every tool: it lists, describes and searches
// operations, and bakes recipes into text plus a shareable URL.
//
// A Chef is safe for concurrent use. Nothing is cached between bakes.
type Chef struct {
	catalog *catalog.Catalog
	engine  engine.Engine
	index   *catalog.Index
	opts    Options
	logger  *zap.Logger
}

// New creates a new Chef with the given options.
func New(opts Options) (*Chef, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := opts.applyDefaults(); err != nil {
		return nil, err
	}

	return &Chef{
		catalog: opts.Catalog,
		engine:  opts.Engine,
		index:   opts.Index,
		opts:    opts,
		logger:  opts.Logger.Named("chef"),
	}, nil
}

// Catalog returns the underlying operation catalog.
func (c *Chef) Catalog() *catalog.Catalog {
	return c.catalog
}

// BaseURL returns the CyberChef page used for shareable URLs.
func (c *Chef) BaseURL() string {
	return c.opts.BaseURL
}

// ListOperations returns every operation name in catalog order.
func (c *Chef) ListOperations() []string {
	names := c.catalog.Names()
	c.logger.Debug("list operations", zap.Int("count", len(names)))
	return names
}

// DescribeOperation returns every operation whose normalized name equals
// the normalized query. No match yields an empty, non-nil slice.
func (c *Chef) DescribeOperation(name string) []catalog.Match {
	entries := c.catalog.Match(name)
	out := make([]catalog.Match, len(entries))
	for i, e := range entries {
		out[i] = e.Match()
	}
	c.logger.Debug("describe operation", zap.String("operation", name), zap.Int("matches", len(out)))
	return out
}

// SearchOperations runs a keyword search over the catalog.
func (c *Chef) SearchOperations(ctx context.Context, query string, limit int) ([]catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := c.index.Search(query, limit)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("search operations", zap.String("query", query), zap.Int("hits", len(entries)))
	return entries, nil
}

// Compile resolves steps and renders the recipe string without baking.
func (c *Chef) Compile(steps []recipe.Step) (recipe.Compiled, error) {
	return recipe.Compile(steps, c.catalog)
}

// URL compiles steps and returns their shareable URL.
func (c *Chef) URL(steps []recipe.Step) (string, error) {
	compiled, err := c.Compile(steps)
	if err != nil {
		return "", err
	}
	return recipe.ShareableURL(c.opts.BaseURL, compiled.Text), nil
}

// Bake compiles steps, runs them on the engine and renders the output.
// Resolution happens before the engine is called, so an unresolvable step
// produces no partial result.
func (c *Chef) Bake(ctx context.Context, input string, steps []recipe.Step) (Result, error) {
	start := time.Now()
	log := c.logger.With(zap.String("request_id", uuid.NewString()))

	compiled, err := c.Compile(steps)
	if err != nil {
		log.Debug("compile failed", zap.Error(err))
		return Result{Duration: time.Since(start)}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.BakeTimeout)
	defer cancel()

	value, err := c.engine.Bake(ctx, input, compiled.EngineSteps())
	if err != nil {
		log.Debug("engine failed", zap.Int("steps", len(compiled.Steps)), zap.Error(err))
		return Result{Recipe: compiled.Text, Duration: time.Since(start)}, err
	}

	text, err := engine.Render(value)
	if err != nil {
		log.Debug("render failed", zap.String("type", value.Type), zap.Error(err))
		return Result{Recipe: compiled.Text, Duration: time.Since(start)}, err
	}

	res := Result{
		URL:      recipe.ShareableURL(c.opts.BaseURL, compiled.Text),
		Text:     text,
		Recipe:   compiled.Text,
		Duration: time.Since(start),
	}
	log.Debug("baked",
		zap.Int("steps", len(compiled.Steps)),
		zap.Int("output_bytes", len(text)),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}
