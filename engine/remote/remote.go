// Package remote provides an engine that bakes recipes on a CyberChef-server
// instance over HTTP.
//
// The server is expected to expose POST {base}/bake, accepting
// {"input": ..., "recipe": [{"op": ..., "args": [...]}]} and answering with
// {"value": ..., "type": ...}.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/noctonic/cyberchef-mcp-sse/engine"
	"go.uber.org/zap"
)

// Errors for remote engine operations.
var (
	// ErrEndpointRequired is returned when no server URL is configured.
	ErrEndpointRequired = errors.New("remote engine endpoint required")

	// ErrRemoteBakeFailed is returned when the server rejects a bake or
	// answers with something that is not a bake response.
	ErrRemoteBakeFailed = errors.New("remote bake failed")
)

// DefaultTimeout bounds a single bake request when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 4 << 10

// Config configures a remote engine.
type Config struct {
	// URL is the CyberChef-server base URL, e.g. http://localhost:3000.
	// Required.
	URL string

	// Timeout bounds each bake request.
	// Default: 30s
	Timeout time.Duration

	// Client performs the HTTP requests.
	// Default: a new http.Client.
	Client *http.Client

	// Logger is an optional logger for request events.
	Logger *zap.Logger
}

// Engine bakes recipes on a remote CyberChef server.
type Engine struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
	logger   *zap.Logger
}

// New creates a remote engine from cfg.
func New(cfg Config) (*Engine, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, ErrEndpointRequired
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		endpoint: base + "/bake",
		timeout:  timeout,
		client:   client,
		logger:   logger.Named("remote"),
	}, nil
}

// Endpoint returns the bake URL used for requests.
func (e *Engine) Endpoint() string {
	return e.endpoint
}

// BakeRequest is the wire request sent to the server.
type BakeRequest struct {
	Input  string        `json:"input"`
	Recipe []engine.Step `json:"recipe"`
}

// BakeResponse is the wire response from the server.
type BakeResponse struct {
	Value json.RawMessage `json:"value"`
	Type  string          `json:"type,omitempty"`
}

// Bake posts the recipe to the server and decodes its answer.
func (e *Engine) Bake(ctx context.Context, input string, steps []engine.Step) (engine.Result, error) {
	if steps == nil {
		steps = []engine.Step{}
	}
	body, err := json.Marshal(BakeRequest{Input: input, Recipe: steps})
	if err != nil {
		return engine.Result{}, fmt.Errorf("encode bake request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return engine.Result{}, fmt.Errorf("build bake request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Warn("bake request failed", zap.String("endpoint", e.endpoint), zap.Error(err))
		return engine.Result{}, fmt.Errorf("post %s: %w", e.endpoint, err)
	}
	defer resp.Body.Close()

	e.logger.Debug("bake response",
		zap.Int("status", resp.StatusCode),
		zap.Int("steps", len(steps)),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return engine.Result{}, fmt.Errorf("%w: %s: %s", ErrRemoteBakeFailed, resp.Status, strings.TrimSpace(string(msg)))
	}

	var out BakeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return engine.Result{}, fmt.Errorf("%w: decode response: %v", ErrRemoteBakeFailed, err)
	}
	if out.Value == nil {
		return engine.Result{}, fmt.Errorf("%w: missing value", ErrRemoteBakeFailed)
	}

	value, err := decodeValue(out.Value)
	if err != nil {
		return engine.Result{}, fmt.Errorf("%w: decode value: %v", ErrRemoteBakeFailed, err)
	}
	return engine.Result{Value: value, Type: out.Type}, nil
}

// decodeValue keeps numbers as json.Number so integer byte arrays survive
// without float rounding.
func decodeValue(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

var _ engine.Engine = (*Engine)(nil)
