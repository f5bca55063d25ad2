// Package server exposes a chef.Chef as an MCP server.
//
// It registers the CyberChef tools and the workflow prompt on an MCP server
// and serves it over SSE, streamable HTTP or stdio. The server also owns the
// session registry: a session is added, under its MCP session ID, once the
// client finishes initialization and removed when the session ends.
package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/noctonic/cyberchef-mcp-sse/chef"
	"github.com/noctonic/cyberchef-mcp-sse/session"
	"go.uber.org/zap"
)

// Implementation identity reported to clients.
const (
	Name    = "cyberchef-mcp"
	Version = "1.0.0"
)

// Default HTTP paths.
const (
	DefaultSSEPath    = "/sse"
	DefaultHTTPPath   = "/mcp"
	DefaultHealthPath = "/healthz"
)

// Config controls the server surface.
type Config struct {
	// SSEPath is where the SSE transport is mounted.
	// Default: /sse
	SSEPath string

	// HTTPPath is where the streamable HTTP transport is mounted.
	// Default: /mcp
	HTTPPath string

	// HealthPath serves the health report.
	// Default: /healthz
	HealthPath string

	// Version overrides the implementation version reported to clients.
	Version string

	// Sessions is the registry of live connections.
	// Default: a new registry.
	Sessions *session.Registry

	// Logger receives tool and request logs.
	// Default: a no-op logger.
	Logger *zap.Logger
}

// applyDefaults sets default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.SSEPath == "" {
		c.SSEPath = DefaultSSEPath
	}
	if c.HTTPPath == "" {
		c.HTTPPath = DefaultHTTPPath
	}
	if c.HealthPath == "" {
		c.HealthPath = DefaultHealthPath
	}
	if c.Version == "" {
		c.Version = Version
	}
	if c.Sessions == nil {
		c.Sessions = session.NewRegistry()
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// Option is a functional option for configuring a Server.
type Option func(*Config)

// WithSSEPath sets the SSE mount path.
func WithSSEPath(path string) Option {
	return func(c *Config) {
		c.SSEPath = path
	}
}

// WithHTTPPath sets the streamable HTTP mount path.
func WithHTTPPath(path string) Option {
	return func(c *Config) {
		c.HTTPPath = path
	}
}

// WithVersion sets the reported implementation version.
func WithVersion(v string) Option {
	return func(c *Config) {
		c.Version = v
	}
}

// WithSessions sets the session registry.
func WithSessions(r *session.Registry) Option {
	return func(c *Config) {
		c.Sessions = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// Server is an MCP server backed by a Chef.
//
// Each transport gets its own MCP server carrying the same tools, so every
// session is recorded with the transport it arrived on.
type Server struct {
	chef     *chef.Chef
	servers  map[string]*mcp.Server
	sessions *session.Registry
	cfg      Config
	logger   *zap.Logger
}

// New builds the MCP servers and registers every tool and the prompt.
func New(c *chef.Chef, opts ...Option) *Server {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.applyDefaults()

	s := &Server{
		chef:     c,
		servers:  make(map[string]*mcp.Server, 3),
		sessions: cfg.Sessions,
		cfg:      cfg,
		logger:   cfg.Logger.Named("server"),
	}
	for _, transport := range []string{session.TransportSSE, session.TransportStreamable, session.TransportStdio} {
		s.servers[transport] = s.newMCP(transport)
	}
	return s
}

func (s *Server) newMCP(transport string) *mcp.Server {
	m := mcp.NewServer(&mcp.Implementation{Name: Name, Version: s.cfg.Version}, &mcp.ServerOptions{
		InitializedHandler: func(_ context.Context, req *mcp.InitializedRequest) {
			s.track(transport, req.Session)
		},
	})
	s.registerTools(m)
	registerPrompts(m)
	return m
}

// MCP returns the server that backs stdio and in-process connections.
func (s *Server) MCP() *mcp.Server {
	return s.servers[session.TransportStdio]
}

// Sessions returns the live session registry.
func (s *Server) Sessions() *session.Registry {
	return s.sessions
}

// RunStdio serves a single client over stdin/stdout until ctx is done or
// the client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	err := s.MCP().Run(ctx, &mcp.StdioTransport{})
	s.logger.Info("stdio transport stopped", zap.Error(err))
	return err
}

// track records ss under its MCP session ID until the session ends.
// Transports without a session ID (stdio, in-memory) get a random one.
func (s *Server) track(transport string, ss *mcp.ServerSession) {
	id := ss.ID()
	if id == "" {
		id = uuid.NewString()
	}
	sess := session.Session{ID: id, Transport: transport, ConnectedAt: time.Now()}
	if err := s.sessions.Register(sess); err != nil {
		s.logger.Warn("session not tracked", zap.String("session", id), zap.Error(err))
		return
	}
	s.logger.Info("session opened", zap.String("session", id), zap.String("transport", transport))

	go func() {
		err := ss.Wait()
		s.sessions.Unregister(id)
		s.logger.Info("session closed",
			zap.String("session", id),
			zap.Duration("duration", time.Since(sess.ConnectedAt)),
			zap.Error(err),
		)
	}()
}
