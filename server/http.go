package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/noctonic/cyberchef-mcp-sse/session"
	"go.uber.org/zap"
)

// Health is the body served on the health path.
type Health struct {
	Status     string `json:"status"`
	Operations int    `json:"operations"`
	Sessions   int    `json:"sessions"`
}

// Handler returns the HTTP surface: the SSE transport, the streamable HTTP
// transport and the health report, wrapped in request logging.
func (s *Server) Handler() http.Handler {
	sse := s.servers[session.TransportSSE]
	streamable := s.servers[session.TransportStreamable]

	mux := http.NewServeMux()
	mux.Handle(s.cfg.SSEPath, mcp.NewSSEHandler(func(*http.Request) *mcp.Server { return sse }, nil))
	mux.Handle(s.cfg.HTTPPath, mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return streamable }, nil))
	mux.HandleFunc("GET "+s.cfg.HealthPath, s.handleHealth)

	return s.logRequests(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Health{
		Status:     "ok",
		Operations: s.chef.Catalog().Len(),
		Sessions:   s.sessions.Len(),
	})
}

// logRequests logs every request with its final status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	log := s.logger.Named("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// statusRecorder captures the response status. It forwards Flush so event
// streams keep working through it.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
