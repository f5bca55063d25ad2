// Package session tracks the client connections open on the server.
//
// The server owns the registry: a session is inserted under its MCP session
// ID once the client has initialized and removed when the session ends,
// whichever way it ends. Nothing outside the server mutates it.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Transport names.
const (
	TransportSSE        = "sse"
	TransportStreamable = "streamable"
	TransportStdio      = "stdio"
)

// Errors returned by the registry.
var (
	// ErrSessionExists is returned when registering a duplicate session ID.
	ErrSessionExists = errors.New("session already registered")

	// ErrIDRequired is returned when registering a session without an ID.
	ErrIDRequired = errors.New("session id is required")
)

// Session describes one live client connection.
type Session struct {
	ID          string    `json:"id"`
	Transport   string    `json:"transport"`
	ConnectedAt time.Time `json:"connected_at"`
}

// Registry manages live sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Register adds s to the registry. A zero ConnectedAt is set to now.
func (r *Registry) Register(s Session) error {
	if s.ID == "" {
		return ErrIDRequired
	}
	if s.ConnectedAt.IsZero() {
		s.ConnectedAt = r.now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[s.ID]; exists {
		return fmt.Errorf("%w: %s", ErrSessionExists, s.ID)
	}
	r.sessions[s.ID] = s
	return nil
}

// Unregister removes a session. Unknown IDs are ignored.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List returns all sessions, oldest first.
func (r *Registry) List() []Session {
	r.mu.RLock()
	out := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].ConnectedAt.Equal(out[j].ConnectedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ConnectedAt.Before(out[j].ConnectedAt)
	})
	return out
}
