// Package local provides an in-process engine with a built-in set of
// CyberChef operations.
//
// Data flows between steps as raw bytes. Each operation declares whether it
// produces text or a byte array; the declared type of the last step decides
// the type of the result value.
package local

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/noctonic/cyberchef-mcp-sse/catalog"
	"github.com/noctonic/cyberchef-mcp-sse/engine"
)

// Output types an operation may declare.
const (
	TypeString    = "string"
	TypeByteArray = "byteArray"
)

// HandlerFunc is the function signature for operation handlers.
// It receives the current data and the step's raw arguments.
type HandlerFunc func(ctx context.Context, data []byte, args Args) ([]byte, error)

// OpDef defines a local operation with its handler.
type OpDef struct {
	// Name is the canonical operation name, as it appears in the catalog.
	Name string

	// OutputType is TypeString or TypeByteArray. Empty means TypeString.
	OutputType string

	Handler HandlerFunc
}

// Engine implements engine.Engine with locally registered operations.
// Operations are keyed by normalized name, so both canonical and normalized
// spellings reach the same handler.
type Engine struct {
	mu  sync.RWMutex
	ops map[string]OpDef
}

// New creates an engine with no operations.
func New() *Engine {
	return &Engine{ops: make(map[string]OpDef)}
}

// NewDefault creates an engine with every built-in operation registered.
func NewDefault() *Engine {
	e := New()
	for _, def := range Builtins() {
		e.Register(def)
	}
	return e
}

// Register adds or replaces an operation.
func (e *Engine) Register(def OpDef) {
	if def.OutputType == "" {
		def.OutputType = TypeString
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ops[catalog.Normalize(def.Name)] = def
}

// Unregister removes an operation.
func (e *Engine) Unregister(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.ops, catalog.Normalize(name))
}

// Operations returns the canonical names of all registered operations,
// sorted for deterministic output.
func (e *Engine) Operations() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.ops))
	for _, def := range e.ops {
		out = append(out, def.Name)
	}
	sort.Strings(out)
	return out
}

func (e *Engine) lookup(name string) (OpDef, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	def, ok := e.ops[catalog.Normalize(name)]
	return def, ok && def.Handler != nil
}

// Bake runs steps over input in order.
func (e *Engine) Bake(ctx context.Context, input string, steps []engine.Step) (engine.Result, error) {
	data := []byte(input)
	outType := TypeString

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return engine.Result{}, err
		}
		def, ok := e.lookup(step.Op)
		if !ok {
			return engine.Result{}, fmt.Errorf("step %d: %w: %s", i, engine.ErrUnknownOperation, step.Op)
		}
		out, err := def.Handler(ctx, data, Args(step.Args))
		if err != nil {
			return engine.Result{}, fmt.Errorf("step %d (%s): %w", i, def.Name, err)
		}
		data = out
		outType = def.OutputType
	}

	if outType == TypeByteArray {
		return engine.Result{Value: data, Type: TypeByteArray}, nil
	}
	return engine.Result{Value: string(data), Type: TypeString}, nil
}
