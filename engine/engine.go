// Package engine defines the contract between the recipe bridge and a
// transformation engine, and normalizes engine output to text.
//
// The engine itself is a collaborator: it accepts an input and an ordered
// list of steps and returns a value. Implementations live in the local
// (in-process) and remote (CyberChef-server over HTTP) subpackages.
package engine

import (
	"context"
	"errors"
)

// Sentinel errors shared by engine implementations.
var (
	// ErrUnknownOperation indicates the engine has no implementation for a
	// step's operation.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrInvalidArgument indicates a step argument the operation cannot use.
	ErrInvalidArgument = errors.New("invalid operation argument")

	// ErrOperationFailed indicates an operation ran and failed on its input.
	ErrOperationFailed = errors.New("operation failed")
)

// Step is one engine-facing recipe step.
type Step struct {
	// Op is the canonical operation name.
	Op string `json:"op"`

	// Args are raw argument values: string, float64, bool or
	// map[string]any{"string", "option"}.
	Args []any `json:"args"`
}

// Result is what an engine returns from a bake.
type Result struct {
	// Value is text, a byte sequence, or any other value.
	Value any `json:"value"`

	// Type is the engine's own name for the value's type, if it reports one
	// (e.g. "string", "byteArray"). Informational only.
	Type string `json:"type,omitempty"`
}

// Engine applies recipe steps to an input.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Ordering: steps are applied strictly in order; each step's output is the
// next step's input.
// - Context: implementations should honor cancellation between steps or
// around blocking I/O.
// - Errors: unknown operations wrap ErrUnknownOperation; bad arguments wrap
// ErrInvalidArgument.
// - Ownership: steps are read-only.
type Engine interface {
	Bake(ctx context.Context, input string, steps []Step) (Result, error)
}

// Func adapts an ordinary function to the Engine interface.
type Func func(ctx context.Context, input string, steps []Step) (Result, error)

// Bake calls f.
func (f Func) Bake(ctx context.Context, input string, steps []Step) (Result, error) {
	return f(ctx, input, steps)
}
