package recipe

import (
	"errors"
	"fmt"
)

// Sentinel errors for error classification.
var (
	// ErrUnresolvedOperation indicates a step names an operation that has no
	// normalized match in the catalog.
	ErrUnresolvedOperation = errors.New("unresolved operation")

	// ErrInvalidArgument indicates an argument value outside the supported
	// union (string, number, boolean, toggle object).
	ErrInvalidArgument = errors.New("invalid argument")
)

// ResolutionError reports the step whose operation could not be resolved.
type ResolutionError struct {
	// Index is the zero-based position of the step in the recipe.
	Index int

	// Op is the operation name exactly as submitted.
	Op string
}

// Error returns the error message naming the offending operation.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no matching operation for %q", e.Op)
}

// Is reports whether this error matches the target.
// ResolutionError matches ErrUnresolvedOperation.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrUnresolvedOperation
}
