package recipe

import (
	"strings"

	"github.com/noctonic/cyberchef-mcp-sse/catalog"
	"github.com/noctonic/cyberchef-mcp-sse/engine"
)

// Step is one user-submitted recipe step.
type Step struct {
	// Op is the operation name in any spelling the catalog tolerates.
	Op string `json:"op"`

	// Args are the positional arguments, in order.
	Args Args `json:"args"`
}

// Resolver maps a user-supplied operation name to a catalog entry.
// *catalog.Catalog implements it.
type Resolver interface {
	Resolve(name string) (catalog.Entry, bool)
}

// CompiledStep is a step whose operation has been resolved.
type CompiledStep struct {
	// Name is the canonical catalog name of the operation.
	Name string

	// Args are the submitted arguments, unchanged.
	Args Args
}

// String renders the step as Name(lit1,lit2,...). A step without arguments
// still renders its parentheses.
func (s CompiledStep) String() string {
	return s.Name + "(" + strings.Join(s.Args.Literals(), ",") + ")"
}

// Compiled is a fully resolved recipe.
type Compiled struct {
	// Steps are the resolved steps in submission order.
	Steps []CompiledStep

	// Text is the recipe string: every step rendered and concatenated
	// without separators.
	Text string
}

// EngineSteps returns the structured step list for the engine: canonical
// operation names with raw, unencoded argument values.
func (c Compiled) EngineSteps() []engine.Step {
	out := make([]engine.Step, len(c.Steps))
	for i, s := range c.Steps {
		out[i] = engine.Step{Op: s.Name, Args: s.Args.Raw()}
	}
	return out
}

// Compile resolves every step against r and renders the recipe string.
// The first unresolvable step aborts compilation with a *ResolutionError.
func Compile(steps []Step, r Resolver) (Compiled, error) {
	compiled := Compiled{Steps: make([]CompiledStep, 0, len(steps))}

	var text strings.Builder
	for i, step := range steps {
		entry, ok := r.Resolve(step.Op)
		if !ok {
			return Compiled{}, &ResolutionError{Index: i, Op: step.Op}
		}
		cs := CompiledStep{Name: entry.Name, Args: step.Args}
		compiled.Steps = append(compiled.Steps, cs)
		text.WriteString(cs.String())
	}

	compiled.Text = text.String()
	return compiled, nil
}
