// Package recipe compiles user-submitted recipe steps against an operation
// catalog and renders them as CyberChef recipe strings and shareable URLs.
//
// A recipe is an ordered list of steps, each naming an operation and its
// positional arguments. Compile resolves every operation name (spelling
// variants are tolerated, see catalog.Normalize) and encodes every argument
// as a recipe-grammar literal:
//
//	compiled, err := recipe.Compile([]recipe.Step{
//	    {Op: "rot13", Args: recipe.Args{recipe.Boolean(true), recipe.Boolean(true), recipe.Number(0)}},
//	}, cat)
//	// compiled.Text == "ROT13(true,true,0)"
//	url := recipe.ShareableURL(recipe.DefaultBaseURL, compiled.Text)
//
// Compilation fails as a whole when any operation is unknown; a partial
// recipe is never returned.
//
// Known gap: string literals only escape single quotes. Commas and
// parentheses inside a string argument are emitted verbatim and are
// indistinguishable from recipe structure.
package recipe
