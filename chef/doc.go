// Package chef ties the catalog, the recipe compiler and an engine together.
//
// A Chef is constructed once per process from Options and backs every tool
// the server exposes. Bake runs the whole pipeline:
//
//	steps -> resolve + encode (recipe.Compile)
//	      -> engine bake with canonical names and raw arguments
//	      -> engine.Render
//	      -> recipe.ShareableURL
//
// Usage:
//
//	cat, err := catalog.Default()
//	c, err := chef.New(chef.Options{Catalog: cat, Engine: local.NewDefault()})
//	res, err := c.Bake(ctx, "uryyb", []recipe.Step{{Op: "ROT13"}})
package chef
