package chef

import "time"

// Result is the outcome of a bake.
type Result struct {
	// URL is the shareable CyberChef URL reproducing the recipe.
	URL string `json:"url"`

	// Text is the rendered engine output.
	Text string `json:"text"`

	// Recipe is the compiled recipe string the URL encodes.
	Recipe string `json:"recipe,omitempty"`

	// Duration is the total time spent compiling, baking and rendering.
	Duration time.Duration `json:"-"`
}
