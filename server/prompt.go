package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PromptName is the name of the workflow prompt.
const PromptName = "cyberchef-prompt"

// PromptText is the fixed workflow guidance returned by the prompt.
const PromptText = `CyberChef - The Cyber Swiss Army Knife
A tool for encryption, encoding, compression and data analysis.
CyberChef allows you to chain together operations into a single
"recipe" before baking. Data is passed between operations in a
recipe as raw bytes without re-encoding.

Steps for using CyberChef
1. List the available operations.
2. Get the arguments for operations you want to use.
3. Construct a recipe of operations and arguments to crack the code.
4. You may run operations individually to check results.
5. Construct a single recipe to crack the code and run it to verify the results.
6. Provide the user with the recipe, results, and URL.

DO NOT ATTEMPT MANUAL DATA MANIPULATION, ALWAYS USE THE TOOLS.
RECIPE OUTPUT IS UTF-8 ENCODED.
`

func registerPrompts(m *mcp.Server) {
	m.AddPrompt(&mcp.Prompt{
		Name:        PromptName,
		Description: "How to solve a decoding task with the CyberChef tools.",
	}, handlePrompt)
}

func handlePrompt(_ context.Context, _ *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: PromptText}},
		},
	}, nil
}
