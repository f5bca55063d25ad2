package server

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/noctonic/cyberchef-mcp-sse/catalog"
	"github.com/noctonic/cyberchef-mcp-sse/recipe"
	"go.uber.org/zap"
)

// Tool names.
const (
	ToolOpsList   = "cyberchef-ops-list"
	ToolOpArgs    = "cyberchef-op-args"
	ToolBake      = "cyberchef-bake"
	ToolOpsSearch = "cyberchef-ops-search"
)

const opsListDescription = `Returns a list of CyberChef operations that can be passed into cyberchef-bake.
Run cyberchef-op-args before choosing arguments.`

const opArgsDescription = `Given an operation name, returns its description and args.
Acceptable arg values by schema type:
  string, shortString, binaryString, binaryShortString, text, byteArray: string
  number: number
  boolean: boolean
  option, editableOption, editableOptionShort, argSelector: string
  populateOption, populateMultiOption: ""
  toggleString: {"string": string, "option": string}`

const bakeDescription = `A recipe is composed of multiple "ingredients" (operations).
Baking applies each operation in order, returning the final result as text.
Example: {"input":"NTMgNDUgNTYgNGQgNTQgNDUgMzggNjcgNTYgMzAgMzkgNTMgNTQgNDUgNTEgM2Q=",
"recipe":[{"op":"From Base64","args":["A-Za-z0-9+/=",true,false]},
          {"op":"From Hex","args":["Space"]},
          {"op":"From Base64","args":[]}]}
Run cyberchef-ops-list before choosing operations.
Run cyberchef-op-args for each op before choosing arguments.
Returns the CyberChef shareable URL and the UTF-8 text result of baking.`

const opsSearchDescription = `Searches CyberChef operations by keyword and returns the best matches
with their descriptions. Use it to narrow cyberchef-ops-list.`

// OpArgsInput is the input of cyberchef-op-args.
type OpArgsInput struct {
	OperationName string `json:"operationName" jsonschema:"operation name in any spelling"`
}

// BakeInput is the input of cyberchef-bake.
type BakeInput struct {
	Input  string        `json:"input"`
	Recipe []recipe.Step `json:"recipe"`
}

// BakeOutput is the structured output of cyberchef-bake.
type BakeOutput struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// SearchInput is the input of cyberchef-ops-search.
type SearchInput struct {
	Query string `json:"query" jsonschema:"keywords to search for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results"`
}

// SearchHit is one cyberchef-ops-search result.
type SearchHit struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// argValueSchema accepts every argument shape CyberChef operations take.
func argValueSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		AnyOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "number"},
			{Type: "boolean"},
			{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"string": {Type: "string"},
					"option": {Type: "string"},
				},
				Required: []string{"string", "option"},
			},
		},
	}
}

// BakeInputSchema is the JSON schema of cyberchef-bake's arguments.
func BakeInputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"input": {Type: "string", Description: "data to bake"},
			"recipe": {
				Type:        "array",
				Description: "operations applied in order",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"op":   {Type: "string"},
						"args": {Type: "array", Items: argValueSchema()},
					},
					Required: []string{"op"},
				},
			},
		},
		Required: []string{"input", "recipe"},
	}
}

func (s *Server) registerTools(m *mcp.Server) {
	mcp.AddTool(m, &mcp.Tool{
		Name:        ToolOpsList,
		Description: opsListDescription,
	}, s.handleOpsList)

	mcp.AddTool(m, &mcp.Tool{
		Name:        ToolOpArgs,
		Description: opArgsDescription,
	}, s.handleOpArgs)

	mcp.AddTool(m, &mcp.Tool{
		Name:        ToolBake,
		Description: bakeDescription,
		InputSchema: BakeInputSchema(),
	}, s.handleBake)

	mcp.AddTool(m, &mcp.Tool{
		Name:        ToolOpsSearch,
		Description: opsSearchDescription,
	}, s.handleOpsSearch)
}

func textResult(texts ...string) *mcp.CallToolResult {
	content := make([]mcp.Content, len(texts))
	for i, t := range texts {
		content[i] = &mcp.TextContent{Text: t}
	}
	return &mcp.CallToolResult{Content: content}
}

// marshalText encodes v as JSON without HTML escaping, optionally indented.
func marshalText(v any, indent bool) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

func (s *Server) handleOpsList(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	text, err := marshalText(s.chef.ListOperations(), false)
	if err != nil {
		return nil, nil, err
	}
	return textResult(text), nil, nil
}

func (s *Server) handleOpArgs(_ context.Context, _ *mcp.CallToolRequest, in OpArgsInput) (*mcp.CallToolResult, any, error) {
	text, err := marshalText(s.chef.DescribeOperation(in.OperationName), true)
	if err != nil {
		return nil, nil, err
	}
	return textResult(text), nil, nil
}

func (s *Server) handleBake(ctx context.Context, _ *mcp.CallToolRequest, in BakeInput) (*mcp.CallToolResult, BakeOutput, error) {
	res, err := s.chef.Bake(ctx, in.Input, in.Recipe)
	if err != nil {
		s.logger.Debug("bake failed", zap.Int("steps", len(in.Recipe)), zap.Error(err))
		return nil, BakeOutput{}, err
	}
	return textResult(res.URL, res.Text), BakeOutput{URL: res.URL, Text: res.Text}, nil
}

func (s *Server) handleOpsSearch(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, any, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = catalog.DefaultSearchLimit
	}
	entries, err := s.chef.SearchOperations(ctx, in.Query, limit)
	if err != nil {
		return nil, nil, err
	}

	hits := make([]SearchHit, len(entries))
	for i, e := range entries {
		hits[i] = SearchHit{Name: e.Name, Description: e.Description}
	}
	text, err := marshalText(hits, true)
	if err != nil {
		return nil, nil, err
	}
	return textResult(text), nil, nil
}
