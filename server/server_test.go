package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/noctonic/cyberchef-mcp-sse/catalog"
	"github.com/noctonic/cyberchef-mcp-sse/chef"
	"github.com/noctonic/cyberchef-mcp-sse/engine/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	c, err := chef.New(chef.Options{Catalog: cat, Engine: local.NewDefault()})
	require.NoError(t, err)
	return New(c, opts...)
}

// connect wires a client to s over in-memory transports.
func connect(t *testing.T, s *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := s.MCP().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
	})
	return cs
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func texts(t *testing.T, res *mcp.CallToolResult) []string {
	t.Helper()
	out := make([]string, 0, len(res.Content))
	for _, c := range res.Content {
		tc, ok := c.(*mcp.TextContent)
		require.True(t, ok, "content %T is not text", c)
		out = append(out, tc.Text)
	}
	return out
}

func TestServer_ListTools(t *testing.T) {
	cs := connect(t, newTestServer(t))

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{ToolOpsList, ToolOpArgs, ToolBake, ToolOpsSearch}, names)
}

func TestServer_OpsList(t *testing.T) {
	s := newTestServer(t)
	cs := connect(t, s)

	res := callTool(t, cs, ToolOpsList, map[string]any{})
	require.False(t, res.IsError)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(texts(t, res)[0]), &names))
	assert.Equal(t, s.chef.Catalog().Names(), names)
}

func TestServer_OpArgs(t *testing.T) {
	cs := connect(t, newTestServer(t))

	res := callTool(t, cs, ToolOpArgs, map[string]any{"operationName": "from-base64"})
	require.False(t, res.IsError)

	var matches []struct {
		Name        string           `json:"name"`
		Description string           `json:"description"`
		Args        []map[string]any `json:"args"`
	}
	text := texts(t, res)[0]
	require.NoError(t, json.Unmarshal([]byte(text), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "From Base64", matches[0].Name)
	assert.NotEmpty(t, matches[0].Args)
	assert.Contains(t, text, "\n  ", "describe output should be indented")

	res = callTool(t, cs, ToolOpArgs, map[string]any{"operationName": "nothing like this"})
	require.False(t, res.IsError)
	assert.Equal(t, "[]", texts(t, res)[0])
}

// Scenario A over the tool surface.
func TestServer_Bake(t *testing.T) {
	cs := connect(t, newTestServer(t))

	res := callTool(t, cs, ToolBake, map[string]any{
		"input": "uryyb",
		"recipe": []any{
			map[string]any{"op": "ROT13", "args": []any{true, true, 0}},
		},
	})
	require.False(t, res.IsError, "tool error: %v", texts(t, res))

	got := texts(t, res)
	require.Len(t, got, 2)
	assert.Equal(t, "https://gchq.github.io/CyberChef/#recipe=ROT13(true%2Ctrue%2C0)", got[0])
	assert.Equal(t, "hello", got[1])
}

func TestServer_BakeToggleArgument(t *testing.T) {
	cs := connect(t, newTestServer(t))

	res := callTool(t, cs, ToolBake, map[string]any{
		"input": "hello",
		"recipe": []any{
			map[string]any{"op": "XOR", "args": []any{
				map[string]any{"string": "20", "option": "Hex"}, "Standard", false,
			}},
		},
	})
	require.False(t, res.IsError, "tool error: %v", texts(t, res))

	got := texts(t, res)
	require.Len(t, got, 2)
	assert.True(t, strings.HasSuffix(got[0], "#recipe=XOR(%7B'string'%3A'20'%2C'option'%3A'Hex'%7D%2C'Standard'%2Cfalse)"), got[0])
	assert.Equal(t, "HELLO", got[1])
}

// Scenario B over the tool surface: an error, and no URL or text.
func TestServer_BakeUnresolved(t *testing.T) {
	cs := connect(t, newTestServer(t))

	res := callTool(t, cs, ToolBake, map[string]any{
		"input":  "x",
		"recipe": []any{map[string]any{"op": "Not A Real Op", "args": []any{}}},
	})
	require.True(t, res.IsError)

	got := strings.Join(texts(t, res), "\n")
	assert.Contains(t, got, `"Not A Real Op"`)
	assert.NotContains(t, got, "#recipe=")
}

func TestServer_BakeInvalidArgumentShape(t *testing.T) {
	cs := connect(t, newTestServer(t))

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name: ToolBake,
		Arguments: map[string]any{
			"input":  "x",
			"recipe": []any{map[string]any{"op": "ROT13", "args": []any{[]any{1, 2}}}},
		},
	})
	if err == nil {
		assert.True(t, res.IsError, "nested array argument must be rejected")
	}
}

func TestServer_OpsSearch(t *testing.T) {
	cs := connect(t, newTestServer(t))

	res := callTool(t, cs, ToolOpsSearch, map[string]any{"query": "base64", "limit": 3})
	require.False(t, res.IsError)

	var hits []SearchHit
	require.NoError(t, json.Unmarshal([]byte(texts(t, res)[0]), &hits))
	require.NotEmpty(t, hits)
	assert.LessOrEqual(t, len(hits), 3)

	var names []string
	for _, h := range hits {
		names = append(names, h.Name)
	}
	assert.Contains(t, names, "From Base64")
}

func TestServer_Prompt(t *testing.T) {
	cs := connect(t, newTestServer(t))

	res, err := cs.GetPrompt(context.Background(), &mcp.GetPromptParams{Name: PromptName})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, mcp.Role("user"), res.Messages[0].Role)

	tc, ok := res.Messages[0].Content.(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, PromptText, tc.Text)
}

func TestHandler_Health(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + DefaultHealthPath)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var h Health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, s.chef.Catalog().Len(), h.Operations)
	assert.Equal(t, 0, h.Sessions)
}

func TestHandler_HealthMethodNotAllowed(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+DefaultHealthPath, "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandler_SSESessionLifecycle(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx := context.Background()
	client := mcp.NewClient(&mcp.Implementation{Name: "sse-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, &mcp.SSEClientTransport{Endpoint: srv.URL + DefaultSSEPath}, nil)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return s.Sessions().Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	sessions := s.Sessions().List()
	require.Len(t, sessions, 1)
	assert.Equal(t, "sse", sessions[0].Transport)
	assert.NotEmpty(t, sessions[0].ID)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      ToolBake,
		Arguments: map[string]any{"input": "abc", "recipe": []any{map[string]any{"op": "To Upper case", "args": []any{"All"}}}},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, "ABC", texts(t, res)[1])

	require.NoError(t, cs.Close())
	assert.Eventually(t, func() bool { return s.Sessions().Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandler_Streamable(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx := context.Background()
	client := mcp.NewClient(&mcp.Implementation{Name: "http-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: srv.URL + DefaultHTTPPath}, nil)
	require.NoError(t, err)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: ToolOpsList, Arguments: map[string]any{}})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, texts(t, res)[0], "ROT13")

	// The registry is keyed by the Mcp-Session-Id the client was issued.
	require.NotEmpty(t, cs.ID())
	assert.Eventually(t, func() bool { return s.Sessions().Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	sessions := s.Sessions().List()
	require.Len(t, sessions, 1)
	assert.Equal(t, cs.ID(), sessions[0].ID)
	assert.Equal(t, "streamable", sessions[0].Transport)

	require.NoError(t, cs.Close())
	assert.Eventually(t, func() bool { return s.Sessions().Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServer_InProcessSessionTracked(t *testing.T) {
	s := newTestServer(t)
	cs := connect(t, s)

	assert.Eventually(t, func() bool { return s.Sessions().Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	sessions := s.Sessions().List()
	require.Len(t, sessions, 1)
	assert.Equal(t, "stdio", sessions[0].Transport)
	assert.NotEmpty(t, sessions[0].ID)

	require.NoError(t, cs.Close())
	assert.Eventually(t, func() bool { return s.Sessions().Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestStatusRecorder(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: rr, status: http.StatusOK}

	rec.WriteHeader(http.StatusTeapot)
	rec.WriteHeader(http.StatusInternalServerError)
	rec.Flush()

	assert.Equal(t, http.StatusTeapot, rec.status)
	assert.True(t, rr.Flushed)
	assert.Same(t, rr, rec.Unwrap())
}

func TestNew_Options(t *testing.T) {
	s := newTestServer(t, WithSSEPath("/events"), WithHTTPPath("/rpc"), WithVersion("9.9.9"))
	assert.Equal(t, "/events", s.cfg.SSEPath)
	assert.Equal(t, "/rpc", s.cfg.HTTPPath)
	assert.Equal(t, DefaultHealthPath, s.cfg.HealthPath)
	assert.Equal(t, "9.9.9", s.cfg.Version)
	assert.NotNil(t, s.Sessions())
}
