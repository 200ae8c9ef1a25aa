package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func connectClient(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	server := NewServer(Config{Viewer: newTestRegistry(t)})
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()

	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	return cs
}

func callText(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestServer_ListTools(t *testing.T) {
	cs := connectClient(t)

	res, err := cs.ListTools(context.Background(), &sdkmcp.ListToolsParams{})
	require.NoError(t, err)
	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{"get_view", "search_variants", "sort_variants", "request_download", "reload_dataset", "classify_score"}, names)
}

func TestServer_SortThenView(t *testing.T) {
	cs := connectClient(t)

	text, isErr := callText(t, cs, "sort_variants", map[string]any{"column": "rmsd"})
	require.False(t, isErr)

	var view ViewResponse
	require.NoError(t, json.Unmarshal([]byte(text), &view))
	require.Equal(t, "BK", view.Rows[0].Channel)
	require.Equal(t, "good", view.Rows[0].Tiers["rmsd"])

	text, _ = callText(t, cs, "get_view", map[string]any{})
	require.NoError(t, json.Unmarshal([]byte(text), &view))
	require.Equal(t, "rmsd", view.Sort.Column)
}

func TestServer_ToolErrorPayload(t *testing.T) {
	cs := connectClient(t)

	text, isErr := callText(t, cs, "sort_variants", map[string]any{"column": "bogus"})
	require.True(t, isErr)

	var apiErr APIError
	require.NoError(t, json.Unmarshal([]byte(text), &apiErr))
	require.Equal(t, "UNKNOWN_COLUMN", apiErr.Code)
}

func TestServer_DocResources(t *testing.T) {
	cs := connectClient(t)

	res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "ionview://docs/scoring"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "rmsd")
}
