package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/ionview/internal/artifact"
	"github.com/rpggio/ionview/internal/domain/viewer"
	"github.com/rpggio/ionview/internal/mcp"
	"github.com/rpggio/ionview/internal/metrics"
	"github.com/rpggio/ionview/internal/source"
	"github.com/rpggio/ionview/internal/transport"
)

// Artifacts are the structure files the test store serves.
var Artifacts = fstest.MapFS{
	"design5_n0.pdb": &fstest.MapFile{Data: []byte("ATOM      1  N   SER A   1      11.104  13.207   2.100  1.00  0.00           N\n")},
	"design2_n1.pdb": &fstest.MapFile{Data: []byte("ATOM      1  N   ALA A   1       1.000   2.000   3.000  1.00  0.00           N\n")},
}

type TestServer struct {
	Server   *httptest.Server
	Registry *viewer.Registry
}

// New starts the full HTTP stack. fetcher may be nil to serve the embedded
// dataset.
func New(t *testing.T, fetcher viewer.Fetcher) *TestServer {
	t.Helper()

	registry := viewer.NewRegistry(viewer.Options{
		Fetcher:  fetcher,
		Fallback: source.Embedded(),
		Catalog:  artifact.NewCatalog(artifact.DefaultNames()),
		Links:    artifact.Linker(""),
		Observer: metrics.NewObserver(),
	}, nil)
	registry.Load(context.Background())

	mcpServer := mcp.NewServer(mcp.Config{Viewer: registry})
	stream := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		nil,
	)

	server := httptest.NewServer(transport.NewServer(transport.Options{
		RPC:       mcp.NewHandler(registry),
		Stream:    stream,
		Viewer:    registry,
		Artifacts: artifact.NewFSStore(Artifacts),
		Metrics:   metrics.Handler(),
	}))
	require.NotNil(t, server)

	t.Cleanup(server.Close)

	return &TestServer{
		Server:   server,
		Registry: registry,
	}
}
