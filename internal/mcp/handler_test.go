package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rpggio/ionview/internal/artifact"
	"github.com/rpggio/ionview/internal/domain/variant"
	"github.com/rpggio/ionview/internal/domain/viewer"
	"github.com/rpggio/ionview/internal/source"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *viewer.Registry {
	t.Helper()
	reg := viewer.NewRegistry(viewer.Options{
		Fallback: source.Embedded(),
		Catalog:  artifact.NewCatalog(artifact.DefaultNames()),
		Links:    artifact.Linker(""),
	}, nil)
	reg.Load(context.Background())
	return reg
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestHandler_ViewSearchSort(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(newTestRegistry(t))

	out, err := handler.Handle(ctx, "s1", "get_view", nil)
	require.NoError(t, err)
	view := out.(ViewResponse)
	require.Len(t, view.Rows, 16)
	require.Equal(t, "Nav1.2", view.Rows[0].Channel)

	out, err = handler.Handle(ctx, "s1", "search_variants", mustJSON(t, SearchVariantsParams{Query: "bk"}))
	require.NoError(t, err)
	view = out.(ViewResponse)
	require.Equal(t, 5, view.MatchedCount)
	require.Equal(t, "Showing 5 / 16 results", view.ResultCount)

	out, err = handler.Handle(ctx, "s1", "sort_variants", mustJSON(t, SortVariantsParams{Column: "rmsd"}))
	require.NoError(t, err)
	view = out.(ViewResponse)
	first := view.Rows[0]
	require.Equal(t, "3.397523403", first.Values["rmsd"])
	require.Equal(t, "good", first.Tiers["rmsd"])
	require.Equal(t, "SLALEIVEKE", first.ExtractedSeq)
	require.True(t, first.Available)

	out, err = handler.Handle(ctx, "other", "get_view", nil)
	require.NoError(t, err)
	require.Len(t, out.(ViewResponse).Rows, 16)
}

func TestHandler_SortErrors(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(newTestRegistry(t))

	_, err := handler.Handle(ctx, "s1", "sort_variants", mustJSON(t, SortVariantsParams{Column: "bogus"}))
	apiErr := MapError(err)
	require.NotNil(t, apiErr)
	require.Equal(t, "UNKNOWN_COLUMN", apiErr.Code)

	_, err = handler.Handle(ctx, "s1", "sort_variants", mustJSON(t, SortVariantsParams{Column: "rmsd", Direction: "up"}))
	require.Equal(t, "INVALID_DIRECTION", MapError(err).Code)

	out, err := handler.Handle(ctx, "s1", "sort_variants", mustJSON(t, SortVariantsParams{Column: "mpnn", Direction: "DESC"}))
	require.NoError(t, err)
	require.Equal(t, variant.SortSpec{Column: "mpnn", Direction: variant.Descending}, out.(ViewResponse).Sort)
}

func TestHandler_RequestDownload(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(newTestRegistry(t))

	out, err := handler.Handle(ctx, "s1", "request_download", mustJSON(t, RequestDownloadParams{
		ArtifactName: "design5_n0.pdb",
		Label:        "BK_design5_n0",
	}))
	require.NoError(t, err)
	require.Equal(t, viewer.DownloadTicket{
		ArtifactName: "design5_n0.pdb",
		FileName:     "BK_design5_n0.pdb",
		Available:    true,
		URL:          "all_pdb/design5_n0.pdb",
	}, out)

	out, err = handler.Handle(ctx, "s1", "request_download", mustJSON(t, RequestDownloadParams{ArtifactName: "design42_n0.pdb"}))
	require.NoError(t, err)
	require.False(t, out.(viewer.DownloadTicket).Available)

	_, err = handler.Handle(ctx, "s1", "request_download", mustJSON(t, RequestDownloadParams{}))
	require.Equal(t, "INVALID_PARAMS", MapError(err).Code)
}

func TestHandler_ClassifyAndReload(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(newTestRegistry(t))

	out, err := handler.Handle(ctx, "", "classify_score", mustJSON(t, ClassifyScoreParams{Column: "rmsd", Value: "3.397523403"}))
	require.NoError(t, err)
	require.Equal(t, variant.TierGood, out.(ClassifyScoreResponse).Tier)
	require.Equal(t, "score-good", out.(ClassifyScoreResponse).Class)

	out, err = handler.Handle(ctx, "", "classify_score", mustJSON(t, ClassifyScoreParams{Column: "plddt", Value: "n/a"}))
	require.NoError(t, err)
	require.Equal(t, variant.TierUnscored, out.(ClassifyScoreResponse).Tier)

	_, err = handler.Handle(ctx, "", "classify_score", mustJSON(t, ClassifyScoreParams{Column: "seq", Value: "1"}))
	require.Equal(t, "UNSCORED_COLUMN", MapError(err).Code)

	out, err = handler.Handle(ctx, "", "reload_dataset", nil)
	require.NoError(t, err)
	reload := out.(ReloadResponse)
	require.True(t, reload.Fallback)
	require.Equal(t, 16, reload.Records)
	require.Equal(t, viewer.FallbackNotice, reload.Notice)
}

func TestHandler_ToolsListAndCall(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(newTestRegistry(t))

	out, err := handler.Handle(ctx, "", "tools/list", nil)
	require.NoError(t, err)
	names := make([]string, 0)
	for _, tool := range out.(ToolsListResult).Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{"get_view", "search_variants", "sort_variants", "request_download", "reload_dataset", "classify_score"}, names)

	out, err = handler.Handle(ctx, "s1", "tools/call", mustJSON(t, map[string]any{
		"name":      "search_variants",
		"arguments": map[string]any{"query": "KCNQ"},
	}))
	require.NoError(t, err)
	require.Equal(t, 5, out.(ViewResponse).MatchedCount)

	_, err = handler.Handle(ctx, "s1", "tools/call", mustJSON(t, map[string]any{"name": "tools/call"}))
	require.Error(t, err)

	_, err = handler.Handle(ctx, "s1", "no_such_tool", nil)
	require.ErrorContains(t, err, "unknown method")

	_, err = handler.Handle(ctx, "s1", "search_variants", json.RawMessage(`{"query": 5}`))
	require.Equal(t, "INVALID_PARAMS", MapError(err).Code)
}
