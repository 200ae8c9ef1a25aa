package mcp

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/ionview/internal/domain/viewer"
)

const (
	descGetView         = "Get the current table view: rows in display order with score tiers, active sort, search text and result count"
	descSearchVariants  = "Filter rows to channels starting with the query (case-insensitive); an empty query shows all rows"
	descSortVariants    = "Sort rows by a column. Numeric columns compare as numbers. Repeating the active column flips direction"
	descRequestDownload = "Resolve a predicted structure (.pdb) download for a row; reports whether the file is available"
	descReloadDataset   = "Reload the dataset from the primary source, falling back to the embedded copy"
	descClassifyScore   = "Classify a raw score value into good, medium, poor or unscored using the column thresholds"
)

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "get_view",
			Description: descGetView,
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "search_variants",
			Description: descSearchVariants,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Channel prefix, e.g. KCNQ",
					},
				},
			},
		},
		{
			Name:        "sort_variants",
			Description: descSortVariants,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"column": map[string]any{
						"type":        "string",
						"description": "Column name, e.g. rmsd or extracted_seq",
					},
					"direction": map[string]any{
						"type":        "string",
						"enum":        []string{"asc", "desc"},
						"description": "Explicit direction (omit to toggle)",
					},
				},
				"required": []string{"column"},
			},
		},
		{
			Name:        "request_download",
			Description: descRequestDownload,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"artifact_name": map[string]any{
						"type":        "string",
						"description": "Structure file name, e.g. design5_n0.pdb",
					},
					"label": map[string]any{
						"type":        "string",
						"description": "Download label without extension, e.g. BK_design5_n0",
					},
				},
				"required": []string{"artifact_name"},
			},
		},
		{
			Name:        "reload_dataset",
			Description: descReloadDataset,
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "classify_score",
			Description: descClassifyScore,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"column": map[string]any{
						"type":        "string",
						"enum":        []string{"mpnn", "plddt", "i_ptm", "i_pae", "rmsd"},
						"description": "Score column",
					},
					"value": map[string]any{
						"type":        "string",
						"description": "Raw value as it appears in the dataset",
					},
				},
				"required": []string{"column", "value"},
			},
		},
	}
}

// registerTools adds every tool to the SDK server
func registerTools(server *sdkmcp.Server, h *Handler) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "get_view", Description: descGetView},
		func(ctx context.Context, req *sdkmcp.CallToolRequest, _ GetViewParams) (*sdkmcp.CallToolResult, any, error) {
			return toolResult(h.GetView(toolSessionID(ctx, req)), nil)
		})

	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "search_variants", Description: descSearchVariants},
		func(ctx context.Context, req *sdkmcp.CallToolRequest, in SearchVariantsParams) (*sdkmcp.CallToolResult, any, error) {
			return toolResult(h.SearchVariants(toolSessionID(ctx, req), in))
		})

	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "sort_variants", Description: descSortVariants},
		func(ctx context.Context, req *sdkmcp.CallToolRequest, in SortVariantsParams) (*sdkmcp.CallToolResult, any, error) {
			return toolResult(h.SortVariants(toolSessionID(ctx, req), in))
		})

	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "request_download", Description: descRequestDownload},
		func(ctx context.Context, req *sdkmcp.CallToolRequest, in RequestDownloadParams) (*sdkmcp.CallToolResult, any, error) {
			return toolResult(h.RequestDownload(toolSessionID(ctx, req), in))
		})

	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "reload_dataset", Description: descReloadDataset},
		func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ReloadDatasetParams) (*sdkmcp.CallToolResult, any, error) {
			return toolResult(h.ReloadDataset(ctx), nil)
		})

	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "classify_score", Description: descClassifyScore},
		func(_ context.Context, _ *sdkmcp.CallToolRequest, in ClassifyScoreParams) (*sdkmcp.CallToolResult, any, error) {
			return toolResult(h.ClassifyScore(in))
		})
}

// toolResult renders a handler result as JSON text content. Domain errors
// become tool errors carrying the APIError payload.
func toolResult(v any, err error) (*sdkmcp.CallToolResult, any, error) {
	if err != nil {
		apiErr := MapError(err)
		if apiErr == nil {
			apiErr = &APIError{Code: "INTERNAL", Message: err.Error()}
		}
		data, _ := json.Marshal(apiErr)
		return &sdkmcp.CallToolResult{
			IsError: true,
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		}, nil, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func toolSessionID(ctx context.Context, req *sdkmcp.CallToolRequest) string {
	if id := getSessionID(ctx); id != "" {
		return id
	}
	if req != nil && req.Session != nil {
		if id := req.Session.ID(); id != "" {
			return id
		}
	}
	return viewer.DefaultSessionID
}
