package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpggio/ionview/internal/domain/variant"
	"github.com/rpggio/ionview/internal/domain/viewer"
)

// Viewer defines the viewer operations needed by MCP.
type Viewer interface {
	Session(id string) *viewer.State
	Reload(ctx context.Context) viewer.LoadResult
	Scoring() variant.Scoring
}

// Handler dispatches MCP commands.
type Handler struct {
	viewer Viewer
}

// NewHandler creates a new MCP handler.
func NewHandler(v Viewer) *Handler {
	return &Handler{viewer: v}
}

// Handle dispatches MCP requests by tool name. tools/list and tools/call
// are accepted for JSON-RPC clients.
func (h *Handler) Handle(ctx context.Context, sessionID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "tools/list":
		return ToolsListResult{Tools: buildToolCatalog()}, nil
	case "tools/call":
		var req ToolCallParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.Name == "" || strings.HasPrefix(req.Name, "tools/") {
			return nil, mapError(fmt.Errorf("%w: tool name is required", ErrInvalidParams))
		}
		return h.Handle(ctx, sessionID, req.Name, req.Arguments)
	case "get_view":
		return h.GetView(sessionID), nil
	case "search_variants":
		var req SearchVariantsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.SearchVariants(sessionID, req)
	case "sort_variants":
		var req SortVariantsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.SortVariants(sessionID, req)
	case "request_download":
		var req RequestDownloadParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.RequestDownload(sessionID, req)
	case "reload_dataset":
		return h.ReloadDataset(ctx), nil
	case "classify_score":
		var req ClassifyScoreParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.ClassifyScore(req)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

// GetView returns the session's current view.
func (h *Handler) GetView(sessionID string) ViewResponse {
	return newViewResponse(h.viewer.Session(sessionID).View())
}

// SearchVariants replaces the session's search text.
func (h *Handler) SearchVariants(sessionID string, req SearchVariantsParams) (ViewResponse, error) {
	out, err := h.viewer.Session(sessionID).Handle(viewer.QueryChanged{Text: req.Query})
	if err != nil {
		return ViewResponse{}, mapError(err)
	}
	return newViewResponse(out.View), nil
}

// SortVariants activates a sort column.
func (h *Handler) SortVariants(sessionID string, req SortVariantsParams) (ViewResponse, error) {
	ev := viewer.SortRequested{Column: req.Column}
	if req.Direction != "" {
		dir, err := variant.ParseDirection(req.Direction)
		if err != nil {
			return ViewResponse{}, mapError(err)
		}
		ev.Direction = dir
	}
	out, err := h.viewer.Session(sessionID).Handle(ev)
	if err != nil {
		return ViewResponse{}, mapError(err)
	}
	return newViewResponse(out.View), nil
}

// RequestDownload resolves a structure file download.
func (h *Handler) RequestDownload(sessionID string, req RequestDownloadParams) (viewer.DownloadTicket, error) {
	if req.ArtifactName == "" {
		return viewer.DownloadTicket{}, mapError(fmt.Errorf("%w: artifact_name is required", ErrInvalidParams))
	}
	out, err := h.viewer.Session(sessionID).Handle(viewer.DownloadRequested{
		ArtifactName: req.ArtifactName,
		Label:        req.Label,
	})
	if err != nil {
		return viewer.DownloadTicket{}, mapError(err)
	}
	return *out.Download, nil
}

// ReloadDataset reloads the dataset for every session.
func (h *Handler) ReloadDataset(ctx context.Context) ReloadResponse {
	res := h.viewer.Reload(ctx)
	return ReloadResponse{
		Origin:   res.Origin,
		Records:  res.Records,
		Fallback: res.Fallback,
		Notice:   res.Notice,
	}
}

// ClassifyScore classifies a raw value with the column's thresholds.
func (h *Handler) ClassifyScore(req ClassifyScoreParams) (ClassifyScoreResponse, error) {
	tier, ok := h.viewer.Scoring().Tier(req.Column, req.Value)
	if !ok {
		return ClassifyScoreResponse{}, &APIError{
			Code:         "UNSCORED_COLUMN",
			Message:      fmt.Sprintf("column %q has no thresholds", req.Column),
			RecoveryHint: "Use one of: " + strings.Join(variant.ScoreColumns, ", "),
		}
	}
	return ClassifyScoreResponse{
		Column: req.Column,
		Value:  req.Value,
		Tier:   tier,
		Class:  tier.Class(),
	}, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return mapError(fmt.Errorf("%w: %v", ErrInvalidParams, err))
	}
	return nil
}
