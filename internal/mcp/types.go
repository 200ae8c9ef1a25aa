package mcp

import (
	"github.com/rpggio/ionview/internal/domain/variant"
	"github.com/rpggio/ionview/internal/domain/viewer"
)

// Request types

type GetViewParams struct{}

type SearchVariantsParams struct {
	Query string `json:"query" jsonschema:"channel prefix to match, case-insensitive; empty shows every record"`
}

type SortVariantsParams struct {
	Column    string `json:"column" jsonschema:"column to sort by; repeating the active column flips direction"`
	Direction string `json:"direction,omitempty" jsonschema:"optional asc or desc; omit to toggle"`
}

type RequestDownloadParams struct {
	ArtifactName string `json:"artifact_name" jsonschema:"structure file name, e.g. design5_n0.pdb"`
	Label        string `json:"label,omitempty" jsonschema:"download file label without extension, e.g. BK_design5_n0"`
}

type ReloadDatasetParams struct{}

type ClassifyScoreParams struct {
	Column string `json:"column" jsonschema:"score column: mpnn, plddt, i_ptm, i_pae or rmsd"`
	Value  string `json:"value" jsonschema:"raw score value"`
}

// Response types

// ViewResponse is a compact view for tool clients.
type ViewResponse struct {
	Columns      []string         `json:"columns"`
	Rows         []ViewRow        `json:"rows"`
	Sort         variant.SortSpec `json:"sort"`
	Query        string           `json:"query"`
	MatchedCount int              `json:"matched_count"`
	TotalCount   int              `json:"total_count"`
	ResultCount  string           `json:"result_count,omitempty"`
	Notice       string           `json:"notice,omitempty"`
}

// ViewRow is one rendered record.
type ViewRow struct {
	Channel      string            `json:"channel"`
	Design       string            `json:"design"`
	N            string            `json:"n"`
	Values       map[string]string `json:"values"`
	Tiers        map[string]string `json:"tiers"`
	ExtractedSeq string            `json:"extracted_seq"`
	Artifact     string            `json:"artifact"`
	Label        string            `json:"label"`
	Available    bool              `json:"available"`
}

type ReloadResponse struct {
	Origin   viewer.Origin `json:"origin"`
	Records  int           `json:"records"`
	Fallback bool          `json:"fallback"`
	Notice   string        `json:"notice,omitempty"`
}

type ClassifyScoreResponse struct {
	Column string       `json:"column"`
	Value  string       `json:"value"`
	Tier   variant.Tier `json:"tier"`
	Class  string       `json:"class"`
}

func newViewResponse(v viewer.View) ViewResponse {
	cols := make([]string, 0, len(v.Columns))
	for _, c := range v.Columns {
		cols = append(cols, c.Name)
	}

	rows := make([]ViewRow, 0, len(v.Rows))
	for _, r := range v.Rows {
		row := ViewRow{
			Channel:      r.Identity.Channel,
			Design:       r.Identity.Design,
			N:            r.Identity.N,
			Values:       make(map[string]string, len(r.Cells)),
			Tiers:        make(map[string]string),
			ExtractedSeq: r.ExtractedSeq,
			Artifact:     r.Artifact.Name,
			Label:        r.Artifact.Label,
			Available:    r.Artifact.Available,
		}
		for _, c := range r.Cells {
			row.Values[c.Column] = c.Value
			if c.Tier != "" {
				row.Tiers[c.Column] = string(c.Tier)
			}
		}
		rows = append(rows, row)
	}

	return ViewResponse{
		Columns:      cols,
		Rows:         rows,
		Sort:         v.Sort,
		Query:        v.Query,
		MatchedCount: v.MatchedCount,
		TotalCount:   v.TotalCount,
		ResultCount:  v.ResultCount,
		Notice:       v.Notice,
	}
}
