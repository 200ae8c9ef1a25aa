package viewer

import (
	"time"

	"github.com/rpggio/ionview/internal/domain/variant"
)

// Origin describes where the loaded dataset came from.
type Origin string

const (
	OriginPrimary  Origin = "primary"
	OriginEmbedded Origin = "embedded"
)

// FallbackNotice is shown while the embedded dataset is in use.
const FallbackNotice = "Currently using embedded data. To use the latest CSV data, run the viewer against a reachable data source."

// DefaultSessionID names the session used when a client sends none.
const DefaultSessionID = "default"

// Snapshot is an immutable loaded dataset. A reload replaces the whole snapshot.
type Snapshot struct {
	Dataset  variant.Dataset
	Origin   Origin
	Notice   string
	LoadedAt time.Time
}

// LoadResult summarizes a load.
type LoadResult struct {
	Origin   Origin `json:"origin"`
	Records  int    `json:"records"`
	Fallback bool   `json:"fallback"`
	Notice   string `json:"notice,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Column describes one displayed table column.
type Column struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	Active    bool   `json:"active,omitempty"`
	Indicator string `json:"indicator,omitempty"`
}

// Cell is one rendered value with its score tier, if the column is scored.
type Cell struct {
	Column string       `json:"column"`
	Value  string       `json:"value"`
	Tier   variant.Tier `json:"tier,omitempty"`
	Class  string       `json:"class,omitempty"`
}

// ArtifactLink describes the structure file associated with a row.
type ArtifactLink struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
	URL       string `json:"url,omitempty"`
}

// Row is one rendered record.
type Row struct {
	Identity     variant.Identity `json:"identity"`
	Record       variant.Record   `json:"record"`
	ExtractedSeq string           `json:"extracted_seq"`
	Cells        []Cell           `json:"cells"`
	Artifact     ArtifactLink     `json:"artifact"`
}

// View is the ordered, classified output handed to a renderer.
type View struct {
	Columns      []Column         `json:"columns"`
	Rows         []Row            `json:"rows"`
	Sort         variant.SortSpec `json:"sort"`
	Query        string           `json:"query"`
	MatchedCount int              `json:"matched_count"`
	TotalCount   int              `json:"total_count"`
	ResultCount  string           `json:"result_count,omitempty"`
	Origin       Origin           `json:"origin"`
	Notice       string           `json:"notice,omitempty"`
}

// DownloadTicket is the resolved answer to a DownloadRequested event.
type DownloadTicket struct {
	ArtifactName string `json:"artifact_name"`
	FileName     string `json:"file_name"`
	Available    bool   `json:"available"`
	URL          string `json:"url,omitempty"`
}

// Outcome is the result of handling one event.
type Outcome struct {
	View     View            `json:"view"`
	Download *DownloadTicket `json:"download,omitempty"`
}

type displayColumn struct {
	name  string
	title string
}

var displayColumns = []displayColumn{
	{variant.FieldChannel, "Channel"},
	{variant.FieldDesign, "Design"},
	{variant.FieldN, "N"},
	{variant.FieldMPNN, "MPNN"},
	{variant.FieldPLDDT, "pLDDT"},
	{variant.FieldIPTM, "i_pTM"},
	{variant.FieldIPAE, "i_PAE"},
	{variant.FieldRMSD, "RMSD"},
	{variant.FieldExtractedSeq, "Seq"},
}
