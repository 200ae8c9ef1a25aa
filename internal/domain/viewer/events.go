package viewer

import "github.com/rpggio/ionview/internal/domain/variant"

// Event is a user input consumed by a State.
type Event interface {
	Kind() string
}

// SortRequested activates a column header. An empty Direction toggles;
// a set Direction is applied as given.
type SortRequested struct {
	Column    string            `json:"column"`
	Direction variant.Direction `json:"direction,omitempty"`
}

// QueryChanged replaces the search text.
type QueryChanged struct {
	Text string `json:"text"`
}

// DownloadRequested asks for a structure file under a display label.
type DownloadRequested struct {
	ArtifactName string `json:"artifact_name"`
	Label        string `json:"label,omitempty"`
}

func (SortRequested) Kind() string     { return "sort_requested" }
func (QueryChanged) Kind() string      { return "query_changed" }
func (DownloadRequested) Kind() string { return "download_requested" }
