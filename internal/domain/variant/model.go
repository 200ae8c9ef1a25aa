package variant

import (
	"fmt"
	"maps"
	"slices"
)

// Column names of the design results table.
const (
	FieldChannel      = "Channel"
	FieldDesign       = "design"
	FieldN            = "n"
	FieldMPNN         = "mpnn"
	FieldPLDDT        = "plddt"
	FieldIPTM         = "i_ptm"
	FieldIPAE         = "i_pae"
	FieldRMSD         = "rmsd"
	FieldSeq          = "seq"
	FieldExtractedSeq = "extracted_seq"
)

// SeqSeparator splits the context and variant parts of a composite sequence.
const SeqSeparator = "/"

// Record is one parsed row, keyed by header name. Values keep their original
// formatting; numeric interpretation happens at sort and classification time.
type Record map[string]string

// Identity identifies the design variant a record describes. It is not unique
// across a dataset.
type Identity struct {
	Channel string `json:"channel"`
	Design  string `json:"design"`
	N       string `json:"n"`
}

// Channel returns the channel family name.
func (r Record) Channel() string {
	return r[FieldChannel]
}

// Identity returns the (Channel, design, n) triple.
func (r Record) Identity() Identity {
	return Identity{
		Channel: r[FieldChannel],
		Design:  r[FieldDesign],
		N:       r[FieldN],
	}
}

// ArtifactName returns the structure file name for the record's design and variant.
func (r Record) ArtifactName() string {
	return fmt.Sprintf("design%s_n%s.pdb", r[FieldDesign], r[FieldN])
}

// DownloadLabel returns the display name used when the structure file is saved.
func (r Record) DownloadLabel() string {
	return fmt.Sprintf("%s_design%s_n%s", r[FieldChannel], r[FieldDesign], r[FieldN])
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	return maps.Clone(r)
}

// Dataset is a parsed table: the header order and the rows that passed the
// inclusion rule.
type Dataset struct {
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// HasColumn reports whether name is a header column or the derived sequence column.
func (d Dataset) HasColumn(name string) bool {
	if name == FieldExtractedSeq {
		return true
	}
	return slices.Contains(d.Columns, name)
}
