package variant

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Direction is a sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// ParseDirection accepts asc/ascending and desc/descending, case-insensitively.
// An empty string is Ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// Compare orders two records by column. When both values parse as numbers
// they compare numerically, otherwise as raw strings.
func Compare(a, b Record, column string) int {
	va, vb := a[column], b[column]
	if na, ok := ParseNumber(va); ok {
		if nb, ok := ParseNumber(vb); ok {
			return cmp.Compare(na, nb)
		}
	}
	return strings.Compare(va, vb)
}

// Sort returns a new slice ordered by column. Records with equal keys keep
// their input order; the input slice is not modified.
func Sort(records []Record, column string, dir Direction) []Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b Record) int {
		c := Compare(a, b, column)
		if dir == Descending {
			return -c
		}
		return c
	})
	return out
}

// SortSpec is the active sort column and direction. The zero value means
// unsorted (insertion order).
type SortSpec struct {
	Column    string    `json:"column,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Active reports whether a column is selected.
func (s SortSpec) Active() bool {
	return s.Column != ""
}

// Toggle returns the sort after column is activated: the same column flips
// direction, a different column starts Ascending.
func (s SortSpec) Toggle(column string) SortSpec {
	if s.Active() && s.Column == column {
		return SortSpec{Column: column, Direction: s.Direction.Flip()}
	}
	return SortSpec{Column: column, Direction: Ascending}
}

// Apply sorts records by the spec, or returns a copy in input order when inactive.
func (s SortSpec) Apply(records []Record) []Record {
	if !s.Active() {
		return slices.Clone(records)
	}
	return Sort(records, s.Column, s.Direction)
}

// Indicator returns the header marker for the active column.
func (s SortSpec) Indicator() string {
	if !s.Active() {
		return ""
	}
	if s.Direction == Descending {
		return " ↓"
	}
	return " ↑"
}
