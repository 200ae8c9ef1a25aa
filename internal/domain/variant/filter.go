package variant

import (
	"fmt"
	"slices"
	"strings"
)

// Result is the outcome of filtering a record set.
type Result struct {
	Matched      []Record `json:"matched"`
	MatchedCount int      `json:"matched_count"`
	TotalCount   int      `json:"total_count"`
}

// Filter keeps records whose Channel starts with query, ignoring case. A blank
// query matches everything.
func Filter(records []Record, query string) Result {
	total := len(records)
	if strings.TrimSpace(query) == "" {
		return Result{
			Matched:      slices.Clone(records),
			MatchedCount: total,
			TotalCount:   total,
		}
	}

	prefix := strings.ToLower(query)
	matched := make([]Record, 0, total)
	for _, rec := range records {
		if strings.HasPrefix(strings.ToLower(rec.Channel()), prefix) {
			matched = append(matched, rec)
		}
	}

	return Result{
		Matched:      matched,
		MatchedCount: len(matched),
		TotalCount:   total,
	}
}

// Narrowed reports whether some records were filtered out.
func (r Result) Narrowed() bool {
	return r.MatchedCount < r.TotalCount
}

// CountText returns the result count line, or "" when everything matched.
func (r Result) CountText() string {
	if !r.Narrowed() {
		return ""
	}
	return fmt.Sprintf("Showing %d / %d results", r.MatchedCount, r.TotalCount)
}
