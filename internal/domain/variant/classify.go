package variant

import (
	"math"
	"strconv"
	"strings"
)

// Tier is the qualitative band a score falls into.
type Tier string

const (
	TierGood     Tier = "good"
	TierMedium   Tier = "medium"
	TierPoor     Tier = "poor"
	TierUnscored Tier = "unscored"
)

// Class returns the CSS class used to render the tier.
func (t Tier) Class() string {
	return "score-" + string(t)
}

// Thresholds configures classification of one score column. With Reverse set,
// lower values are better.
type Thresholds struct {
	Good    float64 `yaml:"good" json:"good"`
	Medium  float64 `yaml:"medium" json:"medium"`
	Reverse bool    `yaml:"reverse" json:"reverse"`
}

// Classify maps value onto a tier. The good check always runs before the
// medium check, so out-of-order thresholds resolve toward Good.
func Classify(value, good, medium float64, reverse bool) Tier {
	if reverse {
		if value <= good {
			return TierGood
		}
		if value <= medium {
			return TierMedium
		}
		return TierPoor
	}
	if value >= good {
		return TierGood
	}
	if value >= medium {
		return TierMedium
	}
	return TierPoor
}

// Classify applies the thresholds to value.
func (t Thresholds) Classify(value float64) Tier {
	return Classify(value, t.Good, t.Medium, t.Reverse)
}

// ClassifyRaw parses raw and classifies it. Unparseable values are Unscored.
func (t Thresholds) ClassifyRaw(raw string) Tier {
	value, ok := ParseNumber(raw)
	if !ok {
		return TierUnscored
	}
	return t.Classify(value)
}

// ScoreColumns lists the classified columns in display order.
var ScoreColumns = []string{FieldMPNN, FieldPLDDT, FieldIPTM, FieldIPAE, FieldRMSD}

// Scoring maps a score column to its thresholds.
type Scoring map[string]Thresholds

// DefaultScoring returns the standard per-column thresholds.
func DefaultScoring() Scoring {
	return Scoring{
		FieldMPNN:  {Good: 1.5, Medium: 1.3},
		FieldPLDDT: {Good: 0.7, Medium: 0.5},
		FieldIPTM:  {Good: 0.5, Medium: 0.3},
		FieldIPAE:  {Good: 0.3, Medium: 0.2},
		FieldRMSD:  {Good: 20, Medium: 30, Reverse: true},
	}
}

// Merge returns a copy of s with overrides applied on top.
func (s Scoring) Merge(overrides Scoring) Scoring {
	out := make(Scoring, len(s)+len(overrides))
	for col, th := range s {
		out[col] = th
	}
	for col, th := range overrides {
		out[col] = th
	}
	return out
}

// Tier classifies the raw value of column. ok is false for unscored columns.
func (s Scoring) Tier(column, raw string) (Tier, bool) {
	th, ok := s[column]
	if !ok {
		return "", false
	}
	return th.ClassifyRaw(raw), true
}

// ParseNumber parses a trimmed decimal value. NaN is rejected.
func ParseNumber(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) {
		return 0, false
	}
	return value, true
}
