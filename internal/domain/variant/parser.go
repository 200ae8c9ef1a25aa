package variant

import "strings"

const fieldSeparator = ","

// Parse converts comma-delimited text with a header row into a Dataset.
//
// Blank lines are skipped, short rows are padded with empty strings, and rows
// without a Channel value are dropped. Text with fewer than two lines yields an
// empty dataset. Quoted fields are not supported.
func Parse(text string) Dataset {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return Dataset{}
	}

	columns := splitLine(lines[0])
	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		values := splitLine(line)
		rec := make(Record, len(columns))
		for i, name := range columns {
			if i < len(values) {
				rec[name] = values[i]
			} else {
				rec[name] = ""
			}
		}

		if strings.TrimSpace(rec[FieldChannel]) == "" {
			continue
		}
		records = append(records, rec)
	}

	return Dataset{Columns: columns, Records: records}
}

func splitLine(line string) []string {
	parts := strings.Split(line, fieldSeparator)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
