package variant

import "strings"

// DeriveSeq returns the part of the record's seq after the last separator, or
// "" when seq is missing or has no separator. It never reads FieldExtractedSeq.
func DeriveSeq(rec Record) string {
	seq, ok := rec[FieldSeq]
	if !ok {
		return ""
	}
	idx := strings.LastIndex(seq, SeqSeparator)
	if idx < 0 {
		return ""
	}
	return seq[idx+len(SeqSeparator):]
}

// WithDerived returns a copy of rec carrying FieldExtractedSeq.
func WithDerived(rec Record) Record {
	out := rec.Clone()
	out[FieldExtractedSeq] = DeriveSeq(rec)
	return out
}

// DeriveAll returns copies of records with FieldExtractedSeq set.
func DeriveAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = WithDerived(rec)
	}
	return out
}
