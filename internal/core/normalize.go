package core

// NormalizedTable holds the canonical columns recovered from one RawTable.
// A field is absent from Columns when no header in the file matched it.
type NormalizedTable struct {
	Columns map[Field][]string
	Lines   []int

	// Dropped lists headers removed as empty or unrecognized.
	Dropped []string
	// Overridden lists headers that lost to a later column of the same field.
	Overridden []string
}

// Len returns the number of data rows.
func (t *NormalizedTable) Len() int {
	return len(t.Lines)
}

// Has reports whether the file supplied a column for f.
func (t *NormalizedTable) Has(f Field) bool {
	_, ok := t.Columns[f]
	return ok
}

// Cell returns the raw text of field f in row i, or "" when absent.
func (t *NormalizedTable) Cell(f Field, i int) string {
	col, ok := t.Columns[f]
	if !ok || i >= len(col) {
		return ""
	}
	return col[i]
}

// Missing returns the canonical fields the file did not supply.
func (t *NormalizedTable) Missing() []Field {
	var missing []Field
	for _, f := range CanonicalFields {
		if !t.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Normalize maps a RawTable onto the canonical schema.
//
// Columns with no non-blank cell are dropped before classification. When two
// columns classify to the same field, the later one in header order wins.
func Normalize(raw *RawTable) *NormalizedTable {
	out := &NormalizedTable{
		Columns: make(map[Field][]string, len(CanonicalFields)),
		Lines:   raw.Lines,
	}
	winner := make(map[Field]string, len(CanonicalFields))

	for i, header := range raw.Headers {
		col := raw.Columns[i]
		if allBlank(col) {
			out.Dropped = append(out.Dropped, header)
			continue
		}

		f := Classify(header)
		if f == FieldDiscard {
			out.Dropped = append(out.Dropped, header)
			continue
		}

		if prev, ok := winner[f]; ok {
			out.Overridden = append(out.Overridden, prev)
		}
		winner[f] = header
		out.Columns[f] = col
	}

	return out
}
