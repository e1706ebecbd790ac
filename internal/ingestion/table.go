// Package ingestion loads raw market snapshot data: from the CoinGecko
// markets API or from CSV exports. Its output is a loosely-typed RawTable;
// schema normalization is the cleaning stage's job.
package ingestion

// RawTable is tabular data as loaded: named columns and string cell values.
// Type coercion, renaming, and de-duplication all happen downstream in the
// cleaning stage.
type RawTable struct {
	Columns []string
	Rows    []map[string]string
}

// HasColumn reports whether the table carries the named column.
func (t *RawTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t *RawTable) Len() int {
	return len(t.Rows)
}
