package cleaning

import (
	"strconv"
	"strings"
)

// Row is a single trip record. Cell values are float64 for numeric
// columns and string for text columns; a nil (or absent) value marks a
// missing cell.
type Row map[string]interface{}

// Clone returns a shallow copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Float returns the cell as a float64. Missing and non-numeric cells
// return ok=false.
func (r Row) Float(col string) (float64, bool) {
	v, exists := r[col]
	if !exists || v == nil {
		return 0, false
	}
	f, isFloat := v.(float64)
	return f, isFloat
}

// Table is an in-memory table of trip records with a named column set.
// Rows only carry values for columns listed in Columns.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given column set
func NewTable(columns []string) Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return Table{Columns: cols}
}

// Len returns the number of rows
func (t Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table schema contains the column
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// RequireColumns verifies that every named column is in the schema,
// returning the first missing name.
func (t Table) RequireColumns(names []string) (string, bool) {
	for _, n := range names {
		if !t.HasColumn(n) {
			return n, false
		}
	}
	return "", true
}

// FloatColumn extracts a column as float64 values, skipping missing
// cells. The returned slice preserves row order.
func (t Table) FloatColumn(name string) []float64 {
	values := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if v, ok := row.Float(name); ok {
			values = append(values, v)
		}
	}
	return values
}

// keySeparator joins identity cell values into a composite key. The
// unit separator cannot appear in TLC data.
const keySeparator = "\x1f"

// identityKey builds the composite join key for a row over the ordered
// identity columns. Missing cells must already be normalized before
// keys are built.
func identityKey(row Row, identityCols []string) string {
	var b strings.Builder
	for i, col := range identityCols {
		if i > 0 {
			b.WriteString(keySeparator)
		}
		b.WriteString(formatKeyValue(row[col]))
	}
	return b.String()
}

// formatKeyValue renders a cell for key building. Floats use the
// shortest round-trip representation so 1.0 and 1 compare equal.
func formatKeyValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
