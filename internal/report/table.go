package report

// Table is a named rectangular frame: ordered columns and string-rendered
// rows. The boundary layer decides how to serialize it; the engines only
// fill it.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// New creates an empty table with the given title and column order.
func New(title string, columns ...string) *Table {
	return &Table{Title: title, Columns: columns}
}

// Append adds one row. Short rows are padded so the frame stays rectangular.
func (t *Table) Append(cells ...string) {
	for len(cells) < len(t.Columns) {
		cells = append(cells, "")
	}
	t.Rows = append(t.Rows, cells[:len(t.Columns)])
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Select returns a new table restricted to the named columns, in the order
// given. Unknown column names are ignored.
func (t *Table) Select(columns ...string) *Table {
	index := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		index[c] = i
	}

	var keep []int
	out := &Table{Title: t.Title}
	for _, c := range columns {
		if i, ok := index[c]; ok {
			keep = append(keep, i)
			out.Columns = append(out.Columns, c)
		}
	}

	for _, row := range t.Rows {
		cells := make([]string, len(keep))
		for j, i := range keep {
			cells[j] = row[i]
		}
		out.Rows = append(out.Rows, cells)
	}

	return out
}
