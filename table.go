package visitfacts

import (
	"fmt"
	"strconv"

	"gopkg.in/guregu/null.v3"
)

// Row is one record of a Table. Cells are positional and match Columns().
type Row []null.String

// Table is an in-memory delimited-text dataset: ordered column names and
// nullable text cells. Tables are not safe for concurrent mutation.
type Table struct {
	Name    string
	columns []string
	index   map[string]int
	rows    []Row
}

// NewTable creates an empty table. Repeated column names are made unique by
// appending ".1", ".2", ... to later occurrences.
func NewTable(name string, columns []string) *Table {
	t := &Table{
		Name:    name,
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
		rows:    make([]Row, 0),
	}
	for _, col := range columns {
		unique := col
		for n := 1; ; n++ {
			if _, exists := t.index[unique]; !exists {
				break
			}
			unique = col + "." + strconv.Itoa(n)
		}
		t.index[unique] = len(t.columns)
		t.columns = append(t.columns, unique)
	}
	return t
}

// EmptyTable returns a table with neither columns nor rows.
func EmptyTable(name string) *Table {
	return NewTable(name, nil)
}

func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Empty reports whether the table has no columns or no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.columns) == 0 || len(t.rows) == 0
}

func (t *Table) HasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}

func (t *Table) ColumnIndex(col string) (int, bool) {
	i, ok := t.index[col]
	return i, ok
}

// Append adds a row. Short rows are padded with nulls; long rows are rejected.
func (t *Table) Append(row Row) error {
	if len(row) > len(t.columns) {
		return fmt.Errorf("table %s: expected %d fields, saw %d", t.Name, len(t.columns), len(row))
	}
	r := make(Row, len(t.columns))
	copy(r, row)
	t.rows = append(t.rows, r)
	return nil
}

func (t *Table) Row(i int) Row {
	return t.rows[i]
}

func (t *Table) Rows() []Row {
	return t.rows
}

// Value returns the cell at row i, column col.
func (t *Table) Value(i int, col string) (null.String, error) {
	ci, ok := t.index[col]
	if !ok {
		return null.String{}, NewMissingColumnError(t.Name, col)
	}
	return t.rows[i][ci], nil
}

func (t *Table) Column(col string) ([]null.String, error) {
	ci, ok := t.index[col]
	if !ok {
		return nil, NewMissingColumnError(t.Name, col)
	}
	out := make([]null.String, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[ci]
	}
	return out, nil
}

func (t *Table) SetColumn(col string, values []null.String) error {
	ci, ok := t.index[col]
	if !ok {
		return NewMissingColumnError(t.Name, col)
	}
	if len(values) != len(t.rows) {
		return fmt.Errorf("table %s: column %s: expected %d values, got %d", t.Name, col, len(t.rows), len(values))
	}
	for i := range t.rows {
		t.rows[i][ci] = values[i]
	}
	return nil
}

// Drop returns a copy of the table without the named columns. Every column
// must exist.
func (t *Table) Drop(cols ...string) (*Table, error) {
	skip := make(map[int]bool, len(cols))
	for _, col := range cols {
		ci, ok := t.index[col]
		if !ok {
			return nil, NewMissingColumnError(t.Name, col)
		}
		skip[ci] = true
	}

	keep := make([]int, 0, len(t.columns))
	names := make([]string, 0, len(t.columns))
	for ci, col := range t.columns {
		if !skip[ci] {
			keep = append(keep, ci)
			names = append(names, col)
		}
	}

	out := NewTable(t.Name, names)
	for _, r := range t.rows {
		nr := make(Row, len(keep))
		for i, ci := range keep {
			nr[i] = r[ci]
		}
		out.rows = append(out.rows, nr)
	}
	return out, nil
}

// Rename returns a copy with columns renamed by mapping old -> new. Names not
// present in the table are ignored. A rename that would produce two columns
// with the same name is an error.
func (t *Table) Rename(mapping map[string]string) (*Table, error) {
	names := make([]string, len(t.columns))
	seen := make(map[string]bool, len(t.columns))
	for ci, col := range t.columns {
		name := col
		if to, ok := mapping[col]; ok {
			name = to
		}
		if seen[name] {
			return nil, fmt.Errorf("table %s: rename produces duplicate column %q", t.Name, name)
		}
		seen[name] = true
		names[ci] = name
	}

	out := NewTable(t.Name, names)
	out.rows = t.cloneRows()
	return out, nil
}

func (t *Table) Clone() *Table {
	out := NewTable(t.Name, t.columns)
	out.rows = t.cloneRows()
	return out
}

func (t *Table) cloneRows() []Row {
	rows := make([]Row, len(t.rows))
	for i, r := range t.rows {
		nr := make(Row, len(r))
		copy(nr, r)
		rows[i] = nr
	}
	return rows
}
