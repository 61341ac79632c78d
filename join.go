package visitfacts

import (
	"math"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

const (
	leftSuffix  = "_x"
	rightSuffix = "_y"
)

// JoinStats summarizes one left join.
type JoinStats struct {
	Dimension string
	Key       string
	LeftRows  int
	Rows      int
	// Unmatched counts left rows whose key found no dimension row.
	Unmatched int
	// Expanded counts extra rows produced by duplicate dimension keys.
	Expanded int
}

// LeftJoin keeps every row of left, in order, and appends the non-key
// columns of right for each row whose key matches. Unmatched rows get null
// right-side cells. A left row matching n right rows appears n times.
//
// Non-key columns present on both sides are suffixed with _x (left) and _y
// (right).
func LeftJoin(left, right *Table, key string) (*Table, JoinStats, error) {
	stats := JoinStats{Dimension: right.Name, Key: key, LeftRows: left.Len()}

	lk, ok := left.ColumnIndex(key)
	if !ok {
		return nil, stats, NewMissingColumnError(left.Name, key)
	}
	rk, ok := right.ColumnIndex(key)
	if !ok {
		return nil, stats, NewMissingColumnError(right.Name, key)
	}

	rightCols := make([]int, 0, len(right.columns))
	for ci := range right.columns {
		if ci != rk {
			rightCols = append(rightCols, ci)
		}
	}

	overlap := make(map[string]bool)
	for _, ci := range rightCols {
		name := right.columns[ci]
		if name != key && left.HasColumn(name) {
			overlap[name] = true
		}
	}

	names := make([]string, 0, len(left.columns)+len(rightCols))
	for _, col := range left.columns {
		if overlap[col] {
			col += leftSuffix
		}
		names = append(names, col)
	}
	for _, ci := range rightCols {
		col := right.columns[ci]
		if overlap[col] {
			col += rightSuffix
		}
		names = append(names, col)
	}

	lookup := make(map[string][]int, right.Len())
	for i, r := range right.rows {
		if k, ok := joinKey(r[rk]); ok {
			lookup[k] = append(lookup[k], i)
		}
	}

	out := NewTable(left.Name, names)
	width := len(left.columns) + len(rightCols)
	for _, lr := range left.rows {
		var matches []int
		if k, ok := joinKey(lr[lk]); ok {
			matches = lookup[k]
		}

		if len(matches) == 0 {
			row := make(Row, width)
			copy(row, lr)
			out.rows = append(out.rows, row)
			stats.Unmatched++
			continue
		}

		for _, ri := range matches {
			row := make(Row, width)
			copy(row, lr)
			rr := right.rows[ri]
			for j, ci := range rightCols {
				row[len(left.columns)+j] = rr[ci]
			}
			out.rows = append(out.rows, row)
		}
		stats.Expanded += len(matches) - 1
	}

	stats.Rows = out.Len()
	return out, stats, nil
}

// joinKey canonicalizes a key cell. Integral numbers compare equal however
// they are spelled ("7", "7.0", "007"). Null keys never match.
func joinKey(v null.String) (string, bool) {
	if !v.Valid {
		return "", false
	}
	s := strings.TrimSpace(v.String)
	if s == "" {
		return "", false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) {
			return "", false
		}
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return strconv.FormatInt(int64(f), 10), true
		}
		return strconv.FormatFloat(f, 'g', -1, 64), true
	}
	return s, true
}
