package visitfacts

import (
	"context"
	"time"

	"github.com/araddon/dateparse"
	"gopkg.in/guregu/null.v3"
)

// TimestampLayout is how coerced timestamps without a zone are written.
// Values that carried an offset get it appended as +hh:mm.
const TimestampLayout = "2006-01-02 15:04:05.999999999"

// naive marks values parsed without an explicit zone. It reads them as UTC
// wall-clock time.
var naive = time.FixedZone("", 0)

// ParseTimestamp parses a date or date-time in any common notation. Values
// without a zone are read as UTC wall-clock time; values with an offset keep
// it.
func ParseTimestamp(s string) (null.Time, error) {
	t, err := dateparse.ParseIn(s, naive)
	if err != nil {
		return null.Time{}, err
	}
	return null.TimeFrom(t), nil
}

// FormatTimestamp renders a parsed timestamp in TimestampLayout, followed by
// the offset when the source value carried one.
func FormatTimestamp(t time.Time) string {
	if t.Location() == naive {
		return t.Format(TimestampLayout)
	}
	return t.Format(TimestampLayout + "-07:00")
}

// CoerceTimestamps rewrites column col in canonical TimestampLayout. Values
// that do not parse become null and are counted in invalid.
func CoerceTimestamps(t *Table, col string) (invalid int, err error) {
	values, err := t.Column(col)
	if err != nil {
		return 0, err
	}

	for i, v := range values {
		if !v.Valid {
			continue
		}
		ts, perr := ParseTimestamp(v.String)
		if perr != nil {
			values[i] = null.String{}
			invalid++
			continue
		}
		values[i] = null.StringFrom(FormatTimestamp(ts.Time))
	}

	return invalid, t.SetColumn(col, values)
}

// TimestampStage coerces the fact table's timestamp column.
type TimestampStage struct {
	column string
}

func NewTimestampStage(column string) *TimestampStage {
	if column == "" {
		column = DefaultTimestampColumn
	}
	return &TimestampStage{column: column}
}

func (s *TimestampStage) Name() string   { return "transform" }
func (s *TimestampStage) Required() bool { return true }

func (s *TimestampStage) Execute(ctx context.Context, state *State) error {
	fact := state.Fact()
	if fact == nil {
		return nil
	}

	invalid, err := CoerceTimestamps(fact, s.column)
	if err != nil {
		return err
	}
	state.SetInvalidTimestamps(invalid)

	if invalid > 0 {
		state.Logger().Info("unparseable timestamps set to null",
			"column", s.column,
			"count", invalid,
		)
	}
	return nil
}
