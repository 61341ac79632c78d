package visitfacts

import "time"

// FetchResult is the outcome of fetching one dataset: either a table or the
// reason it could not be loaded. A failed result still exposes an empty table.
type FetchResult struct {
	Dataset  Dataset
	Fetcher  string
	Duration time.Duration
	table    *Table
	err      error
}

func Fetched(ds Dataset, fetcher string, t *Table) FetchResult {
	return FetchResult{Dataset: ds, Fetcher: fetcher, table: t}
}

func FetchFailed(ds Dataset, fetcher string, err error) FetchResult {
	return FetchResult{Dataset: ds, Fetcher: fetcher, err: err}
}

func (r FetchResult) OK() bool {
	return r.err == nil
}

func (r FetchResult) Err() error {
	return r.err
}

func (r FetchResult) Table() *Table {
	if r.table == nil {
		return EmptyTable(r.Dataset.Name)
	}
	return r.table
}

// Empty reports whether the fetch succeeded but produced no usable rows.
func (r FetchResult) Empty() bool {
	return r.OK() && r.Table().Empty()
}

func (r FetchResult) Status() string {
	switch {
	case !r.OK():
		return "failed"
	case r.Empty():
		return "empty"
	default:
		return "ok"
	}
}
