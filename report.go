package visitfacts

// DatasetReport describes how one input was loaded.
type DatasetReport struct {
	Name     string
	Location string
	Fetcher  string
	Status   string
	Rows     int
}

// Report is the result of a successful run.
type Report struct {
	Pipeline          string
	Rows              int
	Columns           []string
	Datasets          []DatasetReport
	Joins             []JoinStats
	InvalidTimestamps int
	Outputs           []string
	Warnings          []error
	Table             *Table
}

func NewReport(pipeline string, state *State) *Report {
	r := &Report{
		Pipeline:          pipeline,
		Joins:             state.JoinStats(),
		InvalidTimestamps: state.InvalidTimestamps(),
		Outputs:           state.Outputs(),
		Warnings:          state.Errors(),
		Table:             state.Fact(),
	}
	if r.Table != nil {
		r.Rows = r.Table.Len()
		r.Columns = r.Table.Columns()
	}
	for _, f := range state.FetchResults() {
		r.Datasets = append(r.Datasets, DatasetReport{
			Name:     f.Dataset.Name,
			Location: f.Dataset.Location,
			Fetcher:  f.Fetcher,
			Status:   f.Status(),
			Rows:     f.Table().Len(),
		})
	}
	return r
}

// Unmatched returns the number of fact rows that found no match in the
// named dimension, or -1 if that dimension was not joined.
func (r *Report) Unmatched(dimension string) int {
	for _, j := range r.Joins {
		if j.Dimension == dimension {
			return j.Unmatched
		}
	}
	return -1
}
