package visitfacts

import "sync"

type State struct {
	mu                sync.RWMutex
	request           *Request
	logger            Logger
	fetches           []FetchResult
	fact              *Table
	joins             []JoinStats
	invalidTimestamps int
	outputs           []string
	errors            []error
}

func NewState(req *Request, logger Logger) *State {
	if logger == nil {
		logger = NopLogger{}
	}
	return &State{
		request: req,
		logger:  logger,
		fetches: make([]FetchResult, 0, 3),
		errors:  make([]error, 0),
	}
}

func (s *State) Request() *Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.request
}

func (s *State) Logger() Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logger
}

func (s *State) AddFetchResult(r FetchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches = append(s.fetches, r)
}

func (s *State) FetchResults() []FetchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]FetchResult, len(s.fetches))
	copy(out, s.fetches)
	return out
}

// Dataset returns the fetched table for name, or nil if it was never fetched
// or failed.
func (s *State) Dataset(name string) *Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.fetches {
		if r.Dataset.Name == name && r.OK() {
			return r.Table()
		}
	}
	return nil
}

func (s *State) Fact() *Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fact
}

func (s *State) SetFact(t *Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fact = t
}

func (s *State) AddJoinStats(js JoinStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joins = append(s.joins, js)
}

func (s *State) JoinStats() []JoinStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]JoinStats, len(s.joins))
	copy(out, s.joins)
	return out
}

func (s *State) SetInvalidTimestamps(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidTimestamps = n
}

func (s *State) InvalidTimestamps() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.invalidTimestamps
}

func (s *State) AddOutput(location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs = append(s.outputs, location)
}

func (s *State) Outputs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.outputs))
	copy(out, s.outputs)
	return out
}

func (s *State) AddError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, err)
}

func (s *State) Errors() []error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]error, len(s.errors))
	copy(out, s.errors)
	return out
}

func (s *State) HasErrors() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.errors) > 0
}

// RowCount is the current number of fact rows, zero before the fetch stage
// has seeded the fact table.
func (s *State) RowCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fact == nil {
		return 0
	}
	return s.fact.Len()
}
