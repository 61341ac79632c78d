package visitfacts

import "context"

type Fetcher interface {
	Name() string
	Priority() int
	CanHandle(ds Dataset) bool
	Fetch(ctx context.Context, ds Dataset) (*Table, error)
}

type BaseFetcher struct {
	name     string
	priority int
}

func NewBaseFetcher(name string, priority int) BaseFetcher {
	return BaseFetcher{name: name, priority: priority}
}

func (f BaseFetcher) Name() string           { return f.name }
func (f BaseFetcher) Priority() int          { return f.priority }
func (f BaseFetcher) CanHandle(Dataset) bool { return true }
