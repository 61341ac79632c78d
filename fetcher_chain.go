package visitfacts

import (
	"context"
	"sort"
	"time"
)

// FetcherChain routes each dataset to the first fetcher, by priority, that
// can handle its location. There is no fallback to later fetchers on failure.
type FetcherChain struct {
	fetchers []Fetcher
}

type FetcherChainOption func(*FetcherChain)

func NewFetcherChain(opts ...FetcherChainOption) *FetcherChain {
	chain := &FetcherChain{
		fetchers: make([]Fetcher, 0),
	}

	for _, opt := range opts {
		opt(chain)
	}

	sort.SliceStable(chain.fetchers, func(i, j int) bool {
		return chain.fetchers[i].Priority() < chain.fetchers[j].Priority()
	})

	return chain
}

func ChainWithFetcher(f Fetcher) FetcherChainOption {
	return func(c *FetcherChain) {
		c.fetchers = append(c.fetchers, f)
	}
}

func (c *FetcherChain) FetcherCount() int {
	return len(c.fetchers)
}

func (c *FetcherChain) Fetch(ctx context.Context, ds Dataset) FetchResult {
	for _, fetcher := range c.fetchers {
		if !fetcher.CanHandle(ds) {
			continue
		}

		start := time.Now()
		t, err := fetcher.Fetch(ctx, ds)
		var res FetchResult
		if err != nil {
			res = FetchFailed(ds, fetcher.Name(), NewFetchError(ds.Location, "could not load "+ds.Name, err))
		} else {
			res = Fetched(ds, fetcher.Name(), t)
		}
		res.Duration = time.Since(start)
		return res
	}

	return FetchFailed(ds, "", NewFetchError(ds.Location, "could not load "+ds.Name, ErrNoFetcherAvailable))
}
