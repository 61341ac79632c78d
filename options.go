package visitfacts

import (
	"context"
	"time"
)

type Option func(*Pipeline)

func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.config.Timeout = d
	}
}

func WithMetrics(m Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

func WithLogger(l Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

func WithValidation(fn func(*Request) error) Option {
	return func(p *Pipeline) {
		stage := NewStage("validation", true, func(ctx context.Context, state *State) error {
			return fn(state.Request())
		})
		p.stages = append([]Stage{stage}, p.stages...)
	}
}

func WithStage(stage Stage) Option {
	return func(p *Pipeline) {
		p.AddStage(stage)
	}
}

func WithMiddleware(m Middleware) Option {
	return func(p *Pipeline) {
		p.Use(m)
	}
}

func WithConfig(cfg Config) Option {
	return func(p *Pipeline) {
		p.config = cfg
	}
}

func WithFetcherChain(chain *FetcherChain) Option {
	return func(p *Pipeline) {
		p.AddStage(NewFetchStage(chain))
	}
}

func WithFetchers(fetchers ...Fetcher) Option {
	return func(p *Pipeline) {
		opts := make([]FetcherChainOption, 0, len(fetchers))
		for _, f := range fetchers {
			opts = append(opts, ChainWithFetcher(f))
		}
		p.AddStage(NewFetchStage(NewFetcherChain(opts...)))
	}
}

func WithEnricherComposite(enricher *CompositeEnricher) Option {
	return func(p *Pipeline) {
		p.AddStage(NewEnrichStage(enricher))
	}
}

// WithEnrichers adds an enrich stage running the enrichers in the given
// order.
func WithEnrichers(enrichers ...Enricher) Option {
	opts := make([]CompositeEnricherOption, 0, len(enrichers))
	for _, e := range enrichers {
		opts = append(opts, CompositeWithEnricher(e))
	}
	return WithEnricherComposite(NewCompositeEnricher(opts...))
}

func WithSinks(sinks ...Sink) Option {
	return func(p *Pipeline) {
		p.AddStage(NewLoadStage(sinks...))
	}
}
