package visitfacts

import (
	"context"
	"errors"
	"net/http"
	"time"
)

type Pipeline struct {
	name       string
	stages     []Stage
	middleware []Middleware
	config     Config
	metrics    Metrics
	logger     Logger
}

func New(name string, opts ...Option) *Pipeline {
	p := &Pipeline{
		name:   name,
		stages: make([]Stage, 0),
		config: DefaultConfig(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// NewFactPipeline assembles the standard run: validation, fetch, patient and
// doctor joins, timestamp coercion and the configured sinks. opts are applied
// after the standard stages, so extra stages run last.
func NewFactPipeline(cfg Config, opts ...Option) *Pipeline {
	client := &http.Client{Timeout: cfg.HTTPTimeout}
	chain := NewFetcherChain(
		ChainWithFetcher(NewShareLinkFetcher(client,
			ShareLinkWithDownloadBase(cfg.DownloadBaseURL),
			ShareLinkWithUserAgent(cfg.UserAgent),
		)),
		ChainWithFetcher(NewFileFetcher()),
	)

	sinks := []Sink{NewCSVSink(cfg.OutputPath)}
	if cfg.SQLitePath != "" {
		sinks = append(sinks, NewSQLiteSink(cfg.SQLitePath, FactTableName))
	}

	base := []Option{
		WithConfig(cfg),
		WithValidation(func(r *Request) error { return r.Validate() }),
		WithFetcherChain(chain),
		WithEnrichers(
			NewJoinEnricher(PatientDimension()),
			NewJoinEnricher(DoctorDimension()),
		),
		WithStage(NewTimestampStage(cfg.TimestampColumn)),
		WithSinks(sinks...),
	}

	return New(FactTableName, append(base, opts...)...)
}

// Run executes the standard pipeline once.
func Run(ctx context.Context, req *Request, cfg Config, opts ...Option) (*Report, error) {
	return NewFactPipeline(cfg, opts...).Execute(ctx, req)
}

func (p *Pipeline) Execute(ctx context.Context, req *Request) (*Report, error) {
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	state := NewState(req, p.logger)
	defer p.recordFetches(state)

	for _, stage := range p.stages {
		if ctx.Err() != nil {
			return nil, NewPipelineError(p.name, stage.Name(), "execute", ctx.Err())
		}

		stageStart := time.Now()
		err := p.executeStage(ctx, stage, state)
		stageDuration := time.Since(stageStart)

		if p.metrics != nil {
			p.metrics.RecordStageDuration(p.name, stage.Name(), stageDuration)
		}

		if err != nil {
			if p.metrics != nil {
				p.metrics.RecordError(p.name, stage.Name(), errorType(err))
			}
			if stage.Required() {
				return nil, NewPipelineError(p.name, stage.Name(), "execute", err)
			}
			state.AddError(err)
		}
	}

	if p.metrics != nil {
		p.metrics.RecordRowCount(p.name, p.name, state.RowCount())
	}

	return NewReport(p.name, state), nil
}

func (p *Pipeline) executeStage(ctx context.Context, stage Stage, state *State) error {
	execute := stage.Execute

	for i := len(p.middleware) - 1; i >= 0; i-- {
		execute = p.middleware[i](stage.Name(), execute)
	}

	return execute(ctx, state)
}

func (p *Pipeline) recordFetches(state *State) {
	if p.metrics == nil {
		return
	}
	for _, r := range state.FetchResults() {
		p.metrics.RecordFetch(p.name, r.Dataset.Name, r.Status())
		p.metrics.RecordRowCount(p.name, r.Dataset.Name, r.Table().Len())
	}
}

func (p *Pipeline) AddStage(stage Stage) {
	p.stages = append(p.stages, stage)
}

func (p *Pipeline) Use(m Middleware) {
	p.middleware = append(p.middleware, m)
}

func (p *Pipeline) Name() string {
	return p.name
}

func (p *Pipeline) StageCount() int {
	return len(p.stages)
}

func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ErrDatasetsNotLoaded):
		return "datasets_not_loaded"
	case errors.Is(err, ErrMissingColumn):
		return "missing_column"
	case errors.Is(err, ErrValidationFailed):
		return "validation"
	case errors.Is(err, ErrEnrichmentFailed):
		return "enrichment"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "execution_error"
	}
}
