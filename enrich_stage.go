package visitfacts

import "context"

type EnrichStage struct {
	enricher *CompositeEnricher
}

func NewEnrichStage(enricher *CompositeEnricher) *EnrichStage {
	return &EnrichStage{enricher: enricher}
}

func (s *EnrichStage) Name() string   { return "enrich" }
func (s *EnrichStage) Required() bool { return true }

func (s *EnrichStage) Execute(ctx context.Context, state *State) error {
	if state.Fact() == nil {
		return nil
	}

	required, optional := s.enricher.Enrich(ctx, state)
	for _, err := range optional {
		state.Logger().Error("optional enrichment failed", "error", err)
		state.AddError(err)
	}

	return required
}
