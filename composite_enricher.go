package visitfacts

import "context"

// CompositeEnricher runs enrichers one after another in registration order.
// Later joins see the columns added by earlier ones.
type CompositeEnricher struct {
	enrichers []Enricher
}

type CompositeEnricherOption func(*CompositeEnricher)

func NewCompositeEnricher(opts ...CompositeEnricherOption) *CompositeEnricher {
	c := &CompositeEnricher{
		enrichers: make([]Enricher, 0),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func CompositeWithEnricher(e Enricher) CompositeEnricherOption {
	return func(c *CompositeEnricher) {
		c.enrichers = append(c.enrichers, e)
	}
}

func (c *CompositeEnricher) EnricherCount() int {
	return len(c.enrichers)
}

// Enrich returns the first required failure on its own, or every optional
// failure when all required enrichers succeeded.
func (c *CompositeEnricher) Enrich(ctx context.Context, state *State) (required error, optional []error) {
	for _, enricher := range c.enrichers {
		if err := ctx.Err(); err != nil {
			return err, optional
		}

		if err := enricher.Enrich(ctx, state); err != nil {
			if enricher.Required() {
				return NewEnrichmentError(enricher.Name(), "required enrichment failed", err), optional
			}
			optional = append(optional, NewEnrichmentError(enricher.Name(), "enrichment failed", err))
		}
	}

	return nil, optional
}
