package network

import "fmt"

// DefaultMinYear is the earliest publication year considered by the
// concepts network.
const DefaultMinYear = 1965

// Params are the typed, range-checked parameters bound into a composed query.
type Params struct {
	MaxNodes            int64
	MinEdgeWeight       int64
	MinConceptRelevance float64
	MinConceptFrequency int64
	MinYear             int64
}

// DefaultParams returns the parameters used when a topic sets no directives.
func DefaultParams() Params {
	return Params{
		MaxNodes:            500,
		MinEdgeWeight:       3,
		MinConceptRelevance: 0.5,
		MinConceptFrequency: 5,
		MinYear:             DefaultMinYear,
	}
}

// Validate checks every parameter against its allowed range.
func (p Params) Validate() error {
	if p.MaxNodes <= 0 {
		return fmt.Errorf("%w: max_nodes must be > 0, got %d", ErrInvalidMetadata, p.MaxNodes)
	}
	if p.MinEdgeWeight < 0 {
		return fmt.Errorf("%w: min_edge_weight must be >= 0, got %d", ErrInvalidMetadata, p.MinEdgeWeight)
	}
	if p.MinConceptRelevance < 0 || p.MinConceptRelevance > 1 {
		return fmt.Errorf("%w: min_concept_relevance must be in [0,1], got %g", ErrInvalidMetadata, p.MinConceptRelevance)
	}
	if p.MinConceptFrequency < 0 {
		return fmt.Errorf("%w: min_concept_frequency must be >= 0, got %d", ErrInvalidMetadata, p.MinConceptFrequency)
	}
	return nil
}
