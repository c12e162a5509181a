package ai

import (
	"context"

	"github.com/amishk599/jobintake/internal/model"
)

var _ model.CheckedExtractor = (*NopExtractor)(nil)

// NopExtractor is used when ai.enabled is false or no API key is configured.
// It never finds a candidate, and reports itself unavailable to callers that
// ask.
type NopExtractor struct{}

// NewNopExtractor returns a NopExtractor.
func NewNopExtractor() *NopExtractor {
	return &NopExtractor{}
}

// ExtractCandidates returns no candidates.
func (n *NopExtractor) ExtractCandidates(_ context.Context, _ string, _ model.ExtractMode) []model.ExtractedJobCandidate {
	return nil
}

// TryExtractCandidates always reports extraction as unavailable.
func (n *NopExtractor) TryExtractCandidates(_ context.Context, _ string, _ model.ExtractMode) ([]model.ExtractedJobCandidate, error) {
	return nil, model.ErrExtractionUnavailable
}
