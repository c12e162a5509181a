package poller

import (
	"context"

	"github.com/amishk599/jobintake/internal/model"
)

// JobIntake turns message text into normalized job records.
// Returns an empty slice when the text describes no job, and an error
// wrapping model.ErrExtractionUnavailable when extraction could not run.
type JobIntake interface {
	TryExtractAllJobs(ctx context.Context, text string) ([]model.NormalizedJobRecord, error)
}
