// Package intake turns free-form job requests into normalized records by
// running an extractor and then the deterministic normalizers over each
// candidate it returns.
package intake

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amishk599/jobintake/internal/model"
	"github.com/amishk599/jobintake/internal/normalize"
)

// DefaultTimeout bounds a single extraction call.
const DefaultTimeout = 30 * time.Second

// Pipeline owns the intake flow for one piece of text:
// extract → normalize each candidate → return records.
type Pipeline struct {
	extractor  model.CandidateExtractor
	classifier *normalize.Classifier
	enricher   *normalize.AddressEnricher
	resolver   *normalize.ScheduleResolver
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClassifier replaces the default work classifier.
func WithClassifier(c *normalize.Classifier) Option {
	return func(p *Pipeline) { p.classifier = c }
}

// WithAddressEnricher replaces the default address enricher.
func WithAddressEnricher(e *normalize.AddressEnricher) Option {
	return func(p *Pipeline) { p.enricher = e }
}

// WithScheduleResolver replaces the default schedule resolver.
func WithScheduleResolver(r *normalize.ScheduleResolver) Option {
	return func(p *Pipeline) { p.resolver = r }
}

// WithTimeout sets the deadline for the extraction call.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline creates a pipeline around extractor with default normalizers.
func NewPipeline(extractor model.CandidateExtractor, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:  extractor,
		classifier: normalize.NewClassifier(nil),
		enricher:   normalize.NewAddressEnricher(nil),
		resolver:   normalize.NewScheduleResolver(),
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExtractJob returns the single job described by text, or nil when the text
// does not describe one.
func (p *Pipeline) ExtractJob(ctx context.Context, text string) *model.NormalizedJobRecord {
	candidates := p.extract(ctx, text, model.ExtractSingle)
	if len(candidates) == 0 {
		return nil
	}
	rec := p.Normalize(candidates[0])
	return &rec
}

// ExtractAllJobs returns one record per job found in text, in extraction
// order. The result is empty, never nil, when nothing is found.
func (p *Pipeline) ExtractAllJobs(ctx context.Context, text string) []model.NormalizedJobRecord {
	candidates := p.extract(ctx, text, model.ExtractMulti)
	if len(candidates) == 0 {
		return []model.NormalizedJobRecord{}
	}
	return p.normalizeAll(candidates)
}

// TryExtractAllJobs is ExtractAllJobs for callers that must not treat a
// failed extraction as "no jobs", such as inbox polling. The error wraps
// model.ErrExtractionUnavailable when the extractor reports a failure or the
// caller cancelled mid-call. Extractors that do not implement
// model.CheckedExtractor never fail here.
func (p *Pipeline) TryExtractAllJobs(ctx context.Context, text string) ([]model.NormalizedJobRecord, error) {
	candidates, err := p.tryExtract(ctx, text, model.ExtractMulti)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []model.NormalizedJobRecord{}, nil
	}
	return p.normalizeAll(candidates), nil
}

// ExtractMultipleJobs is ExtractAllJobs for callers that only act on
// multi-job messages: it returns nil unless two or more records result.
func (p *Pipeline) ExtractMultipleJobs(ctx context.Context, text string) []model.NormalizedJobRecord {
	records := p.ExtractAllJobs(ctx, text)
	if len(records) < 2 {
		return nil
	}
	return records
}

// Normalize runs the deterministic normalizers over one candidate. Absent
// optional fields stay absent.
func (p *Pipeline) Normalize(c model.ExtractedJobCandidate) model.NormalizedJobRecord {
	rec := model.NormalizedJobRecord{
		ClientName:  normalize.TitleCase(c.ClientName),
		Category:    p.classifier.Categorise(c.WorkDescription),
		Description: c.WorkDescription,
		Price:       c.Price,
		Phone:       copyString(c.Phone),
		Email:       copyString(c.Email),
	}
	if c.Address != nil {
		if addr := p.enricher.Enrich(*c.Address); addr != "" {
			rec.Address = &addr
		}
	}
	if c.Schedule != nil {
		sched := p.resolver.Resolve(*c.Schedule)
		rec.Schedule = &sched
	}
	return rec
}

// extract calls the extractor under the pipeline timeout. Candidates are
// discarded if the caller cancelled while the call was in flight.
func (p *Pipeline) extract(ctx context.Context, text string, mode model.ExtractMode) []model.ExtractedJobCandidate {
	candidates, _ := p.tryExtract(ctx, text, mode)
	return candidates
}

func (p *Pipeline) tryExtract(ctx context.Context, text string, mode model.ExtractMode) ([]model.ExtractedJobCandidate, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	var (
		candidates []model.ExtractedJobCandidate
		err        error
	)
	if checked, ok := p.extractor.(model.CheckedExtractor); ok {
		candidates, err = checked.TryExtractCandidates(callCtx, text, mode)
	} else {
		candidates = p.extractor.ExtractCandidates(callCtx, text, mode)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		p.logger.Warn("intake cancelled during extraction", "mode", mode, "error", ctxErr)
		return nil, fmt.Errorf("%w: %w", model.ErrExtractionUnavailable, ctxErr)
	}
	if err != nil {
		return nil, err
	}

	p.logger.Debug("extracted candidates",
		"mode", mode,
		"candidates", len(candidates),
		"elapsed", time.Since(start),
	)
	return candidates, nil
}

// normalizeAll normalizes candidates concurrently, preserving order.
func (p *Pipeline) normalizeAll(candidates []model.ExtractedJobCandidate) []model.NormalizedJobRecord {
	out := make([]model.NormalizedJobRecord, len(candidates))
	var g errgroup.Group
	for i, c := range candidates {
		g.Go(func() error {
			out[i] = p.Normalize(c)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
