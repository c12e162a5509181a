package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/amishk599/jobintake/internal/model"
	"github.com/amishk599/jobintake/internal/taxonomy"
)

// Inputs shorter than these (in runes, after trimming) never reach the provider.
const (
	MinSingleInputLen = 10
	MinMultiInputLen  = 15
)

var _ model.CheckedExtractor = (*LLMJobExtractor)(nil)

// LLMJobExtractor implements model.CandidateExtractor using an LLM.
type LLMJobExtractor struct {
	provider LLMProvider
	single   *template.Template
	multi    *template.Template
	meta     []string
	logger   *slog.Logger
}

// NewLLMJobExtractor creates an extractor backed by provider using the
// embedded prompt templates.
func NewLLMJobExtractor(provider LLMProvider, logger *slog.Logger) *LLMJobExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMJobExtractor{
		provider: provider,
		single:   SingleJobTemplate,
		multi:    MultiJobTemplate,
		meta:     taxonomy.MetaInstructions,
		logger:   logger,
	}
}

// ExtractCandidates returns the job candidates found in text. Short input,
// provider failures and malformed output all yield no candidates; failures
// are logged, never returned.
func (e *LLMJobExtractor) ExtractCandidates(ctx context.Context, text string, mode model.ExtractMode) []model.ExtractedJobCandidate {
	candidates, _ := e.TryExtractCandidates(ctx, text, mode)
	return candidates
}

// TryExtractCandidates is ExtractCandidates with the failure kept. Short input
// and a closed gate are not failures. A provider error or malformed output
// comes back wrapped in model.ErrExtractionUnavailable.
func (e *LLMJobExtractor) TryExtractCandidates(ctx context.Context, text string, mode model.ExtractMode) ([]model.ExtractedJobCandidate, error) {
	text = strings.TrimSpace(text)
	minLen := MinSingleInputLen
	if mode == model.ExtractMulti {
		minLen = MinMultiInputLen
	}
	if utf8.RuneCountInString(text) < minLen {
		e.logger.Debug("input too short for extraction", "mode", mode, "length", utf8.RuneCountInString(text))
		return nil, nil
	}

	reqID := uuid.NewString()
	logger := e.logger.With("request_id", reqID, "mode", mode)

	var (
		candidates []model.ExtractedJobCandidate
		err        error
	)
	if mode == model.ExtractMulti {
		candidates, err = e.extractMulti(ctx, text)
	} else {
		candidates, err = e.extractSingle(ctx, text)
	}
	if err != nil {
		logger.Warn("extraction failed, returning no candidates", "error", err)
		return nil, fmt.Errorf("%w: %w", model.ErrExtractionUnavailable, err)
	}

	logger.Debug("extraction complete", "candidates", len(candidates))
	return candidates, nil
}

type rawSingle struct {
	IsJob bool `json:"is_job"`
	rawCandidate
}

type rawMulti struct {
	Jobs []rawCandidate `json:"jobs"`
}

func (e *LLMJobExtractor) extractSingle(ctx context.Context, text string) ([]model.ExtractedJobCandidate, error) {
	raw, err := e.complete(ctx, e.single, "single_job", singleJobSchema, singleJobValidator, text)
	if err != nil {
		return nil, err
	}

	var rs rawSingle
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedOutput, err)
	}
	if !rs.IsJob {
		return nil, nil
	}

	c := rs.toCandidate()
	if c.ClientName == "" && c.WorkDescription == "" {
		return nil, nil
	}
	return []model.ExtractedJobCandidate{c}, nil
}

func (e *LLMJobExtractor) extractMulti(ctx context.Context, text string) ([]model.ExtractedJobCandidate, error) {
	raw, err := e.complete(ctx, e.multi, "multi_job", multiJobSchema, multiJobValidator, text)
	if err != nil {
		return nil, err
	}

	var rm rawMulti
	if err := json.Unmarshal(raw, &rm); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedOutput, err)
	}

	seen := make(map[string]bool, len(rm.Jobs))
	var out []model.ExtractedJobCandidate
	for _, rc := range rm.Jobs {
		c := rc.toCandidate()
		if c.ClientName == "" && c.WorkDescription == "" {
			continue
		}
		if c.ClientName == "" && e.isMetaInstruction(c.WorkDescription) {
			continue
		}
		if c.ClientName != "" {
			key := strings.ToLower(c.ClientName)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, c)
	}
	return out, nil
}

// complete renders the prompt, calls the provider and validates the reply.
func (e *LLMJobExtractor) complete(
	ctx context.Context,
	tmpl *template.Template,
	schemaName string,
	schemaMap map[string]any,
	schema *jsonschema.Schema,
	text string,
) ([]byte, error) {
	var promptBuf bytes.Buffer
	if err := tmpl.Execute(&promptBuf, struct{ Text string }{Text: text}); err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	out, err := e.provider.Complete(ctx, CompletionRequest{
		System:     systemPrompt,
		User:       promptBuf.String(),
		SchemaName: schemaName,
		Schema:     schemaMap,
	})
	if err != nil {
		return nil, fmt.Errorf("llm complete: %w", err)
	}

	raw := []byte(stripCodeFence(out))
	if err := validateAgainstSchema(schema, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedOutput, err)
	}
	return raw, nil
}

func (e *LLMJobExtractor) isMetaInstruction(desc string) bool {
	d := strings.ToLower(desc)
	for _, phrase := range e.meta {
		if strings.Contains(d, phrase) {
			return true
		}
	}
	return false
}
