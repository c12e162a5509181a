package model

import (
	"context"
	"time"
)

// ExtractedJobCandidate is the raw, unnormalized output of an extractor.
// Optional fields are nil when the extractor found nothing for them.
type ExtractedJobCandidate struct {
	ClientName      string  // as written in the source text
	WorkDescription string  // forward-looking noun form, e.g. "Sink repair"
	Price           int     // whole currency units, 0 if absent
	Address         *string // free-form street address
	Schedule        *string // short natural-language form, e.g. "tomorrow 2pm"
	Phone           *string // digits only
	Email           *string // lowercased
}

// ScheduleResolution is an absolute instant plus a human rendering of it.
type ScheduleResolution struct {
	ISO     string `json:"iso"`     // UTC, millisecond precision, round-trippable
	Display string `json:"display"` // omits time of day when AllDay is set
	AllDay  bool   `json:"allDay"`  // input carried no time token
}

// NormalizedJobRecord is a candidate after the deterministic normalizers ran.
// It carries no identity; assigning one is the persistence layer's job.
type NormalizedJobRecord struct {
	ClientName  string              `json:"clientName"`
	Category    string              `json:"category"`
	Description string              `json:"description,omitempty"`
	Price       int                 `json:"price"`
	Address     *string             `json:"address,omitempty"`
	Schedule    *ScheduleResolution `json:"schedule,omitempty"`
	Phone       *string             `json:"phone,omitempty"`
	Email       *string             `json:"email,omitempty"`
}

// ExtractMode selects between the single- and multi-candidate extraction paths.
type ExtractMode int

const (
	ExtractSingle ExtractMode = iota
	ExtractMulti
)

func (m ExtractMode) String() string {
	if m == ExtractMulti {
		return "multi"
	}
	return "single"
}

// CandidateExtractor pulls job candidates out of unstructured text.
// Implementations never return an error: failures degrade to no candidates.
type CandidateExtractor interface {
	ExtractCandidates(ctx context.Context, text string, mode ExtractMode) []ExtractedJobCandidate
}

// CheckedExtractor is implemented by extractors that can tell "no job in
// this text" apart from "could not extract". TryExtractCandidates returns an
// error wrapping ErrExtractionUnavailable in the second case.
type CheckedExtractor interface {
	CandidateExtractor
	TryExtractCandidates(ctx context.Context, text string, mode ExtractMode) ([]ExtractedJobCandidate, error)
}

// Message is one unit of inbound text (a forwarded email, chat export, transcript).
type Message struct {
	ID         string // stable per content
	Source     string // where it came from, e.g. a file path
	Text       string
	ReceivedAt time.Time
}

// MessageSource fetches pending inbound messages.
type MessageSource interface {
	FetchMessages(ctx context.Context) ([]Message, error)
}

// MessageStore tracks which message IDs have been processed for deduplication.
type MessageStore interface {
	HasSeen(messageID string) (bool, error)
	MarkSeen(messageID string) error
	Cleanup(olderThan time.Duration) error
	IsEmpty() (bool, error)
}

// RecordSink persists normalized records for a tenant and returns the created id.
type RecordSink interface {
	SaveRecord(ctx context.Context, tenantID string, rec NormalizedJobRecord) (string, error)
}

// Notifier announces records that were created from inbound messages.
type Notifier interface {
	Notify(records []SavedRecord) error
}

// SavedRecord pairs a record with the identity the sink assigned to it.
type SavedRecord struct {
	ID        string
	TenantID  string
	Source    string
	CreatedAt time.Time
	Record    NormalizedJobRecord
}
