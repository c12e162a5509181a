package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/jobintake/internal/model"
)

// Options tunes an InboxPoller.
type Options struct {
	// MaxAge skips messages received longer ago than this. Zero disables it.
	MaxAge time.Duration
	// SkipBacklog marks everything seen without extracting when the store is
	// empty, so a new inbox does not replay its history.
	SkipBacklog bool
	// Retention drops seen-message entries older than this after each poll.
	Retention time.Duration
}

// InboxPoller owns the full poll pipeline for a single inbox:
// fetch → dedup → extract → save → notify → mark seen.
type InboxPoller struct {
	Name     string
	Kind     string // inbox type, e.g. "dir" or "feed"
	tenantID string
	source   model.MessageSource
	intake   JobIntake
	store    model.MessageStore
	sink     model.RecordSink
	notifier model.Notifier
	opts     Options
	now      func() time.Time
	logger   *slog.Logger
}

// NewInboxPoller creates a poller wired with all its dependencies.
func NewInboxPoller(
	name string,
	kind string,
	tenantID string,
	source model.MessageSource,
	intake JobIntake,
	store model.MessageStore,
	sink model.RecordSink,
	notifier model.Notifier,
	opts Options,
	logger *slog.Logger,
) *InboxPoller {
	return &InboxPoller{
		Name:     name,
		Kind:     kind,
		tenantID: tenantID,
		source:   source,
		intake:   intake,
		store:    store,
		sink:     sink,
		notifier: notifier,
		opts:     opts,
		now:      time.Now,
		logger:   logger,
	}
}

// Poll runs one poll cycle. A message is marked seen only after extraction
// ran and every record from it was saved, so a provider outage or a failed
// save leaves it for the next cycle.
func (p *InboxPoller) Poll(ctx context.Context) error {
	msgs, err := p.source.FetchMessages(ctx)
	if err != nil {
		return fmt.Errorf("polling %s: %w", p.Name, err)
	}

	firstRun := false
	if p.opts.SkipBacklog {
		if firstRun, err = p.store.IsEmpty(); err != nil {
			return fmt.Errorf("polling %s: checking store: %w", p.Name, err)
		}
	}

	var newMsgs []model.Message
	for _, m := range msgs {
		seen, err := p.store.HasSeen(m.ID)
		if err != nil {
			return fmt.Errorf("polling %s: checking seen status: %w", p.Name, err)
		}
		if !seen {
			newMsgs = append(newMsgs, m)
		}
	}

	if firstRun {
		for _, m := range newMsgs {
			if err := p.store.MarkSeen(m.ID); err != nil {
				return fmt.Errorf("polling %s: seeding: %w", p.Name, err)
			}
		}
		p.logger.Info("seeded inbox on first run", "inbox", p.Name, "messages", len(newMsgs))
		return nil
	}

	var (
		saved   []model.SavedRecord
		skipped int
	)
	for _, m := range newMsgs {
		if ctx.Err() != nil {
			break
		}
		if p.isStale(m) {
			skipped++
		} else {
			recs, err := p.process(ctx, m)
			saved = append(saved, recs...)
			if err != nil {
				_ = p.notify(saved)
				return fmt.Errorf("polling %s: %w", p.Name, err)
			}
		}
		if err := p.store.MarkSeen(m.ID); err != nil {
			_ = p.notify(saved)
			return fmt.Errorf("polling %s: marking seen: %w", p.Name, err)
		}
	}

	if err := p.notify(saved); err != nil {
		return fmt.Errorf("polling %s: notifying: %w", p.Name, err)
	}

	if p.opts.Retention > 0 {
		if err := p.store.Cleanup(p.opts.Retention); err != nil {
			p.logger.Warn("cleanup failed", "inbox", p.Name, "error", err)
		}
	}

	p.logger.Info("polled inbox",
		"inbox", p.Name,
		"tenant", p.tenantID,
		"fetched", len(msgs),
		"new", len(newMsgs),
		"stale", skipped,
		"records", len(saved),
	)

	return nil
}

// process extracts and saves the records of one message.
func (p *InboxPoller) process(ctx context.Context, m model.Message) ([]model.SavedRecord, error) {
	records, err := p.intake.TryExtractAllJobs(ctx, m.Text)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", m.Source, err)
	}
	if len(records) == 0 {
		p.logger.Debug("no jobs in message", "inbox", p.Name, "source", m.Source)
		return nil, nil
	}

	out := make([]model.SavedRecord, 0, len(records))
	for _, rec := range records {
		id, err := p.sink.SaveRecord(ctx, p.tenantID, rec)
		if err != nil {
			return out, fmt.Errorf("saving record from %s: %w", m.Source, err)
		}
		out = append(out, model.SavedRecord{
			ID:        id,
			TenantID:  p.tenantID,
			Source:    m.Source,
			CreatedAt: p.now(),
			Record:    rec,
		})
	}
	return out, nil
}

func (p *InboxPoller) isStale(m model.Message) bool {
	if p.opts.MaxAge <= 0 || m.ReceivedAt.IsZero() {
		return false
	}
	return p.now().Sub(m.ReceivedAt) > p.opts.MaxAge
}

func (p *InboxPoller) notify(saved []model.SavedRecord) error {
	if len(saved) == 0 {
		return nil
	}
	return p.notifier.Notify(saved)
}
