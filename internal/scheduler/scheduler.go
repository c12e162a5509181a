package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/amishk599/jobintake/internal/poller"
)

// Scheduler owns the main loop. Pollers are grouped by inbox kind; each group
// runs in its own goroutine, polling its inboxes in order with minDelay
// between them, then sleeping for interval.
type Scheduler struct {
	pollers  []*poller.InboxPoller
	interval time.Duration
	minDelay time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that polls all inboxes at the given interval.
func NewScheduler(pollers []*poller.InboxPoller, interval, minDelay time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		pollers:  pollers,
		interval: interval,
		minDelay: minDelay,
		logger:   logger,
	}
}

// Run starts one loop per group. Each loop runs an immediate cycle, then
// ticks on the configured interval. Run returns nil once ctx is cancelled and
// every loop has stopped.
func (s *Scheduler) Run(ctx context.Context) error {
	groups := s.groupByKind()
	s.logger.Info("starting scheduler",
		"interval", s.interval.String(),
		"inboxes", len(s.pollers),
		"groups", len(groups),
	)

	var wg sync.WaitGroup
	for kind, pollers := range groups {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runGroup(ctx, kind, pollers)
		}()
	}
	wg.Wait()

	s.logger.Info("shutting down scheduler")
	return nil
}

func (s *Scheduler) runGroup(ctx context.Context, kind string, pollers []*poller.InboxPoller) {
	for {
		s.pollAll(ctx, kind, pollers)

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.interval):
		}
	}
}

// pollAll runs Poll on each poller sequentially with minDelay between inboxes.
func (s *Scheduler) pollAll(ctx context.Context, kind string, pollers []*poller.InboxPoller) {
	for i, p := range pollers {
		if ctx.Err() != nil {
			return
		}

		if err := p.Poll(ctx); err != nil {
			s.logger.Error("poll failed",
				"inbox", p.Name,
				"kind", kind,
				"error", err,
			)
		}

		if i < len(pollers)-1 && s.minDelay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.minDelay):
			}
		}
	}
}

// groupByKind buckets pollers by inbox kind, keeping config order within a kind.
func (s *Scheduler) groupByKind() map[string][]*poller.InboxPoller {
	groups := make(map[string][]*poller.InboxPoller)
	for _, p := range s.pollers {
		groups[p.Kind] = append(groups[p.Kind], p)
	}
	return groups
}
