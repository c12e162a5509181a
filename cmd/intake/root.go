package main

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobintake/internal/adapter"
	"github.com/amishk599/jobintake/internal/ai"
	"github.com/amishk599/jobintake/internal/config"
	"github.com/amishk599/jobintake/internal/intake"
	"github.com/amishk599/jobintake/internal/model"
	"github.com/amishk599/jobintake/internal/normalize"
	"github.com/amishk599/jobintake/internal/notifier"
	"github.com/amishk599/jobintake/internal/poller"
	"github.com/amishk599/jobintake/internal/ratelimit"
	"github.com/amishk599/jobintake/internal/retry"
	"github.com/amishk599/jobintake/internal/taxonomy"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Turn free-form job requests into structured job records",
	Long:  "intake reads customer messages, extracts job requests with an LLM and normalizes them into records.",
	// Default to `watch` so that `intake` with no args runs the daemon.
	RunE:         runWatch,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: "+config.PathEnv+" env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
func loadConfig(path string) (*config.Config, error) {
	return config.Load(config.ResolvePath(path))
}

func setupLogger(dbg bool) *slog.Logger {
	return newLogger(os.Stdout, dbg)
}

func newLogger(w io.Writer, dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// mustLoad loads config or logs and exits.
func mustLoad(logger *slog.Logger) *config.Config {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	return cfg
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// setupExtractor builds the provider chain: provider → rate limit → retry →
// extractor. Without credentials it falls back to a NopExtractor so every
// extraction yields nothing.
func setupExtractor(cfg *config.Config, logger *slog.Logger) model.CandidateExtractor {
	if !cfg.AI.Enabled {
		logger.Info("ai extraction disabled, no jobs will be extracted")
		return ai.NewNopExtractor()
	}

	provider, err := ai.NewProvider(ai.ProviderConfig{
		Provider: cfg.AI.Provider,
		BaseURL:  cfg.AI.BaseURL,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
		Timeout:  cfg.AI.Timeout,
	})
	if errors.Is(err, model.ErrNoCredentials) {
		logger.Warn("ai.api_key is not set, extraction unavailable")
		return ai.NewNopExtractor()
	}
	if err != nil {
		logger.Error("failed to build ai provider, extraction unavailable", "error", err)
		return ai.NewNopExtractor()
	}

	// Rate limiting sits inside retry so every attempt waits its turn.
	if cfg.AI.MinDelay > 0 {
		limiter := ratelimit.NewProviderRateLimiter(cfg.AI.MinDelay)
		provider = ratelimit.NewRateLimitedProvider(provider, limiter, cfg.AI.Provider)
	}
	provider = retry.NewRetryProvider(provider, cfg.AI.MaxRetries, cfg.AI.RetryDelay, logger)

	logger.Info("ai extraction enabled", "provider", cfg.AI.Provider, "model", cfg.AI.Model)
	return ai.NewLLMJobExtractor(provider, logger)
}

// setupPipeline wires the deterministic normalizers with the config's
// taxonomy extensions and schedule settings.
func setupPipeline(cfg *config.Config, extractor model.CandidateExtractor, logger *slog.Logger) *intake.Pipeline {
	scheduleOpts := []normalize.ScheduleOption{
		normalize.WithLocation(cfg.Location),
		normalize.WithDefaultHour(cfg.Schedule.DefaultHour),
	}
	if cfg.Schedule.KeySlips != nil {
		scheduleOpts = append(scheduleOpts, normalize.WithKeySlips(cfg.Schedule.KeySlips))
	}

	return intake.NewPipeline(extractor,
		intake.WithClassifier(newClassifier(cfg)),
		intake.WithAddressEnricher(normalize.NewAddressEnricher(
			taxonomy.MergeAbbreviations(taxonomy.StreetAbbreviations, cfg.Taxonomy.Abbreviations),
		)),
		intake.WithScheduleResolver(normalize.NewScheduleResolver(scheduleOpts...)),
		intake.WithTimeout(extractionBudget(cfg)),
		intake.WithLogger(logger),
	)
}

// extractionBudget bounds one pipeline extraction. ai.timeout caps a single
// provider attempt, so the pipeline deadline has to leave room for the
// retries and the rate limiter's wait before each of them.
func extractionBudget(cfg *config.Config) time.Duration {
	return retry.Budget(cfg.AI.Timeout+cfg.AI.MinDelay, cfg.AI.MaxRetries, cfg.AI.RetryDelay)
}

func newClassifier(cfg *config.Config) *normalize.Classifier {
	return normalize.NewClassifier(taxonomy.WithExtras(taxonomy.Categories, cfg.Taxonomy.Categories))
}

func createSource(inbox config.InboxConfig, httpClient *http.Client, logger *slog.Logger) (model.MessageSource, bool) {
	switch inbox.Type {
	case "dir":
		return adapter.NewDirectorySource(inbox.Name, inbox.Dir), true
	case "feed":
		feed := adapter.NewFeedSource(inbox.Name, inbox.URL, inbox.Token, httpClient)
		return retry.NewRetryFetcher(feed, 2, 5*time.Second, logger), true
	default:
		logger.Warn("unsupported inbox type, skipping", "inbox", inbox.Name, "type", inbox.Type)
		return nil, false
	}
}

func buildPollers(
	cfg *config.Config,
	pipeline poller.JobIntake,
	messages model.MessageStore,
	sink model.RecordSink,
	n model.Notifier,
	httpClient *http.Client,
	logger *slog.Logger,
) []*poller.InboxPoller {
	var pollers []*poller.InboxPoller
	for _, inbox := range cfg.EnabledInboxes() {
		source, ok := createSource(inbox, httpClient, logger)
		if !ok {
			continue
		}

		opts := poller.Options{
			MaxAge:      inbox.MaxAge,
			SkipBacklog: inbox.SkipBacklog,
			Retention:   inbox.Retention,
		}
		p := poller.NewInboxPoller(inbox.Name, inbox.Type, inbox.Tenant, source, pipeline, messages, sink, n, opts, logger)
		pollers = append(pollers, p)
		logger.Info("registered inbox", "name", inbox.Name, "type", inbox.Type, "tenant", inbox.Tenant)
	}
	return pollers
}
