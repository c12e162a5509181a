package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobintake/internal/scheduler"
	"github.com/amishk599/jobintake/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Start the inbox polling daemon",
	Long:  "Polls every enabled inbox, saving extracted job records; blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoad(logger)

	logger.Info("config loaded",
		"tenant", cfg.Tenant,
		"interval", cfg.PollingInterval.String(),
		"inboxes", len(cfg.Inboxes),
		"timezone", cfg.Location.String(),
	)

	sqlStore, err := store.NewSQLiteStore(cfg.StorePath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	httpClient := &http.Client{Timeout: 30 * time.Second}
	n := setupNotifier(cfg, httpClient, logger)
	pipeline := setupPipeline(cfg, setupExtractor(cfg, logger), logger)

	pollers := buildPollers(cfg, pipeline, sqlStore, sqlStore, n, httpClient, logger)
	if len(pollers) == 0 {
		logger.Error("no inboxes to poll")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(pollers, cfg.PollingInterval, cfg.PollMinDelay, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
