package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobintake/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Poll every inbox once, print extracted jobs, exit",
	Long:  "One-shot poll of each enabled inbox. Extracted records are logged but nothing is saved or marked as seen.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoad(logger)

	logger.Info("check mode: no records will be saved and no messages marked as seen")

	httpClient := &http.Client{Timeout: 30 * time.Second}
	n := setupNotifier(cfg, httpClient, logger)
	pipeline := setupPipeline(cfg, setupExtractor(cfg, logger), logger)
	nopStore := store.NewNopStore()

	pollers := buildPollers(cfg, pipeline, nopStore, nopStore, n, httpClient, logger)
	if len(pollers) == 0 {
		logger.Error("no inboxes to poll")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for _, p := range pollers {
		if err := p.Poll(ctx); err != nil {
			logger.Error("poll failed", "inbox", p.Name, "error", err)
		}
	}

	logger.Info("check complete")
	return nil
}
