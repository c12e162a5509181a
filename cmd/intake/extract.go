package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobintake/internal/model"
	"github.com/amishk599/jobintake/internal/review"
	"github.com/amishk599/jobintake/internal/store"
)

var (
	extractAll      bool
	extractMultiple bool
	extractSave     bool
	extractProgress bool
	extractTenant   string
)

var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "Extract job records from a message",
	Long: `Extracts job records from the given text (or stdin when no text is given)
and prints them as JSON. By default a single job is extracted; --all returns
every job found, --multi only answers when two or more jobs are found.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractAll, "all", false, "extract every job in the message")
	extractCmd.Flags().BoolVar(&extractMultiple, "multi", false, "only return records when the message holds two or more jobs")
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "save extracted records to the store")
	extractCmd.Flags().BoolVar(&extractProgress, "progress", false, "show a spinner while extracting")
	extractCmd.Flags().StringVar(&extractTenant, "tenant", "", "tenant to save records under (default: config tenant)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	// Logs go to stderr so stdout stays pure JSON.
	logger := newLogger(cmd.ErrOrStderr(), debug)
	cfg := mustLoad(logger)

	text := strings.Join(args, " ")
	if text == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	pipeline := setupPipeline(cfg, setupExtractor(cfg, logger), logger)
	run := func(ctx context.Context) ([]model.NormalizedJobRecord, error) {
		switch {
		case extractMultiple:
			return pipeline.ExtractMultipleJobs(ctx, text), nil
		case extractAll:
			return pipeline.ExtractAllJobs(ctx, text), nil
		default:
			if rec := pipeline.ExtractJob(ctx, text); rec != nil {
				return []model.NormalizedJobRecord{*rec}, nil
			}
			return nil, nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var records []model.NormalizedJobRecord
	var err error
	if extractProgress {
		records, err = review.RunLoader("Extracting jobs", cfg.AI.Timeout, run)
	} else {
		records, err = run(ctx)
	}
	if err != nil {
		return err
	}
	if records == nil {
		records = []model.NormalizedJobRecord{}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	if !extractSave {
		return enc.Encode(records)
	}

	tenant := extractTenant
	if tenant == "" {
		tenant = cfg.Tenant
	}
	sqlStore, err := store.NewSQLiteStore(cfg.StorePath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	saved := make([]model.SavedRecord, 0, len(records))
	for _, rec := range records {
		id, err := sqlStore.SaveRecord(ctx, tenant, rec)
		if err != nil {
			return err
		}
		saved = append(saved, model.SavedRecord{ID: id, TenantID: tenant, Source: "cli", Record: rec})
		logger.Info("record saved", "id", id, "tenant", tenant, "client", rec.ClientName)
	}
	return enc.Encode(saved)
}
