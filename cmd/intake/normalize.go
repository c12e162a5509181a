package main

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobintake/internal/ai"
	"github.com/amishk599/jobintake/internal/model"
)

var (
	normName     string
	normWork     string
	normAddress  string
	normSchedule string
	normPrice    int
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Run the deterministic normalizers on hand-written fields",
	Long: `Builds a job record from the given fields without calling an LLM:
the name is title-cased, the work text categorised, the address expanded
and the schedule resolved against the current time.`,
	Example: `  intake normalize --name "john smith" --work "leaking tap" --address "12 smith st richmond" --schedule "2pm tmrw"`,
	RunE:    runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVar(&normName, "name", "", "client name")
	normalizeCmd.Flags().StringVar(&normWork, "work", "", "work description")
	normalizeCmd.Flags().StringVar(&normAddress, "address", "", "street address")
	normalizeCmd.Flags().StringVar(&normSchedule, "schedule", "", "free-form schedule, e.g. \"2pm tmrw\"")
	normalizeCmd.Flags().IntVar(&normPrice, "price", 0, "quoted price in whole currency units")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr(), debug)
	cfg := mustLoad(logger)

	// The deterministic layer never calls the extractor.
	pipeline := setupPipeline(cfg, ai.NewNopExtractor(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	c := model.ExtractedJobCandidate{
		ClientName:      normName,
		WorkDescription: normWork,
		Price:           normPrice,
		Address:         flagValue(cmd, "address", normAddress),
		Schedule:        flagValue(cmd, "schedule", normSchedule),
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(pipeline.Normalize(c))
}

// flagValue returns nil for a flag the user did not pass.
func flagValue(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}
