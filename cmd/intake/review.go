package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobintake/internal/config"
	"github.com/amishk599/jobintake/internal/model"
	"github.com/amishk599/jobintake/internal/review"
	"github.com/amishk599/jobintake/internal/store"
)

var reviewLimit int

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse saved job records interactively (TUI)",
	Long:  "Shows the tenant picker, then launches the split-pane review of saved records.",
	RunE:  runReviewCmd,
}

func init() {
	reviewCmd.Flags().IntVar(&reviewLimit, "limit", 200, "maximum records to load per tenant")
	rootCmd.AddCommand(reviewCmd)
}

func runReviewCmd(cmd *cobra.Command, args []string) error {
	// No logger here: log output before the alt-screen starts corrupts the display.
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.StorePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	counts, err := sqlStore.CountRecords(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to count records: %v\n", err)
		os.Exit(1)
	}

	runReview(tenantOptions(cfg, counts), sqlStore)
	return nil
}

// tenantOptions lists the default tenant first, then inbox tenants in config
// order, then tenants that only exist in the store.
func tenantOptions(cfg *config.Config, stored map[string]int) []review.TenantOption {
	inboxes := map[string]int{cfg.Tenant: 0}
	order := []string{cfg.Tenant}
	for _, in := range cfg.Inboxes {
		if _, ok := inboxes[in.Tenant]; !ok {
			order = append(order, in.Tenant)
		}
		inboxes[in.Tenant]++
	}
	var extra []string
	for id := range stored {
		if _, ok := inboxes[id]; !ok {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	opts := make([]review.TenantOption, 0, len(order))
	for _, id := range order {
		opts = append(opts, review.TenantOption{ID: id, Inboxes: inboxes[id], Records: stored[id]})
	}
	return opts
}

func runReview(tenants []review.TenantOption, sqlStore *store.SQLiteStore) {
	for {
		tenant := tenants[0].ID
		if len(tenants) > 1 {
			id, ok, err := review.RunTenantPicker(tenants)
			if err != nil {
				fmt.Printf("Picker error: %v\n", err)
				return
			}
			if !ok {
				return
			}
			tenant = id
		}

		records, err := review.RunLoader("Loading jobs for "+tenant, 30*time.Second,
			func(ctx context.Context) ([]model.SavedRecord, error) {
				return sqlStore.ListRecords(ctx, tenant, reviewLimit)
			})
		if err != nil {
			fmt.Printf("Error loading records: %v\n", err)
			if len(tenants) == 1 {
				return
			}
			continue
		}

		wantQuit, err := review.RunReviewTUI(tenant, records)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit || len(tenants) == 1 {
			return
		}
		// else: loop → back to picker
	}
}
