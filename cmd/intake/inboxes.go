package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var inboxesCmd = &cobra.Command{
	Use:   "inboxes",
	Short: "List all configured inboxes",
	Long:  "Reads the config and prints a table of all configured inboxes.",
	RunE:  runInboxes,
}

func init() {
	rootCmd.AddCommand(inboxesCmd)
}

func runInboxes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-20s %-6s %-15s %s\n", "Inbox", "Type", "Tenant", "Status")
	fmt.Println(strings.Repeat("─", 52))

	enabled, disabled := 0, 0
	for _, in := range cfg.Inboxes {
		status := "enabled"
		if !in.Enabled {
			status = "disabled"
			disabled++
		} else {
			enabled++
		}
		fmt.Printf("%-20s %-6s %-15s %s\n", in.Name, in.Type, in.Tenant, status)
	}

	fmt.Printf("\nTotal: %d inboxes (%d enabled, %d disabled)\n", len(cfg.Inboxes), enabled, disabled)
	return nil
}
