package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the work categories and their keywords",
	Long:  "Prints the work taxonomy in match order, including categories added in config.",
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-3s %-18s %s\n", "#", "Category", "Keywords")
	fmt.Println(strings.Repeat("─", 72))

	categories := newClassifier(cfg).Categories()
	for i, c := range categories {
		keywords := strings.Join(c.Keywords, ", ")
		if keywords == "" {
			keywords = "(fallback)"
		}
		fmt.Printf("%-3d %-18s %s\n", i+1, c.Label, keywords)
	}

	fmt.Printf("\nTotal: %d categories\n", len(categories))
	return nil
}
