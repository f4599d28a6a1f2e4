package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"energytracker/internal/forecast"
	"energytracker/internal/insight"
)

var insightsUser int

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show usage insights and saving tips",
	RunE:  runInsights,
}

func init() {
	insightsCmd.Flags().IntVar(&insightsUser, "user", 1, "User ID")
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	events, err := db.ListEvents(insightsUser, nil, nil)
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}
	if len(events) == 0 {
		fmt.Printf("No usage recorded for user %d yet\n", insightsUser)
		return nil
	}

	appliances, err := db.ApplianceSummary(insightsUser)
	if err != nil {
		return fmt.Errorf("summarizing appliances: %w", err)
	}

	records := forecast.Aggregate(events)
	insights := insight.Generate(records, appliances, cfg.GetTariffRate())

	for _, ins := range insights {
		fmt.Printf("[%s/%s] %s\n", strings.ToUpper(ins.Priority), ins.Type, ins.Title)
		fmt.Printf("  %s\n\n", ins.Text)
	}

	fmt.Printf("%d insights from %d days of usage\n", len(insights), len(records))
	return nil
}
