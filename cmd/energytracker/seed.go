package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"energytracker/internal/generator"
)

var (
	seedUser int
	seedDays int
	seedSeed uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate synthetic usage events",
	Long: `Generates realistic synthetic appliance-usage events for testing,
ending yesterday. Costs are derived from the configured tariff rate.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedUser, "user", 1, "User ID to generate data for")
	seedCmd.Flags().IntVar(&seedDays, "days", 90, "Number of days to generate")
	seedCmd.Flags().Uint64Var(&seedSeed, "seed", 0, "Random seed (0 = time-based)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Seed started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	if seedDays < 1 {
		return fmt.Errorf("days must be at least 1, got %d", seedDays)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	seed := seedSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	start := time.Now().AddDate(0, 0, -seedDays)
	fmt.Printf("Generating %d days of sample data for user %d...\n", seedDays, seedUser)

	events := generator.Events(seedUser, seedDays, cfg.GetTariffRate(), start, seed)
	for i := range events {
		if err := db.InsertEvent(&events[i]); err != nil {
			return fmt.Errorf("inserting event: %w", err)
		}
	}

	fmt.Printf("✓ Added %s events\n", humanize.Comma(int64(len(events))))
	return nil
}
