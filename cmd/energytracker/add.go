package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"energytracker/pkg/models"
)

var (
	addUser      int
	addAppliance string
	addKWh       float64
	addDuration  float64
	addAt        string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an energy usage event",
	Long: `Records one appliance-use event. Cost is derived from the configured
tariff rate at write time.`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().IntVar(&addUser, "user", 1, "User ID")
	addCmd.Flags().StringVar(&addAppliance, "appliance", "", "Appliance name (required)")
	addCmd.Flags().Float64Var(&addKWh, "kwh", 0, "Energy used in kWh (required)")
	addCmd.Flags().Float64Var(&addDuration, "duration", 1.0, "Usage duration in hours")
	addCmd.Flags().StringVar(&addAt, "at", "", "Event timestamp (YYYY-MM-DD HH:MM, default: now)")
	addCmd.MarkFlagRequired("appliance")
	addCmd.MarkFlagRequired("kwh")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if addKWh <= 0 {
		return fmt.Errorf("energy must be positive, got %v", addKWh)
	}
	if addDuration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", addDuration)
	}

	ts := time.Now()
	if addAt != "" {
		var err error
		ts, err = time.Parse("2006-01-02 15:04", addAt)
		if err != nil {
			return fmt.Errorf("parsing --at timestamp: %w", err)
		}
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

	tariff := cfg.GetTariffRate()
	event := models.EnergyEvent{
		UserID:        addUser,
		Timestamp:     ts,
		Appliance:     addAppliance,
		EnergyKWh:     addKWh,
		Cost:          addKWh * tariff,
		DurationHours: addDuration,
	}

	if err := db.InsertEvent(&event); err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}

	fmt.Printf("✓ Recorded %s: %.4f kWh (%.2f at %.2f/kWh) on %s\n",
		event.Appliance, event.EnergyKWh, event.Cost, tariff, ts.Format("2006-01-02 15:04"))
	return nil
}
