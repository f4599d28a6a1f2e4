package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"energytracker/internal/forecast"
	"energytracker/internal/publisher"
)

var (
	publishUser int
	publishDays int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish forecasts to MQTT and Home Assistant",
	Long: `Runs a forecast and pushes each point to the destinations enabled in
config: an MQTT broker, the Home Assistant states API, or both.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().IntVar(&publishUser, "user", 1, "User ID")
	publishCmd.Flags().IntVar(&publishDays, "days", 0, "Forecast horizon in days (default from config)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.MQTT.Enabled && !cfg.HomeAssistant.Enabled {
		return fmt.Errorf("neither MQTT nor Home Assistant is enabled in config")
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	records, appliances, err := loadHistory(db, publishUser)
	if err != nil {
		return err
	}
	if len(records) < forecast.MinHistoryDays {
		return fmt.Errorf("%d days of usage recorded, need at least %d to forecast", len(records), forecast.MinHistoryDays)
	}

	predictor, err := ensurePredictor(cfg, publishUser, records, appliances)
	if err != nil {
		return err
	}

	days := publishDays
	if days == 0 {
		days = cfg.GetHorizonDays()
	}

	points, err := predictor.Forecast(records, days, cfg.GetTariffRate())
	if err != nil {
		return fmt.Errorf("forecasting: %w", err)
	}

	pub, err := publisher.New(cfg.MQTT, cfg.HomeAssistant)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	for _, pt := range points {
		if err := pub.Publish(publishUser, pt); err != nil {
			return fmt.Errorf("publishing %s: %w", pt.Date.Format("2006-01-02"), err)
		}
		fmt.Printf("✓ Published %s: %.4f kWh\n", pt.Date.Format("2006-01-02"), pt.PredictedKWh)
	}

	fmt.Printf("Published %d forecast points\n", len(points))
	return nil
}
