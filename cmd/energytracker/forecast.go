package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"energytracker/internal/config"
	"energytracker/internal/database"
	"energytracker/internal/forecast"
	"energytracker/internal/publisher"
	"energytracker/pkg/models"
)

var (
	forecastUser    int
	forecastDays    int
	forecastMonthly bool
	forecastSave    bool
	forecastPublish bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast upcoming energy consumption",
	Long: `Projects the trained model forward and prints predicted daily consumption
and cost. Trains a fresh model first when no saved artifact exists for the
user.`,
	RunE: runForecast,
}

func init() {
	forecastCmd.Flags().IntVar(&forecastUser, "user", 1, "User ID")
	forecastCmd.Flags().IntVar(&forecastDays, "days", 0, "Forecast horizon in days (default from config)")
	forecastCmd.Flags().BoolVar(&forecastMonthly, "monthly", false, "Print a 30-day monthly total instead of a daily table")
	forecastCmd.Flags().BoolVar(&forecastSave, "save", false, "Store forecast points in the predictions table")
	forecastCmd.Flags().BoolVar(&forecastPublish, "publish", false, "Push forecast points to the configured destinations")
	rootCmd.AddCommand(forecastCmd)
}

// loadHistory aggregates a user's stored events into the daily series the
// model consumes.
func loadHistory(db *database.DB, userID int) ([]models.DailyRecord, []string, error) {
	events, err := db.ListEvents(userID, nil, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("listing events: %w", err)
	}

	appliances := make([]string, len(events))
	for i, ev := range events {
		appliances[i] = ev.Appliance
	}

	return forecast.Aggregate(events), appliances, nil
}

// ensurePredictor loads the user's saved model, training and saving a fresh
// one when no artifact exists yet.
func ensurePredictor(cfg *config.Config, userID int, records []models.DailyRecord, appliances []string) (*forecast.Predictor, error) {
	path := modelPath(cfg, userID)

	predictor, err := forecast.Load(path)
	if err == nil {
		fmt.Printf("Using model %s trained %s\n", predictor.Version(), humanize.Time(predictor.TrainedAt()))
		return predictor, nil
	}
	if !errors.Is(err, forecast.ErrModelNotFound) {
		return nil, err
	}

	fmt.Printf("No saved model for user %d, training one...\n", userID)

	predictor = &forecast.Predictor{}
	if _, err := predictor.Train(records, appliances, forecast.TrainOptions{
		TestFraction: cfg.GetTestFraction(),
		Seed:         cfg.GetTrainSeed(),
	}); err != nil {
		return nil, fmt.Errorf("training model: %w", err)
	}
	if err := predictor.Save(path); err != nil {
		return nil, fmt.Errorf("saving model: %w", err)
	}

	fmt.Printf("✓ Model %s saved to %s\n", predictor.Version(), path)
	return predictor, nil
}

func runForecast(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	records, appliances, err := loadHistory(db, forecastUser)
	if err != nil {
		return err
	}
	if len(records) < forecast.MinHistoryDays {
		return fmt.Errorf("%d days of usage recorded, need at least %d to forecast", len(records), forecast.MinHistoryDays)
	}

	predictor, err := ensurePredictor(cfg, forecastUser, records, appliances)
	if err != nil {
		return err
	}

	tariff := cfg.GetTariffRate()

	if forecastMonthly {
		monthly, err := predictor.ForecastMonthly(records, tariff)
		if err != nil {
			return fmt.Errorf("forecasting: %w", err)
		}

		fmt.Printf("Next %d days: %.2f kWh, %.2f cost\n",
			forecast.MonthlyHorizonDays, monthly.PredictedKWh, monthly.PredictedCost)

		if forecastSave {
			if err := savePoints(db, forecastUser, predictor.Version(), monthly.Daily, "monthly"); err != nil {
				return err
			}
			fmt.Printf("✓ Stored %d prediction rows\n", len(monthly.Daily))
		}
		if forecastPublish {
			if err := publishPoints(cfg, forecastUser, monthly.Daily); err != nil {
				return err
			}
			fmt.Printf("✓ Published %d forecast points\n", len(monthly.Daily))
		}
		return nil
	}

	days := forecastDays
	if days == 0 {
		days = cfg.GetHorizonDays()
	}

	points, err := predictor.Forecast(records, days, tariff)
	if err != nil {
		return fmt.Errorf("forecasting: %w", err)
	}

	fmt.Printf("%-12s %12s %10s %12s\n", "Date", "kWh", "Cost", "Confidence")
	var totalKWh, totalCost float64
	for _, pt := range points {
		fmt.Printf("%-12s %12.4f %10.2f %12.2f\n",
			pt.Date.Format("2006-01-02"), pt.PredictedKWh, pt.PredictedCost, pt.ConfidenceScore)
		totalKWh += pt.PredictedKWh
		totalCost += pt.PredictedCost
	}
	fmt.Printf("%-12s %12.4f %10.2f\n", "Total", totalKWh, totalCost)

	if forecastSave {
		if err := savePoints(db, forecastUser, predictor.Version(), points, "daily"); err != nil {
			return err
		}
		fmt.Printf("✓ Stored %d prediction rows\n", len(points))
	}

	if forecastPublish {
		if err := publishPoints(cfg, forecastUser, points); err != nil {
			return err
		}
		fmt.Printf("✓ Published %d forecast points\n", len(points))
	}

	return nil
}

// publishPoints pushes forecast points to the destinations enabled in config.
func publishPoints(cfg *config.Config, userID int, points []models.ForecastPoint) error {
	pub, err := publisher.New(cfg.MQTT, cfg.HomeAssistant)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	for _, pt := range points {
		if err := pub.Publish(userID, pt); err != nil {
			return fmt.Errorf("publishing %s: %w", pt.Date.Format("2006-01-02"), err)
		}
	}
	return nil
}

// savePoints persists forecast points as prediction rows.
func savePoints(db *database.DB, userID int, version string, points []models.ForecastPoint, predType string) error {
	for _, pt := range points {
		err := db.SavePrediction(&models.Prediction{
			UserID:         userID,
			PredictionDate: pt.Date,
			PredictedKWh:   pt.PredictedKWh,
			PredictedCost:  pt.PredictedCost,
			Confidence:     pt.ConfidenceScore,
			PredictionType: predType,
			ModelVersion:   version,
		})
		if err != nil {
			return fmt.Errorf("storing prediction: %w", err)
		}
	}
	return nil
}
