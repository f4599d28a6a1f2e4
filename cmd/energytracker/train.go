package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"energytracker/internal/forecast"
)

var (
	trainUser     int
	trainFraction float64
	trainSeed     uint64
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the forecast model",
	Long: `Aggregates the user's stored events into a daily series, trains the
consumption model on it, prints evaluation metrics, and saves the model as
a versioned artifact.`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().IntVar(&trainUser, "user", 1, "User ID")
	trainCmd.Flags().Float64Var(&trainFraction, "test-fraction", 0, "Held-out fraction for evaluation (default from config)")
	trainCmd.Flags().Uint64Var(&trainSeed, "seed", 0, "Training seed (default from config)")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Train started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	events, err := db.ListEvents(trainUser, nil, nil)
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}

	records := forecast.Aggregate(events)
	fmt.Printf("Aggregated %s events into %d daily records\n",
		humanize.Comma(int64(len(events))), len(records))

	appliances := make([]string, len(events))
	for i, ev := range events {
		appliances[i] = ev.Appliance
	}

	fraction := trainFraction
	if fraction == 0 {
		fraction = cfg.GetTestFraction()
	}
	seed := trainSeed
	if seed == 0 {
		seed = cfg.GetTrainSeed()
	}

	predictor := &forecast.Predictor{}
	report, err := predictor.Train(records, appliances, forecast.TrainOptions{
		TestFraction: fraction,
		Seed:         seed,
	})
	if err != nil {
		return fmt.Errorf("training model: %w", err)
	}

	path := modelPath(cfg, trainUser)
	if err := predictor.Save(path); err != nil {
		return fmt.Errorf("saving model: %w", err)
	}

	fmt.Println("Training completed!")
	fmt.Printf("Train RMSE: %.4f, Test RMSE: %.4f\n", report.TrainRMSE, report.TestRMSE)
	fmt.Printf("Train MAE:  %.4f, Test MAE:  %.4f\n", report.TrainMAE, report.TestMAE)
	fmt.Printf("Train R²:   %.4f, Test R²:   %.4f\n", report.TrainR2, report.TestR2)
	fmt.Printf("Rows: %d train / %d test\n", report.TrainRows, report.TestRows)

	fmt.Println("\nFeature importance:")
	names := make([]string, 0, len(report.FeatureImportance))
	for name := range report.FeatureImportance {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return report.FeatureImportance[names[i]] > report.FeatureImportance[names[j]]
	})
	for _, name := range names {
		fmt.Printf("  %-18s %.4f\n", name, report.FeatureImportance[name])
	}

	fmt.Printf("\n✓ Model %s saved to %s\n", predictor.Version(), path)
	return nil
}
