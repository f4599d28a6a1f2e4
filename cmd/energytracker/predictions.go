package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	predictionsUser  int
	predictionsType  string
	predictionsLimit int
)

var predictionsCmd = &cobra.Command{
	Use:   "predictions",
	Short: "List stored forecast predictions",
	RunE:  runPredictions,
}

func init() {
	predictionsCmd.Flags().IntVar(&predictionsUser, "user", 1, "User ID")
	predictionsCmd.Flags().StringVar(&predictionsType, "type", "daily", "Prediction type (daily or monthly)")
	predictionsCmd.Flags().IntVar(&predictionsLimit, "limit", 30, "Maximum rows to show (0 for all)")
	rootCmd.AddCommand(predictionsCmd)
}

func runPredictions(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	preds, err := db.ListPredictions(predictionsUser, predictionsType, predictionsLimit)
	if err != nil {
		return fmt.Errorf("listing predictions: %w", err)
	}

	if len(preds) == 0 {
		fmt.Printf("No %s predictions stored for user %d\n", predictionsType, predictionsUser)
		return nil
	}

	fmt.Printf("%-12s %12s %10s %12s %-38s\n", "Date", "kWh", "Cost", "Confidence", "Model")
	for _, p := range preds {
		fmt.Printf("%-12s %12.4f %10.2f %12.2f %-38s\n",
			p.PredictionDate.Format("2006-01-02"), p.PredictedKWh, p.PredictedCost, p.Confidence, p.ModelVersion)
	}

	return nil
}
