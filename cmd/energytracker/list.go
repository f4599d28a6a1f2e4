package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"energytracker/internal/database"
	"energytracker/internal/forecast"
)

var (
	listUser       int
	listDays       int
	listAppliances bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List daily consumption",
	Long:  `Displays stored usage aggregated per calendar day, or per appliance with --appliances.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listUser, "user", 1, "User ID")
	listCmd.Flags().IntVar(&listDays, "days", 0, "Limit to the last N days (0 = all)")
	listCmd.Flags().BoolVar(&listAppliances, "appliances", false, "Show per-appliance totals instead")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if listAppliances {
		return listByAppliance(db)
	}

	var since *time.Time
	if listDays > 0 {
		t := time.Now().AddDate(0, 0, -listDays)
		since = &t
	}

	events, err := db.ListEvents(listUser, since, nil)
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}

	records := forecast.Aggregate(events)
	if len(records) == 0 {
		fmt.Printf("No data found for user %d\n", listUser)
		return nil
	}

	fmt.Printf("\nDaily Usage for user %d:\n", listUser)
	fmt.Println("------------------------------------------------------")
	fmt.Printf("%-12s  %10s  %10s  %8s\n", "Date", "kWh", "Cost", "Events")
	fmt.Println("------------------------------------------------------")

	var totalKWh, totalCost float64
	for _, rec := range records {
		fmt.Printf("%-12s  %10.2f  %10.2f  %8d\n",
			rec.Date.Format("2006-01-02"), rec.TotalEnergy, rec.TotalCost, rec.EventCount)
		totalKWh += rec.TotalEnergy
		totalCost += rec.TotalCost
	}

	fmt.Println("------------------------------------------------------")
	fmt.Printf("Total: %.2f kWh, %.2f (%d days)\n", totalKWh, totalCost, len(records))
	return nil
}

func listByAppliance(db *database.DB) error {
	summaries, err := db.ApplianceSummary(listUser)
	if err != nil {
		return fmt.Errorf("listing appliance summary: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Printf("No data found for user %d\n", listUser)
		return nil
	}

	fmt.Printf("\nAppliance Usage for user %d:\n", listUser)
	fmt.Println("------------------------------------------------------")
	fmt.Printf("%-20s  %10s  %10s  %6s\n", "Appliance", "kWh", "Cost", "Uses")
	fmt.Println("------------------------------------------------------")

	for _, s := range summaries {
		fmt.Printf("%-20s  %10.2f  %10.2f  %6d\n", s.Appliance, s.TotalEnergy, s.TotalCost, s.UseCount)
	}

	return nil
}
