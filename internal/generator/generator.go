// Package generator produces realistic synthetic appliance-usage events
// for seeding a fresh installation or exercising the forecasting pipeline.
package generator

import (
	"math"
	"math/rand/v2"
	"time"

	"energytracker/pkg/models"
)

// ApplianceProfile describes one appliance's usage pattern: how much it
// draws per use, how likely a use is during its active hours, and which
// hours those are.
type ApplianceProfile struct {
	Name        string
	TypicalKWh  float64
	Probability float64
	ActiveHours []int
}

// DefaultProfiles covers a typical household. Probabilities outside active
// hours are scaled down to 30%, and weekends raise activity by 30%.
var DefaultProfiles = []ApplianceProfile{
	{"Air Conditioner", 3.5, 0.3, []int{17, 18, 19, 20, 21, 22}},
	{"Refrigerator", 0.15, 0.95, allHours()},
	{"Washing Machine", 1.2, 0.15, []int{8, 9, 10, 19, 20}},
	{"Dryer", 2.5, 0.1, []int{9, 10, 20, 21}},
	{"Dishwasher", 1.5, 0.2, []int{20, 21, 22}},
	{"Microwave", 0.3, 0.4, []int{7, 8, 12, 13, 18, 19, 20}},
	{"Electric Oven", 2.0, 0.15, []int{12, 18, 19}},
	{"Television", 0.15, 0.6, []int{18, 19, 20, 21, 22, 23}},
	{"Computer", 0.2, 0.5, []int{9, 10, 11, 14, 15, 16, 19, 20}},
	{"Water Heater", 3.0, 0.3, []int{6, 7, 8, 19, 20, 21}},
	{"LED Lights", 0.01, 0.8, []int{6, 7, 8, 18, 19, 20, 21, 22, 23}},
}

const (
	weekendMultiplier = 1.3
	offHourFactor     = 0.3
)

// Events generates days of synthetic usage events for a user, ending the
// day before start+days. Costs are derived from the tariff rate at
// generation time, mirroring how real events are priced at write time.
// Output is deterministic for a given seed.
func Events(userID, days int, tariffRate float64, start time.Time, seed uint64) []models.EnergyEvent {
	rng := rand.New(rand.NewPCG(seed, 0))
	var events []models.EnergyEvent

	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day)
		multiplier := 1.0
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			multiplier = weekendMultiplier
		}

		for hour := 0; hour < 24; hour++ {
			ts := time.Date(date.Year(), date.Month(), date.Day(), hour, rng.IntN(60), 0, 0, date.Location())

			for _, prof := range DefaultProfiles {
				prob := prof.Probability * offHourFactor
				if containsHour(prof.ActiveHours, hour) {
					prob = prof.Probability * multiplier
				}
				if rng.Float64() >= prob {
					continue
				}

				variation := 0.8 + rng.Float64()*0.4
				kwh := round(prof.TypicalKWh*variation, 4)

				duration := 1.0
				if prof.Name != "Refrigerator" && prof.Name != "Water Heater" {
					duration = round(0.5+rng.Float64()*1.5, 2)
				}

				events = append(events, models.EnergyEvent{
					UserID:        userID,
					Timestamp:     ts,
					Appliance:     prof.Name,
					EnergyKWh:     kwh,
					Cost:          round(kwh*tariffRate, 2),
					DurationHours: duration,
				})
			}
		}
	}

	return events
}

func allHours() []int {
	hours := make([]int, 24)
	for i := range hours {
		hours[i] = i
	}
	return hours
}

func containsHour(hours []int, h int) bool {
	for _, v := range hours {
		if v == h {
			return true
		}
	}
	return false
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
