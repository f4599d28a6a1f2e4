package forecast

import (
	"math"
	"sort"
	"time"

	"energytracker/pkg/models"
)

// MinHistoryDays is the minimum number of aggregated days required before
// forecasting; below this the weekly lag features are meaningless.
const MinHistoryDays = 7

// Aggregate groups raw events into one record per calendar day, sorted
// ascending by date, with temporal and lag features filled in. Lag features
// at a given row are computed only from earlier rows; rows with no earlier
// history take the nearest later known value, or 0 if none exists.
//
// An empty event set yields an empty slice, not a zero-valued day.
func Aggregate(events []models.EnergyEvent) []models.DailyRecord {
	if len(events) == 0 {
		return nil
	}

	// Group by calendar date.
	byDay := make(map[time.Time]*models.DailyRecord)
	for _, ev := range events {
		day := truncateToDay(ev.Timestamp)
		rec, ok := byDay[day]
		if !ok {
			rec = &models.DailyRecord{Date: day}
			byDay[day] = rec
		}
		rec.TotalEnergy += ev.EnergyKWh
		rec.TotalCost += ev.Cost
		rec.EventCount++
	}

	records := make([]models.DailyRecord, 0, len(byDay))
	for _, rec := range byDay {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	for i := range records {
		fillTemporal(&records[i])
	}
	fillLags(records)

	return records
}

// truncateToDay drops the time-of-day component, keeping the location.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// fillTemporal computes the calendar features for a record's date.
// DayOfWeek uses Monday=0 .. Sunday=6.
func fillTemporal(rec *models.DailyRecord) {
	rec.DayOfWeek = mondayIndexed(rec.Date.Weekday())
	rec.DayOfMonth = rec.Date.Day()
	rec.Month = int(rec.Date.Month())
	rec.IsWeekend = rec.DayOfWeek >= 5
}

func mondayIndexed(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// fillLags computes the lag features over an ascending-by-date slice.
// Each row reads only rows at smaller indexes; undefined leading values
// are back-filled from the nearest later defined value, then zero.
func fillLags(records []models.DailyRecord) {
	n := len(records)
	prevDay := make([]float64, n)
	prevWeek := make([]float64, n)

	for i := range records {
		if i >= 1 {
			prevDay[i] = records[i-1].TotalEnergy
		} else {
			prevDay[i] = math.NaN()
		}
		if i >= 7 {
			prevWeek[i] = records[i-7].TotalEnergy
		} else {
			prevWeek[i] = math.NaN()
		}

		// Trailing means include the current row, with a minimum window of 1.
		records[i].Trailing7Mean = trailingMean(records, i, 7)
		records[i].Trailing30Mean = trailingMean(records, i, 30)
	}

	backfill(prevDay)
	backfill(prevWeek)

	for i := range records {
		records[i].PrevDayTotal = prevDay[i]
		records[i].PrevWeekTotal = prevWeek[i]
	}
}

// trailingMean averages TotalEnergy over up to window rows ending at idx.
func trailingMean(records []models.DailyRecord, idx, window int) float64 {
	start := idx - window + 1
	if start < 0 {
		start = 0
	}
	var sum float64
	for i := start; i <= idx; i++ {
		sum += records[i].TotalEnergy
	}
	return sum / float64(idx-start+1)
}

// backfill replaces each NaN with the nearest later non-NaN value,
// falling back to 0 when no later value exists.
func backfill(vals []float64) {
	next := 0.0
	for i := len(vals) - 1; i >= 0; i-- {
		if math.IsNaN(vals[i]) {
			vals[i] = next
		} else {
			next = vals[i]
		}
	}
}
