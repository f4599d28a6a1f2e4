package generator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventsDeterministic(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	a := Events(1, 14, 7.0, start, 42)
	b := Events(1, 14, 7.0, start, 42)
	assert.Equal(t, a, b)

	c := Events(1, 14, 7.0, start, 43)
	assert.NotEqual(t, a, c)
}

func TestEventsShape(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	events := Events(3, 30, 7.0, start, 42)
	require.NotEmpty(t, events)

	names := make(map[string]bool)
	for _, ev := range events {
		assert.Equal(t, 3, ev.UserID)
		assert.False(t, ev.Timestamp.Before(start))
		assert.True(t, ev.Timestamp.Before(end))
		assert.Greater(t, ev.EnergyKWh, 0.0)
		assert.Greater(t, ev.DurationHours, 0.0)
		names[ev.Appliance] = true

		// Cost follows the tariff, rounded to cents.
		want := math.Round(ev.EnergyKWh*7.0*100) / 100
		assert.InDelta(t, want, ev.Cost, 1e-9)
	}

	// Every profile fires at least once over a month.
	for _, prof := range DefaultProfiles {
		assert.True(t, names[prof.Name], prof.Name)
	}
}

func TestEventsEnergyVariation(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	events := Events(1, 30, 7.0, start, 42)

	byName := make(map[string]float64)
	for _, prof := range DefaultProfiles {
		byName[prof.Name] = prof.TypicalKWh
	}

	for _, ev := range events {
		typical := byName[ev.Appliance]
		assert.GreaterOrEqual(t, ev.EnergyKWh, typical*0.8-1e-9, ev.Appliance)
		assert.LessOrEqual(t, ev.EnergyKWh, typical*1.2+1e-9, ev.Appliance)
	}
}

func TestEventsContinuousAppliancesFixedDuration(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	events := Events(1, 14, 7.0, start, 42)

	for _, ev := range events {
		switch ev.Appliance {
		case "Refrigerator", "Water Heater":
			assert.Equal(t, 1.0, ev.DurationHours)
		default:
			assert.GreaterOrEqual(t, ev.DurationHours, 0.5)
			assert.LessOrEqual(t, ev.DurationHours, 2.0)
		}
	}
}

func TestEventsWeekendsBusier(t *testing.T) {
	// Whole weeks so weekday and weekend day counts stay proportional.
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // Monday
	events := Events(1, 70, 7.0, start, 42)

	var weekday, weekend int
	for _, ev := range events {
		if wd := ev.Timestamp.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend++
		} else {
			weekday++
		}
	}

	perWeekendDay := float64(weekend) / 20
	perWeekday := float64(weekday) / 50
	assert.Greater(t, perWeekendDay, perWeekday)
}
