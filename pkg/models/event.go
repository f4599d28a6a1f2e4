package models

import "time"

// EnergyEvent is a single appliance-use observation. Events are immutable
// once stored; the forecasting core only reads them.
type EnergyEvent struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	Timestamp     time.Time `json:"timestamp"`
	Appliance     string    `json:"appliance"`
	EnergyKWh     float64   `json:"energy_kwh"`
	Cost          float64   `json:"cost"`
	DurationHours float64   `json:"duration_hours"`
}

// DailyRecord is one calendar day's aggregation of events, including the
// temporal and lag features the forecast model trains on. Records are
// derived from events and never persisted on their own.
type DailyRecord struct {
	Date        time.Time `json:"date"`
	TotalEnergy float64   `json:"total_energy"`
	TotalCost   float64   `json:"total_cost"`
	EventCount  int       `json:"event_count"`

	// Temporal features, computed from Date. DayOfWeek is Monday=0 .. Sunday=6.
	DayOfWeek  int  `json:"day_of_week"`
	DayOfMonth int  `json:"day_of_month"`
	Month      int  `json:"month"`
	IsWeekend  bool `json:"is_weekend"`

	// Lag features, computed only from earlier records.
	PrevDayTotal   float64 `json:"prev_day_total"`
	PrevWeekTotal  float64 `json:"prev_week_total"`
	Trailing7Mean  float64 `json:"trailing_7_mean"`
	Trailing30Mean float64 `json:"trailing_30_mean"`
}

// ApplianceSummary is the per-appliance consumption rollup for a user.
type ApplianceSummary struct {
	Appliance   string  `json:"appliance"`
	TotalEnergy float64 `json:"total_energy"`
	TotalCost   float64 `json:"total_cost"`
	UseCount    int     `json:"use_count"`
}
