package forecast

import (
	"fmt"
	"math"

	"energytracker/pkg/models"
)

// DefaultConfidence is the fixed heuristic confidence attached to every
// forecast point. It is a placeholder, not an ensemble-variance estimate.
const DefaultConfidence = 0.85

// MonthlyHorizonDays is the fixed horizon a monthly forecast sums over.
const MonthlyHorizonDays = 30

// Forecast projects the trained model forward day by day, feeding each
// prediction back as the next step's previous-day lag. Event count is held
// at the trailing-30 observed mean, and the trailing means are computed
// once from the observed tail and kept constant across the horizon —
// errors therefore compound as the horizon grows, which is inherent to
// recursive forecasting rather than a defect.
//
// It returns exactly horizonDays points with consecutive dates, or fails
// atomically.
func (p *Predictor) Forecast(records []models.DailyRecord, horizonDays int, tariffRate float64) ([]models.ForecastPoint, error) {
	if !p.IsTrained() {
		return nil, fmt.Errorf("%w: train or load a model before forecasting", ErrNotTrained)
	}
	if horizonDays < 1 {
		return nil, fmt.Errorf("%w: horizon must be at least 1 day, got %d", ErrValidation, horizonDays)
	}
	if tariffRate <= 0 {
		return nil, fmt.Errorf("%w: tariff rate must be positive, got %v", ErrValidation, tariffRate)
	}
	if len(records) < MinHistoryDays {
		return nil, fmt.Errorf("%w: %d aggregated days available, need at least %d", ErrInsufficientData, len(records), MinHistoryDays)
	}

	n := len(records)

	// Statistics over the tail of observed history, fixed for the whole
	// horizon.
	recent := records
	if n > 30 {
		recent = records[n-30:]
	}
	avg30 := meanEnergy(recent)
	last7 := recent
	if len(recent) > 7 {
		last7 = recent[len(recent)-7:]
	}
	avg7 := meanEnergy(last7)

	var eventCount float64
	for _, rec := range recent {
		eventCount += float64(rec.EventCount)
	}
	eventCount /= float64(len(recent))

	// prev_week is the observed value 7 days before the last observed
	// day; with insufficient history it would fall back to the overall
	// mean, though the MinHistoryDays guard makes that unreachable here.
	prevWeek := meanEnergy(records)
	if n >= 7 {
		prevWeek = records[n-7].TotalEnergy
	}

	lastDate := records[n-1].Date
	prevDay := records[n-1].TotalEnergy

	points := make([]models.ForecastPoint, 0, horizonDays)
	for day := 1; day <= horizonDays; day++ {
		date := lastDate.AddDate(0, 0, day)
		step := models.DailyRecord{Date: date}
		fillTemporal(&step)
		step.EventCount = int(math.Round(eventCount))

		weekend := 0.0
		if step.IsWeekend {
			weekend = 1.0
		}
		features := []float64{
			float64(step.DayOfWeek),
			float64(step.DayOfMonth),
			float64(step.Month),
			weekend,
			eventCount,
			prevDay,
			prevWeek,
			avg7,
			avg30,
		}

		kwh, err := p.PredictOne(features)
		if err != nil {
			return nil, err
		}
		kwh = round(kwh, 4)
		cost := round(kwh*tariffRate, 2)

		points = append(points, models.ForecastPoint{
			Date:            date,
			PredictedKWh:    kwh,
			PredictedCost:   cost,
			ConfidenceScore: DefaultConfidence,
		})

		// Feedback loop: this prediction becomes the next step's
		// previous-day lag.
		prevDay = kwh
	}

	return points, nil
}

// ForecastMonthly runs a fixed 30-day horizon and sums it. There is no
// separately trained monthly model.
func (p *Predictor) ForecastMonthly(records []models.DailyRecord, tariffRate float64) (*models.MonthlyForecast, error) {
	daily, err := p.Forecast(records, MonthlyHorizonDays, tariffRate)
	if err != nil {
		return nil, err
	}

	var kwh, cost float64
	for _, pt := range daily {
		kwh += pt.PredictedKWh
		cost += pt.PredictedCost
	}

	return &models.MonthlyForecast{
		PredictedKWh:  round(kwh, 2),
		PredictedCost: round(cost, 2),
		Daily:         daily,
	}, nil
}

func meanEnergy(records []models.DailyRecord) float64 {
	var sum float64
	for _, rec := range records {
		sum += rec.TotalEnergy
	}
	return sum / float64(len(records))
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
