package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastHorizon(t *testing.T) {
	records := syntheticHistory(90)
	p := &Predictor{}
	_, err := p.Train(records, nil, TrainOptions{Seed: 42})
	require.NoError(t, err)

	points, err := p.Forecast(records, 7, 7.0)
	require.NoError(t, err)
	require.Len(t, points, 7)

	lastDate := records[len(records)-1].Date
	for i, pt := range points {
		assert.Equal(t, lastDate.AddDate(0, 0, i+1), pt.Date, "point %d", i)
		assert.Greater(t, pt.PredictedKWh, 0.0, "point %d", i)
		assert.Equal(t, DefaultConfidence, pt.ConfidenceScore)

		// Cost is the rounded product of rounded kWh and the tariff.
		wantCost := math.Round(pt.PredictedKWh*7.0*100) / 100
		assert.InDelta(t, wantCost, pt.PredictedCost, 1e-9, "point %d", i)
	}
}

func TestForecastHistoryBoundary(t *testing.T) {
	records := syntheticHistory(90)
	p := &Predictor{}
	_, err := p.Train(records, nil, TrainOptions{Seed: 42})
	require.NoError(t, err)

	_, err = p.Forecast(records[:MinHistoryDays-1], 7, 7.0)
	assert.ErrorIs(t, err, ErrInsufficientData)

	points, err := p.Forecast(records[:MinHistoryDays], 7, 7.0)
	require.NoError(t, err)
	assert.Len(t, points, 7)
}

func TestForecastValidation(t *testing.T) {
	records := syntheticHistory(30)
	p := &Predictor{}
	_, err := p.Train(records, nil, TrainOptions{Seed: 42})
	require.NoError(t, err)

	_, err = p.Forecast(records, 0, 7.0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = p.Forecast(records, 7, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = p.Forecast(records, 7, -1.5)
	assert.ErrorIs(t, err, ErrValidation)

	untrained := &Predictor{}
	_, err = untrained.Forecast(records, 7, 7.0)
	assert.ErrorIs(t, err, ErrNotTrained)
}

func TestForecastDeterministic(t *testing.T) {
	records := syntheticHistory(90)
	p := &Predictor{}
	_, err := p.Train(records, nil, TrainOptions{Seed: 42})
	require.NoError(t, err)

	a, err := p.Forecast(records, 14, 7.0)
	require.NoError(t, err)
	b, err := p.Forecast(records, 14, 7.0)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestForecastMonthlySumsDaily(t *testing.T) {
	records := syntheticHistory(90)
	p := &Predictor{}
	_, err := p.Train(records, nil, TrainOptions{Seed: 42})
	require.NoError(t, err)

	monthly, err := p.ForecastMonthly(records, 7.0)
	require.NoError(t, err)
	require.Len(t, monthly.Daily, MonthlyHorizonDays)

	var kwh, cost float64
	for _, pt := range monthly.Daily {
		kwh += pt.PredictedKWh
		cost += pt.PredictedCost
	}
	assert.InDelta(t, math.Round(kwh*100)/100, monthly.PredictedKWh, 1e-9)
	assert.InDelta(t, math.Round(cost*100)/100, monthly.PredictedCost, 1e-9)
}

func TestForecastStaysNearHistoricalScale(t *testing.T) {
	records := syntheticHistory(90)
	p := &Predictor{}
	_, err := p.Train(records, nil, TrainOptions{Seed: 42})
	require.NoError(t, err)

	points, err := p.Forecast(records, 30, 7.0)
	require.NoError(t, err)

	var histMean float64
	for _, rec := range records {
		histMean += rec.TotalEnergy
	}
	histMean /= float64(len(records))

	// A tree ensemble cannot extrapolate beyond its training range, so
	// every projected day stays within a loose band of observed usage.
	for _, pt := range points {
		assert.Greater(t, pt.PredictedKWh, histMean*0.3)
		assert.Less(t, pt.PredictedKWh, histMean*3)
	}
}
