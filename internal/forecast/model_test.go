package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energytracker/pkg/models"
)

// syntheticHistory builds an aggregated daily series with a weekly rhythm,
// the shape a real household produces.
func syntheticHistory(days int) []models.DailyRecord {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // Monday
	var events []models.EnergyEvent
	for d := 0; d < days; d++ {
		ts := start.AddDate(0, 0, d)
		base := 8.0 + 1.5*math.Sin(float64(d)*2*math.Pi/7)
		wd := mondayIndexed(ts.Weekday())
		if wd >= 5 {
			base *= 1.3
		}
		for h := 0; h < 4; h++ {
			kwh := base / 4
			events = append(events, models.EnergyEvent{
				UserID:    1,
				Timestamp: ts.Add(time.Duration(6+4*h) * time.Hour),
				Appliance: []string{"Refrigerator", "Oven", "Washing Machine", "Television"}[h],
				EnergyKWh: kwh,
				Cost:      math.Round(kwh*7.0*100) / 100,
			})
		}
	}
	return Aggregate(events)
}

func TestTrainReport(t *testing.T) {
	records := syntheticHistory(90)

	p := &Predictor{}
	report, err := p.Train(records, []string{"Oven", "Refrigerator", "Oven"}, TrainOptions{Seed: 42})
	require.NoError(t, err)
	require.True(t, p.IsTrained())

	// Chronological 80/20 split.
	assert.Equal(t, 72, report.TrainRows)
	assert.Equal(t, 18, report.TestRows)

	assert.Greater(t, report.TrainRMSE, 0.0)
	assert.Greater(t, report.TestRMSE, 0.0)
	assert.False(t, math.IsNaN(report.TestR2))
	assert.False(t, math.IsInf(report.TestR2, 0))

	// A strongly seasonal series should be learnable in-sample.
	assert.Greater(t, report.TrainR2, 0.5)

	var total float64
	require.Len(t, report.FeatureImportance, NumFeatures)
	for name, v := range report.FeatureImportance {
		assert.GreaterOrEqual(t, v, 0.0, name)
		total += v
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	assert.NotEmpty(t, p.Version())
	assert.False(t, p.TrainedAt().IsZero())
	assert.Equal(t, []string{"Oven", "Refrigerator"}, p.Appliances())
}

func TestTrainDeterministicUnderSeed(t *testing.T) {
	records := syntheticHistory(60)
	probe := Features(records[len(records)-1])

	p1, p2 := &Predictor{}, &Predictor{}
	_, err := p1.Train(records, nil, TrainOptions{Seed: 42})
	require.NoError(t, err)
	_, err = p2.Train(records, nil, TrainOptions{Seed: 42})
	require.NoError(t, err)

	v1, err := p1.PredictOne(probe)
	require.NoError(t, err)
	v2, err := p2.PredictOne(probe)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)

	// Versions stay distinct per run even when the fit is identical.
	assert.NotEqual(t, p1.Version(), p2.Version())
}

func TestTrainValidation(t *testing.T) {
	records := syntheticHistory(30)

	p := &Predictor{}

	_, err := p.Train(records[:1], nil, TrainOptions{})
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = p.Train(records, nil, TrainOptions{Target: "weekly_total"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = p.Train(records, nil, TrainOptions{TestFraction: 1.5})
	assert.ErrorIs(t, err, ErrValidation)

	assert.False(t, p.IsTrained())
}

func TestTrainCostTarget(t *testing.T) {
	records := syntheticHistory(60)

	p := &Predictor{}
	_, err := p.Train(records, nil, TrainOptions{Target: TargetCost, Seed: 42})
	require.NoError(t, err)

	got, err := p.PredictOne(Features(records[len(records)-1]))
	require.NoError(t, err)

	// Cost-target predictions land near cost scale, not energy scale.
	assert.Greater(t, got, 20.0)
}

func TestPredictOneUntrained(t *testing.T) {
	p := &Predictor{}
	_, err := p.PredictOne(make([]float64, NumFeatures))
	assert.ErrorIs(t, err, ErrNotTrained)
}
