package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energytracker/pkg/models"
)

func TestFeaturesOrder(t *testing.T) {
	rec := models.DailyRecord{
		DayOfWeek:      2,
		DayOfMonth:     14,
		Month:          6,
		IsWeekend:      false,
		EventCount:     12,
		PrevDayTotal:   8.5,
		PrevWeekTotal:  9.1,
		Trailing7Mean:  8.8,
		Trailing30Mean: 8.2,
	}

	x := Features(rec)
	require.Len(t, x, NumFeatures)
	assert.Equal(t, []float64{2, 14, 6, 0, 12, 8.5, 9.1, 8.8, 8.2}, x)

	rec.IsWeekend = true
	assert.Equal(t, 1.0, Features(rec)[3])
}

func TestScalerFitTransform(t *testing.T) {
	X := [][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
	}

	s := &Scaler{}
	scaled, err := s.FitTransform(X)
	require.NoError(t, err)

	// Columns are centered and unit-scaled.
	for j := 0; j < 2; j++ {
		var sum, sq float64
		for _, row := range scaled {
			sum += row[j]
			sq += row[j] * row[j]
		}
		assert.InDelta(t, 0, sum, 1e-9)
		assert.InDelta(t, float64(len(X)), sq, 1e-9)
	}
}

func TestScalerZeroVariance(t *testing.T) {
	X := [][]float64{{5, 1}, {5, 2}, {5, 3}}

	s := &Scaler{}
	scaled, err := s.FitTransform(X)
	require.NoError(t, err)

	// A constant column transforms to all zeros instead of NaN.
	for i := range scaled {
		assert.Zero(t, scaled[i][0], "row %d", i)
	}
}

func TestScalerValidation(t *testing.T) {
	s := &Scaler{}

	err := s.Fit(nil)
	assert.ErrorIs(t, err, ErrValidation)

	err = s.Fit([][]float64{{1, 2}, {1}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.TransformOne([]float64{1})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, s.Fit([][]float64{{1, 2}, {3, 4}}))
	_, err = s.TransformOne([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrValidation)
}
