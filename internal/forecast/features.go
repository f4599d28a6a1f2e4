package forecast

import (
	"fmt"
	"math"

	"energytracker/pkg/models"
)

// FeatureNames is the fixed feature order fed to the model. The order is
// set at training time and must be identical at prediction time.
var FeatureNames = []string{
	"day_of_week",
	"day_of_month",
	"month",
	"is_weekend",
	"event_count",
	"prev_day_total",
	"prev_week_total",
	"trailing_7_mean",
	"trailing_30_mean",
}

// NumFeatures is the width of the design matrix.
var NumFeatures = len(FeatureNames)

// Features extracts the model input vector from a daily record, in
// FeatureNames order.
func Features(rec models.DailyRecord) []float64 {
	weekend := 0.0
	if rec.IsWeekend {
		weekend = 1.0
	}
	return []float64{
		float64(rec.DayOfWeek),
		float64(rec.DayOfMonth),
		float64(rec.Month),
		weekend,
		float64(rec.EventCount),
		rec.PrevDayTotal,
		rec.PrevWeekTotal,
		rec.Trailing7Mean,
		rec.Trailing30Mean,
	}
}

// DesignMatrix builds the full feature matrix for a record slice.
func DesignMatrix(records []models.DailyRecord) [][]float64 {
	X := make([][]float64, len(records))
	for i, rec := range records {
		X[i] = Features(rec)
	}
	return X
}

// Scaler holds per-feature centering and scaling parameters. A scaler is
// fitted once per trained model and owned by that model; it is never
// refitted while the model is live.
type Scaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

// Fit learns mean and standard deviation per column. Zero-variance
// features get a scale of 1 so transforming them is a no-op shift.
func (s *Scaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("%w: empty training matrix", ErrValidation)
	}
	width := len(X[0])

	s.Means = make([]float64, width)
	s.Stds = make([]float64, width)
	n := float64(len(X))

	for _, row := range X {
		if len(row) != width {
			return fmt.Errorf("%w: ragged matrix row (%d features, want %d)", ErrValidation, len(row), width)
		}
		for j, v := range row {
			s.Means[j] += v
		}
	}
	for j := range s.Means {
		s.Means[j] /= n
	}

	for _, row := range X {
		for j, v := range row {
			d := v - s.Means[j]
			s.Stds[j] += d * d
		}
	}
	for j := range s.Stds {
		s.Stds[j] = math.Sqrt(s.Stds[j] / n)
		if s.Stds[j] < 1e-10 {
			s.Stds[j] = 1
		}
	}
	return nil
}

// Transform applies the learned parameters to a matrix without refitting.
func (s *Scaler) Transform(X [][]float64) ([][]float64, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrValidation)
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		scaled, err := s.TransformOne(row)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}

// TransformOne scales a single feature vector.
func (s *Scaler) TransformOne(x []float64) ([]float64, error) {
	if len(s.Means) == 0 {
		return nil, fmt.Errorf("%w: scaler not fitted", ErrValidation)
	}
	if len(x) != len(s.Means) {
		return nil, fmt.Errorf("%w: feature vector has %d values, want %d", ErrValidation, len(x), len(s.Means))
	}
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Means[j]) / s.Stds[j]
	}
	return out, nil
}

// FitTransform fits the scaler and returns the scaled matrix.
func (s *Scaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
