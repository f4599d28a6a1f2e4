package models

import "time"

// ForecastPoint is one future day's prediction. Energy is rounded to 4
// decimals and cost to 2 before the point is returned.
type ForecastPoint struct {
	Date            time.Time `json:"date"`
	PredictedKWh    float64   `json:"predicted_kwh"`
	PredictedCost   float64   `json:"predicted_cost"`
	ConfidenceScore float64   `json:"confidence_score"`
}

// MonthlyForecast aggregates a fixed 30-day forecast into monthly totals.
type MonthlyForecast struct {
	PredictedKWh  float64         `json:"predicted_monthly_kwh"`
	PredictedCost float64         `json:"predicted_monthly_cost"`
	Daily         []ForecastPoint `json:"daily_predictions"`
}

// TrainingReport holds the evaluation metrics produced by a training run.
// FeatureImportance values sum to 1 across the model's input features.
type TrainingReport struct {
	TrainRMSE float64 `json:"train_rmse"`
	TestRMSE  float64 `json:"test_rmse"`
	TrainMAE  float64 `json:"train_mae"`
	TestMAE   float64 `json:"test_mae"`
	TrainR2   float64 `json:"train_r2"`
	TestR2    float64 `json:"test_r2"`

	FeatureImportance map[string]float64 `json:"feature_importance"`

	TrainRows int       `json:"train_rows"`
	TestRows  int       `json:"test_rows"`
	TrainedAt time.Time `json:"trained_at"`
}

// Prediction is a persisted forecast row as stored in the predictions table.
type Prediction struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	PredictionDate time.Time `json:"prediction_date"`
	PredictedKWh   float64   `json:"predicted_kwh"`
	PredictedCost  float64   `json:"predicted_cost"`
	Confidence     float64   `json:"confidence"`
	PredictionType string    `json:"prediction_type"` // "daily" or "monthly"
	ModelVersion   string    `json:"model_version"`
	CreatedAt      time.Time `json:"created_at"`
}
