package forecast

import "errors"

// Sentinel errors for the forecasting core. Callers match with errors.Is;
// none of these are retried or defaulted internally.
var (
	// ErrValidation indicates malformed or missing input features.
	ErrValidation = errors.New("invalid input")

	// ErrInsufficientData indicates too little history to forecast
	// (fewer than MinHistoryDays aggregated days).
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNotTrained indicates a prediction was requested on a predictor
	// with no fitted or loaded model.
	ErrNotTrained = errors.New("model not trained")

	// ErrModelNotFound indicates no saved artifact exists at the given
	// path. Callers typically recover by training a fresh model.
	ErrModelNotFound = errors.New("model not found")
)
