package forecast

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// bundle is the JSON-serializable model artifact: everything needed to
// reproduce predictions — regressor, scaler, feature order, vocabulary —
// plus version and timestamp metadata.
type bundle struct {
	Version      string    `json:"version"`
	TrainedAt    time.Time `json:"trained_at"`
	FeatureNames []string  `json:"feature_names"`
	Appliances   []string  `json:"appliances"`
	Scaler       *Scaler   `json:"scaler"`
	Forest       *Forest   `json:"forest"`
}

// Save writes the trained model bundle to path as a single JSON artifact,
// creating parent directories as needed.
func (p *Predictor) Save(path string) error {
	if !p.IsTrained() {
		return fmt.Errorf("%w: nothing to save", ErrNotTrained)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating model directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(bundle{
		Version:      p.version,
		TrainedAt:    p.trainedAt,
		FeatureNames: p.featureNames,
		Appliances:   p.appliances,
		Scaler:       p.scaler,
		Forest:       p.forest,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding model bundle: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing model bundle: %w", err)
	}
	return nil
}

// Load restores a predictor from a saved bundle. A missing artifact yields
// ErrModelNotFound so callers can fall back to a fresh training cycle.
func Load(path string) (*Predictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no artifact at %s", ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("reading model bundle: %w", err)
	}

	var b bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decoding model bundle: %w", err)
	}
	if b.Forest == nil || b.Scaler == nil {
		return nil, fmt.Errorf("%w: bundle at %s is missing regressor or scaler", ErrValidation, path)
	}

	return &Predictor{
		forest:       b.Forest,
		scaler:       b.Scaler,
		featureNames: b.FeatureNames,
		appliances:   b.Appliances,
		version:      b.Version,
		trainedAt:    b.TrainedAt,
	}, nil
}
