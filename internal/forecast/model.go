package forecast

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/google/uuid"

	"energytracker/pkg/models"
)

// TargetEnergy and TargetCost select which daily total the model learns.
const (
	TargetEnergy = "total_energy"
	TargetCost   = "total_cost"
)

// TrainOptions configures a training run.
type TrainOptions struct {
	// Target selects the regression target; defaults to TargetEnergy.
	Target string
	// TestFraction is the chronological share of rows held out for
	// evaluation, in (0,1). Defaults to 0.2.
	TestFraction float64
	// Seed drives bootstrap resampling, making training reproducible.
	Seed uint64
	// Forest overrides the ensemble hyperparameters when Trees > 0.
	Forest ForestConfig
}

// Predictor owns a fitted regressor together with the scaler, appliance
// vocabulary and feature order it was fitted with. A zero Predictor is
// unusable until Train succeeds or a saved bundle is loaded into it.
type Predictor struct {
	forest       *Forest
	scaler       *Scaler
	featureNames []string
	appliances   []string
	version      string
	trainedAt    time.Time
}

// IsTrained reports whether the predictor holds a fitted or loaded model.
func (p *Predictor) IsTrained() bool {
	return p != nil && p.forest != nil
}

// Version returns the artifact version id, or "" before training.
func (p *Predictor) Version() string { return p.version }

// TrainedAt returns the training timestamp.
func (p *Predictor) TrainedAt() time.Time { return p.trainedAt }

// Appliances returns the categorical vocabulary fitted at training time.
// The vocabulary is recorded in the bundle but not fed to the regressor.
func (p *Predictor) Appliances() []string { return p.appliances }

// Train fits a fresh scaler and forest on the aggregated daily series.
// The split is chronological: the most recent TestFraction of rows form
// the test set, so no future row leaks into training.
func (p *Predictor) Train(records []models.DailyRecord, appliances []string, opts TrainOptions) (*models.TrainingReport, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 aggregated days to train, have %d", ErrInsufficientData, len(records))
	}

	target := opts.Target
	if target == "" {
		target = TargetEnergy
	}
	if target != TargetEnergy && target != TargetCost {
		return nil, fmt.Errorf("%w: unknown training target %q", ErrValidation, target)
	}

	frac := opts.TestFraction
	if frac == 0 {
		frac = 0.2
	}
	if frac <= 0 || frac >= 1 {
		return nil, fmt.Errorf("%w: test fraction %v out of (0,1)", ErrValidation, frac)
	}

	cfg := opts.Forest
	if cfg.Trees == 0 {
		cfg = DefaultForestConfig()
	}

	X := DesignMatrix(records)
	y := make([]float64, len(records))
	for i, rec := range records {
		if target == TargetCost {
			y[i] = rec.TotalCost
		} else {
			y[i] = rec.TotalEnergy
		}
	}

	nTest := int(math.Ceil(float64(len(records)) * frac))
	nTrain := len(records) - nTest
	if nTrain < 1 {
		return nil, fmt.Errorf("%w: test fraction %v leaves no training rows", ErrValidation, frac)
	}

	scaler := &Scaler{}
	XTrain, err := scaler.FitTransform(X[:nTrain])
	if err != nil {
		return nil, err
	}
	XTest, err := scaler.Transform(X[nTrain:])
	if err != nil {
		return nil, err
	}
	yTrain, yTest := y[:nTrain], y[nTrain:]

	rng := rand.New(rand.NewPCG(opts.Seed, 0))
	forest := TrainForest(XTrain, yTrain, cfg, rng)

	p.forest = forest
	p.scaler = scaler
	p.featureNames = append([]string(nil), FeatureNames...)
	p.appliances = fitVocabulary(appliances)
	p.version = uuid.NewString()
	p.trainedAt = time.Now().UTC()

	report := &models.TrainingReport{
		FeatureImportance: make(map[string]float64, NumFeatures),
		TrainRows:         nTrain,
		TestRows:          nTest,
		TrainedAt:         p.trainedAt,
	}
	report.TrainRMSE, report.TrainMAE, report.TrainR2 = evaluate(forest, XTrain, yTrain)
	report.TestRMSE, report.TestMAE, report.TestR2 = evaluate(forest, XTest, yTest)
	for j, imp := range forest.FeatureImportance() {
		report.FeatureImportance[p.featureNames[j]] = imp
	}

	return report, nil
}

// PredictOne scales a raw feature vector and returns the energy estimate.
func (p *Predictor) PredictOne(features []float64) (float64, error) {
	if !p.IsTrained() {
		return 0, fmt.Errorf("%w: train or load a model before predicting", ErrNotTrained)
	}
	scaled, err := p.scaler.TransformOne(features)
	if err != nil {
		return 0, err
	}
	return p.forest.Predict(scaled), nil
}

// fitVocabulary builds the sorted, deduplicated appliance name vocabulary.
func fitVocabulary(appliances []string) []string {
	seen := make(map[string]bool, len(appliances))
	var vocab []string
	for _, a := range appliances {
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		vocab = append(vocab, a)
	}
	sort.Strings(vocab)
	return vocab
}

// evaluate computes RMSE, MAE and R² of the forest over a scaled matrix.
// R² is 0 when the target has no variance, so the report never carries NaN.
func evaluate(f *Forest, X [][]float64, y []float64) (rmse, mae, r2 float64) {
	if len(y) == 0 {
		return 0, 0, 0
	}

	var mean float64
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))

	var sqErr, absErr, variance float64
	for i, x := range X {
		diff := f.Predict(x) - y[i]
		sqErr += diff * diff
		absErr += math.Abs(diff)
		d := y[i] - mean
		variance += d * d
	}

	n := float64(len(y))
	rmse = math.Sqrt(sqErr / n)
	mae = absErr / n
	if variance > 1e-12 {
		r2 = 1 - sqErr/variance
	}
	return rmse, mae, r2
}
