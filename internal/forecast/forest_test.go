package forecast

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticMatrix builds a learnable two-feature dataset where the target
// follows the first feature with mild noise.
func syntheticMatrix(n int, seed uint64) ([][]float64, []float64) {
	rng := rand.New(rand.NewPCG(seed, 0))
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		a := rng.Float64() * 10
		b := rng.Float64()
		X[i] = []float64{a, b}
		y[i] = 3*a + rng.Float64()*0.5
	}
	return X, y
}

func TestTrainForestLearnsSignal(t *testing.T) {
	X, y := syntheticMatrix(200, 7)
	f := TrainForest(X, y, DefaultForestConfig(), rand.New(rand.NewPCG(42, 0)))

	var sqErr, variance, mean float64
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))
	for i, x := range X {
		d := f.Predict(x) - y[i]
		sqErr += d * d
		v := y[i] - mean
		variance += v * v
	}

	// In-sample fit on a strong linear signal should be far better than
	// predicting the mean.
	assert.Less(t, sqErr, variance*0.1)
}

func TestTrainForestDeterministic(t *testing.T) {
	X, y := syntheticMatrix(100, 3)

	f1 := TrainForest(X, y, DefaultForestConfig(), rand.New(rand.NewPCG(42, 0)))
	f2 := TrainForest(X, y, DefaultForestConfig(), rand.New(rand.NewPCG(42, 0)))
	f3 := TrainForest(X, y, DefaultForestConfig(), rand.New(rand.NewPCG(43, 0)))

	probe := []float64{5, 0.5}
	assert.Equal(t, f1.Predict(probe), f2.Predict(probe))
	assert.NotEqual(t, f1.Predict(probe), f3.Predict(probe))
}

func TestFeatureImportanceSumsToOne(t *testing.T) {
	X, y := syntheticMatrix(150, 11)
	f := TrainForest(X, y, DefaultForestConfig(), rand.New(rand.NewPCG(1, 0)))

	imp := f.FeatureImportance()
	require.Len(t, imp, 2)

	var total float64
	for _, v := range imp {
		assert.GreaterOrEqual(t, v, 0.0)
		total += v
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	// The causal feature dominates.
	assert.Greater(t, imp[0], imp[1])
}

func TestForestConstantTarget(t *testing.T) {
	X := [][]float64{{1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 0}, {6, 0}}
	y := []float64{4, 4, 4, 4, 4, 4}

	f := TrainForest(X, y, DefaultForestConfig(), rand.New(rand.NewPCG(9, 0)))
	assert.InDelta(t, 4, f.Predict([]float64{3.5, 0}), 1e-9)

	// No split ever happens, so importance falls back to uniform.
	imp := f.FeatureImportance()
	for _, v := range imp {
		assert.InDelta(t, 0.5, v, 1e-9)
	}
}

func TestForestMinLeafRespected(t *testing.T) {
	X, y := syntheticMatrix(60, 5)
	cfg := ForestConfig{Trees: 10, MaxDepth: 15, MinSamplesSplit: 5, MinSamplesLeaf: 2}
	f := TrainForest(X, y, cfg, rand.New(rand.NewPCG(2, 0)))

	for _, root := range f.Roots {
		walkTree(t, root)
	}
}

func walkTree(t *testing.T, node *TreeNode) {
	t.Helper()
	if node.Feature < 0 {
		assert.Nil(t, node.Left)
		assert.Nil(t, node.Right)
		assert.False(t, math.IsNaN(node.Value))
		return
	}
	require.NotNil(t, node.Left)
	require.NotNil(t, node.Right)
	assert.Greater(t, node.Gain, 0.0)
	walkTree(t, node.Left)
	walkTree(t, node.Right)
}
