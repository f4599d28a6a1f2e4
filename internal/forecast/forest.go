package forecast

import (
	"math/rand/v2"
	"sort"
)

// ForestConfig holds the random forest hyperparameters.
type ForestConfig struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
}

// DefaultForestConfig returns the hyperparameters the baseline model trains
// with: 100 bagged trees, depth-limited, with small leaf guards suited to
// the tens-to-low-hundreds of daily rows a single household produces.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:           100,
		MaxDepth:        15,
		MinSamplesSplit: 5,
		MinSamplesLeaf:  2,
	}
}

// TreeNode is one node of a regression tree. Split nodes carry a feature
// index and threshold; leaves carry only the mean target value. Gain is
// the impurity decrease the split achieved, kept so feature importance
// survives a serialization round-trip.
type TreeNode struct {
	Feature   int       `json:"feature"` // -1 for leaves
	Threshold float64   `json:"threshold,omitempty"`
	Value     float64   `json:"value"`
	Gain      float64   `json:"gain,omitempty"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
}

// Forest is an ensemble of bagged regression trees. Predictions average
// the per-tree outputs.
type Forest struct {
	Roots       []*TreeNode `json:"trees"`
	NumFeatures int         `json:"num_features"`
}

// TrainForest fits a random forest on a scaled design matrix. Each tree
// trains on a bootstrap resample drawn from rng, so results are
// deterministic for a fixed seed and input order.
func TrainForest(X [][]float64, y []float64, cfg ForestConfig, rng *rand.Rand) *Forest {
	n := len(X)
	f := &Forest{
		Roots:       make([]*TreeNode, cfg.Trees),
		NumFeatures: len(X[0]),
	}

	for t := 0; t < cfg.Trees; t++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.IntN(n)
		}
		f.Roots[t] = buildTree(X, y, idx, 0, cfg)
	}
	return f
}

// Predict returns the ensemble mean for one feature vector.
func (f *Forest) Predict(x []float64) float64 {
	var sum float64
	for _, root := range f.Roots {
		sum += predictTree(root, x)
	}
	return sum / float64(len(f.Roots))
}

func predictTree(node *TreeNode, x []float64) float64 {
	for node.Feature >= 0 {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// FeatureImportance sums impurity decrease per feature across all trees
// and normalizes to 1. A forest of stumps-free leaves (no splits) returns
// a uniform distribution.
func (f *Forest) FeatureImportance() []float64 {
	imp := make([]float64, f.NumFeatures)
	for _, root := range f.Roots {
		accumulateGain(root, imp)
	}

	var total float64
	for _, v := range imp {
		total += v
	}
	if total <= 0 {
		for j := range imp {
			imp[j] = 1.0 / float64(f.NumFeatures)
		}
		return imp
	}
	for j := range imp {
		imp[j] /= total
	}
	return imp
}

func accumulateGain(node *TreeNode, imp []float64) {
	if node == nil || node.Feature < 0 {
		return
	}
	imp[node.Feature] += node.Gain
	accumulateGain(node.Left, imp)
	accumulateGain(node.Right, imp)
}

// buildTree grows a CART regression tree over the sample indexes idx,
// choosing at each node the split that minimizes the summed squared error
// of the two children.
func buildTree(X [][]float64, y []float64, idx []int, depth int, cfg ForestConfig) *TreeNode {
	mean, sse := meanSSE(y, idx)

	if depth >= cfg.MaxDepth || len(idx) < cfg.MinSamplesSplit || sse <= 0 {
		return &TreeNode{Feature: -1, Value: mean}
	}

	feature, threshold, gain, ok := bestSplit(X, y, idx, sse, cfg.MinSamplesLeaf)
	if !ok {
		return &TreeNode{Feature: -1, Value: mean}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Value:     mean,
		Gain:      gain,
		Left:      buildTree(X, y, left, depth+1, cfg),
		Right:     buildTree(X, y, right, depth+1, cfg),
	}
}

// bestSplit scans every feature with a sorted sweep, tracking prefix sums
// so each candidate split's SSE is computed in constant time.
func bestSplit(X [][]float64, y []float64, idx []int, parentSSE float64, minLeaf int) (feature int, threshold, gain float64, ok bool) {
	n := len(idx)
	bestGain := 0.0
	order := make([]int, n)

	for f := 0; f < len(X[idx[0]]); f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool {
			return X[order[a]][f] < X[order[b]][f]
		})

		var totalSum, totalSq float64
		for _, i := range order {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}

		var leftSum, leftSq float64
		for k := 0; k < n-1; k++ {
			i := order[k]
			leftSum += y[i]
			leftSq += y[i] * y[i]

			// Can't split between equal feature values.
			if X[order[k+1]][f] == X[i][f] {
				continue
			}
			nLeft := k + 1
			nRight := n - nLeft
			if nLeft < minLeaf || nRight < minLeaf {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sseLeft := leftSq - leftSum*leftSum/float64(nLeft)
			sseRight := rightSq - rightSum*rightSum/float64(nRight)

			g := parentSSE - sseLeft - sseRight
			if g > bestGain {
				bestGain = g
				feature = f
				threshold = (X[i][f] + X[order[k+1]][f]) / 2
			}
		}
	}

	if bestGain <= 0 {
		return 0, 0, 0, false
	}
	return feature, threshold, bestGain, true
}

func meanSSE(y []float64, idx []int) (mean, sse float64) {
	var sum, sq float64
	for _, i := range idx {
		sum += y[i]
		sq += y[i] * y[i]
	}
	n := float64(len(idx))
	mean = sum / n
	sse = sq - sum*sum/n
	if sse < 0 {
		sse = 0 // floating point cancellation on constant targets
	}
	return mean, sse
}
