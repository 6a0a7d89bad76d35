// Package model implements the strikeout estimator: a bagged ensemble of
// regression trees with deterministic batch prediction, plus atomic artifact
// persistence. The ensemble is hand-rolled; the feature contract lives
// entirely in the feature package, so the estimator choice is swappable.
package model

import (
	"math"
	"sort"
)

// treeNode is one node of a regression tree. Exported fields keep the tree
// JSON-serializable for the persisted estimator artifact.
type treeNode struct {
	Leaf      bool      `json:"leaf"`
	Value     float64   `json:"value,omitempty"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
}

func (n *treeNode) predict(x []float64) float64 {
	node := n
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// growTree builds a variance-minimizing regression tree over the rows named
// by idx. Splits scan every feature at midpoints between consecutive
// distinct values; a node becomes a leaf when depth, size, or purity says so.
func growTree(x [][]float64, y []float64, idx []int, depth, maxDepth, minLeaf int) *treeNode {
	if depth >= maxDepth || len(idx) < 2*minLeaf {
		return leaf(y, idx)
	}

	feature, threshold, ok := bestSplit(x, y, idx, minLeaf)
	if !ok {
		return leaf(y, idx)
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(x, y, left, depth+1, maxDepth, minLeaf),
		Right:     growTree(x, y, right, depth+1, maxDepth, minLeaf),
	}
}

func leaf(y []float64, idx []int) *treeNode {
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	v := 0.0
	if len(idx) > 0 {
		v = sum / float64(len(idx))
	}
	return &treeNode{Leaf: true, Value: v}
}

// bestSplit returns the (feature, threshold) pair with the lowest weighted
// child variance, or ok=false when no split separates the rows.
func bestSplit(x [][]float64, y []float64, idx []int, minLeaf int) (int, float64, bool) {
	bestScore := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	if len(idx) == 0 {
		return -1, 0, false
	}
	features := len(x[idx[0]])

	order := make([]int, len(idx))
	for f := 0; f < features; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		// Prefix sums over the sorted order let each candidate split be
		// scored in O(1).
		sumLeft, sqLeft := 0.0, 0.0
		sumTotal, sqTotal := 0.0, 0.0
		for _, i := range order {
			sumTotal += y[i]
			sqTotal += y[i] * y[i]
		}

		for pos := 0; pos < len(order)-1; pos++ {
			i := order[pos]
			sumLeft += y[i]
			sqLeft += y[i] * y[i]

			if x[order[pos]][f] == x[order[pos+1]][f] {
				continue
			}
			nLeft := pos + 1
			nRight := len(order) - nLeft
			if nLeft < minLeaf || nRight < minLeaf {
				continue
			}

			sumRight := sumTotal - sumLeft
			sqRight := sqTotal - sqLeft
			score := (sqLeft - sumLeft*sumLeft/float64(nLeft)) +
				(sqRight - sumRight*sumRight/float64(nRight))
			if score < bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = (x[order[pos]][f] + x[order[pos+1]][f]) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}
