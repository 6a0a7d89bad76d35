package model

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/yourusername/strikeout-edge/internal/artifact"
)

// Estimator exposes deterministic batch prediction. The scoring engine only
// depends on this interface, never on the concrete ensemble.
type Estimator interface {
	Predict(x [][]float64) []float64
}

// Forest is a bagged regression-tree ensemble. Each tree is grown on a
// bootstrap resample of the training rows; prediction averages the trees.
// The feature column names are embedded for a load-time sanity check but the
// authoritative schema is persisted separately.
type Forest struct {
	Trees     []*treeNode `json:"trees"`
	Columns   []string    `json:"columns"`
	Seed      int64       `json:"seed"`
	TrainedAt time.Time   `json:"trained_at"`
}

// ForestParams are the ensemble hyperparameters.
type ForestParams struct {
	Trees       int
	MaxDepth    int
	MinLeafSize int
	Seed        int64
}

// GrowForest fits the ensemble. The fixed seed makes refits on identical
// input bit-identical.
func GrowForest(x [][]float64, y []float64, columns []string, p ForestParams) (*Forest, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("invalid training matrix: %d rows, %d targets", len(x), len(y))
	}

	f := &Forest{
		Trees:     make([]*treeNode, p.Trees),
		Columns:   append([]string(nil), columns...),
		Seed:      p.Seed,
		TrainedAt: time.Now().UTC(),
	}

	for t := 0; t < p.Trees; t++ {
		rng := rand.New(rand.NewSource(p.Seed + int64(t)))
		idx := make([]int, len(x))
		for i := range idx {
			idx[i] = rng.Intn(len(x))
		}
		f.Trees[t] = growTree(x, y, idx, 0, p.MaxDepth, p.MinLeafSize)
	}

	return f, nil
}

// Predict returns one prediction per input row.
func (f *Forest) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	if len(f.Trees) == 0 {
		return out
	}
	for i, row := range x {
		sum := 0.0
		for _, tree := range f.Trees {
			sum += tree.predict(row)
		}
		out[i] = sum / float64(len(f.Trees))
	}
	return out
}

// Save persists the ensemble with write-then-atomic-rename.
func (f *Forest) Save(path string) error {
	if err := artifact.WriteJSONAtomic(path, f); err != nil {
		return fmt.Errorf("failed to save estimator: %w", err)
	}
	return nil
}

// LoadForest reads a persisted ensemble.
func LoadForest(path string) (*Forest, error) {
	f := &Forest{}
	if err := artifact.ReadJSON(path, f); err != nil {
		return nil, fmt.Errorf("failed to load estimator: %w", err)
	}
	if len(f.Trees) == 0 {
		return nil, fmt.Errorf("estimator at %s has no trees", path)
	}
	return f, nil
}
