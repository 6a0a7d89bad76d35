package model

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/strikeout-edge/internal/config"
	"github.com/yourusername/strikeout-edge/internal/feature"
	"github.com/yourusername/strikeout-edge/internal/models"
)

// FitReport carries in-sample fit diagnostics. Purely observability; no
// pipeline decision keys off these numbers.
type FitReport struct {
	Rows        int
	MAE         float64
	R2          float64
	Predictions []float64 // in-sample, aligned with the training rows
}

// Trainer fits the ensemble over an assembled training set and persists the
// estimator and feature schema as two independently loadable artifacts.
type Trainer struct {
	cfg config.ModelConfig
	log *logrus.Logger
}

// NewTrainer creates a trainer.
func NewTrainer(cfg config.ModelConfig, log *logrus.Logger) *Trainer {
	return &Trainer{cfg: cfg, log: log}
}

// Train fits and evaluates; it refuses an empty training set.
func (t *Trainer) Train(set *feature.TrainingSet) (*Forest, FitReport, error) {
	if len(set.Rows) == 0 {
		return nil, FitReport{}, fmt.Errorf("cannot train: %w", models.ErrEmptyTrainingSet)
	}

	x := make([][]float64, len(set.Rows))
	y := make([]float64, len(set.Rows))
	for i, row := range set.Rows {
		x[i] = row.Features
		y[i] = row.Target
	}

	forest, err := GrowForest(x, y, set.Schema.Columns(), ForestParams{
		Trees:       t.cfg.Trees,
		MaxDepth:    t.cfg.MaxDepth,
		MinLeafSize: t.cfg.MinLeafSize,
		Seed:        t.cfg.Seed,
	})
	if err != nil {
		return nil, FitReport{}, fmt.Errorf("failed to grow forest: %w", err)
	}

	preds := forest.Predict(x)
	report := FitReport{
		Rows:        len(set.Rows),
		MAE:         meanAbsoluteError(y, preds),
		R2:          rSquared(y, preds),
		Predictions: preds,
	}

	t.log.WithFields(logrus.Fields{
		"rows": report.Rows,
		"mae":  report.MAE,
		"r2":   report.R2,
	}).Info("Model trained")

	return forest, report, nil
}

// Persist writes the estimator and the feature schema side by side.
func (t *Trainer) Persist(forest *Forest, schema *feature.Schema) error {
	estimatorPath := filepath.Join(t.cfg.ArtifactDir, t.cfg.EstimatorFile)
	if err := forest.Save(estimatorPath); err != nil {
		return err
	}
	schemaPath := filepath.Join(t.cfg.ArtifactDir, t.cfg.SchemaFile)
	if err := schema.Save(schemaPath); err != nil {
		return err
	}
	t.log.WithFields(logrus.Fields{
		"estimator": estimatorPath,
		"schema":    schemaPath,
	}).Info("Artifacts persisted")
	return nil
}

func meanAbsoluteError(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}

func rSquared(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))

	ssRes, ssTot := 0.0, 0.0
	for i := range actual {
		ssRes += (actual[i] - predicted[i]) * (actual[i] - predicted[i])
		ssTot += (actual[i] - mean) * (actual[i] - mean)
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}
