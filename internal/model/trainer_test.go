package model

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/strikeout-edge/internal/config"
	"github.com/yourusername/strikeout-edge/internal/feature"
	"github.com/yourusername/strikeout-edge/internal/models"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func trainerConfig(dir string) config.ModelConfig {
	return config.ModelConfig{
		Trees:         10,
		MaxDepth:      4,
		MinLeafSize:   2,
		Seed:          42,
		ArtifactDir:   dir,
		EstimatorFile: "strikeout_model.json",
		SchemaFile:    "feature_order.json",
	}
}

func TestTrainRefusesEmptySet(t *testing.T) {
	trainer := NewTrainer(trainerConfig(t.TempDir()), quietLog())

	set := &feature.TrainingSet{Schema: feature.SchemaFromColumns([]string{"a"})}
	_, _, err := trainer.Train(set)
	assert.True(t, errors.Is(err, models.ErrEmptyTrainingSet))
}

func TestTrainProducesFitReport(t *testing.T) {
	trainer := NewTrainer(trainerConfig(t.TempDir()), quietLog())

	schema := feature.SchemaFromColumns([]string{"a", "b"})
	set := &feature.TrainingSet{Schema: schema}
	x, y := syntheticSet(100, 4)
	for i := range x {
		set.Rows = append(set.Rows, feature.TrainingRow{Features: x[i], Target: y[i]})
	}

	forest, report, err := trainer.Train(set)
	require.NoError(t, err)
	require.NotNil(t, forest)

	assert.Equal(t, 100, report.Rows)
	assert.Len(t, report.Predictions, 100)
	assert.Greater(t, report.R2, 0.0)
	assert.Equal(t, schema.Columns(), forest.Columns)
}

func TestPersistWritesBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	trainer := NewTrainer(trainerConfig(dir), quietLog())

	schema := feature.SchemaFromColumns([]string{"a", "b"})
	x, y := syntheticSet(40, 5)
	forest, err := GrowForest(x, y, schema.Columns(), testParams())
	require.NoError(t, err)

	require.NoError(t, trainer.Persist(forest, schema))

	_, err = os.Stat(filepath.Join(dir, "strikeout_model.json"))
	assert.NoError(t, err)

	loadedSchema, err := feature.LoadSchema(filepath.Join(dir, "feature_order.json"))
	require.NoError(t, err)
	assert.Equal(t, schema.Columns(), loadedSchema.Columns())

	loadedForest, err := LoadForest(filepath.Join(dir, "strikeout_model.json"))
	require.NoError(t, err)
	assert.Equal(t, forest.Predict(x), loadedForest.Predict(x))
}
