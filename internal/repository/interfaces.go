// Package repository persists scored predictions. Two implementations exist:
// a single-file SQLite store for local runs and a Postgres store for shared
// deployments; the config's store.driver selects between them.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/strikeout-edge/internal/models"
)

// PredictionRepository defines the interface for prediction persistence
type PredictionRepository interface {
	// SaveBatch stores every record of one scoring (or training
	// in-sample) run.
	SaveBatch(ctx context.Context, records []models.PredictionRecord) error
	// GetByRun returns the records of one run.
	GetByRun(ctx context.Context, runID uuid.UUID) ([]models.PredictionRecord, error)
	// GetByDate returns all records for a game date.
	GetByDate(ctx context.Context, date time.Time) ([]models.PredictionRecord, error)
	// SaveTrainingBatch stores a training run's in-sample predictions.
	SaveTrainingBatch(ctx context.Context, records []models.TrainingPrediction) error
	Close() error
}
