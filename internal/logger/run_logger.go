// Package logger provides pipeline-run logging.
package logger

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RunLogger provides dedicated logging for training and scoring runs.
type RunLogger struct {
	*logrus.Entry
}

// NewRunLogger creates a new run logger.
func NewRunLogger(baseLogger *logrus.Logger, runID uuid.UUID) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithFields(logrus.Fields{
			"component": "pipeline",
			"run_id":    runID.String(),
		}),
	}
}

// LogTrainingRun logs a completed training run with its fit diagnostics.
func (rl *RunLogger) LogTrainingRun(rows, dropped int, mae, r2 float64, duration time.Duration) {
	rl.WithFields(logrus.Fields{
		"rows":         rows,
		"dropped_rows": dropped,
		"mae":          mae,
		"r2":           r2,
		"duration_ms":  duration.Milliseconds(),
	}).Info("Training run completed")
}

// LogScoringRun logs a completed scoring run with its drop accounting.
func (rl *RunLogger) LogScoringRun(scored, dropped, flagged int, duration time.Duration) {
	rl.WithFields(logrus.Fields{
		"scored":      scored,
		"dropped":     dropped,
		"flagged":     flagged,
		"duration_ms": duration.Milliseconds(),
	}).Info("Scoring run completed")
}
