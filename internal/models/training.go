package models

import (
	"time"

	"github.com/google/uuid"
)

// TrainingPrediction is one in-sample prediction logged after a training
// run, kept for later comparison against what the model ships to scoring.
type TrainingPrediction struct {
	RunID       uuid.UUID
	GameDate    time.Time
	Player      string
	Team        string
	Opponent    string
	ActualSO    float64
	PredictedSO float64
	CreatedAt   time.Time
}
