package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/strikeout-edge/internal/database"
	"github.com/yourusername/strikeout-edge/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) *PostgresPredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// EnsureSchema creates the predictions table if absent.
func (r *PostgresPredictionRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS predictions (
			id             UUID PRIMARY KEY,
			run_id         UUID NOT NULL,
			game_date      DATE NOT NULL,
			player         TEXT NOT NULL,
			line           DOUBLE PRECISION NOT NULL,
			odds           NUMERIC NOT NULL,
			predicted_so   DOUBLE PRECISION NOT NULL,
			edge           DOUBLE PRECISION NOT NULL,
			recommendation TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_predictions_run  ON predictions(run_id);
		CREATE INDEX IF NOT EXISTS idx_predictions_date ON predictions(game_date);

		CREATE TABLE IF NOT EXISTS training_predictions (
			run_id       UUID NOT NULL,
			game_date    DATE NOT NULL,
			player       TEXT NOT NULL,
			team         TEXT NOT NULL,
			opponent     TEXT NOT NULL,
			actual_so    DOUBLE PRECISION NOT NULL,
			predicted_so DOUBLE PRECISION NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_training_run ON training_predictions(run_id);
	`
	if _, err := r.db.GetPool().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure predictions schema: %w", err)
	}
	return nil
}

// SaveBatch stores a run's records in one transaction.
func (r *PostgresPredictionRepository) SaveBatch(ctx context.Context, records []models.PredictionRecord) error {
	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO predictions
			(id, run_id, game_date, player, line, odds, predicted_so, edge, recommendation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, rec := range records {
		_, err := tx.Exec(ctx, query,
			rec.ID, rec.RunID, rec.GameDate, rec.Player, rec.Line, rec.Odds.String(),
			rec.PredictedSO, rec.Edge, string(rec.Recommendation), rec.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert prediction for %s: %w", rec.Player, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit predictions: %w", err)
	}
	return nil
}

// GetByRun returns the records of one run.
func (r *PostgresPredictionRepository) GetByRun(ctx context.Context, runID uuid.UUID) ([]models.PredictionRecord, error) {
	return r.query(ctx, `run_id = $1`, runID)
}

// GetByDate returns all records for a game date.
func (r *PostgresPredictionRepository) GetByDate(ctx context.Context, date time.Time) ([]models.PredictionRecord, error) {
	return r.query(ctx, `game_date = $1`, date)
}

// SaveTrainingBatch stores a training run's in-sample predictions.
func (r *PostgresPredictionRepository) SaveTrainingBatch(ctx context.Context, records []models.TrainingPrediction) error {
	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO training_predictions
			(run_id, game_date, player, team, opponent, actual_so, predicted_so, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, rec := range records {
		_, err := tx.Exec(ctx, query,
			rec.RunID, rec.GameDate, rec.Player, rec.Team, rec.Opponent,
			rec.ActualSO, rec.PredictedSO, rec.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert training prediction for %s: %w", rec.Player, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit training predictions: %w", err)
	}
	return nil
}

// Close releases the underlying pool.
func (r *PostgresPredictionRepository) Close() error {
	r.db.Close()
	return nil
}

func (r *PostgresPredictionRepository) query(ctx context.Context, where string, arg any) ([]models.PredictionRecord, error) {
	rows, err := r.db.GetPool().Query(ctx, `
		SELECT id, run_id, game_date, player, line, odds::text, predicted_so, edge, recommendation, created_at
		FROM predictions WHERE `+where+` ORDER BY player`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var out []models.PredictionRecord
	for rows.Next() {
		var rec models.PredictionRecord
		var odds, recommendation string
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.GameDate, &rec.Player, &rec.Line,
			&odds, &rec.PredictedSO, &rec.Edge, &recommendation, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		rec.Odds, err = decimal.NewFromString(odds)
		if err != nil {
			return nil, fmt.Errorf("invalid odds %q: %w", odds, err)
		}
		rec.Recommendation = models.Recommendation(recommendation)
		out = append(out, rec)
	}
	return out, rows.Err()
}
