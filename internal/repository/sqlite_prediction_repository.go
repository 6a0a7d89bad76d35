package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/yourusername/strikeout-edge/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS predictions (
    id             TEXT PRIMARY KEY,
    run_id         TEXT NOT NULL,
    game_date      TEXT NOT NULL,
    player         TEXT NOT NULL,
    line           REAL NOT NULL,
    odds           TEXT NOT NULL,
    predicted_so   REAL NOT NULL,
    edge           REAL NOT NULL,
    recommendation TEXT NOT NULL,
    created_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_predictions_run  ON predictions(run_id);
CREATE INDEX IF NOT EXISTS idx_predictions_date ON predictions(game_date);

CREATE TABLE IF NOT EXISTS training_predictions (
    run_id       TEXT NOT NULL,
    game_date    TEXT NOT NULL,
    player       TEXT NOT NULL,
    team         TEXT NOT NULL,
    opponent     TEXT NOT NULL,
    actual_so    REAL NOT NULL,
    predicted_so REAL NOT NULL,
    created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_training_run ON training_predictions(run_id);
`

// SQLitePredictionRepository implements PredictionRepository on a local
// SQLite file (pure Go driver, no CGo).
type SQLitePredictionRepository struct {
	db *sql.DB
}

// NewSQLitePredictionRepository opens (creating if needed) the store.
func NewSQLitePredictionRepository(path string) (*SQLitePredictionRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}
	return &SQLitePredictionRepository{db: db}, nil
}

// SaveBatch stores a run's records in one transaction.
func (r *SQLitePredictionRepository) SaveBatch(ctx context.Context, records []models.PredictionRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO predictions
			(id, run_id, game_date, player, line, odds, predicted_so, edge, recommendation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.ID.String(), rec.RunID.String(), rec.GameDate.Format("2006-01-02"),
			rec.Player, rec.Line, rec.Odds.String(), rec.PredictedSO, rec.Edge,
			string(rec.Recommendation), rec.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert prediction for %s: %w", rec.Player, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit predictions: %w", err)
	}
	return nil
}

// GetByRun returns the records of one run.
func (r *SQLitePredictionRepository) GetByRun(ctx context.Context, runID uuid.UUID) ([]models.PredictionRecord, error) {
	return r.query(ctx, `run_id = ?`, runID.String())
}

// GetByDate returns all records for a game date.
func (r *SQLitePredictionRepository) GetByDate(ctx context.Context, date time.Time) ([]models.PredictionRecord, error) {
	return r.query(ctx, `game_date = ?`, date.Format("2006-01-02"))
}

// SaveTrainingBatch stores a training run's in-sample predictions.
func (r *SQLitePredictionRepository) SaveTrainingBatch(ctx context.Context, records []models.TrainingPrediction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO training_predictions
			(run_id, game_date, player, team, opponent, actual_so, predicted_so, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.RunID.String(), rec.GameDate.Format("2006-01-02"), rec.Player,
			rec.Team, rec.Opponent, rec.ActualSO, rec.PredictedSO, rec.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert training prediction for %s: %w", rec.Player, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit training predictions: %w", err)
	}
	return nil
}

// Close closes the store.
func (r *SQLitePredictionRepository) Close() error {
	return r.db.Close()
}

func (r *SQLitePredictionRepository) query(ctx context.Context, where string, arg any) ([]models.PredictionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, run_id, game_date, player, line, odds, predicted_so, edge, recommendation, created_at
		FROM predictions WHERE `+where+` ORDER BY player`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var out []models.PredictionRecord
	for rows.Next() {
		var rec models.PredictionRecord
		var id, runID, gameDate, odds, recommendation string
		if err := rows.Scan(&id, &runID, &gameDate, &rec.Player, &rec.Line, &odds,
			&rec.PredictedSO, &rec.Edge, &recommendation, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}

		rec.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid prediction id %q: %w", id, err)
		}
		rec.RunID, err = uuid.Parse(runID)
		if err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", runID, err)
		}
		rec.GameDate, err = time.Parse("2006-01-02", gameDate)
		if err != nil {
			return nil, fmt.Errorf("invalid game date %q: %w", gameDate, err)
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
