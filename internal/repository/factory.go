package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/strikeout-edge/internal/config"
	"github.com/yourusername/strikeout-edge/internal/database"
)

// New builds the prediction store selected by configuration.
func New(ctx context.Context, cfg config.StoreConfig) (PredictionRepository, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLitePredictionRepository(cfg.SQLitePath)
	case "postgres":
		db, err := database.NewDB(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		repo := NewPostgresPredictionRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			repo.Close()
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
