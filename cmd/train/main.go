// Package main provides the entry point for the training pipeline.
package main

import (
	"context"
	"flag"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/strikeout-edge/internal/config"
	"github.com/yourusername/strikeout-edge/internal/dataset"
	"github.com/yourusername/strikeout-edge/internal/feature"
	"github.com/yourusername/strikeout-edge/internal/health"
	"github.com/yourusername/strikeout-edge/internal/logger"
	"github.com/yourusername/strikeout-edge/internal/metrics"
	"github.com/yourusername/strikeout-edge/internal/model"
	"github.com/yourusername/strikeout-edge/internal/models"
	"github.com/yourusername/strikeout-edge/internal/repository"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to config file (defaults apply when empty)")
		artifactDir = flag.String("artifact-dir", "", "Override artifact output directory")
		skipStore   = flag.Bool("skip-store", false, "Do not persist in-sample predictions")
	)
	flag.Parse()

	cfg := loadConfig(*configPath)
	if *artifactDir != "" {
		cfg.Model.ArtifactDir = *artifactDir
	}

	log := logger.New(cfg.App.LogLevel)
	runID := uuid.New()
	runLog := logger.WithRun(log, runID)
	start := time.Now()

	ctx := context.Background()
	metrics.InitRegistry()
	if cfg.Metrics.Enabled {
		ops := health.NewServer(health.Config{
			ServiceName:   cfg.App.Name,
			Addr:          cfg.Metrics.ListenAddress,
			ArtifactPaths: artifactPaths(cfg.Model),
			Logger:        log,
		})
		if err := ops.Start(ctx); err != nil {
			runLog.Warnf("Ops server failed to start: %v", err)
		}
		ops.SetReady(true)
	}

	runLog.Info("Starting training run")

	loader := dataset.NewLoader(cfg.Data.MaxMalformedFraction, log)

	games, gameReport, err := loader.LoadPitcherGames(cfg.Data.PitcherGameLog)
	if err != nil {
		runLog.Fatalf("Failed to load pitcher game log: %v", err)
	}
	observeTable("pitcher_games", gameReport)

	batting, battingReport, err := loader.LoadOpponentBatting(cfg.Data.OpponentBatting)
	if err != nil {
		runLog.Fatalf("Failed to load opponent batting: %v", err)
	}
	observeTable("opponent_batting", battingReport)

	teamPitch, pitchReport, err := loader.LoadTeamPitching(cfg.Data.TeamPitching)
	if err != nil {
		runLog.Fatalf("Failed to load team pitching: %v", err)
	}
	observeTable("team_pitching", pitchReport)

	schema := feature.NewSchema(cfg.Features.WindowSize)
	assembler := feature.NewAssembler(schema, cfg.Features.WindowSize, cfg.Features.MinInnings, log)
	set, err := assembler.Assemble(games, batting, teamPitch)
	if err != nil {
		runLog.Fatalf("Failed to assemble training set: %v", err)
	}
	observeDrops(set.Dropped)

	trainer := model.NewTrainer(cfg.Model, log)
	forest, report, err := trainer.Train(set)
	if err != nil {
		runLog.Fatalf("Training failed: %v", err)
	}
	metrics.TrainingMAE.Set(report.MAE)
	metrics.TrainingR2.Set(report.R2)

	if err := trainer.Persist(forest, schema); err != nil {
		runLog.Fatalf("Failed to persist artifacts: %v", err)
	}

	if !*skipStore {
		storeTrainingFit(ctx, cfg, runID, set, report, runLog)
	}

	metrics.LastRunTimestamp.WithLabelValues("train").Set(float64(time.Now().Unix()))
	logger.NewRunLogger(log, runID).LogTrainingRun(
		report.Rows, set.Dropped.Total(), report.MAE, report.R2, time.Since(start))
}

func artifactPaths(m config.ModelConfig) []string {
	return []string{
		filepath.Join(m.ArtifactDir, m.EstimatorFile),
		filepath.Join(m.ArtifactDir, m.SchemaFile),
	}
}

func loadConfig(path string) *config.Config {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			logrus.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func observeTable(table string, report dataset.ParseReport) {
	metrics.RowsParsedTotal.WithLabelValues(table).Add(float64(report.Parsed))
	metrics.RowsMalformedTotal.WithLabelValues(table).Add(float64(report.Malformed))
}

func observeDrops(d feature.DropCounts) {
	metrics.TrainingRowsDroppedTotal.WithLabelValues("short_outing").Add(float64(d.ShortOutings))
	metrics.TrainingRowsDroppedTotal.WithLabelValues("empty_window").Add(float64(d.EmptyWindow))
	metrics.TrainingRowsDroppedTotal.WithLabelValues("missing_opponent").Add(float64(d.MissingOpponent))
}

func storeTrainingFit(
	ctx context.Context,
	cfg *config.Config,
	runID uuid.UUID,
	set *feature.TrainingSet,
	report model.FitReport,
	log *logrus.Entry,
) {
	repo, err := repository.New(ctx, cfg.Store)
	if err != nil {
		log.Warnf("Prediction store unavailable, skipping in-sample log: %v", err)
		return
	}
	defer repo.Close()

	now := time.Now().UTC()
	records := make([]models.TrainingPrediction, len(set.Rows))
	for i, row := range set.Rows {
		records[i] = models.TrainingPrediction{
			RunID:       runID,
			GameDate:    row.Date,
			Player:      row.Player,
			Team:        row.Team,
			Opponent:    row.Opponent,
			ActualSO:    row.Target,
			PredictedSO: report.Predictions[i],
			CreatedAt:   now,
		}
	}
	if err := repo.SaveTrainingBatch(ctx, records); err != nil {
		log.Warnf("Failed to store in-sample predictions: %v", err)
		return
	}
	log.WithField("records", len(records)).Info("Stored in-sample predictions")
}
