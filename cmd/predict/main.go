// Package main provides the entry point for the prop scoring pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/strikeout-edge/internal/config"
	"github.com/yourusername/strikeout-edge/internal/dataset"
	"github.com/yourusername/strikeout-edge/internal/feature"
	"github.com/yourusername/strikeout-edge/internal/health"
	"github.com/yourusername/strikeout-edge/internal/logger"
	"github.com/yourusername/strikeout-edge/internal/metrics"
	"github.com/yourusername/strikeout-edge/internal/model"
	"github.com/yourusername/strikeout-edge/internal/models"
	"github.com/yourusername/strikeout-edge/internal/namematch"
	"github.com/yourusername/strikeout-edge/internal/report"
	"github.com/yourusername/strikeout-edge/internal/repository"
	"github.com/yourusername/strikeout-edge/internal/scoring"
)

var (
	configFile string
	propsFile  string
	skipStore  bool

	log *logrus.Logger
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score open strikeout prop lines against the trained model",
	Long: `Loads current sportsbook strikeout props, resolves pitcher identity against
the historical game log, rebuilds the persisted feature schema for each line,
and prints the betting-edge table.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Default()
		if configFile != "" {
			loaded, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = loaded
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if propsFile != "" {
			cfg.Data.Props = propsFile
		}
		log = logger.New(cfg.App.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	rootCmd.Flags().StringVar(&propsFile, "props", "", "Override props CSV path")
	rootCmd.Flags().BoolVar(&skipStore, "skip-store", false, "Do not persist scored predictions")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	start := time.Now()
	estimatorPath := filepath.Join(cfg.Model.ArtifactDir, cfg.Model.EstimatorFile)
	schemaPath := filepath.Join(cfg.Model.ArtifactDir, cfg.Model.SchemaFile)

	metrics.InitRegistry()
	if cfg.Metrics.Enabled {
		ops := health.NewServer(health.Config{
			ServiceName:   cfg.App.Name,
			Addr:          cfg.Metrics.ListenAddress,
			ArtifactPaths: []string{estimatorPath, schemaPath},
			Logger:        log,
		})
		if err := ops.Start(ctx); err != nil {
			log.Warnf("Ops server failed to start: %v", err)
		}
		ops.SetReady(true)
	}

	loader := dataset.NewLoader(cfg.Data.MaxMalformedFraction, log)

	props, propsReport, err := loader.LoadProps(cfg.Data.Props)
	if err != nil {
		return fmt.Errorf("failed to load props: %w", err)
	}
	metrics.RowsParsedTotal.WithLabelValues("props").Add(float64(propsReport.Parsed))
	metrics.RowsMalformedTotal.WithLabelValues("props").Add(float64(propsReport.Malformed))
	log.WithFields(logrus.Fields{
		"props":     propsReport.Parsed,
		"filtered":  propsReport.Filtered,
		"malformed": propsReport.Malformed,
	}).Info("Loaded prop lines")

	history, historyReport, err := loader.LoadPitcherGames(cfg.Data.PitcherGameLog)
	if err != nil {
		return fmt.Errorf("failed to load pitcher game log: %w", err)
	}
	metrics.RowsParsedTotal.WithLabelValues("pitcher_games").Add(float64(historyReport.Parsed))
	metrics.RowsMalformedTotal.WithLabelValues("pitcher_games").Add(float64(historyReport.Malformed))

	schema, err := feature.LoadSchema(schemaPath)
	if err != nil {
		return err
	}
	forest, err := model.LoadForest(estimatorPath)
	if err != nil {
		return err
	}
	if err := checkColumns(forest, schema); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"estimator":  estimatorPath,
		"schema":     schemaPath,
		"columns":    schema.Len(),
		"trained_at": forest.TrainedAt.Format(time.RFC3339),
	}).Info("Model artifacts loaded")

	resolver := namematch.NewFuzzyResolver(
		playerKeys(history),
		cfg.Matching.FuzzyThreshold,
		time.Duration(cfg.Matching.CacheTTLSeconds)*time.Second,
		log,
	)

	engine := scoring.NewEngine(resolver, forest, schema,
		cfg.Features.WindowSize, cfg.Scoring.EdgeThreshold, log)

	result, err := engine.Score(props, history)
	resolver.LogUnmatched()
	if err != nil {
		if errors.Is(err, models.ErrNoPredictableRows) {
			log.Error("No predictable rows; nothing to report")
		}
		return err
	}

	report.EdgeTable(os.Stdout, result)

	if !skipStore {
		repo, err := repository.New(ctx, cfg.Store)
		if err != nil {
			return fmt.Errorf("failed to open prediction store: %w", err)
		}
		defer repo.Close()
		if err := repo.SaveBatch(ctx, result.Predictions); err != nil {
			return fmt.Errorf("failed to store predictions: %w", err)
		}
		log.WithField("records", len(result.Predictions)).Info("Stored predictions")
	}

	metrics.LastRunTimestamp.WithLabelValues("predict").Set(float64(time.Now().Unix()))
	logger.NewRunLogger(log, result.RunID).LogScoringRun(
		len(result.Predictions), len(result.Dropped), flagged(result), time.Since(start))
	return nil
}

func flagged(result *scoring.Result) int {
	n := 0
	for _, rec := range result.Predictions {
		if rec.Recommendation != models.RecommendNoBet {
			n++
		}
	}
	return n
}

// checkColumns verifies the estimator carries the same columns the schema
// declares; a mismatch means the two artifacts came from different trains.
func checkColumns(forest *model.Forest, schema *feature.Schema) error {
	cols := schema.Columns()
	if len(forest.Columns) != len(cols) {
		return fmt.Errorf("estimator has %d columns, schema has %d: %w",
			len(forest.Columns), len(cols), models.ErrSchemaMismatch)
	}
	for i, col := range cols {
		if forest.Columns[i] != col {
			return fmt.Errorf("column %d is %q in estimator but %q in schema: %w",
				i, forest.Columns[i], col, models.ErrSchemaMismatch)
		}
	}
	return nil
}

func playerKeys(history []models.GameRecord) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, g := range history {
		if _, ok := seen[g.Player]; !ok {
			seen[g.Player] = struct{}{}
			keys = append(keys, g.Player)
		}
	}
	return keys
}
