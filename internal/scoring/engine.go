// Package scoring rebuilds the training feature schema for currently open
// prop lines and turns estimator output into edge recommendations.
package scoring

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/strikeout-edge/internal/feature"
	"github.com/yourusername/strikeout-edge/internal/metrics"
	"github.com/yourusername/strikeout-edge/internal/model"
	"github.com/yourusername/strikeout-edge/internal/models"
	"github.com/yourusername/strikeout-edge/internal/namematch"
)

// propState tracks a prop line through the scoring pipeline.
type propState int

const (
	stateRaw propState = iota
	stateNameResolved
	stateFeatureAttached
	stateSchemaAligned
	stateScored
)

// Drop reasons surfaced in the result and on the props_dropped_total counter.
const (
	DropUnmatchedName    = "unmatched_name"
	DropNoHistoricalData = "no_historical_data"
)

// DroppedProp records a prop line that never reached scoring.
type DroppedProp struct {
	Prop   models.PropLine
	Reason string
}

// Result is the outcome of one scoring run. Predictions and Dropped together
// account for every input prop line; a thinner prediction table always
// arrives with its drop count.
type Result struct {
	RunID       uuid.UUID
	Predictions []models.PredictionRecord
	Dropped     []DroppedProp
}

// Engine scores prop lines against the persisted estimator and schema.
type Engine struct {
	resolver      namematch.Resolver
	estimator     model.Estimator
	schema        *feature.Schema
	window        int
	edgeThreshold float64
	log           *logrus.Logger
}

// NewEngine creates a scoring engine. The schema must be the one persisted
// at training time; the engine reproduces its column set and order exactly.
func NewEngine(
	resolver namematch.Resolver,
	estimator model.Estimator,
	schema *feature.Schema,
	window int,
	edgeThreshold float64,
	log *logrus.Logger,
) *Engine {
	return &Engine{
		resolver:      resolver,
		estimator:     estimator,
		schema:        schema,
		window:        window,
		edgeThreshold: edgeThreshold,
		log:           log,
	}
}

type scoringRow struct {
	prop     models.PropLine
	player   string
	features []float64
	state    propState
}

// Score runs the per-prop state machine: Raw -> NameResolved ->
// FeatureAttached -> SchemaAligned -> Scored -> Classified, or Dropped. It
// fails with models.ErrNoPredictableRows when nothing survives matching: an
// empty prediction table downstream would be indistinguishable from success.
func (e *Engine) Score(props []models.PropLine, history []models.GameRecord) (*Result, error) {
	result := &Result{RunID: uuid.New()}
	grouped, _ := feature.GroupByPlayer(history)

	// Missing schema columns are logged once per column per run, not per row.
	loggedFallbacks := make(map[string]struct{})

	var rows []scoringRow
	for _, prop := range props {
		row := scoringRow{prop: prop, state: stateRaw}

		canonical, ok := e.resolver.Resolve(prop.Player)
		if !ok {
			metrics.NamesUnmatchedTotal.Inc()
			metrics.PropsDroppedTotal.WithLabelValues(DropUnmatchedName).Inc()
			result.Dropped = append(result.Dropped, DroppedProp{Prop: prop, Reason: DropUnmatchedName})
			continue
		}
		row.player = canonical
		row.state = stateNameResolved

		games := grouped[canonical]
		if len(games) == 0 {
			metrics.PropsDroppedTotal.WithLabelValues(DropNoHistoricalData).Inc()
			result.Dropped = append(result.Dropped, DroppedProp{Prop: prop, Reason: DropNoHistoricalData})
			e.log.WithField("player", canonical).Warn("Resolved name has no historical data")
			continue
		}

		named, err := e.attachFeatures(games)
		if err != nil {
			return nil, err
		}
		row.state = stateFeatureAttached

		vec, missing := e.schema.Vector(named)
		for _, col := range missing {
			metrics.SchemaFallbacksTotal.WithLabelValues(col).Inc()
			if _, done := loggedFallbacks[col]; !done {
				loggedFallbacks[col] = struct{}{}
				e.log.WithField("column", col).Warn("Schema column missing at scoring time, synthesized neutral 0")
			}
		}
		row.features = vec
		row.state = stateSchemaAligned

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%d prop lines in, %d dropped: %w",
			len(props), len(result.Dropped), models.ErrNoPredictableRows)
	}

	matrix := make([][]float64, len(rows))
	for i, row := range rows {
		matrix[i] = row.features
	}
	predictions := e.estimator.Predict(matrix)

	now := time.Now().UTC()
	for i, row := range rows {
		rows[i].state = stateScored
		pred := predictions[i]
		edge := pred - row.prop.Line

		metrics.PredictionsScoredTotal.Inc()
		metrics.PredictionEdge.Observe(edge)

		result.Predictions = append(result.Predictions, models.PredictionRecord{
			ID:             uuid.New(),
			RunID:          result.RunID,
			GameDate:       row.prop.GameDate,
			Player:         row.player,
			Line:           row.prop.Line,
			Odds:           row.prop.Odds,
			PredictedSO:    pred,
			Edge:           edge,
			Recommendation: models.ClassifyEdge(edge, e.edgeThreshold),
			CreatedAt:      now,
		})
	}

	e.log.WithFields(logrus.Fields{
		"run_id":  result.RunID,
		"scored":  len(result.Predictions),
		"dropped": len(result.Dropped),
	}).Info("Scoring run complete")

	return result, nil
}

// attachFeatures builds the named feature row for one pitcher's upcoming
// start from the trailing window over their most recent games.
func (e *Engine) attachFeatures(games []models.GameRecord) (map[string]float64, error) {
	roll, err := feature.LatestWindow(games, e.window, feature.ScoringStats())
	if err != nil {
		return nil, fmt.Errorf("failed to compute latest window: %w", err)
	}

	row := make(map[string]float64, e.schema.Len())
	prefix := feature.RollingPrefix(e.window)

	// Trailing means fill both the r-prefixed columns and, by explicit
	// mapping, the base columns the model learned from the played game's own
	// stats. The upcoming game has no stats of its own yet.
	for stat, val := range roll {
		row[prefix+stat] = val
		row[stat] = val
	}

	// Venue for the upcoming start is not in the props feed; assume home.
	row[feature.StatIsHome] = 1

	// The upcoming opponent's same-day context is not observable, so the
	// league-average defaults stand in.
	for col, val := range feature.OpponentDefaults() {
		row[col] = val
	}

	// Never-seen pitchers (empty trailing window) get the league-median line.
	for col, val := range feature.NeverSeenDefaults() {
		if _, ok := row[col]; !ok {
			row[col] = val
		}
	}

	return row, nil
}
