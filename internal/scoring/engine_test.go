package scoring

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/strikeout-edge/internal/feature"
	"github.com/yourusername/strikeout-edge/internal/models"
	"github.com/yourusername/strikeout-edge/internal/namematch"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// columnEstimator predicts the value of a single feature column. It stands in
// for the trained ensemble so the tests pin down the feature plumbing exactly.
type columnEstimator struct {
	idx int
}

func (c columnEstimator) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = row[c.idx]
	}
	return out
}

func columnIndex(t *testing.T, schema *feature.Schema, name string) int {
	t.Helper()
	for i, col := range schema.Columns() {
		if col == name {
			return i
		}
	}
	t.Fatalf("column %q not in schema", name)
	return -1
}

func resolverFor(names ...string) *namematch.FuzzyResolver {
	return namematch.NewFuzzyResolver(names, 0.82, time.Minute, quietLog())
}

func historyFor(player string, strikeouts ...float64) []models.GameRecord {
	games := make([]models.GameRecord, len(strikeouts))
	for i, so := range strikeouts {
		games[i] = models.GameRecord{
			Player:         player,
			Date:           time.Date(2024, 6, i+1, 0, 0, 0, 0, time.UTC),
			Team:           "NYY",
			Opponent:       "BOS",
			Age:            28.5,
			InningsPitched: 6,
			Walks:          2,
			BattersFaced:   24,
			Hits:           4,
			EarnedRuns:     3,
			Strikeouts:     so,
			Seq:            i,
		}
	}
	return games
}

func propFor(player string, line float64) models.PropLine {
	return models.PropLine{
		Player:   player,
		Market:   "pitcher_strikeouts",
		Line:     line,
		Odds:     decimal.NewFromInt(-110),
		GameDate: time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestScoreTrailingWindowEndToEnd(t *testing.T) {
	schema := feature.NewSchema(3)
	est := columnEstimator{idx: columnIndex(t, schema, "r3_SO")}
	engine := NewEngine(resolverFor("j doe"), est, schema, 3, 0.75, quietLog())

	history := historyFor("j doe", 4, 6, 8)
	props := []models.PropLine{propFor("J. Doe", 6.5)}

	result, err := engine.Score(props, history)
	require.NoError(t, err)
	require.Len(t, result.Predictions, 1)
	assert.Empty(t, result.Dropped)

	pred := result.Predictions[0]
	assert.Equal(t, "j doe", pred.Player)
	// Trailing 3-game mean includes the most recent start: (4+6+8)/3.
	assert.InDelta(t, 6.0, pred.PredictedSO, 1e-9)
	assert.InDelta(t, -0.5, pred.Edge, 1e-9)
	assert.Equal(t, models.RecommendNoBet, pred.Recommendation)
	assert.Equal(t, result.RunID, pred.RunID)
	assert.NotEqual(t, pred.RunID, pred.ID)
}

func TestScoreFlagsOverEdge(t *testing.T) {
	schema := feature.NewSchema(3)
	est := columnEstimator{idx: columnIndex(t, schema, "r3_SO")}
	engine := NewEngine(resolverFor("j doe"), est, schema, 3, 0.75, quietLog())

	result, err := engine.Score(
		[]models.PropLine{propFor("j doe", 5.0)},
		historyFor("j doe", 4, 6, 8),
	)
	require.NoError(t, err)
	require.Len(t, result.Predictions, 1)
	assert.InDelta(t, 1.0, result.Predictions[0].Edge, 1e-9)
	assert.Equal(t, models.RecommendOver, result.Predictions[0].Recommendation)
}

func TestScoreShortHistoryWindow(t *testing.T) {
	schema := feature.NewSchema(3)
	est := columnEstimator{idx: columnIndex(t, schema, "r3_SO")}
	engine := NewEngine(resolverFor("j doe"), est, schema, 3, 0.75, quietLog())

	// A single completed start: the window is just that game.
	result, err := engine.Score(
		[]models.PropLine{propFor("j doe", 6.5)},
		historyFor("j doe", 9),
	)
	require.NoError(t, err)
	require.Len(t, result.Predictions, 1)
	assert.InDelta(t, 9.0, result.Predictions[0].PredictedSO, 1e-9)
}

func TestScoreOpponentDefaultsApplied(t *testing.T) {
	schema := feature.NewSchema(3)
	est := columnEstimator{idx: columnIndex(t, schema, "opp_K_rate")}
	engine := NewEngine(resolverFor("j doe"), est, schema, 3, 0.75, quietLog())

	result, err := engine.Score(
		[]models.PropLine{propFor("j doe", 0)},
		historyFor("j doe", 4, 6, 8),
	)
	require.NoError(t, err)
	require.Len(t, result.Predictions, 1)
	assert.InDelta(t, 0.215, result.Predictions[0].PredictedSO, 1e-9)
}

func TestScoreDropsUnmatchedName(t *testing.T) {
	schema := feature.NewSchema(3)
	est := columnEstimator{idx: 0}
	engine := NewEngine(resolverFor("j doe"), est, schema, 3, 0.75, quietLog())

	result, err := engine.Score(
		[]models.PropLine{propFor("completely different person", 6.5), propFor("j doe", 6.5)},
		historyFor("j doe", 4, 6, 8),
	)
	require.NoError(t, err)
	assert.Len(t, result.Predictions, 1)
	require.Len(t, result.Dropped, 1)
	assert.Equal(t, DropUnmatchedName, result.Dropped[0].Reason)
	assert.Equal(t, "completely different person", result.Dropped[0].Prop.Player)
}

func TestScoreDropsResolvedNameWithoutHistory(t *testing.T) {
	schema := feature.NewSchema(3)
	est := columnEstimator{idx: 0}
	// Resolver knows both names but only one has game records.
	engine := NewEngine(resolverFor("j doe", "g cole"), est, schema, 3, 0.75, quietLog())

	result, err := engine.Score(
		[]models.PropLine{propFor("g cole", 6.5), propFor("j doe", 6.5)},
		historyFor("j doe", 4, 6, 8),
	)
	require.NoError(t, err)
	assert.Len(t, result.Predictions, 1)
	require.Len(t, result.Dropped, 1)
	assert.Equal(t, DropNoHistoricalData, result.Dropped[0].Reason)
}

func TestScoreFailsWhenNothingSurvives(t *testing.T) {
	schema := feature.NewSchema(3)
	est := columnEstimator{idx: 0}
	engine := NewEngine(resolverFor("j doe"), est, schema, 3, 0.75, quietLog())

	_, err := engine.Score(
		[]models.PropLine{propFor("completely different person", 6.5)},
		historyFor("j doe", 4, 6, 8),
	)
	assert.True(t, errors.Is(err, models.ErrNoPredictableRows))
}

func TestScoreSynthesizesUnknownSchemaColumns(t *testing.T) {
	// A schema carrying a column scoring can never produce must not fail the
	// row; the value is synthesized as 0.
	cols := append(feature.NewSchema(3).Columns(), "park_factor")
	schema := feature.SchemaFromColumns(cols)
	est := columnEstimator{idx: columnIndex(t, schema, "park_factor")}
	engine := NewEngine(resolverFor("j doe"), est, schema, 3, 0.75, quietLog())

	result, err := engine.Score(
		[]models.PropLine{propFor("j doe", 2.0)},
		historyFor("j doe", 4, 6, 8),
	)
	require.NoError(t, err)
	require.Len(t, result.Predictions, 1)
	assert.Equal(t, 0.0, result.Predictions[0].PredictedSO)
	assert.Equal(t, models.RecommendUnder, result.Predictions[0].Recommendation)
}
