package feature

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/strikeout-edge/internal/models"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func fullGame(player string, n int, so float64) models.GameRecord {
	return models.GameRecord{
		Player:         player,
		Date:           day(n),
		Team:           "NYY",
		Opponent:       "BOS",
		Home:           true,
		Age:            28.5,
		InningsPitched: 6,
		Walks:          2,
		BattersFaced:   24,
		Hits:           4,
		EarnedRuns:     3,
		HomeRuns:       1,
		Strikeouts:     so,
		Seq:            n,
	}
}

func contextFor(days ...int) ([]models.OpponentBattingLine, []models.TeamPitchingLine) {
	var batting []models.OpponentBattingLine
	var pitching []models.TeamPitchingLine
	for _, n := range days {
		batting = append(batting, models.OpponentBattingLine{
			Date: day(n), Team: "BOS",
			PlateAppearances: 40, Strikeouts: 10,
			OBP: 0.320, SLG: 0.415, OPS: 0.735, BA: 0.252,
		})
		pitching = append(pitching, models.TeamPitchingLine{
			Date: day(n), Team: "NYY",
			BattersFaced: 38, Strikeouts: 9,
		})
	}
	return batting, pitching
}

func TestAssembleProducesDenseRows(t *testing.T) {
	schema := NewSchema(3)
	asm := NewAssembler(schema, 3, 1.0, quietLog())

	games := []models.GameRecord{
		fullGame("gerrit cole", 1, 4),
		fullGame("gerrit cole", 2, 6),
		fullGame("gerrit cole", 3, 8),
	}
	batting, pitching := contextFor(1, 2, 3)

	set, err := asm.Assemble(games, batting, pitching)
	require.NoError(t, err)

	// The first appearance has no trailing history and is dropped.
	require.Len(t, set.Rows, 2)
	assert.Equal(t, 1, set.Dropped.EmptyWindow)
	assert.Equal(t, 0, set.Dropped.ShortOutings)
	assert.Equal(t, 0, set.Dropped.MissingOpponent)

	row := set.Rows[1]
	assert.Equal(t, "gerrit cole", row.Player)
	assert.Equal(t, day(3), row.Date)
	assert.Equal(t, 8.0, row.Target)
	require.Len(t, row.Features, schema.Len())

	byCol := make(map[string]float64, schema.Len())
	for i, col := range schema.Columns() {
		byCol[col] = row.Features[i]
	}
	// Trailing window over the two prior games only.
	assert.Equal(t, 5.0, byCol["r3_SO"])
	assert.Equal(t, 6.0, byCol["r3_IP"])
	// Opponent and own-team context joined by (date, team).
	assert.Equal(t, 0.25, byCol["opp_K_rate"])
	assert.Equal(t, 0.320, byCol["OBP"])
	assert.InDelta(t, 9.0/38.0, byCol["team_K_rate"], 1e-12)
	assert.Equal(t, 1.0, byCol["is_home"])
}

func TestAssembleDropsShortOutings(t *testing.T) {
	schema := NewSchema(3)
	asm := NewAssembler(schema, 3, 1.0, quietLog())

	short := fullGame("gerrit cole", 1, 2)
	short.InningsPitched = 0.2

	games := []models.GameRecord{short, fullGame("gerrit cole", 2, 6), fullGame("gerrit cole", 3, 8)}
	batting, pitching := contextFor(1, 2, 3)

	set, err := asm.Assemble(games, batting, pitching)
	require.NoError(t, err)

	// The short outing never enters anyone's window either.
	require.Len(t, set.Rows, 1)
	assert.Equal(t, 1, set.Dropped.ShortOutings)
	assert.Equal(t, 1, set.Dropped.EmptyWindow)

	byCol := make(map[string]float64, schema.Len())
	for i, col := range schema.Columns() {
		byCol[col] = set.Rows[0].Features[i]
	}
	assert.Equal(t, 6.0, byCol["r3_SO"])
}

func TestAssembleDropsRowsWithoutOpponentContext(t *testing.T) {
	schema := NewSchema(3)
	asm := NewAssembler(schema, 3, 1.0, quietLog())

	games := []models.GameRecord{fullGame("gerrit cole", 1, 4), fullGame("gerrit cole", 2, 6)}
	// Context only for day 1, so the only windowed row (day 2) is incomplete.
	batting, pitching := contextFor(1)

	set, err := asm.Assemble(games, batting, pitching)
	require.NoError(t, err)
	assert.Empty(t, set.Rows)
	assert.Equal(t, 1, set.Dropped.MissingOpponent)
	assert.Equal(t, 2, set.Dropped.Total())
}

func TestAssembleIsDeterministic(t *testing.T) {
	schema := NewSchema(3)
	asm := NewAssembler(schema, 3, 1.0, quietLog())

	games := []models.GameRecord{
		fullGame("b pitcher", 1, 3),
		fullGame("a pitcher", 1, 5),
		fullGame("b pitcher", 2, 7),
		fullGame("a pitcher", 2, 9),
	}
	batting, pitching := contextFor(1, 2)

	first, err := asm.Assemble(games, batting, pitching)
	require.NoError(t, err)
	second, err := asm.Assemble(games, batting, pitching)
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Dropped, second.Dropped)

	// Player iteration order is sorted, not map order.
	require.Len(t, first.Rows, 2)
	assert.Equal(t, "a pitcher", first.Rows[0].Player)
	assert.Equal(t, "b pitcher", first.Rows[1].Player)
}
