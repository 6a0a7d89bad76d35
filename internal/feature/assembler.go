package feature

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/strikeout-edge/internal/models"
)

// TrainingRow is one dense feature row with its observed strikeout target.
type TrainingRow struct {
	Player   string
	Date     time.Time
	Team     string
	Opponent string
	Features []float64 // schema order
	Target   float64
}

// DropCounts records why training rows were excluded. The counts are part of
// the run's output: a shrunken training set must never pass silently.
type DropCounts struct {
	ShortOutings    int // innings pitched below the eligibility minimum
	EmptyWindow     int // entity's first appearance, no trailing history
	MissingOpponent int // no opponent batting or team pitching context for the date
}

// Total returns the number of dropped rows.
func (d DropCounts) Total() int {
	return d.ShortOutings + d.EmptyWindow + d.MissingOpponent
}

// TrainingSet is the assembled feature matrix.
type TrainingSet struct {
	Schema  *Schema
	Rows    []TrainingRow
	Dropped DropCounts
}

// Assembler joins pitcher game records with their rolling features and
// opponent context into schema-ordered training rows.
type Assembler struct {
	schema     *Schema
	window     int
	minInnings float64
	log        *logrus.Logger
}

// NewAssembler creates an assembler for the given schema and window size.
func NewAssembler(schema *Schema, window int, minInnings float64, log *logrus.Logger) *Assembler {
	return &Assembler{schema: schema, window: window, minInnings: minInnings, log: log}
}

// Assemble produces one feature row per eligible (player, date). Rows lacking
// any schema column are dropped and counted, never zero-filled: at training
// time a missing value means the row cannot teach the model anything honest.
// Output order is deterministic (player, then date, then ingestion order), so
// assembling identical input twice yields identical rows.
func (a *Assembler) Assemble(
	games []models.GameRecord,
	batting []models.OpponentBattingLine,
	teamPitch []models.TeamPitchingLine,
) (*TrainingSet, error) {
	battingByKey := make(map[string]models.OpponentBattingLine, len(batting))
	for _, b := range batting {
		battingByKey[joinKey(b.Date, b.Team)] = b
	}
	pitchByKey := make(map[string]models.TeamPitchingLine, len(teamPitch))
	for _, p := range teamPitch {
		pitchByKey[joinKey(p.Date, p.Team)] = p
	}

	set := &TrainingSet{Schema: a.schema}

	eligible := make([]models.GameRecord, 0, len(games))
	for _, g := range games {
		if g.InningsPitched < a.minInnings {
			set.Dropped.ShortOutings++
			continue
		}
		eligible = append(eligible, g)
	}

	grouped, players := GroupByPlayer(eligible)
	prefix := RollingPrefix(a.window)

	for _, player := range players {
		rows := grouped[player]
		windows, err := RollingWindows(rows, a.window, RollingStats())
		if err != nil {
			return nil, fmt.Errorf("failed to compute rolling windows for %q: %w", player, err)
		}

		for i, g := range rows {
			if len(windows[i]) == 0 {
				set.Dropped.EmptyWindow++
				continue
			}

			row := StatValues(g)
			for stat, val := range windows[i] {
				row[prefix+stat] = val
			}

			if b, ok := battingByKey[joinKey(g.Date, g.Opponent)]; ok {
				row[StatOppKRate] = b.KRate()
				row[StatOBP] = b.OBP
				row[StatSLG] = b.SLG
				row[StatOPS] = b.OPS
				row[StatBA] = b.BA
			}
			if p, ok := pitchByKey[joinKey(g.Date, g.Team)]; ok {
				row[StatTeamKRate] = p.KRate()
			}

			if !a.schema.Complete(row) {
				set.Dropped.MissingOpponent++
				continue
			}

			vec, _ := a.schema.Vector(row)
			set.Rows = append(set.Rows, TrainingRow{
				Player:   g.Player,
				Date:     g.Date,
				Team:     g.Team,
				Opponent: g.Opponent,
				Features: vec,
				Target:   g.Strikeouts,
			})
		}
	}

	a.log.WithFields(logrus.Fields{
		"rows":             len(set.Rows),
		"short_outings":    set.Dropped.ShortOutings,
		"empty_window":     set.Dropped.EmptyWindow,
		"missing_opponent": set.Dropped.MissingOpponent,
	}).Info("Assembled training set")

	return set, nil
}

func joinKey(date time.Time, team string) string {
	return date.Format("2006-01-02") + "|" + team
}
