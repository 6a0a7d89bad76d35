// Package feature builds the leakage-free feature matrix shared by training
// and scoring. All temporal aggregation funnels through RollingWindows and
// LatestWindow so the two paths cannot silently diverge.
package feature

import (
	"fmt"
	"sort"

	"github.com/yourusername/strikeout-edge/internal/models"
)

// Statistic column names. These are the authoritative identifiers used in the
// persisted schema, so they must stay stable across retrains.
const (
	StatIP     = "IP"
	StatSO     = "SO"
	StatBB     = "BB"
	StatBF     = "BF"
	StatH      = "H"
	StatER     = "ER"
	StatHR     = "HR"
	StatAge    = "age_float"
	StatIsHome = "is_home"
	StatKPerIP = "K_per_IP"
	StatKPerBF = "K_per_BF"
	StatWHIP   = "WHIP"
	StatKBB    = "KBB"
	StatERAEst = "ERA_est"

	StatOppKRate  = "opp_K_rate"
	StatOBP       = "OBP"
	StatSLG       = "SLG"
	StatOPS       = "OPS"
	StatBA        = "BA"
	StatTeamKRate = "team_K_rate"
)

// RollingStats is the set of statistics aggregated over the trailing window.
func RollingStats() []string {
	return []string{StatIP, StatSO, StatBB, StatKPerIP, StatKPerBF, StatWHIP, StatKBB, StatERAEst}
}

// ScoringStats is the wider stat set rolled at scoring time: the trailing
// means stand in for the not-yet-played game's own counting stats.
func ScoringStats() []string {
	return []string{
		StatIP, StatSO, StatBB, StatBF, StatH, StatER, StatHR, StatAge,
		StatKPerIP, StatKPerBF, StatWHIP, StatKBB, StatERAEst,
	}
}

// StatValues expands a game record into the full per-game stat map, rates
// included. Zero-denominator ratios carry the 0 sentinel from models.RateStats.
func StatValues(g models.GameRecord) map[string]float64 {
	rates := g.Rates()
	return map[string]float64{
		StatIP:     g.InningsPitched,
		StatSO:     g.Strikeouts,
		StatBB:     g.Walks,
		StatBF:     g.BattersFaced,
		StatH:      g.Hits,
		StatER:     g.EarnedRuns,
		StatHR:     g.HomeRuns,
		StatAge:    g.Age,
		StatIsHome: g.HomeFlag(),
		StatKPerIP: rates.KPerIP,
		StatKPerBF: rates.KPerBF,
		StatWHIP:   rates.WHIP,
		StatKBB:    rates.KBB,
		StatERAEst: rates.ERAEst,
	}
}

// GroupByPlayer splits records per entity and sorts each group
// chronologically, same-date ties broken by ingestion order. The returned
// player keys are sorted so iteration order is deterministic.
func GroupByPlayer(games []models.GameRecord) (map[string][]models.GameRecord, []string) {
	grouped := make(map[string][]models.GameRecord)
	for _, g := range games {
		grouped[g.Player] = append(grouped[g.Player], g)
	}

	players := make([]string, 0, len(grouped))
	for player, rows := range grouped {
		sort.SliceStable(rows, func(i, j int) bool {
			if !rows[i].Date.Equal(rows[j].Date) {
				return rows[i].Date.Before(rows[j].Date)
			}
			return rows[i].Seq < rows[j].Seq
		})
		players = append(players, player)
	}
	sort.Strings(players)

	return grouped, players
}

// checkChronological enforces the hard precondition on windowing input.
func checkChronological(games []models.GameRecord) error {
	for i := 1; i < len(games); i++ {
		if games[i].Date.Before(games[i-1].Date) {
			return fmt.Errorf("records for %q are not in chronological order at index %d", games[i].Player, i)
		}
	}
	return nil
}
