package models

import (
	"time"
)

// GameRecord is one pitcher appearance: raw counting stats for a single
// (player, date). Records are immutable once ingested and keyed by player and
// date; Seq preserves ingestion order as the tie-break for same-date rows.
type GameRecord struct {
	Player         string    // canonical lowercase "first last" key
	Date           time.Time // game date, no time component
	Team           string
	Opponent       string
	Home           bool
	Age            float64 // continuous years, e.g. "27-123" -> 27.337
	InningsPitched float64
	Walks          float64
	BattersFaced   float64
	Hits           float64
	EarnedRuns     float64
	HomeRuns       float64
	Strikeouts     float64
	Seq            int
}

// RateStats holds the per-game derived rate statistics. Every ratio with a
// zero denominator maps to the 0 sentinel so the estimator's input domain
// never sees Inf or NaN.
type RateStats struct {
	KPerIP float64
	KPerBF float64
	WHIP   float64
	KBB    float64
	ERAEst float64
}

// Rates derives the rate statistics for this record.
func (g GameRecord) Rates() RateStats {
	return RateStats{
		KPerIP: safeDiv(g.Strikeouts, g.InningsPitched),
		KPerBF: safeDiv(g.Strikeouts, g.BattersFaced),
		WHIP:   safeDiv(g.Walks+g.Hits, g.InningsPitched),
		KBB:    safeDiv(g.Strikeouts, g.Walks),
		ERAEst: safeDiv(g.EarnedRuns*9, g.InningsPitched),
	}
}

// HomeFlag returns the venue flag as a model input (1 home, 0 away).
func (g GameRecord) HomeFlag() float64 {
	if g.Home {
		return 1
	}
	return 0
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
