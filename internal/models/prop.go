package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recommendation is the three-way betting call derived from an edge.
type Recommendation string

// Recommendation values
const (
	RecommendOver  Recommendation = "over"
	RecommendUnder Recommendation = "under"
	RecommendNoBet Recommendation = "no_bet"
)

// PropLine is one sportsbook strikeout line for an upcoming start. The raw
// player name comes from the odds source and must be resolved against the
// historical game log before features can be attached.
type PropLine struct {
	Player       string // normalized "first last" key from the props source
	Market       string
	Line         float64
	Odds         decimal.Decimal // American odds as posted
	CommenceTime time.Time
	GameDate     time.Time
}

// PredictionRecord is one scored PropLine.
type PredictionRecord struct {
	ID             uuid.UUID
	RunID          uuid.UUID
	GameDate       time.Time
	Player         string
	Line           float64
	Odds           decimal.Decimal
	PredictedSO    float64
	Edge           float64
	Recommendation Recommendation
	CreatedAt      time.Time
}

// ClassifyEdge maps a signed edge to a recommendation. The threshold is
// strict: an edge exactly at the boundary is a no-bet.
func ClassifyEdge(edge, threshold float64) Recommendation {
	switch {
	case edge > threshold:
		return RecommendOver
	case edge < -threshold:
		return RecommendUnder
	default:
		return RecommendNoBet
	}
}
