package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRates(t *testing.T) {
	g := GameRecord{
		InningsPitched: 6,
		Walks:          2,
		BattersFaced:   24,
		Hits:           4,
		EarnedRuns:     3,
		Strikeouts:     9,
	}

	r := g.Rates()
	assert.InDelta(t, 1.5, r.KPerIP, 1e-9)
	assert.InDelta(t, 0.375, r.KPerBF, 1e-9)
	assert.InDelta(t, 1.0, r.WHIP, 1e-9)
	assert.InDelta(t, 4.5, r.KBB, 1e-9)
	assert.InDelta(t, 4.5, r.ERAEst, 1e-9)
}

func TestRatesZeroWalkSentinel(t *testing.T) {
	g := GameRecord{InningsPitched: 7, Walks: 0, Strikeouts: 10, BattersFaced: 25}

	r := g.Rates()
	// Zero walks must map to the 0 sentinel, never a division failure.
	assert.Equal(t, 0.0, r.KBB)
}

func TestRatesZeroInnings(t *testing.T) {
	g := GameRecord{InningsPitched: 0, Walks: 1, Hits: 2, EarnedRuns: 1, Strikeouts: 1}

	r := g.Rates()
	assert.Equal(t, 0.0, r.KPerIP)
	assert.Equal(t, 0.0, r.WHIP)
	assert.Equal(t, 0.0, r.ERAEst)
}

func TestHomeFlag(t *testing.T) {
	assert.Equal(t, 1.0, GameRecord{Home: true}.HomeFlag())
	assert.Equal(t, 0.0, GameRecord{Home: false}.HomeFlag())
}

func TestClassifyEdge(t *testing.T) {
	tests := []struct {
		name string
		edge float64
		want Recommendation
	}{
		{"clearly over", 1.2, RecommendOver},
		{"just over threshold", 0.751, RecommendOver},
		{"exactly at threshold", 0.75, RecommendNoBet},
		{"just under threshold", 0.749, RecommendNoBet},
		{"zero", 0, RecommendNoBet},
		{"exactly at negative threshold", -0.75, RecommendNoBet},
		{"just past negative threshold", -0.751, RecommendUnder},
		{"clearly under", -2, RecommendUnder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyEdge(tt.edge, 0.75))
		})
	}
}
