package feature

// Scoring-time fallback policy, expressed as explicit column-to-default maps
// rather than inline conditionals. Two distinct tables: opponent context
// defaults stand in for a not-yet-observable lineup, while the never-seen
// table stands in for a pitcher with no usable trailing history.

// OpponentDefaults returns league-average opponent context used when no
// specific (date, team) match exists at scoring time.
func OpponentDefaults() map[string]float64 {
	return map[string]float64{
		StatOppKRate:  0.215,
		StatOBP:       0.312,
		StatSLG:       0.410,
		StatOPS:       0.722,
		StatBA:        0.248,
		StatTeamKRate: 0.220,
	}
}

// NeverSeenDefaults returns the per-stat line assumed for a pitcher whose
// trailing window is empty: roughly a league-median starter.
func NeverSeenDefaults() map[string]float64 {
	return map[string]float64{
		StatIP:     5.2,
		StatBB:     1.8,
		StatBF:     23,
		StatH:      4.5,
		StatER:     2.1,
		StatHR:     0.8,
		StatKPerIP: 1.0,
		StatKPerBF: 0.22,
		StatAge:    28.5,
	}
}
