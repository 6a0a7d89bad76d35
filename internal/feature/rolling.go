package feature

import (
	"github.com/yourusername/strikeout-edge/internal/models"
)

// RollingWindows computes, for every record of a single entity, the mean of
// each statistic over at most n strictly-earlier records. The input must be
// that entity's records in chronological order (ties already broken by
// ingestion order). The current record never contributes to its own window;
// a record with no prior history gets an empty map.
//
// Both the trainer's data-preparation path and the scoring engine call this
// same function, which is what keeps the two feature paths identical.
func RollingWindows(games []models.GameRecord, n int, stats []string) ([]map[string]float64, error) {
	if err := checkChronological(games); err != nil {
		return nil, err
	}

	values := make([]map[string]float64, len(games))
	for i, g := range games {
		values[i] = StatValues(g)
	}

	out := make([]map[string]float64, len(games))
	for i := range games {
		lo := i - n
		if lo < 0 {
			lo = 0
		}
		out[i] = windowMean(values[lo:i], stats)
	}

	return out, nil
}

// LatestWindow computes the trailing window ending at the entity's most
// recent historical game, inclusive. This is the inference-time window: the
// upcoming game has no stats of its own, so the newest n completed games are
// the freshest leak-free history available.
func LatestWindow(games []models.GameRecord, n int, stats []string) (map[string]float64, error) {
	if err := checkChronological(games); err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return map[string]float64{}, nil
	}

	lo := len(games) - n
	if lo < 0 {
		lo = 0
	}
	values := make([]map[string]float64, 0, len(games)-lo)
	for _, g := range games[lo:] {
		values = append(values, StatValues(g))
	}

	return windowMean(values, stats), nil
}

// windowMean averages each named statistic over the given rows. With zero
// rows every statistic is absent from the result, never zero-filled: the
// caller decides between skipping the row (training) and fallbacks (scoring).
func windowMean(rows []map[string]float64, stats []string) map[string]float64 {
	out := make(map[string]float64, len(stats))
	if len(rows) == 0 {
		return out
	}
	for _, stat := range stats {
		sum := 0.0
		for _, row := range rows {
			sum += row[stat]
		}
		out[stat] = sum / float64(len(rows))
	}
	return out
}
