package models

import "time"

// OpponentBattingLine is one team's offensive line for a single game date,
// keyed by (date, batting team). It carries the plate-discipline context
// joined onto the opposing pitcher's row.
type OpponentBattingLine struct {
	Date             time.Time
	Team             string
	PlateAppearances float64
	Strikeouts       float64
	OBP              float64
	SLG              float64
	OPS              float64
	BA               float64
}

// KRate returns the lineup strikeout rate (SO per plate appearance).
func (b OpponentBattingLine) KRate() float64 {
	return safeDiv(b.Strikeouts, b.PlateAppearances)
}

// TeamPitchingLine is one team's aggregate pitching line for a single game
// date, keyed by (date, team).
type TeamPitchingLine struct {
	Date         time.Time
	Team         string
	BattersFaced float64
	Strikeouts   float64
}

// KRate returns the staff strikeout rate (SO per batter faced).
func (p TeamPitchingLine) KRate() float64 {
	return safeDiv(p.Strikeouts, p.BattersFaced)
}
