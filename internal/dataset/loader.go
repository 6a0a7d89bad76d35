// Package dataset reads the scraped CSV tables the pipeline consumes. The
// scrapers are external collaborators; this package only parses their output
// and enforces the malformed-row policy: a bad date or non-numeric stat
// excludes the row (coercion to missing, never to zero), and a run aborts
// when the malformed fraction crosses the configured threshold.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/strikeout-edge/internal/models"
	"github.com/yourusername/strikeout-edge/internal/namematch"
)

var (
	dateRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	ageRe  = regexp.MustCompile(`(\d+)-(\d+)`)
)

// ParseReport counts how a table parsed. Consumers surface these numbers:
// silently thinner input is indistinguishable from a quiet data outage.
type ParseReport struct {
	Parsed    int
	Malformed int
	Filtered  int // well-formed rows excluded by a documented filter
}

// Loader parses the input tables.
type Loader struct {
	log                  *logrus.Logger
	maxMalformedFraction float64
}

// NewLoader creates a loader with the configured malformed-row tolerance.
func NewLoader(maxMalformedFraction float64, log *logrus.Logger) *Loader {
	return &Loader{log: log, maxMalformedFraction: maxMalformedFraction}
}

// LoadPitcherGames reads the historical pitcher-game table. Player names are
// canonicalized at ingest so every downstream key is already comparable.
func (l *Loader) LoadPitcherGames(path string) ([]models.GameRecord, ParseReport, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, ParseReport{}, err
	}

	idx := headerIndex(header)
	venueCol := venueColumn(header)

	var report ParseReport
	var games []models.GameRecord
	for _, row := range rows {
		date, ok := parseDate(field(row, idx, "Date"))
		if !ok {
			report.Malformed++
			continue
		}
		age, ok := parseAge(field(row, idx, "Age"))
		if !ok {
			report.Malformed++
			continue
		}

		stats, ok := parseFloats(row, idx, "IP", "BB", "BF", "H", "ER", "HR", "SO")
		if !ok {
			report.Malformed++
			continue
		}

		name := namematch.Normalize(field(row, idx, "Player"))
		if name == "" {
			report.Malformed++
			continue
		}

		home := true
		if venueCol >= 0 && venueCol < len(row) && strings.TrimSpace(row[venueCol]) == "@" {
			home = false
		}

		games = append(games, models.GameRecord{
			Player:         name,
			Date:           date,
			Team:           strings.TrimSpace(field(row, idx, "Team")),
			Opponent:       strings.TrimSpace(field(row, idx, "Opp")),
			Home:           home,
			Age:            age,
			InningsPitched: stats["IP"],
			Walks:          stats["BB"],
			BattersFaced:   stats["BF"],
			Hits:           stats["H"],
			EarnedRuns:     stats["ER"],
			HomeRuns:       stats["HR"],
			Strikeouts:     stats["SO"],
			Seq:            report.Parsed,
		})
		report.Parsed++
	}

	return games, report, l.check(path, report)
}

// LoadOpponentBatting reads the per-(date, team) offensive table.
func (l *Loader) LoadOpponentBatting(path string) ([]models.OpponentBattingLine, ParseReport, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, ParseReport{}, err
	}
	idx := headerIndex(header)

	var report ParseReport
	var lines []models.OpponentBattingLine
	for _, row := range rows {
		date, ok := parseDate(field(row, idx, "Date"))
		if !ok {
			report.Malformed++
			continue
		}
		stats, ok := parseFloats(row, idx, "PA", "SO", "OBP", "SLG", "OPS", "BA")
		if !ok {
			report.Malformed++
			continue
		}

		lines = append(lines, models.OpponentBattingLine{
			Date:             date,
			Team:             strings.TrimSpace(field(row, idx, "Team")),
			PlateAppearances: stats["PA"],
			Strikeouts:       stats["SO"],
			OBP:              stats["OBP"],
			SLG:              stats["SLG"],
			OPS:              stats["OPS"],
			BA:               stats["BA"],
		})
		report.Parsed++
	}

	return lines, report, l.check(path, report)
}

// LoadTeamPitching reads the per-(date, team) staff pitching table. The
// scraped table carries two SO columns (batting side, pitching side); the
// pitching one arrives as "SO.1".
func (l *Loader) LoadTeamPitching(path string) ([]models.TeamPitchingLine, ParseReport, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, ParseReport{}, err
	}
	idx := headerIndex(header)
	soCol := pitchingSOColumn(header, idx)

	var report ParseReport
	var lines []models.TeamPitchingLine
	for _, row := range rows {
		date, ok := parseDate(field(row, idx, "Date"))
		if !ok {
			report.Malformed++
			continue
		}
		bf, okBF := parseFloat(field(row, idx, "BF"))
		so, okSO := parseFloat(at(row, soCol))
		if !okBF || !okSO {
			report.Malformed++
			continue
		}

		lines = append(lines, models.TeamPitchingLine{
			Date:         date,
			Team:         strings.TrimSpace(field(row, idx, "Team")),
			BattersFaced: bf,
			Strikeouts:   so,
		})
		report.Parsed++
	}

	return lines, report, l.check(path, report)
}

// LoadProps reads the current odds snapshot, filtered to pitcher strikeout
// markets with Over/Under outcomes, one line per pitcher (first seen).
func (l *Loader) LoadProps(path string) ([]models.PropLine, ParseReport, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, ParseReport{}, err
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	idx := headerIndex(header)

	var report ParseReport
	seen := make(map[string]struct{})
	var props []models.PropLine
	for _, row := range rows {
		market := strings.ToLower(field(row, idx, "market"))
		outcome := strings.TrimSpace(field(row, idx, "raw_name"))
		if !strings.Contains(market, "pitcher_strikeout") || (outcome != "Over" && outcome != "Under") {
			report.Filtered++
			continue
		}

		name := namematch.Normalize(field(row, idx, "description"))
		line, okLine := parseFloat(field(row, idx, "line"))
		odds, errOdds := decimal.NewFromString(strings.TrimSpace(field(row, idx, "odds")))
		commence, okTime := parseTimestamp(field(row, idx, "commence_time"))
		if name == "" || !okLine || errOdds != nil || !okTime {
			report.Malformed++
			continue
		}

		if _, dup := seen[name]; dup {
			report.Filtered++
			continue
		}
		seen[name] = struct{}{}

		props = append(props, models.PropLine{
			Player:       name,
			Market:       market,
			Line:         line,
			Odds:         odds,
			CommenceTime: commence,
			GameDate:     commence.Truncate(24 * time.Hour),
		})
		report.Parsed++
	}

	return props, report, l.check(path, report)
}

// check enforces the malformed-rate threshold for one table.
func (l *Loader) check(path string, report ParseReport) error {
	total := report.Parsed + report.Malformed
	if total == 0 {
		return nil
	}
	frac := float64(report.Malformed) / float64(total)
	if frac > l.maxMalformedFraction {
		return fmt.Errorf("%s: %.0f%% of rows malformed: %w", path, frac*100, models.ErrMalformedInput)
	}
	if report.Malformed > 0 {
		l.log.WithFields(logrus.Fields{
			"path":      path,
			"malformed": report.Malformed,
			"parsed":    report.Parsed,
		}).Warn("Excluded malformed rows")
	}
	return nil
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s has no header row", path)
	}
	return records[0], records[1:], nil
}

// headerIndex maps each header name to its first occurrence.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	return idx
}

// venueColumn locates the home/away marker column, which the scrape leaves
// unnamed ("@" for away, blank for home).
func venueColumn(header []string) int {
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" || strings.HasPrefix(h, "Unnamed") {
			return i
		}
	}
	return -1
}

// pitchingSOColumn picks the team-pitching strikeout column: "SO.1" when the
// export kept the disambiguating suffix, otherwise the second SO column.
func pitchingSOColumn(header []string, idx map[string]int) int {
	if i, ok := idx["SO.1"]; ok {
		return i
	}
	first := -1
	for i, h := range header {
		if strings.TrimSpace(h) == "SO" {
			if first >= 0 {
				return i
			}
			first = i
		}
	}
	return first
}

func field(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok {
		return ""
	}
	return at(row, i)
}

func at(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseFloats(row []string, idx map[string]int, names ...string) (map[string]float64, bool) {
	out := make(map[string]float64, len(names))
	for _, name := range names {
		v, ok := parseFloat(field(row, idx, name))
		if !ok {
			return nil, false
		}
		out[name] = v
	}
	return out, true
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseDate extracts a YYYY-MM-DD date from a possibly decorated value,
// e.g. "2024-06-11 (1)" for the first game of a doubleheader.
func parseDate(s string) (time.Time, bool) {
	m := dateRe.FindString(s)
	if m == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", m)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseAge converts the "years-days" form ("27-123") to continuous years.
func parseAge(s string) (float64, bool) {
	m := ageRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	years, err1 := strconv.Atoi(m[1])
	days, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return 0, false
	}
	return float64(years) + float64(days)/365.0, true
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
