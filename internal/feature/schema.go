package feature

import (
	"fmt"

	"github.com/yourusername/strikeout-edge/internal/artifact"
)

// Schema is the authoritative ordered list of feature columns the estimator
// was trained on. It is fixed at training time, persisted as a plain JSON
// string array next to the estimator, and reloaded verbatim at scoring time;
// the scoring engine never infers column order from the estimator itself.
type Schema struct {
	columns []string
}

// NewSchema builds the training schema for the given trailing-window size.
// Column order matters and must not change between releases without a retrain.
func NewSchema(window int) *Schema {
	prefix := RollingPrefix(window)
	cols := []string{
		StatIP, StatBB, StatBF, StatH, StatER, StatHR, StatAge, StatIsHome,
		StatKPerIP, StatKPerBF, StatWHIP, StatKBB, StatERAEst,
	}
	for _, stat := range RollingStats() {
		cols = append(cols, prefix+stat)
	}
	cols = append(cols, StatOppKRate, StatOBP, StatSLG, StatOPS, StatBA, StatTeamKRate)
	return &Schema{columns: cols}
}

// SchemaFromColumns wraps an explicit column list, e.g. one loaded from disk.
func SchemaFromColumns(cols []string) *Schema {
	copied := make([]string, len(cols))
	copy(copied, cols)
	return &Schema{columns: copied}
}

// RollingPrefix names trailing-window columns, e.g. "r3_" for a 3-game window.
func RollingPrefix(window int) string {
	return fmt.Sprintf("r%d_", window)
}

// Columns returns a copy of the ordered column list.
func (s *Schema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Len returns the number of feature columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Vector projects a named row onto the schema's column order. Columns absent
// from the row are synthesized as the neutral 0 and reported back so the
// caller can log them; they never fail the row.
func (s *Schema) Vector(row map[string]float64) ([]float64, []string) {
	vec := make([]float64, len(s.columns))
	var missing []string
	for i, col := range s.columns {
		v, ok := row[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		vec[i] = v
	}
	return vec, missing
}

// Complete reports whether the row carries every schema column.
func (s *Schema) Complete(row map[string]float64) bool {
	for _, col := range s.columns {
		if _, ok := row[col]; !ok {
			return false
		}
	}
	return true
}

// Save persists the schema with write-then-atomic-rename so a concurrent
// scoring run can never observe a half-written column list.
func (s *Schema) Save(path string) error {
	if err := artifact.WriteJSONAtomic(path, s.columns); err != nil {
		return fmt.Errorf("failed to save feature schema: %w", err)
	}
	return nil
}

// LoadSchema reads a persisted schema.
func LoadSchema(path string) (*Schema, error) {
	var cols []string
	if err := artifact.ReadJSON(path, &cols); err != nil {
		return nil, fmt.Errorf("failed to load feature schema: %w", err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("feature schema at %s is empty", path)
	}
	return &Schema{columns: cols}, nil
}
