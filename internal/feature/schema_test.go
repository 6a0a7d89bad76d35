package feature

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchemaColumnOrder(t *testing.T) {
	schema := NewSchema(3)

	want := []string{
		"IP", "BB", "BF", "H", "ER", "HR", "age_float", "is_home",
		"K_per_IP", "K_per_BF", "WHIP", "KBB", "ERA_est",
		"r3_IP", "r3_SO", "r3_BB", "r3_K_per_IP", "r3_K_per_BF",
		"r3_WHIP", "r3_KBB", "r3_ERA_est",
		"opp_K_rate", "OBP", "SLG", "OPS", "BA", "team_K_rate",
	}
	assert.Equal(t, want, schema.Columns())
	assert.Equal(t, 27, schema.Len())
}

func TestRollingPrefix(t *testing.T) {
	assert.Equal(t, "r3_", RollingPrefix(3))
	assert.Equal(t, "r5_", RollingPrefix(5))
}

func TestVectorSynthesizesMissingColumns(t *testing.T) {
	schema := SchemaFromColumns([]string{"a", "b", "c"})

	vec, missing := schema.Vector(map[string]float64{"a": 1.5, "c": 2.5})
	assert.Equal(t, []float64{1.5, 0, 2.5}, vec)
	assert.Equal(t, []string{"b"}, missing)

	vec, missing = schema.Vector(map[string]float64{"a": 1, "b": 2, "c": 3})
	assert.Equal(t, []float64{1, 2, 3}, vec)
	assert.Empty(t, missing)
}

func TestComplete(t *testing.T) {
	schema := SchemaFromColumns([]string{"a", "b"})

	assert.True(t, schema.Complete(map[string]float64{"a": 0, "b": 0}))
	assert.False(t, schema.Complete(map[string]float64{"a": 0}))
}

func TestSchemaSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feature_order.json")

	schema := NewSchema(3)
	require.NoError(t, schema.Save(path))

	loaded, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, schema.Columns(), loaded.Columns())
}

func TestLoadSchemaMissingFile(t *testing.T) {
	_, err := LoadSchema(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestColumnsReturnsCopy(t *testing.T) {
	schema := SchemaFromColumns([]string{"a", "b"})
	cols := schema.Columns()
	cols[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, schema.Columns())
}
