package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsp-sag/network-wrangler-sub001/config"
)

func TestDefaultMatchesDocumentedDefaults(t *testing.T) {
	d := config.Default()
	assert.Equal(t, -10.0, d.ModelRoadway.MLOffsetMeters)
	assert.True(t, d.Edits.ExistingValueConflictError)
	assert.Equal(t, config.OverwriteScopedConflicting, d.Edits.OverwriteScoped)
	assert.Equal(t, 1_000_000, d.IDs.TransitShapeIDScalar)
	assert.Equal(t, [2]int{950_000, 999_999}, d.IDs.MLLinkIDRange)
}

func TestLoadWranglerConfigMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wrangler.yaml")
	require.NoError(t, os.WriteFile(path, []byte("MODEL_ROADWAY:\n  ML_OFFSET_METERS: 5\n"), 0o644))

	cfg, err := config.LoadWranglerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.ModelRoadway.MLOffsetMeters)
	assert.Equal(t, config.OverwriteScopedConflicting, cfg.Edits.OverwriteScoped)
}

func TestLoadScenarioConfigParsesBaseScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	yamlContent := `
name: my_scenario
base_scenario:
  roadway:
    dir: "./roadway"
    file_format: geojson
  applied_projects: ["p1"]
  conflicts:
    p2: ["p1"]
projects:
  project_card_filepath: ["./projects/a.yaml"]
output_scenario:
  path: "./output"
  roadway:
    out_dir: "./output/roadway"
    file_format: geojson
  transit:
    out_dir: "./output/transit"
    file_format: txt
  overwrite: true
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	cfg, err := config.LoadScenarioConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "my_scenario", cfg.Name)
	assert.Equal(t, []string{"p1"}, cfg.BaseScenario.AppliedProjects)
	assert.Equal(t, []string{"p1"}, cfg.BaseScenario.Conflicts["p2"])
	require.NotNil(t, cfg.BaseScenario.Roadway)
	assert.Equal(t, "geojson", cfg.BaseScenario.Roadway.FileFormat)
	assert.Equal(t, -10.0, cfg.WranglerConfig.ModelRoadway.MLOffsetMeters)
}
