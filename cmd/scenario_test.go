package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const batteryScenarioYAML = `
engine:
  rng_seed: 1
  use_no_ack_cache: false
battery:
  capacity: 2
  charging_duration: 5
  arrival_interval: 2
  num_cars: 4
`

func writeScenarioFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadScenarioStrictDecoding(t *testing.T) {
	path := writeScenarioFile(t, batteryScenarioYAML)
	cfg, err := loadScenario(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Battery)
	require.Equal(t, 2, cfg.Battery.Capacity)
	require.Equal(t, int64(5), cfg.Battery.ChargingDuration)
	require.Nil(t, cfg.Calendar)
}

func TestLoadScenarioRejectsUnknownField(t *testing.T) {
	path := writeScenarioFile(t, batteryScenarioYAML+"\ntypo_field: 1\n")
	_, err := loadScenario(path)
	require.Error(t, err)
}

func TestBuildEngineAndRunBatteryScenario(t *testing.T) {
	path := writeScenarioFile(t, batteryScenarioYAML)
	cfg, err := loadScenario(path)
	require.NoError(t, err)

	eng := buildEngine(cfg.Engine)
	require.NoError(t, registerScenarioProcesses(eng, cfg))
	require.NoError(t, eng.Run(context.Background(), nil))
	require.Equal(t, int64(12), eng.T())
}

const calendarScenarioYAML = `
engine:
  rng_seed: 0
calendar:
  start_year: 2024
  look_ahead_years: 2
`

func TestBuildEngineAndRunCalendarScenario(t *testing.T) {
	path := writeScenarioFile(t, calendarScenarioYAML)
	cfg, err := loadScenario(path)
	require.NoError(t, err)

	eng := buildEngine(cfg.Engine)
	require.NoError(t, registerScenarioProcesses(eng, cfg))
	require.NoError(t, eng.Run(context.Background(), nil))
	require.Greater(t, len(eng.History.Batches()), 0)
}
