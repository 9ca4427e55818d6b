package scenario_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/entity"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/scenario"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/utils/config"
)

func TestRegistryListOrder(t *testing.T) {
	r := scenario.NewRegistry(config.Scenario{DataDir: t.TempDir()})
	assert.Equal(t, []string{"Morning peak", "Evening balanced", "Incident eastbound"}, r.List())
}

func TestRegistryUnknownScenario(t *testing.T) {
	r := scenario.NewRegistry(config.Scenario{DataDir: t.TempDir()})

	_, err := r.Config("Nonexistent")
	assert.ErrorIs(t, err, scenario.ErrUnknownScenario)
	_, err = r.Description("Nonexistent")
	assert.ErrorIs(t, err, scenario.ErrUnknownScenario)
	_, err = r.LoadRecordedCounts("Nonexistent")
	assert.ErrorIs(t, err, scenario.ErrUnknownScenario)
}

func TestRegistryConfigAndDescription(t *testing.T) {
	r := scenario.NewRegistry(config.Scenario{DataDir: t.TempDir()})

	cfg, err := r.Config("Morning peak")
	require.NoError(t, err)
	assert.Equal(t, 24.0, cfg.BaseFlow[entity.ApproachNorth])
	assert.Equal(t, 0.25, cfg.Variability)
	assert.Equal(t, uint64(42), cfg.Seed)

	desc, err := r.Description("Incident eastbound")
	require.NoError(t, err)
	assert.NotEmpty(t, desc)
}

func TestLoadRecordedCountsErrors(t *testing.T) {
	r := scenario.NewRegistry(config.Scenario{DataDir: t.TempDir()})

	// 未配置录制文件的场景与录制文件缺失的场景都报ErrNoRecording，
	// 且与未知场景错误可区分
	_, err := r.LoadRecordedCounts("Incident eastbound")
	assert.ErrorIs(t, err, scenario.ErrNoRecording)
	assert.NotErrorIs(t, err, scenario.ErrUnknownScenario)

	_, err = r.LoadRecordedCounts("Morning peak")
	assert.ErrorIs(t, err, scenario.ErrNoRecording)
}

func TestLoadRecordedCountsFromCSV(t *testing.T) {
	dir := t.TempDir()
	data := "cycle,approach,vehicles,queue\n" +
		"0,North,24,3.5\n" +
		"0,East,11,0\n" +
		"1,North,26,5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "morning_peak.csv"), []byte(data), 0o644))

	r := scenario.NewRegistry(config.Scenario{DataDir: dir})
	rows, err := r.LoadRecordedCounts("Morning peak")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, entity.DemandRow{Cycle: 0, Approach: entity.ApproachNorth, Vehicles: 24, Queue: 3.5}, rows[0])
	assert.Equal(t, entity.ApproachEast, rows[1].Approach)
	assert.Equal(t, int32(1), rows[2].Cycle)
}

func TestLoadRecordedCountsBadCSV(t *testing.T) {
	dir := t.TempDir()
	data := "cycle,approach,vehicles,queue\n" +
		"0,Northeast,24,3.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "morning_peak.csv"), []byte(data), 0o644))

	r := scenario.NewRegistry(config.Scenario{DataDir: dir})
	_, err := r.LoadRecordedCounts("Morning peak")
	assert.ErrorContains(t, err, "unknown approach")
}

func TestSensorRowShape(t *testing.T) {
	cfg := scenario.ScenarioConfig{
		BaseFlow: map[entity.Approach]float64{
			entity.ApproachNorth: 24, entity.ApproachSouth: 28,
			entity.ApproachEast: 12, entity.ApproachWest: 9,
		},
		Variability: 0.25,
		Seed:        42,
	}
	rows := scenario.GenerateSensorData(cfg, 12)
	require.Len(t, rows, 12*len(entity.Approaches))

	flow := cfg.AlignedFlow()
	for i, row := range rows {
		// 每周期四行，进口道按固定顺序排列
		assert.Equal(t, int32(i/len(entity.Approaches)), row.Cycle)
		assert.Equal(t, entity.Approaches[i%len(entity.Approaches)], row.Approach)
		assert.GreaterOrEqual(t, row.Vehicles, 0.0)
		assert.Equal(t, row.Vehicles, float64(int64(row.Vehicles))) // 到达数为整数
		// 排队估计为超出八成基准能力的滞留部分
		assert.InDelta(t, max(0, row.Vehicles-0.8*flow[row.Approach]), row.Queue, 1e-9)
	}
}

func TestSensorMissingApproachGetsDefaultFlow(t *testing.T) {
	cfg := scenario.ScenarioConfig{
		BaseFlow:    map[entity.Approach]float64{entity.ApproachNorth: 20},
		Variability: 0.1,
		Seed:        1,
	}
	flow := cfg.AlignedFlow()
	assert.Equal(t, 20.0, flow[entity.ApproachNorth])
	assert.Equal(t, 8.0, flow[entity.ApproachEast])
	assert.Equal(t, 8.0, flow[entity.ApproachSouth])
	assert.Equal(t, 8.0, flow[entity.ApproachWest])
}

func TestSensorDeterministicWithSeed(t *testing.T) {
	cfg := scenario.ScenarioConfig{
		BaseFlow:    map[entity.Approach]float64{entity.ApproachNorth: 14, entity.ApproachEast: 34},
		Variability: 0.3,
		Seed:        7,
	}
	a := scenario.GenerateSensorData(cfg, 8)
	b := scenario.GenerateSensorData(cfg, 8)
	assert.Equal(t, a, b)
}
