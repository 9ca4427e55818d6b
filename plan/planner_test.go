package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/entity"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/plan"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/utils/config"
)

func planConfig() config.Plan {
	return config.Plan{
		CycleLength:    80,
		MinGreen:       12,
		MaxGreen:       55,
		BaselineGreen:  40,
		Responsiveness: 0.6,
	}
}

func TestComputePhasePlanZeroDemand(t *testing.T) {
	p := plan.ComputePhasePlan(nil, nil, planConfig())
	assert.Equal(t, 40.0, p.NSGreen)
	assert.Equal(t, 40.0, p.EWGreen)
	assert.Equal(t, 0.0, p.PredictedDelayReductionPct)

	// 全零计数与空map等价
	zero := map[entity.Approach]float64{
		entity.ApproachNorth: 0, entity.ApproachSouth: 0,
		entity.ApproachEast: 0, entity.ApproachWest: 0,
	}
	p = plan.ComputePhasePlan(zero, zero, planConfig())
	assert.Equal(t, 40.0, p.NSGreen)
	assert.Equal(t, 40.0, p.EWGreen)
}

func TestComputePhasePlanOneSidedDemand(t *testing.T) {
	// NS需求20、EW为0：未裁剪的ns_green=80*(0.6*1+0.4*0.5)=64，被max_green裁到55
	counts := map[entity.Approach]float64{
		entity.ApproachNorth: 10,
		entity.ApproachSouth: 10,
	}
	p := plan.ComputePhasePlan(counts, nil, planConfig())
	assert.Equal(t, 55.0, p.NSGreen)
	assert.Equal(t, 25.0, p.EWGreen)
	assert.Greater(t, p.PredictedDelayReductionPct, 0.0)
	assert.NotEmpty(t, p.Reason)
}

func TestComputePhasePlanSplitSumsToCycle(t *testing.T) {
	cases := []map[entity.Approach]float64{
		{entity.ApproachNorth: 3, entity.ApproachEast: 30},
		{entity.ApproachSouth: 17, entity.ApproachWest: 5},
		{entity.ApproachNorth: 1, entity.ApproachSouth: 1, entity.ApproachEast: 1, entity.ApproachWest: 1},
	}
	for _, counts := range cases {
		p := plan.ComputePhasePlan(counts, counts, planConfig())
		assert.InDelta(t, 80.0, p.NSGreen+p.EWGreen, 1e-9)
		assert.GreaterOrEqual(t, p.PredictedDelayReductionPct, 0.0)
	}
}

func TestComputePhasePlanMinGreenDeficitShift(t *testing.T) {
	// 全响应+单侧需求时ns_green被裁到max_green=55，ew_green=5低于min_green=12，
	// 缺口还给ns
	cfg := planConfig()
	cfg.CycleLength = 60
	cfg.Responsiveness = 1
	counts := map[entity.Approach]float64{entity.ApproachNorth: 100}
	p := plan.ComputePhasePlan(counts, nil, cfg)
	assert.Equal(t, 12.0, p.EWGreen)
	assert.Equal(t, 48.0, p.NSGreen)
	assert.InDelta(t, 60.0, p.NSGreen+p.EWGreen, 1e-9)
}

func TestEvaluateSequence(t *testing.T) {
	rows := []entity.DemandRow{
		{Cycle: 2, Approach: entity.ApproachNorth, Vehicles: 10},
		{Cycle: 2, Approach: entity.ApproachEast, Vehicles: 2},
		{Cycle: 0, Approach: entity.ApproachNorth, Vehicles: 4, Queue: 2},
		{Cycle: 0, Approach: entity.ApproachEast, Vehicles: 4, Queue: 2},
		{Cycle: 1, Approach: entity.ApproachWest, Vehicles: 30},
	}
	plans := plan.EvaluateSequence(rows, planConfig())
	require.Len(t, plans, 3)

	// test: 周期升序
	assert.Equal(t, int32(0), plans[0].Cycle)
	assert.Equal(t, int32(1), plans[1].Cycle)
	assert.Equal(t, int32(2), plans[2].Cycle)

	// test: 周期0南北与东西需求对称，均分
	assert.InDelta(t, plans[0].NSGreen, plans[0].EWGreen, 1e-9)
	// test: 周期1只有西向需求，EW占优
	assert.Greater(t, plans[1].EWGreen, plans[1].NSGreen)
	// test: 周期2北向需求占优
	assert.Greater(t, plans[2].NSGreen, plans[2].EWGreen)
}
