package control_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/entity"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/entity/signal/control"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/utils/config"
)

func signalParams() config.Signal {
	return config.Signal{MinGreen: 7, MaxGreen: 40, Gap: 3, MaxWait: 90, Yellow: 3, AllRed: 1}
}

// makeSnapshot 构造测试快照
// 未出现在参数中的进口道取零值状态，since_last_arrival默认取一个大值（无近期到达）
func makeSnapshot(phase int32, timeInPhase float64, states map[entity.Approach]entity.ApproachState) entity.Snapshot {
	approaches := make(map[entity.Approach]entity.ApproachState, len(entity.Approaches))
	for _, a := range entity.Approaches {
		if st, ok := states[a]; ok {
			approaches[a] = st
		} else {
			approaches[a] = entity.ApproachState{SinceLastArrival: 999}
		}
	}
	return entity.Snapshot{
		CurrentPhase: phase,
		TimeInPhase:  timeInPhase,
		Phases:       entity.PhaseMap(),
		Approaches:   approaches,
	}
}

func TestHybridMinGreenHolds(t *testing.T) {
	c := control.NewHybrid(signalParams())
	// 对向排队再大，未满最小绿灯也不切
	s := makeSnapshot(entity.PhaseNS, 3, map[entity.Approach]entity.ApproachState{
		entity.ApproachEast: {Queue: 100, SinceLastArrival: 999},
	})
	action, target := c.Decide(s, entity.PhaseNS, 3)
	assert.Equal(t, entity.ActionHold, action)
	assert.Equal(t, entity.PhaseNS, target)
}

func TestHybridGapOutExtendsGreen(t *testing.T) {
	c := control.NewHybrid(signalParams())
	// 当前相位仍有排队且1秒前刚有到达，即使对向压力更大也延长绿灯
	s := makeSnapshot(entity.PhaseNS, 10, map[entity.Approach]entity.ApproachState{
		entity.ApproachNorth: {Queue: 2, SinceLastArrival: 1},
		entity.ApproachEast:  {Queue: 50, SinceLastArrival: 999},
	})
	action, target := c.Decide(s, entity.PhaseNS, 10)
	assert.Equal(t, entity.ActionHold, action)
	assert.Equal(t, entity.PhaseNS, target)
}

func TestHybridMaxGreenEndsGapOut(t *testing.T) {
	c := control.NewHybrid(signalParams())
	// 到达间隙仍小于gap，但已达最大绿灯，间隙延长失效，压力比较生效
	s := makeSnapshot(entity.PhaseNS, 40, map[entity.Approach]entity.ApproachState{
		entity.ApproachNorth: {Queue: 2, SinceLastArrival: 1},
		entity.ApproachEast:  {Queue: 50, SinceLastArrival: 999},
	})
	action, target := c.Decide(s, entity.PhaseNS, 40)
	assert.Equal(t, entity.ActionSwitch, action)
	assert.Equal(t, entity.PhaseEW, target)
}

func TestHybridFairnessOverridesPressure(t *testing.T) {
	c := control.NewHybrid(signalParams())
	// 东向拥堵时长超过max_wait，即使当前相位排队远大也必须切换
	s := makeSnapshot(entity.PhaseNS, 20, map[entity.Approach]entity.ApproachState{
		entity.ApproachNorth: {Queue: 50, SinceLastArrival: 5},
		entity.ApproachEast:  {Queue: 1, SinceLastArrival: 999, CongestionT: 95},
	})
	action, target := c.Decide(s, entity.PhaseNS, 20)
	assert.Equal(t, entity.ActionSwitch, action)
	assert.Equal(t, entity.PhaseEW, target)
}

func TestHybridFairnessIgnoresCurrentPhase(t *testing.T) {
	c := control.NewHybrid(signalParams())
	// 超时进口道属于当前相位时不触发兜底，落到压力比较并保持
	s := makeSnapshot(entity.PhaseNS, 20, map[entity.Approach]entity.ApproachState{
		entity.ApproachNorth: {Queue: 10, SinceLastArrival: 5, CongestionT: 120},
		entity.ApproachEast:  {Queue: 3, SinceLastArrival: 999},
	})
	action, target := c.Decide(s, entity.PhaseNS, 20)
	assert.Equal(t, entity.ActionHold, action)
	assert.Equal(t, entity.PhaseNS, target)
}

func TestHybridMaxPressureSwitches(t *testing.T) {
	c := control.NewHybrid(signalParams())
	s := makeSnapshot(entity.PhaseNS, 15, map[entity.Approach]entity.ApproachState{
		entity.ApproachNorth: {Queue: 2, SinceLastArrival: 10},
		entity.ApproachEast:  {Queue: 4, SinceLastArrival: 10},
		entity.ApproachWest:  {Queue: 3, SinceLastArrival: 10},
	})
	action, target := c.Decide(s, entity.PhaseNS, 15)
	assert.Equal(t, entity.ActionSwitch, action)
	assert.Equal(t, entity.PhaseEW, target)
}

func TestHybridPressureTieHolds(t *testing.T) {
	c := control.NewHybrid(signalParams())
	// 压力持平时保持当前相位，避免来回震荡
	s := makeSnapshot(entity.PhaseEW, 15, map[entity.Approach]entity.ApproachState{
		entity.ApproachNorth: {Queue: 5, SinceLastArrival: 10},
		entity.ApproachEast:  {Queue: 5, SinceLastArrival: 10},
	})
	action, target := c.Decide(s, entity.PhaseEW, 15)
	assert.Equal(t, entity.ActionHold, action)
	assert.Equal(t, entity.PhaseEW, target)
}

func TestHybridAllEmptyHolds(t *testing.T) {
	c := control.NewHybrid(signalParams())
	s := makeSnapshot(entity.PhaseNS, 30, nil)
	action, target := c.Decide(s, entity.PhaseNS, 30)
	assert.Equal(t, entity.ActionHold, action)
	assert.Equal(t, entity.PhaseNS, target)
}

func TestHybridDecideIsPure(t *testing.T) {
	c := control.NewHybrid(signalParams())
	s := makeSnapshot(entity.PhaseNS, 15, map[entity.Approach]entity.ApproachState{
		entity.ApproachEast: {Queue: 4, SinceLastArrival: 10},
	})
	a1, t1 := c.Decide(s, entity.PhaseNS, 15)
	a2, t2 := c.Decide(s, entity.PhaseNS, 15)
	assert.Equal(t, a1, a2)
	assert.Equal(t, t1, t2)
}
