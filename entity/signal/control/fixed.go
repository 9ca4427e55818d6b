package control

import (
	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/entity"
)

// FixedTiming 定周期信控决策器
// 功能：不看需求，当前相位满绿灯时长后切到另一相位，作为自适应控制的对照基线
// 说明：绿灯时长<=0表示该相位永不切出（无信控，等价于常绿）
type FixedTiming struct {
	green [entity.PhaseCount]float64 // 各相位绿灯时长（秒）
}

// NewFixedTiming 创建定周期决策器
// 参数：nsGreen-相位0绿灯时长，ewGreen-相位1绿灯时长（秒）
func NewFixedTiming(nsGreen, ewGreen float64) *FixedTiming {
	if nsGreen <= 0 || ewGreen <= 0 {
		log.Warnf("fixed timing with non-positive green (%v/%v), holding forever", nsGreen, ewGreen)
	}
	if nsGreen <= 0 {
		nsGreen = mathutil.INF
	}
	if ewGreen <= 0 {
		ewGreen = mathutil.INF
	}
	return &FixedTiming{green: [entity.PhaseCount]float64{nsGreen, ewGreen}}
}

// Decide 给出当前拍的信控决策
// 功能：当前相位持续时间达到其绿灯时长则切换，否则保持
func (c *FixedTiming) Decide(s entity.Snapshot, currentPhase int32, timeInPhase float64) (entity.Action, int32) {
	if timeInPhase >= c.green[currentPhase] {
		return entity.ActionSwitch, 1 - currentPhase
	}
	return entity.ActionHold, currentPhase
}
