// 提供混合自适应信控决策算法
// 不按固定相序轮转，而是在间隙延长（gap-out）的基础上按最大压力选择相位，
// 并以公平性阈值兜底，防止轻需求进口道被无限推迟
package control

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/entity"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/utils/container"
)

// Hybrid 混合信控决策器
// 功能：纯决策函数，消费引擎快照并给出HOLD或SWITCH(目标相位)
// 说明：决策器不做任何状态修改，过渡延迟由引擎的Switch负责执行
type Hybrid struct {
	p config.Signal // 信控参数（构造后不可变）
}

// NewHybrid 创建混合信控决策器
// 参数：p-信控参数，要求min_green<max_green（配置校验阶段保证）
func NewHybrid(p config.Signal) *Hybrid {
	return &Hybrid{p: p}
}

// Decide 给出当前拍的信控决策
// 功能：按固定优先级的规则链决策，第一条命中的规则生效
// 参数：s-引擎快照，currentPhase-当前相位，timeInPhase-当前相位持续秒数
// 返回：动作（HOLD|SWITCH）与目标相位（HOLD时等于当前相位）
// 算法说明（规则顺序即算法契约，不可调整）：
// 1. 最小绿灯：不满min_green一律保持
// 2. 间隙延长：当前相位仍有排队且最近到达间隔小于gap、未达max_green时保持
// 3. 公平性兜底：任一相位存在拥堵时长超过max_wait的进口道且该相位非当前相位时，
//    无条件切换过去（优先于压力比较）
// 4. 最大压力：取排队总数严格最大的相位，持平保持当前相位
func (c *Hybrid) Decide(s entity.Snapshot, currentPhase int32, timeInPhase float64) (entity.Action, int32) {
	// 1. 最小绿灯
	if timeInPhase < float64(c.p.MinGreen) {
		return entity.ActionHold, currentPhase
	}

	// 2. 间隙延长
	active := s.Phases[currentPhase]
	activeHasQueue := lo.SomeBy(active, func(a entity.Approach) bool {
		return s.Approaches[a].Queue > 0
	})
	minSince := lo.MinBy(active, func(a, b entity.Approach) bool {
		return s.Approaches[a].SinceLastArrival < s.Approaches[b].SinceLastArrival
	})
	if activeHasQueue &&
		s.Approaches[minSince].SinceLastArrival < float64(c.p.Gap) &&
		timeInPhase < float64(c.p.MaxGreen) {
		return entity.ActionHold, currentPhase
	}

	// 3. 公平性兜底
	for phase := int32(0); phase < entity.PhaseCount; phase++ {
		if phase == currentPhase {
			continue
		}
		overdue := lo.SomeBy(s.Phases[phase], func(a entity.Approach) bool {
			return s.Approaches[a].CongestionT > float64(c.p.MaxWait)
		})
		if overdue {
			return entity.ActionSwitch, phase
		}
	}

	// 4. 最大压力：统计各相位放行进口道的排队总数，压力最大的相位胜出
	pressures := make(map[int32]int32, len(s.Phases))
	pressureHeap := container.NewPriorityQueue[int32]()
	for phase, group := range s.Phases {
		pressure := lo.SumBy(group, func(a entity.Approach) int32 {
			return s.Approaches[a].Queue
		})
		pressures[phase] = pressure
		pressureHeap.Push(phase, -float64(pressure)) // 小顶堆，压力越大越靠前
	}
	pressureHeap.Heapify()
	target, _ := pressureHeap.HeapPop()
	// 持平保持当前相位（只有严格更大的压力才触发切换）
	if target == currentPhase || pressures[target] <= pressures[currentPhase] {
		return entity.ActionHold, currentPhase
	}
	return entity.ActionSwitch, target
}
