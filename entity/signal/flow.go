package signal

import (
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/entity"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/utils/container"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/utils/randengine"
)

// FlowEngine 需求驱动的最小排队引擎
// 功能：1秒步进的四进口道排队仿真，泊松到达+固定放行能力+切相过渡锁定
// 说明：这是契约的规范实现；到达率在构造时按需求档位采样一次，Reset不重采样
type FlowEngine struct {
	signal    config.Signal                    // 信控参数（过渡时长取yellow+all_red）
	lambda    map[entity.Approach]float64      // 各进口道到达率（辆/秒）
	generator *randengine.Engine               // 随机数引擎
	state     map[entity.Approach]*approachRuntime
	runtime   signalRuntime

	servedHist *container.History[int32]   // 每秒放行总数历史
	waitHist   *container.History[float64] // 每秒等待近似值历史
}

// NewFlowEngine 创建需求驱动引擎
// 功能：按需求档位初始化各进口道到达率并构造引擎
// 参数：signal-信控参数，demand-需求档位名，seed-随机数种子
// 返回：初始化完成的引擎实例
// 算法说明：
// 1. 校验需求档位（未知档位属于配置错误，直接panic）
// 2. 各进口道到达率从Normal(base, 0.15*base)采样，下限0.05
// 3. 初始化进口道状态与指标历史
func NewFlowEngine(signal config.Signal, demand string, seed uint64) *FlowEngine {
	base, ok := demandBase[demand]
	if !ok {
		log.Panicf("unknown demand level %q (must be one of %v)", demand, lo.Keys(demandBase))
	}
	generator := randengine.New(seed)
	lambda := make(map[entity.Approach]float64, len(entity.Approaches))
	for _, a := range entity.Approaches {
		lambda[a] = math.Max(minLambda, generator.Normal(base, 0.15*base))
	}
	e := &FlowEngine{
		signal:     signal,
		lambda:     lambda,
		generator:  generator,
		servedHist: container.NewHistory[int32](*historyWindow),
		waitHist:   container.NewHistory[float64](*historyWindow),
	}
	e.resetState()
	return e
}

// resetState 清空各进口道状态
func (e *FlowEngine) resetState() {
	e.state = make(map[entity.Approach]*approachRuntime, len(entity.Approaches))
	for _, a := range entity.Approaches {
		e.state[a] = &approachRuntime{}
	}
}

// Reset 重置引擎
// 功能：清空全部进口道状态、信号机状态与指标历史，返回初始快照
// 说明：到达率与随机数序列保持构造时的设定
func (e *FlowEngine) Reset() entity.Snapshot {
	e.runtime = signalRuntime{}
	e.servedHist.Clear()
	e.waitHist.Clear()
	e.resetState()
	return e.snapshot(e.emptyServed())
}

// Step 推进仿真1秒
// 功能：按"到达->拥堵计时->过渡/放行->历史记录"的固定顺序推进一拍
// 参数：action-可选动作，"switch"表示在本拍放行前强制开始切相
// 返回：本拍结束后的快照（含本拍各进口道放行数）
// 算法说明：
// 1. 到达：各进口道按泊松分布采样到达数，入队并维护到达间隔
// 2. 拥堵计时：队列非空则拥堵时长+1，否则清零
// 3. 放行：过渡期内倒计时且不放行（归零时相位计时清零）；
//    否则当前相位的进口道各放行min(queue, serviceRate)辆，相位计时+1
// 4. 历史：记录本拍放行总数与等待近似值（拥堵时长总和/排队总数）
func (e *FlowEngine) Step(action string) entity.Snapshot {
	e.runtime.clock++

	// 到达
	for _, a := range entity.Approaches {
		st := e.state[a]
		arrivals := e.generator.Poisson(e.lambda[a])
		st.queue += arrivals
		if arrivals > 0 {
			st.sinceLastArrival = 0
		} else {
			st.sinceLastArrival++
		}
	}

	// 拥堵计时
	for _, a := range entity.Approaches {
		st := e.state[a]
		if st.queue > 0 {
			st.congestionT++
		} else {
			st.congestionT = 0
		}
	}

	if action == ActionForceSwitch {
		e.beginTransition()
	}

	// 放行（过渡期锁定）
	served := e.emptyServed()
	if e.runtime.transitionRemaining > 0 {
		e.runtime.transitionRemaining--
		if e.runtime.transitionRemaining == 0 {
			e.runtime.timeInPhase = 0
		}
	} else {
		for _, a := range entity.PhaseApproaches(e.runtime.currentPhase) {
			st := e.state[a]
			s := min(st.queue, serviceRate)
			st.queue -= s
			served[a] = s
			if st.queue == 0 {
				st.congestionT = 0
			}
		}
		e.runtime.timeInPhase++
	}

	e.recordHistory(served)
	return e.snapshot(served)
}

// Switch 开始相位切换
// 功能：设置黄灯+全红过渡倒计时并翻转相位；过渡期内调用为无操作
func (e *FlowEngine) Switch() entity.Snapshot {
	e.beginTransition()
	return e.snapshot(e.emptyServed())
}

// beginTransition 进入切相过渡
// 说明：过渡时长为0时直接完成切换（相位计时立即清零）
func (e *FlowEngine) beginTransition() {
	if e.runtime.transitionRemaining > 0 {
		return
	}
	total := e.signal.Yellow + e.signal.AllRed
	e.runtime.currentPhase = 1 - e.runtime.currentPhase
	if total == 0 {
		e.runtime.timeInPhase = 0
		return
	}
	e.runtime.transitionRemaining = total
}

// Metrics 获取聚合指标
// 功能：由滚动历史计算平均等待近似值与小时流量，并统计当前总排队
func (e *FlowEngine) Metrics() entity.Metrics {
	return entity.Metrics{
		AvgWait:    e.waitHist.Mean(),
		Throughput: e.servedHist.Mean() * 3600,
		TotalQueue: e.totalQueue(),
	}
}

func (e *FlowEngine) totalQueue() int32 {
	return lo.SumBy(entity.Approaches, func(a entity.Approach) int32 {
		return e.state[a].queue
	})
}

// recordHistory 记录本拍的放行总数与等待近似值
func (e *FlowEngine) recordHistory(served map[entity.Approach]int32) {
	e.servedHist.Push(lo.Sum(lo.Values(served)))
	congestion := lo.SumBy(entity.Approaches, func(a entity.Approach) float64 {
		return e.state[a].congestionT
	})
	e.waitHist.Push(congestion / math.Max(1, float64(e.totalQueue())))
}

func (e *FlowEngine) emptyServed() map[entity.Approach]int32 {
	served := make(map[entity.Approach]int32, len(entity.Approaches))
	for _, a := range entity.Approaches {
		served[a] = 0
	}
	return served
}

// snapshot 构造当前状态的只读快照
func (e *FlowEngine) snapshot(served map[entity.Approach]int32) entity.Snapshot {
	approaches := make(map[entity.Approach]entity.ApproachState, len(entity.Approaches))
	for _, a := range entity.Approaches {
		st := e.state[a]
		approaches[a] = entity.ApproachState{
			Queue:            st.queue,
			SinceLastArrival: st.sinceLastArrival,
			CongestionT:      st.congestionT,
		}
	}
	return entity.Snapshot{
		Clock:        e.runtime.clock,
		CurrentPhase: e.runtime.currentPhase,
		TimeInPhase:  e.runtime.timeInPhase,
		Phases:       entity.PhaseMap(),
		Approaches:   approaches,
		Served:       served,
	}
}
