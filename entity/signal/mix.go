package signal

import (
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/entity"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/utils/container"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/utils/randengine"
)

// 车型索引
const (
	classCar = iota
	classBike
	classBus
	classTruck
	classRickshaw
	classCount
)

// classWeights 到达车辆的车型抽样权重（均匀）
var classWeights = []float64{1, 1, 1, 1, 1}

// 慢车型对放行能力的折减系数
const (
	busPenalty   = 0.3
	truckPenalty = 0.2
)

// mixApproachRuntime 车型感知引擎的进口道运行时数据
// 说明：classes按车型拆分当前队列，各车型计数之和恒等于queue
type mixApproachRuntime struct {
	approachRuntime
	classes       [classCount]int32 // 队列中各车型的数量
	totalArrivals int32             // 累计到达
	totalServed   int32             // 累计放行
}

// MixEngine 车型感知排队引擎
// 功能：与FlowEngine同契约的变体，按队列车型构成折减放行能力
// 说明：公交与货车占比越高，进口道每秒放行数越低（下限1辆/秒）
type MixEngine struct {
	signal    config.Signal
	lambda    map[entity.Approach]float64
	generator *randengine.Engine
	state     map[entity.Approach]*mixApproachRuntime
	runtime   signalRuntime

	servedHist *container.History[int32]
	waitHist   *container.History[float64]
}

// NewMixEngine 创建车型感知引擎
// 参数：signal-信控参数，demand-需求档位名，seed-随机数种子
// 说明：到达率采样与FlowEngine一致，额外维护车型构成
func NewMixEngine(signal config.Signal, demand string, seed uint64) *MixEngine {
	base, ok := demandBase[demand]
	if !ok {
		log.Panicf("unknown demand level %q (must be one of %v)", demand, lo.Keys(demandBase))
	}
	generator := randengine.New(seed)
	lambda := make(map[entity.Approach]float64, len(entity.Approaches))
	for _, a := range entity.Approaches {
		lambda[a] = math.Max(minLambda, generator.Normal(base, 0.15*base))
	}
	e := &MixEngine{
		signal:     signal,
		lambda:     lambda,
		generator:  generator,
		servedHist: container.NewHistory[int32](*historyWindow),
		waitHist:   container.NewHistory[float64](*historyWindow),
	}
	e.resetState()
	return e
}

func (e *MixEngine) resetState() {
	e.state = make(map[entity.Approach]*mixApproachRuntime, len(entity.Approaches))
	for _, a := range entity.Approaches {
		e.state[a] = &mixApproachRuntime{}
	}
}

// Reset 重置引擎，返回初始快照
func (e *MixEngine) Reset() entity.Snapshot {
	e.runtime = signalRuntime{}
	e.servedHist.Clear()
	e.waitHist.Clear()
	e.resetState()
	return e.snapshot(e.emptyServed())
}

// Step 推进仿真1秒
// 功能：与FlowEngine相同的四阶段推进，放行阶段按车型构成折减能力
// 算法说明：
// 1. 到达：泊松采样到达数，每辆车按均匀分布抽取车型计入构成
// 2. 拥堵计时：同FlowEngine
// 3. 放行：rate = serviceRate*(1-0.3*公交占比-0.2*货车占比)，
//    队列非空时至少放行1辆；放行车辆按构成比例从各车型中扣除
// 4. 历史：同FlowEngine
func (e *MixEngine) Step(action string) entity.Snapshot {
	e.runtime.clock++

	// 到达
	for _, a := range entity.Approaches {
		st := e.state[a]
		arrivals := e.generator.Poisson(e.lambda[a])
		for i := int32(0); i < arrivals; i++ {
			st.classes[e.generator.DiscreteDistribution(classWeights)]++
		}
		st.queue += arrivals
		st.totalArrivals += arrivals
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
			if st.queue == 0 {
				continue
			}
			s := min(st.queue, st.capacity())
			st.drainClasses(s)
			st.queue -= s
			st.totalServed += s
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

// capacity 计算本拍放行能力
// 功能：按队列中公交与货车的占比折减基准能力，队列非空时下限1辆
func (st *mixApproachRuntime) capacity() int32 {
	total := float64(st.queue)
	if total == 0 {
		return serviceRate
	}
	busRatio := float64(st.classes[classBus]) / total
	truckRatio := float64(st.classes[classTruck]) / total
	rate := float64(serviceRate) * (1 - busPenalty*busRatio - truckPenalty*truckRatio)
	return max(int32(rate), 1)
}

// drainClasses 从车型构成中扣除放行的served辆车
// 算法说明：先按占比取整扣除，再逐车型补齐余数，保持构成之和等于队列
func (st *mixApproachRuntime) drainClasses(served int32) {
	total := st.queue
	remaining := served
	for c := 0; c < classCount && remaining > 0; c++ {
		take := min(st.classes[c], served*st.classes[c]/total)
		st.classes[c] -= take
		remaining -= take
	}
	for c := 0; c < classCount && remaining > 0; c++ {
		take := min(st.classes[c], remaining)
		st.classes[c] -= take
		remaining -= take
	}
}

// Switch 开始相位切换（过渡期内无操作）
func (e *MixEngine) Switch() entity.Snapshot {
	e.beginTransition()
	return e.snapshot(e.emptyServed())
}

func (e *MixEngine) beginTransition() {
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
func (e *MixEngine) Metrics() entity.Metrics {
	return entity.Metrics{
		AvgWait:    e.waitHist.Mean(),
		Throughput: e.servedHist.Mean() * 3600,
		TotalQueue: e.totalQueue(),
	}
}

// Efficiency 累计放行占累计到达的百分比
// 说明：车型感知引擎特有的补充指标，不属于ISimEngine契约
func (e *MixEngine) Efficiency() float64 {
	arrivals := lo.SumBy(entity.Approaches, func(a entity.Approach) int32 {
		return e.state[a].totalArrivals
	})
	served := lo.SumBy(entity.Approaches, func(a entity.Approach) int32 {
		return e.state[a].totalServed
	})
	return float64(served) / math.Max(1, float64(arrivals)) * 100
}

func (e *MixEngine) totalQueue() int32 {
	return lo.SumBy(entity.Approaches, func(a entity.Approach) int32 {
		return e.state[a].queue
	})
}

func (e *MixEngine) recordHistory(served map[entity.Approach]int32) {
	e.servedHist.Push(lo.Sum(lo.Values(served)))
	congestion := lo.SumBy(entity.Approaches, func(a entity.Approach) float64 {
		return e.state[a].congestionT
	})
	e.waitHist.Push(congestion / math.Max(1, float64(e.totalQueue())))
}

func (e *MixEngine) emptyServed() map[entity.Approach]int32 {
	served := make(map[entity.Approach]int32, len(entity.Approaches))
	for _, a := range entity.Approaches {
		served[a] = 0
	}
	return served
}

func (e *MixEngine) snapshot(served map[entity.Approach]int32) entity.Snapshot {
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
