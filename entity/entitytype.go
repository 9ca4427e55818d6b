package entity

import "fmt"

// Approach 进口道，四个罗盘方向之一
type Approach string

// 四个进口道常量
const (
	ApproachNorth Approach = "North"
	ApproachEast  Approach = "East"
	ApproachSouth Approach = "South"
	ApproachWest  Approach = "West"
)

// Approaches 进口道的固定顺序（与传感器数据的列顺序一致）
var Approaches = []Approach{ApproachNorth, ApproachEast, ApproachSouth, ApproachWest}

// 相位ID常量，相位0放行南北轴，相位1放行东西轴
const (
	PhaseNS int32 = 0
	PhaseEW int32 = 1
)

// PhaseCount 相位数量
const PhaseCount int32 = 2

// PhaseApproaches 获取相位放行的进口道
// 功能：返回指定相位同时获得绿灯的一对对向进口道
// 参数：phase-相位ID（0或1）
// 返回：进口道列表
// 说明：相位ID超出范围属于调用方编程错误，直接panic
func PhaseApproaches(phase int32) []Approach {
	switch phase {
	case PhaseNS:
		return []Approach{ApproachNorth, ApproachSouth}
	case PhaseEW:
		return []Approach{ApproachEast, ApproachWest}
	default:
		panic(fmt.Sprintf("entity: unknown phase %d", phase))
	}
}

// PhaseMap 获取相位ID到放行进口道的完整映射
// 功能：构造快照中携带的相位表
func PhaseMap() map[int32][]Approach {
	return map[int32][]Approach{
		PhaseNS: PhaseApproaches(PhaseNS),
		PhaseEW: PhaseApproaches(PhaseEW),
	}
}

// PhaseOf 获取进口道所属的相位
// 功能：返回进口道获得绿灯的相位ID
// 说明：未知进口道属于调用方编程错误，直接panic
func PhaseOf(a Approach) int32 {
	switch a {
	case ApproachNorth, ApproachSouth:
		return PhaseNS
	case ApproachEast, ApproachWest:
		return PhaseEW
	default:
		panic(fmt.Sprintf("entity: unknown approach %s", a))
	}
}

// ApproachState 单个进口道的实时状态
// 说明：CongestionT是"队列连续非空的秒数"，作为最长等待时间的近似量，
// 不是逐车的真实等待时间
type ApproachState struct {
	Queue            int32   // 当前排队车辆数（始终>=0）
	SinceLastArrival float64 // 距上次到达的秒数（到达时清零）
	CongestionT      float64 // 拥堵持续时间（队列清空时清零）
}

// Snapshot 引擎单步输出的状态快照
// 功能：每次Reset/Step/Switch后返回的完整只读状态
type Snapshot struct {
	Clock        int32                      // 已推进的仿真秒数
	CurrentPhase int32                      // 当前相位ID
	TimeInPhase  float64                    // 当前相位已持续的秒数（过渡结束后清零）
	Phases       map[int32][]Approach       // 相位->放行进口道
	Approaches   map[Approach]ApproachState // 进口道状态
	Served       map[Approach]int32         // 本秒各进口道放行的车辆数
}

// Metrics 引擎聚合指标
type Metrics struct {
	AvgWait    float64 // 平均等待时间近似值（秒）
	Throughput float64 // 小时流量（由每秒放行历史外推）
	TotalQueue int32   // 当前总排队车辆数
}

// Action 信控决策动作
type Action string

// 决策动作常量
const (
	ActionHold   Action = "HOLD"   // 保持当前相位
	ActionSwitch Action = "SWITCH" // 切换到目标相位
)

// DemandRow 单个周期单个进口道的聚合需求行
// 功能：传感器生成或录制回放的统一数据行，供离线配时规划使用
type DemandRow struct {
	Cycle    int32    // 周期编号
	Approach Approach // 进口道
	Vehicles float64  // 周期内到达车辆数
	Queue    float64  // 周期末排队估计
}

// ISimEngine 排队引擎接口
// 功能：定义1秒步进仿真引擎的统一契约，flow与mix两个实现均满足
// 说明：所有方法返回最新快照；引擎内部无并发，由调用方逐步驱动
type ISimEngine interface {
	Reset() Snapshot             // 清空全部状态并返回初始快照
	Step(action string) Snapshot // 推进1秒；action为引擎相关的可选指令（如"switch"）
	Switch() Snapshot            // 开始相位切换（黄灯+全红过渡期内为无操作）
	Metrics() Metrics            // 聚合指标
}

// ISignalController 信控决策器接口
// 功能：纯函数式决策，不修改引擎状态，可在同一拍内被重复调用
type ISignalController interface {
	Decide(s Snapshot, currentPhase int32, timeInPhase float64) (Action, int32)
}
