package signal

import "flag"

var (
	historyWindow = flag.Int("engine.history_window", 3600, "聚合指标的滚动历史窗口（秒）")
)

// ActionForceSwitch Step的可选动作：强制开始相位切换
// 说明：等价于在Step前调用Switch，过渡期内为无操作
const ActionForceSwitch = "switch"

// serviceRate 绿灯进口道每秒放行能力（辆/秒）
const serviceRate int32 = 2

// demandBase 需求档位对应的基准到达率（辆/秒）
var demandBase = map[string]float64{
	"Off-peak": 0.15,
	"Typical":  0.35,
	"Rush":     0.6,
}

// minLambda 进口道到达率下限，避免档位扰动后出现零需求进口道
const minLambda = 0.05

// approachRuntime 单个进口道的运行时数据
type approachRuntime struct {
	queue            int32   // 排队车辆数
	sinceLastArrival float64 // 距上次到达的秒数
	congestionT      float64 // 拥堵持续时间（队列连续非空的秒数）
}

// signalRuntime 信号机运行时数据
// 功能：存储相位、相位持续时间、过渡倒计时与仿真时钟
type signalRuntime struct {
	currentPhase        int32   // 当前相位
	timeInPhase         float64 // 当前相位已持续秒数
	transitionRemaining int32   // 黄灯+全红过渡剩余秒数（0表示正常放行）
	clock               int32   // 已推进的仿真秒数
}
