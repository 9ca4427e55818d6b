package scenario

import (
	"math"

	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/entity"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/utils/randengine"
)

// Sensor 合成需求传感器
// 功能：不运行逐秒引擎，直接合成逐周期的到达数与排队估计
// 说明：同一种子产生同一序列（单实现内可复现）
type Sensor struct {
	cfg       ScenarioConfig
	generator *randengine.Engine
}

// NewSensor 创建合成传感器
// 参数：cfg-场景配置（含种子）
func NewSensor(cfg ScenarioConfig) *Sensor {
	return &Sensor{cfg: cfg, generator: randengine.New(cfg.Seed)}
}

// Cycle 合成单个周期的四条需求行
// 功能：按正弦波动+正态噪声缩放基准到达数，估计周期末排队
// 参数：cycleIndex-周期编号
// 算法说明：
// 1. wave = 1 + variability*sin((cycle+进口道序号)/3)，相邻进口道错开波峰
// 2. noise ~ Normal(0, variability/2)
// 3. vehicles = round(base*max(0.2, wave+noise))，下限保证不出现零流量周期
// 4. queue = max(0, vehicles-0.8*base)，超出八成基准能力的部分视为滞留
func (s *Sensor) Cycle(cycleIndex int32) []entity.DemandRow {
	rows := make([]entity.DemandRow, 0, len(entity.Approaches))
	flow := s.cfg.AlignedFlow()
	for idx, a := range entity.Approaches {
		base := flow[a]
		wave := 1 + s.cfg.Variability*math.Sin(float64(cycleIndex+int32(idx))/3)
		noise := s.generator.Normal(0, s.cfg.Variability/2)
		vehicles := math.Round(base * math.Max(0.2, wave+noise))
		rows = append(rows, entity.DemandRow{
			Cycle:    cycleIndex,
			Approach: a,
			Vehicles: vehicles,
			Queue:    math.Max(0, vehicles-0.8*base),
		})
	}
	return rows
}

// GenerateCycles 合成连续多个周期的需求行
// 参数：cycles-周期数
// 返回：cycles*4条需求行，按周期升序
func (s *Sensor) GenerateCycles(cycles int32) []entity.DemandRow {
	rows := make([]entity.DemandRow, 0, int(cycles)*len(entity.Approaches))
	for cycle := int32(0); cycle < cycles; cycle++ {
		rows = append(rows, s.Cycle(cycle)...)
	}
	return rows
}

// GenerateSensorData 按场景配置合成需求数据
// 功能：一次性构造传感器并合成指定周期数的数据
func GenerateSensorData(cfg ScenarioConfig, cycles int32) []entity.DemandRow {
	return NewSensor(cfg).GenerateCycles(cycles)
}
