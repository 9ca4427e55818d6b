package config

// 运行模式常量
const (
	ModeEpisode = "episode" // 逐秒仿真：引擎+混合控制器
	ModePlan    = "plan"    // 离线配时：传感器数据+配时规划
)

// 引擎实现常量
const (
	EngineFlow = "flow" // 需求驱动的最小引擎
	EngineMix  = "mix"  // 车型感知引擎
)

// RuntimeConfig 运行时配置
// 功能：存储校验与补默认值后的配置，供各模块读取
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：补全默认值并校验配置的一致性，非法配置直接panic
// 参数：config-原始配置对象
// 返回：初始化完成的运行时配置指针
// 算法说明：
// 1. 补默认值：模式、引擎、需求档位、信控参数、配时参数、场景参数
// 2. 校验：min_green<max_green、周期与绿灯边界、模式与引擎枚举
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	c := &config.Control
	if c.Mode == "" {
		c.Mode = ModeEpisode
	}
	if c.Mode != ModeEpisode && c.Mode != ModePlan {
		log.Panicf("control.mode must be %s or %s, got %q", ModeEpisode, ModePlan, c.Mode)
	}
	if c.Engine == "" {
		c.Engine = EngineFlow
	}
	if c.Engine != EngineFlow && c.Engine != EngineMix {
		log.Panicf("control.engine must be %s or %s, got %q", EngineFlow, EngineMix, c.Engine)
	}
	if c.Demand == "" {
		c.Demand = "Typical"
	}
	if c.Step.Interval == 0 {
		c.Step.Interval = 1
	}
	if c.Step.Interval != 1 {
		log.Panicf("control.step.interval must be 1 (1-second tick model), got %v", c.Step.Interval)
	}

	s := &c.Signal
	if *s == (Signal{}) {
		*s = Signal{MinGreen: 7, MaxGreen: 40, Gap: 3, MaxWait: 90, Yellow: 3, AllRed: 1}
	}
	if s.MinGreen >= s.MaxGreen {
		log.Panicf("control.signal: min_green %d must be less than max_green %d", s.MinGreen, s.MaxGreen)
	}
	if s.Yellow < 0 || s.AllRed < 0 {
		log.Panicf("control.signal: yellow %d and all_red %d must be non-negative", s.Yellow, s.AllRed)
	}

	p := &config.Plan
	if *p == (Plan{}) {
		*p = Plan{CycleLength: 80, MinGreen: 12, MaxGreen: 55, BaselineGreen: 40, Responsiveness: 0.6}
	}
	if p.MinGreen >= p.MaxGreen {
		log.Panicf("plan: min_green %v must be less than max_green %v", p.MinGreen, p.MaxGreen)
	}
	if p.MaxGreen >= p.CycleLength {
		log.Panicf("plan: max_green %v must be less than cycle_length %v", p.MaxGreen, p.CycleLength)
	}
	if p.Responsiveness < 0 || p.Responsiveness > 1 {
		log.Panicf("plan: responsiveness %v must be within [0,1]", p.Responsiveness)
	}

	sc := &config.Scenario
	if sc.Name == "" {
		sc.Name = "Morning peak"
	}
	if sc.Cycles == 0 {
		sc.Cycles = 12
	}
	if sc.DataDir == "" {
		sc.DataDir = "data/"
	}

	rc.All = config
	rc.C = config.Control

	return rc
}
