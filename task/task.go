package task

import (
	"github.com/google/uuid"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/clock"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/entity"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/entity/signal"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/entity/signal/control"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/scenario"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/utils/config"
)

const (
	SelfName = "signal" // 本程序在模拟任务集群中的名字
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态，替代全局变量
// 说明：持有时钟、配置、场景注册表、引擎与决策器；
// 自适应引擎与基线引擎使用相同参数的独立实例，互不共享状态
type Context struct {
	// 任务名
	job string
	// 本次运行的唯一标识，用于输出与日志关联
	runID uuid.UUID

	// 时钟
	clock *clock.Clock
	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig
	// 场景注册表
	scenarios *scenario.Registry

	// 自适应引擎（混合控制器驱动）
	engine entity.ISimEngine
	// 基线引擎（定周期控制器驱动，用于对照）
	baseline entity.ISimEngine
	// 混合控制器
	controller entity.ISignalController
	// 定周期控制器
	fixed entity.ISignalController
}

// NewContext 创建新的仿真任务上下文
// 功能：初始化仿真系统的所有组件和配置
// 参数：job-任务名称，c-配置对象
// 返回：初始化完成的Context实例
// 算法说明：
// 1. 校验配置并生成运行时配置
// 2. 初始化时钟与场景注册表
// 3. 按配置创建两个同参数引擎实例（自适应/基线）
// 4. 创建混合控制器与定周期基线控制器
//    （fixed_green缺省时取配时规划的baseline_green）
func NewContext(job string, c config.Config) *Context {
	rc := config.NewRuntimeConfig(c)
	ctx := &Context{
		job:           job,
		runID:         uuid.New(),
		runtimeConfig: rc,
		scenarios:     scenario.NewRegistry(rc.All.Scenario),
	}
	ctx.clock = clock.New(rc.C.Step)

	ctx.engine = signal.New(ctx)
	ctx.baseline = signal.New(ctx)
	ctx.controller = control.NewHybrid(rc.C.Signal)
	fixedGreen := float64(rc.C.FixedGreen)
	if fixedGreen == 0 {
		fixedGreen = rc.All.Plan.BaselineGreen
	}
	ctx.fixed = control.NewFixedTiming(fixedGreen, fixedGreen)

	return ctx
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Scenarios() *scenario.Registry {
	return ctx.scenarios
}

func (ctx *Context) Engine() entity.ISimEngine {
	return ctx.engine
}

// Run 执行仿真任务
// 功能：按配置的运行模式执行逐秒仿真或离线配时
func (ctx *Context) Run() {
	log.Infof("job %s run %s: mode=%s engine=%s demand=%s",
		ctx.job, ctx.runID, ctx.runtimeConfig.C.Mode, ctx.runtimeConfig.C.Engine, ctx.runtimeConfig.C.Demand)
	switch ctx.runtimeConfig.C.Mode {
	case config.ModeEpisode:
		ctx.runEpisode()
	case config.ModePlan:
		ctx.runPlan()
	default:
		log.Panicf("unknown mode %q", ctx.runtimeConfig.C.Mode)
	}
}
