package signal

import (
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/entity"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/utils/config"
)

// New 按配置创建排队引擎
// 功能：根据control.engine选择引擎实现，两个实现满足同一契约
// 参数：ctx-任务上下文
// 返回：排队引擎实例
// 说明：未知引擎名在配置校验阶段已被拦截，这里再次panic兜底
func New(ctx entity.ITaskContext) entity.ISimEngine {
	c := ctx.RuntimeConfig().C
	switch c.Engine {
	case config.EngineFlow:
		return NewFlowEngine(c.Signal, c.Demand, c.Seed)
	case config.EngineMix:
		return NewMixEngine(c.Signal, c.Demand, c.Seed)
	default:
		log.Panicf("unknown engine kind %q", c.Engine)
		return nil
	}
}
