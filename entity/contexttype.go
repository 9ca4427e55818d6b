package entity

import (
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/clock"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/utils/config"
)

// ITaskContext 任务上下文接口
// 功能：task.Context的依赖倒置，供叶子包获取时钟与运行时配置
type ITaskContext interface {
	Clock() *clock.Clock
	RuntimeConfig() *config.RuntimeConfig
}
