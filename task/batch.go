package task

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/entity"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/plan"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/scenario"
)

// runPlan 离线配时模式
// 功能：获取逐周期需求数据（合成或回放），逐周期规划绿灯分配并输出
// 说明：场景数据来源错误（未知场景、缺录制）按配置错误处理，直接panic，
// 不会静默退回其他场景
func (ctx *Context) runPlan() {
	sc := ctx.runtimeConfig.All.Scenario

	var rows []entity.DemandRow
	if sc.Replay {
		var err error
		rows, err = ctx.scenarios.LoadRecordedCounts(sc.Name)
		if err != nil {
			log.Panicf("load recorded counts: %v", err)
		}
	} else {
		cfg, err := ctx.scenarios.Config(sc.Name)
		if err != nil {
			log.Panicf("scenario config: %v", err)
		}
		desc, _ := ctx.scenarios.Description(sc.Name)
		log.Infof("scenario %q: %s", sc.Name, desc)
		rows = scenario.GenerateSensorData(cfg, sc.Cycles)
	}

	plans := plan.EvaluateSequence(rows, ctx.runtimeConfig.All.Plan)
	for _, p := range plans {
		log.Infof("cycle %d: %s (predicted delay -%.1f%%)", p.Cycle, p.Reason, p.PredictedDelayReductionPct)
	}

	if out := ctx.runtimeConfig.All.Output.File; out != "" {
		if err := ctx.writePlans(out, plans); err != nil {
			log.Panicf("write plans: %v", err)
		}
		log.Infof("run %s: %d plans written to %s", ctx.runID, len(plans), out)
	}
}

// writePlans 将配时方案序列写出为CSV
// 说明：列布局与录制数据一样是平面表格，便于外部工具直接加载
func (ctx *Context) writePlans(path string, plans []plan.CyclePlan) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"cycle", "ns_green", "ew_green", "predicted_delay_reduction_pct", "reason"}); err != nil {
		return err
	}
	for _, p := range plans {
		record := []string{
			fmt.Sprintf("%d", p.Cycle),
			fmt.Sprintf("%.2f", p.NSGreen),
			fmt.Sprintf("%.2f", p.EWGreen),
			fmt.Sprintf("%.2f", p.PredictedDelayReductionPct),
			p.Reason,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}
