// 随机数引擎，包装了golang.org/x/exp/rand，提供仿真所需的各类分布采样
package randengine

import (
	"flag"
	"log"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎
// 功能：提供可复现的随机数生成功能，支持泊松、正态与离散分布
// 说明：基于golang.org/x/exp/rand库，分布采样由gonum的distuv实现
type Engine struct {
	*rand.Rand             // 底层随机数生成器
	src        rand.Source // 底层随机数源，供分布采样复用
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改代码的情况下调整随机数序列
func New(seed uint64) *Engine {
	src := rand.NewSource(seed + *seedOffset)
	return &Engine{Rand: rand.New(src), src: src}
}

// Poisson 按泊松分布生成非负随机整数
// 功能：生成均值为mean的泊松分布随机数，用于每秒车辆到达采样
// 参数：mean-分布均值（到达率，辆/秒）
// 返回：非负随机整数
// 说明：mean<=0时直接返回0（零需求进口道不产生到达）
func (e *Engine) Poisson(mean float64) int32 {
	if mean <= 0 {
		return 0
	}
	return int32(distuv.Poisson{Lambda: mean, Src: e.src}.Rand())
}

// Normal 按正态分布生成随机数
// 功能：生成均值mu、标准差sigma的正态分布随机数
// 说明：sigma<=0时退化为常数mu
func (e *Engine) Normal(mu, sigma float64) float64 {
	if sigma <= 0 {
		return mu
	}
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: e.src}.Rand()
}

// PTrue 以指定概率返回true
// 参数：p-返回true的概率（0.0到1.0之间）
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// DiscreteDistribution 按给定概率分布生成随机数
// 功能：根据权重数组生成离散分布的随机数，用于车型抽样
// 参数：weight-权重数组，每个元素表示对应索引的概率权重
// 返回：随机生成的索引值（0到len(weight)-1）
// 算法说明：
// 1. 计算总权重并在[0, 总权重)范围内生成随机数
// 2. 累积权重直到超过随机数，返回对应索引
// 3. 如果算法异常则panic
func (e *Engine) DiscreteDistribution(weight []float64) int32 {
	random := .0
	for _, w := range weight {
		random += w
	}
	random *= e.Float64()
	sum := 0.
	for i, w := range weight {
		sum += w
		if sum > random {
			return int32(i)
		}
	}
	log.Panicf("randengine: DiscreteDistribution: sum: %f random: %f", sum, random)
	return -1
}
