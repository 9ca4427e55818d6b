package container

// Number History支持的数值类型
type Number interface {
	~int32 | ~int64 | ~float64
}

// History 固定容量的滚动历史窗口
// 功能：记录引擎逐秒指标（放行数、等待近似值），供聚合指标计算
// 说明：写满后覆盖最旧数据；容量<=0属于调用方编程错误，直接panic
type History[T Number] struct {
	data  []T // 环形存储
	next  int // 下一个写入位置
	count int // 已写入的有效元素个数
}

// NewHistory 创建滚动历史窗口
// 参数：capacity-窗口容量（保留最近capacity个样本）
func NewHistory[T Number](capacity int) *History[T] {
	if capacity <= 0 {
		panic("container: History capacity must be positive")
	}
	return &History[T]{data: make([]T, capacity)}
}

// Push 追加一个样本
func (h *History[T]) Push(v T) {
	h.data[h.next] = v
	h.next = (h.next + 1) % len(h.data)
	if h.count < len(h.data) {
		h.count++
	}
}

// Len 获取当前有效样本数
func (h *History[T]) Len() int {
	return h.count
}

// Sum 获取窗口内样本之和
func (h *History[T]) Sum() T {
	var sum T
	for i := 0; i < h.count; i++ {
		sum += h.data[i]
	}
	return sum
}

// Mean 获取窗口内样本均值
// 说明：空窗口返回0（引擎尚未推进时的指标定义值）
func (h *History[T]) Mean() float64 {
	if h.count == 0 {
		return 0
	}
	return float64(h.Sum()) / float64(h.count)
}

// Clear 清空窗口
func (h *History[T]) Clear() {
	h.next = 0
	h.count = 0
}
