package container

import "container/heap"

// item 优先队列中单个元素
type item[T any] struct {
	value    T       // 元素的值
	priority float64 // 优先级（越小越优先）
}

// priorityQueue 实现heap.Interface的内部存储
type priorityQueue[T any] []item[T]

func (pq priorityQueue[T]) Len() int { return len(pq) }

// Less 使用小于号，使得Pop方法返回最低优先级的项（最小堆）
func (pq priorityQueue[T]) Less(i, j int) bool { return pq[i].priority < pq[j].priority }

func (pq priorityQueue[T]) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue[T]) Push(x any) { *pq = append(*pq, x.(item[T])) }

func (pq *priorityQueue[T]) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	*pq = old[:n-1]
	return it
}

// PriorityQueue 优先队列
// 功能：支持先批量Push再Heapify的小顶堆，用于相位压力排序等场景
// 说明：Push阶段不维护堆序，HeapPop前必须先调用Heapify
type PriorityQueue[T any] struct {
	queue priorityQueue[T]
}

// NewPriorityQueue 创建优先队列
func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{queue: make(priorityQueue[T], 0)}
}

// Push 向队列中追加元素（不维护堆序）
// 参数：value-元素值，priority-优先级（越小越优先）
func (pq *PriorityQueue[T]) Push(value T, priority float64) {
	pq.queue = append(pq.queue, item[T]{value: value, priority: priority})
}

// Heapify 将队列整理为堆
func (pq *PriorityQueue[T]) Heapify() {
	heap.Init(&pq.queue)
}

// HeapPop 弹出优先级最小的元素
// 返回：元素值与其优先级
// 说明：空队列弹出属于调用方编程错误，直接panic
func (pq *PriorityQueue[T]) HeapPop() (T, float64) {
	if pq.queue.Len() == 0 {
		panic("container: HeapPop on empty priority queue")
	}
	it := heap.Pop(&pq.queue).(item[T])
	return it.value, it.priority
}

// Len 获取队列长度
func (pq *PriorityQueue[T]) Len() int {
	return pq.queue.Len()
}
