package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/urbanflow-sim-oss/utils/container"
)

func TestHistoryInit(t *testing.T) {
	h := container.NewHistory[int32](4)
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, int32(0), h.Sum())
	assert.Equal(t, 0.0, h.Mean())

	assert.Panics(t, func() { container.NewHistory[float64](0) })
}

func TestHistoryRolling(t *testing.T) {
	h := container.NewHistory[int32](3)

	// test: partial fill
	h.Push(1)
	h.Push(2)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, int32(3), h.Sum())
	assert.Equal(t, 1.5, h.Mean())

	// test: overwrite oldest
	h.Push(3)
	h.Push(10) // 覆盖1
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, int32(15), h.Sum())
	assert.Equal(t, 5.0, h.Mean())

	// test: clear
	h.Clear()
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 0.0, h.Mean())
}

func TestPriorityQueue(t *testing.T) {
	pq := container.NewPriorityQueue[int32]()
	pq.Push(0, -3)
	pq.Push(1, -7)
	pq.Heapify()
	assert.Equal(t, 2, pq.Len())

	v, p := pq.HeapPop()
	assert.Equal(t, int32(1), v)
	assert.Equal(t, -7.0, p)
	v, _ = pq.HeapPop()
	assert.Equal(t, int32(0), v)

	assert.Panics(t, func() { pq.HeapPop() })
}
