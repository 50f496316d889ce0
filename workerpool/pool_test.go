package workerpool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitObservesAllTasksExactlyOnce(t *testing.T) {
	p := New(4)
	var count int64
	const n = 200

	for i := 0; i < n; i++ {
		p.Enqueue(func() {
			atomic.AddInt64(&count, 1)
		})
	}

	p.Wait()
	assert.Equal(t, int64(n), atomic.LoadInt64(&count))
}

func TestPoolBoundsConcurrency(t *testing.T) {
	p := New(2)
	var active, maxActive int64

	for i := 0; i < 10; i++ {
		p.Enqueue(func() {
			cur := atomic.AddInt64(&active, 1)
			for {
				m := atomic.LoadInt64(&maxActive)
				if cur <= m || atomic.CompareAndSwapInt64(&maxActive, m, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&active, -1)
		})
	}

	p.Wait()
	assert.LessOrEqual(t, atomic.LoadInt64(&maxActive), int64(2))
}

func TestStopJoinsWorkers(t *testing.T) {
	p := New(3)
	var count int64
	for i := 0; i < 5; i++ {
		p.Enqueue(func() { atomic.AddInt64(&count, 1) })
	}
	p.Stop()
	assert.Equal(t, int64(5), atomic.LoadInt64(&count))
}

func TestSequentialWaitCalls(t *testing.T) {
	p := New(2)
	var count int64
	for round := 0; round < 3; round++ {
		for i := 0; i < 10; i++ {
			p.Enqueue(func() { atomic.AddInt64(&count, 1) })
		}
		p.Wait()
		assert.Equal(t, int64((round+1)*10), atomic.LoadInt64(&count))
	}
}
