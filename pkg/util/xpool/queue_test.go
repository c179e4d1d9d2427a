package xpool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) *jobQueue {
	t.Helper()
	q := newJobQueue()
	require.NoError(t, q.acquireSender())
	q.attachReceiver()
	return q
}

// tagged 返回把 id 写入 out 的任务
func tagged(id int, out *[]int) Job {
	return func() { *out = append(*out, id) }
}

func TestJobQueue_FIFO(t *testing.T) {
	q := newTestQueue(t)
	var got []int
	for i := range 5 {
		require.NoError(t, q.push(tagged(i, &got)))
	}
	for range 5 {
		job, ok := q.pop()
		require.True(t, ok)
		job()
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Equal(t, 0, q.snapshot().pending)
}

func TestJobQueue_CloseDrainsPending(t *testing.T) {
	q := newTestQueue(t)
	require.NoError(t, q.push(func() {}))
	require.NoError(t, q.push(func() {}))

	assert.True(t, q.releaseSender())
	assert.ErrorIs(t, q.push(func() {}), ErrPoolClosed)

	for range 2 {
		_, ok := q.pop()
		assert.True(t, ok)
	}
	job, ok := q.pop()
	assert.False(t, ok)
	assert.Nil(t, job)
}

func TestJobQueue_SenderRefcount(t *testing.T) {
	q := newTestQueue(t)
	require.NoError(t, q.acquireSender())

	assert.False(t, q.releaseSender(), "one sender still alive")
	assert.False(t, q.snapshot().closed)
	assert.True(t, q.releaseSender())
	assert.True(t, q.snapshot().closed)

	// 多余的释放不改变状态
	assert.False(t, q.releaseSender())
	assert.ErrorIs(t, q.acquireSender(), ErrPoolClosed)
}

func TestJobQueue_NoReceivers(t *testing.T) {
	q := newTestQueue(t)
	assert.Equal(t, 0, q.detachReceiver())
	assert.ErrorIs(t, q.push(func() {}), ErrNoWorkers)
	assert.Equal(t, uint64(0), q.snapshot().pushed)
}

func TestJobQueue_PopBlocksUntilPush(t *testing.T) {
	q := newTestQueue(t)
	got := make(chan bool, 1)
	go func() {
		_, ok := q.pop()
		got <- ok
	}()

	select {
	case <-got:
		t.Fatal("pop returned on empty open queue")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, q.push(func() {}))
	select {
	case ok := <-got:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("pop did not wake after push")
	}
}

func TestJobQueue_PopWakesOnClose(t *testing.T) {
	q := newTestQueue(t)
	got := make(chan bool, 1)
	go func() {
		_, ok := q.pop()
		got <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	q.releaseSender()
	select {
	case ok := <-got:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("pop did not wake after close")
	}
}

func TestJobQueue_CompactKeepsOrder(t *testing.T) {
	q := newTestQueue(t)
	var got []int
	next := 0
	push := func(n int) {
		for range n {
			require.NoError(t, q.push(tagged(next, &got)))
			next++
		}
	}
	pop := func(n int) {
		for range n {
			job, ok := q.pop()
			require.True(t, ok)
			job()
		}
	}

	push(3000)
	pop(2000)
	push(500)
	pop(1500)

	require.Len(t, got, 3500)
	for i, v := range got {
		require.Equal(t, i, v)
	}
	snap := q.snapshot()
	assert.Equal(t, 0, snap.pending)
	assert.Equal(t, uint64(3500), snap.pushed)
}
