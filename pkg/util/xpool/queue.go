package xpool

import "sync"

// compactThreshold 已出队槽位超过该值且占一半以上时整理底层切片
const compactThreshold = 1024

// jobQueue 无界多生产者 FIFO 任务队列。
//
// 生产者通过 sender 引用计数持有队列；最后一个 sender 释放后队列关闭，
// 已入队的任务仍可被取出。receiver 计数即存活 worker 数，降为 0 后拒绝入队。
type jobQueue struct {
	mu        sync.Mutex
	ready     *sync.Cond
	items     []Job
	head      int
	closed    bool
	senders   int
	receivers int
	pushed    uint64
}

func newJobQueue() *jobQueue {
	q := &jobQueue{}
	q.ready = sync.NewCond(&q.mu)
	return q
}

// acquireSender 增加一个 sender 引用，队列已关闭时返回 ErrPoolClosed。
func (q *jobQueue) acquireSender() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrPoolClosed
	}
	q.senders++
	return nil
}

// releaseSender 释放一个 sender 引用，返回本次释放是否关闭了队列。
func (q *jobQueue) releaseSender() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.senders == 0 {
		return false
	}
	q.senders--
	if q.senders > 0 || q.closed {
		return false
	}
	q.closed = true
	q.ready.Broadcast()
	return true
}

// attachReceiver 登记一个存活 worker。
func (q *jobQueue) attachReceiver() {
	q.mu.Lock()
	q.receivers++
	q.mu.Unlock()
}

// detachReceiver 注销一个存活 worker，返回剩余数量。
func (q *jobQueue) detachReceiver() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.receivers--
	return q.receivers
}

// push 入队，不等待 worker。
func (q *jobQueue) push(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrPoolClosed
	}
	if q.receivers == 0 {
		return ErrNoWorkers
	}
	q.items = append(q.items, job)
	q.pushed++
	q.ready.Signal()
	return nil
}

// pop 阻塞直到取得任务，或队列已关闭且为空（返回 false）。
func (q *jobQueue) pop() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.head == len(q.items) && !q.closed {
		q.ready.Wait()
	}
	if q.head == len(q.items) {
		return nil, false
	}

	job := q.items[q.head]
	q.items[q.head] = nil
	q.head++

	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head > compactThreshold && q.head*2 > len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return job, true
}

// queueSnapshot 是 jobQueue 在同一把锁下读取的状态。
type queueSnapshot struct {
	pending   int
	receivers int
	pushed    uint64
	closed    bool
}

func (q *jobQueue) snapshot() queueSnapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return queueSnapshot{
		pending:   len(q.items) - q.head,
		receivers: q.receivers,
		pushed:    q.pushed,
		closed:    q.closed,
	}
}
