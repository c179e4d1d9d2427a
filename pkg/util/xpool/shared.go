package xpool

import (
	"sync"
	"sync/atomic"

	"github.com/omeyang/xthreadpool/pkg/observability/xlog"
	"github.com/omeyang/xthreadpool/pkg/observability/xmetrics"
)

// component 日志与观测中的组件名
const component = "xpool"

// shared 是所有 worker 与句柄共享的 pool 状态。
//
// recvMu 保证同一时刻只有一个 worker 持有队列的接收端：
// 持锁出队，释放锁后再执行任务。生命周期由引用它的 worker 和句柄决定。
type shared struct {
	size          int
	queue         *jobQueue
	recvMu        sync.Mutex
	spawner       Spawner
	logger        xlog.Logger
	observer      xmetrics.Observer
	lockOSThread  bool
	logPanicValue bool

	nextID atomic.Uint64
	states [stateCount]atomic.Int64

	completed       atomic.Uint64
	panicked        atomic.Uint64
	respawned       atomic.Uint64
	respawnFailures atomic.Uint64

	done     chan struct{}
	doneOnce sync.Once
}

func newShared(size int, o options) *shared {
	logger := o.logger.With(xlog.Component(component))
	if o.name != "" {
		logger = logger.With(xlog.Pool(o.name))
	}
	return &shared{
		size:          size,
		queue:         newJobQueue(),
		spawner:       o.spawner,
		logger:        logger,
		observer:      o.observer,
		lockOSThread:  o.lockOSThread,
		logPanicValue: o.logPanicValue,
		done:          make(chan struct{}),
	}
}

// next 独占接收端并阻塞等待下一个任务。
// 锁由 defer 释放，持锁期间的任何退出路径都不会让其他 worker 永久阻塞。
func (s *shared) next() (Job, bool) {
	s.recvMu.Lock()
	defer s.recvMu.Unlock()
	return s.queue.pop()
}

// spawnWorker 登记一个槽位并启动 worker。
// 槽位在 Spawn 之前登记，替补期间存活数不会短暂跌到 N-1 以下。
func (s *shared) spawnWorker() (*worker, error) {
	w := newWorker(s, s.nextID.Add(1))
	s.queue.attachReceiver()
	if err := s.spawner.Spawn(w.run); err != nil {
		w.setState(stateTerminated)
		s.releaseSlot()
		return nil, &SpawnError{WorkerID: w.id, Err: err}
	}
	return w, nil
}

// releaseSlot 注销一个槽位，最后一个槽位释放时关闭 done。
func (s *shared) releaseSlot() {
	if s.queue.detachReceiver() == 0 {
		s.doneOnce.Do(func() { close(s.done) })
	}
}

func (s *shared) stats() Stats {
	q := s.queue.snapshot()
	return Stats{
		Workers:         q.receivers,
		Idle:            int(s.states[stateIdle].Load()),
		Busy:            int(s.states[stateExecuting].Load()),
		Pending:         q.pending,
		Submitted:       q.pushed,
		Completed:       s.completed.Load(),
		Panicked:        s.panicked.Load(),
		Respawned:       s.respawned.Load(),
		RespawnFailures: s.respawnFailures.Load(),
		Closed:          q.closed,
	}
}
