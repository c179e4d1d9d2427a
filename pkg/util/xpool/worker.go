package xpool

import (
	"context"
	"runtime"

	"github.com/omeyang/xthreadpool/pkg/observability/xlog"
	"github.com/omeyang/xthreadpool/pkg/observability/xmetrics"
)

// workerState worker 生命周期状态
type workerState int

const (
	// stateIdle 等待接收端或等待任务
	stateIdle workerState = iota
	// stateExecuting 正在执行任务（未持有接收端）
	stateExecuting
	// stateDraining 队列已关闭且已空，准备退出
	stateDraining
	// stateTerminated 已退出
	stateTerminated

	stateCount
)

// worker 是一个执行单元。除 Spawn 之前的初始化外，
// 其字段只由 worker 自身所在的 goroutine 读写。
type worker struct {
	id      uint64
	shared  *shared
	state   workerState
	tid     int
	logger  xlog.Logger
	span    xmetrics.Span
	started chan struct{}
}

func newWorker(s *shared, id uint64) *worker {
	s.states[stateIdle].Add(1)
	return &worker{
		id:      id,
		shared:  s,
		state:   stateIdle,
		logger:  s.logger.With(xlog.WorkerID(id)),
		started: make(chan struct{}),
	}
}

func (w *worker) setState(st workerState) {
	if w.state == st {
		return
	}
	w.shared.states[w.state].Add(-1)
	w.shared.states[st].Add(1)
	w.state = st
}

// run 是 worker 的执行入口，由 Spawner 异步调用。
func (w *worker) run() {
	s := w.shared
	if s.lockOSThread {
		// 不解锁：goroutine 退出时被锁定的 OS 线程随之销毁
		runtime.LockOSThread()
	}
	w.tid = threadID()
	w.logger = w.logger.With(xlog.ThreadID(w.tid))
	w.logger.Debug(context.Background(), "worker started")
	close(w.started)

	g := &guard{w: w, armed: true}
	defer g.release()

	w.loop()
	g.disarm()
}

func (w *worker) loop() {
	for {
		w.setState(stateIdle)
		job, ok := w.shared.next()
		if !ok {
			w.setState(stateDraining)
			return
		}
		w.execute(job)
	}
}

func (w *worker) execute(job Job) {
	s := w.shared
	w.setState(stateExecuting)

	_, span := xmetrics.Start(context.Background(), s.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: "execute",
		Kind:      xmetrics.KindConsumer,
		Attrs:     []xmetrics.Attr{xmetrics.Uint64(xlog.KeyWorkerID, w.id)},
	})
	w.span = span

	job()

	w.span = nil
	span.End(xmetrics.Result{Status: xmetrics.StatusOK})
	s.completed.Add(1)
}
