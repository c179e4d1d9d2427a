package xpool

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
)

// maxWorkers worker 数量上限
const maxWorkers = 1 << 16

// Pool 是线程池的提交句柄。
//
// 每个句柄持有一个 sender 引用；通过 [Pool.Clone] 获得的句柄彼此独立。
// 所有句柄都被 [Pool.Close] 释放（或被 GC 回收）后队列关闭，worker 排空队列后退出。
// Pool 的方法可被多个 goroutine 并发调用。
type Pool struct {
	shared  *shared
	sender  *sender
	cleanup runtime.Cleanup
}

// sender 是一个句柄持有的 sender 引用，与 Pool 分离以便在 Pool 被回收时释放。
type sender struct {
	shared   *shared
	released atomic.Bool
}

// release 释放引用，重复调用无效果。
func (snd *sender) release() {
	if !snd.released.CompareAndSwap(false, true) {
		return
	}
	if snd.shared.queue.releaseSender() {
		snd.shared.logger.Debug(context.Background(), "last handle released, queue closed")
	}
}

// New 创建包含 workers 个 worker 的线程池，workers 取值范围 [1, 65536]。
//
// 返回前等待所有 worker 启动。任何一个 worker 启动失败时返回 [*SpawnError]，
// 已启动的 worker 会被释放并等待其退出。
func New(workers int, opts ...Option) (*Pool, error) {
	if workers < 1 || workers > maxWorkers {
		return nil, fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidWorkers, workers, maxWorkers)
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.spawner == nil {
		return nil, ErrNilSpawner
	}

	s := newShared(workers, o)
	// 新建的队列未关闭，acquireSender 不会失败
	_ = s.queue.acquireSender()
	snd := &sender{shared: s}

	for range workers {
		w, err := s.spawnWorker()
		if err != nil {
			snd.release()
			<-s.done
			return nil, err
		}
		<-w.started
	}

	s.logger.Debug(context.Background(), "pool started", slog.Int("workers", workers))
	return newHandle(s, snd), nil
}

func newHandle(s *shared, snd *sender) *Pool {
	p := &Pool{shared: s, sender: snd}
	p.cleanup = runtime.AddCleanup(p, func(snd *sender) { snd.release() }, snd)
	return p
}

// Submit 将任务放入队列，不等待 worker 执行。
//
// 任务最多执行一次；执行中的 panic 不会反馈给调用方。
func (p *Pool) Submit(job Job) error {
	if job == nil {
		return ErrNilJob
	}
	if p.sender.released.Load() {
		return ErrPoolClosed
	}
	err := p.shared.queue.push(job)
	runtime.KeepAlive(p)
	return err
}

// Clone 返回一个新的提交句柄，与原句柄共享同一组 worker 和队列。
func (p *Pool) Clone() (*Pool, error) {
	if p.sender.released.Load() {
		return nil, ErrPoolClosed
	}
	if err := p.shared.queue.acquireSender(); err != nil {
		return nil, err
	}
	c := newHandle(p.shared, &sender{shared: p.shared})
	runtime.KeepAlive(p)
	return c, nil
}

// Close 释放该句柄，之后通过该句柄提交将返回 [ErrPoolClosed]。
// 重复调用安全，始终返回 nil。
func (p *Pool) Close() error {
	p.cleanup.Stop()
	p.sender.release()
	return nil
}

// Shutdown 释放该句柄并等待所有 worker 退出。
//
// 其他句柄仍未释放时队列不会关闭，Shutdown 会一直等待到 ctx 结束。
// 不可在任务内部调用。
func (p *Pool) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	_ = p.Close()
	select {
	case <-p.shared.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done 返回在所有 worker 退出后关闭的 channel。
func (p *Pool) Done() <-chan struct{} {
	return p.shared.done
}

// Size 返回构造时指定的 worker 数量。
func (p *Pool) Size() int {
	return p.shared.size
}

// Stats 返回运行状态快照。
func (p *Pool) Stats() Stats {
	st := p.shared.stats()
	runtime.KeepAlive(p)
	return st
}
