package main

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/omeyang/xthreadpool/pkg/lifecycle/xrun"
	"github.com/omeyang/xthreadpool/pkg/observability/xlog"
	"github.com/omeyang/xthreadpool/pkg/util/xpool"
)

type jobKind int

const (
	jobNormal jobKind = iota
	jobPanic
	jobGoexit
)

// kindOf 返回第 seq 个任务（从 1 开始）的类型：每 PanicEvery 个注入一次 panic，
// 每 GoexitEvery 个注入一次 runtime.Goexit，同时命中时 panic 优先。
func kindOf(seq int64, lc LoadConfig) jobKind {
	switch {
	case lc.PanicEvery > 0 && seq%int64(lc.PanicEvery) == 0:
		return jobPanic
	case lc.GoexitEvery > 0 && seq%int64(lc.GoexitEvery) == 0:
		return jobGoexit
	default:
		return jobNormal
	}
}

// loadGen 生成负载并统计提交与执行结果。
type loadGen struct {
	cfg LoadConfig

	seq      atomic.Int64
	expected atomic.Int64
	executed atomic.Int64
	injected atomic.Int64
	rejected atomic.Int64
}

func newLoadGen(cfg LoadConfig) *loadGen {
	return &loadGen{cfg: cfg}
}

// submit 生成下一个任务并提交；被拒绝的任务不计入 expected。
func (g *loadGen) submit(p *xpool.Pool) error {
	seq := g.seq.Add(1)
	kind := kindOf(seq, g.cfg)

	var job xpool.Job
	switch kind {
	case jobPanic:
		job = func() { panic(fmt.Sprintf("injected panic #%d", seq)) }
	case jobGoexit:
		job = runtime.Goexit
	default:
		latency := g.cfg.JobLatency
		job = func() {
			if latency > 0 {
				time.Sleep(latency)
			}
			g.executed.Add(1)
		}
	}

	if err := p.Submit(job); err != nil {
		g.rejected.Add(1)
		return err
	}
	if kind == jobNormal {
		g.expected.Add(1)
	} else {
		g.injected.Add(1)
	}
	return nil
}

// submitAll 由 submitters 个并发生产者提交共 jobs 个任务，每个生产者使用独立句柄。
func (g *loadGen) submitAll(ctx context.Context, p *xpool.Pool, jobs, submitters int, logger xlog.Logger) error {
	group, ctx := xrun.NewGroup(ctx, xrun.WithName("submitters"), xrun.WithLogger(logger))
	for i := range submitters {
		share := jobs / submitters
		if i < jobs%submitters {
			share++
		}
		h, err := p.Clone()
		if err != nil {
			group.Cancel(err)
			break
		}
		group.GoWithName(fmt.Sprintf("submitter-%d", i), func(ctx context.Context) error {
			defer func() { _ = h.Close() }()
			for range share {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := g.submit(h); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return group.Wait()
}

// lost 返回本应正常完成却未执行的任务数。
func (g *loadGen) lost() int64 {
	return g.expected.Load() - g.executed.Load()
}

// pace 将每秒任务数换算为提交周期和每周期任务数，周期不短于 10ms。
func pace(rate int) (time.Duration, int) {
	const minInterval = 10 * time.Millisecond
	interval := time.Second / time.Duration(rate)
	if interval >= minInterval {
		return interval, 1
	}
	batch := rate / int(time.Second/minInterval)
	return minInterval, max(batch, 1)
}
