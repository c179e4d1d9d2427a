package xpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/omeyang/xthreadpool/pkg/observability/xlog"
	"github.com/omeyang/xthreadpool/pkg/observability/xmetrics"
)

// errJobTerminated 记录在异常终止任务的观测跨度上
var errJobTerminated = errors.New("xpool: job terminated abnormally")

// guard 是 worker 的恢复守卫。
//
// worker 启动时创建并以 defer 注册，release 在 worker 的每条退出路径上运行：
// 正常返回、panic、runtime.Goexit。只有走到 loop 正常结束的路径才会 disarm；
// 仍处于 armed 状态说明 worker 异常终止，release 在退出前拉起一个替补。
type guard struct {
	w     *worker
	armed bool
}

func (g *guard) disarm() {
	g.armed = false
}

// release 必须由 defer 直接调用，recover 才能生效。
func (g *guard) release() {
	w := g.w
	s := w.shared
	ctx := context.Background()

	if !g.armed {
		w.setState(stateTerminated)
		s.releaseSlot()
		w.logger.Debug(ctx, "worker exited")
		return
	}

	r := recover()
	g.report(ctx, r)

	// 先登记替补再注销自身，存活数不会出现 N-1 的空窗
	_, span := xmetrics.Start(ctx, s.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: "respawn",
		Kind:      xmetrics.KindInternal,
		Attrs:     []xmetrics.Attr{xmetrics.Uint64(xlog.KeyWorkerID, w.id)},
	})
	replacement, err := s.spawnWorker()
	span.End(xmetrics.Result{Err: err})
	if err != nil {
		s.respawnFailures.Add(1)
		q := s.queue.snapshot()
		w.logger.Error(ctx, "respawn worker failed, slot abandoned",
			xlog.Err(err),
			slog.Int("live_workers", q.receivers-1),
			slog.Int("pending", q.pending),
		)
	} else {
		s.respawned.Add(1)
		w.logger.Info(ctx, "worker respawned",
			slog.Uint64("replacement_id", replacement.id),
		)
	}

	w.setState(stateTerminated)
	s.releaseSlot()
}

// report 记录异常终止原因并结束任务跨度。
// 在 recover 所在的 defer 中调用，日志中的调用栈包含 panic 发生位置。
func (g *guard) report(ctx context.Context, r any) {
	w := g.w
	s := w.shared
	s.panicked.Add(1)

	var attrs []slog.Attr
	spanAttrs := []xmetrics.Attr{xmetrics.Bool("goexit", r == nil)}
	if r != nil {
		typ := fmt.Sprintf("%T", r)
		attrs = append(attrs, slog.String("panic_type", typ))
		spanAttrs = append(spanAttrs, xmetrics.String("panic_type", typ))
		if s.logPanicValue {
			attrs = append(attrs, slog.Any("panic", r))
		}
		w.logger.Stack(ctx, "job panicked, worker terminated", attrs...)
	} else {
		w.logger.Stack(ctx, "job called runtime.Goexit, worker terminated")
	}

	if w.span != nil {
		w.span.End(xmetrics.Result{
			Status: xmetrics.StatusPanic,
			Err:    errJobTerminated,
			Attrs:  spanAttrs,
		})
		w.span = nil
	}
}
