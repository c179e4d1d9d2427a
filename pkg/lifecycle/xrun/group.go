package xrun

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xthreadpool/pkg/observability/xlog"
)

// Group 并发运行一组任务，任一任务失败即取消其余任务。
//
// Go、GoWithName、Cancel 可并发调用；Wait 只应调用一次。
type Group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	logger   xlog.Logger
	opts     options
}

// NewGroup 创建 Group，返回的 context 在任一任务失败或 Cancel 后被取消。
// nil ctx 视为 context.Background()。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)
	return &Group{
		eg:       eg,
		ctx:      egCtx,
		causeCtx: causeCtx,
		cancel:   cancel,
		logger:   o.logger.With(slog.String("group", o.name)),
		opts:     o,
	}, egCtx
}

// Go 在新 goroutine 中运行 fn。fn 为 nil 时该任务返回 ErrNilFunc。
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		return fn(g.ctx)
	})
}

// GoWithName 与 Go 相同，并以 name 记录任务的启动和退出。
func (g *Group) GoWithName(name string, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		logger := g.logger.With(slog.String("service", name))
		logger.Debug(g.ctx, "service starting")

		err := fn(g.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn(context.WithoutCancel(g.ctx), "service exited with error", xlog.Err(err))
		} else {
			logger.Debug(context.WithoutCancel(g.ctx), "service stopped")
		}
		return err
	})
}

// Wait 等待所有任务返回。
//
// 返回第一个非 nil 错误。因 Group 自身被取消而产生的 context.Canceled 会被过滤：
// 有显式取消原因时返回该原因，否则返回 nil。任务内部产生的 context.Canceled 原样返回。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil && g.causeCtx.Err() == nil {
		return err
	}
	if g.causeCtx.Err() != nil {
		if cause := context.Cause(g.causeCtx); !errors.Is(cause, context.Canceled) {
			return cause
		}
	}
	return nil
}

// Cancel 取消所有任务，cause 会作为 Wait 的返回值（nil 时 Wait 返回 nil）。
// cause 不应包装 context.Canceled，否则会被当作普通取消过滤。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Context 返回 Group 的 context。
func (g *Group) Context() context.Context {
	return g.ctx
}
