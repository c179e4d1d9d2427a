package xrun

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// DefaultSignals 返回默认监听的信号：SIGHUP、SIGINT、SIGTERM、SIGQUIT。
// 每次调用返回新的切片。
func DefaultSignals() []os.Signal {
	return []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}
}

// Run 监听信号并运行 services，收到信号时返回 [*SignalError]。
func Run(ctx context.Context, services ...func(ctx context.Context) error) error {
	return RunWithOptions(ctx, nil, services...)
}

// RunWithOptions 与 Run 相同，支持配置选项。
func RunWithOptions(ctx context.Context, opts []Option, services ...func(ctx context.Context) error) error {
	g, _ := NewGroup(ctx, opts...)
	if !g.opts.noSignals {
		signals := g.opts.signals
		// signal.Notify 不带信号会订阅全部信号，空列表按默认处理
		if len(signals) == 0 {
			signals = DefaultSignals()
		}
		g.Go(g.waitSignal(signals))
	}
	for _, svc := range services {
		g.Go(svc)
	}
	return g.Wait()
}

func (g *Group) waitSignal(signals []os.Signal) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, signals...)
		defer signal.Stop(ch)

		var sig os.Signal
		select {
		case sig = <-testSigChan(ctx):
		case sig = <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}

		g.logger.Info(ctx, "received signal", slog.String("signal", sig.String()))
		g.cancel(&SignalError{Signal: sig})
		return nil
	}
}

// testSigChanKey 测试时通过 context 注入信号，避免向进程发送真实信号
type testSigChanKey struct{}

func testSigChan(ctx context.Context) <-chan os.Signal {
	c, _ := ctx.Value(testSigChanKey{}).(<-chan os.Signal)
	return c
}

func withTestSigChan(ctx context.Context, c <-chan os.Signal) context.Context {
	return context.WithValue(ctx, testSigChanKey{}, c)
}
