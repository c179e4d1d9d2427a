// Package xrun 基于 errgroup + context 管理进程内多个长期任务的运行与协同退出。
//
// 任一任务返回错误、调用 [Group.Cancel] 或收到终止信号时，共享的 context 被取消，
// 其余任务应监听 ctx.Done() 后返回。
//
//	err := xrun.Run(ctx,
//		xrun.Ticker(time.Second, false, reportStats),
//		watcher.Run,
//	)
//	if errors.Is(err, xrun.ErrSignal) {
//		// 信号退出
//	}
//
// [Group.Wait] 过滤普通的 context.Canceled，但保留通过 Cancel 传入的退出原因
// （例如信号处理设置的 [*SignalError]）。
package xrun
