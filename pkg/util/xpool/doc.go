// Package xpool 提供固定大小、可自愈的共享队列线程池。
//
// Pool 启动固定数量的 worker，worker 共享同一个无界 FIFO 任务队列，
// 以"持锁取任务、释放锁后执行"的方式竞争出队，保证每个任务恰好交给一个 worker。
//
// # 特性
//
//   - 任务为 fire-and-forget 的 [Job]（func()），不返回结果
//   - 队列无界，Submit 永不因 worker 繁忙而阻塞
//   - 自愈：任务 panic 或调用 runtime.Goexit 导致 worker 异常终止时，
//     该 worker 自身的恢复守卫在退出路径上拉起一个替补 worker，
//     pool 的 worker 数保持为 N，无需监控 goroutine
//   - 默认每个 worker 通过 runtime.LockOSThread 独占一个 OS 线程；
//     异常终止的 worker 退出时其线程随之销毁
//   - 无需显式关闭协议：释放最后一个句柄（[Pool.Close]，或句柄被 GC 回收）即关闭队列，
//     worker 处理完队列中剩余任务后自行退出
//   - 可注入日志（[WithLogger]）、观测（[WithObserver]）和执行单元启动方式（[WithSpawner]）
//
// # 使用示例
//
//	pool, err := xpool.New(4)
//	if err != nil {
//		return err
//	}
//	for i := range 100 {
//		_ = pool.Submit(func() { handle(i) })
//	}
//	// 释放句柄并等待队列排空
//	_ = pool.Shutdown(ctx)
//
// # 错误语义
//
//   - 构造错误：[ErrInvalidWorkers]、[ErrNilSpawner]、[*SpawnError]（errors.Is [ErrSpawnFailed]）
//   - 提交错误：[ErrNilJob]、[ErrPoolClosed]（句柄已释放）、[ErrNoWorkers]（已无存活 worker）
//   - 任务异常终止不会反馈给提交方，只记录日志与计数
//
// # 替补失败
//
// 替补 worker 启动失败时没有调用方可以接收错误。xpool 的处理方式是记录错误日志
// 并放弃该槽位：[Stats].RespawnFailures 加一，存活 worker 数减一。最后一个槽位
// 也丢失后，Submit 返回 [ErrNoWorkers]，[Pool.Done] 关闭，队列中未执行的任务被丢弃。
//
// # 注意事项
//
//   - 不可在任务内部调用 Shutdown 等待自身所在的 pool，否则会死锁
//   - panic 日志默认只记录 panic 值的类型，可通过 [WithLogPanicValue] 输出完整值
//   - 任务之间不保证全局顺序，仅保证队列按入队顺序出队
package xpool
