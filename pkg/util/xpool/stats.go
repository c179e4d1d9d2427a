package xpool

// Stats 是 pool 运行状态的快照，各字段分别读取，彼此之间不保证同一时刻。
type Stats struct {
	// Workers 存活（含替补中）的 worker 数，正常情况下等于 Size。
	Workers int
	// Idle 正在等待任务的 worker 数。
	Idle int
	// Busy 正在执行任务的 worker 数。
	Busy int
	// Pending 队列中尚未出队的任务数。
	Pending int

	// Submitted 成功入队的任务总数。
	Submitted uint64
	// Completed 正常返回的任务总数。
	Completed uint64
	// Panicked 异常终止（panic 或 runtime.Goexit）的任务总数。
	Panicked uint64
	// Respawned 成功拉起的替补 worker 总数。
	Respawned uint64
	// RespawnFailures 替补启动失败、被放弃的槽位总数。
	RespawnFailures uint64

	// Closed 队列是否已关闭（所有句柄均已释放）。
	Closed bool
}
