package xpool

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWorkers 表示 worker 数量超出 [1, 65536]。
	ErrInvalidWorkers = errors.New("xpool: invalid worker count")

	// ErrNilSpawner 表示 WithSpawner 传入了 nil。
	ErrNilSpawner = errors.New("xpool: spawner cannot be nil")

	// ErrSpawnFailed 表示启动 worker 失败，使用 errors.Is 判断 [*SpawnError]。
	ErrSpawnFailed = errors.New("xpool: spawn worker failed")

	// ErrNilJob 表示提交了 nil 任务。
	ErrNilJob = errors.New("xpool: job cannot be nil")

	// ErrPoolClosed 表示句柄已释放或队列已关闭，无法再提交任务。
	ErrPoolClosed = errors.New("xpool: pool is closed")

	// ErrNoWorkers 表示已没有存活 worker 能执行任务（所有槽位替补失败）。
	ErrNoWorkers = errors.New("xpool: no live workers")

	// ErrNilContext 表示 context 参数为 nil。
	ErrNilContext = errors.New("xpool: nil context")
)

// SpawnError 记录启动某个 worker 失败的原因。
type SpawnError struct {
	// WorkerID 启动失败的 worker 序号
	WorkerID uint64
	// Err Spawner 返回的底层错误
	Err error
}

// Error 实现 error 接口。
func (e *SpawnError) Error() string {
	return fmt.Sprintf("xpool: spawn worker %d: %v", e.WorkerID, e.Err)
}

// Is 支持 errors.Is(err, ErrSpawnFailed)。
func (e *SpawnError) Is(target error) bool {
	return target == ErrSpawnFailed
}

// Unwrap 返回底层错误。
func (e *SpawnError) Unwrap() error {
	return e.Err
}
