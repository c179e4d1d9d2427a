package xlog

import (
	"log/slog"
	"time"
)

// 常用属性 Key
const (
	KeyError     = "error"
	KeyStack     = "stack"
	KeyDuration  = "duration"
	KeyCount     = "count"
	KeyComponent = "component"
	KeyOperation = "operation"

	// KeyPool 线程池名称
	KeyPool = "pool"
	// KeyWorkerID worker 序号（同一 pool 内单调递增，替补 worker 使用新序号）
	KeyWorkerID = "worker_id"
	// KeyThreadID worker 绑定的操作系统线程 ID（非 Linux 平台为 0）
	KeyThreadID = "thread_id"
	// KeyRunID 一次命令行运行的唯一标识
	KeyRunID = "run_id"
)

// Err 创建错误属性，err 为 nil 时返回空属性（会被 slog 忽略）。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 创建耗时属性，输出人类可读格式（如 "1.5s"）。
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Count 创建计数属性
func Count(n int64) slog.Attr {
	return slog.Int64(KeyCount, n)
}

// Component 创建组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 创建操作名属性
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Pool 创建线程池名称属性
func Pool(name string) slog.Attr {
	return slog.String(KeyPool, name)
}

// WorkerID 创建 worker 序号属性
func WorkerID(id uint64) slog.Attr {
	return slog.Uint64(KeyWorkerID, id)
}

// ThreadID 创建 OS 线程 ID 属性
func ThreadID(tid int) slog.Attr {
	return slog.Int(KeyThreadID, tid)
}

// RunID 创建运行标识属性
func RunID(id string) slog.Attr {
	return slog.String(KeyRunID, id)
}
