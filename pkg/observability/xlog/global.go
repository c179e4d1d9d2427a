package xlog

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// 全局 Logger 面向 CLI、示例等简单场景；库代码应通过选项注入 Logger。

var (
	globalLogger atomic.Pointer[LoggerWithLevel]
	globalMu     sync.Mutex
)

// Default 返回全局默认 Logger
//
// 首次调用时惰性创建（stderr、Info 级别、text 格式）。并发安全。
func Default() LoggerWithLevel {
	if l := globalLogger.Load(); l != nil {
		return *l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if l := globalLogger.Load(); l != nil {
		return *l
	}

	logger, _, err := New().Build()
	if err != nil {
		// 默认参数不应失败；失败时降级为裸 slog handler，不 panic。
		fmt.Fprintf(os.Stderr, "xlog: failed to build default logger: %v, using fallback\n", err)
		logger = &xlogger{
			handler:        slog.NewTextHandler(os.Stderr, nil),
			levelVar:       new(slog.LevelVar),
			errorCount:     new(atomic.Uint64),
			inErrorHandler: new(atomic.Bool),
		}
	}
	globalLogger.Store(&logger)
	return logger
}

// SetDefault 替换全局默认 Logger，nil 会被忽略。
func SetDefault(l LoggerWithLevel) {
	if l == nil {
		return
	}
	globalLogger.Store(&l)
}

// ResetDefault 重置全局 Logger 为未初始化状态（仅用于测试）
func ResetDefault() {
	globalMu.Lock()
	globalLogger.Store(nil)
	globalMu.Unlock()
}
